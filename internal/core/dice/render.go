package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Render returns the canonical notation of expr, without any draws.
//
// Implicit counts are written out ("d6" renders as "1d6"), percentile dice
// render as "1d100", and default thresholds are omitted. Parsing the rendered
// notation yields a tree with the same shape and values.
func Render(expr Expr) string {
	var b strings.Builder
	renderExpr(&b, expr)
	return b.String()
}

func renderExpr(b *strings.Builder, expr Expr) {
	switch node := expr.(type) {
	case *Literal:
		b.WriteString(strconv.Itoa(node.Value))
	case *DiceTerm:
		b.WriteString(renderTerm(node))
	case *Grouping:
		b.WriteByte('(')
		renderExpr(b, node.Inner)
		b.WriteByte(')')
	case *Negation:
		b.WriteByte('-')
		renderExpr(b, node.Operand)
	case *BinaryOp:
		renderExpr(b, node.Left)
		b.WriteString(node.Op.String())
		renderExpr(b, node.Right)
	case nil:
	default:
		panic(fmt.Sprintf("dice: unhandled expression %T", expr))
	}
}

func renderTerm(term *DiceTerm) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(term.Count))
	b.WriteByte('d')
	b.WriteString(strconv.Itoa(term.Sides))
	for _, mod := range term.Modifiers {
		b.WriteString(renderModifier(mod, term.Sides))
	}
	return b.String()
}

func renderModifier(mod Modifier, sides int) string {
	switch m := mod.(type) {
	case KeepHighest:
		return "kh" + strconv.Itoa(m.N)
	case KeepLowest:
		return "kl" + strconv.Itoa(m.N)
	case DropHighest:
		return "dh" + strconv.Itoa(m.N)
	case DropLowest:
		return "dl" + strconv.Itoa(m.N)
	case Explode:
		if m.Threshold == sides {
			return "!"
		}
		return "!>" + strconv.Itoa(m.Threshold)
	case Reroll:
		if m.Threshold == 1 {
			return "r"
		}
		return "r<" + strconv.Itoa(m.Threshold)
	default:
		panic(fmt.Sprintf("dice: unhandled modifier %T", mod))
	}
}
