package dice

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// RandomSource supplies die faces. *math/rand.Rand satisfies it.
type RandomSource interface {
	// Intn returns a uniform value in [0, n).
	Intn(n int) int
}

// Limits bound the work a single evaluation may perform.
type Limits struct {
	// MaxDice caps the dice count of a single term.
	MaxDice int
	// MaxSides caps the sides of a single term.
	MaxSides int
	// MaxIterations caps explosions per term and rerolls per die.
	MaxIterations int
}

// DefaultLimits are used by Evaluate and Roll.
var DefaultLimits = Limits{
	MaxDice:       1000,
	MaxSides:      1000,
	MaxIterations: DefaultMaxIterations,
}

// Evaluator evaluates parsed expressions under a set of Limits.
type Evaluator struct {
	Limits Limits
}

// Evaluate evaluates expr with DefaultLimits.
func Evaluate(expr Expr, rng RandomSource) (Result, error) {
	return Evaluator{Limits: DefaultLimits}.Evaluate(expr, rng)
}

// Evaluate draws dice for every term of expr from rng and folds the tree into
// a total.
//
// # Determinism
//
// Terms are evaluated left to right and each die is drawn in order, so a
// deterministic rng yields identical results for identical expressions.
//
// # Errors
//
// Evaluate fails with *EvalError when a term exceeds the limits, when a
// division has a zero divisor, or when the arithmetic overflows. There is no
// partial result on failure. A nil expr or rng fails with ErrNilExpression or
// ErrNilRandomSource, which are not EngineErrors.
func (e Evaluator) Evaluate(expr Expr, rng RandomSource) (Result, error) {
	if expr == nil {
		return Result{}, ErrNilExpression
	}
	if rng == nil {
		return Result{}, ErrNilRandomSource
	}

	ev := &evaluation{limits: e.Limits.withDefaults(), rng: rng}
	total, text, err := ev.eval(expr)
	if err != nil {
		return Result{}, err
	}

	if total > math.MaxInt || total < math.MinInt {
		return Result{}, &EvalError{Reason: ReasonOverflow, Pos: expr.Position()}
	}

	value := strconv.FormatInt(total, 10)
	return Result{
		Notation:  Render(expr),
		Total:     int(total),
		Traces:    ev.traces,
		Breakdown: text + "=" + value,
	}, nil
}

func (l Limits) withDefaults() Limits {
	if l.MaxDice <= 0 {
		l.MaxDice = DefaultLimits.MaxDice
	}
	if l.MaxSides <= 0 {
		l.MaxSides = DefaultLimits.MaxSides
	}
	if l.MaxIterations <= 0 {
		l.MaxIterations = DefaultLimits.MaxIterations
	}
	return l
}

type evaluation struct {
	limits Limits
	rng    RandomSource
	traces []RollTrace
}

// eval returns the value of expr and its rendered breakdown.
func (ev *evaluation) eval(expr Expr) (int64, string, error) {
	switch node := expr.(type) {
	case *Literal:
		return int64(node.Value), strconv.Itoa(node.Value), nil

	case *DiceTerm:
		trace, err := ev.rollTerm(node)
		if err != nil {
			return 0, "", err
		}
		ev.traces = append(ev.traces, trace)
		return int64(trace.Total), trace.Spec + "[" + renderDraws(trace.Draws) + "]", nil

	case *Grouping:
		value, text, err := ev.eval(node.Inner)
		if err != nil {
			return 0, "", err
		}
		return value, "(" + text + ")", nil

	case *Negation:
		value, text, err := ev.eval(node.Operand)
		if err != nil {
			return 0, "", err
		}
		if value == math.MinInt64 {
			return 0, "", &EvalError{Reason: ReasonOverflow, Pos: node.Pos}
		}
		return -value, "-" + text, nil

	case *BinaryOp:
		left, leftText, err := ev.eval(node.Left)
		if err != nil {
			return 0, "", err
		}
		right, rightText, err := ev.eval(node.Right)
		if err != nil {
			return 0, "", err
		}
		value, err := apply(node, left, right)
		if err != nil {
			return 0, "", err
		}
		return value, leftText + node.Op.String() + rightText, nil

	default:
		panic(fmt.Sprintf("dice: unhandled expression %T", expr))
	}
}

func (ev *evaluation) rollTerm(term *DiceTerm) (RollTrace, error) {
	if term.Count > ev.limits.MaxDice {
		return RollTrace{}, &EvalError{Reason: ReasonTooManyDice, Pos: term.Pos, Limit: ev.limits.MaxDice, Got: term.Count}
	}
	if term.Sides > ev.limits.MaxSides {
		return RollTrace{}, &EvalError{Reason: ReasonTooManySides, Pos: term.Pos, Limit: ev.limits.MaxSides, Got: term.Sides}
	}

	draws := make([]DieDraw, term.Count)
	for i := range draws {
		draws[i] = DieDraw{Value: rollDie(ev.rng, term.Sides), Kept: true}
	}

	for _, mod := range term.Modifiers {
		switch m := mod.(type) {
		case Reroll:
			draws = ev.reroll(draws, term.Sides, m.Threshold, ev.iterations(m.MaxRerolls))
		case Explode:
			draws = ev.explode(draws, term.Sides, m.Threshold, ev.iterations(m.MaxIterations))
		case KeepHighest:
			selectDraws(draws, m.N, keepHead)
		case KeepLowest:
			selectDraws(draws, m.N, keepTail)
		case DropHighest:
			selectDraws(draws, m.N, dropHead)
		case DropLowest:
			selectDraws(draws, m.N, dropTail)
		default:
			panic(fmt.Sprintf("dice: unhandled modifier %T", mod))
		}
	}

	total := 0
	for _, draw := range draws {
		if draw.Kept {
			total += draw.Value
		}
	}

	return RollTrace{
		Spec:  renderTerm(term),
		Count: term.Count,
		Sides: term.Sides,
		Draws: draws,
		Total: total,
	}, nil
}

// iterations clamps a modifier's own bound to the evaluator ceiling.
func (ev *evaluation) iterations(requested int) int {
	if requested <= 0 || requested > ev.limits.MaxIterations {
		return ev.limits.MaxIterations
	}
	return requested
}

// reroll replaces each kept draw at or below threshold. The replaced draw
// stays in the trace, unkept and marked rerolled, directly before its
// replacement.
func (ev *evaluation) reroll(draws []DieDraw, sides, threshold, limit int) []DieDraw {
	out := make([]DieDraw, 0, len(draws))
	for _, draw := range draws {
		if !draw.Kept || draw.Value > threshold {
			out = append(out, draw)
			continue
		}
		current := draw
		for n := 0; current.Value <= threshold && n < limit; n++ {
			current.Rerolled = true
			current.Kept = false
			out = append(out, current)
			current = DieDraw{Value: rollDie(ev.rng, sides), Kept: true}
		}
		out = append(out, current)
	}
	return out
}

// explode appends one draw for each kept draw at or above threshold, including
// the appended draws themselves, until limit draws were added.
func (ev *evaluation) explode(draws []DieDraw, sides, threshold, limit int) []DieDraw {
	added := 0
	for i := 0; i < len(draws) && added < limit; i++ {
		if !draws[i].Kept || draws[i].Exploded || draws[i].Value < threshold {
			continue
		}
		draws[i].Exploded = true
		draws = append(draws, DieDraw{Value: rollDie(ev.rng, sides), Kept: true})
		added++
	}
	return draws
}

type selection int

const (
	keepHead selection = iota
	keepTail
	dropHead
	dropTail
)

// selectDraws ranks kept draws from highest to lowest, earlier draws first
// on ties, and unkeeps the draws outside the selection.
func selectDraws(draws []DieDraw, n int, mode selection) {
	ranked := make([]int, 0, len(draws))
	for i, draw := range draws {
		if draw.Kept {
			ranked = append(ranked, i)
		}
	}
	slices.SortStableFunc(ranked, func(a, b int) int {
		return cmp.Compare(draws[b].Value, draws[a].Value)
	})

	n = min(max(n, 0), len(ranked))
	var dropped []int
	switch mode {
	case keepHead:
		dropped = ranked[n:]
	case keepTail:
		dropped = ranked[:len(ranked)-n]
	case dropHead:
		dropped = ranked[:n]
	case dropTail:
		dropped = ranked[len(ranked)-n:]
	}
	for _, i := range dropped {
		draws[i].Kept = false
	}
}

func apply(node *BinaryOp, left, right int64) (int64, error) {
	overflow := &EvalError{Reason: ReasonOverflow, Pos: node.Pos}
	switch node.Op {
	case OpAdd:
		sum := left + right
		if (left > 0 && right > 0 && sum < 0) || (left < 0 && right < 0 && sum >= 0) {
			return 0, overflow
		}
		return sum, nil
	case OpSub:
		if (right < 0 && left > math.MaxInt64+right) || (right > 0 && left < math.MinInt64+right) {
			return 0, overflow
		}
		return left - right, nil
	case OpMul:
		if left == 0 || right == 0 {
			return 0, nil
		}
		product := left * right
		if product/right != left || (left == -1 && right == math.MinInt64) || (right == -1 && left == math.MinInt64) {
			return 0, overflow
		}
		return product, nil
	case OpDiv:
		if right == 0 {
			return 0, &EvalError{Reason: ReasonDivisionByZero, Pos: node.Pos}
		}
		if left == math.MinInt64 && right == -1 {
			return 0, overflow
		}
		return left / right, nil
	default:
		panic(fmt.Sprintf("dice: unhandled operator %q", node.Op))
	}
}

func renderDraws(draws []DieDraw) string {
	parts := make([]string, len(draws))
	for i, draw := range draws {
		text := strconv.Itoa(draw.Value)
		if draw.Exploded {
			text += "!"
		}
		if draw.Rerolled {
			text += "r"
		}
		if !draw.Kept {
			text = "~~" + text + "~~"
		}
		parts[i] = text
	}
	return strings.Join(parts, ",")
}
