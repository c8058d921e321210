package dice

// Expr is a node of a parsed dice expression.
//
// The set of node types is closed: *Literal, *DiceTerm, *BinaryOp,
// *Grouping and *Negation. Every node owns its children exclusively.
type Expr interface {
	// Position returns the byte offset where the node starts in the notation.
	Position() int
	exprNode()
}

// Literal is a bare integer.
type Literal struct {
	Value int
	Pos   int
}

// DiceTerm rolls Count dice with Sides faces and applies Modifiers in order.
type DiceTerm struct {
	Count     int
	Sides     int
	Modifiers []Modifier
	Pos       int
}

// Operator is a binary arithmetic operator.
type Operator byte

const (
	OpAdd Operator = '+'
	OpSub Operator = '-'
	OpMul Operator = '*'
	OpDiv Operator = '/'
)

func (o Operator) String() string { return string(rune(o)) }

// BinaryOp combines the totals of two expressions.
type BinaryOp struct {
	Op    Operator
	Left  Expr
	Right Expr
	Pos   int
}

// Grouping is a parenthesized expression.
type Grouping struct {
	Inner Expr
	Pos   int
}

// Negation is a unary minus.
type Negation struct {
	Operand Expr
	Pos     int
}

func (n *Literal) Position() int  { return n.Pos }
func (n *DiceTerm) Position() int { return n.Pos }
func (n *BinaryOp) Position() int { return n.Pos }
func (n *Grouping) Position() int { return n.Pos }
func (n *Negation) Position() int { return n.Pos }

func (*Literal) exprNode()  {}
func (*DiceTerm) exprNode() {}
func (*BinaryOp) exprNode() {}
func (*Grouping) exprNode() {}
func (*Negation) exprNode() {}

// DefaultMaxIterations bounds explode and reroll loops when the notation does
// not say otherwise.
const DefaultMaxIterations = 100

// Modifier alters the draws of a DiceTerm.
//
// The set of modifiers is closed: KeepHighest, KeepLowest, DropHighest,
// DropLowest, Explode and Reroll.
type Modifier interface {
	modifier()
}

// KeepHighest keeps the N highest draws.
type KeepHighest struct{ N int }

// KeepLowest keeps the N lowest draws.
type KeepLowest struct{ N int }

// DropHighest discards the N highest draws.
type DropHighest struct{ N int }

// DropLowest discards the N lowest draws.
type DropLowest struct{ N int }

// Explode adds a draw for every draw at or above Threshold, at most
// MaxIterations extra draws per term.
type Explode struct {
	Threshold     int
	MaxIterations int
}

// Reroll replaces draws at or below Threshold, at most MaxRerolls times per die.
type Reroll struct {
	Threshold  int
	MaxRerolls int
}

func (KeepHighest) modifier() {}
func (KeepLowest) modifier()  {}
func (DropHighest) modifier() {}
func (DropLowest) modifier()  {}
func (Explode) modifier()     {}
func (Reroll) modifier()      {}
