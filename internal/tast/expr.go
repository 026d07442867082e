package tast

import (
	"kiln/internal/mono"
	"kiln/internal/source"
	"kiln/internal/symbols"
	"kiln/internal/types"
)

// ExprKind enumerates typed-tree expression kinds.
type ExprKind uint8

const (
	// ExprLiteral represents literals (bool, int, uint, float).
	ExprLiteral ExprKind = iota
	// ExprLocal represents a reference to a local binding or parameter.
	ExprLocal
	// ExprUnary represents unary operators (-, !).
	ExprUnary
	// ExprBinary represents binary operators including comparisons.
	ExprBinary
	// ExprCall represents a direct call to a module-level function.
	ExprCall
	// ExprMethodCall represents a call to a method of a generic receiver
	// such as TaskHandle[T].join or Channel[T].send.
	ExprMethodCall
	// ExprField represents struct field access (expr.field).
	ExprField
	// ExprClosure represents a closure literal with its own scope.
	ExprClosure
	// ExprSpawn represents spawning a closure onto a new task.
	ExprSpawn
)

// String returns a human-readable name for the expression kind.
func (k ExprKind) String() string {
	switch k {
	case ExprLiteral:
		return "Literal"
	case ExprLocal:
		return "Local"
	case ExprUnary:
		return "Unary"
	case ExprBinary:
		return "Binary"
	case ExprCall:
		return "Call"
	case ExprMethodCall:
		return "MethodCall"
	case ExprField:
		return "Field"
	case ExprClosure:
		return "Closure"
	case ExprSpawn:
		return "Spawn"
	default:
		return "Unknown"
	}
}

// Expr is a type-checked expression. Type is always filled by the front
// end's checker before the tree reaches lowering.
type Expr struct {
	Kind ExprKind
	Type types.TypeID
	Span source.Span
	Data ExprData
}

// ExprData is the interface for expression-specific payloads.
type ExprData interface {
	exprData()
}

// LiteralKind enumerates literal value kinds.
type LiteralKind uint8

const (
	LiteralBool LiteralKind = iota
	LiteralInt
	LiteralUint
	LiteralFloat
)

// LiteralData holds data for ExprLiteral.
type LiteralData struct {
	Kind       LiteralKind
	BoolValue  bool
	IntValue   int64
	UintValue  uint64
	FloatValue float64
}

func (LiteralData) exprData() {}

// LocalData holds data for ExprLocal.
type LocalData struct {
	Name string
	Sym  symbols.SymbolID
}

func (LocalData) exprData() {}

// UnaryData holds data for ExprUnary.
type UnaryData struct {
	Op      UnOp
	Operand *Expr
}

func (UnaryData) exprData() {}

// BinaryData holds data for ExprBinary.
type BinaryData struct {
	Op    BinOp
	Left  *Expr
	Right *Expr
}

func (BinaryData) exprData() {}

// CallData holds data for ExprCall. Callee is resolved by name against
// the module's functions during lowering.
type CallData struct {
	Callee string
	Args   []*Expr
}

func (CallData) exprData() {}

// MethodCallData holds data for ExprMethodCall. Receiver and Method carry
// the generic shape exactly as the checker recorded it; lowering resolves
// the concrete signature through the substitution engine.
type MethodCallData struct {
	Recv     *Expr
	Receiver mono.ReceiverInstance
	Method   mono.MethodSig
	Args     []*Expr
}

func (MethodCallData) exprData() {}

// FieldData holds data for ExprField.
type FieldData struct {
	Object *Expr
	Name   string
	Index  int
}

func (FieldData) exprData() {}

// ClosureData holds data for ExprClosure. Scope is the closure's own
// lexical scope; names not bound there resolve through enclosing scopes
// and become captures.
type ClosureData struct {
	Params []Param
	Result types.TypeID
	Scope  symbols.ScopeID
	Body   *Block
}

func (ClosureData) exprData() {}

// SpawnData holds data for ExprSpawn. The closure must take no
// parameters; its result becomes the element type of the task handle.
type SpawnData struct {
	Closure *Expr
}

func (SpawnData) exprData() {}
