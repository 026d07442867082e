package tast

import (
	"kiln/internal/source"
	"kiln/internal/symbols"
	"kiln/internal/types"
)

// StmtKind enumerates typed-tree statement kinds.
type StmtKind uint8

const (
	// StmtVar represents a variable declaration with initializer.
	StmtVar StmtKind = iota
	// StmtAssign represents assignment to a local binding.
	StmtAssign
	// StmtExpr represents an expression statement.
	StmtExpr
	// StmtReturn represents a return statement.
	StmtReturn
	// StmtIf represents if/else.
	StmtIf
	// StmtWhile represents a while loop.
	StmtWhile
	// StmtBlock represents a nested block with its own scope.
	StmtBlock
)

// String returns a human-readable name for the statement kind.
func (k StmtKind) String() string {
	switch k {
	case StmtVar:
		return "Var"
	case StmtAssign:
		return "Assign"
	case StmtExpr:
		return "Expr"
	case StmtReturn:
		return "Return"
	case StmtIf:
		return "If"
	case StmtWhile:
		return "While"
	case StmtBlock:
		return "Block"
	default:
		return "Unknown"
	}
}

// Stmt is a type-checked statement.
type Stmt struct {
	Kind StmtKind
	Span source.Span
	Data StmtData
}

// StmtData is the interface for statement-specific payloads.
type StmtData interface {
	stmtData()
}

// VarData holds data for StmtVar.
type VarData struct {
	Name  string
	Sym   symbols.SymbolID
	Type  types.TypeID
	Value *Expr
}

func (VarData) stmtData() {}

// AssignData holds data for StmtAssign.
type AssignData struct {
	Name  string
	Sym   symbols.SymbolID
	Value *Expr
}

func (AssignData) stmtData() {}

// ExprStmtData holds data for StmtExpr.
type ExprStmtData struct {
	Expr *Expr
}

func (ExprStmtData) stmtData() {}

// ReturnData holds data for StmtReturn. Value is nil for a bare return.
type ReturnData struct {
	Value *Expr
}

func (ReturnData) stmtData() {}

// IfData holds data for StmtIf. Else is nil when absent.
type IfData struct {
	Cond *Expr
	Then *Block
	Else *Block
}

func (IfData) stmtData() {}

// WhileData holds data for StmtWhile.
type WhileData struct {
	Cond *Expr
	Body *Block
}

func (WhileData) stmtData() {}

// BlockStmtData holds data for StmtBlock.
type BlockStmtData struct {
	Block *Block
}

func (BlockStmtData) stmtData() {}
