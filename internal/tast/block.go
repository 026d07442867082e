package tast

import (
	"kiln/internal/source"
	"kiln/internal/symbols"
)

// Block is a sequence of statements sharing one lexical scope.
type Block struct {
	Scope symbols.ScopeID
	Stmts []Stmt
	Span  source.Span
}

// IsEmpty reports whether the block has no statements.
func (b *Block) IsEmpty() bool {
	return len(b.Stmts) == 0
}

// LastStmt returns the last statement in the block, or nil if empty.
func (b *Block) LastStmt() *Stmt {
	if len(b.Stmts) == 0 {
		return nil
	}
	return &b.Stmts[len(b.Stmts)-1]
}
