package mir

import (
	"fmt"

	"kiln/internal/diag"
	"kiln/internal/tast"
)

func (fl *funcLowerer) lowerBlock(blk *tast.Block) error {
	if blk == nil {
		return nil
	}
	for i := range blk.Stmts {
		if fl.curBlock().Terminated() {
			// Statements after a return are dead; the checker warns,
			// lowering just stops.
			return nil
		}
		if err := fl.lowerStmt(&blk.Stmts[i]); err != nil {
			return err
		}
	}
	return nil
}

func (fl *funcLowerer) lowerStmt(st *tast.Stmt) error {
	b := fl.l.b

	switch st.Kind {
	case tast.StmtVar:
		data, ok := st.Data.(tast.VarData)
		if !ok {
			return fmt.Errorf("var: unexpected payload %T", st.Data)
		}
		slot := b.Alloca(data.Type)
		b.WithSpan(st.Span)
		init := NoValueID
		if data.Value != nil {
			v, err := fl.lowerExpr(data.Value)
			if err != nil {
				return err
			}
			init = v
		} else {
			init = b.Undef(data.Type)
		}
		b.Store(slot, init)
		fl.slots[data.Sym] = slot
		return nil

	case tast.StmtAssign:
		data, ok := st.Data.(tast.AssignData)
		if !ok {
			return fmt.Errorf("assign: unexpected payload %T", st.Data)
		}
		slot, bound := fl.slots[data.Sym]
		if !bound {
			return fl.errorf(diag.LowBadTree, st.Span, "assignment to unbound name %q", data.Name)
		}
		v, err := fl.lowerExpr(data.Value)
		if err != nil {
			return err
		}
		b.Store(slot, v)
		b.WithSpan(st.Span)
		return nil

	case tast.StmtExpr:
		data, ok := st.Data.(tast.ExprStmtData)
		if !ok {
			return fmt.Errorf("expr stmt: unexpected payload %T", st.Data)
		}
		_, err := fl.lowerExpr(data.Expr)
		return err

	case tast.StmtReturn:
		data, ok := st.Data.(tast.ReturnData)
		if !ok {
			return fmt.Errorf("return: unexpected payload %T", st.Data)
		}
		if data.Value == nil {
			b.RetVoid()
			return nil
		}
		v, err := fl.lowerExpr(data.Value)
		if err != nil {
			return err
		}
		b.Ret(v)
		return nil

	case tast.StmtIf:
		data, ok := st.Data.(tast.IfData)
		if !ok {
			return fmt.Errorf("if: unexpected payload %T", st.Data)
		}
		cond, err := fl.lowerExpr(data.Cond)
		if err != nil {
			return err
		}
		thenBB := b.NewBlock()
		joinBB := b.NewBlock()
		elseBB := joinBB
		if data.Else != nil {
			elseBB = b.NewBlock()
		}
		b.CondBr(cond, thenBB, elseBB)

		b.SetBlock(thenBB)
		if err := fl.lowerBlock(data.Then); err != nil {
			return err
		}
		if !fl.curBlock().Terminated() {
			b.Br(joinBB)
		}
		if data.Else != nil {
			b.SetBlock(elseBB)
			if err := fl.lowerBlock(data.Else); err != nil {
				return err
			}
			if !fl.curBlock().Terminated() {
				b.Br(joinBB)
			}
		}
		b.SetBlock(joinBB)
		return nil

	case tast.StmtWhile:
		data, ok := st.Data.(tast.WhileData)
		if !ok {
			return fmt.Errorf("while: unexpected payload %T", st.Data)
		}
		condBB := b.NewBlock()
		bodyBB := b.NewBlock()
		exitBB := b.NewBlock()
		b.Br(condBB)

		b.SetBlock(condBB)
		cond, err := fl.lowerExpr(data.Cond)
		if err != nil {
			return err
		}
		b.CondBr(cond, bodyBB, exitBB)

		b.SetBlock(bodyBB)
		if err := fl.lowerBlock(data.Body); err != nil {
			return err
		}
		if !fl.curBlock().Terminated() {
			b.Br(condBB)
		}
		b.SetBlock(exitBB)
		return nil

	case tast.StmtBlock:
		data, ok := st.Data.(tast.BlockStmtData)
		if !ok {
			return fmt.Errorf("block: unexpected payload %T", st.Data)
		}
		return fl.lowerBlock(data.Block)

	default:
		return fl.errorf(diag.LowUnsupported, st.Span, "unsupported statement kind %s", st.Kind)
	}
}
