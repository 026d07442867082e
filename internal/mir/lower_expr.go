package mir

import (
	"fmt"

	"kiln/internal/diag"
	"kiln/internal/rtabi"
	"kiln/internal/tast"
)

// lowerExpr lowers one expression and returns the register holding its
// value, NoValueID for void-typed expressions.
func (fl *funcLowerer) lowerExpr(e *tast.Expr) (ValueID, error) {
	b := fl.l.b

	switch e.Kind {
	case tast.ExprLiteral:
		data, ok := e.Data.(tast.LiteralData)
		if !ok {
			return NoValueID, fmt.Errorf("literal: unexpected payload %T", e.Data)
		}
		var v ValueID
		switch data.Kind {
		case tast.LiteralBool:
			v = b.ConstBool(data.BoolValue)
		case tast.LiteralInt:
			v = b.ConstInt(data.IntValue, e.Type)
		case tast.LiteralUint:
			v = b.ConstUint(data.UintValue, e.Type)
		case tast.LiteralFloat:
			v = b.ConstFloat(data.FloatValue, e.Type)
		default:
			return NoValueID, fmt.Errorf("literal: unknown kind %d", data.Kind)
		}
		b.WithSpan(e.Span)
		return v, nil

	case tast.ExprLocal:
		data, ok := e.Data.(tast.LocalData)
		if !ok {
			return NoValueID, fmt.Errorf("local: unexpected payload %T", e.Data)
		}
		slot, bound := fl.slots[data.Sym]
		if !bound {
			return NoValueID, fl.errorf(diag.CapUnresolved, e.Span, "name %q is not bound in this function", data.Name)
		}
		v := b.Load(slot)
		b.WithSpan(e.Span)
		return v, nil

	case tast.ExprUnary:
		data, ok := e.Data.(tast.UnaryData)
		if !ok {
			return NoValueID, fmt.Errorf("unary: unexpected payload %T", e.Data)
		}
		operand, err := fl.lowerExpr(data.Operand)
		if err != nil {
			return NoValueID, err
		}
		var op UnOp
		switch data.Op {
		case tast.OpNeg:
			op = UnNeg
		case tast.OpNot:
			op = UnNot
		default:
			return NoValueID, fmt.Errorf("unary: unknown operator %s", data.Op)
		}
		v := b.UnOp(op, operand)
		b.WithSpan(e.Span)
		return v, nil

	case tast.ExprBinary:
		data, ok := e.Data.(tast.BinaryData)
		if !ok {
			return NoValueID, fmt.Errorf("binary: unexpected payload %T", e.Data)
		}
		left, err := fl.lowerExpr(data.Left)
		if err != nil {
			return NoValueID, err
		}
		right, err := fl.lowerExpr(data.Right)
		if err != nil {
			return NoValueID, err
		}
		var v ValueID
		if data.Op.IsComparison() {
			v = b.Cmp(cmpOpFor(data.Op), left, right)
		} else {
			op, err := binOpFor(data.Op)
			if err != nil {
				return NoValueID, err
			}
			v = b.BinOp(op, left, right)
		}
		b.WithSpan(e.Span)
		return v, nil

	case tast.ExprCall:
		data, ok := e.Data.(tast.CallData)
		if !ok {
			return NoValueID, fmt.Errorf("call: unexpected payload %T", e.Data)
		}
		id, known := fl.l.funcs[data.Callee]
		if !known {
			return NoValueID, fl.errorf(diag.LowBadTree, e.Span, "call to unknown function %q", data.Callee)
		}
		args := make([]ValueID, len(data.Args))
		for i, a := range data.Args {
			v, err := fl.lowerExpr(a)
			if err != nil {
				return NoValueID, err
			}
			args[i] = v
		}
		v := b.Call(id, args...)
		b.WithSpan(e.Span)
		return v, nil

	case tast.ExprField:
		data, ok := e.Data.(tast.FieldData)
		if !ok {
			return NoValueID, fmt.Errorf("field: unexpected payload %T", e.Data)
		}
		obj, err := fl.lowerExpr(data.Object)
		if err != nil {
			return NoValueID, err
		}
		v := b.FieldGet(obj, data.Index)
		b.WithSpan(e.Span)
		return v, nil

	case tast.ExprClosure:
		data, ok := e.Data.(tast.ClosureData)
		if !ok {
			return NoValueID, fmt.Errorf("closure: unexpected payload %T", e.Data)
		}
		return fl.lowerClosure(e, data)

	case tast.ExprSpawn:
		data, ok := e.Data.(tast.SpawnData)
		if !ok {
			return NoValueID, fmt.Errorf("spawn: unexpected payload %T", e.Data)
		}
		closure, err := fl.lowerExpr(data.Closure)
		if err != nil {
			return NoValueID, err
		}
		raw := b.Call(fl.l.externs[rtabi.FnTaskSpawn], closure)
		b.WithSpan(e.Span)
		handle := b.MakeStruct(e.Type, raw)
		b.WithSpan(e.Span)
		return handle, nil

	case tast.ExprMethodCall:
		data, ok := e.Data.(tast.MethodCallData)
		if !ok {
			return NoValueID, fmt.Errorf("method call: unexpected payload %T", e.Data)
		}
		return fl.lowerMethodCall(e, data)

	default:
		return NoValueID, fl.errorf(diag.LowUnsupported, e.Span, "unsupported expression kind %s", e.Kind)
	}
}

func binOpFor(op tast.BinOp) (BinOp, error) {
	switch op {
	case tast.OpAdd:
		return BinAdd, nil
	case tast.OpSub:
		return BinSub, nil
	case tast.OpMul:
		return BinMul, nil
	case tast.OpDiv:
		return BinDiv, nil
	case tast.OpRem:
		return BinRem, nil
	case tast.OpAnd:
		return BinAnd, nil
	case tast.OpOr:
		return BinOr, nil
	case tast.OpXor:
		return BinXor, nil
	case tast.OpShl:
		return BinShl, nil
	case tast.OpShr:
		return BinShr, nil
	default:
		return 0, fmt.Errorf("binary: unknown operator %s", op)
	}
}

func cmpOpFor(op tast.BinOp) CmpOp {
	switch op {
	case tast.OpEq:
		return CmpEq
	case tast.OpNe:
		return CmpNe
	case tast.OpLt:
		return CmpLt
	case tast.OpLe:
		return CmpLe
	case tast.OpGt:
		return CmpGt
	default:
		return CmpGe
	}
}
