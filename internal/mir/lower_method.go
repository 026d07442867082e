package mir

import (
	"errors"

	"kiln/internal/diag"
	"kiln/internal/mono"
	"kiln/internal/rtabi"
	"kiln/internal/source"
	"kiln/internal/tast"
	"kiln/internal/types"
)

// lowerMethodCall lowers a method call on a builtin generic receiver.
// The receiver's concrete type arguments are pushed through the
// substitution engine first; the emitted call's destination register
// always carries the fully resolved concrete type, never a placeholder.
func (fl *funcLowerer) lowerMethodCall(e *tast.Expr, data tast.MethodCallData) (ValueID, error) {
	b := fl.l.b
	in := fl.l.unit.Types

	resolved, err := mono.ResolveCall(in, data.Receiver, data.Method)
	if err != nil {
		var unres *mono.UnresolvedError
		var arity *mono.ArityError
		switch {
		case errors.As(err, &unres):
			return NoValueID, fl.errorf(diag.GenUnresolved, e.Span,
				"cannot resolve type parameter %q in call to %s.%s",
				unres.Param, data.Receiver.Name, data.Method.Name)
		case errors.As(err, &arity):
			return NoValueID, fl.errorf(diag.GenArityMismatch, e.Span,
				"receiver %s supplies %d type arguments, %d expected",
				arity.Recv, arity.Actual, arity.Expected)
		default:
			return NoValueID, fl.errorf(diag.GenUnresolved, e.Span,
				"call to %s.%s: %v", data.Receiver.Name, data.Method.Name, err)
		}
	}
	fl.l.rec.Record(data.Receiver, data.Method.Name, e.Span)

	extern, known := rtabi.MethodExtern(data.Receiver.Name, data.Method.Name)
	if !known {
		return NoValueID, fl.errorf(diag.LowUnsupported, e.Span,
			"no runtime entry point for %s.%s", data.Receiver.Name, data.Method.Name)
	}

	recv, err := fl.lowerExpr(data.Recv)
	if err != nil {
		return NoValueID, err
	}
	// Task handles are nominal wrappers; the runtime wants the raw pointer.
	if data.Receiver.Name == rtabi.RecvTaskHandle {
		recv = b.FieldGet(recv, 0)
	}

	if len(data.Args) != len(data.Method.Params) {
		return NoValueID, fl.errorf(diag.LowBadTree, e.Span,
			"%s.%s: %d arguments for %d parameters",
			data.Receiver.Name, data.Method.Name, len(data.Args), len(data.Method.Params))
	}
	args := []ValueID{recv}
	for i, a := range data.Args {
		v, err := fl.lowerExpr(a)
		if err != nil {
			return NoValueID, err
		}
		// Generic positions cross the boundary boxed; everything else is
		// passed as declared.
		if in.ContainsParam(data.Method.Params[i]) {
			v, err = fl.box(v, resolved.Params[i], a.Span)
			if err != nil {
				return NoValueID, err
			}
		}
		args = append(args, v)
	}

	call := b.Call(fl.l.externs[extern], args...)
	b.WithSpan(e.Span)

	if !in.ContainsParam(data.Method.Result) {
		return call, nil
	}

	// The runtime transports generic results as word-sized boxes. A
	// receive additionally folds the end-of-stream signal into a union;
	// everything else unboxes straight to the resolved concrete type.
	if data.Receiver.Name == rtabi.RecvChannel && data.Method.Name == "recv" {
		return fl.lowerRecvResult(e, call, resolved.Result)
	}
	v := b.Unbox(call, resolved.Result)
	b.WithSpan(e.Span)
	return v, nil
}

// lowerRecvResult turns the raw pointer a channel receive yields into the
// end-of-stream union: a nil box means the channel was closed.
func (fl *funcLowerer) lowerRecvResult(e *tast.Expr, box ValueID, elem types.TypeID) (ValueID, error) {
	b := fl.l.b
	in := fl.l.unit.Types

	optTy := e.Type
	if _, ok := in.UnionInfo(optTy); !ok {
		return NoValueID, fl.errorf(diag.LowBadTree, e.Span,
			"channel receive must produce a union, got %s", in.String(optTy))
	}

	nilBox := b.ConstUint(0, rtabi.HandleType(in))
	closed := b.Cmp(CmpEq, box, nilBox)
	slot := b.Alloca(optTy)

	closedBB := b.NewBlock()
	valueBB := b.NewBlock()
	joinBB := b.NewBlock()
	b.CondBr(closed, closedBB, valueBB)

	b.SetBlock(closedBB)
	none := b.MakeUnion(optTy, 0)
	b.Store(slot, none)
	b.Br(joinBB)

	b.SetBlock(valueBB)
	v := b.Unbox(box, elem)
	some := b.MakeUnion(optTy, 1, v)
	b.Store(slot, some)
	b.Br(joinBB)

	b.SetBlock(joinBB)
	out := b.Load(slot)
	b.WithSpan(e.Span)
	return out, nil
}

// box moves a value into freshly allocated runtime storage and returns
// the pointer. The allocation size is the element's layout stride, the
// same stride the runtime's vector storage indexes by.
func (fl *funcLowerer) box(v ValueID, ty types.TypeID, span source.Span) (ValueID, error) {
	b := fl.l.b
	in := fl.l.unit.Types
	size, err := fl.l.lay.Stride(ty)
	if err != nil {
		return NoValueID, fl.errorf(diag.LowBadTree, span, "cannot box %s: %v", in.String(ty), err)
	}
	sizeReg := b.ConstUint(uint64(size), in.Builtins().U64)
	ptr := b.Call(fl.l.externs[rtabi.FnAlloc], sizeReg)
	b.Store(ptr, v)
	return ptr, nil
}
