package mir

import (
	"fmt"
	"sort"
	"strings"

	"kiln/internal/types"
)

// Print renders a module as deterministic text: functions ordered by id,
// blocks and instructions in program order. Used by tests and `kiln dump`.
func Print(m *Module, typesIn *types.Interner) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "module %s\n", m.Name)

	ids := make([]FuncID, 0, len(m.Funcs))
	for id := range m.Funcs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		printFunc(&sb, m.Funcs[id], typesIn)
	}
	return sb.String()
}

func printFunc(sb *strings.Builder, f *Func, in *types.Interner) {
	kind := "fn"
	if f.Extern {
		kind = "extern fn"
	}
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = fmt.Sprintf("%s: %s", p.Name, in.String(p.Type))
	}
	fmt.Fprintf(sb, "\n%s %s %s(%s) -> %s [%s]\n",
		f.Visibility, kind, f.Name, strings.Join(params, ", "),
		in.String(f.Result), f.CallConv)
	if f.Extern {
		return
	}
	for i := range f.Blocks {
		blk := &f.Blocks[i]
		entry := ""
		if blk.ID == f.Entry {
			entry = " (entry)"
		}
		fmt.Fprintf(sb, "bb%d%s:\n", blk.ID, entry)
		for j := range blk.Instrs {
			fmt.Fprintf(sb, "  %s\n", printInstr(&blk.Instrs[j], f, in))
		}
		fmt.Fprintf(sb, "  %s\n", printTerm(blk.Term))
	}
}

func printInstr(i *Instr, f *Func, in *types.Interner) string {
	dst := ""
	if i.HasDst() && i.Dst != NoValueID {
		ty := "?"
		if t, ok := f.Regs[i.Dst]; ok {
			ty = in.String(t)
		}
		dst = fmt.Sprintf("r%d: %s = ", i.Dst, ty)
	}
	switch i.Kind {
	case InstrConst:
		return dst + "const " + printConst(i.Const.Value)
	case InstrBinOp:
		return fmt.Sprintf("%sbinop %s r%d, r%d", dst, binOpName(i.BinOp.Op), i.BinOp.Left, i.BinOp.Right)
	case InstrUnOp:
		return fmt.Sprintf("%sunop %s r%d", dst, unOpName(i.UnOp.Op), i.UnOp.Operand)
	case InstrCmp:
		return fmt.Sprintf("%scmp %s r%d, r%d", dst, cmpOpName(i.Cmp.Op), i.Cmp.Left, i.Cmp.Right)
	case InstrCall:
		return fmt.Sprintf("%scall f%d(%s)", dst, i.Call.Callee, printArgs(i.Call.Args))
	case InstrCallIndirect:
		return fmt.Sprintf("%scall_indirect r%d(%s)", dst, i.CallIndirect.Callee, printArgs(i.CallIndirect.Args))
	case InstrMakeStruct:
		return fmt.Sprintf("%smake_struct %s(%s)", dst, in.String(i.MakeStruct.Type), printArgs(i.MakeStruct.Fields))
	case InstrFieldGet:
		return fmt.Sprintf("%sfield_get r%d.%d", dst, i.FieldGet.Agg, i.FieldGet.Index)
	case InstrMakeUnion:
		return fmt.Sprintf("%smake_union %s tag=%d (%s)", dst, in.String(i.MakeUnion.Type), i.MakeUnion.Tag, printArgs(i.MakeUnion.Values))
	case InstrUnionTag:
		return fmt.Sprintf("%sunion_tag r%d", dst, i.UnionTag.Union)
	case InstrUnionValue:
		return fmt.Sprintf("%sunion_value r%d tag=%d.%d", dst, i.UnionValue.Union, i.UnionValue.Tag, i.UnionValue.Index)
	case InstrPtrAdd:
		return fmt.Sprintf("%sptr_add r%d, r%d", dst, i.PtrAdd.Ptr, i.PtrAdd.Offset)
	case InstrAlloca:
		return fmt.Sprintf("%salloca %s", dst, in.String(i.Alloca.Type))
	case InstrLoad:
		return fmt.Sprintf("%sload r%d", dst, i.Load.Ptr)
	case InstrStore:
		return fmt.Sprintf("store r%d, r%d", i.Store.Ptr, i.Store.Value)
	case InstrUndef:
		return dst + "undef"
	case InstrFuncRef:
		return fmt.Sprintf("%sfuncref f%d", dst, i.FuncRef.Func)
	case InstrUnbox:
		return fmt.Sprintf("%sunbox r%d to %s", dst, i.Unbox.Box, in.String(i.Unbox.Type))
	default:
		return dst + "???"
	}
}

func printTerm(t Terminator) string {
	switch t.Kind {
	case TermReturn:
		if t.Return.HasValue {
			return fmt.Sprintf("ret r%d", t.Return.Value)
		}
		return "ret"
	case TermBr:
		return fmt.Sprintf("br bb%d", t.Br.Target)
	case TermCondBr:
		return fmt.Sprintf("cond_br r%d, bb%d, bb%d", t.CondBr.Cond, t.CondBr.Then, t.CondBr.Else)
	case TermUnreachable:
		return "unreachable"
	case TermPanic:
		return fmt.Sprintf("panic %q", t.Panic.Message)
	default:
		return "<unterminated>"
	}
}

func printConst(v ConstValue) string {
	switch v.Kind {
	case ConstBool:
		return fmt.Sprintf("%t", v.Bool)
	case ConstInt:
		return fmt.Sprintf("%d", v.Int)
	case ConstUint:
		return fmt.Sprintf("%du", v.Uint)
	case ConstFloat:
		return fmt.Sprintf("%g", v.Float)
	default:
		return "?"
	}
}

func printArgs(args []ValueID) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("r%d", a)
	}
	return strings.Join(parts, ", ")
}

func binOpName(op BinOp) string {
	switch op {
	case BinAdd:
		return "add"
	case BinSub:
		return "sub"
	case BinMul:
		return "mul"
	case BinDiv:
		return "div"
	case BinRem:
		return "rem"
	case BinAnd:
		return "and"
	case BinOr:
		return "or"
	case BinXor:
		return "xor"
	case BinShl:
		return "shl"
	case BinShr:
		return "shr"
	default:
		return fmt.Sprintf("binop(%d)", op)
	}
}

func unOpName(op UnOp) string {
	switch op {
	case UnNeg:
		return "neg"
	case UnNot:
		return "not"
	default:
		return fmt.Sprintf("unop(%d)", op)
	}
}

func cmpOpName(op CmpOp) string {
	switch op {
	case CmpEq:
		return "eq"
	case CmpNe:
		return "ne"
	case CmpLt:
		return "lt"
	case CmpLe:
		return "le"
	case CmpGt:
		return "gt"
	case CmpGe:
		return "ge"
	default:
		return fmt.Sprintf("cmp(%d)", op)
	}
}
