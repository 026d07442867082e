package types

import (
	"fmt"
	"strings"
)

// String renders a TypeID for diagnostics and the IR printer.
func (in *Interner) String(id TypeID) string {
	if id == NoTypeID {
		return "<none>"
	}
	tt, ok := in.Lookup(id)
	if !ok {
		return fmt.Sprintf("<bad:%d>", id)
	}
	switch tt.Kind {
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindInt:
		return fmt.Sprintf("i%d", tt.Width)
	case KindUint:
		return fmt.Sprintf("u%d", tt.Width)
	case KindFloat:
		return fmt.Sprintf("f%d", tt.Width)
	case KindPointer:
		return "*" + in.String(tt.Elem)
	case KindStruct:
		info, _ := in.StructInfo(id)
		if info == nil {
			return "struct{?}"
		}
		if info.Name != "" {
			return info.Name
		}
		return "struct{" + in.joinTypes(info.Fields) + "}"
	case KindUnion:
		info, _ := in.UnionInfo(id)
		if info == nil {
			return "union{?}"
		}
		if info.Name != "" {
			return info.Name
		}
		var sb strings.Builder
		sb.WriteString("union{")
		for i, v := range info.Variants {
			if i > 0 {
				sb.WriteString(" | ")
			}
			fmt.Fprintf(&sb, "%d(%s)", v.Tag, in.joinTypes(v.Fields))
		}
		sb.WriteString("}")
		return sb.String()
	case KindTypeParam:
		name, _ := in.ParamName(id)
		return "$" + name
	case KindFn:
		info, _ := in.FnInfo(id)
		if info == nil {
			return "fn(?)"
		}
		return "fn(" + in.joinTypes(info.Params) + ") -> " + in.String(info.Result)
	default:
		return tt.Kind.String()
	}
}

func (in *Interner) joinTypes(ids []TypeID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = in.String(id)
	}
	return strings.Join(parts, ", ")
}
