// Package rtabi describes the boundary between generated code and the
// language runtime: the extern function catalogue, the mapping from
// builtin generic receivers to runtime entry points, and a reference
// model of the runtime's untyped vector storage.
//
// Everything that crosses the boundary is monomorphic. Values of generic
// element type travel as opaque pointers and are reboxed or unboxed on
// the generated-code side; the runtime itself never sees a type
// parameter.
package rtabi

import (
	"fmt"

	"kiln/internal/types"
)

// Runtime entry point names. The C symbol is exactly the constant.
const (
	FnAlloc   = "kiln_alloc"
	FnRealloc = "kiln_realloc"
	FnFree    = "kiln_free"

	FnClosureMake = "kiln_closure_make"

	FnTaskSpawn = "kiln_task_spawn"
	FnTaskJoin  = "kiln_task_join"

	FnMutexInit   = "kiln_mutex_init"
	FnMutexLock   = "kiln_mutex_lock"
	FnMutexUnlock = "kiln_mutex_unlock"

	FnChanInit  = "kiln_chan_init"
	FnChanSend  = "kiln_chan_send"
	FnChanRecv  = "kiln_chan_recv"
	FnChanClose = "kiln_chan_close"

	FnVecNew  = "kiln_vec_new"
	FnVecGet  = "kiln_vec_get"
	FnVecSet  = "kiln_vec_set"
	FnVecPush = "kiln_vec_push"
	FnVecPop  = "kiln_vec_pop"
	FnVecLen  = "kiln_vec_len"
)

// Entry is one extern function in the runtime catalogue. All entries use
// the C calling convention.
type Entry struct {
	Name   string
	Params []types.TypeID
	Result types.TypeID
}

// Catalogue returns the full extern catalogue in a fixed order, with all
// signatures interned against in. It panics if any signature mentions a
// type parameter; the catalogue is the monomorphic floor of the system
// and a placeholder here would leak into every module that links it.
func Catalogue(in *types.Interner) []Entry {
	b := in.Builtins()
	ptr := in.Pointer(b.Void)

	entries := []Entry{
		{Name: FnAlloc, Params: []types.TypeID{b.U64}, Result: ptr},
		{Name: FnRealloc, Params: []types.TypeID{ptr, b.U64}, Result: ptr},
		{Name: FnFree, Params: []types.TypeID{ptr}, Result: b.Void},

		{Name: FnClosureMake, Params: []types.TypeID{ptr, ptr}, Result: ptr},

		{Name: FnTaskSpawn, Params: []types.TypeID{ptr}, Result: ptr},
		{Name: FnTaskJoin, Params: []types.TypeID{ptr}, Result: ptr},

		{Name: FnMutexInit, Params: []types.TypeID{ptr}, Result: ptr},
		{Name: FnMutexLock, Params: []types.TypeID{ptr}, Result: ptr},
		{Name: FnMutexUnlock, Params: []types.TypeID{ptr, ptr}, Result: b.Void},

		{Name: FnChanInit, Params: []types.TypeID{b.U64}, Result: ptr},
		{Name: FnChanSend, Params: []types.TypeID{ptr, ptr}, Result: b.Void},
		{Name: FnChanRecv, Params: []types.TypeID{ptr}, Result: ptr},
		{Name: FnChanClose, Params: []types.TypeID{ptr}, Result: b.Void},

		{Name: FnVecNew, Params: []types.TypeID{b.U64}, Result: ptr},
		{Name: FnVecGet, Params: []types.TypeID{ptr, b.U64}, Result: ptr},
		{Name: FnVecSet, Params: []types.TypeID{ptr, b.U64, ptr}, Result: b.Void},
		{Name: FnVecPush, Params: []types.TypeID{ptr, ptr}, Result: b.Void},
		{Name: FnVecPop, Params: []types.TypeID{ptr}, Result: ptr},
		{Name: FnVecLen, Params: []types.TypeID{ptr}, Result: b.U64},
	}

	for _, e := range entries {
		for _, p := range e.Params {
			if in.ContainsParam(p) {
				panic(fmt.Sprintf("rtabi: %s: parameter type %s mentions a type parameter", e.Name, in.String(p)))
			}
		}
		if in.ContainsParam(e.Result) {
			panic(fmt.Sprintf("rtabi: %s: result type %s mentions a type parameter", e.Name, in.String(e.Result)))
		}
	}
	return entries
}
