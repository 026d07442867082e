package rtabi

import (
	"kiln/internal/mono"
	"kiln/internal/types"
)

// Builtin generic receiver names. The front end records method calls on
// these receivers; lowering maps them to the runtime entry points below.
const (
	RecvTaskHandle = "TaskHandle"
	RecvMutex      = "Mutex"
	RecvChannel    = "Channel"
	RecvVec        = "Vec"
)

// MethodExtern maps a (receiver, method) pair to the runtime entry point
// implementing it.
func MethodExtern(recv, method string) (string, bool) {
	switch recv {
	case RecvTaskHandle:
		if method == "join" {
			return FnTaskJoin, true
		}
	case RecvMutex:
		switch method {
		case "lock":
			return FnMutexLock, true
		case "unlock":
			return FnMutexUnlock, true
		}
	case RecvChannel:
		switch method {
		case "send":
			return FnChanSend, true
		case "recv":
			return FnChanRecv, true
		case "close":
			return FnChanClose, true
		}
	case RecvVec:
		switch method {
		case "get":
			return FnVecGet, true
		case "set":
			return FnVecSet, true
		case "push":
			return FnVecPush, true
		case "pop":
			return FnVecPop, true
		case "len":
			return FnVecLen, true
		}
	}
	return "", false
}

// Receiver builds the instance of a builtin single-parameter receiver at
// a concrete element type.
func Receiver(name string, elem types.TypeID) mono.ReceiverInstance {
	return mono.ReceiverInstance{
		Name:       name,
		TypeParams: []string{"T"},
		TypeArgs:   []types.TypeID{elem},
	}
}

// Method returns the generic signature of a builtin receiver method,
// written in terms of the receiver's type parameter. The result's Params
// and Result may mention the placeholder; callers resolve through
// mono.ResolveCall before any of it reaches generated code.
func Method(in *types.Interner, recv, method string) (mono.MethodSig, bool) {
	t := in.RegisterParam("T")
	b := in.Builtins()
	switch recv {
	case RecvTaskHandle:
		if method == "join" {
			return mono.MethodSig{Name: method, Result: t}, true
		}
	case RecvMutex:
		switch method {
		case "lock":
			return mono.MethodSig{Name: method, Result: t}, true
		case "unlock":
			return mono.MethodSig{Name: method, Params: []types.TypeID{t}, Result: b.Void}, true
		}
	case RecvChannel:
		switch method {
		case "send":
			return mono.MethodSig{Name: method, Params: []types.TypeID{t}, Result: b.Void}, true
		case "recv":
			return mono.MethodSig{Name: method, Result: t}, true
		case "close":
			return mono.MethodSig{Name: method, Result: b.Void}, true
		}
	case RecvVec:
		switch method {
		case "get":
			return mono.MethodSig{Name: method, Params: []types.TypeID{b.U64}, Result: t}, true
		case "set":
			return mono.MethodSig{Name: method, Params: []types.TypeID{b.U64, t}, Result: b.Void}, true
		case "push":
			return mono.MethodSig{Name: method, Params: []types.TypeID{t}, Result: b.Void}, true
		case "pop":
			return mono.MethodSig{Name: method, Result: t}, true
		case "len":
			return mono.MethodSig{Name: method, Result: b.U64}, true
		}
	}
	return mono.MethodSig{}, false
}

// HandleType returns the opaque runtime handle type used for closures,
// mutexes, channels and vectors. The element type is erased at the
// boundary; it lives only in the checker's receiver instance.
func HandleType(in *types.Interner) types.TypeID {
	return in.Pointer(in.Builtins().Void)
}

// TaskHandleType returns the nominal struct wrapping a spawned task's
// runtime handle. One shape serves every element type; the element lives
// in the receiver instance, not in the wire type.
func TaskHandleType(in *types.Interner) types.TypeID {
	return in.RegisterStruct(RecvTaskHandle, []types.TypeID{HandleType(in)})
}

// OptionType returns the end-of-stream union a channel receive produces:
// tag 0 is the closed signal with no payload, tag 1 carries one element.
func OptionType(in *types.Interner, elem types.TypeID) types.TypeID {
	return in.RegisterUnion("Option", []types.UnionVariant{
		{Tag: 0},
		{Tag: 1, Fields: []types.TypeID{elem}},
	})
}
