package mono

import (
	"sort"
	"strconv"
	"strings"

	"kiln/internal/source"
	"kiln/internal/types"
)

// InstKey is a comparable key for instantiations.
//
// Note: Go maps cannot use slices as keys, so a stable ArgsKey string
// stands in for the normalized argument list kept on the entry.
type InstKey struct {
	Recv    string
	Method  string
	ArgsKey string
}

// InstEntry captures all use sites of one concrete instantiation.
type InstEntry struct {
	Key      InstKey
	TypeArgs []types.TypeID
	UseSites []source.Span
}

// Recorder tracks generic instantiations across a compilation unit, mainly
// for deterministic reporting and tests.
type Recorder struct {
	entries map[InstKey]*InstEntry
}

func NewRecorder() *Recorder {
	return &Recorder{entries: make(map[InstKey]*InstEntry)}
}

// Record registers an instantiation at a use site.
func (r *Recorder) Record(recv ReceiverInstance, method string, span source.Span) {
	key := InstKey{Recv: recv.Name, Method: method, ArgsKey: argsKey(recv.TypeArgs)}
	e, ok := r.entries[key]
	if !ok {
		e = &InstEntry{
			Key:      key,
			TypeArgs: append([]types.TypeID(nil), recv.TypeArgs...),
		}
		r.entries[key] = e
	}
	e.UseSites = append(e.UseSites, span)
}

// Entries returns all instantiations sorted by key.
func (r *Recorder) Entries() []*InstEntry {
	out := make([]*InstEntry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Key, out[j].Key
		if a.Recv != b.Recv {
			return a.Recv < b.Recv
		}
		if a.Method != b.Method {
			return a.Method < b.Method
		}
		return a.ArgsKey < b.ArgsKey
	})
	return out
}

func (r *Recorder) Len() int {
	return len(r.entries)
}

func argsKey(args []types.TypeID) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = strconv.FormatUint(uint64(a), 10)
	}
	return strings.Join(parts, ",")
}
