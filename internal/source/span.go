package source

import (
	"fmt"
)

// FileID identifies a file inside a FileSet.
type FileID uint32

// NoFileID marks the absence of a file reference.
const NoFileID FileID = ^FileID(0)

// Span is a half-open byte range inside one file.
type Span struct {
	File  FileID
	Start uint32 // inclusive
	End   uint32 // exclusive
}

// NoSpan marks the absence of a source position, e.g. for synthesized IR.
var NoSpan = Span{File: NoFileID}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) IsValid() bool {
	return s.File != NoFileID
}

func (s Span) String() string {
	if !s.IsValid() {
		return "<no span>"
	}
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover extends the span to include other. Spans from different files are
// left untouched.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}
