package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"sort"

	"fortio.org/safecast"
)

// File is one source file held by a FileSet.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // byte offset of each line start
	Hash    [sha256.Size]byte
}

// FileSet manages source files and resolves byte offsets to line/column.
type FileSet struct {
	files []File
	index map[string]FileID
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		index: make(map[string]FileID),
	}
}

// Add stores a file, computes its line index and hash, and returns its FileID.
func (fs *FileSet) Add(path string, content []byte) FileID {
	lenFiles, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    path,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
	})
	fs.index[path] = id
	return id
}

// Load reads a file from disk and calls Add.
func (fs *FileSet) Load(path string) (FileID, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- path is provided by the caller
	if err != nil {
		return NoFileID, err
	}
	return fs.Add(path, content), nil
}

// Get returns the file for an id.
func (fs *FileSet) Get(id FileID) (*File, bool) {
	if int(id) >= len(fs.files) {
		return nil, false
	}
	return &fs.files[id], true
}

// ByPath returns the most recently added file with the given path.
func (fs *FileSet) ByPath(path string) (*File, bool) {
	id, ok := fs.index[path]
	if !ok {
		return nil, false
	}
	return &fs.files[id], true
}

func (fs *FileSet) Len() int {
	return len(fs.files)
}

// Position resolves a span start to a 1-based line/column pair.
func (fs *FileSet) Position(s Span) (path string, line, col int) {
	f, ok := fs.Get(s.File)
	if !ok {
		return "<unknown>", 0, 0
	}
	idx := sort.Search(len(f.LineIdx), func(i int) bool {
		return f.LineIdx[i] > s.Start
	})
	line = idx // LineIdx[idx-1] <= Start < LineIdx[idx]
	col = int(s.Start-f.LineIdx[idx-1]) + 1
	return f.Path, line, col
}

func buildLineIndex(content []byte) []uint32 {
	idx := []uint32{0}
	for i, b := range content {
		if b == '\n' {
			idx = append(idx, uint32(i)+1)
		}
	}
	return idx
}
