package syntax

import (
	"sort"
)

// Location is a 1-based line and column position.
type Location struct {
	Line   int `json:"line" toon:"line"`
	Column int `json:"column" toon:"column"`
}

// LineIndex resolves byte offsets into line/column locations.
type LineIndex struct {
	starts []int
}

// NewLineIndex indexes the line starts of src.
func NewLineIndex(src []byte) *LineIndex {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts}
}

// Location resolves a byte offset. Offsets past the end resolve onto the last
// line. A nil index resolves everything to the zero Location.
func (li *LineIndex) Location(offset int) Location {
	if li == nil || offset < 0 {
		return Location{}
	}
	line := sort.Search(len(li.starts), func(i int) bool {
		return li.starts[i] > offset
	})
	return Location{Line: line, Column: offset - li.starts[line-1] + 1}
}

// File is a parsed source file.
type File struct {
	Path  string
	Root  *Node
	Lines *LineIndex
}

// Location resolves a byte offset within the file.
func (f *File) Location(offset int) Location {
	if f == nil {
		return Location{}
	}
	return f.Lines.Location(offset)
}
