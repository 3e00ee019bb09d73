package syntax

import "fmt"

// Pos is a source position. The zero value is NoPos.
type Pos struct {
	filename string
	line     uint32 // 1-based
	col      uint32 // 1-based byte column
}

// NoPos is the invalid position.
var NoPos Pos

// NewPos returns the position line:col in filename.
func NewPos(filename string, line, col uint32) Pos {
	return Pos{filename: filename, line: line, col: col}
}

// String formats p as "file:line:col", or "line:col" without a filename.
func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	if p.filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.filename, p.line, p.col)
	}
	return fmt.Sprintf("%d:%d", p.line, p.col)
}

// IsValid reports whether p refers to a real location.
func (p Pos) IsValid() bool {
	return p.line > 0
}

func (p Pos) Line() uint32     { return p.line }
func (p Pos) Col() uint32      { return p.col }
func (p Pos) Filename() string { return p.filename }

// Compare orders positions by filename, then line, then column.
// It returns -1, 0 or +1.
func (p Pos) Compare(q Pos) int {
	switch {
	case p.filename < q.filename:
		return -1
	case p.filename > q.filename:
		return +1
	case p.line < q.line:
		return -1
	case p.line > q.line:
		return +1
	case p.col < q.col:
		return -1
	case p.col > q.col:
		return +1
	}
	return 0
}
