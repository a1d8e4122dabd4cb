package models

import (
	"fmt"
	"sort"
)

// LocationInfo is a source range inside one file.
type LocationInfo struct {
	FilePath    string `json:"file_path"`
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
	StartLine   int    `json:"start_line"`
	StartColumn int    `json:"start_column"`
	EndLine     int    `json:"end_line"`
	EndColumn   int    `json:"end_column"`
}

// String returns the range as "line:col-line:col".
func (l LocationInfo) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", l.StartLine, l.StartColumn, l.EndLine, l.EndColumn)
}

// Contains reports whether other lies within l in the same file.
func (l LocationInfo) Contains(other LocationInfo) bool {
	return l.FilePath == other.FilePath &&
		l.StartOffset <= other.StartOffset &&
		l.EndOffset >= other.EndOffset
}

// Position is a resolved line and column for a byte offset.
type Position struct {
	Offset int
	Line   int
	Column int
}

// LineIndex resolves byte offsets of one source file to lines and columns.
type LineIndex struct {
	lineStarts []int
}

// NewLineIndex indexes the line starts of source.
func NewLineIndex(source []byte) *LineIndex {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{lineStarts: starts}
}

// Position resolves offset. Lines are 1-based. Columns are 1-based except
// for the first column of a line, which is reported as 0 so that ranges
// read the same as in existing refactoring reports.
func (idx *LineIndex) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	line := sort.Search(len(idx.lineStarts), func(i int) bool {
		return idx.lineStarts[i] > offset
	})
	col := offset - idx.lineStarts[line-1]
	if col > 0 {
		col++
	}
	return Position{Offset: offset, Line: line, Column: col}
}

// Location builds a LocationInfo for the byte range [start, end).
func (idx *LineIndex) Location(filePath string, start, end int) LocationInfo {
	s := idx.Position(start)
	e := idx.Position(end)
	return LocationInfo{
		FilePath:    filePath,
		StartOffset: start,
		EndOffset:   end,
		StartLine:   s.Line,
		StartColumn: s.Column,
		EndLine:     e.Line,
		EndColumn:   e.Column,
	}
}
