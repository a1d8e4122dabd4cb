package models

import "fmt"

// ScopeKey holds the positional identity of a Scope. Two scopes are equal
// iff their keys are equal.
type ScopeKey struct {
	FilePath    string
	StartOffset int
	EndOffset   int
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// Scope is the lexical region of a method body in which one declared
// variable is visible.
//
// Statement membership is written by scope derivation; the parent signature
// names the enclosing method or lambda and is stamped by the model builder.
type Scope struct {
	key             ScopeKey
	statements      []Fragment
	parentSignature string
}

// NewScope creates a scope for the range between start and end.
func NewScope(filePath string, start, end Position) *Scope {
	return &Scope{
		key: ScopeKey{
			FilePath:    filePath,
			StartOffset: start.Offset,
			EndOffset:   end.Offset,
			StartLine:   start.Line,
			StartColumn: start.Column,
			EndLine:     end.Line,
			EndColumn:   end.Column,
		},
	}
}

// NewScopeAt creates a scope covering loc.
func NewScopeAt(loc LocationInfo) *Scope {
	return NewScope(loc.FilePath,
		Position{Offset: loc.StartOffset, Line: loc.StartLine, Column: loc.StartColumn},
		Position{Offset: loc.EndOffset, Line: loc.EndLine, Column: loc.EndColumn},
	)
}

// Key returns the positional identity of the scope.
func (s *Scope) Key() ScopeKey {
	return s.key
}

// Equal reports whether both scopes cover the same positions.
func (s *Scope) Equal(other *Scope) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil {
		return false
	}
	return s.key == other.key
}

func (s *Scope) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", s.key.StartLine, s.key.StartColumn, s.key.EndLine, s.key.EndColumn)
}

// FilePath returns the file the scope belongs to.
func (s *Scope) FilePath() string { return s.key.FilePath }

// StartOffset returns the first byte offset covered by the scope.
func (s *Scope) StartOffset() int { return s.key.StartOffset }

// EndOffset returns the last byte offset covered by the scope.
func (s *Scope) EndOffset() int { return s.key.EndOffset }

// Subsumes reports whether loc lies fully inside the scope.
func (s *Scope) Subsumes(loc LocationInfo) bool {
	return s.key.FilePath == loc.FilePath &&
		s.key.StartOffset <= loc.StartOffset &&
		s.key.EndOffset >= loc.EndOffset
}

// AddStatement registers a statement as visible in the scope.
func (s *Scope) AddStatement(f Fragment) {
	s.statements = append(s.statements, f)
}

// ResetStatements clears the statement membership.
func (s *Scope) ResetStatements() {
	s.statements = nil
}

// Statements returns the statements registered in the scope, in traversal order.
func (s *Scope) Statements() []Fragment {
	return s.statements
}

// ParentSignature returns the signature of the enclosing method or lambda.
func (s *Scope) ParentSignature() string {
	return s.parentSignature
}

// SetParentSignature stamps the enclosing method or lambda signature.
func (s *Scope) SetParentSignature(signature string) {
	s.parentSignature = signature
}
