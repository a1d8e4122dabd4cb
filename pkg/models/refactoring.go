package models

import "fmt"

// RefactoringKind identifies a variable-level refactoring.
type RefactoringKind int

const (
	RenameVariableKind RefactoringKind = iota
	ChangeVariableTypeKind
	MergeVariableKind
	SplitVariableKind
	ChangeVariableScopeKind
)

var refactoringKindNames = map[RefactoringKind]string{
	RenameVariableKind:      "Rename Variable",
	ChangeVariableTypeKind:  "Change Variable Type",
	MergeVariableKind:       "Merge Variable",
	SplitVariableKind:       "Split Variable",
	ChangeVariableScopeKind: "Change Variable Scope",
}

// String returns the display name of the kind.
func (k RefactoringKind) String() string {
	if name, ok := refactoringKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("RefactoringKind(%d)", int(k))
}

// MarshalText encodes the kind by display name.
func (k RefactoringKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Refactoring is a variable-level refactoring detected for a method pair.
// The set of implementations is closed: RenameVariable, ChangeVariableType,
// MergeVariable, SplitVariable and ChangeVariableScope.
type Refactoring interface {
	Kind() RefactoringKind
	// Before returns the operands on the before side.
	Before() []*VariableDeclaration
	// After returns the operands on the after side.
	After() []*VariableDeclaration
	String() string

	isRefactoring()
}

// RenameVariable renames one variable.
type RenameVariable struct {
	Original *VariableDeclaration
	Renamed  *VariableDeclaration
}

func (r *RenameVariable) Kind() RefactoringKind { return RenameVariableKind }

func (r *RenameVariable) Before() []*VariableDeclaration { return []*VariableDeclaration{r.Original} }

func (r *RenameVariable) After() []*VariableDeclaration { return []*VariableDeclaration{r.Renamed} }

func (r *RenameVariable) String() string {
	return fmt.Sprintf("%s %s to %s", r.Kind(), r.Original, r.Renamed)
}

func (*RenameVariable) isRefactoring() {}

// ChangeVariableType changes the declared type of one variable.
type ChangeVariableType struct {
	Original *VariableDeclaration
	Changed  *VariableDeclaration
}

func (r *ChangeVariableType) Kind() RefactoringKind { return ChangeVariableTypeKind }

func (r *ChangeVariableType) Before() []*VariableDeclaration {
	return []*VariableDeclaration{r.Original}
}

func (r *ChangeVariableType) After() []*VariableDeclaration { return []*VariableDeclaration{r.Changed} }

func (r *ChangeVariableType) String() string {
	return fmt.Sprintf("%s %s to %s", r.Kind(), r.Original, r.Changed)
}

func (*ChangeVariableType) isRefactoring() {}

// MergeVariable merges several variables into one.
type MergeVariable struct {
	Merged      []*VariableDeclaration
	NewVariable *VariableDeclaration
}

func (r *MergeVariable) Kind() RefactoringKind { return MergeVariableKind }

func (r *MergeVariable) Before() []*VariableDeclaration { return r.Merged }

func (r *MergeVariable) After() []*VariableDeclaration {
	return []*VariableDeclaration{r.NewVariable}
}

func (r *MergeVariable) String() string {
	return fmt.Sprintf("%s %v to %s", r.Kind(), r.Merged, r.NewVariable)
}

func (*MergeVariable) isRefactoring() {}

// SplitVariable splits one variable into several.
type SplitVariable struct {
	OldVariable *VariableDeclaration
	Splits      []*VariableDeclaration
}

func (r *SplitVariable) Kind() RefactoringKind { return SplitVariableKind }

func (r *SplitVariable) Before() []*VariableDeclaration {
	return []*VariableDeclaration{r.OldVariable}
}

func (r *SplitVariable) After() []*VariableDeclaration { return r.Splits }

func (r *SplitVariable) String() string {
	return fmt.Sprintf("%s %s to %v", r.Kind(), r.OldVariable, r.Splits)
}

func (*SplitVariable) isRefactoring() {}

// ChangeVariableScope moves a variable to a scope with a different
// enclosing signature.
type ChangeVariableScope struct {
	Original        *VariableDeclaration
	Changed         *VariableDeclaration
	OperationBefore *Operation
	OperationAfter  *Operation
}

func (r *ChangeVariableScope) Kind() RefactoringKind { return ChangeVariableScopeKind }

func (r *ChangeVariableScope) Before() []*VariableDeclaration {
	return []*VariableDeclaration{r.Original}
}

func (r *ChangeVariableScope) After() []*VariableDeclaration {
	return []*VariableDeclaration{r.Changed}
}

// String describes the refactoring as
// "Change Variable Scope x : int from 3:5-9:2 to 4:5-12:2 in method m() from class C".
func (r *ChangeVariableScope) String() string {
	s := fmt.Sprintf("%s %s from %s to %s", r.Kind(), r.Original, r.Original.Scope, r.Changed.Scope)
	if r.OperationAfter != nil {
		s += " in method " + r.OperationAfter.Signature()
		if r.OperationAfter.ClassName != "" {
			s += " from class " + r.OperationAfter.ClassName
		}
	}
	return s
}

func (*ChangeVariableScope) isRefactoring() {}

// VariableDeclarationReplacement records a variable matched across versions
// whose enclosing signature changed.
type VariableDeclarationReplacement struct {
	Before          *VariableDeclaration
	After           *VariableDeclaration
	OperationBefore *Operation
	OperationAfter  *Operation
}

// ChangeScope returns the scope-change refactoring the replacement describes.
func (r VariableDeclarationReplacement) ChangeScope() *ChangeVariableScope {
	return &ChangeVariableScope{
		Original:        r.Before,
		Changed:         r.After,
		OperationBefore: r.OperationBefore,
		OperationAfter:  r.OperationAfter,
	}
}

func (r VariableDeclarationReplacement) String() string {
	return r.Before.String() + " to " + r.After.String()
}
