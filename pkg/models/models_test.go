package models

import (
	"testing"
)

func TestLineIndex_Position(t *testing.T) {
	idx := NewLineIndex([]byte("ab\ncdef\n\nx"))

	tests := []struct {
		offset     int
		wantLine   int
		wantColumn int
	}{
		{0, 1, 0},
		{1, 1, 2},
		{3, 2, 0},
		{5, 2, 3},
		{8, 3, 0},
		{9, 4, 0},
	}

	for _, tt := range tests {
		pos := idx.Position(tt.offset)
		if pos.Line != tt.wantLine || pos.Column != tt.wantColumn {
			t.Errorf("Position(%d) = %d:%d, want %d:%d", tt.offset, pos.Line, pos.Column, tt.wantLine, tt.wantColumn)
		}
	}
}

func TestScope_EqualAndSubsumes(t *testing.T) {
	idx := NewLineIndex([]byte("0123456789\n0123456789\n"))
	a := NewScopeAt(idx.Location("A.java", 2, 15))
	b := NewScopeAt(idx.Location("A.java", 2, 15))
	c := NewScopeAt(idx.Location("A.java", 2, 16))

	if !a.Equal(b) {
		t.Error("scopes with identical positions should be equal")
	}
	if a.Equal(c) {
		t.Error("scopes with different end offsets should not be equal")
	}
	if a.Equal(nil) {
		t.Error("scope should not equal nil")
	}

	if !a.Subsumes(idx.Location("A.java", 3, 15)) {
		t.Error("scope should subsume a nested range")
	}
	if a.Subsumes(idx.Location("A.java", 1, 5)) {
		t.Error("scope should not subsume a range starting before it")
	}
	if a.Subsumes(idx.Location("B.java", 3, 5)) {
		t.Error("scope should not subsume a range in another file")
	}

	if got := a.String(); got != "1:3-2:5" {
		t.Errorf("String() = %q, want %q", got, "1:3-2:5")
	}
}

func TestScope_Statements(t *testing.T) {
	s := NewScopeAt(LocationInfo{FilePath: "A.java", EndOffset: 10})
	stmt := &Statement{Code: "x++;"}
	s.AddStatement(stmt)
	s.AddStatement(stmt)
	if len(s.Statements()) != 2 {
		t.Fatalf("Statements() len = %d, want 2", len(s.Statements()))
	}
	s.ResetStatements()
	if len(s.Statements()) != 0 {
		t.Errorf("Statements() after reset len = %d, want 0", len(s.Statements()))
	}

	s.SetParentSignature("run() : void")
	if s.ParentSignature() != "run() : void" {
		t.Errorf("ParentSignature() = %q", s.ParentSignature())
	}
}

func TestType_Equal(t *testing.T) {
	listOf := func(arg string) *Type {
		return &Type{Name: "List", Arguments: []*Type{{Name: arg}}}
	}

	tests := []struct {
		name string
		a, b *Type
		want bool
	}{
		{"same simple", &Type{Name: "int"}, &Type{Name: "int"}, true},
		{"different simple", &Type{Name: "int"}, &Type{Name: "long"}, false},
		{"same generic", listOf("String"), listOf("String"), true},
		{"different generic argument", listOf("String"), listOf("Integer"), false},
		{"raw vs generic", &Type{Name: "List"}, listOf("String"), false},
		{"array dimensions", &Type{Name: "int", Dimensions: 1}, &Type{Name: "int"}, false},
		{"both nil", nil, nil, true},
		{"one nil", nil, &Type{Name: "int"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestType_String(t *testing.T) {
	typ := &Type{
		Name: "Map",
		Arguments: []*Type{
			{Name: "String"},
			{Name: "List", Arguments: []*Type{{Name: "Integer"}}},
		},
		Dimensions: 2,
	}
	if got := typ.String(); got != "Map<String, List<Integer>>[][]" {
		t.Errorf("String() = %q", got)
	}
}

func TestCompositeStatement_AllVariableDeclarations(t *testing.T) {
	i := &VariableDeclaration{Name: "i", Type: &Type{Name: "int"}}
	x := &VariableDeclaration{Name: "x", Type: &Type{Name: "int"}}
	y := &VariableDeclaration{Name: "y", Type: &Type{Name: "int"}}
	hidden := &VariableDeclaration{Name: "hidden", Type: &Type{Name: "int"}}

	loop := &CompositeStatement{
		Statement: Statement{Code: "for(int i = 0; i < n; i++)", Declarations: []*VariableDeclaration{i}},
		Children: []Fragment{
			&Statement{Code: "int y = i;", Declarations: []*VariableDeclaration{y}},
			&Statement{Code: "run(new Runnable(){...});", Anonymous: []*AnonymousClass{{Declarations: []*VariableDeclaration{hidden}}}},
		},
	}
	body := &CompositeStatement{
		Statement: Statement{Code: "{"},
		Children: []Fragment{
			&Statement{Code: "int x = 0;", Declarations: []*VariableDeclaration{x}},
			loop,
		},
	}

	got := body.AllVariableDeclarations()
	want := []*VariableDeclaration{x, i, y}
	if len(got) != len(want) {
		t.Fatalf("AllVariableDeclarations() len = %d, want %d", len(got), len(want))
	}
	for k := range want {
		if got[k] != want[k] {
			t.Errorf("AllVariableDeclarations()[%d] = %s, want %s", k, got[k], want[k])
		}
	}

	op := &Operation{Name: "run", Body: body}
	all := op.AllVariableDeclarations()
	if len(all) != 4 || all[3] != hidden {
		t.Errorf("Operation.AllVariableDeclarations() should end with anonymous class declarations, got %v", all)
	}
}

func TestOperation_Signature(t *testing.T) {
	op := &Operation{
		ClassName: "Service",
		Name:      "sum",
		Parameters: []*VariableDeclaration{
			{Name: "values", Type: &Type{Name: "List", Arguments: []*Type{{Name: "Integer"}}}, Parameter: true},
			{Name: "extra", Type: &Type{Name: "int"}, Parameter: true, Varargs: true},
		},
		ReturnType: &Type{Name: "int"},
	}
	if got := op.Signature(); got != "sum(List<Integer>, int...) : int" {
		t.Errorf("Signature() = %q", got)
	}
	if got := op.String(); got != "Service.sum(List<Integer>, int...) : int" {
		t.Errorf("String() = %q", got)
	}
	if (&Operation{Name: "empty"}).AllVariableDeclarations() != nil {
		t.Error("operation without body should have no declarations")
	}
}

func TestRefactoring_Operands(t *testing.T) {
	a := &VariableDeclaration{Name: "a"}
	b := &VariableDeclaration{Name: "b"}
	c := &VariableDeclaration{Name: "c"}

	tests := []struct {
		name       string
		ref        Refactoring
		kind       RefactoringKind
		wantBefore int
		wantAfter  int
	}{
		{"rename", &RenameVariable{Original: a, Renamed: b}, RenameVariableKind, 1, 1},
		{"change type", &ChangeVariableType{Original: a, Changed: b}, ChangeVariableTypeKind, 1, 1},
		{"merge", &MergeVariable{Merged: []*VariableDeclaration{a, b}, NewVariable: c}, MergeVariableKind, 2, 1},
		{"split", &SplitVariable{OldVariable: a, Splits: []*VariableDeclaration{b, c}}, SplitVariableKind, 1, 2},
		{"change scope", &ChangeVariableScope{Original: a, Changed: b}, ChangeVariableScopeKind, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.ref.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", tt.ref.Kind(), tt.kind)
			}
			if len(tt.ref.Before()) != tt.wantBefore {
				t.Errorf("Before() len = %d, want %d", len(tt.ref.Before()), tt.wantBefore)
			}
			if len(tt.ref.After()) != tt.wantAfter {
				t.Errorf("After() len = %d, want %d", len(tt.ref.After()), tt.wantAfter)
			}
		})
	}
}

func TestReplacement_ChangeScope(t *testing.T) {
	idx := NewLineIndex([]byte("class A {\n  void m() {\n    int x = 0;\n  }\n}\n"))
	before := &VariableDeclaration{Name: "x", Type: &Type{Name: "int"}, Scope: NewScopeAt(idx.Location("A.java", 27, 41))}
	after := &VariableDeclaration{Name: "x", Type: &Type{Name: "int"}, Scope: NewScopeAt(idx.Location("A.java", 27, 42))}
	op := &Operation{ClassName: "A", Name: "m", ReturnType: &Type{Name: "void"}}

	r := VariableDeclarationReplacement{Before: before, After: after, OperationBefore: op, OperationAfter: op}
	ref := r.ChangeScope()
	if ref.Original != before || ref.Changed != after {
		t.Fatal("ChangeScope() should carry both declarations")
	}

	want := "Change Variable Scope x : int from 3:5-4:4 to 3:5-5:0 in method m() : void from class A"
	if got := ref.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestRefactoringKind_String(t *testing.T) {
	if MergeVariableKind.String() != "Merge Variable" {
		t.Errorf("String() = %q", MergeVariableKind.String())
	}
	if RefactoringKind(42).String() != "RefactoringKind(42)" {
		t.Errorf("unknown kind String() = %q", RefactoringKind(42).String())
	}
}
