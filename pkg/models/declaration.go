package models

import "strings"

// Type is a structural type descriptor. Equality covers the type name,
// every generic argument, and array dimensions.
type Type struct {
	Name       string  `json:"name"`
	Arguments  []*Type `json:"arguments,omitempty"`
	Dimensions int     `json:"dimensions,omitempty"`
}

// Equal reports whether t and other describe the same type.
func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Name != other.Name || t.Dimensions != other.Dimensions || len(t.Arguments) != len(other.Arguments) {
		return false
	}
	for i, arg := range t.Arguments {
		if !arg.Equal(other.Arguments[i]) {
			return false
		}
	}
	return true
}

func (t *Type) String() string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(t.Name)
	if len(t.Arguments) > 0 {
		b.WriteByte('<')
		for i, arg := range t.Arguments {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(arg.String())
		}
		b.WriteByte('>')
	}
	for range t.Dimensions {
		b.WriteString("[]")
	}
	return b.String()
}

// VariableDeclaration is one declared local variable, parameter, or
// resource. The scope is a lookup-only back-reference.
type VariableDeclaration struct {
	Name      string
	Type      *Type
	Scope     *Scope
	Location  LocationInfo
	Final     bool
	Parameter bool
	Varargs   bool
}

// String returns the declaration as "name : Type".
func (v *VariableDeclaration) String() string {
	if v.Type == nil || v.Type.Name == "" {
		return v.Name
	}
	return v.Name + " : " + v.Type.String()
}

// SameNameAndType reports whether both declarations share a name and an
// equal declared type.
func (v *VariableDeclaration) SameNameAndType(other *VariableDeclaration) bool {
	return v.Name == other.Name && v.Type.Equal(other.Type)
}
