package models

import "strings"

// Operation is one version of a method, constructor, or function.
type Operation struct {
	ClassName  string
	Name       string
	Parameters []*VariableDeclaration
	ReturnType *Type
	Loc        LocationInfo
	// Body is nil for abstract or external declarations.
	Body *CompositeStatement
}

// Signature returns "name(T1, T2) : R", the label stamped on the scopes of
// variables declared directly in the operation.
func (o *Operation) Signature() string {
	var b strings.Builder
	b.WriteString(o.Name)
	b.WriteByte('(')
	for i, p := range o.Parameters {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Type.String())
		if p.Varargs {
			b.WriteString("...")
		}
	}
	b.WriteByte(')')
	if o.ReturnType != nil && o.ReturnType.Name != "" {
		b.WriteString(" : ")
		b.WriteString(o.ReturnType.String())
	}
	return b.String()
}

func (o *Operation) String() string {
	if o.ClassName == "" {
		return o.Signature()
	}
	return o.ClassName + "." + o.Signature()
}

// AllVariableDeclarations returns every declaration reachable in the body,
// followed by the declarations private to anonymous classes in the body.
func (o *Operation) AllVariableDeclarations() []*VariableDeclaration {
	if o.Body == nil {
		return nil
	}
	all := o.Body.AllVariableDeclarations()
	for _, anon := range o.Body.AllAnonymousClasses() {
		all = append(all, anon.Declarations...)
	}
	return all
}

// CodeMapping is one before/after statement correspondence.
type CodeMapping struct {
	Before Fragment
	After  Fragment
}
