package models

// Fragment is one node of a method's statement tree.
type Fragment interface {
	Location() LocationInfo
	String() string
	// VariableDeclarations returns the variables declared directly in the
	// fragment.
	VariableDeclarations() []*VariableDeclaration
	// AnonymousClasses returns anonymous class bodies nested in the fragment.
	AnonymousClasses() []*AnonymousClass
	// Variables returns the variable names the fragment references.
	Variables() []string
	// Lambdas returns the lambdas and function literals nested in the
	// fragment's own expressions.
	Lambdas() []*Lambda
}

// Lambda is a lambda expression or function literal nested in a fragment.
// Its parameters and body locals are visible only inside it.
type Lambda struct {
	Loc        LocationInfo
	Parameters []*VariableDeclaration
	// Body holds the lambda's statements. An expression body is wrapped in
	// a composite with a single leaf.
	Body *CompositeStatement
}

// Declarations returns the parameters followed by every declaration of
// the body.
func (l *Lambda) Declarations() []*VariableDeclaration {
	all := append([]*VariableDeclaration(nil), l.Parameters...)
	if l.Body != nil {
		all = append(all, l.Body.AllVariableDeclarations()...)
	}
	return all
}

// AnonymousClass is an anonymous class body nested in a fragment. Its
// declarations are private to it.
type AnonymousClass struct {
	Loc          LocationInfo
	Declarations []*VariableDeclaration
	// Bodies holds the method bodies of the class, whose scopes are derived
	// separately from the enclosing operation.
	Bodies []*CompositeStatement
}

// Statement is a leaf fragment.
//
// Declarations holds the variables whose scope continues past the
// statement; variables owned by nested lambdas live in Nested.
type Statement struct {
	Loc          LocationInfo
	Code         string
	Declarations []*VariableDeclaration
	Anonymous    []*AnonymousClass
	Nested       []*Lambda
	Names        []string
}

func (s *Statement) Location() LocationInfo { return s.Loc }

func (s *Statement) String() string { return s.Code }

// VariableDeclarations returns the statement's own declarations followed
// by those of its lambdas.
func (s *Statement) VariableDeclarations() []*VariableDeclaration {
	if len(s.Nested) == 0 {
		return s.Declarations
	}
	all := append([]*VariableDeclaration(nil), s.Declarations...)
	for _, l := range s.Nested {
		all = append(all, l.Declarations()...)
	}
	return all
}

func (s *Statement) Lambdas() []*Lambda { return s.Nested }

func (s *Statement) AnonymousClasses() []*AnonymousClass { return s.Anonymous }

func (s *Statement) Variables() []string { return s.Names }

// References reports whether the fragment references name.
func References(f Fragment, name string) bool {
	for _, v := range f.Variables() {
		if v == name {
			return true
		}
	}
	return false
}

// CompositeStatement is a fragment with an ordered list of child
// statements. Its own declarations come from its header (loop variables,
// catch parameters, resources); Code holds the header text.
type CompositeStatement struct {
	Statement
	Children []Fragment
}

// Statements returns the direct children.
func (c *CompositeStatement) Statements() []Fragment {
	return c.Children
}

// AllVariableDeclarations returns the declarations of the composite and of
// every statement in its subtree, in traversal order. Declarations private
// to anonymous classes are not included.
func (c *CompositeStatement) AllVariableDeclarations() []*VariableDeclaration {
	var all []*VariableDeclaration
	c.collect(&all)
	return all
}

func (c *CompositeStatement) collect(all *[]*VariableDeclaration) {
	*all = append(*all, c.VariableDeclarations()...)
	for _, child := range c.Children {
		if composite, ok := child.(*CompositeStatement); ok {
			composite.collect(all)
			continue
		}
		*all = append(*all, child.VariableDeclarations()...)
	}
}

// AllAnonymousClasses returns every anonymous class in the subtree.
func (c *CompositeStatement) AllAnonymousClasses() []*AnonymousClass {
	var all []*AnonymousClass
	Inspect(c, func(f Fragment) bool {
		all = append(all, f.AnonymousClasses()...)
		return true
	})
	return all
}

// Inspect walks the subtree rooted at f in pre-order. Children are skipped
// when fn returns false.
func Inspect(f Fragment, fn func(Fragment) bool) {
	if !fn(f) {
		return
	}
	if composite, ok := f.(*CompositeStatement); ok {
		for _, child := range composite.Children {
			Inspect(child, fn)
		}
	}
}
