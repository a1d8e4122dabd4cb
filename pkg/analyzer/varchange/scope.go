package varchange

import "github.com/panbanda/varscope/pkg/models"

// DeriveScopes assigns every statement of body to the scopes that enclose
// it. A nil body yields no scopes.
//
// A scope is open from the point its variable is declared until the
// traversal of the composite containing the declaration completes. Opening
// a scope resets its membership, so deriving the same body again produces
// the same result.
func DeriveScopes(body *models.CompositeStatement) {
	if body == nil {
		return
	}
	deriveScopes(body, make(openScopes))
	deriveAnonymous(body.AllAnonymousClasses())
}

// deriveAnonymous derives the method bodies of anonymous classes, which do
// not see the scopes of the enclosing operation.
func deriveAnonymous(classes []*models.AnonymousClass) {
	for _, anon := range classes {
		for _, b := range anon.Bodies {
			if b == nil {
				continue
			}
			deriveScopes(b, make(openScopes))
			deriveAnonymous(b.AllAnonymousClasses())
		}
	}
}

// openScopes is keyed by position so that equal scopes are opened once.
type openScopes map[models.ScopeKey]*models.Scope

func (o openScopes) open(decls []*models.VariableDeclaration) {
	for _, v := range decls {
		if v.Scope == nil {
			continue
		}
		key := v.Scope.Key()
		if _, ok := o[key]; ok {
			continue
		}
		v.Scope.ResetStatements()
		o[key] = v.Scope
	}
}

func (o openScopes) close(decls []*models.VariableDeclaration) {
	for _, v := range decls {
		if v.Scope != nil {
			delete(o, v.Scope.Key())
		}
	}
}

func deriveScopes(composite *models.CompositeStatement, open openScopes) {
	deriveLambdas(composite)
	open.open(ownDeclarations(composite))

	for _, child := range composite.Children {
		for _, s := range open {
			s.AddStatement(child)
		}
		if nested, ok := child.(*models.CompositeStatement); ok {
			deriveScopes(nested, open)
			continue
		}
		// Declarations made inside a leaf (including inside its
		// expressions) stay visible to the following siblings.
		deriveLambdas(child)
		open.open(ownDeclarations(child))
	}

	open.close(composite.AllVariableDeclarations())
}

// deriveLambdas derives the bodies of the lambdas nested in f. A lambda
// body sees its own parameters only; the statement hosting the lambda
// already carries the names the body references.
func deriveLambdas(f models.Fragment) {
	for _, l := range f.Lambdas() {
		if l.Body == nil {
			continue
		}
		open := make(openScopes)
		open.open(l.Parameters)
		deriveScopes(l.Body, open)
	}
}

// ownDeclarations returns the declarations of f whose scope continues past
// it, leaving out those owned by nested lambdas.
func ownDeclarations(f models.Fragment) []*models.VariableDeclaration {
	lambdas := f.Lambdas()
	if len(lambdas) == 0 {
		return f.VariableDeclarations()
	}
	var nested []*models.VariableDeclaration
	for _, l := range lambdas {
		nested = append(nested, l.Declarations()...)
	}
	return direct(f, nested)
}
