package varchange

import (
	"testing"

	"github.com/panbanda/varscope/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveScopes(t *testing.T) {
	f := newFixture("A.java")
	a := f.decl("a", "int", "run()")
	b := f.decl("b", "int", "run()")
	i := f.decl("i", "int", "run()")

	s1 := declStmt("int a = 0;", a)
	s3 := declStmt("int b = a;", b)
	s4 := stmt("b++;", nil, "b")
	inner := block(s3, s4)
	s2 := &models.CompositeStatement{
		Statement: models.Statement{Code: "if (a > 0)", Names: []string{"a"}},
		Children:  []models.Fragment{inner},
	}
	loopBody := stmt("a += i;", nil, "a", "i")
	loop := &models.CompositeStatement{
		Statement: models.Statement{Code: "for (int i = 0; i < a; i++)", Declarations: []*models.VariableDeclaration{i}},
		Children:  []models.Fragment{loopBody},
	}
	s5 := stmt("a++;", nil, "a")
	body := block(s1, s2, loop, s5)

	DeriveScopes(body)

	t.Run("declaring statement is not a member", func(t *testing.T) {
		assert.NotContains(t, a.Scope.Statements(), models.Fragment(s1))
	})

	t.Run("later siblings and their descendants are members", func(t *testing.T) {
		assert.Equal(t,
			[]models.Fragment{s2, inner, s3, s4, loop, loopBody, s5},
			a.Scope.Statements())
	})

	t.Run("scope closes with its enclosing block", func(t *testing.T) {
		assert.Equal(t, []models.Fragment{s4}, b.Scope.Statements())
	})

	t.Run("composite declarations cover the composite's descendants", func(t *testing.T) {
		assert.Equal(t, []models.Fragment{loopBody}, i.Scope.Statements())
	})

	t.Run("derivation is idempotent", func(t *testing.T) {
		before := append([]models.Fragment(nil), a.Scope.Statements()...)
		DeriveScopes(body)
		assert.Equal(t, before, a.Scope.Statements())
		assert.Len(t, b.Scope.Statements(), 1)
	})
}

func TestDeriveScopes_LeafDeclarationInNestedStatement(t *testing.T) {
	f := newFixture("A.java")
	fn := f.decl("x", "int", "run()")

	lambda := declStmt("list.forEach(x -> use(x));", fn)
	next := stmt("use(x);", nil, "x")
	body := block(lambda, next)

	DeriveScopes(body)

	assert.Equal(t, []models.Fragment{next}, fn.Scope.Statements())
}

func TestDeriveScopes_SkipsDeclarationsWithoutScope(t *testing.T) {
	d := &models.VariableDeclaration{Name: "x", Type: &models.Type{Name: "int"}}
	body := block(declStmt("int x;", d), stmt("x++;", nil, "x"))

	require.NotPanics(t, func() { DeriveScopes(body) })
}

func TestDeriveScopes_NilBody(t *testing.T) {
	assert.NotPanics(t, func() { DeriveScopes(nil) })
}
