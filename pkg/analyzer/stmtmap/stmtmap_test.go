package stmtmap

import (
	"testing"

	"github.com/panbanda/varscope/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(code string, names ...string) *models.Statement {
	return &models.Statement{Code: code, Names: names}
}

func declare(code, name string) *models.Statement {
	return &models.Statement{
		Code:         code,
		Declarations: []*models.VariableDeclaration{{Name: name, Type: &models.Type{Name: "int"}}},
	}
}

func composite(code string, children ...models.Fragment) *models.CompositeStatement {
	return &models.CompositeStatement{Statement: models.Statement{Code: code}, Children: children}
}

func op(children ...models.Fragment) *models.Operation {
	return &models.Operation{Name: "run", Body: composite("{", children...)}
}

func TestFlatten(t *testing.T) {
	a := leaf("a();")
	b := leaf("b();")
	inner := composite("if (x)", b)
	root := composite("{", a, inner)

	assert.Equal(t, []models.Fragment{a, inner, b}, Flatten(root))
	assert.Nil(t, Flatten(nil))
}

func TestMap_Exact(t *testing.T) {
	b1, b2, b3 := leaf("a();"), leaf("b();"), leaf("c();")
	a1, a2, a3 := leaf("a();"), leaf("x();"), leaf("c();")

	res := New(WithRenameAware(false)).Map(op(b1, b2, b3), op(a1, a2, a3))

	require.Len(t, res.Pairs, 2)
	assert.Equal(t, models.CodeMapping{Before: b1, After: a1}, res.Pairs[0].CodeMapping)
	assert.Equal(t, models.CodeMapping{Before: b3, After: a3}, res.Pairs[1].CodeMapping)
	assert.Equal(t, PassExact, res.Pairs[0].Pass)
	assert.Equal(t, []models.Fragment{b2}, res.UnmappedBefore)
	assert.Equal(t, []models.Fragment{a2}, res.UnmappedAfter)
}

func TestMap_IgnoresWhitespace(t *testing.T) {
	b := leaf("foo( a,\n\t b );")
	a := leaf("foo( a, b );")

	res := New().Map(op(b), op(a))

	require.Len(t, res.Pairs, 1)
	assert.Equal(t, PassExact, res.Pairs[0].Pass)
}

func TestMap_RenameAware(t *testing.T) {
	b1 := declare("int count = 0;", "count")
	b2 := leaf("count++;", "count")
	a1 := declare("int total = 0;", "total")
	a2 := leaf("total++;", "total")

	t.Run("enabled", func(t *testing.T) {
		res := New().Map(op(b1, b2), op(a1, a2))

		require.Len(t, res.Pairs, 2)
		for _, p := range res.Pairs {
			assert.Equal(t, PassRename, p.Pass)
		}
		assert.Equal(t, []models.CodeMapping{{Before: b1, After: a1}, {Before: b2, After: a2}}, res.Mappings())
		assert.Empty(t, res.UnmappedBefore)
		assert.Empty(t, res.UnmappedAfter)
	})

	t.Run("disabled", func(t *testing.T) {
		res := New(WithRenameAware(false)).Map(op(b1, b2), op(a1, a2))

		assert.Empty(t, res.Pairs)
		assert.Len(t, res.UnmappedBefore, 2)
	})
}

func TestMap_RenameKeepsKinds(t *testing.T) {
	b := composite("while (x)", leaf("stop();"))
	a := leaf("while (y)", "y")
	bLeaf := leaf("while (x)", "x")

	res := New().Map(op(b, bLeaf), op(a))

	require.Len(t, res.Pairs, 1)
	assert.Same(t, bLeaf, res.Pairs[0].Before)
}

func TestMap_NilBodies(t *testing.T) {
	after := op(leaf("a();"))

	res := New().Map(&models.Operation{Name: "run"}, after)

	assert.Empty(t, res.Pairs)
	assert.Len(t, res.UnmappedAfter, 1)
	assert.Empty(t, New().Map(nil, nil).Pairs)
}

func TestDefaultConfig(t *testing.T) {
	assert.True(t, DefaultConfig().RenameAware)
	assert.False(t, New(WithConfig(Config{})).config.RenameAware)
}
