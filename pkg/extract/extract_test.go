package extract

import (
	"testing"

	"github.com/panbanda/varscope/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ops() []*models.Operation {
	return []*models.Operation{
		{ClassName: "A", Name: "run"},
		{ClassName: "A", Name: "run", Parameters: []*models.VariableDeclaration{{Name: "n", Type: &models.Type{Name: "int"}}}},
		{ClassName: "B", Name: "stop"},
	}
}

func TestFindOperation(t *testing.T) {
	all := ops()

	tests := []struct {
		name    string
		query   string
		want    *models.Operation
		wantErr error
	}{
		{"bare name", "stop", all[2], nil},
		{"qualified name", "B.stop", all[2], nil},
		{"signature", "run(int)", all[1], nil},
		{"full form", "A.run()", all[0], nil},
		{"ambiguous", "run", nil, ErrAmbiguousOperation},
		{"missing", "jump", nil, ErrOperationNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindOperation(all, tt.query)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Same(t, tt.want, got)
		})
	}
}

func TestPairOperations(t *testing.T) {
	before := ops()
	after := []*models.Operation{
		{ClassName: "A", Name: "run"},
		{ClassName: "A", Name: "run", Parameters: []*models.VariableDeclaration{{Name: "n", Type: &models.Type{Name: "long"}}}},
		{ClassName: "B", Name: "stop", Parameters: []*models.VariableDeclaration{{Name: "force", Type: &models.Type{Name: "boolean"}}}},
	}

	pairs := PairOperations(before, after)

	require.Len(t, pairs, 3)
	assert.Same(t, before[0], pairs[0].Before)
	assert.Same(t, after[0], pairs[0].After)
	assert.Same(t, before[1], pairs[1].Before)
	assert.Same(t, after[1], pairs[1].After, "single leftover per name pairs across a signature change")
	assert.Same(t, before[2], pairs[2].Before)
	assert.Same(t, after[2], pairs[2].After)
}

func TestPairOperations_FollowsBeforeOrder(t *testing.T) {
	before := []*models.Operation{
		{ClassName: "A", Name: "run"},
		{ClassName: "A", Name: "size", ReturnType: &models.Type{Name: "int"}},
	}
	after := []*models.Operation{
		{ClassName: "A", Name: "run", Parameters: []*models.VariableDeclaration{{Name: "step", Type: &models.Type{Name: "int"}}}},
		{ClassName: "A", Name: "size", ReturnType: &models.Type{Name: "int"}},
	}

	pairs := PairOperations(before, after)

	require.Len(t, pairs, 2)
	assert.Same(t, before[0], pairs[0].Before, "renamed-signature pair keeps its position")
	assert.Same(t, after[0], pairs[0].After)
	assert.Same(t, before[1], pairs[1].Before)
	assert.Same(t, after[1], pairs[1].After)
}

func TestPairOperations_AmbiguousLeftovers(t *testing.T) {
	before := []*models.Operation{
		{Name: "f", Parameters: []*models.VariableDeclaration{{Type: &models.Type{Name: "int"}}}},
		{Name: "f", Parameters: []*models.VariableDeclaration{{Type: &models.Type{Name: "long"}}}},
	}
	after := []*models.Operation{
		{Name: "f", Parameters: []*models.VariableDeclaration{{Type: &models.Type{Name: "short"}}}},
	}

	assert.Empty(t, PairOperations(before, after))
}
