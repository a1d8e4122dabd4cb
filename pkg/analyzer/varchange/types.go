package varchange

import (
	"fmt"

	"github.com/panbanda/varscope/pkg/models"
)

// Config controls how variable correspondences are resolved.
type Config struct {
	// Compat reproduces the outputs of the legacy detector: a single
	// candidate on each side is compared with itself, and residual
	// name/type pairs are always matched and reported as changed when
	// their usage overlaps.
	Compat bool `json:"compat"`

	// MinUsageSimilarity is the score a residual pair must exceed.
	MinUsageSimilarity float64 `json:"min_usage_similarity"`
}

// DefaultConfig returns the corrected, non-legacy configuration.
func DefaultConfig() Config {
	return Config{
		Compat:             false,
		MinUsageSimilarity: 0,
	}
}

// Input is one before/after method pair.
type Input struct {
	Before *models.Operation
	After  *models.Operation
	// Mappings is the statement correspondence computed upstream. It may
	// be empty.
	Mappings []models.CodeMapping
	// Refactorings holds the variable refactorings already detected for
	// the pair.
	Refactorings []models.Refactoring
}

// Analysis is the classification of every declaration of a method pair.
type Analysis struct {
	Before  *models.Operation
	After   *models.Operation
	Removed []*models.VariableDeclaration
	Added   []*models.VariableDeclaration
	Changed []models.VariableDeclarationReplacement
	Summary Summary
}

// Summary provides aggregate counts.
type Summary struct {
	BeforeDeclarations int `json:"before_declarations"`
	AfterDeclarations  int `json:"after_declarations"`
	MatchedBefore      int `json:"matched_before"`
	MatchedAfter       int `json:"matched_after"`
	Removed            int `json:"removed"`
	Added              int `json:"added"`
	Changed            int `json:"changed"`
	Mappings           int `json:"mappings"`
	SeededRefactorings int `json:"seeded_refactorings"`
}

// Refactorings returns one scope-change refactoring per changed variable.
func (a *Analysis) Refactorings() []models.Refactoring {
	refs := make([]models.Refactoring, 0, len(a.Changed))
	for _, r := range a.Changed {
		refs = append(refs, r.ChangeScope())
	}
	return refs
}

// Variable is the serializable form of a declaration.
type Variable struct {
	Name      string `json:"name" toon:"name"`
	Type      string `json:"type,omitempty" toon:"type"`
	Line      int    `json:"line" toon:"line"`
	Scope     string `json:"scope,omitempty" toon:"scope"`
	Signature string `json:"signature,omitempty" toon:"signature"`
}

// Change is the serializable form of a replacement.
type Change struct {
	Before      Variable `json:"before" toon:"before"`
	After       Variable `json:"after" toon:"after"`
	Description string   `json:"description" toon:"description"`
}

// Report is the serializable form of an Analysis.
type Report struct {
	Before  string     `json:"before" toon:"before"`
	After   string     `json:"after" toon:"after"`
	Removed []Variable `json:"removed" toon:"removed"`
	Added   []Variable `json:"added" toon:"added"`
	Changed []Change   `json:"changed" toon:"changed"`
	Summary Summary    `json:"summary" toon:"summary"`
}

// Report converts the analysis into its serializable form.
func (a *Analysis) Report() *Report {
	r := &Report{
		Removed: variables(a.Removed),
		Added:   variables(a.Added),
		Changed: make([]Change, 0, len(a.Changed)),
		Summary: a.Summary,
	}
	if a.Before != nil {
		r.Before = a.Before.String()
	}
	if a.After != nil {
		r.After = a.After.String()
	}
	for _, c := range a.Changed {
		r.Changed = append(r.Changed, Change{
			Before:      variable(c.Before),
			After:       variable(c.After),
			Description: c.ChangeScope().String(),
		})
	}
	return r
}

func variables(decls []*models.VariableDeclaration) []Variable {
	out := make([]Variable, 0, len(decls))
	for _, d := range decls {
		out = append(out, variable(d))
	}
	return out
}

func variable(d *models.VariableDeclaration) Variable {
	v := Variable{
		Name: d.Name,
		Type: d.Type.String(),
		Line: d.Location.StartLine,
	}
	if d.Scope != nil {
		v.Scope = d.Scope.String()
		v.Signature = d.Scope.ParentSignature()
	}
	return v
}

// InternalError is the panic value raised when the caller breaks an input
// contract, such as passing a declaration that has no scope.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return "internal error: " + e.Message
}

func internalErrorf(format string, args ...any) *InternalError {
	return &InternalError{Message: fmt.Sprintf(format, args...)}
}
