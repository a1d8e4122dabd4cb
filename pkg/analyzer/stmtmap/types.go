package stmtmap

import "github.com/panbanda/varscope/pkg/models"

// Config holds statement mapper configuration.
type Config struct {
	// RenameAware pairs leftover statements whose text differs only in
	// variable names.
	RenameAware bool `json:"rename_aware"`
}

// DefaultConfig returns the default mapper configuration.
func DefaultConfig() Config {
	return Config{RenameAware: true}
}

// Pass identifies how a pair was found.
type Pass string

const (
	PassExact  Pass = "exact"
	PassRename Pass = "rename"
)

// Pair is one mapped statement pair.
type Pair struct {
	models.CodeMapping
	Pass Pass
}

// Result is the outcome of mapping two method bodies.
type Result struct {
	Pairs []Pair
	// UnmappedBefore and UnmappedAfter list statements left without a
	// counterpart, in traversal order.
	UnmappedBefore []models.Fragment
	UnmappedAfter  []models.Fragment
}

// Mappings returns the pairs as plain code mappings.
func (r *Result) Mappings() []models.CodeMapping {
	out := make([]models.CodeMapping, 0, len(r.Pairs))
	for _, p := range r.Pairs {
		out = append(out, p.CodeMapping)
	}
	return out
}
