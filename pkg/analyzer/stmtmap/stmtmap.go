// Package stmtmap computes a baseline statement mapping between two method
// bodies. It is a stand-in for a full refactoring-aware mapper: statements
// are aligned with a line diff of their normalized text, then leftovers
// that differ only in variable names are paired by hash.
package stmtmap

import (
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/panbanda/varscope/pkg/models"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Mapper maps statements between two versions of a method.
type Mapper struct {
	config Config
}

// Option is a functional option for configuring Mapper.
type Option func(*Mapper)

// WithRenameAware toggles the rename-aware pass.
func WithRenameAware(enabled bool) Option {
	return func(m *Mapper) {
		m.config.RenameAware = enabled
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(m *Mapper) {
		m.config = cfg
	}
}

// New creates a new statement mapper.
func New(opts ...Option) *Mapper {
	m := &Mapper{config: DefaultConfig()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Map pairs the statements of two operations. Either operation may lack a
// body, in which case every statement of the other is unmapped.
func (m *Mapper) Map(before, after *models.Operation) *Result {
	left := Flatten(body(before))
	right := Flatten(body(after))

	leftPaired := make([]bool, len(left))
	rightPaired := make([]bool, len(right))
	res := &Result{}

	for _, p := range align(left, right) {
		leftPaired[p[0]] = true
		rightPaired[p[1]] = true
		res.Pairs = append(res.Pairs, Pair{
			CodeMapping: models.CodeMapping{Before: left[p[0]], After: right[p[1]]},
			Pass:        PassExact,
		})
	}

	if m.config.RenameAware {
		res.Pairs = append(res.Pairs, renamePass(left, right, leftPaired, rightPaired)...)
	}

	for i, f := range left {
		if !leftPaired[i] {
			res.UnmappedBefore = append(res.UnmappedBefore, f)
		}
	}
	for j, f := range right {
		if !rightPaired[j] {
			res.UnmappedAfter = append(res.UnmappedAfter, f)
		}
	}
	return res
}

func body(op *models.Operation) *models.CompositeStatement {
	if op == nil {
		return nil
	}
	return op.Body
}

// Flatten lists every statement below root in pre-order. The root itself
// is not included.
func Flatten(root *models.CompositeStatement) []models.Fragment {
	if root == nil {
		return nil
	}
	var out []models.Fragment
	models.Inspect(root, func(f models.Fragment) bool {
		if f != models.Fragment(root) {
			out = append(out, f)
		}
		return true
	})
	return out
}

var whitespace = regexp.MustCompile(`\s+`)

// normalize collapses whitespace so that each statement occupies one line.
func normalize(f models.Fragment) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(f.String(), " "))
}

// align returns index pairs of statements whose normalized text is part of
// the common subsequence of both bodies.
func align(left, right []models.Fragment) [][2]int {
	if len(left) == 0 || len(right) == 0 {
		return nil
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(joinLines(left), joinLines(right))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var pairs [][2]int
	i, j := 0, 0
	for _, d := range diffs {
		n := strings.Count(d.Text, "\n")
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			for k := 0; k < n; k++ {
				pairs = append(pairs, [2]int{i + k, j + k})
			}
			i += n
			j += n
		case diffmatchpatch.DiffDelete:
			i += n
		case diffmatchpatch.DiffInsert:
			j += n
		}
	}
	return pairs
}

func joinLines(fragments []models.Fragment) string {
	var sb strings.Builder
	for _, f := range fragments {
		sb.WriteString(normalize(f))
		sb.WriteByte('\n')
	}
	return sb.String()
}

var identifier = regexp.MustCompile(`[A-Za-z_$][A-Za-z0-9_$]*`)

// shapeHash hashes the statement text with every variable name it
// references or declares replaced by a placeholder.
func shapeHash(f models.Fragment) uint64 {
	vars := make(map[string]bool)
	for _, name := range f.Variables() {
		vars[name] = true
	}
	for _, d := range f.VariableDeclarations() {
		vars[d.Name] = true
	}
	shape := identifier.ReplaceAllStringFunc(normalize(f), func(tok string) string {
		if vars[tok] {
			return "$v"
		}
		return tok
	})
	return xxhash.Sum64String(shape)
}

func isComposite(f models.Fragment) bool {
	_, ok := f.(*models.CompositeStatement)
	return ok
}

// renamePass pairs leftover statements first-fit by shape hash. Leaves pair
// only with leaves and composites only with composites.
func renamePass(left, right []models.Fragment, leftPaired, rightPaired []bool) []Pair {
	buckets := make(map[uint64][]int)
	for j, f := range right {
		if rightPaired[j] {
			continue
		}
		h := shapeHash(f)
		buckets[h] = append(buckets[h], j)
	}

	var pairs []Pair
	for i, f := range left {
		if leftPaired[i] {
			continue
		}
		h := shapeHash(f)
		for _, j := range buckets[h] {
			if rightPaired[j] || isComposite(f) != isComposite(right[j]) {
				continue
			}
			leftPaired[i] = true
			rightPaired[j] = true
			pairs = append(pairs, Pair{
				CodeMapping: models.CodeMapping{Before: f, After: right[j]},
				Pass:        PassRename,
			})
			break
		}
	}
	return pairs
}
