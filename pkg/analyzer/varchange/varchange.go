// Package varchange resolves which local variables of a method version
// correspond to which variables of the next version, and classifies the
// rest as removed, added, or changed.
package varchange

import (
	"log/slog"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/panbanda/varscope/pkg/models"
)

// Analyzer classifies variable declarations across two method versions.
// It holds configuration only and is safe for concurrent use on method
// pairs that do not share operations.
type Analyzer struct {
	config Config
	logger *slog.Logger
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(a *Analyzer) {
		a.config = cfg
	}
}

// WithCompat toggles reproduction of the legacy detector outputs.
func WithCompat(compat bool) Option {
	return func(a *Analyzer) {
		a.config.Compat = compat
	}
}

// WithMinUsageSimilarity sets the score a residual pair must exceed.
func WithMinUsageSimilarity(threshold float64) Option {
	return func(a *Analyzer) {
		if threshold >= 0 && threshold < 1 {
			a.config.MinUsageSimilarity = threshold
		}
	}
}

// WithLogger sets the logger used for phase diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates a new variable change analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		config: DefaultConfig(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Config returns the active configuration.
func (a *Analyzer) Config() Config {
	return a.config
}

// Analyze derives the scopes of both bodies and classifies every
// declaration of the pair.
func (a *Analyzer) Analyze(in Input) *Analysis {
	if in.Before != nil {
		DeriveScopes(in.Before.Body)
	}
	if in.After != nil {
		DeriveScopes(in.After.Body)
	}

	r := newRun(a.config, in)

	for _, m := range in.Mappings {
		r.matchFragments(m.Before, m.After)
	}
	exact := r.changedCount()

	r.seed(in.Refactorings)

	removed := r.unmatched(allDeclarations(in.Before), r.left)
	added := r.unmatched(allDeclarations(in.After), r.right)
	r.match(removed, added, r.residualPolicy())

	analysis := &Analysis{
		Before:  in.Before,
		After:   in.After,
		Removed: r.unmatched(removed, r.left),
		Added:   r.unmatched(added, r.right),
		Changed: r.changed,
	}
	analysis.Summary = Summary{
		BeforeDeclarations: len(allDeclarations(in.Before)),
		AfterDeclarations:  len(allDeclarations(in.After)),
		MatchedBefore:      r.matchedCount(allDeclarations(in.Before), r.left),
		MatchedAfter:       r.matchedCount(allDeclarations(in.After), r.right),
		Removed:            len(analysis.Removed),
		Added:              len(analysis.Added),
		Changed:            len(analysis.Changed),
		Mappings:           len(in.Mappings),
		SeededRefactorings: r.seeded,
	}

	a.logger.Debug("variable change analysis",
		"before", operationName(in.Before),
		"after", operationName(in.After),
		"mappings", len(in.Mappings),
		"exact_changed", exact,
		"seeded", r.seeded,
		"residual_removed", len(removed),
		"residual_added", len(added),
		"removed", len(analysis.Removed),
		"added", len(analysis.Added),
		"changed", len(analysis.Changed),
	)

	return analysis
}

func allDeclarations(op *models.Operation) []*models.VariableDeclaration {
	if op == nil {
		return nil
	}
	return op.AllVariableDeclarations()
}

func operationName(op *models.Operation) string {
	if op == nil {
		return ""
	}
	return op.String()
}

// side is the matched-set bookkeeping of one version. Declarations are
// numbered in first-seen order and tracked in a bitmap.
type side struct {
	ids     map[*models.VariableDeclaration]uint32
	matched *roaring.Bitmap
}

func newSide() *side {
	return &side{
		ids:     make(map[*models.VariableDeclaration]uint32),
		matched: roaring.New(),
	}
}

func (s *side) id(v *models.VariableDeclaration) uint32 {
	if id, ok := s.ids[v]; ok {
		return id
	}
	id := uint32(len(s.ids))
	s.ids[v] = id
	return id
}

func (s *side) mark(v *models.VariableDeclaration) {
	s.matched.Add(s.id(v))
}

func (s *side) isMatched(v *models.VariableDeclaration) bool {
	return s.matched.Contains(s.id(v))
}

// policy decides what happens to a name/type candidate pair.
type policy struct {
	// accept reports whether the pair may be matched at all.
	accept func(l, r *models.VariableDeclaration) bool
	// report reports whether a matched pair whose enclosing signatures
	// differ is recorded as changed.
	report func(l, r *models.VariableDeclaration) bool
}

func always(_, _ *models.VariableDeclaration) bool { return true }

func never(_, _ *models.VariableDeclaration) bool { return false }

var (
	directPolicy    = policy{accept: always, report: always}
	anonymousPolicy = policy{accept: always, report: never}
)

// run is the state of one Analyze call.
type run struct {
	config  Config
	before  *models.Operation
	after   *models.Operation
	mapping map[models.Fragment]models.Fragment
	left    *side
	right   *side
	changed []models.VariableDeclarationReplacement
	seeded  int
}

func newRun(cfg Config, in Input) *run {
	mapping := make(map[models.Fragment]models.Fragment, len(in.Mappings))
	for _, m := range in.Mappings {
		mapping[m.Before] = m.After
	}
	return &run{
		config:  cfg,
		before:  in.Before,
		after:   in.After,
		mapping: mapping,
		left:    newSide(),
		right:   newSide(),
	}
}

func (r *run) changedCount() int {
	return len(r.changed)
}

// matchFragments matches the declarations of one statement pair. Variables
// private to anonymous classes are matched among themselves and never
// reported as changed.
func (r *run) matchFragments(left, right models.Fragment) {
	leftAnon := anonymousDeclarations(left)
	rightAnon := anonymousDeclarations(right)

	r.match(direct(left, leftAnon), direct(right, rightAnon), directPolicy)
	r.match(leftAnon, rightAnon, anonymousPolicy)
}

func anonymousDeclarations(f models.Fragment) []*models.VariableDeclaration {
	var decls []*models.VariableDeclaration
	for _, anon := range f.AnonymousClasses() {
		decls = append(decls, anon.Declarations...)
	}
	return decls
}

func direct(f models.Fragment, exclude []*models.VariableDeclaration) []*models.VariableDeclaration {
	if len(exclude) == 0 {
		return f.VariableDeclarations()
	}
	excluded := make(map[*models.VariableDeclaration]bool, len(exclude))
	for _, v := range exclude {
		excluded[v] = true
	}
	var decls []*models.VariableDeclaration
	for _, v := range f.VariableDeclarations() {
		if !excluded[v] {
			decls = append(decls, v)
		}
	}
	return decls
}

// match pairs candidates first-fit. A single candidate on each side is
// paired unconditionally; otherwise each left candidate is offered the first
// unconsumed right candidate with the same name and type, and only that one.
// A candidate the policy rejects leaves both sides unmatched.
func (r *run) match(lefts, rights []*models.VariableDeclaration, p policy) {
	if len(lefts) == 1 && len(rights) == 1 {
		l, rv := lefts[0], rights[0]
		if r.config.Compat {
			rv = l
		}
		r.pair(l, rv, p)
		return
	}

	for _, l := range lefts {
		for _, rv := range rights {
			if r.right.isMatched(rv) || !l.SameNameAndType(rv) {
				continue
			}
			r.pair(l, rv, p)
			break
		}
	}
}

// pair records l and rv as matched when neither is matched yet and the
// policy accepts them.
func (r *run) pair(l, rv *models.VariableDeclaration, p policy) {
	if r.left.isMatched(l) || r.right.isMatched(rv) {
		return
	}
	if !p.accept(l, rv) {
		return
	}
	if scopeOf(l).ParentSignature() != scopeOf(rv).ParentSignature() && p.report(l, rv) {
		r.changed = append(r.changed, models.VariableDeclarationReplacement{
			Before:          l,
			After:           rv,
			OperationBefore: r.before,
			OperationAfter:  r.after,
		})
	}
	r.left.mark(l)
	r.right.mark(rv)
}

// seed marks the operands of refactorings detected upstream as matched.
func (r *run) seed(refs []models.Refactoring) {
	for _, ref := range refs {
		switch ref.(type) {
		case *models.RenameVariable, *models.ChangeVariableType, *models.MergeVariable, *models.SplitVariable:
			for _, v := range ref.Before() {
				r.left.mark(v)
			}
			for _, v := range ref.After() {
				r.right.mark(v)
			}
			r.seeded++
		}
	}
}

// matchedCount counts the distinct decls matched on s. A side may also
// carry declarations of the other version, which compat pairing marks
// there.
func (r *run) matchedCount(decls []*models.VariableDeclaration, s *side) int {
	counted := roaring.New()
	for _, v := range decls {
		if s.isMatched(v) {
			counted.Add(s.id(v))
		}
	}
	return int(counted.GetCardinality())
}

// unmatched returns decls not matched on s, without duplicates, in order.
func (r *run) unmatched(decls []*models.VariableDeclaration, s *side) []*models.VariableDeclaration {
	seen := roaring.New()
	out := make([]*models.VariableDeclaration, 0, len(decls))
	for _, v := range decls {
		id := s.id(v)
		if s.matched.Contains(id) || seen.Contains(id) {
			continue
		}
		seen.Add(id)
		out = append(out, v)
	}
	return out
}

// residualPolicy resolves declarations the statement mapping did not reach.
// Pairs are accepted when their usage overlaps; in compat mode every pair is
// matched and the overlap decides whether it is reported as changed.
func (r *run) residualPolicy() policy {
	if r.config.Compat {
		return policy{accept: always, report: r.usageOverlaps}
	}
	return policy{accept: r.usageOverlaps, report: never}
}

func (r *run) usageOverlaps(l, rv *models.VariableDeclaration) bool {
	return UsageSimilarity(Usages(l), Usages(rv), r.mapping) > r.config.MinUsageSimilarity
}
