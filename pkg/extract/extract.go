// Package extract builds method models from tree-sitter parse results.
//
// For every method, constructor, or function the builder produces the
// statement tree of its body, the variables declared in each statement
// with their lexical scope ranges, the variable names each statement
// references, and the anonymous classes nested in statements.
package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/panbanda/varscope/pkg/models"
	"github.com/panbanda/varscope/pkg/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

var (
	// ErrNoTree is returned when a parse result carries no syntax tree.
	ErrNoTree = errors.New("parse result has no syntax tree")
	// ErrUnsupportedLanguage is returned for languages without a builder.
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrOperationNotFound is returned by FindOperation when nothing matches.
	ErrOperationNotFound = errors.New("operation not found")
	// ErrAmbiguousOperation is returned by FindOperation when several
	// operations match.
	ErrAmbiguousOperation = errors.New("ambiguous operation")
)

// Extract returns the operations declared in a parsed file, in source order.
func Extract(result *parser.ParseResult) ([]*models.Operation, error) {
	if result == nil || result.Tree == nil {
		return nil, ErrNoTree
	}
	b := newBuilder(result)
	root := result.Tree.RootNode()

	switch result.Language {
	case parser.LangJava:
		return (&javaBuilder{builder: b}).operations(root), nil
	case parser.LangGo:
		return (&goBuilder{builder: b}).operations(root), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, result.Language)
	}
}

// FindOperations returns every operation matching name. A name matches the
// bare operation name, "Class.name", the signature, or the full
// "Class.signature" form.
func FindOperations(ops []*models.Operation, name string) []*models.Operation {
	var out []*models.Operation
	for _, op := range ops {
		if matches(op, name) {
			out = append(out, op)
		}
	}
	return out
}

func matches(op *models.Operation, name string) bool {
	switch name {
	case op.Name, op.Signature(), op.String():
		return true
	}
	return op.ClassName != "" && name == op.ClassName+"."+op.Name
}

// FindOperation returns the single operation matching name.
func FindOperation(ops []*models.Operation, name string) (*models.Operation, error) {
	found := FindOperations(ops, name)
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrOperationNotFound, name)
	case 1:
		return found[0], nil
	default:
		candidates := make([]string, 0, len(found))
		for _, op := range found {
			candidates = append(candidates, op.String())
		}
		return nil, fmt.Errorf("%w: %s matches %s", ErrAmbiguousOperation, name, strings.Join(candidates, ", "))
	}
}

// Pair is a before/after pair of operations.
type Pair struct {
	Before *models.Operation
	After  *models.Operation
}

// PairOperations pairs the operations of two versions of a file. Operations
// pair by full signature first; the rest pair by class and name when that
// is unique on both sides, which follows a signature change. Pairs follow
// the order of before.
func PairOperations(before, after []*models.Operation) []Pair {
	used := make(map[*models.Operation]bool)
	match := make(map[*models.Operation]*models.Operation)

	bySignature := make(map[string]*models.Operation, len(after))
	for _, op := range after {
		if _, dup := bySignature[op.String()]; !dup {
			bySignature[op.String()] = op
		}
	}
	for _, op := range before {
		if other, ok := bySignature[op.String()]; ok && !used[other] {
			used[other] = true
			match[op] = other
		}
	}

	key := func(op *models.Operation) string { return op.ClassName + "." + op.Name }
	group := func(ops []*models.Operation, skip func(*models.Operation) bool) map[string][]*models.Operation {
		m := make(map[string][]*models.Operation)
		for _, op := range ops {
			if !skip(op) {
				m[key(op)] = append(m[key(op)], op)
			}
		}
		return m
	}
	leftByName := group(before, func(op *models.Operation) bool { return match[op] != nil })
	rightByName := group(after, func(op *models.Operation) bool { return used[op] })
	for _, op := range before {
		if match[op] != nil {
			continue
		}
		l, r := leftByName[key(op)], rightByName[key(op)]
		if len(l) == 1 && len(r) == 1 {
			match[op] = r[0]
		}
	}

	pairs := make([]Pair, 0, len(match))
	for _, op := range before {
		if other := match[op]; other != nil {
			pairs = append(pairs, Pair{Before: op, After: other})
		}
	}
	return pairs
}

// builder holds the state shared by the language builders.
type builder struct {
	path   string
	source []byte
	index  *models.LineIndex

	// signature labels the scopes created for the body being built.
	signature string
	scopes    map[models.ScopeKey]*models.Scope
}

func newBuilder(result *parser.ParseResult) *builder {
	return &builder{
		path:   result.Path,
		source: result.Source,
		index:  models.NewLineIndex(result.Source),
		scopes: make(map[models.ScopeKey]*models.Scope),
	}
}

func (b *builder) text(node *sitter.Node) string {
	return parser.GetNodeText(node, b.source)
}

func (b *builder) loc(node *sitter.Node) models.LocationInfo {
	return b.index.Location(b.path, int(node.StartByte()), int(node.EndByte()))
}

// scope returns the scope covering [start, end), shared by every
// declaration with the same range.
func (b *builder) scope(start, end uint32) *models.Scope {
	s := models.NewScopeAt(b.index.Location(b.path, int(start), int(end)))
	if existing, ok := b.scopes[s.Key()]; ok {
		return existing
	}
	s.SetParentSignature(b.signature)
	b.scopes[s.Key()] = s
	return s
}

// withSignature runs fn with scopes labelled by signature.
func (b *builder) withSignature(signature string, fn func()) {
	prev := b.signature
	b.signature = signature
	defer func() { b.signature = prev }()
	fn()
}

// header returns the normalized source between the start of node and the
// start of body.
func (b *builder) header(node, body *sitter.Node) string {
	if body == nil {
		return normalize(b.text(node))
	}
	return normalize(string(b.source[node.StartByte():body.StartByte()]))
}

func (b *builder) leaf(node *sitter.Node) *models.Statement {
	return &models.Statement{Loc: b.loc(node), Code: normalize(b.text(node))}
}

func (b *builder) composite(node *sitter.Node, code string) *models.CompositeStatement {
	return &models.CompositeStatement{
		Statement: models.Statement{Loc: b.loc(node), Code: code},
	}
}

var whitespace = regexp.MustCompile(`\s+`)

func normalize(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// nameSet collects names in first-seen order.
type nameSet struct {
	seen  map[string]bool
	names []string
}

func (n *nameSet) add(name string) {
	if n.seen == nil {
		n.seen = make(map[string]bool)
	}
	if name == "" || n.seen[name] {
		return
	}
	n.seen[name] = true
	n.names = append(n.names, name)
}

func (n *nameSet) addAll(names []string) {
	for _, name := range names {
		n.add(name)
	}
}

// nest attaches a lambda or function literal to the statement containing
// it. The statement takes over the names referenced in the body and the
// anonymous classes nested in it; the declarations stay with the lambda.
func nest(s *models.Statement, lambda *models.Lambda, names *nameSet) {
	s.Nested = append(s.Nested, lambda)
	if lambda.Body == nil {
		return
	}
	s.Anonymous = append(s.Anonymous, lambda.Body.AllAnonymousClasses()...)
	models.Inspect(lambda.Body, func(f models.Fragment) bool {
		names.addAll(f.Variables())
		return true
	})
}

// namedChildren returns the named children of node, skipping comments.
func namedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, node.NamedChildCount())
	for i := range int(node.NamedChildCount()) {
		c := node.NamedChild(i)
		switch c.Type() {
		case "comment", "line_comment", "block_comment":
			continue
		}
		out = append(out, c)
	}
	return out
}

func hasChildOfType(node *sitter.Node, nodeType string) bool {
	for i := range int(node.ChildCount()) {
		if node.Child(i).Type() == nodeType {
			return true
		}
	}
	return false
}
