package extract

import (
	"strings"

	"github.com/panbanda/varscope/pkg/models"
	"github.com/panbanda/varscope/pkg/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

type goBuilder struct {
	*builder
}

func (g *goBuilder) operations(root *sitter.Node) []*models.Operation {
	var ops []*models.Operation
	for _, c := range namedChildren(root) {
		switch c.Type() {
		case "function_declaration":
			ops = append(ops, g.operation(c, ""))
		case "method_declaration":
			ops = append(ops, g.operation(c, g.receiverType(c.ChildByFieldName("receiver"))))
		}
	}
	return ops
}

// receiverType returns the bare type name of a method receiver, without
// pointer or type parameters.
func (g *goBuilder) receiverType(receiver *sitter.Node) string {
	for _, p := range namedChildren(receiver) {
		if p.Type() != "parameter_declaration" {
			continue
		}
		name := strings.TrimLeft(normalize(g.text(p.ChildByFieldName("type"))), "*")
		if i := strings.Index(name, "["); i >= 0 {
			name = name[:i]
		}
		return name
	}
	return ""
}

func (g *goBuilder) operation(node *sitter.Node, class string) *models.Operation {
	op := &models.Operation{
		ClassName:  class,
		Name:       g.text(node.ChildByFieldName("name")),
		Loc:        g.loc(node),
		Parameters: g.parameters(node.ChildByFieldName("parameters")),
	}
	if result := node.ChildByFieldName("result"); result != nil {
		op.ReturnType = g.typeOf(result)
	}

	body := node.ChildByFieldName("body")
	g.withSignature(op.Signature(), func() {
		end := node.EndByte()
		if body != nil {
			end = body.EndByte()
		}
		for _, p := range op.Parameters {
			p.Scope = g.scope(uint32(p.Location.StartOffset), end)
		}
		if body != nil {
			op.Body = g.block(body)
		}
	})
	return op
}

// parameters returns the declared parameters without scopes. Unnamed
// parameters are kept so that signatures stay complete.
func (g *goBuilder) parameters(node *sitter.Node) []*models.VariableDeclaration {
	var params []*models.VariableDeclaration
	for _, p := range namedChildren(node) {
		variadic := p.Type() == "variadic_parameter_declaration"
		if p.Type() != "parameter_declaration" && !variadic {
			continue
		}
		typ := g.typeOf(p.ChildByFieldName("type"))
		names := parser.ChildrenByField(p, "name")
		if len(names) == 0 {
			params = append(params, &models.VariableDeclaration{Type: typ, Location: g.loc(p), Parameter: true, Varargs: variadic})
			continue
		}
		for _, n := range names {
			params = append(params, &models.VariableDeclaration{
				Name:      g.text(n),
				Type:      typ,
				Location:  g.loc(n),
				Parameter: true,
				Varargs:   variadic,
			})
		}
	}
	return params
}

func (g *goBuilder) typeOf(node *sitter.Node) *models.Type {
	if node == nil {
		return &models.Type{}
	}
	return &models.Type{Name: normalize(g.text(node))}
}

// inferType guesses the type of a short variable declaration from its
// initializer. Unknown initializers yield an empty type.
func (g *goBuilder) inferType(value *sitter.Node) *models.Type {
	if value == nil {
		return &models.Type{}
	}
	switch value.Type() {
	case "int_literal":
		return &models.Type{Name: "int"}
	case "float_literal":
		return &models.Type{Name: "float64"}
	case "imaginary_literal":
		return &models.Type{Name: "complex128"}
	case "rune_literal":
		return &models.Type{Name: "rune"}
	case "interpreted_string_literal", "raw_string_literal":
		return &models.Type{Name: "string"}
	case "true", "false":
		return &models.Type{Name: "bool"}
	case "composite_literal":
		return g.typeOf(value.ChildByFieldName("type"))
	case "unary_expression":
		operand := value.ChildByFieldName("operand")
		if operand != nil && operand.Type() == "composite_literal" && strings.HasPrefix(g.text(value), "&") {
			return &models.Type{Name: "*" + g.typeOf(operand.ChildByFieldName("type")).Name}
		}
	case "call_expression":
		fn := g.text(value.ChildByFieldName("function"))
		args := namedChildren(value.ChildByFieldName("arguments"))
		if len(args) == 0 {
			break
		}
		switch fn {
		case "make":
			return g.typeOf(args[0])
		case "new":
			return &models.Type{Name: "*" + g.typeOf(args[0]).Name}
		}
	}
	return &models.Type{}
}

// statements returns the statements of a block or case clause, looking
// through statement_list wrappers.
func statements(node *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for _, c := range namedChildren(node) {
		if c.Type() == "statement_list" {
			out = append(out, namedChildren(c)...)
			continue
		}
		out = append(out, c)
	}
	return out
}

func (g *goBuilder) block(node *sitter.Node) *models.CompositeStatement {
	c := g.composite(node, "{")
	for _, s := range statements(node) {
		c.Children = append(c.Children, g.statement(s, node.EndByte()))
	}
	return c
}

func (g *goBuilder) statement(node *sitter.Node, scopeEnd uint32) models.Fragment {
	switch node.Type() {
	case "block":
		return g.block(node)

	case "if_statement":
		consequence := node.ChildByFieldName("consequence")
		c := g.composite(node, g.header(node, consequence))
		g.initializer(c, node.ChildByFieldName("initializer"), node.EndByte())
		g.expressions(&c.Statement, node.ChildByFieldName("condition"))
		c.Children = append(c.Children, g.block(consequence))
		if alt := node.ChildByFieldName("alternative"); alt != nil {
			c.Children = append(c.Children, g.statement(alt, node.EndByte()))
		}
		return c

	case "for_statement":
		body := node.ChildByFieldName("body")
		c := g.composite(node, g.header(node, body))
		if clause := parser.ChildOfType(node, "for_clause"); clause != nil {
			g.initializer(c, clause.ChildByFieldName("initializer"), node.EndByte())
			g.expressions(&c.Statement, clause.ChildByFieldName("condition"), clause.ChildByFieldName("update"))
		} else if clause := parser.ChildOfType(node, "range_clause"); clause != nil {
			if hasChildOfType(clause, ":=") {
				c.Declarations = append(c.Declarations, g.identifiers(clause.ChildByFieldName("left"), nil, node.EndByte())...)
			} else {
				g.expressions(&c.Statement, clause.ChildByFieldName("left"))
			}
			g.expressions(&c.Statement, clause.ChildByFieldName("right"))
		} else {
			for _, cond := range namedChildren(node) {
				if cond != body {
					g.expressions(&c.Statement, cond)
				}
			}
		}
		c.Children = append(c.Children, g.block(body))
		return c

	case "expression_switch_statement", "type_switch_statement", "select_statement":
		return g.switchStatement(node)

	case "labeled_statement":
		label := node.ChildByFieldName("label")
		c := g.composite(node, g.text(label)+":")
		for _, s := range namedChildren(node) {
			if s != label && s.Type() != "label_name" {
				c.Children = append(c.Children, g.statement(s, scopeEnd))
			}
		}
		return c

	case "short_var_declaration":
		s := g.leaf(node)
		s.Declarations = g.identifiers(node.ChildByFieldName("left"), node.ChildByFieldName("right"), scopeEnd)
		g.expressions(s, node.ChildByFieldName("right"))
		return s

	case "var_declaration", "const_declaration":
		s := g.leaf(node)
		for _, spec := range specs(node) {
			s.Declarations = append(s.Declarations, g.spec(spec, scopeEnd, node.Type() == "const_declaration")...)
			g.expressions(s, spec.ChildByFieldName("value"))
		}
		return s

	default:
		s := g.leaf(node)
		g.expressions(s, node)
		return s
	}
}

// initializer adds the declarations of an if/for/switch initializer to the
// composite.
func (g *goBuilder) initializer(c *models.CompositeStatement, init *sitter.Node, scopeEnd uint32) {
	if init == nil {
		return
	}
	if init.Type() == "short_var_declaration" {
		c.Declarations = append(c.Declarations, g.identifiers(init.ChildByFieldName("left"), init.ChildByFieldName("right"), scopeEnd)...)
		g.expressions(&c.Statement, init.ChildByFieldName("right"))
		return
	}
	g.expressions(&c.Statement, init)
}

// identifiers declares every identifier of an expression list. Types are
// inferred from the matching value when the counts agree.
func (g *goBuilder) identifiers(left, right *sitter.Node, scopeEnd uint32) []*models.VariableDeclaration {
	ids := namedChildren(left)
	values := namedChildren(right)
	var decls []*models.VariableDeclaration
	for i, id := range ids {
		if id.Type() != "identifier" || g.text(id) == "_" {
			continue
		}
		typ := &models.Type{}
		if len(values) == len(ids) {
			typ = g.inferType(values[i])
		}
		decls = append(decls, &models.VariableDeclaration{
			Name:     g.text(id),
			Type:     typ,
			Scope:    g.scope(id.StartByte(), scopeEnd),
			Location: g.loc(id),
		})
	}
	return decls
}

// specs returns the var or const specs of a declaration, grouped or not.
func specs(node *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for _, c := range namedChildren(node) {
		switch c.Type() {
		case "var_spec", "const_spec":
			out = append(out, c)
		case "var_spec_list", "const_spec_list":
			out = append(out, specs(c)...)
		}
	}
	return out
}

func (g *goBuilder) spec(spec *sitter.Node, scopeEnd uint32, final bool) []*models.VariableDeclaration {
	names := parser.ChildrenByField(spec, "name")
	values := namedChildren(spec.ChildByFieldName("value"))
	explicit := spec.ChildByFieldName("type")
	var decls []*models.VariableDeclaration
	for i, n := range names {
		if g.text(n) == "_" {
			continue
		}
		typ := g.typeOf(explicit)
		if explicit == nil && len(values) == len(names) {
			typ = g.inferType(values[i])
		}
		decls = append(decls, &models.VariableDeclaration{
			Name:     g.text(n),
			Type:     typ,
			Scope:    g.scope(n.StartByte(), scopeEnd),
			Location: g.loc(n),
			Final:    final,
		})
	}
	return decls
}

// switchStatement builds every case clause as a composite holding its
// statements, since Go scopes case locals to the clause.
func (g *goBuilder) switchStatement(node *sitter.Node) *models.CompositeStatement {
	var first *sitter.Node
	for _, c := range namedChildren(node) {
		if strings.HasSuffix(c.Type(), "_case") {
			first = c
			break
		}
	}
	code := g.header(node, first)
	if first == nil {
		code = strings.TrimSuffix(strings.TrimSpace(strings.TrimSuffix(code, "}")), "{")
		code = strings.TrimSpace(code)
	} else {
		code = strings.TrimSpace(strings.TrimSuffix(code, "{"))
	}
	c := g.composite(node, code)
	g.initializer(c, node.ChildByFieldName("initializer"), node.EndByte())
	if alias := node.ChildByFieldName("alias"); alias != nil {
		c.Declarations = append(c.Declarations, g.identifiers(alias, nil, node.EndByte())...)
	}
	g.expressions(&c.Statement, node.ChildByFieldName("value"))

	for _, clause := range namedChildren(node) {
		if !strings.HasSuffix(clause.Type(), "_case") {
			continue
		}
		c.Children = append(c.Children, g.caseClause(clause))
	}
	return c
}

func (g *goBuilder) caseClause(node *sitter.Node) *models.CompositeStatement {
	var header []*sitter.Node
	var body []*sitter.Node
	for i := range int(node.ChildCount()) {
		child := node.Child(i)
		if !child.IsNamed() {
			continue
		}
		switch node.FieldNameForChild(i) {
		case "value", "type", "communication":
			header = append(header, child)
			continue
		}
		if child.Type() == "statement_list" {
			body = append(body, namedChildren(child)...)
			continue
		}
		switch child.Type() {
		case "comment":
			continue
		}
		body = append(body, child)
	}

	code := "default:"
	if len(header) > 0 {
		parts := make([]string, 0, len(header))
		for _, h := range header {
			parts = append(parts, normalize(g.text(h)))
		}
		code = "case " + strings.Join(parts, ", ") + ":"
	}
	c := g.composite(node, code)
	for _, h := range header {
		if h.Type() == "receive_statement" && hasChildOfType(h, ":=") {
			c.Declarations = append(c.Declarations, g.identifiers(h.ChildByFieldName("left"), nil, node.EndByte())...)
			g.expressions(&c.Statement, h.ChildByFieldName("right"))
			continue
		}
		if node.Type() == "type_case" {
			continue
		}
		g.expressions(&c.Statement, h)
	}
	for _, s := range body {
		c.Children = append(c.Children, g.statement(s, node.EndByte()))
	}
	return c
}

func (g *goBuilder) expressions(s *models.Statement, nodes ...*sitter.Node) {
	names := &nameSet{}
	names.addAll(s.Names)
	for _, n := range nodes {
		g.walk(s, n, names)
	}
	s.Names = names.names
}

func (g *goBuilder) walk(s *models.Statement, node *sitter.Node, names *nameSet) {
	if node == nil {
		return
	}
	switch node.Type() {
	case "identifier":
		if name := g.text(node); name != "_" {
			names.add(name)
		}
		return
	case "func_literal":
		g.funcLiteral(s, node, names)
		return
	case "comment", "break_statement", "continue_statement", "goto_statement", "label_name":
		return
	}

	for i := range int(node.ChildCount()) {
		child := node.Child(i)
		if !child.IsNamed() {
			continue
		}
		if node.Type() == "call_expression" && node.FieldNameForChild(i) == "function" && child.Type() == "identifier" {
			continue
		}
		g.walk(s, child, names)
	}
}

func (g *goBuilder) funcLiteral(s *models.Statement, node *sitter.Node, names *nameSet) {
	body := node.ChildByFieldName("body")
	signature := normalize(g.header(node, body))

	g.withSignature(signature, func() {
		lambda := &models.Lambda{Loc: g.loc(node)}
		for _, p := range g.parameters(node.ChildByFieldName("parameters")) {
			if p.Name == "" {
				continue
			}
			p.Scope = g.scope(uint32(p.Location.StartOffset), node.EndByte())
			lambda.Parameters = append(lambda.Parameters, p)
		}
		if body != nil {
			lambda.Body = g.block(body)
		}
		nest(s, lambda, names)
	})
}
