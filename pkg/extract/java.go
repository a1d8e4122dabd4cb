package extract

import (
	"strings"

	"github.com/panbanda/varscope/pkg/models"
	"github.com/panbanda/varscope/pkg/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

type javaBuilder struct {
	*builder
}

var javaTypeDeclarations = map[string]bool{
	"class_declaration":           true,
	"interface_declaration":       true,
	"enum_declaration":            true,
	"record_declaration":          true,
	"annotation_type_declaration": true,
}

func (j *javaBuilder) operations(root *sitter.Node) []*models.Operation {
	var ops []*models.Operation
	j.collect(root, "", &ops)
	return ops
}

// collect walks type declarations and gathers their methods. Local and
// anonymous classes are not visited.
func (j *javaBuilder) collect(node *sitter.Node, class string, ops *[]*models.Operation) {
	for _, c := range namedChildren(node) {
		switch {
		case javaTypeDeclarations[c.Type()]:
			name := j.text(c.ChildByFieldName("name"))
			if class != "" {
				name = class + "." + name
			}
			j.collect(c.ChildByFieldName("body"), name, ops)
		case c.Type() == "enum_body_declarations":
			j.collect(c, class, ops)
		case c.Type() == "method_declaration", c.Type() == "constructor_declaration", c.Type() == "compact_constructor_declaration":
			*ops = append(*ops, j.operation(c, class))
		}
	}
}

func (j *javaBuilder) operation(node *sitter.Node, class string) *models.Operation {
	op := &models.Operation{
		ClassName: class,
		Name:      j.text(node.ChildByFieldName("name")),
		Loc:       j.loc(node),
	}
	if t := node.ChildByFieldName("type"); t != nil {
		op.ReturnType = withDimensions(j.typeOf(t), j.dimensions(node.ChildByFieldName("dimensions")))
	}
	op.Parameters = j.parameters(node.ChildByFieldName("parameters"))

	body := node.ChildByFieldName("body")
	j.withSignature(op.Signature(), func() {
		end := node.EndByte()
		if body != nil {
			end = body.EndByte()
		}
		for _, p := range op.Parameters {
			p.Scope = j.scope(uint32(p.Location.StartOffset), end)
		}
		if body != nil {
			op.Body = j.block(body)
		}
	})
	return op
}

// parameters returns the declared parameters without scopes.
func (j *javaBuilder) parameters(node *sitter.Node) []*models.VariableDeclaration {
	var params []*models.VariableDeclaration
	for _, p := range namedChildren(node) {
		switch p.Type() {
		case "formal_parameter":
			name := p.ChildByFieldName("name")
			params = append(params, &models.VariableDeclaration{
				Name:      j.text(name),
				Type:      withDimensions(j.typeOf(p.ChildByFieldName("type")), j.dimensions(p.ChildByFieldName("dimensions"))),
				Location:  j.loc(p),
				Final:     j.final(p),
				Parameter: true,
			})
		case "spread_parameter":
			var typ *models.Type
			var declarator *sitter.Node
			for _, c := range namedChildren(p) {
				switch c.Type() {
				case "modifiers":
				case "variable_declarator":
					declarator = c
				default:
					if typ == nil {
						typ = j.typeOf(c)
					}
				}
			}
			if declarator == nil || typ == nil {
				continue
			}
			params = append(params, &models.VariableDeclaration{
				Name:      j.text(declarator.ChildByFieldName("name")),
				Type:      typ,
				Location:  j.loc(p),
				Final:     j.final(p),
				Parameter: true,
				Varargs:   true,
			})
		}
	}
	return params
}

func (j *javaBuilder) final(node *sitter.Node) bool {
	mods := parser.ChildOfType(node, "modifiers")
	return mods != nil && strings.Contains(" "+j.text(mods)+" ", " final ")
}

func (j *javaBuilder) typeOf(node *sitter.Node) *models.Type {
	if node == nil {
		return &models.Type{}
	}
	switch node.Type() {
	case "generic_type":
		t := &models.Type{}
		for _, c := range namedChildren(node) {
			if c.Type() == "type_arguments" {
				for _, arg := range namedChildren(c) {
					t.Arguments = append(t.Arguments, j.typeOf(arg))
				}
				continue
			}
			t.Name = normalize(j.text(c))
		}
		return t
	case "array_type":
		return withDimensions(j.typeOf(node.ChildByFieldName("element")), j.dimensions(node.ChildByFieldName("dimensions")))
	case "annotated_type":
		children := namedChildren(node)
		return j.typeOf(children[len(children)-1])
	default:
		return &models.Type{Name: normalize(j.text(node))}
	}
}

func (j *javaBuilder) dimensions(node *sitter.Node) int {
	if node == nil {
		return 0
	}
	return strings.Count(j.text(node), "[")
}

func withDimensions(t *models.Type, dims int) *models.Type {
	if dims == 0 {
		return t
	}
	c := *t
	c.Dimensions += dims
	return &c
}

func (j *javaBuilder) block(node *sitter.Node) *models.CompositeStatement {
	c := j.composite(node, "{")
	for _, s := range namedChildren(node) {
		c.Children = append(c.Children, j.statement(s, node.EndByte()))
	}
	return c
}

// statement builds one statement. Locals it declares are visible until
// scopeEnd, the end of the enclosing block.
func (j *javaBuilder) statement(node *sitter.Node, scopeEnd uint32) models.Fragment {
	switch node.Type() {
	case "block":
		return j.block(node)

	case "if_statement":
		cond := node.ChildByFieldName("condition")
		consequence := node.ChildByFieldName("consequence")
		c := j.composite(node, j.header(node, consequence))
		j.expressions(&c.Statement, cond)
		c.Children = append(c.Children, j.statement(consequence, node.EndByte()))
		if alt := node.ChildByFieldName("alternative"); alt != nil {
			c.Children = append(c.Children, j.statement(alt, node.EndByte()))
		}
		return c

	case "while_statement":
		body := node.ChildByFieldName("body")
		c := j.composite(node, j.header(node, body))
		j.expressions(&c.Statement, node.ChildByFieldName("condition"))
		c.Children = append(c.Children, j.statement(body, node.EndByte()))
		return c

	case "do_statement":
		cond := node.ChildByFieldName("condition")
		c := j.composite(node, "do while "+normalize(j.text(cond)))
		j.expressions(&c.Statement, cond)
		c.Children = append(c.Children, j.statement(node.ChildByFieldName("body"), node.EndByte()))
		return c

	case "for_statement":
		body := node.ChildByFieldName("body")
		c := j.composite(node, j.header(node, body))
		var header []*sitter.Node
		for _, init := range parser.ChildrenByField(node, "init") {
			if init.Type() == "local_variable_declaration" {
				c.Declarations = append(c.Declarations, j.declarators(init, node.EndByte())...)
			}
			header = append(header, init)
		}
		header = append(header, node.ChildByFieldName("condition"))
		header = append(header, parser.ChildrenByField(node, "update")...)
		j.expressions(&c.Statement, header...)
		c.Children = append(c.Children, j.statement(body, node.EndByte()))
		return c

	case "enhanced_for_statement":
		body := node.ChildByFieldName("body")
		c := j.composite(node, j.header(node, body))
		name := node.ChildByFieldName("name")
		c.Declarations = append(c.Declarations, &models.VariableDeclaration{
			Name:     j.text(name),
			Type:     withDimensions(j.typeOf(node.ChildByFieldName("type")), j.dimensions(node.ChildByFieldName("dimensions"))),
			Scope:    j.scope(name.StartByte(), node.EndByte()),
			Location: j.loc(name),
			Final:    j.final(node),
		})
		j.expressions(&c.Statement, node.ChildByFieldName("value"))
		c.Children = append(c.Children, j.statement(body, node.EndByte()))
		return c

	case "try_statement", "try_with_resources_statement":
		return j.try(node)

	case "switch_expression", "switch_statement":
		return j.switchStatement(node)

	case "synchronized_statement":
		body := node.ChildByFieldName("body")
		c := j.composite(node, j.header(node, body))
		j.expressions(&c.Statement, parser.ChildOfType(node, "parenthesized_expression"))
		c.Children = append(c.Children, j.block(body))
		return c

	case "labeled_statement":
		children := namedChildren(node)
		c := j.composite(node, j.text(children[0])+":")
		for _, s := range children[1:] {
			c.Children = append(c.Children, j.statement(s, scopeEnd))
		}
		return c

	case "local_variable_declaration":
		s := j.leaf(node)
		s.Declarations = j.declarators(node, scopeEnd)
		j.expressions(s, node)
		return s

	case "class_declaration", "interface_declaration", "enum_declaration", "record_declaration", "local_class_declaration":
		return &models.Statement{Loc: j.loc(node), Code: j.header(node, node.ChildByFieldName("body"))}

	default:
		s := j.leaf(node)
		j.expressions(s, node)
		return s
	}
}

func (j *javaBuilder) declarators(node *sitter.Node, scopeEnd uint32) []*models.VariableDeclaration {
	typ := j.typeOf(node.ChildByFieldName("type"))
	final := j.final(node)
	var decls []*models.VariableDeclaration
	for _, d := range parser.ChildrenByField(node, "declarator") {
		decls = append(decls, &models.VariableDeclaration{
			Name:     j.text(d.ChildByFieldName("name")),
			Type:     withDimensions(typ, j.dimensions(d.ChildByFieldName("dimensions"))),
			Scope:    j.scope(d.StartByte(), scopeEnd),
			Location: j.loc(d),
			Final:    final,
		})
	}
	return decls
}

func (j *javaBuilder) try(node *sitter.Node) *models.CompositeStatement {
	body := node.ChildByFieldName("body")
	c := j.composite(node, j.header(node, body))
	if res := node.ChildByFieldName("resources"); res != nil {
		for _, r := range namedChildren(res) {
			name := r.ChildByFieldName("name")
			if r.Type() != "resource" || name == nil {
				continue
			}
			c.Declarations = append(c.Declarations, &models.VariableDeclaration{
				Name:     j.text(name),
				Type:     withDimensions(j.typeOf(r.ChildByFieldName("type")), j.dimensions(r.ChildByFieldName("dimensions"))),
				Scope:    j.scope(r.StartByte(), node.EndByte()),
				Location: j.loc(r),
				Final:    true,
			})
		}
		j.expressions(&c.Statement, res)
	}
	c.Children = append(c.Children, j.block(body))

	for _, child := range namedChildren(node) {
		switch child.Type() {
		case "catch_clause":
			c.Children = append(c.Children, j.catchClause(child))
		case "finally_clause":
			f := j.composite(child, "finally")
			if b := parser.ChildOfType(child, "block"); b != nil {
				f.Children = append(f.Children, j.block(b))
			}
			c.Children = append(c.Children, f)
		}
	}
	return c
}

func (j *javaBuilder) catchClause(node *sitter.Node) *models.CompositeStatement {
	body := node.ChildByFieldName("body")
	c := j.composite(node, j.header(node, body))
	if param := parser.ChildOfType(node, "catch_formal_parameter"); param != nil {
		if name := param.ChildByFieldName("name"); name != nil {
			c.Declarations = append(c.Declarations, &models.VariableDeclaration{
				Name:      j.text(name),
				Type:      &models.Type{Name: normalize(j.text(parser.ChildOfType(param, "catch_type")))},
				Scope:     j.scope(param.StartByte(), node.EndByte()),
				Location:  j.loc(param),
				Final:     j.final(param),
				Parameter: true,
			})
		}
	}
	if body != nil {
		c.Children = append(c.Children, j.block(body))
	}
	return c
}

// switchStatement keeps case labels as leaf statements followed by the
// statements of their group, all children of the switch.
func (j *javaBuilder) switchStatement(node *sitter.Node) *models.CompositeStatement {
	body := node.ChildByFieldName("body")
	c := j.composite(node, j.header(node, body))
	j.expressions(&c.Statement, node.ChildByFieldName("condition"))

	for _, group := range namedChildren(body) {
		switch group.Type() {
		case "switch_block_statement_group":
			for _, s := range namedChildren(group) {
				if s.Type() == "switch_label" {
					label := &models.Statement{Loc: j.loc(s), Code: normalize(j.text(s)) + ":"}
					j.expressions(label, s)
					c.Children = append(c.Children, label)
					continue
				}
				c.Children = append(c.Children, j.statement(s, body.EndByte()))
			}
		case "switch_rule":
			for _, s := range namedChildren(group) {
				if s.Type() == "switch_label" {
					label := &models.Statement{Loc: j.loc(s), Code: normalize(j.text(s)) + " ->"}
					j.expressions(label, s)
					c.Children = append(c.Children, label)
					continue
				}
				c.Children = append(c.Children, j.statement(s, group.EndByte()))
			}
		}
	}
	return c
}

// expressions records the names referenced in nodes and the declarations
// made by lambdas and anonymous classes inside them.
func (j *javaBuilder) expressions(s *models.Statement, nodes ...*sitter.Node) {
	names := &nameSet{}
	names.addAll(s.Names)
	for _, n := range nodes {
		j.walk(s, n, names)
	}
	s.Names = names.names
}

func (j *javaBuilder) walk(s *models.Statement, node *sitter.Node, names *nameSet) {
	if node == nil {
		return
	}
	switch node.Type() {
	case "identifier":
		names.add(j.text(node))
		return
	case "lambda_expression":
		j.lambda(s, node, names)
		return
	case "object_creation_expression":
		if cb := parser.ChildOfType(node, "class_body"); cb != nil {
			j.walk(s, node.ChildByFieldName("arguments"), names)
			s.Anonymous = append(s.Anonymous, j.anonymous(cb, normalize(j.text(node.ChildByFieldName("type")))))
			return
		}
	case "class_body", "line_comment", "block_comment", "break_statement", "continue_statement":
		return
	}

	for i := range int(node.ChildCount()) {
		child := node.Child(i)
		if !child.IsNamed() {
			continue
		}
		switch field := node.FieldNameForChild(i); {
		case node.Type() == "method_invocation" && field == "name":
			continue
		case node.Type() == "field_access" && field == "field":
			continue
		case node.Type() == "variable_declarator" && field == "name":
			continue
		}
		j.walk(s, child, names)
	}
}

func (j *javaBuilder) lambda(s *models.Statement, node *sitter.Node, names *nameSet) {
	params := node.ChildByFieldName("parameters")
	body := node.ChildByFieldName("body")
	signature := normalize(j.text(params)) + " ->"

	j.withSignature(signature, func() {
		var decls []*models.VariableDeclaration
		switch params.Type() {
		case "identifier":
			decls = append(decls, &models.VariableDeclaration{Name: j.text(params), Type: &models.Type{}, Location: j.loc(params), Parameter: true})
		case "inferred_parameters":
			for _, id := range namedChildren(params) {
				decls = append(decls, &models.VariableDeclaration{Name: j.text(id), Type: &models.Type{}, Location: j.loc(id), Parameter: true})
			}
		case "formal_parameters":
			decls = j.parameters(params)
		}
		for _, d := range decls {
			d.Scope = j.scope(uint32(d.Location.StartOffset), node.EndByte())
		}

		lambda := &models.Lambda{Loc: j.loc(node), Parameters: decls}
		switch {
		case body == nil:
		case body.Type() == "block":
			lambda.Body = j.block(body)
		default:
			leaf := j.leaf(body)
			j.expressions(leaf, body)
			lambda.Body = j.composite(body, "")
			lambda.Body.Children = []models.Fragment{leaf}
		}
		nest(s, lambda, names)
	})
}

// anonymous builds an anonymous class body. Its methods are built as
// operations whose bodies stay private to the class.
func (j *javaBuilder) anonymous(node *sitter.Node, typeName string) *models.AnonymousClass {
	anon := &models.AnonymousClass{Loc: j.loc(node)}
	for _, member := range namedChildren(node) {
		switch member.Type() {
		case "method_declaration":
			op := j.operation(member, typeName)
			if op.Body == nil {
				continue
			}
			anon.Declarations = append(anon.Declarations, op.Body.AllVariableDeclarations()...)
			for _, nested := range op.Body.AllAnonymousClasses() {
				anon.Declarations = append(anon.Declarations, nested.Declarations...)
			}
			anon.Bodies = append(anon.Bodies, op.Body)
		case "block":
			b := j.block(member)
			anon.Declarations = append(anon.Declarations, b.AllVariableDeclarations()...)
			anon.Bodies = append(anon.Bodies, b)
		}
	}
	return anon
}
