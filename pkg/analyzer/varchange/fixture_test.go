package varchange

import (
	"github.com/panbanda/varscope/pkg/models"
)

// fixture hands out scopes with distinct positions in one file.
type fixture struct {
	file string
	next int
}

func newFixture(file string) *fixture {
	return &fixture{file: file}
}

func (f *fixture) scope(signature string) *models.Scope {
	f.next += 100
	s := models.NewScopeAt(models.LocationInfo{
		FilePath:    f.file,
		StartOffset: f.next,
		EndOffset:   f.next + 99,
	})
	s.SetParentSignature(signature)
	return s
}

func (f *fixture) decl(name, typ, signature string) *models.VariableDeclaration {
	return &models.VariableDeclaration{
		Name:  name,
		Type:  &models.Type{Name: typ},
		Scope: f.scope(signature),
	}
}

func stmt(code string, decls []*models.VariableDeclaration, names ...string) *models.Statement {
	return &models.Statement{Code: code, Declarations: decls, Names: names}
}

func declStmt(code string, decls ...*models.VariableDeclaration) *models.Statement {
	return &models.Statement{Code: code, Declarations: decls}
}

func block(children ...models.Fragment) *models.CompositeStatement {
	return &models.CompositeStatement{
		Statement: models.Statement{Code: "{"},
		Children:  children,
	}
}

func operation(name string, body *models.CompositeStatement) *models.Operation {
	return &models.Operation{Name: name, Body: body}
}

func mapping(pairs ...models.Fragment) []models.CodeMapping {
	var m []models.CodeMapping
	for i := 0; i+1 < len(pairs); i += 2 {
		m = append(m, models.CodeMapping{Before: pairs[i], After: pairs[i+1]})
	}
	return m
}

func names(decls []*models.VariableDeclaration) []string {
	out := make([]string, 0, len(decls))
	for _, d := range decls {
		out = append(out, d.Name)
	}
	return out
}
