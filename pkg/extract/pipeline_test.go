package extract_test

import (
	"testing"

	"github.com/panbanda/varscope/pkg/analyzer/stmtmap"
	"github.com/panbanda/varscope/pkg/analyzer/varchange"
	"github.com/panbanda/varscope/pkg/extract"
	"github.com/panbanda/varscope/pkg/models"
	"github.com/panbanda/varscope/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const beforeJava = `class A {
    void run() {
        int count = 0;
        count++;
        print(count);
    }
}
`

const afterJava = `class A {
    void run(int step) {
        int total = 0;
        total++;
        print(total);
    }
}
`

func operation(t *testing.T, source, path string) *models.Operation {
	t.Helper()
	return operationIn(t, source, parser.LangJava, path)
}

func operationIn(t *testing.T, source string, lang parser.Language, path string) *models.Operation {
	t.Helper()
	p := parser.New()
	defer p.Close()
	result, err := p.Parse([]byte(source), lang, path)
	require.NoError(t, err)
	ops, err := extract.Extract(result)
	require.NoError(t, err)
	op, err := extract.FindOperation(ops, "run")
	require.NoError(t, err)
	return op
}

func TestPipeline_RenameAcrossSignatureChange(t *testing.T) {
	before := operation(t, beforeJava, "A.java")
	after := operation(t, afterJava, "A.java")

	mapped := stmtmap.New().Map(before, after)
	require.Len(t, mapped.Pairs, 3)

	a := varchange.New().Analyze(varchange.Input{
		Before:   before,
		After:    after,
		Mappings: mapped.Mappings(),
	})

	assert.Empty(t, a.Removed)
	assert.Empty(t, a.Added)
	require.Len(t, a.Changed, 1)
	assert.Equal(t,
		"Change Variable Scope count : int from 3:13-6:6 to 3:13-6:6 in method run(int) : void from class A",
		a.Changed[0].ChangeScope().String())

	usages := varchange.Usages(a.Changed[0].Before)
	require.Len(t, usages, 2)
	assert.Equal(t, "count++;", usages[0].String())
}

func TestPipeline_ScopesCoverTheirStatements(t *testing.T) {
	tests := []struct {
		name   string
		source string
		lang   parser.Language
		path   string
	}{
		{
			name: "java lambda",
			source: `class A {
    void run(java.util.List<Integer> xs) {
        xs.forEach(x -> use(x));
        int y = 0;
        log(x);
        y++;
        xs.forEach(z -> { int w = z; use(w); });
        try (Reader r = open()) {
            r.read();
        } catch (IOException e) {
            log(e);
        }
    }
}
`,
			lang: parser.LangJava,
			path: "A.java",
		},
		{
			name: "go function literal",
			source: `package a

func run(xs []int) {
	apply(xs, func(x int) { use(x) })
	y := 0
	log(x)
	y++
	for i, v := range xs {
		f := func() int { w := v; return w + i }
		f()
	}
}
`,
			lang: parser.LangGo,
			path: "a.go",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := operationIn(t, tt.source, tt.lang, tt.path)
			varchange.DeriveScopes(op.Body)

			for _, d := range op.Body.AllVariableDeclarations() {
				require.NotNil(t, d.Scope, d.Name)
				for _, s := range d.Scope.Statements() {
					assert.True(t, d.Scope.Subsumes(s.Location()),
						"%s: scope %s does not cover %q at %s", d.Name, d.Scope, s.String(), s.Location())
				}
			}

			var x *models.VariableDeclaration
			for _, d := range op.Body.AllVariableDeclarations() {
				if d.Name == "x" {
					x = d
				}
			}
			require.NotNil(t, x)
			used := varchange.Usages(x)
			require.Len(t, used, 1)
			assert.Contains(t, used[0].String(), "use(x)")
		})
	}
}
