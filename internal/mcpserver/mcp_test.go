package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/varscope/internal/output"
	"github.com/panbanda/varscope/internal/service/analysis"
	"github.com/panbanda/varscope/pkg/config"
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

func newTestServer() *Server {
	return NewServer("1.0.0-test", analysis.New(analysis.WithConfig(config.DefaultConfig())))
}

func writeSources(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	before := filepath.Join(dir, "Before.java")
	after := filepath.Join(dir, "After.java")
	require.NoError(t, os.WriteFile(before, []byte(beforeJava), 0644))
	require.NoError(t, os.WriteFile(after, []byte(afterJava), 0644))
	return before, after
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "content is %T", result.Content[0])
	return text.Text
}

func TestServerCreation(t *testing.T) {
	s := NewServer("", nil)
	require.NotNil(t, s.server)
	require.NotNil(t, s.service)
}

func TestToolDescriptions(t *testing.T) {
	for name, fn := range map[string]func() string{
		"analyze_variables": describeAnalyzeVariables,
		"analyze_commit":    describeAnalyzeCommit,
		"list_methods":      describeListMethods,
	} {
		t.Run(name, func(t *testing.T) {
			desc := fn()
			assert.Contains(t, desc, "USE WHEN:")
			assert.Contains(t, desc, "INTERPRETING RESULTS:")
			assert.Contains(t, desc, "METRICS RETURNED:")
		})
	}
}

func TestGetFormat(t *testing.T) {
	tests := []struct {
		in   string
		want output.Format
	}{
		{"", output.FormatTOON},
		{"toon", output.FormatTOON},
		{"json", output.FormatJSON},
		{"markdown", output.FormatMarkdown},
		{"md", output.FormatMarkdown},
		{"xml", output.FormatTOON},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, getFormat(FormatInput{Format: tt.in}), tt.in)
	}
}

func TestToolError(t *testing.T) {
	result, _, err := toolError("boom")
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "Error: boom", resultText(t, result))
}

func TestHandleAnalyzeVariables(t *testing.T) {
	before, after := writeSources(t)
	s := newTestServer()

	result, _, err := s.handleAnalyzeVariables(context.Background(), nil, AnalyzeVariablesInput{
		FormatInput: FormatInput{Format: "json"},
		BeforePath:  before,
		AfterPath:   after,
		Method:      "run",
	})
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))

	var reports []struct {
		Changed []struct {
			Description string `json:"description"`
		} `json:"changed"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &reports))
	require.Len(t, reports, 1)
	require.Len(t, reports[0].Changed, 1)
	assert.True(t, strings.HasPrefix(reports[0].Changed[0].Description, "Change Variable Scope count : int"))
}

func TestHandleAnalyzeVariables_TOON(t *testing.T) {
	before, after := writeSources(t)

	result, _, err := newTestServer().handleAnalyzeVariables(context.Background(), nil, AnalyzeVariablesInput{
		BeforePath: before,
		AfterPath:  after,
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Change Variable Scope")
}

func TestHandleAnalyzeVariables_Errors(t *testing.T) {
	s := newTestServer()

	result, _, err := s.handleAnalyzeVariables(context.Background(), nil, AnalyzeVariablesInput{BeforePath: "A.java"})
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, _, err = s.handleAnalyzeVariables(context.Background(), nil, AnalyzeVariablesInput{
		BeforePath: filepath.Join(t.TempDir(), "missing.java"),
		AfterPath:  filepath.Join(t.TempDir(), "missing.java"),
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleListMethods(t *testing.T) {
	_, after := writeSources(t)
	s := newTestServer()

	result, _, err := s.handleListMethods(context.Background(), nil, ListMethodsInput{
		FormatInput: FormatInput{Format: "markdown"},
		Path:        after,
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "run(int) : void")

	result, _, err = s.handleListMethods(context.Background(), nil, ListMethodsInput{})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleAnalyzeCommit_NotARepository(t *testing.T) {
	result, _, err := newTestServer().handleAnalyzeCommit(context.Background(), nil, AnalyzeCommitInput{RepoPath: t.TempDir()})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestLoadPrompts(t *testing.T) {
	prompts := loadPrompts()
	require.Len(t, prompts, 2)
	assert.Equal(t, "compare-method", prompts[0].name)
	assert.Equal(t, "review-scope-changes", prompts[1].name)
	for _, p := range prompts {
		assert.NotEmpty(t, p.description, p.name)
		assert.False(t, strings.HasPrefix(p.body, "---"), p.name)
	}
}

func TestParseFrontmatter(t *testing.T) {
	desc, body := parseFrontmatter([]byte("---\ndescription: Say hi\n---\nHello\n"))
	assert.Equal(t, "Say hi", desc)
	assert.Equal(t, "Hello\n", body)

	desc, body = parseFrontmatter([]byte("no frontmatter"))
	assert.Empty(t, desc)
	assert.Equal(t, "no frontmatter", body)
}

func TestPromptHandler(t *testing.T) {
	result, err := makePromptHandler("desc", "body")(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "desc", result.Description)
	require.Len(t, result.Messages, 1)
	assert.Equal(t, "body", result.Messages[0].Content.(*mcp.TextContent).Text)
}

func TestGenerateManifest(t *testing.T) {
	data, err := GenerateManifest("")
	require.NoError(t, err)

	var m Manifest
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "0.0.0", m.Version)
	assert.Equal(t, "io.github.panbanda/varscope", m.Name)
	require.Len(t, m.Packages, 1)
	assert.Equal(t, "stdio", m.Packages[0].Transport.Type)
}
