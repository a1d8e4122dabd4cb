package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/varscope/internal/output"
	"github.com/panbanda/varscope/internal/service/analysis"
)

// FormatInput is embedded by every tool input.
type FormatInput struct {
	Format string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

// AnalyzeVariablesInput selects two versions of a source file.
type AnalyzeVariablesInput struct {
	FormatInput
	BeforePath string `json:"before_path" jsonschema:"Path of the old version of the Java or Go file."`
	AfterPath  string `json:"after_path" jsonschema:"Path of the new version of the file."`
	Method     string `json:"method,omitempty" jsonschema:"Only analyze this method (name, Class.name, or signature). Defaults to every method that exists in both versions."`
}

// AnalyzeCommitInput selects a commit.
type AnalyzeCommitInput struct {
	FormatInput
	RepoPath string `json:"repo_path,omitempty" jsonschema:"Path inside the git repository. Defaults to the current directory."`
	Rev      string `json:"rev,omitempty" jsonschema:"Revision to analyze against its first parent. Defaults to HEAD."`
}

// ListMethodsInput selects a source file.
type ListMethodsInput struct {
	FormatInput
	Path string `json:"path" jsonschema:"Path of a Java or Go file."`
}

func getFormat(input FormatInput) output.Format {
	switch input.Format {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := output.Render(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

func (s *Server) handleAnalyzeVariables(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeVariablesInput) (*mcp.CallToolResult, any, error) {
	if input.BeforePath == "" || input.AfterPath == "" {
		return toolError("before_path and after_path are required")
	}
	results, err := s.service.AnalyzeFiles(ctx, input.BeforePath, input.AfterPath, analysis.DiffOptions{
		Method: input.Method,
	})
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(results, getFormat(input.FormatInput))
}

func (s *Server) handleAnalyzeCommit(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeCommitInput) (*mcp.CallToolResult, any, error) {
	repoPath := input.RepoPath
	if repoPath == "" {
		repoPath = "."
	}
	result, err := s.service.AnalyzeCommit(ctx, repoPath, analysis.CommitOptions{Rev: input.Rev})
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(result, getFormat(input.FormatInput))
}

func (s *Server) handleListMethods(ctx context.Context, req *mcp.CallToolRequest, input ListMethodsInput) (*mcp.CallToolResult, any, error) {
	if input.Path == "" {
		return toolError("path is required")
	}
	src, err := analysis.ReadSource(input.Path)
	if err != nil {
		return toolError(err.Error())
	}
	list, err := s.service.ListMethods(ctx, src)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(list, getFormat(input.FormatInput))
}
