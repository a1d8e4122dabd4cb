package analysis

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/panbanda/varscope/internal/vcs"
	"github.com/panbanda/varscope/pkg/analyzer/varchange"
	"github.com/panbanda/varscope/pkg/parser"
)

// CommitOptions configures the analysis of a commit.
type CommitOptions struct {
	// Rev is the revision to analyze; empty means HEAD.
	Rev     string
	Workers int
	// OnStart is called once with the number of files to analyze.
	OnStart func(total int)
	// OnProgress is called after each file.
	OnProgress func()
}

// FileResult is the analysis of one modified file.
type FileResult struct {
	Path    string              `json:"path" toon:"path"`
	OldPath string              `json:"old_path,omitempty" toon:"old_path"`
	Reports []*varchange.Report `json:"methods" toon:"methods"`
}

func (f *FileResult) results() *varchange.Results {
	name := f.Path
	if f.OldPath != "" {
		name = f.OldPath + " -> " + f.Path
	}
	return &varchange.Results{Title: name, Reports: f.Reports}
}

// CommitResult is the analysis of every modified Java and Go file of a
// commit against its first parent.
type CommitResult struct {
	Commit  string        `json:"commit" toon:"commit"`
	Message string        `json:"message" toon:"message"`
	Files   []*FileResult `json:"files" toon:"files"`
	Skipped []string      `json:"skipped,omitempty" toon:"skipped"`
}

// Changed returns the number of scope changes across all files.
func (c *CommitResult) Changed() int {
	n := 0
	for _, f := range c.Files {
		n += f.results().Changed()
	}
	return n
}

// AnalyzeCommit analyzes the files modified by rev in the repository that
// contains repoPath. Added and deleted files have no method pairs and are
// listed as skipped.
func (s *Service) AnalyzeCommit(ctx context.Context, repoPath string, opts CommitOptions) (*CommitResult, error) {
	repo, err := s.opener.PlainOpenWithDetect(repoPath)
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	commit, err := repo.ResolveRevision(opts.Rev)
	if err != nil {
		return nil, err
	}

	files, err := vcs.ChangedFiles(commit, func(path string) bool {
		return parser.Supported(path) && !s.config.ShouldExclude(path)
	})
	if err != nil {
		return nil, err
	}

	result := &CommitResult{
		Commit:  commit.Hash().String(),
		Message: firstLine(commit.Message()),
	}

	var modified []vcs.FileChange
	for _, f := range files {
		if f.Action != vcs.ActionModify {
			result.Skipped = append(result.Skipped, f.Path)
			continue
		}
		modified = append(modified, f)
	}
	if opts.OnStart != nil {
		opts.OnStart(len(modified))
	}

	for _, f := range modified {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		oldPath := f.OldPath
		if oldPath == "" {
			oldPath = f.Path
		}
		res, err := s.AnalyzeSources(ctx,
			Source{Path: oldPath, Content: f.Before},
			Source{Path: f.Path, Content: f.After},
			DiffOptions{Workers: opts.Workers},
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Path, err)
		}
		fr := &FileResult{Path: f.Path, Reports: res.Reports}
		if f.Renamed() {
			fr.OldPath = f.OldPath
		}
		result.Files = append(result.Files, fr)
		if opts.OnProgress != nil {
			opts.OnProgress()
		}
	}

	s.logger.Info("commit analyzed",
		"commit", result.Commit,
		"files", len(result.Files),
		"skipped", len(result.Skipped),
		"changed", result.Changed(),
	)
	return result, nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}

func (c *CommitResult) shortHash() string {
	if len(c.Commit) > 12 {
		return c.Commit[:12]
	}
	return c.Commit
}

// RenderText implements output.Renderable for text output.
func (c *CommitResult) RenderText(w io.Writer, colored bool) error {
	header := fmt.Sprintf("Commit %s: %s", c.shortHash(), c.Message)
	if colored {
		color.New(color.Bold, color.FgCyan).Fprintln(w, header)
	} else {
		fmt.Fprintln(w, header)
	}
	fmt.Fprintf(w, "%d files analyzed, %d skipped, %d scope changes\n\n", len(c.Files), len(c.Skipped), c.Changed())

	for _, f := range c.Files {
		if err := f.results().RenderText(w, colored); err != nil {
			return err
		}
	}
	return nil
}

// RenderMarkdown implements output.Renderable for markdown output.
func (c *CommitResult) RenderMarkdown(w io.Writer) error {
	fmt.Fprintf(w, "# Commit `%s`\n\n%s\n\n", c.shortHash(), c.Message)
	for _, f := range c.Files {
		if err := f.results().RenderMarkdown(w); err != nil {
			return err
		}
	}
	if len(c.Skipped) > 0 {
		fmt.Fprintln(w, "Skipped (added or deleted):")
		for _, p := range c.Skipped {
			fmt.Fprintf(w, "- `%s`\n", p)
		}
		fmt.Fprintln(w)
	}
	return nil
}

// RenderData implements output.Renderable for JSON and TOON output.
func (c *CommitResult) RenderData() any {
	return c
}
