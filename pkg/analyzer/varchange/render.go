package varchange

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// RenderText implements output.Renderable for text output.
func (a *Analysis) RenderText(w io.Writer, colored bool) error {
	return a.Report().RenderText(w, colored)
}

// RenderMarkdown implements output.Renderable for markdown output.
func (a *Analysis) RenderMarkdown(w io.Writer) error {
	return a.Report().RenderMarkdown(w)
}

// RenderData implements output.Renderable for JSON and TOON output.
func (a *Analysis) RenderData() any {
	return a.Report()
}

func (v Variable) String() string {
	if v.Type == "" {
		return v.Name
	}
	return v.Name + " : " + v.Type
}

// RenderText implements output.Renderable for text output.
func (r *Report) RenderText(w io.Writer, colored bool) error {
	title := fmt.Sprintf("Variable changes: %s -> %s", r.Before, r.After)
	if colored {
		color.New(color.Bold).Fprintln(w, title)
	} else {
		fmt.Fprintln(w, title)
	}
	fmt.Fprintln(w, strings.Repeat("=", len(title)))

	fmt.Fprintf(w, "Declarations: %d before, %d after (%d mappings, %d seeded refactorings)\n",
		r.Summary.BeforeDeclarations,
		r.Summary.AfterDeclarations,
		r.Summary.Mappings,
		r.Summary.SeededRefactorings)
	fmt.Fprintln(w)

	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)
	changed := color.New(color.FgYellow)
	if !colored {
		removed.DisableColor()
		added.DisableColor()
		changed.DisableColor()
	}

	if len(r.Removed) == 0 && len(r.Added) == 0 && len(r.Changed) == 0 {
		fmt.Fprintln(w, "All variables correspond; nothing removed, added, or changed.")
		fmt.Fprintln(w)
		return nil
	}

	for _, v := range r.Removed {
		removed.Fprintf(w, "  - %-30s line %-5d scope %s\n", v, v.Line, v.Scope)
	}
	for _, v := range r.Added {
		added.Fprintf(w, "  + %-30s line %-5d scope %s\n", v, v.Line, v.Scope)
	}
	for _, c := range r.Changed {
		changed.Fprintf(w, "  ~ %s\n", c.Description)
	}
	fmt.Fprintln(w)
	return nil
}

// RenderMarkdown implements output.Renderable for markdown output.
func (r *Report) RenderMarkdown(w io.Writer) error {
	fmt.Fprintf(w, "## Variable changes: `%s` -> `%s`\n\n", r.Before, r.After)

	fmt.Fprintln(w, "| Status | Variable | Line | Scope |")
	fmt.Fprintln(w, "|--------|----------|------|-------|")
	for _, v := range r.Removed {
		fmt.Fprintf(w, "| removed | `%s` | %d | %s |\n", v, v.Line, v.Scope)
	}
	for _, v := range r.Added {
		fmt.Fprintf(w, "| added | `%s` | %d | %s |\n", v, v.Line, v.Scope)
	}
	for _, c := range r.Changed {
		fmt.Fprintf(w, "| changed | `%s` | %d | %s -> %s |\n", c.After, c.After.Line, c.Before.Scope, c.After.Scope)
	}
	fmt.Fprintln(w)
	return nil
}

// RenderData implements output.Renderable for JSON and TOON output.
func (r *Report) RenderData() any {
	return r
}

// Results is the outcome of analyzing several method pairs.
type Results struct {
	Title   string
	Reports []*Report
}

// NewResults collects the reports of analyses under a title.
func NewResults(title string, analyses []*Analysis) *Results {
	r := &Results{Title: title, Reports: make([]*Report, 0, len(analyses))}
	for _, a := range analyses {
		r.Reports = append(r.Reports, a.Report())
	}
	return r
}

// Changed returns the number of scope changes across all reports.
func (r *Results) Changed() int {
	n := 0
	for _, rep := range r.Reports {
		n += len(rep.Changed)
	}
	return n
}

// RenderText implements output.Renderable for text output.
func (r *Results) RenderText(w io.Writer, colored bool) error {
	if r.Title != "" {
		fmt.Fprintln(w, r.Title)
		fmt.Fprintln(w)
	}
	if len(r.Reports) == 0 {
		fmt.Fprintln(w, "No method pairs to analyze")
		return nil
	}
	for _, rep := range r.Reports {
		if err := rep.RenderText(w, colored); err != nil {
			return err
		}
	}
	return nil
}

// RenderMarkdown implements output.Renderable for markdown output.
func (r *Results) RenderMarkdown(w io.Writer) error {
	if r.Title != "" {
		fmt.Fprintf(w, "# %s\n\n", r.Title)
	}
	for _, rep := range r.Reports {
		if err := rep.RenderMarkdown(w); err != nil {
			return err
		}
	}
	return nil
}

// RenderData implements output.Renderable for JSON and TOON output.
func (r *Results) RenderData() any {
	return r.Reports
}
