package analysis

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/panbanda/varscope/internal/output"
	"github.com/panbanda/varscope/pkg/parser"
)

// Method describes one extractable operation of a file.
type Method struct {
	Name         string `json:"name" toon:"name"`
	Class        string `json:"class,omitempty" toon:"class"`
	Signature    string `json:"signature" toon:"signature"`
	Line         int    `json:"line" toon:"line"`
	Declarations int    `json:"declarations" toon:"declarations"`
	HasBody      bool   `json:"has_body" toon:"has_body"`
}

// MethodList is the set of operations found in a file.
type MethodList struct {
	Path    string   `json:"path" toon:"path"`
	Methods []Method `json:"methods" toon:"methods"`
}

// ListMethods returns the operations extracted from src, in source order.
func (s *Service) ListMethods(ctx context.Context, src Source) (*MethodList, error) {
	lang := parser.DetectLanguage(src.Path)
	if lang == parser.LangUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, src.Path)
	}
	ops, err := s.operations(ctx, src, lang)
	if err != nil {
		return nil, err
	}

	list := &MethodList{Path: src.Path, Methods: make([]Method, 0, len(ops))}
	for _, op := range ops {
		list.Methods = append(list.Methods, Method{
			Name:         op.Name,
			Class:        op.ClassName,
			Signature:    op.Signature(),
			Line:         op.Loc.StartLine,
			Declarations: len(op.AllVariableDeclarations()),
			HasBody:      op.Body != nil,
		})
	}
	return list, nil
}

func (l *MethodList) table() *output.Table {
	rows := make([][]string, 0, len(l.Methods))
	for _, m := range l.Methods {
		rows = append(rows, []string{m.Class, m.Signature, strconv.Itoa(m.Line), strconv.Itoa(m.Declarations)})
	}
	footer := []string{"", fmt.Sprintf("%d methods", len(l.Methods)), "", ""}
	return output.NewTable(l.Path, []string{"Class", "Signature", "Line", "Variables"}, rows, footer, l)
}

// RenderText implements output.Renderable for text output.
func (l *MethodList) RenderText(w io.Writer, colored bool) error {
	return l.table().RenderText(w, colored)
}

// RenderMarkdown implements output.Renderable for markdown output.
func (l *MethodList) RenderMarkdown(w io.Writer) error {
	return l.table().RenderMarkdown(w)
}

// RenderData implements output.Renderable for JSON and TOON output.
func (l *MethodList) RenderData() any {
	return l
}
