package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/chriserin/reqtrace/internal/coverage"
)

// MarkdownWriter writes the coverage and requirement tables as GitHub
// flavored markdown.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, records []coverage.Record) error {
	var buf bytes.Buffer
	buf.WriteString("# Requirement coverage\n\n## Coverage\n\n")
	writeTable(&buf, coverageHeader, len(records), func(i int) []string { return coverageRow(records[i]) })

	matrix := coverage.Matrix(records)
	buf.WriteString("\n## Requirements\n\n")
	writeTable(&buf, requirementHeader, len(matrix), func(i int) []string { return requirementRow(matrix[i]) })

	if uncovered := coverage.Uncovered(records); len(uncovered) > 0 {
		buf.WriteString("\n## Parts without requirements\n\n")
		for _, r := range uncovered {
			fmt.Fprintf(&buf, "- %s\n", escapeCell(r.Title()))
		}
	}

	_, err := w.Write(buf.Bytes())
	return err
}

func writeTable(buf *bytes.Buffer, header []string, n int, row func(int) []string) {
	buf.WriteString("| " + strings.Join(header, " | ") + " |\n")
	buf.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")
	for i := 0; i < n; i++ {
		cells := row(i)
		for j, c := range cells {
			cells[j] = escapeCell(c)
		}
		buf.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
}

var cellEscaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"<", "&lt;",
	">", "&gt;",
	"\r", "",
	"\n", "<br>",
)

func escapeCell(s string) string {
	return cellEscaper.Replace(s)
}

// HTMLWriter renders the markdown report to a standalone HTML page.
type HTMLWriter struct{}

func (h *HTMLWriter) Write(w io.Writer, records []coverage.Record) error {
	var src bytes.Buffer
	if err := (&MarkdownWriter{}).Write(&src, records); err != nil {
		return err
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.Table),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	var body bytes.Buffer
	if err := md.Convert(src.Bytes(), &body); err != nil {
		return fmt.Errorf("rendering html: %w", err)
	}

	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Requirement coverage</title>\n</head>\n<body>\n%s</body>\n</html>\n", body.Bytes())
	return err
}
