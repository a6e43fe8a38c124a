// Package report writes coverage records as documents for requirement
// traceability reviews.
package report

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chriserin/reqtrace/internal/coverage"
)

// Writer renders records to w.
type Writer interface {
	Write(w io.Writer, records []coverage.Record) error
}

var writers = map[string]func() Writer{
	"xlsx": func() Writer { return &XLSXWriter{} },
	"docx": func() Writer { return &DOCXWriter{} },
	"md":   func() Writer { return &MarkdownWriter{} },
	"html": func() Writer { return &HTMLWriter{} },
	"yaml": func() Writer { return &YAMLWriter{} },
}

// Formats lists the supported format names in lexical order.
func Formats() []string {
	out := make([]string, 0, len(writers))
	for name := range writers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ForFormat returns the writer for a format name such as "xlsx".
func ForFormat(name string) (Writer, error) {
	newWriter, ok := writers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unsupported report format %q (supported: %s)", name, strings.Join(Formats(), ", "))
	}
	return newWriter(), nil
}

// FormatOf returns the format implied by a file name's extension, or "".
func FormatOf(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "markdown":
		return "md"
	case "htm":
		return "html"
	case "yml":
		return "yaml"
	}
	if _, ok := writers[ext]; ok {
		return ext
	}
	return ""
}

var coverageHeader = []string{"File", "Feature", "Rule", "Scenario", "Part", "Action", "Expected Result", "Requirements"}

func coverageRow(r coverage.Record) []string {
	return []string{
		r.File,
		r.Feature,
		r.Rule,
		r.Scenario,
		r.Part,
		r.Action,
		r.Expected,
		strings.Join(r.RequirementIDs(), ", "),
	}
}

var requirementHeader = []string{"Requirement", "Parts", "Covered By"}

func requirementRow(rc coverage.RequirementCoverage) []string {
	titles := make([]string, 0, len(rc.Records))
	for _, r := range rc.Records {
		titles = append(titles, r.Title())
	}
	return []string{rc.Requirement.ID, fmt.Sprint(len(rc.Records)), strings.Join(titles, "\n")}
}
