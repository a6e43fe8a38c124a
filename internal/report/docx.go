package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/chriserin/reqtrace/internal/coverage"
)

// DOCXWriter writes a Word document with one section per part followed by
// the requirement matrix.
type DOCXWriter struct{}

func (d *DOCXWriter) Write(w io.Writer, records []coverage.Record) error {
	doc := docx.New().WithDefaultTheme()

	doc.AddParagraph().AddText("Requirement coverage").Bold().Size("32")

	for _, r := range records {
		doc.AddParagraph().AddText(r.Title()).Bold().Size("26")
		doc.AddParagraph().AddText("File: " + r.File)
		if r.Rule != "" {
			doc.AddParagraph().AddText("Rule: " + r.Rule)
		}
		addBlock(doc, "Action", r.Action)
		addBlock(doc, "Expected Result", r.Expected)
		if ids := r.RequirementIDs(); len(ids) > 0 {
			doc.AddParagraph().AddText("Requirements: " + strings.Join(ids, ", "))
		}
	}

	doc.AddParagraph().AddText("Requirements").Bold().Size("28")
	for _, rc := range coverage.Matrix(records) {
		doc.AddParagraph().AddText(rc.Requirement.ID).Bold()
		for _, r := range rc.Records {
			doc.AddParagraph().AddText("    " + r.Title())
		}
	}

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

func addBlock(doc *docx.Docx, label, text string) {
	doc.AddParagraph().AddText(label + ":").Bold()
	if text == "" {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		doc.AddParagraph().AddText(line)
	}
}
