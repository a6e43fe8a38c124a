package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chriserin/reqtrace/internal/coverage"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	keywordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	reqStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

var stepKeywords = []string{"Given ", "When ", "Then ", "And ", "But ", "* "}

// ShowPart prints one part: its title, action, expected result and the
// requirements it covers.
func ShowPart(w io.Writer, r coverage.Record) {
	fmt.Fprintln(w, titleStyle.Render(r.Title())+"  "+faintStyle.Render(fmt.Sprintf("%s:%d", r.File, r.Line)))
	if r.Rule != "" {
		fmt.Fprintln(w, "  "+labelStyle.Render("Rule:")+" "+r.Rule)
	}
	showBlock(w, "Action:", r.Action)
	showBlock(w, "Expected Result:", r.Expected)
	if ids := r.RequirementIDs(); len(ids) > 0 {
		fmt.Fprintln(w, "  "+labelStyle.Render("Requirements:")+" "+reqStyle.Render(strings.Join(ids, ", ")))
	} else {
		fmt.Fprintln(w, "  "+labelStyle.Render("Requirements:")+" "+faintStyle.Render("none"))
	}
}

func showBlock(w io.Writer, label, text string) {
	fmt.Fprintln(w, "  "+labelStyle.Render(label))
	if text == "" {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintln(w, "    "+highlight(line))
	}
}

func highlight(line string) string {
	for _, kw := range stepKeywords {
		if rest, ok := strings.CutPrefix(line, kw); ok {
			return keywordStyle.Render(strings.TrimSpace(kw)) + " " + rest
		}
	}
	return line
}
