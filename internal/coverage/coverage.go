// Package coverage turns parsed feature files into coverage records: one
// record per testing scenario part, with the rendered action and expected
// result texts and the requirements the part covers.
package coverage

import (
	"strings"

	"github.com/chriserin/reqtrace/internal/breakdown"
	"github.com/chriserin/reqtrace/internal/parser"
)

const indent = "    "

// Record is the coverage of one testing scenario part.
type Record struct {
	File         string
	Feature      string
	Rule         string // empty outside a Rule
	Scenario     string
	Line         int // line of the Scenario keyword
	Part         string
	Action       string
	Expected     string
	Requirements []breakdown.Requirement
}

// RequirementIDs returns the ids covered by r.
func (r Record) RequirementIDs() []string {
	ids := make([]string, 0, len(r.Requirements))
	for _, req := range r.Requirements {
		ids = append(ids, req.ID)
	}
	return ids
}

// Title names the part, e.g. "Login / User logs in #1".
func (r Record) Title() string {
	return r.Feature + " / " + r.Scenario + " " + r.Part
}

// Aggregate builds the records of every scenario in doc, in file order. The
// Background Given steps are prepended to every scenario, including those in
// Rules.
func Aggregate(file string, doc *parser.Document) []Record {
	f := doc.Feature
	var background []*parser.Step
	if f.Background != nil {
		background = givenSteps(f.Background.Steps)
	}

	a := aggregator{file: file, feature: f.Name, background: background}
	for _, child := range f.Children {
		if child.Kind != parser.KindRule {
			a.add("", child)
			continue
		}
		for _, sc := range child.Scenarios() {
			a.add(child.Name, sc)
		}
	}
	return a.records
}

// givenSteps keeps Given steps and the And/But steps that continue them.
func givenSteps(steps []*parser.Step) []*parser.Step {
	var out []*parser.Step
	inGiven := false
	for _, s := range steps {
		switch s.Type {
		case parser.Given:
			inGiven = true
		case parser.And, parser.But:
		default:
			inGiven = false
		}
		if inGiven {
			out = append(out, s)
		}
	}
	return out
}

type aggregator struct {
	file       string
	feature    string
	background []*parser.Step
	records    []Record
}

func (a *aggregator) add(rule string, sc *parser.Container) {
	steps := make([]*parser.Step, 0, len(a.background)+len(sc.Steps))
	steps = append(steps, a.background...)
	steps = append(steps, sc.Steps...)

	examples := ""
	if sc.Kind.IsOutline() {
		examples = RenderExamples(sc.Examples)
	}

	for _, part := range breakdown.Split(steps) {
		action := RenderSteps(part.Actions)
		if examples != "" {
			action = joinNonEmpty(action, examples)
		}
		a.records = append(a.records, Record{
			File:         a.file,
			Feature:      a.feature,
			Rule:         rule,
			Scenario:     sc.Name,
			Line:         sc.Line,
			Part:         part.ID,
			Action:       action,
			Expected:     RenderSteps(part.ExpectedResults),
			Requirements: part.Requirements,
		})
	}
}

// RenderSteps writes each step as "Keyword text", followed by its data table
// rows or doc string, indented.
func RenderSteps(steps []*parser.Step) string {
	var lines []string
	for _, s := range steps {
		lines = append(lines, s.String())
		for _, row := range s.Table {
			lines = append(lines, indent+strings.TrimSpace(row))
		}
		if ds := s.DocString; ds != nil {
			lines = append(lines, indent+strings.TrimSpace(ds.Delimiter+ds.Label))
			for _, l := range dedent(ds.Lines) {
				lines = append(lines, indent+l)
			}
			lines = append(lines, indent+ds.Delimiter)
		}
	}
	return strings.Join(lines, "\n")
}

// RenderExamples writes the Examples heading, its description and its table.
func RenderExamples(ex *parser.Examples) string {
	if ex == nil {
		return ""
	}
	heading := ex.Keyword + ":"
	if ex.Name != "" {
		heading += " " + ex.Name
	}
	lines := []string{heading}
	for _, d := range ex.Description {
		lines = append(lines, strings.TrimSpace(d))
	}
	for _, row := range ex.Table {
		lines = append(lines, indent+strings.TrimSpace(row))
	}
	return strings.Join(lines, "\n")
}

// dedent removes the indentation shared by all lines.
func dedent(lines []string) []string {
	common := -1
	for _, l := range lines {
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if common < 0 || n < common {
			common = n
		}
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimRight(l[common:], " \t")
	}
	return out
}

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}
