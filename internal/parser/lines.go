package parser

import (
	"strings"
)

// LineType is the grammatical category of a single source line.
type LineType int

const (
	LineComment LineType = iota
	LineFeature
	LineBackground
	LineRule
	LineScenario
	LineExample
	LineScenarioOutline
	LineScenarioTemplate
	LineExamples
	LineScenarios
	LineGiven
	LineWhen
	LineThen
	LineAnd
	LineBut
	LineStar
	LineDataTable
	LineDocString
	LineDescription
)

var lineTypeNames = map[LineType]string{
	LineComment:          "Comment",
	LineFeature:          "Feature",
	LineBackground:       "Background",
	LineRule:             "Rule",
	LineScenario:         "Scenario",
	LineExample:          "Example",
	LineScenarioOutline:  "Scenario Outline",
	LineScenarioTemplate: "Scenario Template",
	LineExamples:         "Examples",
	LineScenarios:        "Scenarios",
	LineGiven:            "Given",
	LineWhen:             "When",
	LineThen:             "Then",
	LineAnd:              "And",
	LineBut:              "But",
	LineStar:             "*",
	LineDataTable:        "DataTable",
	LineDocString:        "DocString",
	LineDescription:      "Description",
}

func (t LineType) String() string {
	if name, ok := lineTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// IsStep reports whether lines of this type open a step.
func (t LineType) IsStep() bool {
	return t >= LineGiven && t <= LineStar
}

// Line is one classified, non-blank source line.
type Line struct {
	Type   LineType
	Text   string
	Number int // 1-based
}

// Order matters: longer keywords that share a prefix with shorter ones come first.
var containerKeywords = []struct {
	keyword string
	typ     LineType
}{
	{"Feature:", LineFeature},
	{"Background:", LineBackground},
	{"Rule:", LineRule},
	{"Scenario Outline:", LineScenarioOutline},
	{"Scenario Template:", LineScenarioTemplate},
	{"Scenarios:", LineScenarios},
	{"Scenario:", LineScenario},
	{"Examples:", LineExamples},
	{"Example:", LineExample},
}

var stepKeywords = []struct {
	keyword string
	typ     LineType
}{
	{"Given", LineGiven},
	{"When", LineWhen},
	{"Then", LineThen},
	{"And", LineAnd},
	{"But", LineBut},
	{"*", LineStar},
}

var docStringDelimiters = []string{`"""`, "```"}

// Classify turns the raw lines of one file into typed lines. Blank lines are
// dropped. Inside a doc string every line is a Description until the
// delimiter that opened it appears again.
func Classify(raw []string) []Line {
	var lines []Line
	openDelimiter := ""

	for i, text := range raw {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			continue
		}
		number := i + 1

		if openDelimiter != "" {
			if strings.HasPrefix(trimmed, openDelimiter) {
				openDelimiter = ""
				lines = append(lines, Line{Type: LineDocString, Text: text, Number: number})
				continue
			}
			lines = append(lines, Line{Type: LineDescription, Text: text, Number: number})
			continue
		}

		if d := docStringDelimiter(trimmed); d != "" {
			openDelimiter = d
			lines = append(lines, Line{Type: LineDocString, Text: text, Number: number})
			continue
		}

		lines = append(lines, classifyLine(text, trimmed, number))
	}

	return lines
}

func classifyLine(text, trimmed string, number int) Line {
	if strings.HasPrefix(trimmed, "#") {
		return Line{Type: LineComment, Text: text, Number: number}
	}

	for _, k := range containerKeywords {
		if strings.HasPrefix(trimmed, k.keyword) {
			rest := strings.TrimSpace(strings.TrimPrefix(trimmed, k.keyword))
			return Line{Type: k.typ, Text: rest, Number: number}
		}
	}

	for _, k := range stepKeywords {
		if rest, ok := cutStepKeyword(trimmed, k.keyword); ok {
			return Line{Type: k.typ, Text: rest, Number: number}
		}
	}

	if isTableRow(trimmed) {
		return Line{Type: LineDataTable, Text: text, Number: number}
	}

	return Line{Type: LineDescription, Text: text, Number: number}
}

// cutStepKeyword matches a step keyword followed by whitespace.
func cutStepKeyword(trimmed, keyword string) (string, bool) {
	if !strings.HasPrefix(trimmed, keyword) {
		return "", false
	}
	rest := trimmed[len(keyword):]
	if rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

func isTableRow(trimmed string) bool {
	return len(trimmed) >= 2 && strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|")
}

func docStringDelimiter(trimmed string) string {
	for _, d := range docStringDelimiters {
		if strings.HasPrefix(trimmed, d) {
			return d
		}
	}
	return ""
}
