package parser

import "strings"

// Document is the parsed form of one feature file.
type Document struct {
	Feature *Container
}

// Kind tags a Container with the keyword that opened it.
type Kind int

const (
	KindFeature Kind = iota
	KindRule
	KindBackground
	KindScenario
	KindExample
	KindScenarioOutline
	KindScenarioTemplate
)

var kindKeywords = map[Kind]string{
	KindFeature:          "Feature",
	KindRule:             "Rule",
	KindBackground:       "Background",
	KindScenario:         "Scenario",
	KindExample:          "Example",
	KindScenarioOutline:  "Scenario Outline",
	KindScenarioTemplate: "Scenario Template",
}

func (k Kind) String() string {
	return kindKeywords[k]
}

// IsScenario reports whether k is a plain Scenario or Example.
func (k Kind) IsScenario() bool {
	return k == KindScenario || k == KindExample
}

// IsOutline reports whether k is a Scenario Outline or Scenario Template.
func (k Kind) IsOutline() bool {
	return k == KindScenarioOutline || k == KindScenarioTemplate
}

// Container is any keyword block of a feature file. Which fields are used
// depends on Kind:
//
//	Feature          Background, Children (rules, scenarios, outlines)
//	Rule             Children (scenarios)
//	Background       Steps
//	Scenario/Example Steps
//	Outline/Template Steps, Examples
type Container struct {
	Kind        Kind
	Name        string // text after the keyword's colon
	Line        int
	Description []string // free text lines below the keyword line
	Comments    []string

	Steps      []*Step
	Children   []*Container
	Background *Container
	Examples   *Examples
}

// Keyword returns the literal keyword that opened the container.
func (c *Container) Keyword() string {
	return c.Kind.String()
}

// Rules returns the Rule children in file order.
func (c *Container) Rules() []*Container {
	return c.childrenWhere(func(k Kind) bool { return k == KindRule })
}

// Scenarios returns the Scenario and Example children in file order.
func (c *Container) Scenarios() []*Container {
	return c.childrenWhere(Kind.IsScenario)
}

// Outlines returns the Scenario Outline and Scenario Template children in file order.
func (c *Container) Outlines() []*Container {
	return c.childrenWhere(Kind.IsOutline)
}

func (c *Container) childrenWhere(match func(Kind) bool) []*Container {
	var out []*Container
	for _, child := range c.Children {
		if match(child.Kind) {
			out = append(out, child)
		}
	}
	return out
}

// Examples is the Examples/Scenarios section closing a Scenario Outline.
type Examples struct {
	Keyword     string // "Examples" or "Scenarios"
	Name        string
	Line        int
	Description []string
	Comments    []string
	Table       DataTable
}

// StepType is the keyword a step starts with.
type StepType int

const (
	Given StepType = iota
	When
	Then
	And
	But
	Star
)

var stepTypeKeywords = map[StepType]string{
	Given: "Given",
	When:  "When",
	Then:  "Then",
	And:   "And",
	But:   "But",
	Star:  "*",
}

func (t StepType) String() string {
	return stepTypeKeywords[t]
}

func stepTypeOf(t LineType) StepType {
	return StepType(t - LineGiven)
}

// Step is one Given/When/Then/And/But/* line with its attached argument.
type Step struct {
	Type      StepType
	Line      int
	Text      string
	Table     DataTable
	DocString *DocString
}

// Keyword returns the literal step keyword.
func (s *Step) Keyword() string {
	return s.Type.String()
}

func (s *Step) String() string {
	return s.Keyword() + " " + s.Text
}

// DataTable holds raw table rows, e.g. "| a | b |", as written.
type DataTable []string

// DocString is the text between two doc string delimiter lines.
type DocString struct {
	Delimiter string
	Label     string // media type written after the opening delimiter
	Lines     []string
}

// Content joins the doc string lines.
func (d *DocString) Content() string {
	return strings.Join(d.Lines, "\n")
}
