package parser

import (
	"strings"
)

// Parse classifies the raw lines of one file and builds its Document.
func Parse(raw []string) (*Document, error) {
	return ParseLines(Classify(raw))
}

// ParseLines builds a Document from classified lines in a single pass. The
// first grammar violation aborts the parse; no partial Document is returned.
func ParseLines(lines []Line) (*Document, error) {
	i := 0
	var leading []string
	for i < len(lines) && lines[i].Type == LineComment {
		leading = append(leading, lines[i].Text)
		i++
	}
	if i == len(lines) {
		return nil, violation(0, "no Feature found")
	}
	if lines[i].Type != LineFeature {
		return nil, violation(lines[i].Number, "no Feature found")
	}

	b := &builder{
		feature: &Container{
			Kind:     KindFeature,
			Name:     lines[i].Text,
			Line:     lines[i].Number,
			Comments: leading,
		},
	}
	for _, l := range lines[i+1:] {
		if err := b.consume(l); err != nil {
			return nil, err
		}
	}
	if err := b.finish(); err != nil {
		return nil, err
	}
	return &Document{Feature: b.feature}, nil
}

type builder struct {
	feature  *Container
	rule     *Container // open Rule, never closed once opened
	current  *Container // Background, Scenario or Outline receiving steps
	examples *Examples  // open Examples section of current

	// step is the last step while it may still receive a data table or doc string.
	step          *Step
	docString     *DocString
	docStringLine int
}

func (b *builder) consume(l Line) error {
	if b.docString != nil {
		if l.Type == LineDocString {
			b.docString = nil
			return nil
		}
		b.docString.Lines = append(b.docString.Lines, l.Text)
		return nil
	}

	switch l.Type {
	case LineComment:
		target := b.textTarget()
		*target.comments = append(*target.comments, l.Text)
		b.step = nil
	case LineDescription:
		target := b.textTarget()
		*target.description = append(*target.description, l.Text)
		b.step = nil
	case LineFeature:
		return violation(l.Number, "only one Feature is allowed per file")
	case LineBackground:
		return b.openBackground(l)
	case LineRule:
		return b.openRule(l)
	case LineScenario, LineExample:
		return b.openScenario(l)
	case LineScenarioOutline, LineScenarioTemplate:
		return b.openOutline(l)
	case LineExamples, LineScenarios:
		return b.openExamples(l)
	case LineDataTable:
		return b.addTableRow(l)
	case LineDocString:
		return b.openDocString(l)
	default:
		if l.Type.IsStep() {
			return b.addStep(l)
		}
		return violation(l.Number, "unexpected %s line", l.Type)
	}
	return nil
}

type textTarget struct {
	description *[]string
	comments    *[]string
}

// textTarget returns the innermost open block for free text and comments.
func (b *builder) textTarget() textTarget {
	switch {
	case b.examples != nil:
		return textTarget{&b.examples.Description, &b.examples.Comments}
	case b.current != nil:
		return textTarget{&b.current.Description, &b.current.Comments}
	case b.rule != nil:
		return textTarget{&b.rule.Description, &b.rule.Comments}
	default:
		return textTarget{&b.feature.Description, &b.feature.Comments}
	}
}

func (b *builder) openBackground(l Line) error {
	if b.rule != nil {
		return violation(l.Number, "Background is not allowed inside a Rule")
	}
	if b.feature.Background != nil {
		return violation(l.Number, "only one Background is allowed, first at line %d", b.feature.Background.Line)
	}
	if len(b.feature.Children) > 0 {
		return violation(l.Number, "Background must come before any Rule or Scenario")
	}
	bg := &Container{Kind: KindBackground, Name: l.Text, Line: l.Number}
	b.feature.Background = bg
	b.current = bg
	return nil
}

func (b *builder) openRule(l Line) error {
	if err := b.closeCurrent(); err != nil {
		return err
	}
	rule := &Container{Kind: KindRule, Name: l.Text, Line: l.Number}
	b.feature.Children = append(b.feature.Children, rule)
	b.rule = rule
	return nil
}

func (b *builder) openScenario(l Line) error {
	if err := b.closeCurrent(); err != nil {
		return err
	}
	kind := KindScenario
	if l.Type == LineExample {
		kind = KindExample
	}
	sc := &Container{Kind: kind, Name: l.Text, Line: l.Number}
	parent := b.feature
	if b.rule != nil {
		parent = b.rule
	}
	parent.Children = append(parent.Children, sc)
	b.current = sc
	return nil
}

func (b *builder) openOutline(l Line) error {
	kind := KindScenarioOutline
	if l.Type == LineScenarioTemplate {
		kind = KindScenarioTemplate
	}
	if b.rule != nil {
		return violation(l.Number, "%s is not allowed inside a Rule", kind)
	}
	if err := b.closeCurrent(); err != nil {
		return err
	}
	outline := &Container{Kind: kind, Name: l.Text, Line: l.Number}
	b.feature.Children = append(b.feature.Children, outline)
	b.current = outline
	return nil
}

func (b *builder) openExamples(l Line) error {
	if b.current == nil || !b.current.Kind.IsOutline() {
		return violation(l.Number, "%s must follow a Scenario Outline or Scenario Template", l.Type)
	}
	if b.current.Examples != nil {
		return violation(l.Number, "%s at line %d already has %s", b.current.Kind, b.current.Line, b.current.Examples.Keyword)
	}
	ex := &Examples{Keyword: l.Type.String(), Name: l.Text, Line: l.Number}
	b.current.Examples = ex
	b.examples = ex
	b.step = nil
	return nil
}

func (b *builder) addStep(l Line) error {
	if b.current == nil {
		return violation(l.Number, "orphan step %q outside of a Background or Scenario", l.Text)
	}
	if b.examples != nil {
		return violation(l.Number, "step %q after %s", l.Text, b.examples.Keyword)
	}
	step := &Step{Type: stepTypeOf(l.Type), Line: l.Number, Text: l.Text}
	b.current.Steps = append(b.current.Steps, step)
	b.step = step
	return nil
}

func (b *builder) addTableRow(l Line) error {
	switch {
	case b.step != nil && b.step.DocString == nil:
		b.step.Table = append(b.step.Table, l.Text)
	case b.examples != nil:
		b.examples.Table = append(b.examples.Table, l.Text)
	default:
		return violation(l.Number, "data table without a step")
	}
	return nil
}

func (b *builder) openDocString(l Line) error {
	if b.step == nil || b.step.DocString != nil || len(b.step.Table) > 0 {
		return violation(l.Number, "doc string without a step")
	}
	trimmed := strings.TrimSpace(l.Text)
	delimiter := docStringDelimiter(trimmed)
	ds := &DocString{
		Delimiter: delimiter,
		Label:     strings.TrimSpace(strings.TrimPrefix(trimmed, delimiter)),
	}
	b.step.DocString = ds
	b.docString = ds
	b.docStringLine = l.Number
	return nil
}

// closeCurrent ends the open Background, Scenario or Outline.
func (b *builder) closeCurrent() error {
	cur := b.current
	b.current, b.examples, b.step = nil, nil, nil
	if cur == nil || !cur.Kind.IsOutline() {
		return nil
	}
	if cur.Examples == nil {
		return violation(cur.Line, "%s %q has no Examples", cur.Kind, cur.Name)
	}
	if len(cur.Examples.Table) == 0 {
		return violation(cur.Examples.Line, "%s of %s %q has no data table", cur.Examples.Keyword, cur.Kind, cur.Name)
	}
	return nil
}

func (b *builder) finish() error {
	if b.docString != nil {
		return violation(b.docStringLine, "doc string is not terminated")
	}
	return b.closeCurrent()
}
