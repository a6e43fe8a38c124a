// Package breakdown splits the steps of one scenario into testing scenario
// parts: a run of action steps, the expected results that follow it, and the
// requirements those expected results declare as covered.
package breakdown

import (
	"fmt"

	"github.com/chriserin/reqtrace/internal/parser"
)

// Part is one action/expected-result/requirements triple.
type Part struct {
	ID              string // "#1", "#2", ... per scenario
	Actions         []*parser.Step
	ExpectedResults []*parser.Step
	Requirements    []Requirement
}

// Breakdown is the ordered list of parts of one scenario instance.
type Breakdown []Part

type phase int

const (
	phaseAction phase = iota
	phaseExpectedResult
)

type op int

const (
	opAction      op = iota // append the step to the actions
	opExpect                // record a requirement reference or an expected result
	opFlushAction           // close the current part, then append to the actions
)

type transition struct {
	op   op
	next phase
}

// transitions is keyed by (current phase, incoming step type). Given, When
// and * after an expected result start a new part. And and But are looked up
// in continuations instead.
var transitions = map[phase]map[parser.StepType]transition{
	phaseAction: {
		parser.Given: {opAction, phaseAction},
		parser.When:  {opAction, phaseAction},
		parser.Star:  {opAction, phaseAction},
		parser.Then:  {opExpect, phaseExpectedResult},
	},
	phaseExpectedResult: {
		parser.Given: {opFlushAction, phaseAction},
		parser.When:  {opFlushAction, phaseAction},
		parser.Star:  {opFlushAction, phaseAction},
		parser.Then:  {opExpect, phaseExpectedResult},
	},
}

// continuations is keyed by whether the previous step was a Then. And and But
// extend the expected results only directly after a Then; anywhere else they
// are actions, even while an expected result is open.
var continuations = map[bool]transition{
	true:  {opExpect, phaseExpectedResult},
	false: {opAction, phaseAction},
}

// noStep is the previous step type before the first step.
const noStep parser.StepType = -1

func transitionFor(p phase, last, t parser.StepType) transition {
	if t == parser.And || t == parser.But {
		return continuations[last == parser.Then]
	}
	if tr, ok := transitions[p][t]; ok {
		return tr
	}
	if p == phaseExpectedResult {
		return transition{opFlushAction, phaseAction}
	}
	return transition{opAction, phaseAction}
}

// Split breaks an ordered step list into parts. Background steps, if any,
// must already be prepended by the caller.
func Split(steps []*parser.Step) Breakdown {
	s := &splitter{next: 1, last: noStep}
	for _, step := range steps {
		tr := transitionFor(s.phase, s.last, step.Type)
		switch tr.op {
		case opAction:
			s.actions = append(s.actions, step)
		case opFlushAction:
			s.flush()
			s.actions = append(s.actions, step)
		case opExpect:
			if ids, ok := ReferencedIDs(step.Text); ok {
				s.ids = append(s.ids, ids...)
			} else {
				s.expected = append(s.expected, step)
			}
		}
		s.phase = tr.next
		s.last = step.Type
	}
	// Pending ids alone also produce a part, e.g. a scenario that is only a
	// Then Reference SD step.
	if len(s.actions) > 0 || len(s.expected) > 0 || len(s.ids) > 0 {
		s.flush()
	}
	return s.parts
}

type splitter struct {
	phase    phase
	last     parser.StepType
	next     int
	actions  []*parser.Step
	expected []*parser.Step
	ids      []string
	parts    Breakdown
}

func (s *splitter) flush() {
	part := Part{
		ID:              fmt.Sprintf("#%d", s.next),
		Actions:         s.actions,
		ExpectedResults: s.expected,
	}
	for _, id := range s.ids {
		part.Requirements = append(part.Requirements, Requirement{ID: id})
	}
	s.parts = append(s.parts, part)
	s.next++
	s.actions, s.expected, s.ids = nil, nil, nil
}

// Requirements returns every requirement covered by b, in order, with duplicates.
func (b Breakdown) Requirements() []Requirement {
	var out []Requirement
	for _, p := range b {
		out = append(out, p.Requirements...)
	}
	return out
}
