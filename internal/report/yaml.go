package report

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/chriserin/reqtrace/internal/coverage"
)

type yamlReport struct {
	Requirements []yamlRequirement `yaml:"requirements"`
	Parts        []yamlPart        `yaml:"parts"`
}

type yamlRequirement struct {
	ID        string   `yaml:"id"`
	CoveredBy []string `yaml:"covered_by"`
}

type yamlPart struct {
	File         string   `yaml:"file"`
	Feature      string   `yaml:"feature"`
	Rule         string   `yaml:"rule,omitempty"`
	Scenario     string   `yaml:"scenario"`
	Line         int      `yaml:"line"`
	Part         string   `yaml:"part"`
	Action       string   `yaml:"action"`
	Expected     string   `yaml:"expected"`
	Requirements []string `yaml:"requirements,omitempty"`
}

// YAMLWriter writes the requirement matrix and every part as YAML.
type YAMLWriter struct{}

func (y *YAMLWriter) Write(w io.Writer, records []coverage.Record) error {
	var out yamlReport
	for _, rc := range coverage.Matrix(records) {
		req := yamlRequirement{ID: rc.Requirement.ID}
		for _, r := range rc.Records {
			req.CoveredBy = append(req.CoveredBy, r.Title())
		}
		out.Requirements = append(out.Requirements, req)
	}
	for _, r := range records {
		out.Parts = append(out.Parts, yamlPart{
			File:         r.File,
			Feature:      r.Feature,
			Rule:         r.Rule,
			Scenario:     r.Scenario,
			Line:         r.Line,
			Part:         r.Part,
			Action:       r.Action,
			Expected:     r.Expected,
			Requirements: r.RequirementIDs(),
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}
