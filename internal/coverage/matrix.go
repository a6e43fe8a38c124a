package coverage

import "github.com/chriserin/reqtrace/internal/breakdown"

// RequirementCoverage lists the records covering one requirement.
type RequirementCoverage struct {
	Requirement breakdown.Requirement
	Records     []Record
}

// Matrix groups records by requirement, ordered by first appearance. A record
// naming the same requirement twice is listed once under it.
func Matrix(records []Record) []RequirementCoverage {
	var out []RequirementCoverage
	index := make(map[breakdown.Requirement]int)

	for _, r := range records {
		seen := make(map[breakdown.Requirement]bool)
		for _, req := range r.Requirements {
			if seen[req] {
				continue
			}
			seen[req] = true

			i, ok := index[req]
			if !ok {
				i = len(out)
				index[req] = i
				out = append(out, RequirementCoverage{Requirement: req})
			}
			out[i].Records = append(out[i].Records, r)
		}
	}
	return out
}

// Uncovered returns the records that cover no requirement.
func Uncovered(records []Record) []Record {
	var out []Record
	for _, r := range records {
		if len(r.Requirements) == 0 {
			out = append(out, r)
		}
	}
	return out
}
