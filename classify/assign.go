// Package classify assigns requirement records to taxonomy sections and
// builds the grouped classification index consumed by rendering. Assignment
// is deterministic: taxonomy order decides first-match priority, and every
// requirement lands in exactly one valid section.
package classify

import (
	"github.com/c360studio/brdgen/requirement"
	"github.com/c360studio/brdgen/taxonomy"
)

// Assigner applies a taxonomy's ordered sections to requirement records.
type Assigner struct {
	tax *taxonomy.Taxonomy
}

// NewAssigner creates an assigner over a parsed taxonomy.
func NewAssigner(tax *taxonomy.Taxonomy) *Assigner {
	return &Assigner{tax: tax}
}

// Assign returns the section id for a record. Sections are tried in
// taxonomy order, a section's match list is OR-ed together, and under the
// first-match policy evaluation stops at the first hit. When nothing
// matches, the policy's fallback applies. The result is always coerced into
// the valid id set.
func (a *Assigner) Assign(rec requirement.Record) string {
	var matched []string
	for _, sec := range a.tax.Sections {
		if sec.ID == "" || len(sec.Match) == 0 {
			continue
		}
		if !matchSection(sec, rec) {
			continue
		}
		if a.tax.Policy.FirstMatchWins {
			return a.tax.CoerceID(sec.ID)
		}
		matched = append(matched, sec.ID)
	}

	// With firstMatchWins disabled the output is still single-section: the
	// first accumulated match wins. Multi-section membership is not part of
	// the assignment contract.
	if len(matched) > 0 {
		return a.tax.CoerceID(matched[0])
	}
	return a.tax.CoerceID(a.tax.Policy.UnassignedSectionID)
}

// matchSection ORs the section's match entries against a record.
func matchSection(sec taxonomy.Section, rec requirement.Record) bool {
	for _, rule := range sec.Match {
		if rule.Eval(rec) {
			return true
		}
	}
	return false
}
