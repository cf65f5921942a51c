// Package taxonomy loads and evaluates the section taxonomy that
// requirements are classified into: an ordered list of section definitions,
// each with a match-rule list, plus an assignment policy. The taxonomy is
// parsed and validated once per run and is immutable afterwards; rule
// evaluation is side-effect free.
package taxonomy

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/c360studio/brdgen/requirement"
)

// Hard configuration errors. Everything below these is tolerated by
// degrading the offending rule or section.
var (
	// ErrNoSections indicates the configuration has no sections list.
	ErrNoSections = errors.New("taxonomy: configuration has no sections list")

	// ErrNoValidIDs indicates no section carried a usable id, leaving the
	// assigner without a fallback target.
	ErrNoValidIDs = errors.New("taxonomy: no section has a valid id")
)

// RenderingHints control optional evidence blocks when rendering a section.
// Citations are always emitted regardless of hints.
type RenderingHints struct {
	IncludeReferences bool
	IncludeQuotes     bool
}

// Section is one ordered bucket of the output taxonomy. Match entries are
// evaluated as a logical OR; section order determines first-match priority.
type Section struct {
	ID      string
	Number  string
	Title   string
	Purpose string
	Match   []Expr
	Hints   RenderingHints
}

// Heading returns the section heading for rendering: "Number. Title" when
// both are present, else the title, else the id.
func (s Section) Heading() string {
	if s.Number != "" && s.Title != "" {
		return s.Number + ". " + s.Title
	}
	if s.Title != "" {
		return s.Title
	}
	return s.ID
}

// Policy is the assignment policy: first-match short-circuiting and the
// fallback section for requirements nothing matched. Loaded once, immutable,
// safe to share across classification calls.
type Policy struct {
	FirstMatchWins      bool
	UnassignedSectionID string
}

// Taxonomy is the parsed, validated section taxonomy.
type Taxonomy struct {
	Sections []Section
	Policy   Policy

	validIDs  map[string]bool
	fallback  string
	malformed int
}

// IsValidID reports whether an id names a section of the taxonomy.
func (t *Taxonomy) IsValidID(id string) bool { return t.validIDs[id] }

// FallbackID returns the coerced fallback id: the policy's unassigned
// section when valid, else the lexicographically smallest valid id.
func (t *Taxonomy) FallbackID() string { return t.fallback }

// CoerceID validates a computed section id, substituting the fallback for
// anything outside the valid id set. Classification therefore never yields
// an undefined section.
func (t *Taxonomy) CoerceID(id string) string {
	if t.validIDs[id] {
		return id
	}
	return t.fallback
}

// MalformedRules returns how many rule nodes failed to parse. Such nodes
// evaluate false; callers may want to surface the count as a warning.
func (t *Taxonomy) MalformedRules() int { return t.malformed }

// Parse decodes and validates a taxonomy configuration document.
func Parse(data []byte) (*Taxonomy, error) {
	var root map[string]any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("taxonomy: parse configuration: %w", err)
	}

	rawSections, ok := root["sections"].([]any)
	if !ok || len(rawSections) == 0 {
		return nil, ErrNoSections
	}

	p := &parser{}
	tax := &Taxonomy{validIDs: make(map[string]bool)}

	for _, raw := range rawSections {
		node, ok := raw.(map[string]any)
		if !ok {
			p.malformed++
			continue
		}
		sec := parseSection(requirement.Record(node), p)
		if sec.ID != "" {
			tax.validIDs[sec.ID] = true
		}
		tax.Sections = append(tax.Sections, sec)
	}
	if len(tax.validIDs) == 0 {
		return nil, ErrNoValidIDs
	}

	tax.Policy = parsePolicy(root["assignmentPolicy"])
	tax.fallback = resolveFallback(tax.Policy.UnassignedSectionID, tax.validIDs)
	tax.malformed = p.malformed
	return tax, nil
}

// Load reads and parses a taxonomy configuration file.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("taxonomy: read configuration: %w", err)
	}
	return Parse(data)
}

func parseSection(node requirement.Record, p *parser) Section {
	sec := Section{
		ID:      node.String("id"),
		Title:   node.String("title"),
		Purpose: node.String("purpose"),
		Number:  stringify(node["number"]),
		Hints:   RenderingHints{IncludeReferences: true, IncludeQuotes: true},
	}

	if rules, ok := requirement.ValueOf(node["match"]).Seq(); ok {
		sec.Match = make([]Expr, 0, len(rules))
		for _, rule := range rules {
			sec.Match = append(sec.Match, p.parseExpr(rule))
		}
	}

	if hints, ok := requirement.ValueOf(node["renderingHints"]).Map(); ok {
		if v, ok := hints["includeReferences"].(bool); ok && !v {
			sec.Hints.IncludeReferences = false
		}
		if v, ok := hints["includeQuotes"].(bool); ok && !v {
			sec.Hints.IncludeQuotes = false
		}
	}
	return sec
}

func parsePolicy(raw any) Policy {
	policy := Policy{FirstMatchWins: true}
	node, ok := raw.(map[string]any)
	if !ok {
		return policy
	}
	if v, ok := node["firstMatchWins"].(bool); ok {
		policy.FirstMatchWins = v
	}
	if v, ok := node["unassignedSectionId"].(string); ok {
		policy.UnassignedSectionID = strings.TrimSpace(v)
	}
	return policy
}

// resolveFallback coerces the configured unassigned section id to a member
// of the valid id set, picking the lexicographically smallest id when the
// configuration points nowhere usable.
func resolveFallback(configured string, validIDs map[string]bool) string {
	if configured != "" && validIDs[configured] {
		return configured
	}
	ids := make([]string, 0, len(validIDs))
	for id := range validIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids[0]
}

// stringify renders a decoded scalar (string or number) for display, since
// section numbers appear both quoted and bare in configuration files.
func stringify(raw any) string {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	default:
		return ""
	}
}
