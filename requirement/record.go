// Package requirement models canonical requirement records and the
// documents that carry them. Records are opaque, arbitrarily nested
// mappings; the package provides a semantic value type and a tolerant
// dotted-path resolver over them. Records are read-only inputs: nothing in
// this module mutates a record after decoding.
package requirement

import "strings"

// DefaultKind is the kind bucket for records without a usable kind tag.
const DefaultKind = "Other"

// Record is one canonical requirement as decoded from JSON.
type Record map[string]any

// ID returns the record's id, or "" when missing or not a string.
func (r Record) ID() string {
	s, _ := ValueOf(r["id"]).Str()
	return strings.TrimSpace(s)
}

// Kind returns the record's kind tag, defaulting to DefaultKind when the
// field is missing, blank, or not a string.
func (r Record) Kind() string {
	if s, ok := ValueOf(r["kind"]).Str(); ok {
		if k := strings.TrimSpace(s); k != "" {
			return k
		}
	}
	return DefaultKind
}

// String returns the trimmed string at a top-level field, or "" when the
// field is missing or not a string.
func (r Record) String(field string) string {
	s, _ := ValueOf(r[field]).Str()
	return strings.TrimSpace(s)
}

// ReferenceEntries returns the record's references list entries, skipping
// anything that is not a mapping.
func (r Record) ReferenceEntries() []Record {
	seq, ok := ValueOf(r["references"]).Seq()
	if !ok {
		return nil
	}
	entries := make([]Record, 0, len(seq))
	for _, item := range seq {
		if m, ok := ValueOf(item).Map(); ok {
			entries = append(entries, Record(m))
		}
	}
	return entries
}

// ReferencePaths returns the distinct non-blank relativePath values from
// the record's references list, in encounter order.
func (r Record) ReferencePaths() []string {
	var paths []string
	seen := make(map[string]bool)
	for _, ref := range r.ReferenceEntries() {
		rel := ref.String("relativePath")
		if rel == "" || seen[rel] {
			continue
		}
		seen[rel] = true
		paths = append(paths, rel)
	}
	return paths
}
