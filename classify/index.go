package classify

import (
	"sort"

	"github.com/c360studio/brdgen/requirement"
	"github.com/c360studio/brdgen/taxonomy"
)

// Entry is one classified requirement together with the origin key of the
// document that contributed it.
type Entry struct {
	Record requirement.Record
	Origin string
}

// Index is the classification index: section id → kind tag → entries in
// encounter order. Built in one pass and read-only afterwards; a completed
// Index is safe for concurrent readers.
type Index struct {
	buckets map[string]map[string][]Entry
	total   int
}

// BuildIndex classifies every requirement of every document into the
// taxonomy. Each record lands in exactly one (section, kind) bucket, so the
// sum of bucket sizes equals the input requirement count.
func BuildIndex(docs []*requirement.Document, tax *taxonomy.Taxonomy) *Index {
	assigner := NewAssigner(tax)
	idx := &Index{buckets: make(map[string]map[string][]Entry)}

	for _, doc := range docs {
		origin := doc.Key()
		for _, rec := range doc.Requirements {
			sectionID := assigner.Assign(rec)
			kinds := idx.buckets[sectionID]
			if kinds == nil {
				kinds = make(map[string][]Entry)
				idx.buckets[sectionID] = kinds
			}
			kind := rec.Kind()
			kinds[kind] = append(kinds[kind], Entry{Record: rec, Origin: origin})
			idx.total++
		}
	}
	return idx
}

// Total returns the number of indexed requirements.
func (x *Index) Total() int { return x.total }

// Sections returns the section ids holding at least one entry, sorted.
func (x *Index) Sections() []string {
	ids := make([]string, 0, len(x.buckets))
	for id := range x.buckets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Kinds returns the kind tags present in a section, sorted.
func (x *Index) Kinds(sectionID string) []string {
	kinds := make([]string, 0, len(x.buckets[sectionID]))
	for kind := range x.buckets[sectionID] {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// Entries returns one (section, kind) bucket in encounter order.
func (x *Index) Entries(sectionID, kind string) []Entry {
	return x.buckets[sectionID][kind]
}

// SectionEntries flattens a section's buckets across all kinds and stably
// sorts the result by requirement id. This is the presentation order; the
// stable sort keeps encounter order among equal or missing ids.
func (x *Index) SectionEntries(sectionID string) []Entry {
	var entries []Entry
	for _, kind := range x.Kinds(sectionID) {
		entries = append(entries, x.buckets[sectionID][kind]...)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Record.ID() < entries[j].Record.ID()
	})
	return entries
}
