package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/brdgen/requirement"
)

const indexTaxonomy = `{
	"sections": [
		{"id": "BRD-01", "match": [{"field": "kind", "op": "eq", "value": "Business"}]},
		{"id": "BRD-02", "match": [{"field": "kind", "op": "in", "value": ["Functional", "Story"]}]},
		{"id": "BRD-99", "match": [{"field": "id", "op": "exists", "value": true}]}
	],
	"assignmentPolicy": {"firstMatchWins": true, "unassignedSectionId": "BRD-99"}
}`

func indexDocs() []*requirement.Document {
	return []*requirement.Document{
		{
			Source: requirement.SourceDocument{RelativePath: "SourceMaterial/b.md"},
			Requirements: []requirement.Record{
				{"id": "R-3", "kind": "Functional"},
				{"id": "R-1", "kind": "Business"},
				{"id": "R-4"},
			},
			FileName: "b.requirements.json",
		},
		{
			Requirements: []requirement.Record{
				{"id": "R-2", "kind": "Story"},
			},
			FileName: "a.requirements.json",
		},
	}
}

func TestBuildIndex_GroupsBySectionAndKind(t *testing.T) {
	idx := BuildIndex(indexDocs(), mustParse(t, indexTaxonomy))

	assert.Equal(t, 4, idx.Total())
	assert.Equal(t, []string{"BRD-01", "BRD-02", "BRD-99"}, idx.Sections())
	assert.Equal(t, []string{"Functional", "Story"}, idx.Kinds("BRD-02"))

	entries := idx.Entries("BRD-01", "Business")
	require.Len(t, entries, 1)
	assert.Equal(t, "R-1", entries[0].Record.ID())
	assert.Equal(t, "SourceMaterial/b.md", entries[0].Origin)
}

func TestBuildIndex_MissingKindBucketsAsOther(t *testing.T) {
	idx := BuildIndex(indexDocs(), mustParse(t, indexTaxonomy))

	entries := idx.Entries("BRD-99", "Other")
	require.Len(t, entries, 1)
	assert.Equal(t, "R-4", entries[0].Record.ID())
}

func TestBuildIndex_OriginFallsBackToFileName(t *testing.T) {
	idx := BuildIndex(indexDocs(), mustParse(t, indexTaxonomy))

	entries := idx.Entries("BRD-02", "Story")
	require.Len(t, entries, 1)
	assert.Equal(t, "a.requirements.json", entries[0].Origin)
}

func TestBuildIndex_TotalCoverage(t *testing.T) {
	docs := indexDocs()
	idx := BuildIndex(docs, mustParse(t, indexTaxonomy))

	// Every requirement lands in exactly one (section, kind) bucket.
	counted := 0
	for _, sectionID := range idx.Sections() {
		for _, kind := range idx.Kinds(sectionID) {
			counted += len(idx.Entries(sectionID, kind))
		}
	}
	want := 0
	for _, doc := range docs {
		want += len(doc.Requirements)
	}
	assert.Equal(t, want, counted)
	assert.Equal(t, want, idx.Total())
}

func TestSectionEntries_SortedByIDAcrossKinds(t *testing.T) {
	tax := mustParse(t, `{
		"sections": [{"id": "ALL", "match": [{"field": "id", "op": "exists", "value": true}]}],
		"assignmentPolicy": {"unassignedSectionId": "ALL"}
	}`)
	docs := []*requirement.Document{{
		Requirements: []requirement.Record{
			{"id": "R-3", "kind": "Functional"},
			{"id": "R-1", "kind": "Business"},
			{"id": "R-2", "kind": "Functional"},
		},
		FileName: "doc.json",
	}}

	idx := BuildIndex(docs, tax)
	entries := idx.SectionEntries("ALL")

	require.Len(t, entries, 3)
	assert.Equal(t, "R-1", entries[0].Record.ID())
	assert.Equal(t, "R-2", entries[1].Record.ID())
	assert.Equal(t, "R-3", entries[2].Record.ID())
}

func TestBuildIndex_DeterministicUnderDocumentShuffle(t *testing.T) {
	tax := mustParse(t, indexTaxonomy)
	docs := indexDocs()
	shuffled := []*requirement.Document{docs[1], docs[0]}

	a := BuildIndex(docs, tax)
	b := BuildIndex(shuffled, tax)

	assert.Equal(t, a.Total(), b.Total())
	assert.Equal(t, a.Sections(), b.Sections())
	for _, sectionID := range a.Sections() {
		wantIDs := entryIDs(a.SectionEntries(sectionID))
		gotIDs := entryIDs(b.SectionEntries(sectionID))
		assert.Equal(t, wantIDs, gotIDs, "section %s", sectionID)
	}
}

func entryIDs(entries []Entry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.Record.ID()
	}
	return ids
}
