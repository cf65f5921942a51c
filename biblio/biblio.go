// Package biblio builds the bibliography for a classified requirement set:
// every distinct source path touched by any requirement gets a stable
// citation number, assigned after sorting the full path set. Numbering is a
// pure function of the set, so document order never changes a citation.
package biblio

import (
	"fmt"
	"sort"
	"strings"

	"github.com/c360studio/brdgen/classify"
	"github.com/c360studio/brdgen/requirement"
)

// SourceInfo describes one bibliography entry for rendering.
type SourceInfo struct {
	Title        string
	RelativePath string
	URL          string
}

// Table maps distinct source paths to citation numbers. Built once after
// classification completes and read-only afterwards.
type Table struct {
	numbers map[string]int
	paths   []string
	info    map[string]SourceInfo
}

// Build scans a completed classification index and collects every origin
// key and every referenced relativePath into one distinct path set, then
// numbers the sorted set 1..N. Document metadata supplies titles and URLs
// for the reference list; the first document claiming a path wins.
func Build(idx *classify.Index, docs []*requirement.Document) *Table {
	t := &Table{
		numbers: make(map[string]int),
		info:    make(map[string]SourceInfo),
	}

	distinct := make(map[string]bool)
	for _, sectionID := range idx.Sections() {
		for _, kind := range idx.Kinds(sectionID) {
			for _, entry := range idx.Entries(sectionID, kind) {
				for _, rel := range entry.Record.ReferencePaths() {
					distinct[rel] = true
				}
				if origin := strings.TrimSpace(entry.Origin); origin != "" {
					distinct[origin] = true
				}
			}
		}
	}

	t.paths = make([]string, 0, len(distinct))
	for path := range distinct {
		t.paths = append(t.paths, path)
	}
	sort.Strings(t.paths)
	for i, path := range t.paths {
		t.numbers[path] = i + 1
	}

	for _, doc := range docs {
		key := doc.Key()
		if _, claimed := t.info[key]; claimed {
			continue
		}
		t.info[key] = SourceInfo{
			Title:        doc.DisplayTitle(),
			RelativePath: key,
			URL:          doc.URL(),
		}
	}
	return t
}

// Number returns the citation number for a path, if the path is cited.
func (t *Table) Number(path string) (int, bool) {
	n, ok := t.numbers[path]
	return n, ok
}

// Paths returns every cited path in citation-number order.
func (t *Table) Paths() []string { return t.paths }

// Info returns the source metadata recorded for a path. The zero value
// carries just the path itself when no document claimed it.
func (t *Table) Info(path string) SourceInfo {
	if info, ok := t.info[path]; ok {
		return info
	}
	return SourceInfo{RelativePath: path}
}

// Citations returns the ascending, de-duplicated citation numbers for a
// record: the numbers of its own reference paths plus its origin key.
func (t *Table) Citations(rec requirement.Record, origin string) []int {
	seen := make(map[int]bool)
	var nums []int
	add := func(path string) {
		if n, ok := t.numbers[path]; ok && !seen[n] {
			seen[n] = true
			nums = append(nums, n)
		}
	}
	for _, rel := range rec.ReferencePaths() {
		add(rel)
	}
	if origin = strings.TrimSpace(origin); origin != "" {
		add(origin)
	}
	sort.Ints(nums)
	return nums
}

// Markers formats a record's citations as bracketed inline markers, e.g.
// "[1][3]". Returns "" when the record cites nothing.
func (t *Table) Markers(rec requirement.Record, origin string) string {
	var sb strings.Builder
	for _, n := range t.Citations(rec, origin) {
		fmt.Fprintf(&sb, "[%d]", n)
	}
	return sb.String()
}
