// Package render converts a classification index and bibliography into one
// markdown document: sections in taxonomy order, requirement blocks with
// inline citation markers, and a numbered reference list. Rendering is
// layout-free; pagination and typography belong to whatever consumes the
// markdown.
package render

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/brdgen/biblio"
	"github.com/c360studio/brdgen/classify"
	"github.com/c360studio/brdgen/requirement"
	"github.com/c360studio/brdgen/taxonomy"
)

// DefaultTitle is the document title when none is configured.
const DefaultTitle = "Canonical Requirements"

// Options configure one render pass.
type Options struct {
	// Title is the document title.
	Title string

	// IncludeReferences enables per-requirement evidence blocks (reference
	// paths and quotes) where the section's rendering hints allow them.
	// Inline citation markers are emitted regardless.
	IncludeReferences bool

	// IncludeOpenQuestions enables the trailing open-questions section.
	IncludeOpenQuestions bool

	// GeneratedAt stamps the document header; zero means now.
	GeneratedAt time.Time

	// BuildID identifies the run in the document header; empty means a
	// fresh id.
	BuildID string
}

// Transformer renders classified requirements to markdown.
type Transformer struct {
	opts Options
}

// NewTransformer creates a transformer, filling option defaults.
func NewTransformer(opts Options) *Transformer {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now()
	}
	if opts.BuildID == "" {
		opts.BuildID = uuid.NewString()
	}
	return &Transformer{opts: opts}
}

// Transform renders the full document.
func (t *Transformer) Transform(tax *taxonomy.Taxonomy, idx *classify.Index, bib *biblio.Table, docs []*requirement.Document) string {
	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(t.opts.Title)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Generated: %s (build %s)\n\n", t.opts.GeneratedAt.Format(time.RFC3339), t.opts.BuildID)
	sb.WriteString("This document is generated from canonical requirements JSON files. " +
		"Statements are rendered as the primary source-of-truth summary for downstream analysis.\n\n")

	for _, sec := range tax.Sections {
		if sec.ID == "" {
			continue
		}
		t.writeSection(&sb, sec, idx, bib)
	}

	if t.opts.IncludeOpenQuestions {
		t.writeOpenQuestions(&sb, docs)
	}

	t.writeBibliography(&sb, bib)
	return sb.String()
}

func (t *Transformer) writeSection(sb *strings.Builder, sec taxonomy.Section, idx *classify.Index, bib *biblio.Table) {
	sb.WriteString("## ")
	sb.WriteString(sec.Heading())
	sb.WriteString("\n\n")
	if sec.Purpose != "" {
		sb.WriteString(sec.Purpose)
		sb.WriteString("\n\n")
	}

	entries := idx.SectionEntries(sec.ID)
	if len(entries) == 0 {
		sb.WriteString("(No items)\n\n")
		return
	}

	for _, entry := range entries {
		t.writeRequirement(sb, entry, sec, bib)
	}
}

func (t *Transformer) writeRequirement(sb *strings.Builder, entry classify.Entry, sec taxonomy.Section, bib *biblio.Table) {
	rec := entry.Record

	if title := rec.String("title"); title != "" {
		sb.WriteString("### ")
		sb.WriteString(title)
		sb.WriteString("\n\n")
	}

	markers := bib.Markers(rec, entry.Origin)
	if statement := rec.String("statement"); statement != "" {
		sb.WriteString(statementLine(statement, rec.ID(), markers))
		sb.WriteString("\n\n")
	} else {
		// No statement: fall back to the story and BDD headline.
		if line := storyLine(rec); line != "" {
			sb.WriteString(statementLine(line, rec.ID(), markers))
			sb.WriteString("\n\n")
		}
		if bdd, ok := requirement.ValueOf(rec["bdd"]).Map(); ok {
			bddRec := requirement.Record(bdd)
			if feature := bddRec.String("feature"); feature != "" {
				fmt.Fprintf(sb, "Feature: %s\n\n", feature)
			}
			if scenario := bddRec.String("scenario"); scenario != "" {
				fmt.Fprintf(sb, "Scenario: %s\n\n", scenario)
			}
		}
	}

	writeSummaryBlock(sb, rec)

	if t.opts.IncludeReferences && sec.Hints.IncludeReferences {
		writeEvidence(sb, rec, sec.Hints.IncludeQuotes, bib)
	}
}

// statementLine appends the requirement id tag and citation markers to a
// statement, e.g. "Users must log in. [REQ-1] [1][3]".
func statementLine(text, id, markers string) string {
	line := text
	if id != "" {
		line += " [" + id + "]"
	}
	if markers != "" {
		line += " " + markers
	}
	return line
}

// storyLine condenses a story block into prose.
func storyLine(rec requirement.Record) string {
	story, ok := requirement.ValueOf(rec["story"]).Map()
	if !ok {
		return ""
	}
	storyRec := requirement.Record(story)
	asA := storyRec.String("asA")
	iWant := storyRec.String("iWant")
	soThat := storyRec.String("soThat")

	var parts []string
	if asA != "" && iWant != "" {
		parts = append(parts, fmt.Sprintf("As %s, I want %s.", asA, iWant))
	}
	if soThat != "" {
		parts = append(parts, fmt.Sprintf("So that %s.", soThat))
	}
	return strings.Join(parts, " ")
}

// writeSummaryBlock emits the compact story/BDD summary table shown under
// every requirement.
func writeSummaryBlock(sb *strings.Builder, rec requirement.Record) {
	story := storySummary(rec)
	bdd := bddSummary(rec)
	if story == "" && bdd == "" {
		return
	}
	if story == "" {
		story = "—"
	}
	if bdd == "" {
		bdd = "—"
	}
	sb.WriteString("| Story | BDD |\n|---|---|\n")
	fmt.Fprintf(sb, "| %s | %s |\n\n", cell(story), cell(bdd))
}

func storySummary(rec requirement.Record) string {
	story, ok := requirement.ValueOf(rec["story"]).Map()
	if !ok {
		return ""
	}
	storyRec := requirement.Record(story)
	var lines []string
	if v := storyRec.String("asA"); v != "" {
		lines = append(lines, "As a: "+v)
	}
	if v := storyRec.String("iWant"); v != "" {
		lines = append(lines, "I want: "+v)
	}
	if v := storyRec.String("soThat"); v != "" {
		lines = append(lines, "So that: "+v)
	}
	return strings.Join(lines, "\n")
}

func bddSummary(rec requirement.Record) string {
	bdd, ok := requirement.ValueOf(rec["bdd"]).Map()
	if !ok {
		return ""
	}
	bddRec := requirement.Record(bdd)
	var lines []string
	if v := bddRec.String("feature"); v != "" {
		lines = append(lines, "Feature: "+v)
	}
	if v := bddRec.String("scenario"); v != "" {
		lines = append(lines, "Scenario: "+v)
	}
	if steps, ok := requirement.ValueOf(bdd["steps"]).Seq(); ok {
		var stepLines []string
		for _, raw := range steps {
			step, ok := requirement.ValueOf(raw).Map()
			if !ok {
				continue
			}
			stepRec := requirement.Record(step)
			keyword := stepRec.String("keyword")
			text := stepRec.String("text")
			if keyword != "" && text != "" {
				stepLines = append(stepLines, keyword+" "+text)
			}
		}
		if len(stepLines) > 0 {
			lines = append(lines, "Steps:")
			lines = append(lines, stepLines...)
		}
	}
	return strings.Join(lines, "\n")
}

// writeEvidence lists a requirement's reference paths (and quotes, when the
// section allows them) as a bullet block.
func writeEvidence(sb *strings.Builder, rec requirement.Record, includeQuotes bool, bib *biblio.Table) {
	refs := rec.ReferenceEntries()
	if len(refs) == 0 {
		return
	}
	wrote := false
	for _, ref := range refs {
		rel := ref.String("relativePath")
		if rel == "" {
			continue
		}
		if !wrote {
			sb.WriteString("Sources:\n\n")
			wrote = true
		}
		line := "- " + rel
		if n, ok := bib.Number(rel); ok {
			line += fmt.Sprintf(" [%d]", n)
		}
		if includeQuotes {
			if quote := ref.String("quote"); quote != "" {
				line += fmt.Sprintf(": %q", quote)
			}
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	if wrote {
		sb.WriteString("\n")
	}
}

// writeOpenQuestions renders the per-document open questions, ordered by
// document key for stable output.
func (t *Transformer) writeOpenQuestions(sb *strings.Builder, docs []*requirement.Document) {
	withQuestions := make([]*requirement.Document, 0, len(docs))
	for _, doc := range docs {
		if len(doc.OpenQuestions) > 0 {
			withQuestions = append(withQuestions, doc)
		}
	}
	if len(withQuestions) == 0 {
		return
	}
	sort.Slice(withQuestions, func(i, j int) bool {
		return withQuestions[i].Key() < withQuestions[j].Key()
	})

	sb.WriteString("## Open questions (by source document)\n\n")
	for _, doc := range withQuestions {
		sb.WriteString("### ")
		sb.WriteString(doc.DisplayTitle())
		sb.WriteString("\n\n")
		for _, q := range doc.OpenQuestions {
			sb.WriteString("- ")
			sb.WriteString(q)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
}

// writeBibliography renders the numbered reference list.
func (t *Transformer) writeBibliography(sb *strings.Builder, bib *biblio.Table) {
	sb.WriteString("## Bibliography\n\n")
	for _, path := range bib.Paths() {
		n, _ := bib.Number(path)
		info := bib.Info(path)

		bits := make([]string, 0, 3)
		if info.Title != "" {
			bits = append(bits, info.Title)
		}
		bits = append(bits, path)
		if info.URL != "" {
			bits = append(bits, info.URL)
		}
		fmt.Fprintf(sb, "[%d] %s\n", n, strings.Join(bits, " — "))
	}
}

// cell flattens multi-line text into one markdown table cell.
func cell(text string) string {
	return strings.ReplaceAll(text, "\n", "<br/>")
}
