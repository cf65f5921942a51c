package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/brdgen/config"
)

const testTaxonomy = `{
	"sections": [
		{"id": "BRD-01", "number": 1, "title": "Business Requirements",
		 "match": [{"field": "kind", "op": "eq", "value": "Business"}]},
		{"id": "BRD-99", "number": 99, "title": "Unclassified",
		 "match": [{"field": "id", "op": "exists", "value": true}]}
	],
	"assignmentPolicy": {"firstMatchWins": true, "unassignedSectionId": "BRD-99"}
}`

const testDocument = `{
	"sourceDocument": {"title": "Billing", "relativePath": "SourceMaterial/billing.md"},
	"requirements": [
		{"id": "BIL-1", "kind": "Business", "statement": "Invoices are issued monthly."}
	]
}`

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunBuild_WritesDocument(t *testing.T) {
	dir := t.TempDir()
	taxPath := writeTestFile(t, dir, "sections.json", testTaxonomy)
	docPath := writeTestFile(t, dir, "billing.requirements.json", testDocument)
	outPath := filepath.Join(dir, "out", "requirements.md")

	cfg := config.DefaultConfig()
	cfg.Taxonomy.Path = taxPath
	cfg.Output.Path = outPath
	cfg.Output.Title = "Test Requirements"

	require.NoError(t, runBuild(cfg, []string{docPath}))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "# Test Requirements")
	assert.Contains(t, out, "## 1. Business Requirements")
	assert.Contains(t, out, "Invoices are issued monthly. [BIL-1] [1]")
	assert.Contains(t, out, "[1] Billing — SourceMaterial/billing.md")
}

func TestRunBuild_MissingTaxonomy(t *testing.T) {
	dir := t.TempDir()
	docPath := writeTestFile(t, dir, "doc.json", testDocument)

	cfg := config.DefaultConfig()
	cfg.Taxonomy.Path = filepath.Join(dir, "missing.json")
	cfg.Output.Path = filepath.Join(dir, "out.md")

	assert.Error(t, runBuild(cfg, []string{docPath}))
}

func TestRunBuild_MissingDocument(t *testing.T) {
	dir := t.TempDir()
	taxPath := writeTestFile(t, dir, "sections.json", testTaxonomy)

	cfg := config.DefaultConfig()
	cfg.Taxonomy.Path = taxPath
	cfg.Output.Path = filepath.Join(dir, "out.md")

	assert.Error(t, runBuild(cfg, []string{filepath.Join(dir, "missing.json")}))
}

func TestResolveConfig_FlagOverrides(t *testing.T) {
	flags := &buildFlags{
		taxonomyPath:         "custom/sections.json",
		outputPath:           "custom/out.md",
		title:                "Custom Title",
		includeOpenQuestions: true,
	}

	cfg, err := resolveConfig(flags)
	require.NoError(t, err)

	assert.Equal(t, "custom/sections.json", cfg.Taxonomy.Path)
	assert.Equal(t, "custom/out.md", cfg.Output.Path)
	assert.Equal(t, "Custom Title", cfg.Output.Title)
	assert.True(t, cfg.Output.IncludeOpenQuestions)
	assert.False(t, cfg.Output.IncludeReferences)
}
