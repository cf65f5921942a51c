package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/c360studio/brdgen/biblio"
	"github.com/c360studio/brdgen/classify"
	"github.com/c360studio/brdgen/config"
	"github.com/c360studio/brdgen/render"
	"github.com/c360studio/brdgen/requirement"
	"github.com/c360studio/brdgen/taxonomy"
)

// buildFlags carries the build command's flag overrides on top of the
// layered config.
type buildFlags struct {
	configPath           string
	taxonomyPath         string
	outputPath           string
	title                string
	includeReferences    bool
	includeOpenQuestions bool
}

func buildCmd() *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "build [requirement files...]",
		Short: "Classify requirement files and write the markdown document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(&flags)
			if err != nil {
				return err
			}
			return runBuild(cfg, args)
		},
	}

	bindBuildFlags(cmd, &flags)
	return cmd
}

func bindBuildFlags(cmd *cobra.Command, flags *buildFlags) {
	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().StringVar(&flags.taxonomyPath, "taxonomy", "", "Taxonomy configuration file (JSON)")
	cmd.Flags().StringVarP(&flags.outputPath, "output", "o", "", "Output markdown path (default: stdout)")
	cmd.Flags().StringVar(&flags.title, "title", "", "Document title")
	cmd.Flags().BoolVar(&flags.includeReferences, "include-references", false, "Include reference evidence blocks")
	cmd.Flags().BoolVar(&flags.includeOpenQuestions, "include-open-questions", false, "Include open-questions section")
}

// resolveConfig layers flag overrides over the loaded configuration.
func resolveConfig(flags *buildFlags) (*config.Config, error) {
	cfg, err := config.NewLoader(slog.Default()).Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags.taxonomyPath != "" {
		cfg.Taxonomy.Path = flags.taxonomyPath
	}
	if flags.outputPath != "" {
		cfg.Output.Path = flags.outputPath
	}
	if flags.title != "" {
		cfg.Output.Title = flags.title
	}
	if flags.includeReferences {
		cfg.Output.IncludeReferences = true
	}
	if flags.includeOpenQuestions {
		cfg.Output.IncludeOpenQuestions = true
	}
	return cfg, nil
}

// runBuild executes one full classification and render pass.
func runBuild(cfg *config.Config, files []string) error {
	tax, err := taxonomy.Load(cfg.Taxonomy.Path)
	if err != nil {
		return err
	}
	if n := tax.MalformedRules(); n > 0 {
		slog.Warn("Taxonomy contains malformed match rules; they will never match",
			slog.String("path", cfg.Taxonomy.Path),
			slog.Int("count", n))
	}

	docs, err := requirement.LoadFiles(files)
	if err != nil {
		return err
	}

	idx := classify.BuildIndex(docs, tax)
	bib := biblio.Build(idx, docs)

	slog.Info("Classified requirements",
		slog.Int("documents", len(docs)),
		slog.Int("requirements", idx.Total()),
		slog.Int("sources", len(bib.Paths())))

	transformer := render.NewTransformer(render.Options{
		Title:                cfg.Output.Title,
		IncludeReferences:    cfg.Output.IncludeReferences,
		IncludeOpenQuestions: cfg.Output.IncludeOpenQuestions,
	})
	markdown := transformer.Transform(tax, idx, bib, docs)

	return writeOutput(cfg.Output.Path, markdown)
}

func writeOutput(path, markdown string) error {
	if path == "" {
		_, err := fmt.Print(markdown)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	slog.Info("Wrote document", slog.String("path", path))
	return nil
}
