package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/c360studio/brdgen/config"
)

// watchDebounce is how long to wait for more changes before rebuilding.
const watchDebounce = 500 * time.Millisecond

func watchCmd() *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "watch [requirement files...]",
		Short: "Rebuild the document whenever inputs change",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(&flags)
			if err != nil {
				return err
			}
			if cfg.Output.Path == "" {
				return fmt.Errorf("watch requires an output path (stdout would interleave rebuilds)")
			}
			return runWatch(cfg, args)
		},
	}

	bindBuildFlags(cmd, &flags)
	return cmd
}

// runWatch builds once, then rebuilds after every debounced change to an
// input file or the taxonomy. Events are watched at the directory level so
// editors that replace files atomically are still seen.
func runWatch(cfg *config.Config, files []string) error {
	if err := runBuild(cfg, files); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	for _, path := range append([]string{cfg.Taxonomy.Path}, files...) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolve watch path: %w", err)
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	slog.Info("Watching for changes",
		slog.Int("files", len(files)),
		slog.String("taxonomy", cfg.Taxonomy.Path))

	var debounce *time.Timer
	rebuild := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !watched[abs] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("Input changed", slog.String("path", event.Name), slog.String("op", event.Op.String()))
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case rebuild <- struct{}{}:
				default:
				}
			})

		case <-rebuild:
			if err := runBuild(cfg, files); err != nil {
				slog.Error("Rebuild failed", slog.String("error", err.Error()))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watch error", slog.String("error", err.Error()))

		case sig := <-sigCh:
			slog.Info("Shutting down", slog.String("signal", sig.String()))
			return nil
		}
	}
}
