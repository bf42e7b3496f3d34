package commands

import (
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erdmap/erdmap/internal/cli/config"
	"github.com/erdmap/erdmap/internal/mermaid"
)

// NewWatchCommand creates the watch command: regenerate the diagram whenever
// a declaration file under the models path changes.
func NewWatchCommand() *cobra.Command {
	var (
		modelsPath string
		outputPath string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the models path and regenerate the diagram on change",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return exitWith(ExitFailure, err)
			}
			if modelsPath == "" {
				modelsPath = cfg.ModelsPath
			}
			if outputPath == "" {
				outputPath = cfg.OutputPath
			}

			logger := newLogger(verbose)
			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return exitWith(ExitFailure, fmt.Errorf("failed to create file watcher: %w", err))
			}
			defer watcher.Close()

			if err := addWatchDirs(watcher, modelsPath); err != nil {
				return exitWith(ExitBadInput, err)
			}

			regenerate := func() {
				gen := mermaid.New(
					mermaid.WithModelsPath(modelsPath),
					mermaid.WithOutputPath(outputPath),
					mermaid.WithLogger(logger),
				)
				content, err := gen.GenerateERD()
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "generate failed: %v\n", err)
					return
				}
				if err := gen.Write(content); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "write failed: %v\n", err)
					return
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Regenerated %s\n", outputPath)
			}

			regenerate()
			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s\n", modelsPath)

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

			// Bursts of events collapse into one regeneration.
			var debounce *time.Timer
			pending := make(chan struct{}, 1)
			for {
				select {
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if !strings.HasSuffix(event.Name, ".go") || strings.HasSuffix(event.Name, "_test.go") {
						continue
					}
					if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
						continue
					}
					logger.Debug("file changed", zap.String("path", event.Name))
					if debounce != nil {
						debounce.Stop()
					}
					debounce = time.AfterFunc(200*time.Millisecond, func() {
						select {
						case pending <- struct{}{}:
						default:
						}
					})
				case <-pending:
					regenerate()
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)
				case <-stop:
					return nil
				}
			}
		},
	}

	cmd.Flags().StringVar(&modelsPath, "models-path", "", "root of the analyzed source tree")
	cmd.Flags().StringVar(&outputPath, "output-path", "", "diagram destination file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	return cmd
}

// addWatchDirs registers the models path and every subdirectory with the
// watcher, mirroring discovery's walk rules.
func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		name := entry.Name()
		if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor") {
			return fs.SkipDir
		}
		return watcher.Add(path)
	})
}
