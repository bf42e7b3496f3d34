package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/erdmap/erdmap/internal/cli/config"
	"github.com/erdmap/erdmap/internal/cli/ui"
	"github.com/erdmap/erdmap/internal/mermaid"
	"github.com/erdmap/erdmap/internal/validate"
)

// NewHookCommand creates the hook command: the pre-commit integration.
// The hook receives the staged files, regenerates the diagram when any of
// them can carry entity declarations, and rewrites the output file. Staging
// the regenerated file is the surrounding VCS tooling's job.
func NewHookCommand() *cobra.Command {
	var (
		modelsPath string
		outputPath string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "hook [staged-files...]",
		Short: "Pre-commit entry point: regenerate when staged entity declarations changed",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 && !eligibleForHook(args) {
				return nil
			}

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

			gen := mermaid.New(
				mermaid.WithModelsPath(modelsPath),
				mermaid.WithOutputPath(outputPath),
				mermaid.WithLogger(newLogger(verbose)),
			)
			content, err := gen.GenerateERD()
			if err != nil {
				if os.IsNotExist(err) || os.IsPermission(err) {
					return exitWith(ExitBadInput, fmt.Errorf("cannot read models path %s: %w", modelsPath, err))
				}
				return exitWith(ExitFailure, err)
			}

			mode, err := validate.ParseMode(cfg.Validation.Mode)
			if err != nil {
				return exitWith(ExitFailure, err)
			}
			validator := validate.New(validate.Config{
				Mode:           mode,
				MaxErrors:      cfg.Validation.MaxErrors,
				TimeoutSeconds: cfg.Validation.TimeoutSeconds,
			})
			result := validator.ValidateForPreCommit(validate.Input{
				Models:      gen.Models(),
				Diagram:     content,
				Diagnostics: gen.Diagnostics(),
			})
			ui.PrintFindings(cmd.ErrOrStderr(), result.Errors)
			if !result.IsValid {
				ui.PrintSummary(cmd.ErrOrStderr(), result)
				return exitWith(ExitFailure, nil)
			}

			// Unchanged output means nothing to stage; diagram generation is
			// idempotent, so a byte comparison is sufficient.
			previous, err := os.ReadFile(outputPath)
			if err == nil && string(previous) == content {
				return nil
			}

			if err := gen.Write(content); err != nil {
				return exitWith(ExitOutputPrep, err)
			}
			// A changed diagram fails the hook so the commit is retried with
			// the regenerated file staged.
			return exitWith(ExitFailure,
				fmt.Errorf("regenerated %s; stage it and retry the commit", outputPath))
		},
	}

	cmd.Flags().StringVar(&modelsPath, "models-path", "", "root of the analyzed source tree")
	cmd.Flags().StringVar(&outputPath, "output-path", "", "diagram destination file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	return cmd
}
