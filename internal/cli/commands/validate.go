package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/erdmap/erdmap/internal/cli/config"
	"github.com/erdmap/erdmap/internal/cli/ui"
	"github.com/erdmap/erdmap/internal/discovery"
	"github.com/erdmap/erdmap/internal/mermaid"
	"github.com/erdmap/erdmap/internal/validate"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	var (
		modelsPath string
		modeName   string
		maxErrors  int
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "validate [diagram-file]",
		Short: "Validate entity declarations and an optional rendered diagram",
		Long: `Runs the full rule set over the discovered model set. With a diagram file
argument the file's text is checked instead of a freshly rendered diagram;
without one the diagram is rendered in memory for the end-to-end checks.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return exitWith(ExitFailure, err)
			}
			if modelsPath == "" {
				modelsPath = cfg.ModelsPath
			}
			if modeName == "" {
				modeName = cfg.Validation.Mode
			}
			if maxErrors == 0 {
				maxErrors = cfg.Validation.MaxErrors
			}

			mode, err := validate.ParseMode(modeName)
			if err != nil {
				return exitWith(ExitFailure, err)
			}

			gen := mermaid.New(
				mermaid.WithModelsPath(modelsPath),
				mermaid.WithLogger(newLogger(verbose)),
			)
			diagram, err := gen.GenerateERD()
			if err != nil {
				if os.IsNotExist(err) || os.IsPermission(err) {
					return exitWith(ExitBadInput, fmt.Errorf("cannot read models path %s: %w", modelsPath, err))
				}
				return exitWith(ExitFailure, err)
			}
			if len(args) == 1 {
				content, err := os.ReadFile(args[0])
				if err != nil {
					return exitWith(ExitBadInput, err)
				}
				diagram = string(content)
			}

			validator := validate.New(validate.Config{
				Mode:           mode,
				MaxErrors:      maxErrors,
				TimeoutSeconds: cfg.Validation.TimeoutSeconds,
			})
			result := validator.ValidateForCLI(validate.Input{
				Models:      gen.Models(),
				Diagram:     diagram,
				Diagnostics: gen.Diagnostics(),
			})

			ui.PrintFindings(cmd.OutOrStdout(), result.Errors)
			ui.PrintSummary(cmd.OutOrStdout(), result)
			if !result.IsValid {
				return exitWith(ExitFailure, nil)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&modelsPath, "models-path", "", "root of the analyzed source tree")
	cmd.Flags().StringVar(&modeName, "mode", "", "validation mode: strict, permissive, or report")
	cmd.Flags().IntVar(&maxErrors, "max-errors", 0, "maximum number of findings to accumulate")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	return cmd
}

// NewCICommand creates the ci command: the CI/CD validation entry point.
// A critical finding fails the build.
func NewCICommand() *cobra.Command {
	var (
		modelsPath string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "ci",
		Short: "Validate for CI: any critical finding fails the build",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return exitWith(ExitFailure, err)
			}
			if modelsPath == "" {
				modelsPath = cfg.ModelsPath
			}

			gen := mermaid.New(
				mermaid.WithModelsPath(modelsPath),
				mermaid.WithLogger(newLogger(verbose)),
			)
			diagram, err := gen.GenerateERD()
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
			result := validator.ValidateForCICD(validate.Input{
				Models:      gen.Models(),
				Diagram:     diagram,
				Diagnostics: gen.Diagnostics(),
			})

			ui.PrintFindings(cmd.OutOrStdout(), result.Errors)
			ui.PrintSummary(cmd.OutOrStdout(), result)
			if !result.IsValid {
				return exitWith(ExitFailure, nil)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&modelsPath, "models-path", "", "root of the analyzed source tree")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	return cmd
}

// eligibleForHook reports whether any of the given files can contain entity
// declarations.
func eligibleForHook(files []string) bool {
	for _, file := range files {
		d := discovery.New(file)
		matches, err := d.DiscoverModelFiles()
		if err == nil && len(matches) > 0 {
			return true
		}
	}
	return false
}
