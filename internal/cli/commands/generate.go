package commands

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/erdmap/erdmap/internal/cli/config"
	"github.com/erdmap/erdmap/internal/cli/ui"
	"github.com/erdmap/erdmap/internal/mermaid"
	"github.com/erdmap/erdmap/internal/validate"
)

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	var (
		modelsPath string
		outputPath string
		runChecks  bool
		verbose    bool
		force      bool
		backup     bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the ER diagram from entity declarations",
		Long: `Discovers every table-backed entity under the models path, renders the
Mermaid ER diagram, and writes it atomically to the output path. The same
source tree always produces a byte-identical diagram.`,
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

			diagnostics := gen.Diagnostics()
			ui.PrintFindings(cmd.ErrOrStderr(), diagnostics)

			if runChecks {
				mode, err := validate.ParseMode(cfg.Validation.Mode)
				if err != nil {
					return exitWith(ExitFailure, err)
				}
				validator := validate.New(validate.Config{
					Mode:           mode,
					MaxErrors:      cfg.Validation.MaxErrors,
					TimeoutSeconds: cfg.Validation.TimeoutSeconds,
				})
				result := validator.ValidateForCLI(validate.Input{
					Models:      gen.Models(),
					Diagram:     content,
					Diagnostics: diagnostics,
				})
				ui.PrintFindings(cmd.ErrOrStderr(), result.Errors)
				ui.PrintSummary(cmd.ErrOrStderr(), result)
				if !result.IsValid {
					return exitWith(ExitFailure, fmt.Errorf("validation failed"))
				}
			}

			if err := prepareOutput(outputPath, force, isatty.IsTerminal(os.Stdin.Fd())); err != nil {
				return err
			}
			if backup {
				if err := gen.Backup(); err != nil {
					return exitWith(ExitOutputPrep, fmt.Errorf("cannot back up %s: %w", outputPath, err))
				}
			}
			if err := gen.Write(content); err != nil {
				return exitWith(ExitOutputPrep, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&modelsPath, "models-path", "", "root of the analyzed source tree")
	cmd.Flags().StringVar(&outputPath, "output-path", "", "diagram destination file")
	cmd.Flags().BoolVar(&runChecks, "validate", false, "validate the result after rendering")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing output file without asking")
	cmd.Flags().BoolVar(&backup, "backup", false, "copy the previous output to <output>.bak before writing")
	return cmd
}

// prepareOutput decides whether an existing output file may be replaced.
// Only --force skips the guard; with an interactive terminal it asks, and
// refuses otherwise.
func prepareOutput(outputPath string, force, interactive bool) error {
	if force {
		return nil
	}
	if _, err := os.Stat(outputPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return exitWith(ExitOutputPrep, err)
	}

	if !interactive {
		return exitWith(ExitOutputPrep,
			fmt.Errorf("%s already exists; pass --force to overwrite", outputPath))
	}

	overwrite := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("%s already exists. Overwrite?", outputPath),
	}
	if err := survey.AskOne(prompt, &overwrite); err != nil {
		return exitWith(ExitOutputPrep, err)
	}
	if !overwrite {
		return exitWith(ExitOutputPrep, fmt.Errorf("refusing to overwrite %s", outputPath))
	}
	return nil
}
