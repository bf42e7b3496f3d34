// Package commands implements the erdmap command tree. The commands are thin
// shells over the generator and validator: they parse arguments, surface
// findings, and map failures to process exit codes.
package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version information - set at build time
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Exit codes of the erdmap CLI.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitBadInput   = 2
	ExitOutputPrep = 3
)

// exitError carries an explicit process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit code %d", e.code)
	}
	return e.err.Error()
}

func exitWith(code int, err error) error {
	return &exitError{code: code, err: err}
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "erdmap",
		Short: "Entity-relationship diagram generator for erdmap schema declarations",
		Long: `erdmap statically discovers entity declarations in a source tree,
builds the cross-file relationship graph, and renders a deterministic
Mermaid ER diagram, validated against a configurable rule set.

The analyzed source is parsed, never compiled or executed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewGenerateCommand())
	rootCmd.AddCommand(NewValidateCommand())
	rootCmd.AddCommand(NewHookCommand())
	rootCmd.AddCommand(NewCICommand())
	rootCmd.AddCommand(NewWatchCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			titleColor := color.New(color.FgCyan, color.Bold)
			titleColor.Print("erdmap version: ")
			fmt.Println(Version)
			titleColor.Print("Git commit: ")
			fmt.Println(GitCommit)
			titleColor.Print("Build date: ")
			fmt.Println(BuildDate)
		},
	}
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			if exit.err != nil {
				color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "Error: %v\n", exit.err)
			}
			return exit.code
		}
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitFailure
	}
	return ExitOK
}

// newLogger builds the command logger: a development logger under --verbose,
// a no-op logger otherwise.
func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
