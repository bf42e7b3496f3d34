// Package ui formats validation findings and summaries for terminal output.
package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/erdmap/erdmap/internal/schema"
)

// PrintFindings writes every finding as "file:line — severity — message",
// colored by severity. Each finding carries its own source anchor; no finding
// is ever dropped.
func PrintFindings(w io.Writer, findings []schema.ValidationError) {
	for _, finding := range findings {
		severityColor(finding.Severity).Fprintln(w, finding.String())
	}
}

// PrintSummary writes the closing validation summary line.
func PrintSummary(w io.Writer, result *schema.ValidationResult) {
	criticals := result.CountBySeverity(schema.SeverityCritical)
	warnings := result.CountBySeverity(schema.SeverityWarning)
	infos := result.CountBySeverity(schema.SeverityInfo)

	if result.IsValid {
		color.New(color.FgGreen, color.Bold).Fprintf(w, "✓ valid")
	} else {
		color.New(color.FgRed, color.Bold).Fprintf(w, "✗ invalid")
	}
	fmt.Fprintf(w, " — %d critical, %d warning, %d info\n", criticals, warnings, infos)
}

func severityColor(s schema.Severity) *color.Color {
	switch s {
	case schema.SeverityCritical:
		return color.New(color.FgRed)
	case schema.SeverityWarning:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}
