package schema

import "fmt"

// NoLine is the sentinel line number for findings that are not anchored to a
// source location.
const NoLine = -1

// Severity represents the importance tier of a validation finding.
type Severity int

const (
	SeverityCritical Severity = iota
	SeverityWarning
	SeverityInfo
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// ValidationError is a single validation finding. Findings are data, not Go
// errors: only the CLI layer decides how they surface. FilePath anchors the
// finding to the declaration file it came from; empty when the finding has no
// source location, such as diagram-text checks.
type ValidationError struct {
	Message    string
	Severity   Severity
	FilePath   string
	LineNumber int
}

// String formats the finding as file:line — severity — message, omitting the
// parts that are not anchored.
func (e ValidationError) String() string {
	if e.FilePath != "" {
		if e.LineNumber > 0 {
			return fmt.Sprintf("%s:%d — %s — %s", e.FilePath, e.LineNumber, e.Severity, e.Message)
		}
		return fmt.Sprintf("%s — %s — %s", e.FilePath, e.Severity, e.Message)
	}
	if e.LineNumber > 0 {
		return fmt.Sprintf("line %d — %s — %s", e.LineNumber, e.Severity, e.Message)
	}
	return fmt.Sprintf("%s — %s", e.Severity, e.Message)
}

// ValidationResult is the outcome of a validation pass. IsValid is true iff
// no critical finding is present; warnings and infos never fail validation on
// their own.
type ValidationResult struct {
	IsValid bool
	Errors  []ValidationError
}

// CountBySeverity returns the number of findings with the given severity.
func (r *ValidationResult) CountBySeverity(s Severity) int {
	n := 0
	for _, e := range r.Errors {
		if e.Severity == s {
			n++
		}
	}
	return n
}
