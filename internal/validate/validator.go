// Package validate assesses the structural correctness of a discovered model
// set and its rendered diagram. Findings are returned as data with a severity
// tier; they are never raised as errors.
package validate

import (
	"fmt"
	"strings"

	"github.com/erdmap/erdmap/internal/mermaid"
	"github.com/erdmap/erdmap/internal/schema"
)

// Mode selects how strictly findings are interpreted.
type Mode int

const (
	// ModeStrict escalates warnings to validation failures and stops at the
	// first failing finding.
	ModeStrict Mode = iota
	// ModePermissive accumulates all findings; only criticals fail.
	ModePermissive
	// ModeReport behaves like permissive and exists for read-only reporting
	// callers.
	ModeReport
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeStrict:
		return "strict"
	case ModePermissive:
		return "permissive"
	case ModeReport:
		return "report"
	default:
		return "unknown"
	}
}

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "strict":
		return ModeStrict, nil
	case "permissive":
		return ModePermissive, nil
	case "report":
		return ModeReport, nil
	default:
		return 0, fmt.Errorf("unknown validation mode: %s", s)
	}
}

// DefaultMaxErrors bounds how many findings accumulate outside strict mode.
const DefaultMaxErrors = 100

// Config carries validator settings. TimeoutSeconds is advisory metadata for
// the calling integration; the validator itself never enforces it.
type Config struct {
	Mode           Mode
	MaxErrors      int
	TimeoutSeconds int
}

// Validator runs the rule set over structured models or rendered diagram
// text. Construct one per invocation; it holds no cross-run state.
type Validator struct {
	mode      Mode
	maxErrors int
}

// New creates a Validator from the given config.
func New(cfg Config) *Validator {
	maxErrors := cfg.MaxErrors
	if maxErrors <= 0 {
		maxErrors = DefaultMaxErrors
	}
	return &Validator{mode: cfg.Mode, maxErrors: maxErrors}
}

// Mode returns the configured mode.
func (v *Validator) Mode() Mode { return v.mode }

// ValidateEntities checks that every entity has a non-empty name and at least
// one field.
func (v *Validator) ValidateEntities(models []*schema.ModelMetadata) []schema.ValidationError {
	var findings []schema.ValidationError
	for _, model := range models {
		if model.Name == "" {
			findings = append(findings, critical("entity has an empty name", model.FilePath, model.Line))
			continue
		}
		if len(model.Fields) == 0 {
			findings = append(findings, critical(
				fmt.Sprintf("entity %s has no fields", model.Name), model.FilePath, model.Line))
		}
	}
	return findings
}

// ValidateFields checks that every field has a recognized type and a
// non-empty name unique within its entity.
func (v *Validator) ValidateFields(models []*schema.ModelMetadata) []schema.ValidationError {
	var findings []schema.ValidationError
	for _, model := range models {
		seen := make(map[string]bool, len(model.Fields))
		for _, field := range model.Fields {
			if field.Name == "" {
				findings = append(findings, critical(
					fmt.Sprintf("entity %s declares a field with an empty name", model.Name), model.FilePath, field.Line))
				continue
			}
			if seen[field.Name] {
				findings = append(findings, critical(
					fmt.Sprintf("entity %s declares duplicate field %s", model.Name, field.Name), model.FilePath, field.Line))
			}
			seen[field.Name] = true
			if field.Type.String() == "unknown" {
				findings = append(findings, warning(
					fmt.Sprintf("entity %s field %s has an unrecognized type", model.Name, field.Name), model.FilePath, field.Line))
			}
		}
	}
	return findings
}

// ValidatePrimaryKeys checks that every entity has exactly one primary-key
// field.
func (v *Validator) ValidatePrimaryKeys(models []*schema.ModelMetadata) []schema.ValidationError {
	var findings []schema.ValidationError
	for _, model := range models {
		pks := model.PrimaryKeys()
		switch {
		case len(pks) == 0:
			findings = append(findings, critical(
				fmt.Sprintf("entity %s has no primary key", model.Name), model.FilePath, model.Line))
		case len(pks) > 1:
			findings = append(findings, critical(
				fmt.Sprintf("entity %s has %d primary keys, expected 1", model.Name, len(pks)), model.FilePath, pks[1].Line))
		}
	}
	return findings
}

// ValidateForeignKeys checks that every declared foreign key resolves to a
// known entity and, when a column is named, to an existing field on it.
func (v *Validator) ValidateForeignKeys(models []*schema.ModelMetadata) []schema.ValidationError {
	byName := make(map[string]*schema.ModelMetadata, len(models))
	for _, model := range models {
		byName[model.Name] = model
	}

	var findings []schema.ValidationError
	for _, model := range models {
		for _, field := range model.Fields {
			if !field.IsForeignKey {
				continue
			}
			target, exists := byName[field.RefEntity]
			if !exists {
				findings = append(findings, critical(
					fmt.Sprintf("entity %s field %s references unknown entity %s",
						model.Name, field.Name, field.RefEntity), model.FilePath, field.Line))
				continue
			}
			if field.RefColumn != "" && target.Field(field.RefColumn) == nil {
				findings = append(findings, critical(
					fmt.Sprintf("entity %s field %s references %s.%s, which does not exist",
						model.Name, field.Name, field.RefEntity, field.RefColumn), model.FilePath, field.Line))
			}
		}
	}
	return findings
}

// ValidateRelationships checks cardinality consistency against the fixed
// type-to-cardinality table, rejects duplicate non-inverse attribute names on
// one entity, and surfaces cascade-delete cycles as informational findings.
func (v *Validator) ValidateRelationships(models []*schema.ModelMetadata) []schema.ValidationError {
	var findings []schema.ValidationError
	manager := schema.NewRelationshipManager()

	for _, model := range models {
		seen := make(map[string]bool, len(model.Relationships))
		for _, rel := range model.Relationships {
			manager.AddRelationship(rel)
			if !rel.CardinalitiesConsistent() {
				findings = append(findings, critical(
					fmt.Sprintf("relationship %s.%s: cardinality pair (%s, %s) is inconsistent with type %s",
						rel.FromEntity, rel.FieldName, rel.FromCardinality, rel.ToCardinality, rel.Type), model.FilePath, rel.Line))
			}
			if seen[rel.FieldName] {
				findings = append(findings, critical(
					fmt.Sprintf("entity %s declares duplicate relationship field %s", model.Name, rel.FieldName), model.FilePath, rel.Line))
			}
			seen[rel.FieldName] = true
		}
	}

	for _, cycle := range manager.CascadeCycles() {
		findings = append(findings, schema.ValidationError{
			Message:    "cascade delete cycle: " + strings.Join(cycle, " -> ") + " -> " + cycle[0],
			Severity:   schema.SeverityInfo,
			LineNumber: schema.NoLine,
		})
	}
	return findings
}

// ValidateMermaidSyntax checks the rendered diagram text: it must open with
// the diagram header and every entity block must balance its braces. Line
// numbers are best effort.
func (v *Validator) ValidateMermaidSyntax(text string) []schema.ValidationError {
	var findings []schema.ValidationError

	lines := strings.Split(text, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != mermaid.DiagramHeader {
		findings = append(findings, critical(
			fmt.Sprintf("diagram does not start with %q", mermaid.DiagramHeader), "", 1))
	}

	depth := 0
	lastOpen := schema.NoLine
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasSuffix(trimmed, "{") {
			depth++
			lastOpen = i + 1
		} else if trimmed == "}" {
			depth--
			if depth < 0 {
				findings = append(findings, critical("unmatched closing brace", "", i+1))
				depth = 0
			}
		}
	}
	if depth > 0 {
		findings = append(findings, critical("unclosed entity block", "", lastOpen))
	}
	return findings
}

// Input bundles everything a full validation pass looks at: the structured
// model set, the rendered diagram (optional), and any findings the discovery
// phase already produced, such as dangling inverse references.
type Input struct {
	Models      []*schema.ModelMetadata
	Diagram     string
	Diagnostics []schema.ValidationError
}

// ValidateAll runs every check in fixed order, merges the findings, and
// computes the overall validity. Discovery diagnostics are folded in first;
// the diagram check runs only when text is provided. Calling it twice on the
// same input yields equal results.
func (v *Validator) ValidateAll(in Input) *schema.ValidationResult {
	models := in.Models
	checks := [][]schema.ValidationError{
		in.Diagnostics,
		v.ValidateEntities(models),
		v.ValidateFields(models),
		v.ValidatePrimaryKeys(models),
		v.ValidateForeignKeys(models),
		v.ValidateRelationships(models),
	}
	if in.Diagram != "" {
		checks = append(checks, v.ValidateMermaidSyntax(in.Diagram))
	}

	result := &schema.ValidationResult{IsValid: true}
	for _, batch := range checks {
		for _, finding := range batch {
			if len(result.Errors) >= v.maxErrors {
				return result
			}
			result.Errors = append(result.Errors, finding)
			if v.fails(finding) {
				result.IsValid = false
				if v.mode == ModeStrict {
					return result
				}
			}
		}
	}
	return result
}

// fails reports whether a finding makes the result invalid: criticals always,
// warnings only in strict mode. The recorded severity is never rewritten.
func (v *Validator) fails(finding schema.ValidationError) bool {
	if finding.Severity == schema.SeverityCritical {
		return true
	}
	return v.mode == ModeStrict && finding.Severity == schema.SeverityWarning
}

// ValidateForCLI is the stable entry point for the command-line integration.
func (v *Validator) ValidateForCLI(in Input) *schema.ValidationResult {
	return v.ValidateAll(in)
}

// ValidateForPreCommit is the stable entry point for the pre-commit hook.
func (v *Validator) ValidateForPreCommit(in Input) *schema.ValidationResult {
	return v.ValidateAll(in)
}

// ValidateForCICD is the stable entry point for CI jobs.
func (v *Validator) ValidateForCICD(in Input) *schema.ValidationResult {
	return v.ValidateAll(in)
}

func critical(msg, file string, line int) schema.ValidationError {
	return finding(msg, schema.SeverityCritical, file, line)
}

func warning(msg, file string, line int) schema.ValidationError {
	return finding(msg, schema.SeverityWarning, file, line)
}

func finding(msg string, severity schema.Severity, file string, line int) schema.ValidationError {
	if line == 0 {
		line = schema.NoLine
	}
	return schema.ValidationError{Message: msg, Severity: severity, FilePath: file, LineNumber: line}
}
