package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/erdmap/erdmap/internal/schema"
)

func TestPrintFindingsKeepsEverything(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = orig }()

	findings := []schema.ValidationError{
		{Message: "a", Severity: schema.SeverityCritical, FilePath: "models/user.go", LineNumber: 12},
		{Message: "b", Severity: schema.SeverityWarning, LineNumber: schema.NoLine},
		{Message: "c", Severity: schema.SeverityInfo, LineNumber: schema.NoLine},
	}

	var buf bytes.Buffer
	PrintFindings(&buf, findings)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "models/user.go:12 — critical — a", lines[0])
	assert.Equal(t, "warning — b", lines[1])
	assert.Equal(t, "info — c", lines[2])
}

func TestPrintSummary(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = orig }()

	var buf bytes.Buffer
	PrintSummary(&buf, &schema.ValidationResult{IsValid: true})
	assert.Equal(t, "✓ valid — 0 critical, 0 warning, 0 info\n", buf.String())

	buf.Reset()
	PrintSummary(&buf, &schema.ValidationResult{
		IsValid: false,
		Errors: []schema.ValidationError{
			{Severity: schema.SeverityCritical},
			{Severity: schema.SeverityWarning},
		},
	})
	assert.Equal(t, "✗ invalid — 1 critical, 1 warning, 0 info\n", buf.String())
}
