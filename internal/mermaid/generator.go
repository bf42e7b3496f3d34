// Package mermaid renders discovered entity metadata as a Mermaid ER diagram
// and persists it with an atomic write. Rendering is deterministic: the same
// source tree always produces a byte-identical diagram.
package mermaid

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/erdmap/erdmap/internal/discovery"
	"github.com/erdmap/erdmap/internal/schema"
)

// Defaults used when the caller configures neither path.
const (
	DefaultModelsPath = "."
	DefaultOutputPath = "erd.mmd"
)

// DiagramHeader is the opening token every generated diagram starts with.
const DiagramHeader = "erDiagram"

// Generator orchestrates discovery, relationship indexing, and rendering.
// Each invocation constructs fresh discovery state; nothing is cached across
// runs.
type Generator struct {
	modelsPath  string
	outputPath  string
	logger      *zap.Logger
	models      []*schema.ModelMetadata
	diagnostics []schema.ValidationError
}

// Option configures a Generator.
type Option func(*Generator)

// WithModelsPath sets the root of the analyzed source tree.
func WithModelsPath(path string) Option {
	return func(g *Generator) {
		if path != "" {
			g.modelsPath = path
		}
	}
}

// WithOutputPath sets the diagram destination.
func WithOutputPath(path string) Option {
	return func(g *Generator) {
		if path != "" {
			g.outputPath = path
		}
	}
}

// WithLogger attaches a logger; the default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// New creates a Generator with the given options applied over the defaults.
func New(opts ...Option) *Generator {
	g := &Generator{
		modelsPath: DefaultModelsPath,
		outputPath: DefaultOutputPath,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ModelsPath returns the configured source root.
func (g *Generator) ModelsPath() string { return g.modelsPath }

// OutputPath returns the configured diagram destination.
func (g *Generator) OutputPath() string { return g.outputPath }

// Models returns the entities of the last GenerateERD call, in rendering
// order.
func (g *Generator) Models() []*schema.ModelMetadata {
	out := make([]*schema.ModelMetadata, len(g.models))
	copy(out, g.models)
	return out
}

// Diagnostics returns the discovery findings of the last GenerateERD call.
func (g *Generator) Diagnostics() []schema.ValidationError {
	out := make([]schema.ValidationError, len(g.diagnostics))
	copy(out, g.diagnostics)
	return out
}

// GenerateERD discovers all entities under the models path, resolves
// bidirectional relationship pairs, and renders the diagram. I/O errors from
// an unreadable models path propagate unwrapped; they are never swallowed and
// no output is written.
func (g *Generator) GenerateERD() (string, error) {
	d := discovery.New(g.modelsPath, discovery.WithLogger(g.logger))
	all, err := d.DiscoverAllModels()
	if err != nil {
		return "", err
	}
	d.ResolveBidirectional(all)
	g.diagnostics = d.Diagnostics()

	models := discovery.Order(all)
	g.models = models
	manager := schema.NewRelationshipManager()
	for _, model := range models {
		for _, rel := range model.Relationships {
			manager.AddRelationship(rel)
		}
	}

	g.logger.Debug("rendering diagram",
		zap.Int("entities", len(models)),
		zap.Int("relationships", manager.Len()))
	return render(models, manager), nil
}

// render produces the diagram text: one block per entity in stable order,
// then one line per relationship with bidirectional pairs collapsed onto the
// first-discovered edge.
func render(models []*schema.ModelMetadata, manager *schema.RelationshipManager) string {
	var b strings.Builder
	b.WriteString(DiagramHeader)
	b.WriteString("\n")

	tables := make(map[string]string, len(models))
	for _, model := range models {
		tables[model.Name] = strings.ToUpper(model.TableName)
	}

	for _, model := range models {
		fmt.Fprintf(&b, "    %s {\n", tables[model.Name])
		for _, field := range model.Fields {
			b.WriteString("        ")
			b.WriteString(renderField(field))
			b.WriteString("\n")
		}
		b.WriteString("    }\n")
	}

	rendered := make(map[*schema.RelationshipDefinition]bool)
	for _, rel := range manager.Edges() {
		// A resolved pair renders once, on the first-discovered side.
		if rel.Inverse != nil && rendered[rel.Inverse] {
			continue
		}
		rendered[rel] = true

		from := tables[rel.FromEntity]
		if from == "" {
			from = strings.ToUpper(schema.ToSnakeCase(rel.FromEntity))
		}
		to := tables[rel.ToEntity]
		if to == "" {
			to = strings.ToUpper(schema.ToSnakeCase(rel.ToEntity))
		}
		fmt.Fprintf(&b, "    %s %s--%s %s : %q\n",
			from,
			leftToken(rel.FromCardinality),
			rightToken(rel.ToCardinality),
			to,
			rel.DisplayLabel())
	}

	return b.String()
}

// renderField renders one attribute line: type token, name, key constraints,
// and the remaining constraints as a quoted comment. Constraint order is
// fixed by FieldDefinition.Constraints.
func renderField(field *schema.FieldDefinition) string {
	parts := []string{field.TypeToken(), field.Name}

	var keys []string
	var notes []string
	for _, c := range field.Constraints() {
		switch c.Kind {
		case schema.ConstraintPrimaryKey:
			keys = append(keys, "PK")
		case schema.ConstraintForeignKey:
			keys = append(keys, "FK")
		case schema.ConstraintUnique:
			keys = append(keys, "UK")
		case schema.ConstraintNotNull:
			notes = append(notes, "not null")
		case schema.ConstraintDefault:
			notes = append(notes, fmt.Sprintf("default: %v", c.Value))
		}
	}

	if len(keys) > 0 {
		parts = append(parts, strings.Join(keys, ","))
	}
	if len(notes) > 0 {
		parts = append(parts, fmt.Sprintf("%q", strings.Join(notes, "; ")))
	}
	return strings.Join(parts, " ")
}

// leftToken maps a cardinality to its left-side Mermaid symbol.
func leftToken(c schema.Cardinality) string {
	switch c {
	case schema.One:
		return "||"
	case schema.ZeroOrOne:
		return "|o"
	case schema.OneOrMore:
		return "}|"
	default:
		return "}o"
	}
}

// rightToken maps a cardinality to its right-side Mermaid symbol.
func rightToken(c schema.Cardinality) string {
	switch c {
	case schema.One:
		return "||"
	case schema.ZeroOrOne:
		return "o|"
	case schema.OneOrMore:
		return "|{"
	default:
		return "o{"
	}
}
