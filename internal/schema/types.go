// Package schema defines the structured model extracted from entity
// declarations: fields with their constraints, relationships between
// entities, and the validation result types shared across the pipeline.
package schema

import (
	"fmt"
	"strings"
)

// FieldType represents the closed set of column types a field may declare.
type FieldType int

const (
	TypeString FieldType = iota
	TypeInteger
	TypeFloat
	TypeBoolean
	TypeDateTime
	TypeDate
	TypeTime
	TypeUUID
	TypeJSON
	TypeText
	TypeBytes
	TypeArray
	TypeEnum
)

// String returns the string representation of the field type.
func (t FieldType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeBoolean:
		return "boolean"
	case TypeDateTime:
		return "datetime"
	case TypeDate:
		return "date"
	case TypeTime:
		return "time"
	case TypeUUID:
		return "uuid"
	case TypeJSON:
		return "json"
	case TypeText:
		return "text"
	case TypeBytes:
		return "bytes"
	case TypeArray:
		return "array"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// ParseFieldType converts a string to a FieldType.
func ParseFieldType(s string) (FieldType, error) {
	switch s {
	case "string":
		return TypeString, nil
	case "integer":
		return TypeInteger, nil
	case "float":
		return TypeFloat, nil
	case "boolean":
		return TypeBoolean, nil
	case "datetime":
		return TypeDateTime, nil
	case "date":
		return TypeDate, nil
	case "time":
		return TypeTime, nil
	case "uuid":
		return TypeUUID, nil
	case "json":
		return TypeJSON, nil
	case "text":
		return TypeText, nil
	case "bytes":
		return TypeBytes, nil
	case "array":
		return TypeArray, nil
	case "enum":
		return TypeEnum, nil
	default:
		return 0, fmt.Errorf("unknown field type: %s", s)
	}
}

// ConstraintKind represents the kind of a field constraint.
type ConstraintKind int

const (
	ConstraintPrimaryKey ConstraintKind = iota
	ConstraintForeignKey
	ConstraintNotNull
	ConstraintUnique
	ConstraintCheck
	ConstraintDefault
)

// String returns the string representation of the constraint kind.
func (k ConstraintKind) String() string {
	switch k {
	case ConstraintPrimaryKey:
		return "primary_key"
	case ConstraintForeignKey:
		return "foreign_key"
	case ConstraintNotNull:
		return "not_null"
	case ConstraintUnique:
		return "unique"
	case ConstraintCheck:
		return "check"
	case ConstraintDefault:
		return "default"
	default:
		return "unknown"
	}
}

// Constraint pairs a constraint kind with an optional literal value and, for
// foreign keys, the referenced entity and column. Constraints have no identity
// beyond the field that declares them and are rebuilt on every parse.
type Constraint struct {
	Kind      ConstraintKind
	Value     interface{}
	RefEntity string
	RefColumn string
}

// String renders the constraint for diagnostics.
func (c Constraint) String() string {
	switch c.Kind {
	case ConstraintForeignKey:
		if c.RefColumn != "" {
			return fmt.Sprintf("foreign_key(%s.%s)", c.RefEntity, c.RefColumn)
		}
		return fmt.Sprintf("foreign_key(%s)", c.RefEntity)
	case ConstraintDefault:
		return fmt.Sprintf("default(%v)", c.Value)
	default:
		return c.Kind.String()
	}
}

// FieldDefinition represents one declared attribute of an entity.
// It is constructed once per discovered field and immutable thereafter.
type FieldDefinition struct {
	Name         string
	Type         FieldType
	IsPrimaryKey bool
	IsForeignKey bool
	IsNullable   bool
	IsUnique     bool
	DefaultValue interface{}

	// Type refinement metadata.
	MaxLength *int
	Precision *int
	Scale     *int

	// Foreign key target, set when IsForeignKey is true.
	RefEntity string
	RefColumn string

	// Declared enum values, set for TypeEnum fields.
	EnumValues []string

	// Declaration line, for validator diagnostics.
	Line int
}

// NewFieldDefinition constructs a field definition, enforcing that a primary
// key is never nullable.
func NewFieldDefinition(name string, typ FieldType) *FieldDefinition {
	return &FieldDefinition{Name: name, Type: typ}
}

// SetPrimaryKey marks the field as the primary key and clears nullability.
func (f *FieldDefinition) SetPrimaryKey() {
	f.IsPrimaryKey = true
	f.IsNullable = false
}

// SetNullable marks the field nullable. Primary keys stay non-nullable.
func (f *FieldDefinition) SetNullable() {
	if f.IsPrimaryKey {
		return
	}
	f.IsNullable = true
}

// SetReferences marks the field as a foreign key to entity.column.
func (f *FieldDefinition) SetReferences(entity, column string) {
	f.IsForeignKey = true
	f.RefEntity = entity
	f.RefColumn = column
}

// Constraints returns the derived constraint list in the fixed order
// primary_key, foreign_key, not_null, unique, default. The order is part of
// the output contract: rendered diagrams must be byte-identical across runs.
func (f *FieldDefinition) Constraints() []Constraint {
	constraints := make([]Constraint, 0, 4)
	if f.IsPrimaryKey {
		constraints = append(constraints, Constraint{Kind: ConstraintPrimaryKey})
	}
	if f.IsForeignKey {
		constraints = append(constraints, Constraint{
			Kind:      ConstraintForeignKey,
			RefEntity: f.RefEntity,
			RefColumn: f.RefColumn,
		})
	}
	if !f.IsNullable && !f.IsPrimaryKey {
		constraints = append(constraints, Constraint{Kind: ConstraintNotNull})
	}
	if f.IsUnique {
		constraints = append(constraints, Constraint{Kind: ConstraintUnique})
	}
	if f.DefaultValue != nil {
		constraints = append(constraints, Constraint{Kind: ConstraintDefault, Value: f.DefaultValue})
	}
	return constraints
}

// TypeToken renders the field type with its refinement parameters, e.g.
// string(255) or float(10,2).
func (f *FieldDefinition) TypeToken() string {
	s := f.Type.String()
	if f.MaxLength != nil {
		return fmt.Sprintf("%s(%d)", s, *f.MaxLength)
	}
	if f.Precision != nil {
		if f.Scale != nil {
			return fmt.Sprintf("%s(%d,%d)", s, *f.Precision, *f.Scale)
		}
		return fmt.Sprintf("%s(%d)", s, *f.Precision)
	}
	return s
}

// ModelMetadata represents one discovered table-backed entity. It owns its
// fields and relationships exclusively; relationship-backed attributes are
// excluded from Fields.
type ModelMetadata struct {
	Name          string
	TableName     string
	Fields        []*FieldDefinition
	Relationships []*RelationshipDefinition
	FilePath      string
	Line          int
}

// NewModelMetadata creates a model with the table name derived from the
// entity name unless overridden by an explicit TableName declaration.
func NewModelMetadata(name string) *ModelMetadata {
	return &ModelMetadata{
		Name:      name,
		TableName: ToSnakeCase(name),
	}
}

// Field returns the field with the given name, or nil.
func (m *ModelMetadata) Field(name string) *FieldDefinition {
	for _, f := range m.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Relationship returns the relationship declared under the given attribute
// name, or nil.
func (m *ModelMetadata) Relationship(name string) *RelationshipDefinition {
	for _, r := range m.Relationships {
		if r.FieldName == name {
			return r
		}
	}
	return nil
}

// PrimaryKeys returns all fields flagged as primary key, in declaration order.
func (m *ModelMetadata) PrimaryKeys() []*FieldDefinition {
	var pks []*FieldDefinition
	for _, f := range m.Fields {
		if f.IsPrimaryKey {
			pks = append(pks, f)
		}
	}
	return pks
}

// ToSnakeCase converts an entity name to its default table name.
func ToSnakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && r >= 'A' && r <= 'Z' {
			prev := runes[i-1]
			if prev >= 'a' && prev <= 'z' {
				b.WriteRune('_')
			} else if i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z' && prev >= 'A' && prev <= 'Z' {
				b.WriteRune('_')
			}
		}
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
