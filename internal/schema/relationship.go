package schema

import "fmt"

// RelationshipType represents the kind of association between two entities.
type RelationshipType int

const (
	OneToOne RelationshipType = iota
	OneToMany
	ManyToOne
	ManyToMany
)

// String returns the string representation of the relationship type.
func (t RelationshipType) String() string {
	switch t {
	case OneToOne:
		return "one_to_one"
	case OneToMany:
		return "one_to_many"
	case ManyToOne:
		return "many_to_one"
	case ManyToMany:
		return "many_to_many"
	default:
		return "unknown"
	}
}

// ParseRelationshipType converts a string to a RelationshipType.
func ParseRelationshipType(s string) (RelationshipType, error) {
	switch s {
	case "one_to_one":
		return OneToOne, nil
	case "one_to_many":
		return OneToMany, nil
	case "many_to_one":
		return ManyToOne, nil
	case "many_to_many":
		return ManyToMany, nil
	default:
		return 0, fmt.Errorf("unknown relationship type: %s", s)
	}
}

// Cardinality represents one side of a relationship.
type Cardinality int

const (
	One Cardinality = iota
	ZeroOrOne
	ZeroOrMore
	OneOrMore
)

// String returns the string representation of the cardinality.
func (c Cardinality) String() string {
	switch c {
	case One:
		return "one"
	case ZeroOrOne:
		return "zero_or_one"
	case ZeroOrMore:
		return "zero_or_more"
	case OneOrMore:
		return "one_or_more"
	default:
		return "unknown"
	}
}

// Cardinalities returns the fixed (from, to) cardinality pair for a
// relationship type. The pairing is an invariant: a RelationshipDefinition
// whose cardinalities disagree with this table is structurally invalid.
func (t RelationshipType) Cardinalities() (from, to Cardinality) {
	switch t {
	case OneToMany:
		return One, ZeroOrMore
	case ManyToOne:
		return ZeroOrMore, One
	case ManyToMany:
		return ZeroOrMore, ZeroOrMore
	default: // OneToOne
		return ZeroOrOne, ZeroOrOne
	}
}

// RelationshipDefinition represents one declared association from a source
// entity to a target entity. It is created during parsing and mutated exactly
// once afterward, by the bidirectional-resolution pass.
type RelationshipDefinition struct {
	FromEntity string
	ToEntity   string

	// FieldName is the attribute name on the source entity.
	FieldName string

	Type            RelationshipType
	FromCardinality Cardinality
	ToCardinality   Cardinality

	// BackPopulates names the inverse attribute on the target entity.
	BackPopulates string

	CascadeDelete   bool
	IsBidirectional bool

	// Inverse links the paired declaration once bidirectional resolution
	// matches both ends. Nil for unidirectional relationships.
	Inverse *RelationshipDefinition

	// Label overrides the rendered relationship label.
	Label string

	// Declaration line, for validator diagnostics.
	Line int
}

// NewRelationshipDefinition constructs a relationship with its cardinality
// pair derived from the relationship type.
func NewRelationshipDefinition(from, to, fieldName string, typ RelationshipType) *RelationshipDefinition {
	r := &RelationshipDefinition{
		FromEntity: from,
		ToEntity:   to,
		FieldName:  fieldName,
		Type:       typ,
	}
	r.FromCardinality, r.ToCardinality = typ.Cardinalities()
	return r
}

// CardinalitiesConsistent reports whether the cardinality pair matches the
// fixed mapping for the relationship type.
func (r *RelationshipDefinition) CardinalitiesConsistent() bool {
	from, to := r.Type.Cardinalities()
	return r.FromCardinality == from && r.ToCardinality == to
}

// DisplayLabel returns the label rendered on the relationship line: the
// explicit label when set, otherwise the field name, suffixed with the
// inverse attribute for bidirectional pairs.
func (r *RelationshipDefinition) DisplayLabel() string {
	if r.Label != "" {
		return r.Label
	}
	if r.BackPopulates != "" {
		return fmt.Sprintf("%s -> %s", r.FieldName, r.BackPopulates)
	}
	return r.FieldName
}
