package models

import (
	"github.com/erdmap/erdmap/schema"
	"github.com/erdmap/erdmap/schema/edge"
	"github.com/erdmap/erdmap/schema/field"
)

type Tag struct {
	schema.Entity
}

func (Tag) Fields() []schema.Field {
	return []schema.Field{
		field.UUID("id").PrimaryKey(),
		field.String("name").Unique(),
	}
}

func (Tag) Edges() []schema.Edge {
	return []schema.Edge{
		edge.ManyToMany("items", Item{}),
	}
}

// PricingRule is a plain value type: no schema.Entity embed, so discovery
// must skip it even though it lives next to real entities.
type PricingRule struct {
	Multiplier float64
}
