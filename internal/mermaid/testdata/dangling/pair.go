package models

import (
	"github.com/erdmap/erdmap/schema"
	"github.com/erdmap/erdmap/schema/edge"
	"github.com/erdmap/erdmap/schema/field"
)

type Team struct {
	schema.Entity
}

func (Team) Fields() []schema.Field {
	return []schema.Field{
		field.UUID("id").PrimaryKey(),
	}
}

func (Team) Edges() []schema.Edge {
	return []schema.Edge{
		// Player declares no "squad" attribute.
		edge.OneToMany("players", Player{}).BackPopulates("squad"),
	}
}

type Player struct {
	schema.Entity
}

func (Player) Fields() []schema.Field {
	return []schema.Field{
		field.UUID("id").PrimaryKey(),
	}
}

func (Player) Edges() []schema.Edge {
	return nil
}
