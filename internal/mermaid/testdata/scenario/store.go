package models

import (
	"github.com/erdmap/erdmap/schema"
	"github.com/erdmap/erdmap/schema/edge"
	"github.com/erdmap/erdmap/schema/field"
)

type User struct {
	schema.Entity
}

func (User) Fields() []schema.Field {
	return []schema.Field{
		field.UUID("id").PrimaryKey(),
		field.String("email").Unique().MaxLen(255),
		field.String("name").Optional().Default("anonymous"),
	}
}

func (User) Edges() []schema.Edge {
	return []schema.Edge{
		edge.OneToMany("items", Item{}).BackPopulates("owner"),
	}
}

type Item struct {
	schema.Entity
}

func (Item) Fields() []schema.Field {
	return []schema.Field{
		field.UUID("id").PrimaryKey(),
		field.UUID("owner_id").References("User", "id"),
		field.Float("price").Precision(10, 2),
	}
}

func (Item) Edges() []schema.Edge {
	return []schema.Edge{
		edge.ManyToOne("owner", User{}).BackPopulates("items"),
	}
}
