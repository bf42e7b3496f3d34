package models

import (
	"github.com/erdmap/erdmap/schema"
	"github.com/erdmap/erdmap/schema/edge"
	"github.com/erdmap/erdmap/schema/field"
)

type Author struct {
	schema.Entity
}

func (Author) Fields() []schema.Field {
	return []schema.Field{
		field.UUID("id").PrimaryKey(),
		field.String("name"),
	}
}

func (Author) Edges() []schema.Edge {
	return []schema.Edge{
		// Book declares the inverse under "author", not "writer".
		edge.OneToMany("books", Book{}).BackPopulates("writer"),
	}
}

type Book struct {
	schema.Entity
}

func (Book) Fields() []schema.Field {
	return []schema.Field{
		field.UUID("id").PrimaryKey(),
		field.String("title"),
	}
}

func (Book) Edges() []schema.Edge {
	return []schema.Edge{
		edge.ManyToOne("author", Author{}),
	}
}
