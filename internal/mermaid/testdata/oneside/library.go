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
	}
}

func (Author) Edges() []schema.Edge {
	return []schema.Edge{
		edge.OneToMany("books", Book{}).BackPopulates("author"),
	}
}

type Book struct {
	schema.Entity
}

func (Book) Fields() []schema.Field {
	return []schema.Field{
		field.UUID("id").PrimaryKey(),
	}
}

func (Book) Edges() []schema.Edge {
	// The inverse declaration names no back_populates of its own; pairing
	// relies on Author's side alone.
	return []schema.Edge{
		edge.ManyToOne("author", Author{}),
	}
}
