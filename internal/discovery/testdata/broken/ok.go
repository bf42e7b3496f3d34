package models

import (
	"github.com/erdmap/erdmap/schema"
	"github.com/erdmap/erdmap/schema/field"
)

type Note struct {
	schema.Entity
}

func (Note) Fields() []schema.Field {
	return []schema.Field{
		field.UUID("id").PrimaryKey(),
		field.Text("body"),
	}
}
