package models

import (
	"github.com/erdmap/erdmap/schema"
	"github.com/erdmap/erdmap/schema/field"
)

type Invoice struct {
	schema.Entity
}

func (Invoice) Fields() []schema.Field {
	return []schema.Field{
		field.Decimal("total"),
	}
}
