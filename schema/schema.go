// Package schema provides the declaration surface for erdmap entities.
//
// A table-backed entity is a struct that embeds schema.Entity and declares
// its attributes through Fields and Edges methods:
//
//	type User struct {
//	    schema.Entity
//	}
//
//	func (User) Fields() []schema.Field {
//	    return []schema.Field{
//	        field.UUID("id").PrimaryKey(),
//	        field.String("email").Unique(),
//	    }
//	}
//
//	func (User) Edges() []schema.Edge {
//	    return []schema.Edge{
//	        edge.OneToMany("items", Item{}).BackPopulates("owner"),
//	    }
//	}
//
// erdmap discovers these declarations by parsing source text; the analyzed
// package is never compiled or executed. The descriptors exist so that
// declaration files remain valid, vetted Go code.
package schema

import (
	"github.com/erdmap/erdmap/schema/edge"
	"github.com/erdmap/erdmap/schema/field"
)

// Entity is the marker for table-backed entities. Structs that do not embed
// it are plain value types and are ignored by discovery.
type Entity struct{}

// Field is a single attribute declaration.
type Field interface {
	Descriptor() *field.Descriptor
}

// Edge is a single relationship declaration.
type Edge interface {
	Descriptor() *edge.Descriptor
}

// TableNamer overrides the derived snake_case table name. The method body
// must be a single return of a string literal for discovery to honor it.
type TableNamer interface {
	TableName() string
}
