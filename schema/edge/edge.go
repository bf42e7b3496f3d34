// Package edge provides the relationship constructors of the erdmap
// declaration DSL. A relationship names the attribute on the declaring entity
// and references the target entity; the inverse attribute is declared with
// BackPopulates so discovery can pair the two declarations.
package edge

import "reflect"

// Descriptor holds the accumulated state of a relationship declaration.
type Descriptor struct {
	Name          string
	Target        string
	Type          string
	BackPopulates string
	CascadeDelete bool
	Label         string
}

// Builder wraps a descriptor and exposes the chainable modifiers.
type Builder struct {
	desc *Descriptor
}

func newBuilder(name string, target interface{}, typ string) *Builder {
	return &Builder{desc: &Descriptor{
		Name:   name,
		Target: targetName(target),
		Type:   typ,
	}}
}

// targetName accepts an entity value (Item{}) or an explicit entity name.
func targetName(target interface{}) string {
	if s, ok := target.(string); ok {
		return s
	}
	t := reflect.TypeOf(target)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}

// OneToOne declares a one-to-one relationship.
func OneToOne(name string, target interface{}) *Builder {
	return newBuilder(name, target, "one_to_one")
}

// OneToMany declares a one-to-many relationship.
func OneToMany(name string, target interface{}) *Builder {
	return newBuilder(name, target, "one_to_many")
}

// ManyToOne declares a many-to-one relationship.
func ManyToOne(name string, target interface{}) *Builder {
	return newBuilder(name, target, "many_to_one")
}

// ManyToMany declares a many-to-many relationship.
func ManyToMany(name string, target interface{}) *Builder {
	return newBuilder(name, target, "many_to_many")
}

// BackPopulates names the inverse attribute on the target entity.
func (b *Builder) BackPopulates(name string) *Builder {
	b.desc.BackPopulates = name
	return b
}

// CascadeDelete propagates deletes across this relationship.
func (b *Builder) CascadeDelete() *Builder {
	b.desc.CascadeDelete = true
	return b
}

// Label overrides the label rendered on the diagram line.
func (b *Builder) Label(label string) *Builder {
	b.desc.Label = label
	return b
}

// Descriptor returns the accumulated edge descriptor.
func (b *Builder) Descriptor() *Descriptor {
	return b.desc
}
