// Package field provides the attribute constructors of the erdmap
// declaration DSL. Each constructor starts a builder chain; the chain is what
// discovery recognizes syntactically, and the descriptor is what the chain
// accumulates for tooling that does compile the declarations.
package field

// Descriptor holds the accumulated state of a field declaration.
type Descriptor struct {
	Name       string
	Type       string
	PrimaryKey bool
	Unique     bool
	Optional   bool
	Default    interface{}
	MaxLen     *int
	Precision  *int
	Scale      *int
	RefEntity  string
	RefColumn  string
	Values     []string
}

// Builder wraps a descriptor and exposes the chainable modifiers.
type Builder struct {
	desc *Descriptor
}

func newBuilder(name, typ string) *Builder {
	return &Builder{desc: &Descriptor{Name: name, Type: typ}}
}

// String declares a bounded text attribute.
func String(name string) *Builder { return newBuilder(name, "string") }

// Text declares an unbounded text attribute.
func Text(name string) *Builder { return newBuilder(name, "text") }

// Int declares an integer attribute.
func Int(name string) *Builder { return newBuilder(name, "integer") }

// Float declares a floating-point attribute.
func Float(name string) *Builder { return newBuilder(name, "float") }

// Bool declares a boolean attribute.
func Bool(name string) *Builder { return newBuilder(name, "boolean") }

// DateTime declares a timestamp attribute.
func DateTime(name string) *Builder { return newBuilder(name, "datetime") }

// Date declares a date attribute.
func Date(name string) *Builder { return newBuilder(name, "date") }

// Time declares a time-of-day attribute.
func Time(name string) *Builder { return newBuilder(name, "time") }

// UUID declares a uuid attribute.
func UUID(name string) *Builder { return newBuilder(name, "uuid") }

// JSON declares a json attribute.
func JSON(name string) *Builder { return newBuilder(name, "json") }

// Bytes declares a binary attribute.
func Bytes(name string) *Builder { return newBuilder(name, "bytes") }

// Array declares an array attribute.
func Array(name string) *Builder { return newBuilder(name, "array") }

// Enum declares an enum attribute; declare its members with Values.
func Enum(name string) *Builder { return newBuilder(name, "enum") }

// PrimaryKey marks the field as the entity's primary key.
func (b *Builder) PrimaryKey() *Builder {
	b.desc.PrimaryKey = true
	return b
}

// Unique adds a uniqueness constraint.
func (b *Builder) Unique() *Builder {
	b.desc.Unique = true
	return b
}

// Optional marks the field nullable.
func (b *Builder) Optional() *Builder {
	b.desc.Optional = true
	return b
}

// Default sets the default value literal.
func (b *Builder) Default(v interface{}) *Builder {
	b.desc.Default = v
	return b
}

// MaxLen bounds the length of a text field.
func (b *Builder) MaxLen(n int) *Builder {
	b.desc.MaxLen = &n
	return b
}

// Precision sets numeric precision and scale.
func (b *Builder) Precision(precision, scale int) *Builder {
	b.desc.Precision = &precision
	b.desc.Scale = &scale
	return b
}

// References declares a foreign key to entity.column.
func (b *Builder) References(entity, column string) *Builder {
	b.desc.RefEntity = entity
	b.desc.RefColumn = column
	return b
}

// Values declares the members of an enum field.
func (b *Builder) Values(values ...string) *Builder {
	b.desc.Values = values
	return b
}

// Descriptor returns the accumulated field descriptor.
func (b *Builder) Descriptor() *Descriptor {
	return b.desc
}
