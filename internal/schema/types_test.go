package schema

import "testing"

func TestFieldTypeRoundTrip(t *testing.T) {
	names := []string{
		"string", "integer", "float", "boolean", "datetime", "date", "time",
		"uuid", "json", "text", "bytes", "array", "enum",
	}
	for _, name := range names {
		typ, err := ParseFieldType(name)
		if err != nil {
			t.Fatalf("ParseFieldType(%q): %v", name, err)
		}
		if typ.String() != name {
			t.Errorf("round trip mismatch: %q -> %q", name, typ.String())
		}
	}

	if _, err := ParseFieldType("blob"); err == nil {
		t.Error("expected error for unknown field type")
	}
}

func TestPrimaryKeyNeverNullable(t *testing.T) {
	f := NewFieldDefinition("id", TypeUUID)
	f.SetNullable()
	f.SetPrimaryKey()
	if f.IsNullable {
		t.Error("primary key must not be nullable")
	}

	// Declaring nullability after the primary key must not stick either.
	f.SetNullable()
	if f.IsNullable {
		t.Error("SetNullable must not override a primary key")
	}
}

func TestConstraintOrder(t *testing.T) {
	f := NewFieldDefinition("owner_id", TypeUUID)
	f.SetReferences("User", "id")
	f.IsUnique = true
	f.DefaultValue = "none"

	kinds := []ConstraintKind{}
	for _, c := range f.Constraints() {
		kinds = append(kinds, c.Kind)
	}
	want := []ConstraintKind{ConstraintForeignKey, ConstraintNotNull, ConstraintUnique, ConstraintDefault}
	if len(kinds) != len(want) {
		t.Fatalf("got %d constraints, want %d", len(kinds), len(want))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("constraint %d: got %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestConstraintOrderPrimaryKeyFirst(t *testing.T) {
	f := NewFieldDefinition("id", TypeUUID)
	f.SetPrimaryKey()
	f.IsUnique = true

	constraints := f.Constraints()
	if len(constraints) != 2 {
		t.Fatalf("got %d constraints, want 2", len(constraints))
	}
	if constraints[0].Kind != ConstraintPrimaryKey {
		t.Errorf("first constraint is %s, want primary_key", constraints[0].Kind)
	}
	if constraints[1].Kind != ConstraintUnique {
		t.Errorf("second constraint is %s, want unique", constraints[1].Kind)
	}
}

func TestTypeToken(t *testing.T) {
	length := 255
	f := NewFieldDefinition("email", TypeString)
	f.MaxLength = &length
	if got := f.TypeToken(); got != "string(255)" {
		t.Errorf("got %q, want string(255)", got)
	}

	precision, scale := 10, 2
	price := NewFieldDefinition("price", TypeFloat)
	price.Precision = &precision
	price.Scale = &scale
	if got := price.TypeToken(); got != "float(10,2)" {
		t.Errorf("got %q, want float(10,2)", got)
	}

	plain := NewFieldDefinition("note", TypeText)
	if got := plain.TypeToken(); got != "text" {
		t.Errorf("got %q, want text", got)
	}
}

func TestCardinalityPairs(t *testing.T) {
	tests := []struct {
		typ  RelationshipType
		from Cardinality
		to   Cardinality
	}{
		{OneToOne, ZeroOrOne, ZeroOrOne},
		{OneToMany, One, ZeroOrMore},
		{ManyToOne, ZeroOrMore, One},
		{ManyToMany, ZeroOrMore, ZeroOrMore},
	}
	for _, tt := range tests {
		from, to := tt.typ.Cardinalities()
		if from != tt.from || to != tt.to {
			t.Errorf("%s: got (%s, %s), want (%s, %s)", tt.typ, from, to, tt.from, tt.to)
		}
	}
}

func TestCardinalitiesConsistent(t *testing.T) {
	r := NewRelationshipDefinition("User", "Item", "items", OneToMany)
	if !r.CardinalitiesConsistent() {
		t.Error("freshly constructed relationship must be consistent")
	}

	r.ToCardinality = One
	if r.CardinalitiesConsistent() {
		t.Error("tampered cardinality pair must be inconsistent")
	}
}

func TestDisplayLabel(t *testing.T) {
	r := NewRelationshipDefinition("User", "Item", "items", OneToMany)
	if got := r.DisplayLabel(); got != "items" {
		t.Errorf("got %q, want items", got)
	}

	r.BackPopulates = "owner"
	if got := r.DisplayLabel(); got != "items -> owner" {
		t.Errorf("got %q, want %q", got, "items -> owner")
	}

	r.Label = "owns"
	if got := r.DisplayLabel(); got != "owns" {
		t.Errorf("explicit label must win, got %q", got)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"User":      "user",
		"OrderItem": "order_item",
		"HTTPRoute": "http_route",
		"simple":    "simple",
		"APIKey":    "api_key",
	}
	for in, want := range tests {
		if got := ToSnakeCase(in); got != want {
			t.Errorf("ToSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestModelMetadataLookups(t *testing.T) {
	m := NewModelMetadata("OrderItem")
	if m.TableName != "order_item" {
		t.Errorf("derived table name = %q, want order_item", m.TableName)
	}

	id := NewFieldDefinition("id", TypeUUID)
	id.SetPrimaryKey()
	m.Fields = append(m.Fields, id, NewFieldDefinition("qty", TypeInteger))
	m.Relationships = append(m.Relationships,
		NewRelationshipDefinition("OrderItem", "Order", "order", ManyToOne))

	if m.Field("qty") == nil || m.Field("missing") != nil {
		t.Error("Field lookup broken")
	}
	if m.Relationship("order") == nil || m.Relationship("missing") != nil {
		t.Error("Relationship lookup broken")
	}
	if pks := m.PrimaryKeys(); len(pks) != 1 || pks[0].Name != "id" {
		t.Errorf("PrimaryKeys = %v", pks)
	}
}
