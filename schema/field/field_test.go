package field

import "testing"

func TestBuilderAccumulates(t *testing.T) {
	d := String("email").Unique().MaxLen(255).Descriptor()
	if d.Name != "email" || d.Type != "string" {
		t.Fatalf("descriptor = %+v", d)
	}
	if !d.Unique {
		t.Error("Unique not recorded")
	}
	if d.MaxLen == nil || *d.MaxLen != 255 {
		t.Error("MaxLen not recorded")
	}

	d = Float("price").Precision(10, 2).Descriptor()
	if d.Precision == nil || *d.Precision != 10 || d.Scale == nil || *d.Scale != 2 {
		t.Errorf("precision/scale = %+v", d)
	}

	d = Enum("status").Values("draft", "live").Default("draft").Descriptor()
	if len(d.Values) != 2 || d.Default != "draft" {
		t.Errorf("enum descriptor = %+v", d)
	}

	d = UUID("owner_id").References("User", "id").Descriptor()
	if d.RefEntity != "User" || d.RefColumn != "id" {
		t.Errorf("references = %+v", d)
	}
}
