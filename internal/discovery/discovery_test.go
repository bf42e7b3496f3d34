package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erdmap/erdmap/internal/schema"
)

func TestDiscoverModelFiles(t *testing.T) {
	d := New(filepath.Join("testdata", "valid"))
	files, err := d.DiscoverModelFiles()
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join("testdata", "valid", "blog.go"), files[0])
	assert.Equal(t, filepath.Join("testdata", "valid", "extra.go"), files[1])
}

func TestDiscoverModelFilesNoEntities(t *testing.T) {
	d := New(filepath.Join("testdata", "plain"))
	files, err := d.DiscoverModelFiles()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDiscoverModelFilesSingleFile(t *testing.T) {
	d := New(filepath.Join("testdata", "valid", "blog.go"))
	files, err := d.DiscoverModelFiles()
	require.NoError(t, err)
	require.Len(t, files, 1)

	// A single file without the marker is not an error, just empty.
	d = New(filepath.Join("testdata", "plain", "util.go"))
	files, err = d.DiscoverModelFiles()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDiscoverModelFilesMissingRoot(t *testing.T) {
	d := New(filepath.Join("testdata", "does-not-exist"))
	_, err := d.DiscoverModelFiles()
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestDiscoverModelFilesSkipsHiddenAndVendor(t *testing.T) {
	root := t.TempDir()
	decl := []byte(`package models

import "github.com/erdmap/erdmap/schema"

type Thing struct {
	schema.Entity
}
`)
	for _, dir := range []string{"models", ".git", "_gen", "vendor"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, dir, "thing.go"), decl, 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "models", "thing_test.go"), decl, 0o644))

	d := New(root)
	files, err := d.DiscoverModelFiles()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(root, "models", "thing.go"), files[0])
}

func TestExtractModelClasses(t *testing.T) {
	d := New(filepath.Join("testdata", "valid"))
	models, err := d.ExtractModelClasses(filepath.Join("testdata", "valid", "blog.go"))
	require.NoError(t, err)
	require.Len(t, models, 2)

	user := models[0]
	assert.Equal(t, "User", user.Name)
	assert.Equal(t, "user", user.TableName)
	assert.Greater(t, user.Line, 0)
	require.Len(t, user.Fields, 4)

	id := user.Fields[0]
	assert.Equal(t, "id", id.Name)
	assert.Equal(t, schema.TypeUUID, id.Type)
	assert.True(t, id.IsPrimaryKey)
	assert.False(t, id.IsNullable)

	email := user.Fields[1]
	assert.True(t, email.IsUnique)
	require.NotNil(t, email.MaxLength)
	assert.Equal(t, 255, *email.MaxLength)

	name := user.Fields[2]
	assert.True(t, name.IsNullable)
	assert.Equal(t, "anonymous", name.DefaultValue)

	require.Len(t, user.Relationships, 1)
	items := user.Relationships[0]
	assert.Equal(t, schema.OneToMany, items.Type)
	assert.Equal(t, "Item", items.ToEntity)
	assert.Equal(t, "owner", items.BackPopulates)
	assert.True(t, items.CascadeDelete)

	item := models[1]
	assert.Equal(t, "Item", item.Name)
	assert.Equal(t, "listings", item.TableName, "TableName declaration must win over the derived name")

	ownerID := item.Field("owner_id")
	require.NotNil(t, ownerID)
	assert.True(t, ownerID.IsForeignKey)
	assert.Equal(t, "User", ownerID.RefEntity)
	assert.Equal(t, "id", ownerID.RefColumn)

	price := item.Field("price")
	require.NotNil(t, price)
	require.NotNil(t, price.Precision)
	require.NotNil(t, price.Scale)
	assert.Equal(t, 10, *price.Precision)
	assert.Equal(t, 2, *price.Scale)

	status := item.Field("status")
	require.NotNil(t, status)
	assert.Equal(t, schema.TypeEnum, status.Type)
	assert.Equal(t, []string{"draft", "live", "sold"}, status.EnumValues)
	assert.Equal(t, "draft", status.DefaultValue)
}

func TestExtractSkipsPlainValueTypes(t *testing.T) {
	d := New(filepath.Join("testdata", "valid"))
	models, err := d.ExtractModelClasses(filepath.Join("testdata", "valid", "extra.go"))
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "Tag", models[0].Name)
}

func TestExtractMalformedFile(t *testing.T) {
	d := New(filepath.Join("testdata", "broken"))
	_, err := d.ExtractModelClasses(filepath.Join("testdata", "broken", "broken.go"))
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Greater(t, pe.Line, 0)
}

func TestExtractUnknownConstructor(t *testing.T) {
	d := New(filepath.Join("testdata", "broken"))
	_, err := d.ExtractModelClasses(filepath.Join("testdata", "broken", "grammar.go"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field.Decimal")
}

func TestDiscoverAllModelsIsolatesMalformedFiles(t *testing.T) {
	d := New(filepath.Join("testdata", "broken"))
	all, err := d.DiscoverAllModels()
	require.NoError(t, err)

	// Only the well-formed file contributes models.
	require.Len(t, all, 1)
	models := all[filepath.Join("testdata", "broken", "ok.go")]
	require.Len(t, models, 1)
	assert.Equal(t, "Note", models[0].Name)

	// One warning per skipped file, never an aborted run, each anchored to
	// the file it came from.
	diags := d.Diagnostics()
	require.Len(t, diags, 2)
	for _, diag := range diags {
		assert.Equal(t, schema.SeverityWarning, diag.Severity)
	}
	assert.Equal(t, filepath.Join("testdata", "broken", "broken.go"), diags[0].FilePath)
	assert.Equal(t, filepath.Join("testdata", "broken", "grammar.go"), diags[1].FilePath)
}

func TestOrder(t *testing.T) {
	a := schema.NewModelMetadata("Alpha")
	b := schema.NewModelMetadata("Beta")
	c := schema.NewModelMetadata("Gamma")
	all := map[string][]*schema.ModelMetadata{
		"z.go": {c},
		"a.go": {a, b},
	}
	ordered := Order(all)
	require.Len(t, ordered, 3)
	assert.Equal(t, []*schema.ModelMetadata{a, b, c}, ordered)
}

func TestResolveBidirectional(t *testing.T) {
	d := New(filepath.Join("testdata", "valid"))
	all, err := d.DiscoverAllModels()
	require.NoError(t, err)

	byEntity := d.ResolveBidirectional(all)
	require.Empty(t, d.Diagnostics())

	userRels := byEntity["User"]
	require.Len(t, userRels, 1)
	assert.True(t, userRels[0].IsBidirectional)

	itemRels := byEntity["Item"]
	require.Len(t, itemRels, 1)
	assert.True(t, itemRels[0].IsBidirectional)

	// The pair is linked through Inverse in both directions.
	assert.Same(t, itemRels[0], userRels[0].Inverse)
	assert.Same(t, userRels[0], itemRels[0].Inverse)

	// Tag's many-to-many has no back_populates: unidirectional, no finding.
	tagRels := byEntity["Tag"]
	require.Len(t, tagRels, 1)
	assert.False(t, tagRels[0].IsBidirectional)
}

func TestResolveBidirectionalDangling(t *testing.T) {
	d := New(filepath.Join("testdata", "dangling"))
	all, err := d.DiscoverAllModels()
	require.NoError(t, err)

	byEntity := d.ResolveBidirectional(all)

	require.Len(t, byEntity["Author"], 1)
	assert.False(t, byEntity["Author"][0].IsBidirectional)
	assert.Nil(t, byEntity["Author"][0].Inverse)
	require.Len(t, byEntity["Book"], 1)
	assert.False(t, byEntity["Book"][0].IsBidirectional)

	diags := d.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, schema.SeverityWarning, diags[0].Severity)
	assert.Equal(t, filepath.Join("testdata", "dangling", "library.go"), diags[0].FilePath)
	assert.Contains(t, diags[0].Message, "Author.books")
	assert.Contains(t, diags[0].Message, "Book.writer")
}

func TestParseErrorFormat(t *testing.T) {
	err := &ParseError{Path: "models/user.go", Line: 12, Msg: "unexpected token"}
	assert.Equal(t, "models/user.go:12: unexpected token", err.Error())
}
