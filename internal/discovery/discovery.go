// Package discovery turns a filesystem location into structured entity
// metadata. It walks the tree for eligible declaration files, statically
// parses each one, and cross-resolves bidirectional relationship pairs.
// The analyzed source is never compiled or executed.
package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/erdmap/erdmap/internal/schema"
)

// entityMarker is the cheap eligibility pre-filter: files that cannot contain
// a table-backed entity declaration are skipped without parsing.
const entityMarker = "schema.Entity"

// Discovery discovers entity declarations under a root path. Each run
// constructs a fresh instance; there is no cross-run state.
type Discovery struct {
	root        string
	logger      *zap.Logger
	diagnostics []schema.ValidationError
}

// Option configures a Discovery.
type Option func(*Discovery)

// WithLogger attaches a logger; the default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Discovery) { d.logger = logger }
}

// New creates a Discovery rooted at the given path. The root may be a
// directory or a single declaration file.
func New(root string, opts ...Option) *Discovery {
	d := &Discovery{
		root:   root,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Diagnostics returns the findings accumulated during discovery: parse
// errors for skipped files and dangling inverse references, in discovery
// order.
func (d *Discovery) Diagnostics() []schema.ValidationError {
	out := make([]schema.ValidationError, len(d.diagnostics))
	copy(out, d.diagnostics)
	return out
}

// DiscoverModelFiles returns every file under the root that is eligible to
// contain entity declarations, in lexical walk order. A root that matches
// nothing yields an empty list, not an error; only root-level I/O failures
// (missing path, permission) are returned.
func (d *Discovery) DiscoverModelFiles() ([]string, error) {
	info, err := os.Stat(d.root)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		ok, err := eligible(d.root)
		if err != nil {
			return nil, err
		}
		if ok {
			return []string{d.root}, nil
		}
		return []string{}, nil
	}

	files := []string{}
	err = filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == d.root {
				return err
			}
			// An unreadable subtree is skipped, not fatal.
			d.logger.Warn("skipping unreadable path", zap.String("path", path), zap.Error(err))
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			name := entry.Name()
			if path != d.root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor") {
				return fs.SkipDir
			}
			return nil
		}
		ok, err := eligible(path)
		if err != nil {
			d.logger.Warn("skipping unreadable file", zap.String("path", path), zap.Error(err))
			return nil
		}
		if ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	d.logger.Debug("discovered model files", zap.Int("count", len(files)))
	return files, nil
}

// eligible reports whether a file can contain entity declarations: a non-test
// Go file carrying the table-backed marker.
func eligible(path string) (bool, error) {
	if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
		return false, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return strings.Contains(string(content), entityMarker), nil
}

// DiscoverAllModels composes file discovery and per-file extraction. A file
// that fails to parse is reported as a warning diagnostic and excluded; the
// remaining tree is still discovered. Entities keep declaration order within
// each file.
func (d *Discovery) DiscoverAllModels() (map[string][]*schema.ModelMetadata, error) {
	files, err := d.DiscoverModelFiles()
	if err != nil {
		return nil, err
	}

	all := make(map[string][]*schema.ModelMetadata, len(files))
	for _, path := range files {
		models, err := d.ExtractModelClasses(path)
		if err != nil {
			d.logger.Warn("skipping malformed file", zap.String("path", path), zap.Error(err))
			line := schema.NoLine
			if pe, ok := err.(*ParseError); ok && pe.Line > 0 {
				line = pe.Line
			}
			d.diagnostics = append(d.diagnostics, schema.ValidationError{
				Message:    err.Error(),
				Severity:   schema.SeverityWarning,
				FilePath:   path,
				LineNumber: line,
			})
			continue
		}
		all[path] = models
	}
	return all, nil
}

// Order flattens a discovery result into the stable rendering order: files
// sorted by path, entities in declaration order within each file. Repeated
// runs over an unchanged tree therefore always see the same sequence.
func Order(all map[string][]*schema.ModelMetadata) []*schema.ModelMetadata {
	paths := make([]string, 0, len(all))
	for path := range all {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var ordered []*schema.ModelMetadata
	for _, path := range paths {
		ordered = append(ordered, all[path]...)
	}
	return ordered
}

// ResolveBidirectional matches every relationship carrying a back_populates
// reference against the inverse attribute on its target entity, flags both
// ends bidirectional, and links the pair through Inverse so one declaring side
// is enough. The match uses a field-name index per entity, keeping
// the pass linear in the relationship count. Unmatched references are
// recorded as warning diagnostics; they never fail discovery.
func (d *Discovery) ResolveBidirectional(all map[string][]*schema.ModelMetadata) map[string][]*schema.RelationshipDefinition {
	byEntity := make(map[string][]*schema.RelationshipDefinition)
	index := make(map[string]map[string]*schema.RelationshipDefinition)
	ordered := Order(all)

	for _, model := range ordered {
		byEntity[model.Name] = model.Relationships
		fieldIndex := make(map[string]*schema.RelationshipDefinition, len(model.Relationships))
		for _, rel := range model.Relationships {
			if _, exists := fieldIndex[rel.FieldName]; !exists {
				fieldIndex[rel.FieldName] = rel
			}
		}
		index[model.Name] = fieldIndex
	}

	for _, model := range ordered {
		for _, rel := range model.Relationships {
			if rel.BackPopulates == "" {
				continue
			}
			inverse := index[rel.ToEntity][rel.BackPopulates]
			if inverse != nil && inverse.ToEntity == rel.FromEntity {
				rel.IsBidirectional = true
				inverse.IsBidirectional = true
				rel.Inverse = inverse
				inverse.Inverse = rel
				continue
			}
			d.diagnostics = append(d.diagnostics, schema.ValidationError{
				Message: "dangling inverse reference: " + rel.FromEntity + "." + rel.FieldName +
					" back-populates " + rel.ToEntity + "." + rel.BackPopulates + ", which does not exist",
				Severity:   schema.SeverityWarning,
				FilePath:   model.FilePath,
				LineNumber: rel.Line,
			})
		}
	}

	return byEntity
}
