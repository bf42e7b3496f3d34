package mermaid

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Write persists the diagram atomically: the content goes to a uniquely named
// temporary file in the destination directory, which is then renamed over the
// output path. Concurrent writers each produce a complete file and the last
// rename wins; a reader never observes a torn write, and a crash mid-write
// leaves the previous output intact.
func (g *Generator) Write(content string) error {
	dir := filepath.Dir(g.outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// The uuid suffix keeps concurrent invocations from clobbering each
	// other's temporary file before the rename.
	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%s", filepath.Base(g.outputPath), uuid.NewString()))
	if err := os.WriteFile(tmpPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write temporary diagram file: %w", err)
	}

	if err := os.Rename(tmpPath, g.outputPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename diagram file: %w", err)
	}

	g.logger.Debug("wrote diagram", zap.String("path", g.outputPath), zap.Int("bytes", len(content)))
	return nil
}

// Backup copies the current output file to <output>.bak. A missing output is
// not an error; there is simply nothing to back up.
func (g *Generator) Backup() error {
	src, err := os.Open(g.outputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer src.Close()

	dst, err := os.Create(g.outputPath + ".bak")
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}
	return dst.Close()
}
