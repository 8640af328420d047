package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// file is the persisted half of an entity: the folder it lives in plus the
// lazily rendered (file name, content) pair. An entity is logically in one
// of two states: unrendered (fields only) or rendered (name and content
// cached). render and parse are the only transitions; setting fields never
// retroactively invalidates a cached name, callers reset it explicitly.
type file struct {
	folder     string
	fileName   string // "" until rendered or assigned
	content    string
	hasContent bool
}

// Folder returns the folder the entity persists into. Empty for detached
// entities.
func (f *file) Folder() string { return f.folder }

// path joins folder and file name. Callers ensure the name is rendered.
func (f *file) path() string { return filepath.Join(f.folder, f.fileName) }

// invalidateFileName drops the cached file name so the next access renders
// it from current fields.
func (f *file) invalidateFileName() { f.fileName = "" }

// deleteFile removes the backing file if present; missing files are a no-op.
// In-memory references held elsewhere stay valid, callers repoint them.
func (f *file) deleteFile() error {
	if f.fileName == "" {
		return nil
	}

	err := os.Remove(f.path())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting %s: %w", f.path(), err)
	}

	return nil
}

// writeFile persists content to folder/name atomically.
func writeFile(folder, name, content string) error {
	err := atomic.WriteFile(filepath.Join(folder, name), strings.NewReader(content))
	if err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Join(folder, name), err)
	}

	return nil
}

// fileExists reports whether path names an existing file.
func fileExists(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}

// sameFile compares two persisted triples. Entity equality is defined over
// (folder, file name, content), not parsed fields: two entities with
// different free-text content differ even when their identity fields match.
// The rendered flag takes part so an unrendered entity never equals one
// rendered to empty content.
func sameFile(a, b *file) bool {
	return a.folder == b.folder && a.fileName == b.fileName &&
		a.hasContent == b.hasContent && a.content == b.content
}

// appendMissing appends entities from src that dst does not already own.
// Identity is entity identity (pointer), so repeating a merge never
// duplicates ownership.
func appendMissing[T comparable](dst, src []T) []T {
	for _, item := range src {
		found := false

		for _, existing := range dst {
			if existing == item {
				found = true

				break
			}
		}

		if !found {
			dst = append(dst, item)
		}
	}

	return dst
}
