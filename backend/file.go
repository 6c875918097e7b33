package backend

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File persists each slot as one file under Dir. Writes go through a
// temp-file rename so a crash mid-write never leaves a torn slot behind.
type File struct {
	dir string
}

var _ Backend = (*File)(nil)

// NewFile creates the directory if needed.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "contentcache")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("backend: create dir: %w", err)
	}
	return &File{dir: dir}, nil
}

func (f *File) GetItem(_ context.Context, slot string) (string, bool, error) {
	b, err := os.ReadFile(f.path(slot))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(b), true, nil
}

func (f *File) SetItem(_ context.Context, slot, value string) error {
	path := f.path(slot)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (f *File) RemoveItem(_ context.Context, slot string) error {
	err := os.Remove(f.path(slot))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (f *File) Close(context.Context) error { return nil }

// path maps a slot to a filename: the sanitized slot for readability plus
// a short hash so distinct slots never collide after sanitizing.
func (f *File) path(slot string) string {
	sum := sha256.Sum256([]byte(slot))
	name := fmt.Sprintf("%s-%x.snap", sanitize(slot), sum[:8])
	return filepath.Join(f.dir, name)
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, s)
}
