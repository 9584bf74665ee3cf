// Package storage keeps uploaded images in a local directory.
//
// Files are written to a staging directory first and renamed into place once
// fully received, so a reader of the upload directory never observes a
// partially written image.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	stagingDirName = ".staging"
	dirMode        = 0o755
	fileMode       = 0o644
)

var (
	// ErrInvalidName is returned for names that are empty or contain path elements.
	ErrInvalidName = errors.New("invalid file name")
	// ErrLimitExceeded is returned when the stream is longer than the allowed size.
	ErrLimitExceeded = errors.New("file exceeds size limit")
	// ErrExists is returned when a file with the same name is already stored.
	ErrExists = errors.New("file already exists")
)

// Local stores files flat under a root directory.
type Local struct {
	root string
}

// NewLocal creates the root and staging directories if needed.
func NewLocal(root string) (*Local, error) {
	root = filepath.Clean(root)
	if err := os.MkdirAll(filepath.Join(root, stagingDirName), dirMode); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &Local{root: root}, nil
}

// Root returns the directory files are stored in.
func (l *Local) Root() string {
	return l.root
}

// Save streams r into a new file called name. At most limit bytes are
// accepted; a longer stream leaves nothing behind and returns ErrLimitExceeded.
func (l *Local) Save(ctx context.Context, name string, r io.Reader, limit int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	final, err := l.resolve(name)
	if err != nil {
		return 0, err
	}
	if _, err := os.Stat(final); err == nil {
		return 0, fmt.Errorf("%w: %s", ErrExists, name)
	}

	tmp, err := os.CreateTemp(filepath.Join(l.root, stagingDirName), "upload-*")
	if err != nil {
		return 0, fmt.Errorf("create staging file: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	n, err := io.Copy(tmp, io.LimitReader(r, limit+1))
	if err != nil {
		return 0, fmt.Errorf("write %s: %w", name, err)
	}
	if n > limit {
		return 0, fmt.Errorf("%w: %s", ErrLimitExceeded, name)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		return 0, fmt.Errorf("chmod %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		return 0, fmt.Errorf("sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		return 0, fmt.Errorf("commit %s: %w", name, err)
	}
	committed = true
	return n, nil
}

// Remove makes sure name is absent. A file that is already gone is not an error.
func (l *Local) Remove(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := l.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

// Exists reports whether name is stored.
func (l *Local) Exists(name string) (bool, error) {
	path, err := l.resolve(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// resolve rejects anything that is not a plain file name inside root.
func (l *Local) resolve(name string) (string, error) {
	if name == "" || name == "." || name == ".." || name == stagingDirName ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(l.root, name), nil
}
