// Package attach copies user-selected images into the managed attachment
// directory. Tasks refer to attachments by file name only.
package attach

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tgienger/todo/internal/logger"
)

// maxSuffix bounds the search for a free name
const maxSuffix = 10000

// Resolver owns the attachment directory
type Resolver struct {
	dir string
}

// New returns a Resolver for dir, creating the directory if it is missing
func New(dir string) (*Resolver, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create attachment directory %s: %w", dir, err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return &Resolver{dir: abs}, nil
}

// Dir returns the managed directory
func (r *Resolver) Dir() string {
	return r.dir
}

// Attach copies src into the managed directory and returns the stored file
// name. Name clashes get a numeric suffix: photo.png, photo_1.png, photo_2.png.
// A file that already lives in the directory is returned unchanged.
func (r *Resolver) Attach(src string) (string, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", errors.New("no file selected")
	}
	if r.Managed(src) {
		return filepath.Base(src), nil
	}
	abs, err := filepath.Abs(src)
	if err != nil {
		return "", err
	}

	in, err := os.Open(abs)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", src)
	}

	name, out, err := r.create(filepath.Base(abs))
	if err != nil {
		return "", err
	}

	dest := filepath.Join(r.dir, name)
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return "", fmt.Errorf("failed to copy image: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("failed to copy image: %w", err)
	}

	logger.Info("attached %s as %s", src, name)
	return name, nil
}

// Managed reports whether src is an existing file inside the attachment
// directory; Attach leaves such files in place.
func (r *Resolver) Managed(src string) bool {
	abs, err := filepath.Abs(strings.TrimSpace(src))
	if err != nil || filepath.Dir(abs) != r.dir {
		return false
	}
	info, err := os.Stat(abs)
	return err == nil && !info.IsDir()
}

// Remove deletes a stored attachment. A missing file is not an error.
func (r *Resolver) Remove(name string) error {
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("invalid attachment name %q", name)
	}
	err := os.Remove(filepath.Join(r.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove attachment: %w", err)
	}
	logger.Debug("removed attachment %s", name)
	return nil
}

// create opens the first free candidate name exclusively
func (r *Resolver) create(base string) (string, *os.File, error) {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for i := 0; i < maxSuffix; i++ {
		name := base
		if i > 0 {
			name = fmt.Sprintf("%s_%d%s", stem, i, ext)
		}
		f, err := os.OpenFile(filepath.Join(r.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return name, f, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", nil, fmt.Errorf("failed to create attachment: %w", err)
		}
	}
	return "", nil, fmt.Errorf("no free name for %s", base)
}

// Resolve returns the full path of a stored attachment and whether it exists
func (r *Resolver) Resolve(name string) (string, bool) {
	if name == "" || name != filepath.Base(name) {
		return "", false
	}
	path := filepath.Join(r.dir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return path, false
	}
	return path, true
}
