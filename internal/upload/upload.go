// Package upload stores product images on local disk.
package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("image too large")
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Store saves images under Dir and serves them back as "uploads/<name>"
type Store struct {
	dir      string
	maxBytes int64
	now      func() time.Time
	newID    func() string
}

func NewStore(dir string, maxBytes int64) *Store {
	return &Store{
		dir:      dir,
		maxBytes: maxBytes,
		now:      time.Now,
		newID:    func() string { return uuid.New().String()[:8] },
	}
}

// Dir is the directory served under /uploads
func (s *Store) Dir() string { return s.dir }

// Allowed reports whether filename has an accepted image extension
func Allowed(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// SanitizeFilename strips path components and anything outside [A-Za-z0-9._-]
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// Save writes r as a file named after the uploader, the upload time and a
// random suffix, and returns the image path stored on the product. An
// existing file is never overwritten.
func (s *Store) Save(username, filename string, size int64, r io.Reader) (string, error) {
	if !Allowed(filename) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Ext(filename))
	}
	if size > s.maxBytes {
		return "", ErrTooLarge
	}

	name := SanitizeFilename(fmt.Sprintf("%s_%d_%s_%s", username, s.now().UTC().Unix(), s.newID(), filename))
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	path := filepath.Join(s.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", name, err)
	}

	// the declared size can lie; read one byte past the limit to catch it
	n, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > s.maxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		os.Remove(path)
		return "", err
	}

	return "uploads/" + name, nil
}

// Remove deletes an image previously returned by Save. Missing files are ignored.
func (s *Store) Remove(imagePath string) error {
	name := filepath.Base(strings.TrimPrefix(imagePath, "uploads/"))
	if name == "." || name == "/" {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}
	return nil
}
