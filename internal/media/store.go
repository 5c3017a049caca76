// Package media stores uploaded movie posters on local disk. Uploads
// are decoded before being written so that non-image payloads are
// rejected up front, mirroring what an image form field validates.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNotImage is returned when the uploaded payload does not decode as
// a supported image format. Handlers translate it into HTTP 400.
var ErrNotImage = errors.New("payload is not a valid image")

// maxPosterBytes bounds how much of an upload is read into memory.
const maxPosterBytes = 10 << 20 // 10 MiB

// Store writes posters under a root directory, one subdirectory per
// movie. The zero value is not usable; use NewStore.
type Store struct {
	root string
}

// NewStore creates the root directory if needed and returns a Store.
func NewStore(root string) (*Store, error) {
	if root == "" {
		return nil, errors.New("media: empty root dir")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

// Root returns the root directory posters are stored under.
func (s *Store) Root() string { return s.root }

// SavePoster validates and stores an uploaded poster for a movie. It
// returns the path of the stored file relative to the store root, e.g.
// "movies/7/550e8400-….jpg". The extension is derived from the decoded
// format, not from the client-supplied filename.
func (s *Store) SavePoster(movieID uint64, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxPosterBytes+1))
	if err != nil {
		return "", err
	}
	if len(data) > maxPosterBytes {
		return "", fmt.Errorf("media: poster exceeds %d bytes", maxPosterBytes)
	}

	_, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", ErrNotImage
	}
	ext := "." + format
	if format == "jpeg" {
		ext = ".jpg"
	}

	rel := filepath.Join("movies", fmt.Sprintf("%d", movieID), uuid.NewString()+ext)
	abs := filepath.Join(s.root, rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return "", err
	}
	// URL-style separators in the stored path, independent of the OS.
	return filepath.ToSlash(rel), nil
}

// Remove deletes a previously stored poster. Missing files are not an
// error so replacing a poster stays idempotent.
func (s *Store) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	// Refuse to escape the root.
	clean := filepath.Clean(filepath.FromSlash(rel))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("media: invalid path %q", rel)
	}
	err := os.Remove(filepath.Join(s.root, clean))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Exists reports whether a stored poster is present on disk.
func (s *Store) Exists(rel string) bool {
	if rel == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(s.root, filepath.FromSlash(rel)))
	return err == nil
}
