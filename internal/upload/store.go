// Package upload stores listing photos on local disk. Uploaded files
// are renamed to a random unique identifier before storage so the
// original filename never reaches the filesystem.
package upload

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// allowedExtensions whitelists photo file types. Matching is
// case-insensitive on the suffix after the final dot.
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// Store saves uploaded images into a single directory.
type Store struct {
	Dir string
}

// NewStore creates the upload directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{Dir: dir}, nil
}

// AllowedFile reports whether the filename carries one of the accepted
// image extensions.
func AllowedFile(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// UniqueName returns a fresh filename for an upload: a random uuid
// plus the original extension, lowercased. A uuid collision is
// practically impossible, but the existing directory is probed anyway
// and a new id drawn until the name is free.
func (s *Store) UniqueName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	name := uuid.New().String() + ext
	for {
		if _, err := os.Stat(filepath.Join(s.Dir, name)); os.IsNotExist(err) {
			return name
		}
		name = uuid.New().String() + ext
	}
}

// Save writes one multipart upload under a unique name and returns the
// stored filename. The write is synchronous; there is no retry and no
// cleanup of files saved earlier in the same request.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := s.UniqueName(fh.Filename)
	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return name, nil
}

// Path returns the on-disk path for a stored filename. The base name
// is taken first so a crafted filename cannot escape the directory.
func (s *Store) Path(filename string) string {
	return filepath.Join(s.Dir, filepath.Base(filename))
}
