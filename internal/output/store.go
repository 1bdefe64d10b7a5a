// Package output manages the downloaded-image directory: sanitized
// filenames, raw image writes, and the human-readable metadata sidecar.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/pellucid-labs/framegrab/internal/metadata"
)

var (
	unsafeChars    = regexp.MustCompile(`[^a-zA-Z0-9.\-_]`)
	dashRuns       = regexp.MustCompile(`-+`)
	underscoreWord = strings.NewReplacer("_", " ")
)

const sidecarSeparatorLength = 50

// Store writes capture artifacts into one output directory.
type Store struct {
	dir string
	mu  sync.Mutex
}

// NewStore creates a Store and ensures the directory exists.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("output store: mkdir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the absolute output directory path when resolvable.
func (s *Store) Dir() string {
	if abs, err := filepath.Abs(s.dir); err == nil {
		return abs
	}
	return s.dir
}

// SanitizeName reduces a URL or image id to a safe filename stem.
func SanitizeName(urlOrID string) string {
	if urlOrID == "" {
		return "unknown_image"
	}
	name := unsafeChars.ReplaceAllString(urlOrID, "-")
	name = dashRuns.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	if name == "" {
		return "unknown_image"
	}
	return name
}

// SaveImage writes raw image bytes under the sanitized stem with the given
// extension (".png", ".jpg") and returns the full path.
func (s *Store) SaveImage(stem, ext string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, SanitizeName(stem)+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("output store: write image: %w", err)
	}
	return path, nil
}

// SaveSidecar writes the metadata text file next to imagePath, swapping the
// image extension for .txt. Image size is carried for logging but excluded
// from the file.
func (s *Store) SaveSidecar(imagePath string, rec *metadata.Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sidecarPath := strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + ".txt"

	var b strings.Builder
	b.WriteString("SmartFrame Image Metadata\n")
	b.WriteString(strings.Repeat("=", sidecarSeparatorLength))
	b.WriteString("\n\n")
	for _, field := range rec.Fields() {
		if field.Value == "" || field.Name == "image_size" {
			continue
		}
		b.WriteString(titleCaseFieldName(field.Name))
		b.WriteString(": ")
		b.WriteString(field.Value)
		b.WriteString("\n")
	}

	if err := os.WriteFile(sidecarPath, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("output store: write sidecar: %w", err)
	}
	return sidecarPath, nil
}

// titleCaseFieldName turns a record field name into its sidecar label:
// "image_id" -> "Image Id".
func titleCaseFieldName(name string) string {
	words := strings.Fields(underscoreWord.Replace(name))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
