// Package sla serves the service level agreement preview as a download,
// stamped with a SHA-256 digest of the exact bytes returned.
package sla

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/minio/sha256-simd"
)

const (
	// DocumentName is the file looked up inside the public directory.
	DocumentName = "sla_preview.pdf"

	// DownloadFilename is the name suggested to the browser.
	DownloadFilename = "TrustMonitor-Service-Level-Agreement.pdf"

	// DigestHeader carries the lowercase hex SHA-256 of the response body.
	DigestHeader = "TrustMonitor-Document-SHA256"
)

// ErrNotFound is returned when the document is missing from local storage.
var ErrNotFound = errors.New("document not found")

// Document is the full body of the agreement and its digest.
type Document struct {
	Body   []byte
	SHA256 string
}

// Size returns the exact byte length of the document.
func (d *Document) Size() int {
	return len(d.Body)
}

// ReadFileFunc reads a whole file, os.ReadFile by default.
type ReadFileFunc func(name string) ([]byte, error)

// Source locates the agreement on disk. It holds no cached state: every
// Load reads and hashes the file again.
type Source struct {
	Path     string
	readFile ReadFileFunc
}

// NewSource returns a Source for DocumentName inside publicDir.
func NewSource(publicDir string) *Source {
	return &Source{
		Path:     filepath.Join(publicDir, DocumentName),
		readFile: os.ReadFile,
	}
}

// WithReadFile swaps the reader, used to simulate storage failures.
func (s *Source) WithReadFile(fn ReadFileFunc) *Source {
	return &Source{Path: s.Path, readFile: fn}
}

// Load reads the document fully into memory and computes its digest.
func (s *Source) Load() (*Document, error) {
	body, err := s.readFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.Path)
		}
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return &Document{Body: body, SHA256: Digest(body)}, nil
}

// Digest returns the lowercase hex SHA-256 of b.
func Digest(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
