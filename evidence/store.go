package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// Dir is the public sub-directory holding bundles.
	Dir = "evidence"

	// FeaturedIncident names the bundle rendered on the landing page.
	FeaturedIncident = "inc_2026021002471234"
)

// FileName returns the bundle file name for an incident id.
func FileName(incidentID string) string {
	return incidentID + ".json"
}

// URLPath returns the public path a bundle is served from.
func URLPath(incidentID string) string {
	return "/" + Dir + "/" + FileName(incidentID)
}

// Snapshot is one read of a bundle: the decoded view plus the exact bytes,
// which are what a visitor copies or downloads.
type Snapshot struct {
	Bundle *Bundle
	Raw    []byte
}

// Store reads bundles from the public directory.
type Store struct {
	dir string
}

func NewStore(publicDir string) *Store {
	return &Store{dir: filepath.Join(publicDir, Dir)}
}

// Path returns the on-disk location of the bundle for incidentID.
func (s *Store) Path(incidentID string) string {
	return filepath.Join(s.dir, FileName(incidentID))
}

// HasProofFile reports whether the timestamp proof named by a is published
// next to the bundles.
func (s *Store) HasProofFile(a BitcoinAnchor) bool {
	name := filepath.Base(a.OTSProofFile)
	if name == "." || name == string(filepath.Separator) {
		return false
	}
	info, err := os.Stat(filepath.Join(s.dir, name))
	return err == nil && info.Mode().IsRegular()
}

// Load reads and decodes the bundle for incidentID. The result is a fresh
// snapshot on every call; nothing is cached or mutated.
func (s *Store) Load(ctx context.Context, incidentID string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(s.Path(incidentID))
	if err != nil {
		return nil, fmt.Errorf("read evidence bundle %s: %w", incidentID, err)
	}
	var b Bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("decode evidence bundle %s: %w", incidentID, err)
	}
	return &Snapshot{Bundle: &b, Raw: raw}, nil
}

// Featured loads the landing page bundle.
func (s *Store) Featured(ctx context.Context) (*Snapshot, error) {
	return s.Load(ctx, FeaturedIncident)
}
