// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"crate/internal/models"
)

// MockLookup is a test double for [services.Lookup]
type MockLookup struct {
	Release *models.Release
	Err     error
}

func (m *MockLookup) ByBarcode(ctx context.Context, barcode string) (*models.Release, error) {
	return m.Release, m.Err
}

func (m *MockLookup) ByReleaseID(ctx context.Context, releaseID string) (*models.Release, error) {
	return m.Release, m.Err
}

func (m *MockLookup) ByURL(ctx context.Context, discogsURL string) (*models.Release, error) {
	return m.Release, m.Err
}

func (m *MockLookup) ByArtistAlbum(ctx context.Context, artist, album string) (*models.Release, error) {
	return m.Release, m.Err
}

func (m *MockLookup) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

// TestRelease returns a populated release for handler and client tests.
func TestRelease() *models.Release {
	return &models.Release{
		Artist:    "John Coltrane",
		Album:     "Blue Train",
		Year:      1957,
		Label:     "Blue Note",
		Genres:    []string{"Jazz"},
		Styles:    []string{"Hard Bop"},
		Musicians: []string{"Lee Morgan (Trumpet)", "Curtis Fuller (Trombone)"},
		Barcode:   "724349532724",
	}
}
