// package services defines interface Lookup for release metadata providers
//
// Discogs is the only production implementation; tests substitute mocks.
package services

import (
	"context"

	"crate/internal/models"
)

// Lookup defines the interface for release metadata lookups.
type Lookup interface {
	// ByBarcode searches for a release by UPC/EAN barcode.
	// UPC/EAN variants (leading zero added or stripped) are tried after the exact barcode.
	ByBarcode(ctx context.Context, barcode string) (*models.Release, error)

	// ByReleaseID fetches a release by its numeric Discogs release ID.
	ByReleaseID(ctx context.Context, releaseID string) (*models.Release, error)

	// ByURL resolves a Discogs release URL and fetches the referenced release.
	ByURL(ctx context.Context, discogsURL string) (*models.Release, error)

	// ByArtistAlbum searches for a release matching the given artist and album title.
	ByArtistAlbum(ctx context.Context, artist, album string) (*models.Release, error)

	// Name returns the name of the provider (e.g., "Discogs")
	Name() string
}
