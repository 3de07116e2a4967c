package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crate/internal/shared"
)

// newTestDiscogs points a service at the given test server with retry
// backoff shortened so tests stay fast.
func newTestDiscogs(t *testing.T, serverURL string) *DiscogsService {
	t.Helper()

	srv, err := NewDiscogsService("test_token", "crate-test", 1000)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	srv.baseURL = serverURL
	srv.backoff = time.Millisecond

	return srv
}

func testReleaseJSON() map[string]any {
	return map[string]any{
		"id":    249504,
		"title": "Blue Train",
		"year":  1957,
		"artists": []map[string]any{
			{"name": "John Coltrane"},
		},
		"extraartists": []map[string]any{
			{"name": "Lee Morgan", "role": "Trumpet"},
			{"name": "Reid Miles", "role": "Design [Cover]"},
			{"name": "Francis Wolff", "role": "Photography By"},
			{"name": "Alfred Lion", "role": "Producer"},
		},
		"labels": []map[string]any{
			{"name": "Blue Note"},
		},
		"genres":    []string{"Jazz"},
		"styles":    []string{"Hard Bop"},
		"master_id": 32208,
		"tracklist": []map[string]any{
			{
				"title": "Blue Train",
				"extraartists": []map[string]any{
					{"name": "Curtis Fuller", "role": "Trombone"},
					{"name": "Lee Morgan", "role": "Trumpet"},
				},
			},
		},
		"identifiers": []map[string]any{
			{"type": "Barcode", "value": "724349532724"},
		},
	}
}

func TestDiscogsService(t *testing.T) {
	t.Run("Requires Token", func(t *testing.T) {
		_, err := NewDiscogsService("", "crate-test", 1)
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected missing credentials error, got %v", err)
		}
	})

	t.Run("ByBarcode", func(t *testing.T) {
		t.Run("Tries UPC Variant After Exact Match Misses", func(t *testing.T) {
			var searched []string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/database/search":
					barcode := r.URL.Query().Get("barcode")
					searched = append(searched, barcode)
					if barcode == "0724349532724" {
						json.NewEncoder(w).Encode(map[string]any{
							"results": []map[string]any{{"id": 249504, "type": "release"}},
						})
						return
					}
					json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
				case "/releases/249504":
					json.NewEncoder(w).Encode(testReleaseJSON())
				default:
					t.Errorf("unexpected path %s", r.URL.Path)
				}
			}))
			defer server.Close()

			srv := newTestDiscogs(t, server.URL)
			release, err := srv.ByBarcode(context.Background(), "724349532724")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if len(searched) != 2 || searched[1] != "0724349532724" {
				t.Errorf("unexpected search order: %v", searched)
			}
			if release.Barcode != "724349532724" {
				t.Errorf("expected caller's barcode, got %s", release.Barcode)
			}
			if release.Artist != "John Coltrane" || release.Album != "Blue Train" {
				t.Errorf("unexpected release: %+v", release)
			}
		})

		t.Run("No Match", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
			}))
			defer server.Close()

			srv := newTestDiscogs(t, server.URL)
			_, err := srv.ByBarcode(context.Background(), "000000000000")
			if !errors.Is(err, shared.ErrReleaseNotFound) {
				t.Errorf("expected release not found, got %v", err)
			}
		})
	})

	t.Run("Filters Non-Musical Credits", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(testReleaseJSON())
		}))
		defer server.Close()

		srv := newTestDiscogs(t, server.URL)
		release, err := srv.ByReleaseID(context.Background(), "249504")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := []string{"Curtis Fuller (Trombone)", "Lee Morgan (Trumpet)"}
		if len(release.Musicians) != len(want) {
			t.Fatalf("expected %d musicians, got %v", len(want), release.Musicians)
		}
		for i, musician := range want {
			if release.Musicians[i] != musician {
				t.Errorf("expected musician %q at %d, got %q", musician, i, release.Musicians[i])
			}
		}
		if release.MasterURL != "https://www.discogs.com/master/32208" {
			t.Errorf("unexpected master URL: %s", release.MasterURL)
		}
	})

	t.Run("ByURL", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/releases/249504" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			json.NewEncoder(w).Encode(testReleaseJSON())
		}))
		defer server.Close()

		srv := newTestDiscogs(t, server.URL)

		t.Run("Valid Release URL", func(t *testing.T) {
			release, err := srv.ByURL(context.Background(), "https://www.discogs.com/release/249504-John-Coltrane-Blue-Train")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if release.Album != "Blue Train" {
				t.Errorf("unexpected album %s", release.Album)
			}
		})

		t.Run("Invalid URL", func(t *testing.T) {
			_, err := srv.ByURL(context.Background(), "https://www.discogs.com/artist/123")
			if !errors.Is(err, shared.ErrInvalidURL) {
				t.Errorf("expected invalid URL error, got %v", err)
			}
		})
	})

	t.Run("Non-Numeric Release ID", func(t *testing.T) {
		srv := newTestDiscogs(t, "http://unused.invalid")
		_, err := srv.ByReleaseID(context.Background(), "not-a-number")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected invalid argument error, got %v", err)
		}
	})

	t.Run("Retries On 429", func(t *testing.T) {
		attempts := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			if attempts < 3 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			json.NewEncoder(w).Encode(testReleaseJSON())
		}))
		defer server.Close()

		srv := newTestDiscogs(t, server.URL)
		release, err := srv.ByReleaseID(context.Background(), "249504")
		if err != nil {
			t.Fatalf("expected success after retries, got %v", err)
		}
		if attempts != 3 {
			t.Errorf("expected 3 attempts, got %d", attempts)
		}
		if release.Album != "Blue Train" {
			t.Errorf("unexpected album %s", release.Album)
		}
	})

	t.Run("Gives Up After Max Retries", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		srv := newTestDiscogs(t, server.URL)
		_, err := srv.ByReleaseID(context.Background(), "249504")
		if !errors.Is(err, shared.ErrRateLimited) {
			t.Errorf("expected rate limited error, got %v", err)
		}
	})

	t.Run("Not Found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		srv := newTestDiscogs(t, server.URL)
		_, err := srv.ByReleaseID(context.Background(), "999999999")
		if !errors.Is(err, shared.ErrReleaseNotFound) {
			t.Errorf("expected release not found, got %v", err)
		}
	})

	t.Run("Sends Auth Headers", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Discogs token=test_token" {
				t.Errorf("unexpected auth header %q", got)
			}
			if got := r.Header.Get("User-Agent"); got != "crate-test" {
				t.Errorf("unexpected user agent %q", got)
			}
			json.NewEncoder(w).Encode(testReleaseJSON())
		}))
		defer server.Close()

		srv := newTestDiscogs(t, server.URL)
		if _, err := srv.ByReleaseID(context.Background(), "249504"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("Lookup Interface", func(t *testing.T) {
		srv := newTestDiscogs(t, "http://unused.invalid")
		var _ Lookup = srv
	})
}

func TestFormatRelease(t *testing.T) {
	t.Run("Joins Multiple Artists", func(t *testing.T) {
		release := formatRelease(&DiscogsRelease{
			ID:    1,
			Title: "Milestones",
			Artists: []DiscogsArtist{
				{Name: "Miles Davis"},
				{Name: "John Coltrane"},
			},
		})
		if release.Artist != "Miles Davis & John Coltrane" {
			t.Errorf("unexpected artist %q", release.Artist)
		}
	})

	t.Run("Unknown Artist Fallback", func(t *testing.T) {
		release := formatRelease(&DiscogsRelease{ID: 1, Title: "Untitled"})
		if release.Artist != "Unknown Artist" {
			t.Errorf("unexpected artist %q", release.Artist)
		}
	})

	t.Run("Deduplicates Credits Across Tracks", func(t *testing.T) {
		release := formatRelease(&DiscogsRelease{
			ID:           1,
			Title:        "Untitled",
			ExtraArtists: []DiscogsArtist{{Name: "Lee Morgan", Role: "Trumpet"}},
			Tracklist: []DiscogsTrack{
				{ExtraArtists: []DiscogsArtist{{Name: "Lee Morgan", Role: "Trumpet"}}},
			},
		})
		if len(release.Musicians) != 1 {
			t.Errorf("expected 1 musician, got %v", release.Musicians)
		}
	})

	t.Run("Empty Genres Encode As Arrays", func(t *testing.T) {
		release := formatRelease(&DiscogsRelease{ID: 1, Title: "Untitled"})
		if release.Genres == nil || release.Styles == nil {
			t.Error("expected non-nil genre and style slices")
		}
	})
}

func TestBarcodeVariants(t *testing.T) {
	cases := []struct {
		name    string
		barcode string
		want    []string
	}{
		{"UPC Adds Leading Zero", "724349532724", []string{"724349532724", "0724349532724"}},
		{"EAN Drops Leading Zero", "0724349532724", []string{"0724349532724", "724349532724"}},
		{"Other Lengths Unchanged", "12345", []string{"12345"}},
		{"Trims Whitespace", " 724349532724 ", []string{"724349532724", "0724349532724"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := BarcodeVariants(c.barcode)
			if len(got) != len(c.want) {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
			for i := range c.want {
				if got[i] != c.want[i] {
					t.Errorf("expected %v, got %v", c.want, got)
				}
			}
		})
	}
}

func TestExtractIDs(t *testing.T) {
	t.Run("Release ID", func(t *testing.T) {
		id, ok := ExtractReleaseID("https://www.discogs.com/release/249504-John-Coltrane-Blue-Train")
		if !ok || id != "249504" {
			t.Errorf("expected 249504, got %q (ok=%v)", id, ok)
		}

		if _, ok := ExtractReleaseID("https://www.discogs.com/artist/123"); ok {
			t.Error("expected no match for artist URL")
		}
	})

	t.Run("Master ID", func(t *testing.T) {
		id, ok := ExtractMasterID("https://www.discogs.com/master/32208")
		if !ok || id != "32208" {
			t.Errorf("expected 32208, got %q (ok=%v)", id, ok)
		}
	})
}
