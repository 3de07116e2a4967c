// Discogs API implementation of [Lookup]
//
// Response types based on https://www.discogs.com/developers
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"crate/internal/models"
	"crate/internal/shared"
	"golang.org/x/time/rate"
)

const discogsBaseURL = "https://api.discogs.com"

// Credit roles that never describe a performing musician.
var nonMusicalRoles = []string{
	"design", "photography", "artwork", "mastered", "mixed",
	"lacquer cut", "liner notes", "recorded by", "producer",
	"engineer", "mastering", "mixing", "recording",
}

var (
	releaseIDPattern = regexp.MustCompile(`/release/(\d+)`)
	masterIDPattern  = regexp.MustCompile(`/master/(\d+)`)
)

// DiscogsArtist represents an artist credit on a release.
type DiscogsArtist struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// DiscogsLabel represents a record label credit.
type DiscogsLabel struct {
	Name string `json:"name"`
}

// DiscogsTrack represents a tracklist entry with optional per-track credits.
type DiscogsTrack struct {
	Title        string          `json:"title"`
	ExtraArtists []DiscogsArtist `json:"extraartists"`
}

// DiscogsIdentifier represents a release identifier (barcode, matrix number, etc).
type DiscogsIdentifier struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// DiscogsRelease represents a full release resource.
type DiscogsRelease struct {
	ID           int                 `json:"id"`
	Title        string              `json:"title"`
	Year         int                 `json:"year"`
	Artists      []DiscogsArtist     `json:"artists"`
	ExtraArtists []DiscogsArtist     `json:"extraartists"`
	Labels       []DiscogsLabel      `json:"labels"`
	Genres       []string            `json:"genres"`
	Styles       []string            `json:"styles"`
	Tracklist    []DiscogsTrack      `json:"tracklist"`
	MasterID     int                 `json:"master_id"`
	Identifiers  []DiscogsIdentifier `json:"identifiers"`
}

// DiscogsSearchResult represents a single database search hit.
type DiscogsSearchResult struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

type discogsSearchResponse struct {
	Results []DiscogsSearchResult `json:"results"`
}

// DiscogsService implements the Lookup interface against the Discogs REST API.
//
// Requests are throttled with a token bucket and retried with exponential
// backoff when Discogs answers 429.
type DiscogsService struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

// NewDiscogsService creates a Discogs client with the given personal access token.
//
// requestsPerSecond defaults to 1, matching the authenticated rate the API allows
// without bursting.
func NewDiscogsService(token, userAgent string, requestsPerSecond float64) (*DiscogsService, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: discogs token", shared.ErrMissingCredentials)
	}
	if userAgent == "" {
		userAgent = "crate/0.3"
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1.0
	}

	return &DiscogsService{
		baseURL:    discogsBaseURL,
		token:      token,
		userAgent:  userAgent,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		maxRetries: 3,
		backoff:    2 * time.Second,
	}, nil
}

func (s *DiscogsService) Name() string {
	return "Discogs"
}

// doRequest performs a rate-limited GET against the Discogs API and decodes the JSON response.
//
// 429 responses are retried with exponential backoff; other non-2xx statuses fail immediately.
func (s *DiscogsService) doRequest(ctx context.Context, endpoint string, result any) error {
	apiURL := s.baseURL + endpoint

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter interrupted: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Authorization", "Discogs token="+s.token)
		req.Header.Set("User-Agent", s.userAgent)

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			wait := s.backoff * (1 << attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			continue
		}

		if resp.StatusCode == http.StatusNotFound {
			resp.Body.Close()
			return shared.ErrReleaseNotFound
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return fmt.Errorf("%w: discogs status %d", shared.ErrAPIRequest, resp.StatusCode)
		}

		err = json.NewDecoder(resp.Body).Decode(result)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("%w: discogs", shared.ErrRateLimited)
}

// ByBarcode searches for a release by barcode, trying UPC/EAN variants in order.
func (s *DiscogsService) ByBarcode(ctx context.Context, barcode string) (*models.Release, error) {
	for _, candidate := range BarcodeVariants(barcode) {
		release, err := s.searchBarcode(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if release != nil {
			// Report the caller's barcode, not the matched variant
			release.Barcode = barcode
			return release, nil
		}
	}

	return nil, shared.ErrReleaseNotFound
}

func (s *DiscogsService) searchBarcode(ctx context.Context, barcode string) (*models.Release, error) {
	endpoint := fmt.Sprintf("/database/search?type=release&barcode=%s", url.QueryEscape(barcode))

	var response discogsSearchResponse
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	if len(response.Results) == 0 {
		return nil, nil
	}

	return s.fetchRelease(ctx, response.Results[0].ID)
}

// ByReleaseID fetches a release by its numeric Discogs ID.
func (s *DiscogsService) ByReleaseID(ctx context.Context, releaseID string) (*models.Release, error) {
	id, err := strconv.Atoi(releaseID)
	if err != nil {
		return nil, fmt.Errorf("%w: release id %q is not numeric", shared.ErrInvalidArgument, releaseID)
	}
	return s.fetchRelease(ctx, id)
}

// ByURL extracts the release ID from a Discogs URL and fetches the release.
func (s *DiscogsService) ByURL(ctx context.Context, discogsURL string) (*models.Release, error) {
	releaseID, ok := ExtractReleaseID(discogsURL)
	if !ok {
		return nil, fmt.Errorf("%w: %q", shared.ErrInvalidURL, discogsURL)
	}
	return s.ByReleaseID(ctx, releaseID)
}

// ByArtistAlbum searches for a release by artist name and album title.
func (s *DiscogsService) ByArtistAlbum(ctx context.Context, artist, album string) (*models.Release, error) {
	endpoint := fmt.Sprintf("/database/search?type=release&artist=%s&release_title=%s",
		url.QueryEscape(artist), url.QueryEscape(album))

	var response discogsSearchResponse
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	if len(response.Results) == 0 {
		return nil, shared.ErrReleaseNotFound
	}

	return s.fetchRelease(ctx, response.Results[0].ID)
}

func (s *DiscogsService) fetchRelease(ctx context.Context, id int) (*models.Release, error) {
	var release DiscogsRelease
	if err := s.doRequest(ctx, fmt.Sprintf("/releases/%d", id), &release); err != nil {
		return nil, err
	}
	return formatRelease(&release), nil
}

// formatRelease converts a Discogs release resource into the shared [models.Release] shape.
//
// Musician credits come from both release-level and per-track extraartists,
// filtered through the non-musical role blocklist and deduplicated.
func formatRelease(release *DiscogsRelease) *models.Release {
	artistNames := make([]string, 0, len(release.Artists))
	for _, artist := range release.Artists {
		artistNames = append(artistNames, artist.Name)
	}
	artist := strings.Join(artistNames, " & ")
	if artist == "" {
		artist = "Unknown Artist"
	}

	credits := map[string]bool{}
	collectMusicians(release.ExtraArtists, credits)
	for _, track := range release.Tracklist {
		collectMusicians(track.ExtraArtists, credits)
	}

	musicians := make([]string, 0, len(credits))
	for credit := range credits {
		musicians = append(musicians, credit)
	}
	sort.Strings(musicians)

	var label string
	if len(release.Labels) > 0 {
		label = release.Labels[0].Name
	}

	var masterURL string
	if release.MasterID != 0 {
		masterURL = fmt.Sprintf("https://www.discogs.com/master/%d", release.MasterID)
	}

	var barcode string
	for _, identifier := range release.Identifiers {
		if identifier.Type == "Barcode" || identifier.Type == "UPC" {
			barcode = identifier.Value
			break
		}
	}

	genres := release.Genres
	if genres == nil {
		genres = []string{}
	}
	styles := release.Styles
	if styles == nil {
		styles = []string{}
	}

	return &models.Release{
		Artist:      artist,
		Album:       release.Title,
		Year:        release.Year,
		Label:       label,
		Genres:      genres,
		Styles:      styles,
		Musicians:   musicians,
		MasterURL:   masterURL,
		ReleaseURL:  fmt.Sprintf("https://www.discogs.com/release/%d", release.ID),
		ReleaseYear: release.Year,
		Barcode:     barcode,
	}
}

// collectMusicians adds "Name (Role)" credit strings for performing musicians,
// skipping credits whose role matches the non-musical blocklist.
func collectMusicians(credits []DiscogsArtist, out map[string]bool) {
	for _, credit := range credits {
		if credit.Name == "" || credit.Role == "" {
			continue
		}
		role := strings.ToLower(credit.Role)
		skip := false
		for _, nonRole := range nonMusicalRoles {
			if strings.Contains(role, nonRole) {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		out[fmt.Sprintf("%s (%s)", credit.Name, credit.Role)] = true
	}
}

// BarcodeVariants returns the barcodes to try for a lookup, exact barcode first.
//
// A 12-digit UPC is also tried as a 13-digit EAN with a leading zero, and a
// 13-digit EAN starting with zero is also tried without it.
func BarcodeVariants(barcode string) []string {
	barcode = strings.TrimSpace(barcode)
	variants := []string{barcode}

	switch {
	case len(barcode) == 12:
		variants = append(variants, "0"+barcode)
	case len(barcode) == 13 && strings.HasPrefix(barcode, "0"):
		variants = append(variants, barcode[1:])
	}

	return variants
}

// ExtractReleaseID extracts the numeric release ID from a Discogs release URL.
func ExtractReleaseID(discogsURL string) (string, bool) {
	match := releaseIDPattern.FindStringSubmatch(discogsURL)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// ExtractMasterID extracts the numeric master ID from a Discogs master URL.
func ExtractMasterID(discogsURL string) (string, bool) {
	match := masterIDPattern.FindStringSubmatch(discogsURL)
	if match == nil {
		return "", false
	}
	return match[1], true
}
