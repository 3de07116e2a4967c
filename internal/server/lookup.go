package server

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/gorilla/mux"

	"crate/internal/shared"
)

var barcodePattern = regexp.MustCompile(`^\d{8,14}$`)

// handleLookupBarcode resolves a barcode through the configured lookup provider.
func (s *Server) handleLookupBarcode(w http.ResponseWriter, r *http.Request) {
	if s.lookup == nil {
		writeErr(w, http.StatusServiceUnavailable, "lookup is not configured")
		return
	}

	barcode := mux.Vars(r)["barcode"]
	if !barcodePattern.MatchString(barcode) {
		writeErr(w, http.StatusBadRequest, "invalid barcode")
		return
	}

	release, err := s.lookup.ByBarcode(r.Context(), barcode)
	if err != nil {
		writeLookupErr(w, err, s)
		return
	}

	writeData(w, http.StatusOK, release)
}

// handleLookupDiscogs resolves a Discogs release by URL or numeric ID.
func (s *Server) handleLookupDiscogs(w http.ResponseWriter, r *http.Request) {
	if s.lookup == nil {
		writeErr(w, http.StatusServiceUnavailable, "lookup is not configured")
		return
	}

	query := r.URL.Query()
	discogsURL := query.Get("url")
	releaseID := query.Get("id")

	switch {
	case discogsURL != "":
		release, err := s.lookup.ByURL(r.Context(), discogsURL)
		if err != nil {
			writeLookupErr(w, err, s)
			return
		}
		writeData(w, http.StatusOK, release)
	case releaseID != "":
		release, err := s.lookup.ByReleaseID(r.Context(), releaseID)
		if err != nil {
			writeLookupErr(w, err, s)
			return
		}
		writeData(w, http.StatusOK, release)
	default:
		writeErr(w, http.StatusBadRequest, "url or id required")
	}
}

// handleLookupSpotify enriches a record with a Spotify album match.
func (s *Server) handleLookupSpotify(w http.ResponseWriter, r *http.Request) {
	if s.spotify == nil {
		writeErr(w, http.StatusServiceUnavailable, "spotify is not configured")
		return
	}

	query := r.URL.Query()
	artist := query.Get("artist")
	album := query.Get("album")
	if artist == "" || album == "" {
		writeErr(w, http.StatusBadRequest, "artist and album required")
		return
	}

	match, err := s.spotify.SearchAlbum(r.Context(), artist, album)
	if err != nil {
		writeLookupErr(w, err, s)
		return
	}

	writeData(w, http.StatusOK, match)
}

// writeLookupErr maps lookup failures to HTTP statuses: 404 for misses, 400
// for bad input, 503 when the upstream is throttling, 502 otherwise.
func writeLookupErr(w http.ResponseWriter, err error, s *Server) {
	switch {
	case errors.Is(err, shared.ErrReleaseNotFound):
		writeErr(w, http.StatusNotFound, "release not found")
	case errors.Is(err, shared.ErrInvalidURL), errors.Is(err, shared.ErrInvalidArgument):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, shared.ErrRateLimited):
		writeErr(w, http.StatusServiceUnavailable, "lookup provider is rate limiting")
	default:
		s.logger.Error("lookup failed", "error", err)
		writeErr(w, http.StatusBadGateway, "lookup failed")
	}
}
