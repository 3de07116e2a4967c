package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"crate/internal/models"
	"crate/internal/shared"
	crtest "crate/internal/testing"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "error": message})
}

// newTestClient wires an APIClient to the test server with the session file
// in a temp directory.
func newTestClient(t *testing.T, serverURL, email, password string) *APIClient {
	t.Helper()
	return NewAPIClient(APIClientOpts{
		BaseURL:     serverURL,
		SessionPath: filepath.Join(t.TempDir(), "session.json"),
		Email:       email,
		Password:    password,
	})
}

func TestAPIClient(t *testing.T) {
	t.Run("Login Persists Session", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/auth/login" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			writeJSON(w, http.StatusOK, models.SessionData{
				AccessToken: "token-1",
				User:        models.UserData{ID: "user-1", Email: "miles@example.com"},
			})
		}))
		defer server.Close()

		sessionPath := filepath.Join(t.TempDir(), "session.json")
		client := NewAPIClient(APIClientOpts{BaseURL: server.URL, SessionPath: sessionPath})

		session, err := client.Login(context.Background(), "miles@example.com", "kindofblue")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if session.AccessToken != "token-1" {
			t.Errorf("unexpected token %s", session.AccessToken)
		}

		crtest.AssertFileExists(t, sessionPath)

		data, err := os.ReadFile(sessionPath)
		if err != nil {
			t.Fatalf("session file not written: %v", err)
		}

		var saved models.SessionData
		if err := json.Unmarshal(data, &saved); err != nil {
			t.Fatalf("failed to decode session file: %v", err)
		}
		if saved.AccessToken != "token-1" || saved.User.Email != "miles@example.com" {
			t.Errorf("unexpected saved session: %+v", saved)
		}

		// A fresh client picks up the saved session.
		reloaded := NewAPIClient(APIClientOpts{BaseURL: server.URL, SessionPath: sessionPath})
		if reloaded.Session() == nil || reloaded.Session().AccessToken != "token-1" {
			t.Error("expected reloaded client to carry the saved session")
		}
	})

	t.Run("Login Rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL, "", "")
		_, err := client.Login(context.Background(), "miles@example.com", "wrong")
		if !errors.Is(err, shared.ErrInvalidCredentials) {
			t.Errorf("expected invalid credentials, got %v", err)
		}
	})

	t.Run("Sends Bearer Token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/auth/login":
				writeJSON(w, http.StatusOK, models.SessionData{AccessToken: "token-1"})
			case "/api/records":
				if got := r.Header.Get("Authorization"); got != "Bearer token-1" {
					t.Errorf("unexpected auth header %q", got)
				}
				writeJSON(w, http.StatusOK, []models.RecordData{{ID: "rec-1", Artist: "John Coltrane", Album: "Blue Train"}})
			}
		}))
		defer server.Close()

		client := newTestClient(t, server.URL, "", "")
		if _, err := client.Login(context.Background(), "miles@example.com", "kindofblue"); err != nil {
			t.Fatalf("login failed: %v", err)
		}

		records, err := client.Records(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(records) != 1 || records[0].Artist != "John Coltrane" {
			t.Errorf("unexpected records: %+v", records)
		}
	})

	t.Run("Relogin And Replay On 401", func(t *testing.T) {
		logins := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/auth/login":
				logins++
				writeJSON(w, http.StatusOK, models.SessionData{AccessToken: "fresh-token"})
			case "/api/records":
				if r.Header.Get("Authorization") != "Bearer fresh-token" {
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				writeJSON(w, http.StatusOK, []models.RecordData{{ID: "rec-1", Artist: "Bill Evans", Album: "Waltz For Debby"}})
			}
		}))
		defer server.Close()

		// Seed a session file holding an expired token.
		sessionPath := filepath.Join(t.TempDir(), "session.json")
		stale, _ := json.Marshal(models.SessionData{AccessToken: "stale-token"})
		if err := os.WriteFile(sessionPath, stale, 0600); err != nil {
			t.Fatalf("failed to seed session: %v", err)
		}

		client := NewAPIClient(APIClientOpts{
			BaseURL:     server.URL,
			SessionPath: sessionPath,
			Email:       "miles@example.com",
			Password:    "kindofblue",
		})

		records, err := client.Records(context.Background())
		if err != nil {
			t.Fatalf("expected replay to succeed, got %v", err)
		}
		if len(records) != 1 || records[0].Album != "Waltz For Debby" {
			t.Errorf("unexpected records: %+v", records)
		}
		if logins != 1 {
			t.Errorf("expected exactly one re-login, got %d", logins)
		}
	})

	t.Run("No Credentials On 401", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL, "", "")
		_, err := client.Records(context.Background())
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected not authenticated, got %v", err)
		}
	})

	t.Run("Server Error Surfaces Message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusBadRequest, "artist is required")
		}))
		defer server.Close()

		client := newTestClient(t, server.URL, "", "")
		_, err := client.AddRecord(context.Background(), models.RecordData{})
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected API request error, got %v", err)
		}
	})

	t.Run("Logout Clears Session File", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/auth/login":
				writeJSON(w, http.StatusOK, models.SessionData{AccessToken: "token-1"})
			case "/api/auth/logout":
				writeJSON(w, http.StatusOK, nil)
			}
		}))
		defer server.Close()

		sessionPath := filepath.Join(t.TempDir(), "session.json")
		client := NewAPIClient(APIClientOpts{BaseURL: server.URL, SessionPath: sessionPath})

		if _, err := client.Login(context.Background(), "miles@example.com", "kindofblue"); err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if err := client.Logout(context.Background()); err != nil {
			t.Fatalf("logout failed: %v", err)
		}

		if client.Session() != nil {
			t.Error("expected session to be cleared")
		}
		if _, err := os.Stat(sessionPath); !os.IsNotExist(err) {
			t.Error("expected session file to be removed")
		}
	})

	t.Run("Lookup Endpoints", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/lookup/barcode/724349532724":
				writeJSON(w, http.StatusOK, models.Release{Artist: "John Coltrane", Album: "Blue Train"})
			case "/api/lookup/discogs":
				if r.URL.Query().Get("url") == "" {
					t.Error("expected url query parameter")
				}
				writeJSON(w, http.StatusOK, models.Release{Artist: "Miles Davis", Album: "Kind Of Blue"})
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
				writeError(w, http.StatusNotFound, "not found")
			}
		}))
		defer server.Close()

		client := newTestClient(t, server.URL, "", "")

		release, err := client.LookupBarcode(context.Background(), "724349532724")
		if err != nil {
			t.Fatalf("barcode lookup failed: %v", err)
		}
		if release.Album != "Blue Train" {
			t.Errorf("unexpected album %s", release.Album)
		}

		release, err = client.LookupDiscogs(context.Background(), "https://www.discogs.com/release/163658")
		if err != nil {
			t.Fatalf("discogs lookup failed: %v", err)
		}
		if release.Album != "Kind Of Blue" {
			t.Errorf("unexpected album %s", release.Album)
		}
	})
}
