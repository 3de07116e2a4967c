// API client for the crate REST server
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"crate/internal/models"
	"crate/internal/network"
	"crate/internal/shared"
)

// APIClient is a typed client for the crate REST API.
//
// Sessions are cached in a JSON file so the CLI stays logged in between
// invocations. When a request comes back 401 and credentials are configured,
// the client re-authenticates once and replays the request.
type APIClient struct {
	baseURL    string
	httpClient *http.Client

	sessionPath string
	email       string
	password    string

	mu      sync.Mutex
	session *models.SessionData
}

// APIClientOpts contains configuration options for creating an APIClient.
type APIClientOpts struct {
	BaseURL     string
	HTTPClient  *http.Client
	SessionPath string
	Email       string
	Password    string
}

// NewAPIClient creates a client for the crate server at the given base URL.
//
// A previously saved session is loaded from SessionPath when present.
func NewAPIClient(opts APIClientOpts) *APIClient {
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost:3000"
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.SessionPath == "" {
		opts.SessionPath = defaultSessionPath()
	}

	client := &APIClient{
		baseURL:     opts.BaseURL,
		httpClient:  opts.HTTPClient,
		sessionPath: opts.SessionPath,
		email:       opts.Email,
		password:    opts.Password,
	}
	client.session = loadSession(opts.SessionPath)

	return client
}

// defaultSessionPath places the session cache under the user's config directory.
func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".crate_session.json"
	}
	return filepath.Join(dir, "crate", "session.json")
}

func loadSession(path string) *models.SessionData {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var session models.SessionData
	if err := json.Unmarshal(data, &session); err != nil {
		return nil
	}
	if session.AccessToken == "" {
		return nil
	}
	return &session
}

func (c *APIClient) saveSession() error {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session == nil {
		if err := os.Remove(c.sessionPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove session file: %w", err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(c.sessionPath), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.WriteFile(c.sessionPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Session returns the cached session, or nil when logged out.
func (c *APIClient) Session() *models.SessionData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// envelope is the JSON wrapper every crate API response uses.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// doRequest performs an authenticated request, retrying once after a
// transparent re-login when the server answers 401.
func (c *APIClient) doRequest(ctx context.Context, method, path string, body, result any) error {
	status, err := c.send(ctx, method, path, body, result)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized {
		if c.email == "" || c.password == "" {
			return shared.ErrNotAuthenticated
		}
		if _, err := c.Login(ctx, c.email, c.password); err != nil {
			return fmt.Errorf("re-authentication failed: %w", err)
		}
		status, err = c.send(ctx, method, path, body, result)
		if err != nil {
			return err
		}
		if status == http.StatusUnauthorized {
			return shared.ErrNotAuthenticated
		}
	}

	return nil
}

// send performs a single request. A 401 status is reported to the caller
// without error so doRequest can decide whether to retry.
func (c *APIClient) send(ctx context.Context, method, path string, body, result any) (int, error) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if session := c.Session(); session != nil {
		req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return resp.StatusCode, nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}

	if !env.Success {
		return resp.StatusCode, fmt.Errorf("%w: %s", shared.ErrAPIRequest, env.Error)
	}

	if result != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response data: %w", err)
		}
	}

	return resp.StatusCode, nil
}

// Register creates a new account on the server.
func (c *APIClient) Register(ctx context.Context, email, password string) (*models.UserData, error) {
	body := map[string]string{"email": email, "password": password}

	var user models.UserData
	if _, err := c.send(ctx, http.MethodPost, "/api/auth/register", body, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// Login authenticates against the server and caches the returned session.
func (c *APIClient) Login(ctx context.Context, email, password string) (*models.SessionData, error) {
	body := map[string]string{"email": email, "password": password}

	var session models.SessionData
	status, err := c.send(ctx, http.MethodPost, "/api/auth/login", body, &session)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		return nil, shared.ErrInvalidCredentials
	}

	c.mu.Lock()
	c.session = &session
	c.mu.Unlock()

	if err := c.saveSession(); err != nil {
		return nil, err
	}

	return &session, nil
}

// Logout invalidates the session on the server and clears the local cache.
func (c *APIClient) Logout(ctx context.Context) error {
	_, _ = c.send(ctx, http.MethodPost, "/api/auth/logout", nil, nil)

	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()

	return c.saveSession()
}

// Records fetches the user's collection, including custom column values.
func (c *APIClient) Records(ctx context.Context) ([]models.RecordData, error) {
	var records []models.RecordData
	if err := c.doRequest(ctx, http.MethodGet, "/api/records", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// AddRecord commits a record to the collection and returns the stored copy.
func (c *APIClient) AddRecord(ctx context.Context, record models.RecordData) (*models.RecordData, error) {
	var stored models.RecordData
	if err := c.doRequest(ctx, http.MethodPost, "/api/records", record, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// DeleteRecord removes a record from the collection.
func (c *APIClient) DeleteRecord(ctx context.Context, recordID string) error {
	return c.doRequest(ctx, http.MethodDelete, "/api/records/"+url.PathEscape(recordID), nil, nil)
}

// UpdateNotes replaces the notes on a record.
func (c *APIClient) UpdateNotes(ctx context.Context, recordID, notes string) (*models.RecordData, error) {
	body := map[string]string{"notes": notes}

	var updated models.RecordData
	if err := c.doRequest(ctx, http.MethodPut, "/api/records/"+url.PathEscape(recordID)+"/notes", body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// SetCustomValue writes a custom column value for a record.
func (c *APIClient) SetCustomValue(ctx context.Context, recordID, columnID, value string) error {
	body := map[string]string{"value": value}
	path := "/api/records/" + url.PathEscape(recordID) + "/custom-values/" + url.PathEscape(columnID)
	return c.doRequest(ctx, http.MethodPut, path, body, nil)
}

// Columns fetches the user's custom column definitions.
func (c *APIClient) Columns(ctx context.Context) ([]models.ColumnData, error) {
	var columns []models.ColumnData
	if err := c.doRequest(ctx, http.MethodGet, "/api/custom-columns", nil, &columns); err != nil {
		return nil, err
	}
	return columns, nil
}

// AddColumn creates a custom column definition.
func (c *APIClient) AddColumn(ctx context.Context, column models.ColumnData) (*models.ColumnData, error) {
	var stored models.ColumnData
	if err := c.doRequest(ctx, http.MethodPost, "/api/custom-columns", column, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// DeleteColumn removes a custom column definition.
func (c *APIClient) DeleteColumn(ctx context.Context, columnID string) error {
	return c.doRequest(ctx, http.MethodDelete, "/api/custom-columns/"+url.PathEscape(columnID), nil, nil)
}

// LookupBarcode asks the server to resolve a barcode via Discogs.
func (c *APIClient) LookupBarcode(ctx context.Context, barcode string) (*models.Release, error) {
	var release models.Release
	if err := c.doRequest(ctx, http.MethodGet, "/api/lookup/barcode/"+url.PathEscape(barcode), nil, &release); err != nil {
		return nil, err
	}
	return &release, nil
}

// LookupDiscogs asks the server to resolve a Discogs URL or release ID.
func (c *APIClient) LookupDiscogs(ctx context.Context, urlOrID string) (*models.Release, error) {
	query := url.Values{}
	if _, ok := ExtractReleaseID(urlOrID); ok {
		query.Set("url", urlOrID)
	} else {
		query.Set("id", urlOrID)
	}

	var release models.Release
	if err := c.doRequest(ctx, http.MethodGet, "/api/lookup/discogs?"+query.Encode(), nil, &release); err != nil {
		return nil, err
	}
	return &release, nil
}

// MusicianNetwork fetches the precomputed collaboration graph.
func (c *APIClient) MusicianNetwork(ctx context.Context) (*network.Graph, error) {
	var graph network.Graph
	if err := c.doRequest(ctx, http.MethodGet, "/api/musician-network", nil, &graph); err != nil {
		return nil, err
	}
	return &graph, nil
}
