package models

// Release represents release metadata returned by a Discogs lookup.
type Release struct {
	Artist      string   `json:"artist"`
	Album       string   `json:"album"`
	Year        int      `json:"year"`
	Label       string   `json:"label"`
	Genres      []string `json:"genres"`
	Styles      []string `json:"styles"`
	Musicians   []string `json:"musicians"`
	MasterURL   string   `json:"master_url,omitempty"`
	ReleaseURL  string   `json:"release_url,omitempty"`
	ReleaseYear int      `json:"release_year,omitempty"`
	Barcode     string   `json:"barcode,omitempty"`
}

// RecordData is the wire format for a collection record.
//
// Musicians are credit strings in the form "Name (Role1, Role2)"; genres and
// styles are plain string arrays. CustomValues maps custom column IDs to the
// record's value for that column.
type RecordData struct {
	ID           string            `json:"id,omitempty"`
	Artist       string            `json:"artist"`
	Album        string            `json:"album"`
	Year         int               `json:"year,omitempty"`
	Label        string            `json:"label,omitempty"`
	Genres       []string          `json:"genres"`
	Styles       []string          `json:"styles"`
	Musicians    []string          `json:"musicians"`
	MasterURL    string            `json:"master_url,omitempty"`
	ReleaseURL   string            `json:"release_url,omitempty"`
	ReleaseYear  int               `json:"release_year,omitempty"`
	Barcode      string            `json:"barcode,omitempty"`
	Notes        string            `json:"notes"`
	AddedFrom    string            `json:"added_from,omitempty"`
	CustomValues map[string]string `json:"custom_values,omitempty"`
}

// ColumnData is the wire format for a custom column definition.
type ColumnData struct {
	ID      string     `json:"id,omitempty"`
	Name    string     `json:"name"`
	Type    ColumnType `json:"type"`
	Options []string   `json:"options,omitempty"`
}

// AlbumMatch represents a Spotify album found during enrichment.
type AlbumMatch struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Artist      string `json:"artist"`
	URL         string `json:"url"`
	CoverURL    string `json:"cover_url,omitempty"`
	ReleaseDate string `json:"release_date,omitempty"`
	TotalTracks int    `json:"total_tracks"`
}

// SessionData is the wire format for an authenticated session.
type SessionData struct {
	AccessToken string   `json:"access_token"`
	User        UserData `json:"user"`
}

// UserData is the wire format for a user profile.
type UserData struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
