package models

import (
	"fmt"
	"strings"
	"time"
)

// meta holds the lifecycle fields shared by all persistent entities.
type meta struct {
	id        string
	sequence  int
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

func newMeta(sequence int) meta {
	now := time.Now()
	return meta{sequence: sequence, createdAt: now, updatedAt: now}
}

func (m *meta) ID() string                { return m.id }
func (m *meta) SetID(id string)           { m.id = id }
func (m *meta) Sequence() int             { return m.sequence }
func (m *meta) CreatedAt() time.Time      { return m.createdAt }
func (m *meta) SetCreatedAt(t time.Time)  { m.createdAt = t }
func (m *meta) UpdatedAt() time.Time      { return m.updatedAt }
func (m *meta) SetUpdatedAt(t time.Time)  { m.updatedAt = t }
func (m *meta) DeletedAt() *time.Time     { return m.deletedAt }
func (m *meta) SetDeletedAt(t *time.Time) { m.deletedAt = t }

// User represents a registered account.
type User struct {
	meta
	email        string
	passwordHash string
}

// NewUser creates a User with the given sequence, email and bcrypt password hash.
func NewUser(sequence int, email, passwordHash string) *User {
	return &User{meta: newMeta(sequence), email: email, passwordHash: passwordHash}
}

func (u *User) Email() string        { return u.email }
func (u *User) SetEmail(e string)    { u.email = e }
func (u *User) PasswordHash() string { return u.passwordHash }

// Validate checks that the user has an email and a password hash.
func (u *User) Validate() error {
	if !strings.Contains(u.email, "@") {
		return fmt.Errorf("invalid email: %q", u.email)
	}
	if u.passwordHash == "" {
		return fmt.Errorf("missing password hash")
	}
	return nil
}

// Session represents an opaque bearer token authorizing API calls for a user.
type Session struct {
	meta
	token     string
	userID    string
	expiresAt time.Time
}

// NewSession creates a Session for the given user with the given token and lifetime.
func NewSession(userID, token string, ttl time.Duration) *Session {
	s := &Session{meta: newMeta(0), token: token, userID: userID}
	s.expiresAt = s.createdAt.Add(ttl)
	return s
}

func (s *Session) Token() string            { return s.token }
func (s *Session) UserID() string           { return s.userID }
func (s *Session) ExpiresAt() time.Time     { return s.expiresAt }
func (s *Session) SetExpiresAt(t time.Time) { s.expiresAt = t }

// Expired reports whether the session is past its expiry time.
func (s *Session) Expired() bool { return time.Now().After(s.expiresAt) }

// Validate checks that the session has a token and a user.
func (s *Session) Validate() error {
	if s.token == "" {
		return fmt.Errorf("missing session token")
	}
	if s.userID == "" {
		return fmt.Errorf("missing user id")
	}
	return nil
}

// Record represents a vinyl record in a user's collection.
type Record struct {
	meta
	userID string
	data   RecordData
}

// NewRecord creates a Record owned by the given user from wire data.
func NewRecord(sequence int, userID string, data RecordData) *Record {
	if data.Genres == nil {
		data.Genres = []string{}
	}
	if data.Styles == nil {
		data.Styles = []string{}
	}
	if data.Musicians == nil {
		data.Musicians = []string{}
	}
	if data.AddedFrom == "" {
		data.AddedFrom = "manual"
	}
	return &Record{meta: newMeta(sequence), userID: userID, data: data}
}

func (r *Record) UserID() string      { return r.userID }
func (r *Record) Artist() string      { return r.data.Artist }
func (r *Record) Album() string       { return r.data.Album }
func (r *Record) Year() int           { return r.data.Year }
func (r *Record) Label() string       { return r.data.Label }
func (r *Record) Genres() []string    { return r.data.Genres }
func (r *Record) Styles() []string    { return r.data.Styles }
func (r *Record) Musicians() []string { return r.data.Musicians }
func (r *Record) MasterURL() string   { return r.data.MasterURL }
func (r *Record) ReleaseURL() string  { return r.data.ReleaseURL }
func (r *Record) ReleaseYear() int    { return r.data.ReleaseYear }
func (r *Record) Barcode() string     { return r.data.Barcode }
func (r *Record) Notes() string       { return r.data.Notes }
func (r *Record) AddedFrom() string   { return r.data.AddedFrom }

func (r *Record) SetNotes(notes string) { r.data.Notes = notes }

// Data returns the record's wire representation, including its ID.
func (r *Record) Data() RecordData {
	data := r.data
	data.ID = r.id
	return data
}

// Validate checks the record invariants: artist and album are required.
func (r *Record) Validate() error {
	if r.data.Artist == "" {
		return fmt.Errorf("missing artist")
	}
	if r.data.Album == "" {
		return fmt.Errorf("missing album")
	}
	if r.userID == "" {
		return fmt.Errorf("missing user id")
	}
	return nil
}

// CustomColumn represents a user-defined metadata column.
type CustomColumn struct {
	meta
	userID  string
	name    string
	colType ColumnType
	options []string
}

// NewCustomColumn creates a CustomColumn owned by the given user.
func NewCustomColumn(sequence int, userID string, data ColumnData) *CustomColumn {
	opts := data.Options
	if opts == nil {
		opts = []string{}
	}
	return &CustomColumn{
		meta:    newMeta(sequence),
		userID:  userID,
		name:    data.Name,
		colType: data.Type,
		options: opts,
	}
}

func (c *CustomColumn) UserID() string    { return c.userID }
func (c *CustomColumn) Name() string      { return c.name }
func (c *CustomColumn) Type() ColumnType  { return c.colType }
func (c *CustomColumn) Options() []string { return c.options }

// Data returns the column's wire representation, including its ID.
func (c *CustomColumn) Data() ColumnData {
	return ColumnData{ID: c.id, Name: c.name, Type: c.colType, Options: c.options}
}

// Validate checks that the column has a name and a supported type.
//
// Select columns must declare at least one option.
func (c *CustomColumn) Validate() error {
	if c.name == "" {
		return fmt.Errorf("missing column name")
	}
	if !ValidColumnType(c.colType) {
		return fmt.Errorf("unsupported column type: %q", c.colType)
	}
	if c.colType == ColumnSelect && len(c.options) == 0 {
		return fmt.Errorf("select column %q requires options", c.name)
	}
	if c.userID == "" {
		return fmt.Errorf("missing user id")
	}
	return nil
}

// CustomValue links a record to a custom column value.
type CustomValue struct {
	RecordID  string    `json:"record_id"`
	ColumnID  string    `json:"column_id"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
