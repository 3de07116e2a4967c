package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"crate/internal/models"
	"crate/internal/shared"
)

// SessionRepository persists bearer tokens for authenticated users.
//
// Sessions are hard-deleted on logout and lazily evicted when expired.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session with a generated ID
func (r *SessionRepository) Create(session *models.Session) error {
	id := shared.GenerateID()
	session.SetID(id)

	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO sessions (id, token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, id, session.Token(), session.UserID(), session.CreatedAt(), session.ExpiresAt())
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

// GetByToken retrieves a session by its token value.
//
// Expired sessions are deleted on read and reported as [shared.ErrSessionExpired].
func (r *SessionRepository) GetByToken(token string) (*models.Session, error) {
	query := `
		SELECT id, token, user_id, created_at, expires_at
		FROM sessions
		WHERE token = ?
	`

	var (
		id        string
		tok       string
		userID    string
		createdAt time.Time
		expiresAt time.Time
	)

	err := r.db.QueryRow(query, token).Scan(&id, &tok, &userID, &createdAt, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, shared.ErrNotAuthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}

	session := models.NewSession(userID, tok, 0)
	session.SetID(id)
	session.SetCreatedAt(createdAt)
	session.SetExpiresAt(expiresAt)

	if session.Expired() {
		_ = r.DeleteByToken(tok)
		return nil, shared.ErrSessionExpired
	}

	return session, nil
}

// DeleteByToken removes a session by its token value
func (r *SessionRepository) DeleteByToken(token string) error {
	_, err := r.db.Exec("DELETE FROM sessions WHERE token = ?", token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteForUser removes all sessions belonging to a user
func (r *SessionRepository) DeleteForUser(userID string) error {
	_, err := r.db.Exec("DELETE FROM sessions WHERE user_id = ?", userID)
	if err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	return nil
}
