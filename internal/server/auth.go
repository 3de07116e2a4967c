package server

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"crate/internal/models"
	"crate/internal/shared"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

const minPasswordLength = 8

// handleRegister creates an account. Answers 409 when the email is taken.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		writeErr(w, http.StatusBadRequest, "email and password required")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeErr(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	if _, err := s.users.GetByEmail(req.Email); err == nil {
		writeErr(w, http.StatusConflict, "email already registered")
		return
	} else if !errors.Is(err, shared.ErrUserNotFound) {
		s.logger.Error("failed to check email", "error", err)
		writeErr(w, http.StatusInternalServerError, "registration failed")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		writeErr(w, http.StatusInternalServerError, "registration failed")
		return
	}

	user := models.NewUser(0, req.Email, string(hash))
	if err := s.users.Create(user); err != nil {
		s.logger.Error("failed to create user", "error", err)
		writeErr(w, http.StatusBadRequest, "registration failed")
		return
	}

	writeData(w, http.StatusCreated, models.UserData{ID: user.ID(), Email: user.Email()})
}

// handleLogin verifies credentials and issues a bearer token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		writeErr(w, http.StatusBadRequest, "email and password required")
		return
	}

	user, err := s.users.GetByEmail(req.Email)
	if err != nil {
		// Same answer as a bad password so emails can't be probed.
		writeErr(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash()), []byte(req.Password)); err != nil {
		writeErr(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	session := models.NewSession(user.ID(), shared.GenerateID(), s.sessionTTL)
	if err := s.sessions.Create(session); err != nil {
		s.logger.Error("failed to create session", "error", err)
		writeErr(w, http.StatusInternalServerError, "login failed")
		return
	}

	writeData(w, http.StatusOK, models.SessionData{
		AccessToken: session.Token(),
		User:        models.UserData{ID: user.ID(), Email: user.Email()},
	})
}

// handleLogout invalidates the presented token.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.DeleteByToken(bearerToken(r)); err != nil {
		s.logger.Error("failed to delete session", "error", err)
		writeErr(w, http.StatusInternalServerError, "logout failed")
		return
	}
	writeData(w, http.StatusOK, nil)
}
