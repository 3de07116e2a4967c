package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"crate/internal/models"
)

// handleListColumns returns the user's custom column definitions.
func (s *Server) handleListColumns(w http.ResponseWriter, r *http.Request) {
	columns, err := s.columns.List(map[string]any{"user_id": userID(r)})
	if err != nil {
		s.logger.Error("failed to list columns", "error", err)
		writeErr(w, http.StatusInternalServerError, "failed to load columns")
		return
	}

	data := make([]models.ColumnData, 0, len(columns))
	for _, column := range columns {
		data = append(data, column.Data())
	}

	writeData(w, http.StatusOK, data)
}

// handleAddColumn creates a custom column definition.
func (s *Server) handleAddColumn(w http.ResponseWriter, r *http.Request) {
	var dto models.ColumnData
	if err := decode(r, &dto); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}

	column := models.NewCustomColumn(0, userID(r), dto)
	if err := column.Validate(); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.columns.Create(column); err != nil {
		s.logger.Error("failed to create column", "error", err)
		writeErr(w, http.StatusBadRequest, "failed to add column")
		return
	}

	writeData(w, http.StatusCreated, column.Data())
}

// handleDeleteColumn soft-deletes a custom column definition.
func (s *Server) handleDeleteColumn(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	column, err := s.columns.Get(id)
	if err != nil || column.UserID() != userID(r) {
		writeErr(w, http.StatusNotFound, "column not found")
		return
	}

	if err := s.columns.Delete(id); err != nil {
		s.logger.Error("failed to delete column", "error", err)
		writeErr(w, http.StatusInternalServerError, "failed to delete column")
		return
	}

	writeData(w, http.StatusOK, nil)
}
