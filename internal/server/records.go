package server

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"crate/internal/models"
	"crate/internal/shared"
)

// handleListRecords returns the user's records with custom values attached.
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	owner := userID(r)

	records, err := s.records.List(map[string]any{"user_id": owner})
	if err != nil {
		s.logger.Error("failed to list records", "error", err)
		writeErr(w, http.StatusInternalServerError, "failed to load records")
		return
	}

	values, err := s.columns.ValuesForUser(owner)
	if err != nil {
		s.logger.Error("failed to load custom values", "error", err)
		writeErr(w, http.StatusInternalServerError, "failed to load records")
		return
	}

	data := make([]models.RecordData, 0, len(records))
	for _, record := range records {
		dto := record.Data()
		if recordValues, ok := values[record.ID()]; ok {
			dto.CustomValues = recordValues
		}
		data = append(data, dto)
	}

	writeData(w, http.StatusOK, data)
}

// handleAddRecord stores a new record for the user.
func (s *Server) handleAddRecord(w http.ResponseWriter, r *http.Request) {
	var dto models.RecordData
	if err := decode(r, &dto); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record := models.NewRecord(0, userID(r), dto)
	if err := record.Validate(); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.records.Create(record); err != nil {
		s.logger.Error("failed to create record", "error", err)
		writeErr(w, http.StatusBadRequest, "failed to add record")
		return
	}

	writeData(w, http.StatusCreated, record.Data())
}

// handleDeleteRecord soft-deletes one of the user's records.
func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if _, err := s.records.GetForUser(userID(r), id); err != nil {
		writeRecordErr(w, err, s)
		return
	}

	if err := s.records.Delete(id); err != nil {
		s.logger.Error("failed to delete record", "error", err)
		writeErr(w, http.StatusInternalServerError, "failed to delete record")
		return
	}

	writeData(w, http.StatusOK, nil)
}

type notesRequest struct {
	Notes string `json:"notes"`
}

// handleUpdateNotes replaces the notes on one of the user's records.
func (s *Server) handleUpdateNotes(w http.ResponseWriter, r *http.Request) {
	var req notesRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := s.records.GetForUser(userID(r), mux.Vars(r)["id"])
	if err != nil {
		writeRecordErr(w, err, s)
		return
	}

	record.SetNotes(req.Notes)
	if err := s.records.Update(record); err != nil {
		s.logger.Error("failed to update record", "error", err)
		writeErr(w, http.StatusInternalServerError, "failed to update notes")
		return
	}

	writeData(w, http.StatusOK, record.Data())
}

type valueRequest struct {
	Value string `json:"value"`
}

// handleSetCustomValue writes a custom column value on one of the user's records.
func (s *Server) handleSetCustomValue(w http.ResponseWriter, r *http.Request) {
	var req valueRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}

	vars := mux.Vars(r)
	owner := userID(r)

	if _, err := s.records.GetForUser(owner, vars["id"]); err != nil {
		writeRecordErr(w, err, s)
		return
	}

	column, err := s.columns.Get(vars["columnID"])
	if err != nil || column.UserID() != owner {
		writeErr(w, http.StatusNotFound, "column not found")
		return
	}

	if err := s.columns.SetValue(vars["id"], column.ID(), req.Value); err != nil {
		s.logger.Error("failed to set custom value", "error", err)
		writeErr(w, http.StatusInternalServerError, "failed to save value")
		return
	}

	writeData(w, http.StatusOK, nil)
}

func writeRecordErr(w http.ResponseWriter, err error, s *Server) {
	if errors.Is(err, shared.ErrRecordNotFound) {
		writeErr(w, http.StatusNotFound, "record not found")
		return
	}
	s.logger.Error("failed to load record", "error", err)
	writeErr(w, http.StatusInternalServerError, "failed to load record")
}
