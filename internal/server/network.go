package server

import (
	"net/http"

	"crate/internal/models"
	"crate/internal/network"
)

// handleMusicianNetwork builds and returns the user's collaboration graph.
func (s *Server) handleMusicianNetwork(w http.ResponseWriter, r *http.Request) {
	owner := userID(r)

	records, err := s.records.List(map[string]any{"user_id": owner})
	if err != nil {
		s.logger.Error("failed to list records", "error", err)
		writeErr(w, http.StatusInternalServerError, "failed to build network")
		return
	}

	columns, err := s.columns.List(map[string]any{"user_id": owner})
	if err != nil {
		s.logger.Error("failed to list columns", "error", err)
		writeErr(w, http.StatusInternalServerError, "failed to build network")
		return
	}

	values, err := s.columns.ValuesForUser(owner)
	if err != nil {
		s.logger.Error("failed to load custom values", "error", err)
		writeErr(w, http.StatusInternalServerError, "failed to build network")
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

	definitions := make([]models.ColumnData, 0, len(columns))
	for _, column := range columns {
		definitions = append(definitions, column.Data())
	}

	writeData(w, http.StatusOK, network.BuildGraph(data, definitions))
}
