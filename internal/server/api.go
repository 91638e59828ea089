package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/lox/rangelab/internal/scenario"
	"github.com/lox/rangelab/internal/vision"
)

const maxImageBytes = 10 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK")
}

func (s *Server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	list, err := s.store.List(r.Context())
	if err != nil {
		s.serverError(w, "list scenarios", err)
		return
	}
	if list == nil {
		list = []scenario.Scenario{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleSaveScenario(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	var req SaveScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid scenario: " + err.Error()})
		return
	}

	sc, err := s.store.Save(r.Context(), req.Name, req.HeroRange, req.VillainRange)
	if err != nil {
		s.serverError(w, "save scenario", err)
		return
	}
	s.logger.Info("Scenario saved", "id", sc.ID, "name", sc.Name)
	writeJSON(w, http.StatusCreated, sc)
}

func (s *Server) handleDeleteScenario(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id := r.PathValue("id")
	err := s.store.Delete(r.Context(), id)
	switch {
	case errors.Is(err, scenario.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case err != nil:
		s.serverError(w, "delete scenario", err)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleExportScenarios(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", scenario.ExportFilename(s.clock.Now())))
	if err := scenario.Export(r.Context(), s.store, w); err != nil {
		s.logger.Error("Export failed", "error", err)
	}
}

func (s *Server) handleAnalyzeBoard(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeBoardRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxImageBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing or invalid base64Image in body"})
		return
	}
	image, err := base64.StdEncoding.DecodeString(req.Base64Image)
	if err != nil || len(image) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing or invalid base64Image in body"})
		return
	}

	reading, err := s.oracle.Analyze(r.Context(), image)
	if err != nil {
		if errors.Is(err, vision.ErrEmptyImage) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		s.serverError(w, "analyze image", err)
		return
	}

	status := http.StatusOK
	if reading.Demo {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, reading)
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "scenario storage is not configured"})
		return false
	}
	return true
}

func (s *Server) serverError(w http.ResponseWriter, action string, err error) {
	s.logger.Error("Request failed", "action", action, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: action + " failed"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
