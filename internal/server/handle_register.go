package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pentathlon/bazar/internal/shell"
)

type RegisterRequest struct {
	SchoolName   string `json:"schoolName"`
	SessionToken string `json:"sessionToken"`
}

type RegisterResponse struct {
	School   School     `json:"school"`
	NextStep shell.Step `json:"nextStep"`
}

func handleRegister(logger *slog.Logger, store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.SchoolName = strings.TrimSpace(req.SchoolName)
		if req.SchoolName == "" || req.SessionToken == "" {
			writeError(w, http.StatusBadRequest, "schoolName and sessionToken are required")
			return
		}

		school, created, err := store.ClaimSchool(r.Context(), req.SchoolName, req.SessionToken, time.Now())
		if errors.Is(err, ErrSessionConflict) {
			writeError(w, http.StatusConflict,
				"this school name is already active on another device")
			return
		}
		if errors.Is(err, ErrCapacityFull) {
			writeError(w, http.StatusConflict,
				"maximum number of schools already registered")
			return
		}
		if err != nil {
			logger.Error("claiming school failed", "school", req.SchoolName, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		eventType := EventUpdate
		if created {
			eventType = EventInsert
		}
		broker.Publish(r.Context(), Event{Type: eventType, Table: schoolsTable})

		writeJSON(w, http.StatusOK, RegisterResponse{
			School:   school,
			NextStep: shell.StepBuzzer,
		})
	}
}
