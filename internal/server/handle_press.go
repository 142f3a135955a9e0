package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

type PressRequest struct {
	SchoolName   string `json:"schoolName"`
	SessionToken string `json:"sessionToken"`
}

type PressResponse struct {
	SchoolName string `json:"schoolName"`
	PressedAt  string `json:"pressedAt"`
	PressCount int    `json:"pressCount"`
}

func handlePress(logger *slog.Logger, store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PressRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.SchoolName = strings.TrimSpace(req.SchoolName)
		if req.SchoolName == "" || req.SessionToken == "" {
			writeError(w, http.StatusBadRequest, "schoolName and sessionToken are required")
			return
		}

		school, err := store.PressBuzzer(r.Context(), req.SchoolName, req.SessionToken, time.Now())
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "school is not registered")
			return
		}
		if errors.Is(err, ErrSessionConflict) {
			writeError(w, http.StatusConflict,
				"another device is already using this school name")
			return
		}
		if err != nil {
			logger.Error("buzzer press failed", "school", req.SchoolName, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		broker.Publish(r.Context(), Event{Type: EventUpdate, Table: schoolsTable})

		resp := PressResponse{
			SchoolName: school.Name,
			PressCount: school.PressCount,
		}
		if school.PressedAt != nil {
			resp.PressedAt = *school.PressedAt
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
