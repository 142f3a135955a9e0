package server

import (
	"log/slog"
	"net/http"
)

type ResetResponse struct {
	Status   string `json:"status"`
	Affected int64  `json:"affected"`
}

// handleAdminReset clears press timestamps and counts on every school,
// keeping the registrations. Used to start a new round.
func handleAdminReset(logger *slog.Logger, store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		affected, err := store.ResetPresses(r.Context())
		if err != nil {
			logger.Error("buzzer reset failed", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to reset buzzer data")
			return
		}

		broker.Publish(r.Context(), Event{Type: EventUpdate, Table: schoolsTable})

		logger.Info("buzzer data reset", "affected", affected)
		writeJSON(w, http.StatusOK, ResetResponse{Status: "ok", Affected: affected})
	}
}

type DeleteAllRequest struct {
	// Confirm must be the literal string DELETE. Destroying every school
	// record deserves more friction than a bare POST.
	Confirm string `json:"confirm"`
}

type DeleteAllResponse struct {
	Status  string `json:"status"`
	Deleted int64  `json:"deleted"`
}

func handleAdminDeleteAll(logger *slog.Logger, store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DeleteAllRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Confirm != "DELETE" {
			writeError(w, http.StatusBadRequest, `confirm must be "DELETE"`)
			return
		}

		deleted, err := store.DeleteAllSchools(r.Context())
		if err != nil {
			logger.Error("delete all schools failed", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to delete school data")
			return
		}

		broker.Publish(r.Context(), Event{Type: EventDelete, Table: schoolsTable})

		logger.Info("all school data deleted", "deleted", deleted)
		writeJSON(w, http.StatusOK, DeleteAllResponse{Status: "ok", Deleted: deleted})
	}
}
