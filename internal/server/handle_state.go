package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pentathlon/bazar/internal/shell"
)

const deviceCookieName = "bazar_device"

// StateResponse carries the restored navigation state plus the facts the
// client needs to apply the same rules locally.
type StateResponse struct {
	State              shell.State `json:"state"`
	Authenticated      bool        `json:"authenticated"`
	CodingRequiresAuth bool        `json:"codingRequiresAuth"`
}

// deviceID returns the device cookie value, minting one when absent.
func deviceID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(deviceCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     deviceCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(365 * 24 * time.Hour / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// handleGetState restores a device's persisted navigation state, forcing it
// off pages its auth status no longer allows.
func handleGetState(logger *slog.Logger, store Store, rules shell.Rules) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := deviceID(w, r)
		_, authErr := adminFromRequest(r, store)
		authed := authErr == nil

		state, err := store.DeviceState(r.Context(), id)
		if err != nil && !errors.Is(err, ErrNotFound) {
			logger.Error("loading device state failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, StateResponse{
			State:              rules.Restore(state, authed),
			Authenticated:      authed,
			CodingRequiresAuth: rules.CodingRequiresAuth,
		})
	}
}

// handlePutState persists a device's navigation state. All writes pass
// through the shell rules, so a guest cannot persist the privileged page.
func handlePutState(logger *slog.Logger, store Store, rules shell.Rules) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var state shell.State
		if err := readJSON(r, &state); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		id := deviceID(w, r)
		_, authErr := adminFromRequest(r, store)
		authed := authErr == nil

		// Unknown values fall back to defaults, same as on restore; 403 is
		// reserved for pages the session genuinely may not hold.
		state = shell.Sanitize(state)
		if !rules.Allowed(state.Page, authed) {
			writeError(w, http.StatusForbidden, "page not allowed for this session")
			return
		}

		if err := store.SaveDeviceState(r.Context(), id, state); err != nil {
			logger.Error("saving device state failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, StateResponse{
			State:              state,
			Authenticated:      authed,
			CodingRequiresAuth: rules.CodingRequiresAuth,
		})
	}
}
