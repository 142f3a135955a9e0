package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/pentathlon/bazar/internal/shell"
)

func handleAdminLogout(logger *slog.Logger, store Store, rules shell.Rules) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(adminCookieName)
		if err == nil && cookie.Value != "" {
			store.DeleteAdminSession(r.Context(), cookie.Value)
		}

		// Signing out returns the device to the entry page.
		if device, err := r.Cookie(deviceCookieName); err == nil && device.Value != "" {
			state, err := store.DeviceState(r.Context(), device.Value)
			if err != nil && !errors.Is(err, ErrNotFound) {
				logger.Error("loading device state failed", "error", err)
			}
			state = rules.SignOut(rules.Restore(state, false))
			if err := store.SaveDeviceState(r.Context(), device.Value, state); err != nil {
				logger.Error("saving device state failed", "error", err)
			}
		}

		http.SetCookie(w, &http.Cookie{
			Name:     adminCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
