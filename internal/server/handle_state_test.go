package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pentathlon/bazar/internal/shell"
)

func deviceCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range w.Result().Cookies() {
		if c.Name == deviceCookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("expected a device cookie")
	return nil
}

func TestGetStateMintsDeviceCookie(t *testing.T) {
	r, _ := testRouter(t, shell.Rules{})

	w := getJSON(t, r, "/api/state")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	deviceCookie(t, w)

	resp := decode[StateResponse](t, w)
	if resp.State.Page != shell.PageBazar {
		t.Errorf("expected default page %q, got %q", shell.PageBazar, resp.State.Page)
	}
	if resp.State.Step != shell.StepForm {
		t.Errorf("expected default step %q, got %q", shell.StepForm, resp.State.Step)
	}
	if resp.Authenticated {
		t.Error("expected unauthenticated")
	}
}

func TestPutStateRoundTrips(t *testing.T) {
	r, _ := testRouter(t, shell.Rules{})

	w := getJSON(t, r, "/api/state")
	cookie := deviceCookie(t, w)

	req := httptest.NewRequest(http.MethodPut, "/api/state",
		jsonBody(t, shell.State{Page: shell.PageBazar, Step: shell.StepBuzzer, SchoolName: "Kamehameha"}))
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("put: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = getJSON(t, r, "/api/state", cookie)
	resp := decode[StateResponse](t, w)
	if resp.State.Step != shell.StepBuzzer {
		t.Errorf("expected step %q, got %q", shell.StepBuzzer, resp.State.Step)
	}
	if resp.State.SchoolName != "Kamehameha" {
		t.Errorf("expected school 'Kamehameha', got %q", resp.State.SchoolName)
	}
}

func TestPutStateGuestCannotPersistDisplay(t *testing.T) {
	r, _ := testRouter(t, shell.Rules{})

	req := httptest.NewRequest(http.MethodPut, "/api/state",
		jsonBody(t, shell.State{Page: shell.PageDisplay}))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestPutStateUnknownPageDefaults(t *testing.T) {
	// Unknown values are defaulted on write, mirroring what restore does on
	// read, so both paths agree on the stored state.
	r, _ := testRouter(t, shell.Rules{})

	req := httptest.NewRequest(http.MethodPut, "/api/state",
		jsonBody(t, shell.State{Page: "garbage", Step: "nope"}))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := decode[StateResponse](t, w)
	if resp.State.Page != shell.PageBazar {
		t.Errorf("expected page %q, got %q", shell.PageBazar, resp.State.Page)
	}
	if resp.State.Step != shell.StepForm {
		t.Errorf("expected step %q, got %q", shell.StepForm, resp.State.Step)
	}
}

func TestGetStateForcesGuestOffDisplay(t *testing.T) {
	r, store := testRouter(t, shell.Rules{})
	if err := SeedAdmin(t.Context(), testLogger(), store, "admin@bazar.local", "hunter2"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	admin := loginAdmin(t, r)
	w := getJSON(t, r, "/api/state", admin)
	device := deviceCookie(t, w)

	// An admin persists the display page.
	req := httptest.NewRequest(http.MethodPut, "/api/state",
		jsonBody(t, shell.State{Page: shell.PageDisplay}))
	req.AddCookie(admin)
	req.AddCookie(device)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin put: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// The same device without the admin session lands back on the entry page.
	w = getJSON(t, r, "/api/state", device)
	resp := decode[StateResponse](t, w)
	if resp.State.Page != shell.PageBazar {
		t.Errorf("expected page %q for guest, got %q", shell.PageBazar, resp.State.Page)
	}
	if resp.Authenticated {
		t.Error("expected unauthenticated without the admin cookie")
	}
}

func TestLoginAndLogoutMoveTheDevice(t *testing.T) {
	r, store := testRouter(t, shell.Rules{})
	if err := SeedAdmin(t.Context(), testLogger(), store, "admin@bazar.local", "hunter2"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	w := getJSON(t, r, "/api/state")
	device := deviceCookie(t, w)

	// Login with the device cookie lands the device on the display page.
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login",
		jsonBody(t, AdminLoginRequest{Email: "admin@bazar.local", Password: "hunter2"}))
	req.AddCookie(device)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var admin *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == adminCookieName && c.Value != "" {
			admin = c
		}
	}
	if admin == nil {
		t.Fatal("login: expected an admin_session cookie")
	}

	w = getJSON(t, r, "/api/state", device, admin)
	resp := decode[StateResponse](t, w)
	if resp.State.Page != shell.PageDisplay {
		t.Errorf("after login: expected page %q, got %q", shell.PageDisplay, resp.State.Page)
	}

	// Logout returns it to the entry page.
	req = httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil)
	req.AddCookie(device)
	req.AddCookie(admin)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", rec.Code)
	}

	w = getJSON(t, r, "/api/state", device)
	resp = decode[StateResponse](t, w)
	if resp.State.Page != shell.PageBazar {
		t.Errorf("after logout: expected page %q, got %q", shell.PageBazar, resp.State.Page)
	}
}

func TestPutStateCodingToggle(t *testing.T) {
	// Default: coding is open to guests.
	r, _ := testRouter(t, shell.Rules{})
	req := httptest.NewRequest(http.MethodPut, "/api/state",
		jsonBody(t, shell.State{Page: shell.PageCoding}))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("open coding: expected 200, got %d", w.Code)
	}

	// Gated: guests are refused.
	r, _ = testRouter(t, shell.Rules{CodingRequiresAuth: true})
	req = httptest.NewRequest(http.MethodPut, "/api/state",
		jsonBody(t, shell.State{Page: shell.PageCoding}))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("gated coding: expected 403, got %d", w.Code)
	}

	resp := getJSON(t, r, "/api/state")
	state := decode[StateResponse](t, resp)
	if !state.CodingRequiresAuth {
		t.Error("expected codingRequiresAuth to be reported")
	}
}
