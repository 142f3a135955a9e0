// Package shell models the client navigation state: which page is active,
// which buzzer-flow step a device is on, and what the device remembered
// across reloads. All transitions go through one validation path so a
// persisted state can never put an unauthenticated device on the admin page.
package shell

import "strings"

// Page is one of the application's top-level views.
type Page string

const (
	PageBazar   Page = "bazar"   // registration entry + buzzer
	PageCoding  Page = "coding"  // practice coding challenge
	PageDisplay Page = "display" // admin leaderboard
)

// Step is the position inside the buzzer flow.
type Step string

const (
	StepForm   Step = "form"
	StepBuzzer Step = "buzzer"
)

// State is everything a device persists across reloads.
type State struct {
	Page         Page   `json:"page"`
	Step         Step   `json:"step"`
	SchoolName   string `json:"schoolName"`
	SessionToken string `json:"sessionToken"`
}

// Rules configures which transitions are allowed.
type Rules struct {
	// CodingRequiresAuth gates the coding page behind a privileged session.
	CodingRequiresAuth bool
}

// Sanitize falls unknown pages and steps back to their defaults. Auth is
// not consulted; Restore layers that on top.
func Sanitize(s State) State {
	switch s.Page {
	case PageBazar, PageCoding, PageDisplay:
	default:
		s.Page = PageBazar
	}
	switch s.Step {
	case StepForm, StepBuzzer:
	default:
		s.Step = StepForm
	}
	return s
}

// Restore sanitizes a persisted state for a device with the given auth
// status. Unknown pages and steps fall back to defaults, and a remembered
// privileged page is forced back to the entry page for guests.
func (r Rules) Restore(s State, authed bool) State {
	s = Sanitize(s)
	if !r.Allowed(s.Page, authed) {
		s.Page = PageBazar
	}
	return s
}

// Allowed reports whether a device with the given auth status may be on page.
func (r Rules) Allowed(page Page, authed bool) bool {
	switch page {
	case PageDisplay:
		return authed
	case PageCoding:
		return authed || !r.CodingRequiresAuth
	case PageBazar:
		return true
	default:
		return false
	}
}

// SignIn is the forced navigation after a successful privileged sign-in.
func (r Rules) SignIn(s State) State {
	s.Page = PageDisplay
	return s
}

// SignOut returns a device to the entry page after the privileged session
// ends.
func (r Rules) SignOut(s State) State {
	s.Page = PageBazar
	return s
}

// IsLoginPath reports whether path is the login route. The check is a pure
// suffix match so it works when the app is hosted under a subpath.
func IsLoginPath(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), "/login")
}
