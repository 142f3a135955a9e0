package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/pentathlon/bazar/internal/grader"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Bazar API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the Bazar buzzer game and leaderboard.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/schools/register
	postRegister, _ := r.NewOperationContext(http.MethodPost, "/api/schools/register")
	postRegister.SetSummary("Register or claim a school")
	postRegister.SetDescription("Registers a school name under the caller's session token, or refreshes an existing claim. Refused when another active session owns the name or when ten schools are already registered.")
	postRegister.AddReqStructure(RegisterRequest{})
	postRegister.AddRespStructure(RegisterResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postRegister.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postRegister.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postRegister)

	// POST /api/buzzer/press
	postPress, _ := r.NewOperationContext(http.MethodPost, "/api/buzzer/press")
	postPress.SetSummary("Press the buzzer")
	postPress.SetDescription("Records a timestamped press for the session-owning school. The press count is incremented server-side.")
	postPress.AddReqStructure(PressRequest{})
	postPress.AddRespStructure(PressResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postPress.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postPress.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postPress)

	// GET /api/leaderboard
	getLeaderboard, _ := r.NewOperationContext(http.MethodGet, "/api/leaderboard")
	getLeaderboard.SetSummary("Leaderboard")
	getLeaderboard.SetDescription("Schools that have pressed, ascending by press time, capped at 100 rows.")
	getLeaderboard.AddRespStructure(LeaderboardResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getLeaderboard)

	// GET /api/leaderboard/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/leaderboard/events")
	getEvents.SetSummary("Change feed (SSE)")
	getEvents.SetDescription("Server-Sent Events stream of schools table changes. Each event is a refetch trigger.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /ws/leaderboard
	getWS, _ := r.NewOperationContext(http.MethodGet, "/ws/leaderboard")
	getWS.SetSummary("Change feed (WebSocket)")
	getWS.SetDescription("WebSocket flavor of the schools change feed.")
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	// GET /api/challenges
	listChallenges, _ := r.NewOperationContext(http.MethodGet, "/api/challenges")
	listChallenges.SetSummary("List coding challenges")
	listChallenges.AddRespStructure(ChallengeListResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listChallenges)

	// GET /api/challenges/{id}
	getChallenge, _ := r.NewOperationContext(http.MethodGet, "/api/challenges/{id}")
	getChallenge.SetSummary("Get coding challenge")
	getChallenge.AddRespStructure(grader.Challenge{}, openapi.WithHTTPStatus(http.StatusOK))
	getChallenge.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getChallenge)

	// POST /api/challenges/{id}/grade
	postGrade, _ := r.NewOperationContext(http.MethodPost, "/api/challenges/{id}/grade")
	postGrade.SetSummary("Grade a submission")
	postGrade.SetDescription("Scores submitted code against the expected output using positional character comparison.")
	postGrade.AddReqStructure(GradeRequest{})
	postGrade.AddRespStructure(grader.Result{}, openapi.WithHTTPStatus(http.StatusOK))
	postGrade.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postGrade)

	// GET /api/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/state")
	getState.SetSummary("Restore navigation state")
	getState.SetDescription("Returns the device's persisted navigation state, sanitized for its current auth status.")
	getState.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getState)

	// PUT /api/state
	putState, _ := r.NewOperationContext(http.MethodPut, "/api/state")
	putState.SetSummary("Persist navigation state")
	putState.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	putState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(putState)

	// POST /api/admin/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/admin/login")
	postLogin.SetSummary("Admin login")
	postLogin.SetDescription("Authenticate with email and password. Sets admin_session cookie.")
	postLogin.AddReqStructure(AdminLoginRequest{})
	postLogin.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/admin/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/admin/logout")
	postLogout.SetSummary("Admin logout")
	postLogout.SetDescription("Clears admin session and cookie.")
	postLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postLogout)

	// GET /api/admin/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/admin/me")
	getMe.SetSummary("Current admin")
	getMe.SetDescription("Returns the currently authenticated admin. Requires admin_session cookie.")
	getMe.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// POST /api/admin/reset
	postReset, _ := r.NewOperationContext(http.MethodPost, "/api/admin/reset")
	postReset.SetSummary("Reset buzzer data")
	postReset.SetDescription("Clears press times and counts on every school, keeping registrations. Requires admin_session cookie.")
	postReset.AddRespStructure(ResetResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postReset.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postReset)

	// POST /api/admin/delete-all
	postDeleteAll, _ := r.NewOperationContext(http.MethodPost, "/api/admin/delete-all")
	postDeleteAll.SetSummary("Delete all school data")
	postDeleteAll.SetDescription("Permanently deletes every school record. Requires admin_session cookie and confirm=DELETE.")
	postDeleteAll.AddReqStructure(DeleteAllRequest{})
	postDeleteAll.AddRespStructure(DeleteAllResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postDeleteAll.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postDeleteAll.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postDeleteAll)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
