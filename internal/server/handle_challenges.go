package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pentathlon/bazar/internal/grader"
)

type ChallengeListResponse struct {
	Challenges []grader.Challenge `json:"challenges"`
}

func handleListChallenges() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ChallengeListResponse{Challenges: grader.Challenges()})
	}
}

func handleGetChallenge() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid challenge id")
			return
		}
		c, ok := grader.ChallengeByID(id)
		if !ok {
			writeError(w, http.StatusNotFound, "challenge not found")
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

type GradeRequest struct {
	Code string `json:"code"`
	// ElapsedSeconds is how long the result has been on screen; the
	// encouragement message unlocks after two minutes of partial status.
	ElapsedSeconds int `json:"elapsedSeconds"`
}

func handleGrade() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid challenge id")
			return
		}
		c, ok := grader.ChallengeByID(id)
		if !ok {
			writeError(w, http.StatusNotFound, "challenge not found")
			return
		}

		var req GradeRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		writeJSON(w, http.StatusOK, grader.Grade(req.Code, c.ExpectedOutput, req.ElapsedSeconds))
	}
}
