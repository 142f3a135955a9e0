package server

import (
	"net/http"
	"testing"

	"github.com/pentathlon/bazar/internal/grader"
	"github.com/pentathlon/bazar/internal/shell"
)

func TestListChallenges(t *testing.T) {
	r, _ := testRouter(t, shell.Rules{})

	w := getJSON(t, r, "/api/challenges")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	resp := decode[ChallengeListResponse](t, w)
	if len(resp.Challenges) == 0 {
		t.Fatal("expected at least one challenge")
	}
	if resp.Challenges[0].ID != 1 {
		t.Errorf("expected first challenge id 1, got %d", resp.Challenges[0].ID)
	}
}

func TestGetChallenge(t *testing.T) {
	r, _ := testRouter(t, shell.Rules{})

	w := getJSON(t, r, "/api/challenges/1")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	c := decode[grader.Challenge](t, w)
	if c.Title == "" || c.Template == "" || c.ExpectedOutput == "" {
		t.Errorf("expected a populated challenge, got %+v", c)
	}

	w = getJSON(t, r, "/api/challenges/999")
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown id: expected 404, got %d", w.Code)
	}

	w = getJSON(t, r, "/api/challenges/abc")
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad id: expected 400, got %d", w.Code)
	}
}

func TestGradePerfectSubmission(t *testing.T) {
	r, _ := testRouter(t, shell.Rules{})

	c, ok := grader.ChallengeByID(1)
	if !ok {
		t.Fatal("challenge 1 missing")
	}

	w := postJSON(t, r, "/api/challenges/1/grade",
		GradeRequest{Code: c.ExpectedOutput})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	res := decode[grader.Result](t, w)
	if res.Score != 100 {
		t.Errorf("expected score 100, got %d", res.Score)
	}
	if res.Status != grader.StatusPerfect {
		t.Errorf("expected status %q, got %q", grader.StatusPerfect, res.Status)
	}
	if res.BarPercent != 100 {
		t.Errorf("expected bar 100, got %d", res.BarPercent)
	}
}

func TestGradeUnfilledTemplate(t *testing.T) {
	// The raw template earns partial credit for the shared prefix but cannot
	// score 100: the missing answers shift the positional alignment.
	r, _ := testRouter(t, shell.Rules{})

	c, _ := grader.ChallengeByID(1)
	w := postJSON(t, r, "/api/challenges/1/grade", GradeRequest{Code: c.Template})
	res := decode[grader.Result](t, w)
	if res.Score <= 0 || res.Score >= 100 {
		t.Errorf("expected a score strictly between 0 and 100, got %d", res.Score)
	}
}

func TestGradeEmptySubmission(t *testing.T) {
	r, _ := testRouter(t, shell.Rules{})

	w := postJSON(t, r, "/api/challenges/1/grade", GradeRequest{Code: ""})
	res := decode[grader.Result](t, w)
	if res.Status != grader.StatusError {
		t.Errorf("expected status %q, got %q", grader.StatusError, res.Status)
	}
	if res.BarPercent != 10 {
		t.Errorf("expected bar floored at 10, got %d", res.BarPercent)
	}
}

func TestGradeUnknownChallenge(t *testing.T) {
	r, _ := testRouter(t, shell.Rules{})

	w := postJSON(t, r, "/api/challenges/999/grade", GradeRequest{Code: "x"})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
