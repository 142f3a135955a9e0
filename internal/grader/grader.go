// Package grader scores submitted code against an expected solution using a
// positional character comparison. It is deliberately not an edit-distance
// measure: an insertion or deletion shifts the alignment of everything after
// it, so partial credit drops off quickly. That matches how the challenges
// are built — fill-in-the-blank templates where the surrounding text is fixed.
package grader

import (
	"math"
	"strings"
)

// Status classifies a match score.
type Status string

const (
	StatusPerfect Status = "perfect"
	StatusPartial Status = "partial"
	StatusError   Status = "error"
)

// EncouragementTicks is how many one-second ticks a partial result may sit
// before the UI shows an extra "keep trying" message.
const EncouragementTicks = 120

// Placeholder marks a blank to fill in a challenge template.
const Placeholder = "___"

// Normalize lowercases s, strips placeholder markers, collapses whitespace
// runs to single spaces, and trims.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, Placeholder, "")
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// Score compares submitted against expected and returns an integer percent
// in [0, 100]. Equal normalized strings score 100; otherwise characters are
// compared at equal indexes up to the shorter length and the match count is
// divided by the longer length.
func Score(submitted, expected string) int {
	a := Normalize(submitted)
	b := Normalize(expected)

	if a == b {
		return 100
	}

	total := max(len(a), len(b))
	if total == 0 {
		return 100
	}

	matches := 0
	for i := 0; i < min(len(a), len(b)); i++ {
		if a[i] == b[i] {
			matches++
		}
	}

	return int(math.Round(float64(matches) / float64(total) * 100))
}

// Classify maps a score to a status: 100 is perfect, 70 and above partial,
// anything lower an error.
func Classify(score int) Status {
	switch {
	case score == 100:
		return StatusPerfect
	case score >= 70:
		return StatusPartial
	default:
		return StatusError
	}
}

// BarPercent is the width of the progress bar shown for a result. Error
// results are floored at 10 so the bar stays visible.
func BarPercent(status Status, score int) int {
	if status == StatusError {
		return max(score, 10)
	}
	return score
}

// Encouragement reports whether the extra "keep trying" message should show:
// a partial result that has been on screen for at least EncouragementTicks
// seconds.
func Encouragement(status Status, elapsedSeconds int) bool {
	return status == StatusPartial && elapsedSeconds >= EncouragementTicks
}

// Result is a fully graded submission.
type Result struct {
	Score         int    `json:"score"`
	Status        Status `json:"status"`
	BarPercent    int    `json:"barPercent"`
	Encouragement bool   `json:"encouragement"`
}

// Grade scores a submission against a challenge's expected output.
func Grade(submitted, expected string, elapsedSeconds int) Result {
	score := Score(submitted, expected)
	status := Classify(score)
	return Result{
		Score:         score,
		Status:        status,
		BarPercent:    BarPercent(status, score),
		Encouragement: Encouragement(status, elapsedSeconds),
	}
}
