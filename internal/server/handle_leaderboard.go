package server

import (
	"log/slog"
	"net/http"
	"strconv"
)

// leaderboardLimit caps the projection for fast loads.
const leaderboardLimit = 100

type LeaderboardRow struct {
	Rank       int    `json:"rank"`
	Position   string `json:"position"` // ordinal label: 1st, 2nd, ...
	Medal      string `json:"medal"`    // gold, silver, bronze, or empty
	ID         int64  `json:"id"`
	SchoolName string `json:"schoolName"`
	PressedAt  string `json:"pressedAt"`
	CreatedAt  string `json:"createdAt"`
	PressCount int    `json:"pressCount"`
}

type LeaderboardResponse struct {
	Schools []LeaderboardRow `json:"schools"`
}

func handleLeaderboard(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		schools, err := store.Leaderboard(r.Context(), leaderboardLimit)
		if err != nil {
			logger.Error("leaderboard query failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		rows := make([]LeaderboardRow, 0, len(schools))
		for i, sc := range schools {
			rank := i + 1
			row := LeaderboardRow{
				Rank:       rank,
				Position:   ordinal(rank),
				Medal:      medal(rank),
				ID:         sc.ID,
				SchoolName: sc.Name,
				CreatedAt:  sc.CreatedAt,
				PressCount: sc.PressCount,
			}
			if sc.PressedAt != nil {
				row.PressedAt = *sc.PressedAt
			}
			rows = append(rows, row)
		}

		writeJSON(w, http.StatusOK, LeaderboardResponse{Schools: rows})
	}
}

func medal(rank int) string {
	switch rank {
	case 1:
		return "gold"
	case 2:
		return "silver"
	case 3:
		return "bronze"
	default:
		return ""
	}
}

func ordinal(rank int) string {
	suffixes := []string{"th", "st", "nd", "rd"}
	suffix := "th"
	if d := rank % 10; d < len(suffixes) {
		suffix = suffixes[d]
	}
	return strconv.Itoa(rank) + suffix
}
