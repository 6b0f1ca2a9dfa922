package server

import (
	"net/http"

	"github.com/SREERAM2612/One-minute-Maths-Quiz/internal/game"
	"github.com/SREERAM2612/One-minute-Maths-Quiz/internal/prefs"
)

type HighScoreResponse struct {
	HighScore int `json:"highScore"`
}

func handleHighScore(store prefs.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := store.Get(r.Context(), game.HighScoreKey)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, HighScoreResponse{HighScore: v})
	}
}
