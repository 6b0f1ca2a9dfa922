package server

import (
	"errors"
	"net/http"

	"github.com/SREERAM2612/One-minute-Maths-Quiz/internal/game"
	"github.com/SREERAM2612/One-minute-Maths-Quiz/internal/quiz"
)

type CreateSessionRequest struct {
	Tier string `json:"tier"`
}

type RestartRequest struct {
	Tier *string `json:"tier,omitempty"`
}

type TierRequest struct {
	Tier string `json:"tier"`
}

type SessionResponse struct {
	ID    string     `json:"id"`
	Frame game.Frame `json:"frame"`
}

func handleCreateSession(sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateSessionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		tier, err := quiz.ParseTier(req.Tier)
		if err != nil {
			writeError(w, http.StatusBadRequest, "tier must be easy, medium or hard")
			return
		}

		id, s, err := sessions.Create(tier)
		if errors.Is(err, ErrTooManySessions) {
			writeError(w, http.StatusServiceUnavailable, "too many active sessions")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, SessionResponse{ID: id, Frame: s.Frame()})
	}
}

func handleGetSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, SessionResponse{
			ID:    sessionIDFrom(r),
			Frame: sessionFrom(r).Frame(),
		})
	}
}

func handleDeleteSession(sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sessions.Remove(sessionIDFrom(r)); err != nil {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleRestart is the "play again" control. An optional tier is applied
// before the new match starts.
func handleRestart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RestartRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		s := sessionFrom(r)
		if req.Tier != nil {
			tier, err := quiz.ParseTier(*req.Tier)
			if err != nil {
				writeError(w, http.StatusBadRequest, "tier must be easy, medium or hard")
				return
			}
			s.SetTier(tier)
		}
		s.Restart()

		writeJSON(w, http.StatusOK, SessionResponse{ID: sessionIDFrom(r), Frame: s.Frame()})
	}
}

func handleSetTier() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TierRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		tier, err := quiz.ParseTier(req.Tier)
		if err != nil || req.Tier == "" {
			writeError(w, http.StatusBadRequest, "tier must be easy, medium or hard")
			return
		}

		s := sessionFrom(r)
		s.SetTier(tier)
		writeJSON(w, http.StatusOK, SessionResponse{ID: sessionIDFrom(r), Frame: s.Frame()})
	}
}
