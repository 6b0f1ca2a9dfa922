package server

import (
	"net/http"

	"github.com/SREERAM2612/One-minute-Maths-Quiz/internal/game"
)

// AnswerRequest carries the raw text of the answer field. Text that is not
// an integer is scored as a wrong answer.
type AnswerRequest struct {
	Answer string `json:"answer"`
}

type AnswerResponse struct {
	IsCorrect bool       `json:"isCorrect"`
	Frame     game.Frame `json:"frame"`
}

func handleAnswer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AnswerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		s := sessionFrom(r)
		accepted, correct := s.SubmitText(req.Answer)
		if !accepted {
			writeError(w, http.StatusConflict, "session is not playing")
			return
		}

		writeJSON(w, http.StatusOK, AnswerResponse{IsCorrect: correct, Frame: s.Frame()})
	}
}
