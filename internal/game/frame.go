package game

import (
	"fmt"
	"strconv"
)

// Presenter receives a Frame after every state change. It is called from
// inside the session's loop and must not call back into the session.
type Presenter interface {
	Present(Frame)
}

type PresenterFunc func(Frame)

func (f PresenterFunc) Present(fr Frame) { f(fr) }

// Frame is everything the screen shows.
type Frame struct {
	Phase            Phase  `json:"phase"`
	Tier             string `json:"tier"`
	MatchTimeText    string `json:"matchTimeText"`
	QuestionTimeText string `json:"questionTimeText"`
	QuestionText     string `json:"questionText"`
	ScoreText        string `json:"scoreText"`
	HighScoreText    string `json:"highScoreText,omitempty"`
	InputEnabled     bool   `json:"inputEnabled"`
	PlayAgainVisible bool   `json:"playAgainVisible"`
	// AnswerText is always empty; the answer field is cleared after every
	// submission.
	AnswerText string `json:"answerText"`

	Score             int `json:"score"`
	HighScore         int `json:"highScore"`
	MatchRemaining    int `json:"matchRemaining"`
	QuestionRemaining int `json:"questionRemaining"`
}

func render(st State) Frame {
	f := Frame{
		Phase:             st.Phase,
		Tier:              st.Tier.String(),
		ScoreText:         fmt.Sprintf("Score: %d", st.Score),
		Score:             st.Score,
		MatchRemaining:    st.MatchRemaining,
		QuestionRemaining: st.QuestionRemaining,
	}

	switch st.Phase {
	case PhasePlaying:
		f.MatchTimeText = strconv.Itoa(st.MatchRemaining)
		f.QuestionTimeText = fmt.Sprintf("Time Left: %ds", st.QuestionRemaining)
		if st.QuestionExpired {
			f.QuestionTimeText = "Question time over!"
		}
		f.QuestionText = st.Question.String()
		f.InputEnabled = true
	case PhaseEnded:
		f.MatchTimeText = "Time's up!"
		f.QuestionText = st.Question.String()
		f.PlayAgainVisible = true
		f.HighScore = st.HighScore
		f.HighScoreText = fmt.Sprintf("High Score: %d", st.HighScore)
	}
	return f
}
