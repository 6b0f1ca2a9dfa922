// Package game implements one quiz screen: a match countdown, a question
// countdown, scoring and the persisted high score.
package game

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/SREERAM2612/One-minute-Maths-Quiz/internal/clock"
	"github.com/SREERAM2612/One-minute-Maths-Quiz/internal/quiz"
)

const (
	DefaultMatchSeconds    = 60
	DefaultQuestionSeconds = 10

	// HighScoreKey is the preference key the best score is stored under.
	HighScoreKey = "highScore"

	storeTimeout = 3 * time.Second
)

type Phase string

const (
	PhaseIdle    Phase = ""
	PhasePlaying Phase = "playing"
	PhaseEnded   Phase = "ended"
)

// Preferences is the persisted key-value store holding the high score.
type Preferences interface {
	Get(ctx context.Context, key string) (int, error)
	Set(ctx context.Context, key string, value int) error
}

// State is a snapshot of a session.
type State struct {
	Phase             Phase
	Tier              quiz.Tier
	Score             int
	Question          quiz.Question
	MatchRemaining    int
	QuestionRemaining int
	// HighScore is set on entering PhaseEnded.
	HighScore int
	// QuestionExpired is true while the current question was dealt because
	// the previous one ran out of time.
	QuestionExpired bool
}

type Config struct {
	Clock           clock.Clock
	Generator       *quiz.Generator
	Prefs           Preferences
	Presenter       Presenter
	Logger          *slog.Logger
	Tier            quiz.Tier
	MatchSeconds    int
	QuestionSeconds int
}

// Session is a single quiz screen. All methods are safe for concurrent use;
// they are serialized with timer callbacks on the session's Loop.
type Session struct {
	loop   clock.Loop
	clock  *clock.GameClock
	gen    *quiz.Generator
	prefs  Preferences
	view   Presenter
	logger *slog.Logger

	matchSeconds    int
	questionSeconds int

	state  State
	closed bool
}

func New(cfg Config) *Session {
	s := &Session{
		gen:             cfg.Generator,
		prefs:           cfg.Prefs,
		view:            cfg.Presenter,
		logger:          cfg.Logger,
		matchSeconds:    cfg.MatchSeconds,
		questionSeconds: cfg.QuestionSeconds,
		state:           State{Tier: cfg.Tier},
	}
	if s.gen == nil {
		s.gen = quiz.NewGenerator(nil)
	}
	if s.view == nil {
		s.view = PresenterFunc(func(Frame) {})
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.matchSeconds <= 0 {
		s.matchSeconds = DefaultMatchSeconds
	}
	if s.questionSeconds <= 0 {
		s.questionSeconds = DefaultQuestionSeconds
	}
	s.clock = clock.NewGameClock(cfg.Clock, &s.loop)
	return s
}

// Start begins a new match, discarding any previous one.
func (s *Session) Start() {
	s.loop.Do(func() {
		if s.closed {
			return
		}
		s.clock.CancelAll()
		s.state = State{
			Phase:          PhasePlaying,
			Tier:           s.state.Tier,
			MatchRemaining: s.matchSeconds,
		}
		s.clock.StartMatch(s.matchSeconds, s.onMatchTick, s.onMatchExpire)
		s.nextQuestion(false)
		s.logger.Info("match started", "tier", s.state.Tier.String(), "seconds", s.matchSeconds)
		s.present()
	})
}

// Restart is Start; it exists for the "play again" control.
func (s *Session) Restart() { s.Start() }

// SetTier selects the difficulty used for the next generated question.
func (s *Session) SetTier(t quiz.Tier) {
	s.loop.Do(func() {
		if s.closed {
			return
		}
		s.state.Tier = t
		s.present()
	})
}

// Submit scores value against the current question and deals the next one.
// It reports whether the submission was accepted and whether it was correct.
// Submissions outside PhasePlaying are ignored.
func (s *Session) Submit(value int) (accepted, correct bool) {
	return s.submit(value, true)
}

// SubmitText parses raw answer text. Text that is not an integer counts as
// a wrong answer.
func (s *Session) SubmitText(raw string) (accepted, correct bool) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	return s.submit(v, err == nil)
}

func (s *Session) submit(value int, parsed bool) (accepted, correct bool) {
	s.loop.Do(func() {
		if s.closed || s.state.Phase != PhasePlaying {
			return
		}
		accepted = true
		correct = parsed && value == s.state.Question.Answer
		if correct {
			s.state.Score++
		}
		s.nextQuestion(false)
		s.present()
	})
	return accepted, correct
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	var st State
	s.loop.Do(func() { st = s.state })
	return st
}

// Frame returns what the screen currently shows.
func (s *Session) Frame() Frame {
	var f Frame
	s.loop.Do(func() { f = render(s.state) })
	return f
}

// Close tears the session down. Timers are cancelled synchronously and all
// later events are ignored.
func (s *Session) Close() {
	s.loop.Do(func() {
		s.closed = true
		s.clock.CancelAll()
	})
}

// nextQuestion runs inside the loop.
func (s *Session) nextQuestion(expired bool) {
	s.state.Question = s.gen.Generate(s.state.Tier)
	s.state.QuestionRemaining = s.questionSeconds
	s.state.QuestionExpired = expired
	s.clock.StartQuestion(s.questionSeconds, s.onQuestionTick, s.onQuestionExpire)
}

func (s *Session) onMatchTick(remaining int) {
	if s.state.Phase != PhasePlaying {
		return
	}
	s.state.MatchRemaining = remaining
	s.present()
}

func (s *Session) onQuestionTick(remaining int) {
	if s.state.Phase != PhasePlaying {
		return
	}
	s.state.QuestionRemaining = remaining
	s.state.QuestionExpired = false
	s.present()
}

func (s *Session) onQuestionExpire() {
	if s.state.Phase != PhasePlaying {
		return
	}
	s.nextQuestion(true)
	s.present()
}

func (s *Session) onMatchExpire() {
	if s.state.Phase != PhasePlaying {
		return
	}
	s.clock.CancelQuestion()
	s.state.Phase = PhaseEnded
	s.state.MatchRemaining = 0
	s.state.QuestionRemaining = 0
	s.state.HighScore = s.settleHighScore()
	s.logger.Info("match ended", "score", s.state.Score, "high_score", s.state.HighScore)
	s.present()
}

// settleHighScore reads the stored best once and writes the current score
// only when it beats it. Store failures are logged and never end the game.
func (s *Session) settleHighScore() int {
	score := s.state.Score
	if s.prefs == nil {
		return score
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	best, err := s.prefs.Get(ctx, HighScoreKey)
	if err != nil {
		s.logger.Error("reading high score", "error", err)
		return score
	}
	if score <= best {
		return best
	}
	if err := s.prefs.Set(ctx, HighScoreKey, score); err != nil {
		s.logger.Error("writing high score", "score", score, "error", err)
		return score
	}
	s.logger.Info("new high score", "score", score, "previous", best)
	return score
}

func (s *Session) present() {
	s.view.Present(render(s.state))
}
