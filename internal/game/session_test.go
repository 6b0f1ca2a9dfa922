package game

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"testing"
	"time"

	"github.com/SREERAM2612/One-minute-Maths-Quiz/internal/clock/clocktest"
	"github.com/SREERAM2612/One-minute-Maths-Quiz/internal/quiz"
)

// cycle replays raw IntN results forever, reduced modulo n.
type cycle struct {
	vals []int
	i    int
}

func (c *cycle) IntN(n int) int {
	v := c.vals[c.i%len(c.vals)]
	c.i++
	return v % n
}

type fakePrefs struct {
	vals   map[string]int
	gets   int
	sets   int
	getErr error
}

func (p *fakePrefs) Get(_ context.Context, key string) (int, error) {
	p.gets++
	if p.getErr != nil {
		return 0, p.getErr
	}
	return p.vals[key], nil
}

func (p *fakePrefs) Set(_ context.Context, key string, v int) error {
	p.sets++
	p.vals[key] = v
	return nil
}

type frames struct {
	all []Frame
}

func (f *frames) Present(fr Frame) { f.all = append(f.all, fr) }

func (f *frames) last() Frame { return f.all[len(f.all)-1] }

type harness struct {
	s     *Session
	clock *clocktest.Fake
	prefs *fakePrefs
	view  *frames
}

func newHarness(t *testing.T, src quiz.Source, stored int) *harness {
	t.Helper()
	h := &harness{
		clock: clocktest.New(),
		prefs: &fakePrefs{vals: map[string]int{HighScoreKey: stored}},
		view:  &frames{},
	}
	h.s = New(Config{
		Clock:     h.clock,
		Generator: quiz.NewGenerator(src),
		Prefs:     h.prefs,
		Presenter: h.view,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	t.Cleanup(h.s.Close)
	return h
}

// sevenPlusThree always deals "7 + 3" on Easy.
func sevenPlusThree() quiz.Source { return &cycle{vals: []int{6, 2, 0}} }

func TestStartShowsFirstQuestion(t *testing.T) {
	h := newHarness(t, sevenPlusThree(), 0)
	h.s.Start()

	f := h.view.last()
	if f.Phase != PhasePlaying {
		t.Fatalf("phase = %q, want playing", f.Phase)
	}
	if f.QuestionText != "7 + 3" {
		t.Errorf("question = %q, want %q", f.QuestionText, "7 + 3")
	}
	if f.MatchTimeText != "60" || f.QuestionTimeText != "Time Left: 10s" {
		t.Errorf("timers = %q / %q", f.MatchTimeText, f.QuestionTimeText)
	}
	if f.ScoreText != "Score: 0" || !f.InputEnabled || f.PlayAgainVisible {
		t.Errorf("unexpected frame %+v", f)
	}

	h.clock.Advance(time.Second)
	f = h.view.last()
	if f.MatchTimeText != "59" || f.QuestionTimeText != "Time Left: 9s" {
		t.Errorf("after 1s timers = %q / %q", f.MatchTimeText, f.QuestionTimeText)
	}
}

func TestSubmitScoresCorrectAnswer(t *testing.T) {
	h := newHarness(t, sevenPlusThree(), 0)
	h.s.Start()

	if accepted, correct := h.s.Submit(10); !accepted || !correct {
		t.Fatalf("Submit(10) = %v, %v, want accepted and correct", accepted, correct)
	}
	if got := h.s.State().Score; got != 1 {
		t.Fatalf("score = %d, want 1", got)
	}

	if _, correct := h.s.Submit(4); correct {
		t.Error("Submit(4) reported correct")
	}
	if got := h.s.State().Score; got != 1 {
		t.Errorf("score after wrong answer = %d, want 1", got)
	}
	if f := h.view.last(); f.ScoreText != "Score: 1" || f.AnswerText != "" {
		t.Errorf("frame after submissions = %+v", f)
	}
}

func TestSubmitTextRejectsNonNumeric(t *testing.T) {
	h := newHarness(t, sevenPlusThree(), 0)
	h.s.Start()

	for _, raw := range []string{"", "   ", "ten", "10.0", "1e1", "--10"} {
		accepted, correct := h.s.SubmitText(raw)
		if !accepted || correct {
			t.Errorf("SubmitText(%q) = %v, %v, want accepted and wrong", raw, accepted, correct)
		}
	}
	if got := h.s.State().Score; got != 0 {
		t.Errorf("score = %d, want 0", got)
	}

	if _, correct := h.s.SubmitText(" 10 "); !correct {
		t.Error(`SubmitText(" 10 ") not correct`)
	}
}

func TestCorrectAnswersInARow(t *testing.T) {
	h := newHarness(t, rand.New(rand.NewPCG(7, 11)), 0)
	h.s.SetTier(quiz.Hard)
	h.s.Start()

	const n = 25
	for range n {
		h.s.Submit(h.s.State().Question.Answer)
	}
	if got := h.s.State().Score; got != n {
		t.Fatalf("score = %d, want %d", got, n)
	}
}

func TestQuestionTimeout(t *testing.T) {
	h := newHarness(t, rand.New(rand.NewPCG(1, 1)), 0)
	h.s.Start()

	h.clock.Advance(10 * time.Second)

	st := h.s.State()
	if !st.QuestionExpired {
		t.Fatal("question did not expire after 10s")
	}
	if st.QuestionRemaining != DefaultQuestionSeconds {
		t.Errorf("question remaining = %d, want %d", st.QuestionRemaining, DefaultQuestionSeconds)
	}
	if st.Score != 0 {
		t.Errorf("score = %d, want 0", st.Score)
	}
	if h.view.last().QuestionTimeText != "Question time over!" {
		t.Errorf("question caption = %q", h.view.last().QuestionTimeText)
	}

	h.clock.Advance(time.Second)
	if got := h.s.State().QuestionRemaining; got != 9 {
		t.Errorf("question remaining after a tick = %d, want 9", got)
	}
}

func TestSubmitRestartsQuestionTimer(t *testing.T) {
	h := newHarness(t, sevenPlusThree(), 0)
	h.s.Start()

	h.clock.Advance(9 * time.Second)
	h.s.Submit(10)
	h.clock.Advance(9 * time.Second)

	st := h.s.State()
	if st.QuestionExpired {
		t.Fatal("question expired although it was answered 9s ago")
	}
	if st.QuestionRemaining != 1 {
		t.Errorf("question remaining = %d, want 1", st.QuestionRemaining)
	}
	if st.MatchRemaining != 42 {
		t.Errorf("match remaining = %d, want 42", st.MatchRemaining)
	}
}

func TestMatchEnd(t *testing.T) {
	tests := []struct {
		name      string
		stored    int
		correct   int
		wantHigh  int
		wantWrite bool
	}{
		{name: "new high score", stored: 1, correct: 3, wantHigh: 3, wantWrite: true},
		{name: "below high score", stored: 5, correct: 2, wantHigh: 5, wantWrite: false},
		{name: "equal to high score", stored: 2, correct: 2, wantHigh: 2, wantWrite: false},
		{name: "first game", stored: 0, correct: 1, wantHigh: 1, wantWrite: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, sevenPlusThree(), tt.stored)
			h.s.Start()
			for range tt.correct {
				h.s.Submit(10)
			}
			if h.prefs.gets != 0 {
				t.Fatal("store read while playing")
			}

			h.clock.Advance(60 * time.Second)

			st := h.s.State()
			if st.Phase != PhaseEnded {
				t.Fatalf("phase = %q, want ended", st.Phase)
			}
			if st.HighScore != tt.wantHigh {
				t.Errorf("high score = %d, want %d", st.HighScore, tt.wantHigh)
			}
			if h.prefs.gets != 1 {
				t.Errorf("store reads = %d, want 1", h.prefs.gets)
			}
			if wrote := h.prefs.sets == 1; wrote != tt.wantWrite {
				t.Errorf("store written = %v, want %v", wrote, tt.wantWrite)
			}
			if got := h.prefs.vals[HighScoreKey]; got != tt.wantHigh {
				t.Errorf("stored high score = %d, want %d", got, tt.wantHigh)
			}
			if n := h.clock.Pending(); n != 0 {
				t.Errorf("pending timers after end = %d, want 0", n)
			}

			f := h.view.last()
			if f.MatchTimeText != "Time's up!" || f.InputEnabled || !f.PlayAgainVisible {
				t.Errorf("ended frame = %+v", f)
			}
			if want := "High Score: " + strconv.Itoa(tt.wantHigh); f.HighScoreText != want {
				t.Errorf("high score text = %q, want %q", f.HighScoreText, want)
			}
		})
	}
}

func TestSubmitAfterEndIgnored(t *testing.T) {
	h := newHarness(t, sevenPlusThree(), 0)
	h.s.Start()
	h.s.Submit(10)
	h.clock.Advance(60 * time.Second)

	presented := len(h.view.all)
	if accepted, _ := h.s.Submit(10); accepted {
		t.Error("submission accepted after match end")
	}
	h.s.SubmitText("10")
	h.clock.Advance(time.Minute)

	if got := h.s.State().Score; got != 1 {
		t.Errorf("score = %d, want 1", got)
	}
	if len(h.view.all) != presented {
		t.Errorf("frames presented after end = %d", len(h.view.all)-presented)
	}
	if h.prefs.gets != 1 {
		t.Errorf("store reads = %d, want 1", h.prefs.gets)
	}
}

func TestRestartAfterEnd(t *testing.T) {
	h := newHarness(t, sevenPlusThree(), 0)
	h.s.Start()
	h.s.Submit(10)
	h.s.Submit(10)
	h.clock.Advance(60 * time.Second)

	h.s.Restart()

	st := h.s.State()
	if st.Phase != PhasePlaying || st.Score != 0 {
		t.Fatalf("after restart phase=%q score=%d", st.Phase, st.Score)
	}
	if st.MatchRemaining != DefaultMatchSeconds || st.QuestionRemaining != DefaultQuestionSeconds {
		t.Errorf("timers = %d/%d, want fresh", st.MatchRemaining, st.QuestionRemaining)
	}
	if n := h.clock.Pending(); n != 2 {
		t.Errorf("pending timers = %d, want 2", n)
	}
	if f := h.view.last(); !f.InputEnabled || f.PlayAgainVisible || f.HighScoreText != "" {
		t.Errorf("restart frame = %+v", f)
	}

	h.clock.Advance(60 * time.Second)
	if h.prefs.gets != 2 {
		t.Errorf("store reads = %d, want 2", h.prefs.gets)
	}
}

func TestRestartWhilePlayingReplacesTimers(t *testing.T) {
	h := newHarness(t, sevenPlusThree(), 0)
	h.s.Start()
	h.clock.Advance(30 * time.Second)
	h.s.Restart()
	h.clock.Advance(45 * time.Second)

	st := h.s.State()
	if st.Phase != PhasePlaying {
		t.Fatalf("phase = %q, want playing: the first match timer leaked", st.Phase)
	}
	if st.MatchRemaining != 15 {
		t.Errorf("match remaining = %d, want 15", st.MatchRemaining)
	}
}

func TestSetTierAppliesToNextQuestion(t *testing.T) {
	h := newHarness(t, rand.New(rand.NewPCG(3, 4)), 0)
	h.s.Start()
	h.s.SetTier(quiz.Hard)

	seenHard := false
	for range 200 {
		h.s.SubmitText("x")
		q := h.s.State().Question
		if q.Operator == quiz.Div || q.Operand1 > 20 || q.Operand2 > 20 {
			seenHard = true
			break
		}
	}
	if !seenHard {
		t.Error("no hard question dealt after switching tier")
	}
	if got := h.view.last().Tier; got != "hard" {
		t.Errorf("frame tier = %q, want hard", got)
	}
}

func TestCloseStopsTimers(t *testing.T) {
	h := newHarness(t, sevenPlusThree(), 0)
	h.s.Start()
	h.s.Close()

	presented := len(h.view.all)
	h.clock.Advance(2 * time.Minute)
	h.s.Submit(10)
	h.s.SetTier(quiz.Hard)
	h.s.Start()

	if len(h.view.all) != presented {
		t.Errorf("frames after close = %d", len(h.view.all)-presented)
	}
	if h.prefs.gets != 0 {
		t.Errorf("store read after close")
	}
	if got := h.s.State().Tier; got != quiz.Easy {
		t.Errorf("tier after close = %v, want easy", got)
	}
}

func TestStoreReadFailureKeepsGameAlive(t *testing.T) {
	h := newHarness(t, sevenPlusThree(), 0)
	h.prefs.getErr = errors.New("disk gone")
	h.s.Start()
	h.s.Submit(10)
	h.clock.Advance(60 * time.Second)

	st := h.s.State()
	if st.Phase != PhaseEnded {
		t.Fatalf("phase = %q, want ended", st.Phase)
	}
	if st.HighScore != 1 {
		t.Errorf("high score = %d, want the current score", st.HighScore)
	}
	if h.prefs.sets != 0 {
		t.Error("store written after a failed read")
	}

	h.s.Restart()
	if h.s.State().Phase != PhasePlaying {
		t.Error("restart failed after store error")
	}
}
