package quiz

import (
	"errors"
	"math/rand/v2"
	"testing"
)

// scripted replays raw IntN results in order, reduced modulo n.
type scripted struct {
	vals []int
	i    int
}

func (s *scripted) IntN(n int) int {
	if len(s.vals) == 0 {
		return 0
	}
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v % n
}

func TestGenerateWithinLevel(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewPCG(1, 2)))

	for _, tier := range []Tier{Easy, Medium, Hard} {
		t.Run(tier.String(), func(t *testing.T) {
			l := tier.Level()
			for range 2000 {
				q := g.Generate(tier)
				if !l.Contains(q.Operand1) || !l.Contains(q.Operand2) {
					t.Fatalf("operands out of range [%d,%d]: %v", l.Min, l.Max, q)
				}
				if !l.Allows(q.Operator) {
					t.Fatalf("operator %q not allowed for %s", q.Operator, tier)
				}
				if q.Operator == Div && q.Operand1%q.Operand2 != 0 {
					t.Fatalf("uneven division question: %v", q)
				}
				if want := Compute(q.Operator, q.Operand1, q.Operand2); q.Answer != want {
					t.Fatalf("answer = %d, want %d for %v", q.Answer, want, q)
				}
			}
		})
	}
}

func TestGenerateEasyAddition(t *testing.T) {
	// 7 and 3 in [1,10], operator index 0 (+).
	g := NewGenerator(&scripted{vals: []int{6, 2, 0}})

	q := g.Generate(Easy)
	if q.String() != "7 + 3" {
		t.Fatalf("question = %q, want %q", q.String(), "7 + 3")
	}
	if q.Answer != 10 {
		t.Errorf("answer = %d, want 10", q.Answer)
	}
}

func TestGenerateHardRejectsUnevenDivision(t *testing.T) {
	// First draw 10 / 4 is rejected, second draw 12 / 4 is accepted.
	src := &scripted{vals: []int{9, 3, 3, 11, 3, 3}}
	g := NewGenerator(src)

	q := g.Generate(Hard)
	if q.Operand1 != 12 || q.Operand2 != 4 || q.Operator != Div {
		t.Fatalf("question = %v, want 12 / 4", q)
	}
	if q.Answer != 3 {
		t.Errorf("answer = %d, want 3", q.Answer)
	}
	if src.i != 6 {
		t.Errorf("draws = %d, want 6", src.i)
	}
}

func TestGenerateDivisionFallback(t *testing.T) {
	// Always 7 / 2: every draw is rejected until the divisor fallback.
	g := NewGenerator(&scripted{vals: []int{6, 1, 3}})

	q := g.Generate(Hard)
	if q.Operator != Div {
		t.Fatalf("operator = %q, want /", q.Operator)
	}
	if q.Operand1 != 7 {
		t.Errorf("operand1 = %d, want 7", q.Operand1)
	}
	if q.Operand2 != 1 && q.Operand2 != 7 {
		t.Errorf("operand2 = %d, want a divisor of 7", q.Operand2)
	}
	if q.Operand1%q.Operand2 != 0 || q.Answer != q.Operand1/q.Operand2 {
		t.Errorf("invalid fallback question %v = %d", q, q.Answer)
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		op   Operator
		a, b int
		want int
	}{
		{Add, 7, 3, 10},
		{Sub, 3, 7, -4},
		{Mul, 6, 7, 42},
		{Div, 12, 4, 3},
		{Div, 5, 0, 0},
	}
	for _, tt := range tests {
		if got := Compute(tt.op, tt.a, tt.b); got != tt.want {
			t.Errorf("Compute(%q, %d, %d) = %d, want %d", tt.op, tt.a, tt.b, got, tt.want)
		}
	}
}

func TestParseTier(t *testing.T) {
	tests := []struct {
		in      string
		want    Tier
		wantErr bool
	}{
		{"", Easy, false},
		{"easy", Easy, false},
		{" Medium ", Medium, false},
		{"HARD", Hard, false},
		{"impossible", Easy, true},
	}
	for _, tt := range tests {
		got, err := ParseTier(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownTier) {
				t.Errorf("ParseTier(%q) error = %v, want ErrUnknownTier", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseTier(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestTierText(t *testing.T) {
	var tier Tier
	if err := tier.UnmarshalText([]byte("hard")); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if tier != Hard {
		t.Fatalf("tier = %v, want hard", tier)
	}
	b, _ := tier.MarshalText()
	if string(b) != "hard" {
		t.Errorf("marshal = %q, want hard", b)
	}
}
