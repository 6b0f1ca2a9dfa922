// Package quiz defines the arithmetic question domain: difficulty tiers,
// operators, questions and the generator that draws them.
// It has zero external dependencies.
package quiz

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownTier = errors.New("unknown difficulty tier")

type Tier int

const (
	Easy Tier = iota
	Medium
	Hard
)

func (t Tier) String() string {
	switch t {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// ParseTier accepts the lower-case tier names. An empty string selects Easy.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	default:
		return Easy, fmt.Errorf("%w: %q", ErrUnknownTier, s)
	}
}

func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tier) UnmarshalText(b []byte) error {
	v, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

type Operator string

const (
	Add Operator = "+"
	Sub Operator = "-"
	Mul Operator = "*"
	Div Operator = "/"
)

// Level is the operand range (inclusive) and operator set of a tier.
type Level struct {
	Min       int
	Max       int
	Operators []Operator
}

var levels = map[Tier]Level{
	Easy:   {Min: 1, Max: 10, Operators: []Operator{Add, Sub}},
	Medium: {Min: 1, Max: 20, Operators: []Operator{Add, Sub, Mul}},
	Hard:   {Min: 1, Max: 50, Operators: []Operator{Add, Sub, Mul, Div}},
}

// Level returns the tier's level. Unknown tiers fall back to Easy.
func (t Tier) Level() Level {
	if l, ok := levels[t]; ok {
		return l
	}
	return levels[Easy]
}

func (l Level) Contains(n int) bool { return n >= l.Min && n <= l.Max }

func (l Level) Allows(op Operator) bool {
	for _, o := range l.Operators {
		if o == op {
			return true
		}
	}
	return false
}

// Question is immutable once generated.
type Question struct {
	Operand1 int      `json:"operand1"`
	Operand2 int      `json:"operand2"`
	Operator Operator `json:"operator"`
	Answer   int      `json:"-"`
}

func (q Question) String() string {
	return fmt.Sprintf("%d %s %d", q.Operand1, q.Operator, q.Operand2)
}

// Compute applies op to a and b. Division by zero yields 0.
func Compute(op Operator, a, b int) int {
	switch op {
	case Add:
		return a + b
	case Sub:
		return a - b
	case Mul:
		return a * b
	case Div:
		if b == 0 {
			return 0
		}
		return a / b
	default:
		return a + b
	}
}
