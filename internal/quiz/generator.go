package quiz

import "math/rand/v2"

// maxDivisionDraws bounds the rejection loop for uneven division draws.
const maxDivisionDraws = 64

// Source yields integers in [0, n). *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Generator draws questions from a Source. It is not safe for concurrent
// use unless the Source is.
type Generator struct {
	src Source
}

func NewGenerator(src Source) *Generator {
	if src == nil {
		src = globalSource{}
	}
	return &Generator{src: src}
}

// Generate draws operand1, operand2 and the operator, in that order, from
// the tier's level. A division draw with a remainder is rejected and the
// whole draw repeated. After maxDivisionDraws rejections operand2 is picked
// among the in-range divisors of operand1 instead.
func (g *Generator) Generate(tier Tier) Question {
	l := tier.Level()

	var a, b int
	var op Operator
	for range maxDivisionDraws {
		a = g.operand(l)
		b = g.operand(l)
		op = l.Operators[g.src.IntN(len(l.Operators))]

		if op != Div || b == 0 || a%b == 0 {
			return Question{Operand1: a, Operand2: b, Operator: op, Answer: Compute(op, a, b)}
		}
	}

	b = g.divisor(l, a)
	return Question{Operand1: a, Operand2: b, Operator: Div, Answer: Compute(Div, a, b)}
}

func (g *Generator) operand(l Level) int {
	return l.Min + g.src.IntN(l.Max-l.Min+1)
}

func (g *Generator) divisor(l Level, a int) int {
	var ds []int
	for d := max(l.Min, 1); d <= l.Max; d++ {
		if a%d == 0 {
			ds = append(ds, d)
		}
	}
	if len(ds) == 0 {
		return 0
	}
	return ds[g.src.IntN(len(ds))]
}
