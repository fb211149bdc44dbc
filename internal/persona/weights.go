package persona

import (
	"fmt"
	"sort"

	"coffee_persona/internal/domain"
)

// WeightTable maps canonical tokens to positive weights for one persona.
// It is immutable once built; tokens absent from the table weigh 0.
type WeightTable struct {
	persona domain.Persona
	weights map[string]int
}

// NewWeightTable validates and copies w. Every token must be non-empty lowercase a-z
// (anything else could never match a canonical token) and every weight must be > 0.
func NewWeightTable(p domain.Persona, w map[string]int) (WeightTable, error) {
	if len(w) == 0 {
		return WeightTable{}, &domain.MissingInputError{What: fmt.Sprintf("%s weight table", p)}
	}
	cp := make(map[string]int, len(w))
	for tok, wt := range w {
		if !isCanonical(tok) {
			return WeightTable{}, &domain.MalformedRecordError{Index: -1, Reason: fmt.Sprintf("%s weight token %q is not lowercase a-z", p, tok)}
		}
		if wt <= 0 {
			return WeightTable{}, &domain.MalformedRecordError{Index: -1, Reason: fmt.Sprintf("%s weight for %q must be > 0, got %d", p, tok, wt)}
		}
		cp[tok] = wt
	}
	return WeightTable{persona: p, weights: cp}, nil
}

func isCanonical(tok string) bool {
	if tok == "" {
		return false
	}
	for i := 0; i < len(tok); i++ {
		if tok[i] < 'a' || tok[i] > 'z' {
			return false
		}
	}
	return true
}

func (t WeightTable) Persona() domain.Persona { return t.persona }

// Weight returns the weight of token, 0 when unknown.
func (t WeightTable) Weight(token string) int { return t.weights[token] }

func (t WeightTable) Contains(token string) bool {
	_, ok := t.weights[token]
	return ok
}

func (t WeightTable) Len() int { return len(t.weights) }

// Keywords returns the tokens in ascending order.
func (t WeightTable) Keywords() []string {
	out := make([]string, 0, len(t.weights))
	for k := range t.weights {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
