package persona

import (
	"fmt"

	"coffee_persona/internal/domain"
)

// Score sums the weight of every token, duplicates included, so a keyword
// repeated k times contributes k times its weight. Contributions are not capped.
func Score(tokens []string, w WeightTable) int {
	total := 0
	for _, t := range tokens {
		total += w.Weight(t)
	}
	return total
}

// Scorer turns one review into its two independent persona scores.
type Scorer struct {
	norm         *TextNormalizer
	productivity WeightTable
	social       WeightTable
}

func NewScorer(norm *TextNormalizer, productivity, social WeightTable) (*Scorer, error) {
	if productivity.Persona() != domain.PersonaProductivity {
		return nil, fmt.Errorf("productivity table has persona %q", productivity.Persona())
	}
	if social.Persona() != domain.PersonaSocial {
		return nil, fmt.Errorf("social table has persona %q", social.Persona())
	}
	if norm == nil {
		norm = NewTextNormalizer(nil, nil)
	}
	return &Scorer{norm: norm, productivity: productivity, social: social}, nil
}

// ScoreTokens scores an already normalized token sequence.
func (s *Scorer) ScoreTokens(venueID string, tokens []string) domain.ReviewScore {
	return domain.ReviewScore{
		VenueID:      venueID,
		Productivity: Score(tokens, s.productivity),
		Social:       Score(tokens, s.social),
		Tokens:       tokens,
	}
}

// ScoreReview normalizes and scores r.
func (s *Scorer) ScoreReview(r domain.Review) domain.ReviewScore {
	return s.ScoreTokens(r.VenueID, s.norm.Normalize(r.Text))
}

// Table returns the weight table of p.
func (s *Scorer) Table(p domain.Persona) WeightTable {
	if p == domain.PersonaSocial {
		return s.social
	}
	return s.productivity
}
