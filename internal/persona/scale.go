package persona

import (
	"coffee_persona/internal/domain"
)

// Scale min-max rescales each persona total to [0,1] across the whole population,
// independently per persona: (total - min) / (max - min).
//
// When max == min for a persona (one venue, or every venue tied) all venues get 0.0
// for that persona and a DegenerateInputWarning is returned. The input must be well formed
// as a whole: one bad aggregate fails the call and nothing is produced.
func Scale(aggs []domain.VenueAggregate) ([]domain.NormalizedVenueScore, []domain.DegenerateInputWarning, error) {
	if len(aggs) == 0 {
		return nil, nil, &domain.MissingInputError{What: "venue aggregates"}
	}
	seen := make(map[string]struct{}, len(aggs))
	for i, a := range aggs {
		if a.VenueID == "" {
			return nil, nil, &domain.MalformedRecordError{Index: i, Reason: "empty venue id"}
		}
		if _, dup := seen[a.VenueID]; dup {
			return nil, nil, &domain.MalformedRecordError{VenueID: a.VenueID, Index: i, Reason: "duplicate venue aggregate"}
		}
		seen[a.VenueID] = struct{}{}
		if a.TotalProductivity < 0 || a.TotalSocial < 0 {
			return nil, nil, &domain.MalformedRecordError{VenueID: a.VenueID, Index: i, Reason: "negative persona total"}
		}
	}

	pLo, pHi := minMax(aggs, func(a domain.VenueAggregate) int { return a.TotalProductivity })
	sLo, sHi := minMax(aggs, func(a domain.VenueAggregate) int { return a.TotalSocial })

	var warnings []domain.DegenerateInputWarning
	if pLo == pHi {
		warnings = append(warnings, domain.DegenerateInputWarning{Persona: domain.PersonaProductivity, Value: pLo})
	}
	if sLo == sHi {
		warnings = append(warnings, domain.DegenerateInputWarning{Persona: domain.PersonaSocial, Value: sLo})
	}

	out := make([]domain.NormalizedVenueScore, len(aggs))
	for i, a := range aggs {
		out[i] = domain.NormalizedVenueScore{
			VenueID:          a.VenueID,
			ProductivityNorm: rescale(a.TotalProductivity, pLo, pHi),
			SocialNorm:       rescale(a.TotalSocial, sLo, sHi),
		}
	}
	return out, warnings, nil
}

func minMax(aggs []domain.VenueAggregate, total func(domain.VenueAggregate) int) (int, int) {
	lo, hi := total(aggs[0]), total(aggs[0])
	for _, a := range aggs[1:] {
		v := total(a)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func rescale(v, lo, hi int) float64 {
	if hi == lo {
		return 0.0
	}
	return float64(v-lo) / float64(hi-lo)
}
