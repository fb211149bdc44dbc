package app

import (
	"sort"

	"coffee_persona/internal/domain"
)

const DefaultTopN = 3

// TopN returns the n best rated venues of seg: rating desc, then review count desc,
// then venue ID asc. n <= 0 means DefaultTopN. profiles is not modified.
func TopN(profiles []domain.VenueProfile, seg domain.Segment, n int) []domain.VenueProfile {
	if n <= 0 {
		n = DefaultTopN
	}
	out := make([]domain.VenueProfile, 0, len(profiles))
	for _, p := range profiles {
		if p.Segment == seg {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		if a.ReviewCount != b.ReviewCount {
			return a.ReviewCount > b.ReviewCount
		}
		return a.VenueID < b.VenueID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
