package persona

import (
	"sort"

	"coffee_persona/internal/domain"
)

// Aggregate groups review scores by venue and sums both personas.
//
// Display name, rating and review count come from venues; the caller guarantees they do not vary
// per venue. A score whose venue is missing from venues, whose metadata is invalid, or whose scores
// are negative is malformed: under PolicyFail the first one is returned as the error, under
// PolicySkip it is dropped and reported. Venues without any surviving score produce no aggregate.
// The result is sorted by venue ID.
func Aggregate(scores []domain.ReviewScore, venues map[string]domain.VenueMetadata, policy domain.RecordPolicy) ([]domain.VenueAggregate, []*domain.MalformedRecordError, error) {
	if len(scores) == 0 {
		return nil, nil, &domain.MissingInputError{What: "scored reviews"}
	}
	if len(venues) == 0 {
		return nil, nil, &domain.MissingInputError{What: "venue metadata"}
	}

	var skipped []*domain.MalformedRecordError
	reject := func(e *domain.MalformedRecordError) error {
		if policy == domain.PolicySkip {
			skipped = append(skipped, e)
			return nil
		}
		return e
	}

	// metadata is validated once per venue; the verdict is reused for its other reviews
	verdict := map[string]string{}
	groups := map[string]*domain.VenueAggregate{}

	for i, s := range scores {
		meta, ok := venues[s.VenueID]
		if !ok {
			if err := reject(&domain.MalformedRecordError{VenueID: s.VenueID, Index: i, Reason: "review references unknown venue"}); err != nil {
				return nil, nil, err
			}
			continue
		}
		reason, seen := verdict[s.VenueID]
		if !seen {
			if err := meta.Validate(); err != nil {
				reason = "invalid venue metadata: " + err.Error()
			}
			verdict[s.VenueID] = reason
		}
		if reason == "" && (s.Productivity < 0 || s.Social < 0) {
			reason = "negative review score"
		}
		if reason != "" {
			if err := reject(&domain.MalformedRecordError{VenueID: s.VenueID, Index: i, Reason: reason}); err != nil {
				return nil, nil, err
			}
			continue
		}

		g, ok := groups[s.VenueID]
		if !ok {
			g = &domain.VenueAggregate{
				VenueID:     s.VenueID,
				DisplayName: meta.DisplayName,
				Rating:      meta.Rating,
				ReviewCount: meta.ReviewCount,
			}
			groups[s.VenueID] = g
		}
		g.TotalProductivity += s.Productivity
		g.TotalSocial += s.Social
	}

	if len(groups) == 0 {
		return nil, skipped, &domain.MissingInputError{What: "venues with scored reviews"}
	}

	out := make([]domain.VenueAggregate, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VenueID < out[j].VenueID })
	return out, skipped, nil
}
