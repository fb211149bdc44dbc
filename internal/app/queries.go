package app

import (
	"context"
	"fmt"
	"time"

	"coffee_persona/internal/domain"
)

type QueryService struct {
	repo     domain.VenueRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.VenueRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) ttl() int { return int(s.cacheTTL.Seconds()) }

func (s *QueryService) LatestRun(ctx context.Context) (domain.AnalysisRun, error) {
	var run domain.AnalysisRun
	if ok, _ := s.cache.Get(ctx, keyLatestRun, &run); ok {
		return run, nil
	}
	run, err := s.repo.LatestRun(ctx)
	if err != nil {
		return domain.AnalysisRun{}, err
	}
	_ = s.cache.Set(ctx, keyLatestRun, run, s.ttl())
	return run, nil
}

// ListVenues lists venues of the latest run ordered by venue ID, optionally of one segment.
// limit <= 0 returns all of them.
func (s *QueryService) ListVenues(ctx context.Context, seg *domain.Segment, limit int) (domain.VenuesPage, error) {
	run, err := s.LatestRun(ctx)
	if err != nil {
		return domain.VenuesPage{}, err
	}
	key := fmt.Sprintf("venues:%s:%s:%d", run.ID, segKey(seg), limit)
	var out domain.VenuesPage
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	items, err := s.repo.ListVenues(ctx, domain.VenuesQuery{RunID: run.ID, Segment: seg, Limit: limit})
	if err != nil {
		return domain.VenuesPage{}, err
	}
	// copy so the cached value never aliases the repo's backing array
	out = domain.VenuesPage{RunID: run.ID, Items: append([]domain.VenueProfile{}, items...)}
	_ = s.cache.Set(ctx, key, out, s.ttl())
	return out, nil
}

func (s *QueryService) GetVenue(ctx context.Context, venueID string) (domain.VenueProfile, error) {
	run, err := s.LatestRun(ctx)
	if err != nil {
		return domain.VenueProfile{}, err
	}
	key := fmt.Sprintf("venue:%s:%s", run.ID, venueID)
	var vp domain.VenueProfile
	if ok, _ := s.cache.Get(ctx, key, &vp); ok {
		return vp, nil
	}
	vp, err = s.repo.GetVenue(ctx, run.ID, venueID)
	if err != nil {
		return domain.VenueProfile{}, err
	}
	_ = s.cache.Set(ctx, key, vp, s.ttl())
	return vp, nil
}

// Recommend ranks the venues of seg in the latest run with TopN.
func (s *QueryService) Recommend(ctx context.Context, seg domain.Segment, n int) (domain.VenuesPage, error) {
	if n <= 0 {
		n = DefaultTopN
	}
	run, err := s.LatestRun(ctx)
	if err != nil {
		return domain.VenuesPage{}, err
	}
	key := fmt.Sprintf("recs:%s:%s:%d", run.ID, seg, n)
	var out domain.VenuesPage
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	all, err := s.ListVenues(ctx, &seg, 0)
	if err != nil {
		return domain.VenuesPage{}, err
	}
	out = domain.VenuesPage{RunID: run.ID, Items: TopN(all.Items, seg, n)}
	_ = s.cache.Set(ctx, key, out, s.ttl())
	return out, nil
}

func segKey(seg *domain.Segment) string {
	if seg == nil {
		return "all"
	}
	return string(*seg)
}
