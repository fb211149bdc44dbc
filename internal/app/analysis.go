package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"coffee_persona/internal/adapters/observability"
	"coffee_persona/internal/domain"
	"coffee_persona/internal/persona"
)

// keyLatestRun caches the newest run; every venue key embeds a run ID, so this is the only key a new run invalidates.
const keyLatestRun = "run:latest"

// AnalysisOutput is everything a run produced, for reporting and export.
type AnalysisOutput struct {
	Run      domain.AnalysisRun
	Profiles []domain.VenueProfile
	Result   persona.Result
	Dataset  domain.Dataset
}

type AnalysisService struct {
	source domain.DatasetSource
	engine *persona.Engine
	repo   domain.VenueRepository // nil disables persistence
	cache  domain.Cache           // nil disables invalidation
	now    func() time.Time
	newID  func() string
}

func NewAnalysisService(src domain.DatasetSource, e *persona.Engine, r domain.VenueRepository, c domain.Cache) *AnalysisService {
	return &AnalysisService{
		source: src,
		engine: e,
		repo:   r,
		cache:  c,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.NewString() },
	}
}

// Run loads the dataset, runs the engine over it and, when a repository is set,
// stores the run with its venue profiles.
func (s *AnalysisService) Run(ctx context.Context) (AnalysisOutput, error) {
	started := s.now()

	t := time.Now()
	ds, err := s.source.Load(ctx)
	if err != nil {
		return AnalysisOutput{}, fmt.Errorf("load dataset: %w", err)
	}
	observability.ObserveStage("load", time.Since(t))
	observability.ObserveReviews("dropped", ds.DroppedReviews+ds.OrphanReviews)

	t = time.Now()
	res, err := s.engine.Run(ctx, ds.Reviews, ds.Venues)
	if err != nil {
		return AnalysisOutput{}, fmt.Errorf("analyze: %w", err)
	}
	observability.ObserveStage("analyze", time.Since(t))

	for _, re := range res.SkippedReviews {
		log.Warn().Int("review_index", re.Index).Str("venue_id", re.VenueID).Err(re.Err).Msg("review skipped")
	}
	for _, me := range res.SkippedRecords {
		log.Warn().Int("review_index", me.Index).Str("venue_id", me.VenueID).Str("reason", me.Reason).Msg("record skipped")
	}
	for _, w := range res.Warnings {
		log.Warn().Str("persona", string(w.Persona)).Int("value", w.Value).Msg(w.String())
		observability.ObserveDegenerate(string(w.Persona))
	}

	profiles := BuildProfiles(res.Aggregates, res.Segmentation.Venues)
	for _, p := range profiles {
		observability.ObserveSegment(string(p.Segment))
	}

	skipped := len(res.SkippedReviews) + len(res.SkippedRecords)
	observability.ObserveReviews("skipped", skipped)
	observability.ObserveReviews("scored", len(res.Aggregated))

	run := domain.AnalysisRun{
		ID:                 s.newID(),
		StartedAt:          started,
		FinishedAt:         s.now(),
		ReviewsIn:          len(ds.Reviews),
		ReviewsScored:      len(res.Aggregated),
		ReviewsSkipped:     skipped,
		Venues:             len(profiles),
		MedianProductivity: res.Segmentation.MedianProductivity,
		MedianSocial:       res.Segmentation.MedianSocial,
	}

	if s.repo != nil {
		t = time.Now()
		if err := s.repo.SaveRun(ctx, run, profiles); err != nil {
			return AnalysisOutput{}, fmt.Errorf("save run %s: %w", run.ID, err)
		}
		observability.ObserveStage("persist", time.Since(t))
		if s.cache != nil {
			if err := s.cache.Del(ctx, keyLatestRun); err != nil {
				log.Warn().Err(err).Msg("cache invalidation failed")
			}
		}
	}

	log.Info().
		Str("run_id", run.ID).
		Int("reviews", run.ReviewsIn).
		Int("scored", run.ReviewsScored).
		Int("skipped", run.ReviewsSkipped).
		Int("venues", run.Venues).
		Float64("median_productivity", run.MedianProductivity).
		Float64("median_social", run.MedianSocial).
		Msg("analysis completed")

	return AnalysisOutput{Run: run, Profiles: profiles, Result: res, Dataset: ds}, nil
}

// BuildProfiles joins segmented venues with their aggregates. Order follows segmented.
func BuildProfiles(aggs []domain.VenueAggregate, segmented []domain.SegmentedVenue) []domain.VenueProfile {
	byID := make(map[string]domain.VenueAggregate, len(aggs))
	for _, a := range aggs {
		byID[a.VenueID] = a
	}
	out := make([]domain.VenueProfile, 0, len(segmented))
	for _, sv := range segmented {
		a := byID[sv.VenueID]
		out = append(out, domain.VenueProfile{
			VenueID:           sv.VenueID,
			Name:              a.DisplayName,
			Rating:            a.Rating,
			ReviewCount:       a.ReviewCount,
			TotalProductivity: a.TotalProductivity,
			TotalSocial:       a.TotalSocial,
			ProductivityNorm:  sv.ProductivityNorm,
			SocialNorm:        sv.SocialNorm,
			Segment:           sv.Segment,
		})
	}
	return out
}
