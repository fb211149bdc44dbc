package persona

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"coffee_persona/internal/domain"
)

var ErrInvalidEncoding = errors.New("review text is not valid UTF-8")

// Options tunes a pipeline run. The zero value uses all CPUs and fails fast.
type Options struct {
	Workers      int                 // <= 0 means runtime.NumCPU()
	ReviewPolicy domain.RecordPolicy // reviews that fail normalization
	VenuePolicy  domain.RecordPolicy // reviews whose venue is unknown or invalid
}

// Result carries every stage output of one run.
type Result struct {
	Scores       []domain.ReviewScore // in input order, failed reviews omitted
	Aggregated   []domain.ReviewScore // subset of Scores that reached a venue total
	Aggregates   []domain.VenueAggregate
	Normalized   []domain.NormalizedVenueScore
	Segmentation Segmentation

	SkippedReviews []*domain.ReviewError
	SkippedRecords []*domain.MalformedRecordError
	Warnings       []domain.DegenerateInputWarning
}

// Engine runs the full pipeline over one batch.
type Engine struct {
	scorer *Scorer
	opts   Options
}

func NewEngine(scorer *Scorer, opts Options) *Engine {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.ReviewPolicy == "" {
		opts.ReviewPolicy = domain.PolicyFail
	}
	if opts.VenuePolicy == "" {
		opts.VenuePolicy = domain.PolicyFail
	}
	return &Engine{scorer: scorer, opts: opts}
}

// Run scores every review on a bounded pool, waits for all of them, then aggregates,
// scales and segments the complete venue population.
func (e *Engine) Run(ctx context.Context, reviews []domain.Review, venues map[string]domain.VenueMetadata) (Result, error) {
	if len(reviews) == 0 {
		return Result{}, &domain.MissingInputError{What: "reviews"}
	}
	if len(venues) == 0 {
		return Result{}, &domain.MissingInputError{What: "venue metadata"}
	}

	// each task writes only its own slot; Wait is the barrier before the fold
	scored := make([]domain.ReviewScore, len(reviews))
	failed := make([]*domain.ReviewError, len(reviews))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for i := range reviews {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := e.scoreOne(i, reviews[i])
			if err != nil {
				if e.opts.ReviewPolicy == domain.PolicySkip {
					failed[i] = err
					return nil
				}
				return err
			}
			scored[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var res Result
	res.Scores = make([]domain.ReviewScore, 0, len(reviews))
	for i := range reviews {
		if failed[i] != nil {
			res.SkippedReviews = append(res.SkippedReviews, failed[i])
			continue
		}
		res.Scores = append(res.Scores, scored[i])
	}
	if len(res.Scores) == 0 {
		return res, &domain.MissingInputError{What: "reviews surviving normalization"}
	}

	aggs, skipped, err := Aggregate(res.Scores, venues, e.opts.VenuePolicy)
	res.SkippedRecords = skipped
	if err != nil {
		return res, fmt.Errorf("aggregate: %w", err)
	}
	res.Aggregates = aggs
	res.Aggregated = contributing(res.Scores, skipped)

	norm, warnings, err := Scale(aggs)
	if err != nil {
		return res, fmt.Errorf("scale: %w", err)
	}
	res.Normalized = norm
	res.Warnings = warnings

	seg, err := Segment(norm)
	if err != nil {
		return res, fmt.Errorf("segment: %w", err)
	}
	res.Segmentation = seg
	return res, nil
}

// scoreOne isolates a single review: bad encoding and stemmer panics become a ReviewError.
func (e *Engine) scoreOne(i int, r domain.Review) (s domain.ReviewScore, rerr *domain.ReviewError) {
	defer func() {
		if p := recover(); p != nil {
			rerr = &domain.ReviewError{Index: i, VenueID: r.VenueID, Err: fmt.Errorf("stemmer panic: %v", p)}
		}
	}()
	if !utf8.ValidString(r.Text) {
		return domain.ReviewScore{}, &domain.ReviewError{Index: i, VenueID: r.VenueID, Err: ErrInvalidEncoding}
	}
	return e.scorer.ScoreReview(r), nil
}

// contributing drops the scores Aggregate rejected; record indexes point into scores.
func contributing(scores []domain.ReviewScore, rejected []*domain.MalformedRecordError) []domain.ReviewScore {
	if len(rejected) == 0 {
		return scores
	}
	drop := make(map[int]struct{}, len(rejected))
	for _, r := range rejected {
		drop[r.Index] = struct{}{}
	}
	out := make([]domain.ReviewScore, 0, len(scores)-len(drop))
	for i, s := range scores {
		if _, ok := drop[i]; !ok {
			out = append(out, s)
		}
	}
	return out
}
