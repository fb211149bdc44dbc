package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"coffee_persona/internal/domain"
)

const insertBatch = 500

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// SaveRun writes the run and all of its venue profiles in one transaction.
func (r *Repo) SaveRun(ctx context.Context, run domain.AnalysisRun, venues []domain.VenueProfile) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, insertRunSQL,
		run.ID,
		run.StartedAt,
		run.FinishedAt,
		run.ReviewsIn,
		run.ReviewsScored,
		run.ReviewsSkipped,
		run.Venues,
		run.MedianProductivity,
		run.MedianSocial,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for start := 0; start < len(venues); start += insertBatch {
		end := min(start+insertBatch, len(venues))
		chunk := venues[start:end]
		values := make([]string, 0, len(chunk))
		args := make([]any, 0, len(chunk)*10)
		for _, v := range chunk {
			values = append(values, insertScoresRow)
			args = append(args,
				run.ID,
				v.VenueID,
				v.Name,
				v.Rating,
				v.ReviewCount,
				v.TotalProductivity,
				v.TotalSocial,
				v.ProductivityNorm,
				v.SocialNorm,
				string(v.Segment),
			)
		}
		if _, err = tx.ExecContext(ctx, insertScoresPrefix+strings.Join(values, ","), args...); err != nil {
			return fmt.Errorf("insert venue scores: %w", err)
		}
	}
	return tx.Commit()
}

func (r *Repo) LatestRun(ctx context.Context) (domain.AnalysisRun, error) {
	var run domain.AnalysisRun
	err := r.db.QueryRowContext(ctx, latestRunSQL).Scan(
		&run.ID,
		&run.StartedAt,
		&run.FinishedAt,
		&run.ReviewsIn,
		&run.ReviewsScored,
		&run.ReviewsSkipped,
		&run.Venues,
		&run.MedianProductivity,
		&run.MedianSocial,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AnalysisRun{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.AnalysisRun{}, err
	}
	run.StartedAt = run.StartedAt.UTC()
	run.FinishedAt = run.FinishedAt.UTC()
	return run, nil
}

type scanner interface{ Scan(dest ...any) error }

func scanVenue(s scanner) (domain.VenueProfile, error) {
	var v domain.VenueProfile
	var seg string
	err := s.Scan(
		&v.VenueID,
		&v.Name,
		&v.Rating,
		&v.ReviewCount,
		&v.TotalProductivity,
		&v.TotalSocial,
		&v.ProductivityNorm,
		&v.SocialNorm,
		&seg,
	)
	v.Segment = domain.Segment(seg)
	return v, err
}

func (r *Repo) GetVenue(ctx context.Context, runID, venueID string) (domain.VenueProfile, error) {
	v, err := scanVenue(r.db.QueryRowContext(ctx, getVenueSQL, runID, venueID))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.VenueProfile{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.VenueProfile{}, err
	}
	return v, nil
}

// ListVenues returns the venues of q.RunID ordered by venue ID. Limit <= 0 means no limit.
func (r *Repo) ListVenues(ctx context.Context, q domain.VenuesQuery) ([]domain.VenueProfile, error) {
	var sb strings.Builder
	sb.WriteString(listVenuesSQL)
	args := []any{q.RunID}
	if q.Segment != nil {
		sb.WriteString(" AND segment = ?")
		args = append(args, string(*q.Segment))
	}
	sb.WriteString(" ORDER BY venue_id ASC")
	if q.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.VenueProfile{}
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
