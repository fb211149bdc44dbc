package domain

import "time"

// AnalysisRun summarizes one execution of the pipeline.
type AnalysisRun struct {
	ID                 string    `json:"id"`
	StartedAt          time.Time `json:"started_at"`
	FinishedAt         time.Time `json:"finished_at"`
	ReviewsIn          int       `json:"reviews_in"`
	ReviewsScored      int       `json:"reviews_scored"`
	ReviewsSkipped     int       `json:"reviews_skipped"`
	Venues             int       `json:"venues"`
	MedianProductivity float64   `json:"median_productivity"`
	MedianSocial       float64   `json:"median_social"`
}

// VenuesQuery filters venue listings of a run.
type VenuesQuery struct {
	RunID   string
	Segment *Segment
	Limit   int
}

// VenuesPage is one listing of venues of a run.
type VenuesPage struct {
	RunID string         `json:"run_id"`
	Items []VenueProfile `json:"items"`
}
