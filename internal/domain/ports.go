package domain

import "context"

type VenueRepository interface {
	// Write paths
	SaveRun(ctx context.Context, run AnalysisRun, venues []VenueProfile) error

	// Read paths
	LatestRun(ctx context.Context) (AnalysisRun, error)
	GetVenue(ctx context.Context, runID, venueID string) (VenueProfile, error)
	ListVenues(ctx context.Context, q VenuesQuery) ([]VenueProfile, error)
}

// Dataset is what the loader hands to the analysis: reviews with text plus venue metadata.
type Dataset struct {
	Reviews        []Review
	Venues         map[string]VenueMetadata
	DroppedShops   int // shops without a usable rating
	DroppedReviews int // reviews without text
	OrphanReviews  int // reviews of dropped shops
}

type DatasetSource interface {
	Load(ctx context.Context) (Dataset, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
