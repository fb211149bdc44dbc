package domain

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// VenueMetadata is the stable per-venue information supplied by the loader.
type VenueMetadata struct {
	VenueID     string  `validate:"required"`
	DisplayName string  `validate:"required"`
	Rating      float64 `validate:"gte=0,lte=5"`
	ReviewCount int     `validate:"gte=0"`
	Lat, Lon    *float64
}

// Validate checks the invariants the engine relies on.
func (m VenueMetadata) Validate() error {
	return validatorInstance().Struct(m)
}

// VenueAggregate is the per-venue sum of review scores.
type VenueAggregate struct {
	VenueID           string
	DisplayName       string
	Rating            float64
	ReviewCount       int
	TotalProductivity int
	TotalSocial       int
}

// NormalizedVenueScore is a venue's aggregate rescaled against the whole population.
type NormalizedVenueScore struct {
	VenueID          string
	ProductivityNorm float64
	SocialNorm       float64
}

// SegmentedVenue is the final engine output for one venue.
type SegmentedVenue struct {
	VenueID          string
	ProductivityNorm float64
	SocialNorm       float64
	Segment          Segment
}

// VenueProfile joins a segmented venue with its aggregate for ranking, export and the API.
type VenueProfile struct {
	VenueID           string  `json:"venue_id"`
	Name              string  `json:"name"`
	Rating            float64 `json:"rating"`
	ReviewCount       int     `json:"review_count"`
	TotalProductivity int     `json:"total_productivity"`
	TotalSocial       int     `json:"total_social"`
	ProductivityNorm  float64 `json:"productivity_norm"`
	SocialNorm        float64 `json:"social_norm"`
	Segment           Segment `json:"segment"`
}
