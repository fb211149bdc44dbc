package domain

// Review is a single customer review attached to a venue.
// Text is never empty once a review reaches the scoring engine; the loader drops the rest.
type Review struct {
	VenueID string
	Text    string
}

// ReviewScore holds the two persona scores of one review.
type ReviewScore struct {
	VenueID      string
	Productivity int
	Social       int
	Tokens       []string `json:"-"` // canonical tokens the scores were computed from
}
