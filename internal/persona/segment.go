package persona

import (
	"math"
	"sort"

	"coffee_persona/internal/domain"
)

// Segmentation is the segmenter output together with the medians it used.
type Segmentation struct {
	Venues             []domain.SegmentedVenue
	MedianProductivity float64
	MedianSocial       float64
}

// Median returns the statistical median of values; for an even count it is the mean
// of the two middle values. It returns NaN for an empty slice. values is not modified.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}
	s := append([]float64(nil), values...)
	sort.Float64s(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

// Classify places a venue in its quadrant. A score equal to the median counts as high.
func Classify(productivity, social, medianProductivity, medianSocial float64) domain.Segment {
	highP := productivity >= medianProductivity
	highS := social >= medianSocial
	switch {
	case highP && highS:
		return domain.SegmentAllRounder
	case highP:
		return domain.SegmentProductivityHub
	case highS:
		return domain.SegmentSocialHotspot
	default:
		return domain.SegmentGeneralPurpose
	}
}

// Segment computes both medians over exactly the given scores and classifies every venue.
// Output order follows input order. Scores outside [0,1] reject the whole call.
func Segment(scores []domain.NormalizedVenueScore) (Segmentation, error) {
	if len(scores) == 0 {
		return Segmentation{}, &domain.MissingInputError{What: "normalized venue scores"}
	}
	ps := make([]float64, len(scores))
	ss := make([]float64, len(scores))
	for i, s := range scores {
		if !unit(s.ProductivityNorm) || !unit(s.SocialNorm) {
			return Segmentation{}, &domain.MalformedRecordError{VenueID: s.VenueID, Index: i, Reason: "normalized score outside [0,1]"}
		}
		ps[i] = s.ProductivityNorm
		ss[i] = s.SocialNorm
	}

	res := Segmentation{
		Venues:             make([]domain.SegmentedVenue, len(scores)),
		MedianProductivity: Median(ps),
		MedianSocial:       Median(ss),
	}
	for i, s := range scores {
		res.Venues[i] = domain.SegmentedVenue{
			VenueID:          s.VenueID,
			ProductivityNorm: s.ProductivityNorm,
			SocialNorm:       s.SocialNorm,
			Segment:          Classify(s.ProductivityNorm, s.SocialNorm, res.MedianProductivity, res.MedianSocial),
		}
	}
	return res, nil
}

// unit reports whether v is in [0,1]; NaN is not.
func unit(v float64) bool { return v >= 0 && v <= 1 }
