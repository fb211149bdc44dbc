package dataset

import (
	"encoding/csv"
	"io"
	"strconv"

	"coffee_persona/internal/domain"
)

var exportHeader = []string{
	"venue_id", "name", "rating", "review_count",
	"total_productivity", "total_social",
	"productivity_norm", "social_norm", "segment",
}

// WriteProfiles writes one comma-separated row per venue, in the given order.
func WriteProfiles(w io.Writer, profiles []domain.VenueProfile) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, p := range profiles {
		rec := []string{
			p.VenueID,
			p.Name,
			strconv.FormatFloat(p.Rating, 'f', -1, 64),
			strconv.Itoa(p.ReviewCount),
			strconv.Itoa(p.TotalProductivity),
			strconv.Itoa(p.TotalSocial),
			strconv.FormatFloat(p.ProductivityNorm, 'f', 6, 64),
			strconv.FormatFloat(p.SocialNorm, 'f', 6, 64),
			string(p.Segment),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
