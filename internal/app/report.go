package app

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"coffee_persona/internal/domain"
	"coffee_persona/internal/persona"
)

// reportSegments are the segments the console report ranks; GeneralPurpose is only counted.
var reportSegments = []domain.Segment{
	domain.SegmentProductivityHub,
	domain.SegmentSocialHotspot,
	domain.SegmentAllRounder,
}

type TermCount struct {
	Term  string
	Count int
}

type RatingBucket struct {
	Rating float64
	Venues int
}

// Report is the printable summary of one analysis run.
type Report struct {
	Run           domain.AnalysisRun
	SegmentCounts map[domain.Segment]int
	Top           map[domain.Segment][]domain.VenueProfile
	Ratings       []RatingBucket
	Terms         map[domain.Persona][]TermCount
}

// ReportOptions sizes the ranked sections of a report.
type ReportOptions struct {
	TopN     int
	TopTerms int
	Exclude  persona.StopwordSet // tokens left out of term frequencies
}

// BuildReport derives the report of out. tables supplies the keywords that decide
// which reviews belong to a persona for term frequencies.
func BuildReport(out AnalysisOutput, tables []persona.WeightTable, opts ReportOptions) Report {
	if opts.TopTerms <= 0 {
		opts.TopTerms = 15
	}
	r := Report{
		Run:           out.Run,
		SegmentCounts: map[domain.Segment]int{},
		Top:           map[domain.Segment][]domain.VenueProfile{},
		Terms:         map[domain.Persona][]TermCount{},
	}
	for _, p := range out.Profiles {
		r.SegmentCounts[p.Segment]++
	}
	for _, seg := range reportSegments {
		r.Top[seg] = TopN(out.Profiles, seg, opts.TopN)
	}
	r.Ratings = RatingDistribution(out.Profiles)
	for _, t := range tables {
		r.Terms[t.Persona()] = TermFrequencies(out.Result.Aggregated, t, opts.Exclude, opts.TopTerms)
	}
	return r
}

// RatingDistribution counts venues per rating value, ascending by rating.
func RatingDistribution(profiles []domain.VenueProfile) []RatingBucket {
	counts := map[float64]int{}
	for _, p := range profiles {
		counts[p.Rating]++
	}
	out := make([]RatingBucket, 0, len(counts))
	for r, n := range counts {
		out = append(out, RatingBucket{Rating: r, Venues: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rating < out[j].Rating })
	return out
}

// TermFrequencies counts tokens across the reviews that contain at least one keyword of table.
// Membership is by whole token after stemming, not by substring.
// Excluded tokens are not counted. Ties break alphabetically; at most n terms are returned.
func TermFrequencies(scores []domain.ReviewScore, table persona.WeightTable, exclude persona.StopwordSet, n int) []TermCount {
	counts := map[string]int{}
	for _, s := range scores {
		if !mentions(s.Tokens, table) {
			continue
		}
		for _, tok := range s.Tokens {
			if exclude != nil && exclude.Contains(tok) {
				continue
			}
			counts[tok]++
		}
	}
	out := make([]TermCount, 0, len(counts))
	for t, c := range counts {
		out = append(out, TermCount{Term: t, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Term < out[j].Term
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func mentions(tokens []string, table persona.WeightTable) bool {
	for _, t := range tokens {
		if table.Contains(t) {
			return true
		}
	}
	return false
}

// WriteReport prints r as plain text tables.
func WriteReport(w io.Writer, r Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Run %s: %d reviews in, %d scored, %d skipped, %d venues\n",
		r.Run.ID, r.Run.ReviewsIn, r.Run.ReviewsScored, r.Run.ReviewsSkipped, r.Run.Venues)
	fmt.Fprintf(tw, "Median productivity %.4f, median social %.4f\n\n", r.Run.MedianProductivity, r.Run.MedianSocial)

	fmt.Fprintln(tw, "Segment\tVenues")
	for _, seg := range domain.Segments {
		fmt.Fprintf(tw, "%s\t%d\n", seg.Label(), r.SegmentCounts[seg])
	}
	fmt.Fprintln(tw)

	for _, seg := range reportSegments {
		fmt.Fprintf(tw, "Top %s\n", seg.Label())
		top := r.Top[seg]
		if len(top) == 0 {
			fmt.Fprintln(tw, "  (none)")
			fmt.Fprintln(tw)
			continue
		}
		fmt.Fprintln(tw, "#\tName\tRating\tReviews\tProductivity\tSocial")
		for i, p := range top {
			fmt.Fprintf(tw, "%d\t%s\t%.1f\t%d\t%.2f\t%.2f\n",
				i+1, p.Name, p.Rating, p.ReviewCount, p.ProductivityNorm, p.SocialNorm)
		}
		fmt.Fprintln(tw)
	}

	fmt.Fprintln(tw, "Rating\tVenues")
	for _, b := range r.Ratings {
		fmt.Fprintf(tw, "%.1f\t%d\n", b.Rating, b.Venues)
	}

	for _, p := range []domain.Persona{domain.PersonaProductivity, domain.PersonaSocial} {
		terms, ok := r.Terms[p]
		if !ok {
			continue
		}
		fmt.Fprintf(tw, "\nFrequent terms (%s)\n", p)
		for _, tc := range terms {
			fmt.Fprintf(tw, "%s\t%d\n", tc.Term, tc.Count)
		}
	}
	return tw.Flush()
}
