// Package dataset reads the shop and review CSV exports and writes the segmented result back out.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/charmap"

	"coffee_persona/internal/domain"
)

const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin-1"
)

// Loader reads both CSV files from disk. It implements domain.DatasetSource.
type Loader struct {
	shopsPath   string
	reviewsPath string
	encoding    string
}

func New(shopsPath, reviewsPath, reviewsEncoding string) (*Loader, error) {
	if shopsPath == "" || reviewsPath == "" {
		return nil, &domain.MissingInputError{What: "dataset paths"}
	}
	switch strings.ToLower(reviewsEncoding) {
	case "", EncodingLatin1, "latin1", "iso-8859-1":
		reviewsEncoding = EncodingLatin1
	case EncodingUTF8, "utf8":
		reviewsEncoding = EncodingUTF8
	default:
		return nil, fmt.Errorf("unsupported reviews encoding %q", reviewsEncoding)
	}
	return &Loader{shopsPath: shopsPath, reviewsPath: reviewsPath, encoding: reviewsEncoding}, nil
}

// Load reads shops, then reviews, and drops reviews of shops that had no rating.
func (l *Loader) Load(ctx context.Context) (domain.Dataset, error) {
	var ds domain.Dataset

	sf, err := open(l.shopsPath)
	if err != nil {
		return ds, err
	}
	defer sf.Close()
	venues, dropped, err := ReadShops(sf)
	if err != nil {
		return ds, fmt.Errorf("shops %s: %w", l.shopsPath, err)
	}
	ds.Venues = venues
	ds.DroppedShops = len(dropped)

	if err := ctx.Err(); err != nil {
		return ds, err
	}

	rf, err := open(l.reviewsPath)
	if err != nil {
		return ds, err
	}
	defer rf.Close()
	var r io.Reader = rf
	if l.encoding == EncodingLatin1 {
		r = charmap.ISO8859_1.NewDecoder().Reader(rf)
	}
	reviews, emptyText, err := ReadReviews(r)
	if err != nil {
		return ds, fmt.Errorf("reviews %s: %w", l.reviewsPath, err)
	}
	ds.DroppedReviews = emptyText

	ds.Reviews = reviews[:0]
	for _, rv := range reviews {
		if _, gone := dropped[rv.VenueID]; gone {
			ds.OrphanReviews++
			continue
		}
		ds.Reviews = append(ds.Reviews, rv)
	}

	if len(ds.Reviews) == 0 {
		return ds, &domain.MissingInputError{What: "reviews with text"}
	}
	log.Info().
		Int("venues", len(ds.Venues)).
		Int("reviews", len(ds.Reviews)).
		Int("dropped_shops", ds.DroppedShops).
		Int("dropped_reviews", ds.DroppedReviews).
		Int("orphan_reviews", ds.OrphanReviews).
		Msg("dataset loaded")
	return ds, nil
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &domain.MissingInputError{What: path}
	}
	return f, err
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	return cr
}

// ReadShops parses the shops export. Shops without a parseable rating are dropped and
// returned as a set of IDs so their reviews can be dropped too.
func ReadShops(r io.Reader) (map[string]domain.VenueMetadata, map[string]struct{}, error) {
	cr := newReader(r)
	cols, err := cr.Read()
	if err == io.EOF {
		return nil, nil, &domain.MissingInputError{What: "shops header"}
	}
	if err != nil {
		return nil, nil, err
	}
	h, err := resolveHeader(cols, shopAliases, "id", "rating")
	if err != nil {
		return nil, nil, err
	}

	venues := map[string]domain.VenueMetadata{}
	dropped := map[string]struct{}{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}
		id := h.get(rec, "id")
		if id == "" {
			continue
		}
		rating, ok := parseFloatFlexible(h.get(rec, "rating"))
		if !ok {
			dropped[id] = struct{}{}
			continue
		}
		if _, seen := venues[id]; seen {
			// first row wins, like a first() aggregation
			continue
		}
		count, _ := parseIntFlexible(h.get(rec, "review_count"))
		venues[id] = domain.VenueMetadata{
			VenueID:     id,
			DisplayName: displayName(h.get(rec, "name"), h.get(rec, "address")),
			Rating:      rating,
			ReviewCount: count,
			Lat:         ptrFloat(h.get(rec, "lat")),
			Lon:         ptrFloat(h.get(rec, "lon")),
		}
	}
	if len(venues) == 0 {
		return nil, dropped, &domain.MissingInputError{What: "shops with a rating"}
	}
	return venues, dropped, nil
}

// ReadReviews parses the reviews export, skipping rows with blank text.
func ReadReviews(r io.Reader) ([]domain.Review, int, error) {
	cr := newReader(r)
	cols, err := cr.Read()
	if err == io.EOF {
		return nil, 0, &domain.MissingInputError{What: "reviews header"}
	}
	if err != nil {
		return nil, 0, err
	}
	h, err := resolveHeader(cols, reviewAliases, "venue_id", "text")
	if err != nil {
		return nil, 0, err
	}

	var out []domain.Review
	empty := 0
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("line %d: %w", line, err)
		}
		text := h.get(rec, "text")
		if text == "" {
			empty++
			continue
		}
		out = append(out, domain.Review{VenueID: h.get(rec, "venue_id"), Text: text})
	}
	return out, empty, nil
}
