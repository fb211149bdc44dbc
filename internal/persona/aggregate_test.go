package persona_test

import (
	"errors"
	"testing"

	"coffee_persona/internal/domain"
	"coffee_persona/internal/persona"
)

func meta(id, name string, rating float64, count int) domain.VenueMetadata {
	return domain.VenueMetadata{VenueID: id, DisplayName: name, Rating: rating, ReviewCount: count}
}

func TestAggregate_SumsAndSortsByVenueID(t *testing.T) {
	venues := map[string]domain.VenueMetadata{
		"b": meta("b", "Kopi B", 4.5, 120),
		"a": meta("a", "Kopi A", 4.8, 40),
		"c": meta("c", "Kopi C", 3.9, 10), // no reviews: must not appear
	}
	scores := []domain.ReviewScore{
		{VenueID: "b", Productivity: 3, Social: 1},
		{VenueID: "a", Productivity: 0, Social: 5},
		{VenueID: "b", Productivity: 2, Social: 0},
		{VenueID: "a", Productivity: 1, Social: 2},
	}

	got, skipped, err := persona.Aggregate(scores, venues, domain.PolicyFail)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("unexpected skipped: %v", skipped)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 aggregates, got %d", len(got))
	}
	want := []domain.VenueAggregate{
		{VenueID: "a", DisplayName: "Kopi A", Rating: 4.8, ReviewCount: 40, TotalProductivity: 1, TotalSocial: 7},
		{VenueID: "b", DisplayName: "Kopi B", Rating: 4.5, ReviewCount: 120, TotalProductivity: 5, TotalSocial: 1},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("aggregate[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestAggregate_UnknownVenue(t *testing.T) {
	venues := map[string]domain.VenueMetadata{"a": meta("a", "Kopi A", 4.0, 1)}
	scores := []domain.ReviewScore{
		{VenueID: "a", Productivity: 2},
		{VenueID: "ghost", Productivity: 9},
	}

	_, _, err := persona.Aggregate(scores, venues, domain.PolicyFail)
	var mre *domain.MalformedRecordError
	if !errors.As(err, &mre) || mre.VenueID != "ghost" || mre.Index != 1 {
		t.Fatalf("want malformed record for ghost, got %v", err)
	}

	got, skipped, err := persona.Aggregate(scores, venues, domain.PolicySkip)
	if err != nil {
		t.Fatalf("skip policy err: %v", err)
	}
	if len(skipped) != 1 || skipped[0].VenueID != "ghost" {
		t.Fatalf("unexpected skipped: %v", skipped)
	}
	if len(got) != 1 || got[0].TotalProductivity != 2 {
		t.Fatalf("ghost review leaked into sums: %+v", got)
	}
}

func TestAggregate_InvalidMetadata(t *testing.T) {
	venues := map[string]domain.VenueMetadata{
		"a": meta("a", "Kopi A", 4.0, 1),
		"x": meta("x", "Broken", 7.5, 1),
	}
	scores := []domain.ReviewScore{
		{VenueID: "x", Social: 1},
		{VenueID: "a", Social: 1},
		{VenueID: "x", Social: 1},
	}
	got, skipped, err := persona.Aggregate(scores, venues, domain.PolicySkip)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(skipped) != 2 {
		t.Fatalf("want both reviews of x skipped, got %d", len(skipped))
	}
	if len(got) != 1 || got[0].VenueID != "a" {
		t.Fatalf("unexpected aggregates %+v", got)
	}
}

func TestAggregate_MissingInput(t *testing.T) {
	var mie *domain.MissingInputError
	if _, _, err := persona.Aggregate(nil, map[string]domain.VenueMetadata{"a": meta("a", "A", 1, 1)}, domain.PolicyFail); !errors.As(err, &mie) {
		t.Fatalf("want MissingInputError for no scores, got %v", err)
	}
	if _, _, err := persona.Aggregate([]domain.ReviewScore{{VenueID: "a"}}, nil, domain.PolicyFail); !errors.As(err, &mie) {
		t.Fatalf("want MissingInputError for no metadata, got %v", err)
	}
	// everything skipped leaves an empty population
	_, skipped, err := persona.Aggregate([]domain.ReviewScore{{VenueID: "z"}}, map[string]domain.VenueMetadata{"a": meta("a", "A", 1, 1)}, domain.PolicySkip)
	if !errors.As(err, &mie) || len(skipped) != 1 {
		t.Fatalf("want MissingInputError with one skipped, got %v / %d", err, len(skipped))
	}
}
