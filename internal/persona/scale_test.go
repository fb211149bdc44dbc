package persona_test

import (
	"errors"
	"math/rand"
	"testing"

	"coffee_persona/internal/domain"
	"coffee_persona/internal/persona"
)

func agg(id string, p, s int) domain.VenueAggregate {
	return domain.VenueAggregate{VenueID: id, DisplayName: id, TotalProductivity: p, TotalSocial: s}
}

func TestScale_ThreeVenues(t *testing.T) {
	got, warnings, err := persona.Scale([]domain.VenueAggregate{
		agg("v1", 10, 4), agg("v2", 20, 0), agg("v3", 30, 8),
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings %v", warnings)
	}
	wantP := []float64{0.0, 0.5, 1.0}
	wantS := []float64{0.5, 0.0, 1.0}
	for i := range got {
		if got[i].ProductivityNorm != wantP[i] || got[i].SocialNorm != wantS[i] {
			t.Fatalf("venue %s = (%v,%v), want (%v,%v)", got[i].VenueID,
				got[i].ProductivityNorm, got[i].SocialNorm, wantP[i], wantS[i])
		}
	}
}

func TestScale_AllTiedIsZero(t *testing.T) {
	got, warnings, err := persona.Scale([]domain.VenueAggregate{
		agg("v1", 7, 1), agg("v2", 7, 2), agg("v3", 7, 3),
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	for _, v := range got {
		if v.ProductivityNorm != 0.0 {
			t.Fatalf("tied persona must normalize to 0, got %v", v.ProductivityNorm)
		}
	}
	if len(warnings) != 1 || warnings[0].Persona != domain.PersonaProductivity || warnings[0].Value != 7 {
		t.Fatalf("unexpected warnings %v", warnings)
	}
}

func TestScale_SingleVenue(t *testing.T) {
	got, warnings, err := persona.Scale([]domain.VenueAggregate{agg("only", 12, 3)})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if got[0].ProductivityNorm != 0 || got[0].SocialNorm != 0 {
		t.Fatalf("single venue must be 0/0, got %+v", got[0])
	}
	if len(warnings) != 2 {
		t.Fatalf("want a warning per persona, got %v", warnings)
	}
}

func TestScale_AlwaysInUnitInterval(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		n := 1 + rng.Intn(40)
		aggs := make([]domain.VenueAggregate, n)
		for i := range aggs {
			aggs[i] = agg(string(rune('a'+i%26))+string(rune('a'+i/26)), rng.Intn(500), rng.Intn(500))
		}
		got, _, err := persona.Scale(aggs)
		if err != nil {
			t.Fatalf("round %d: %v", round, err)
		}
		for _, v := range got {
			if v.ProductivityNorm < 0 || v.ProductivityNorm > 1 || v.SocialNorm < 0 || v.SocialNorm > 1 {
				t.Fatalf("round %d: %+v outside [0,1]", round, v)
			}
		}
	}
}

func TestScale_RejectsWholeBatch(t *testing.T) {
	var mie *domain.MissingInputError
	if _, _, err := persona.Scale(nil); !errors.As(err, &mie) {
		t.Fatalf("want MissingInputError, got %v", err)
	}

	var mre *domain.MalformedRecordError
	out, _, err := persona.Scale([]domain.VenueAggregate{agg("a", 1, 1), agg("b", -1, 1)})
	if !errors.As(err, &mre) || out != nil {
		t.Fatalf("want MalformedRecordError and no output, got %v / %v", err, out)
	}
	if _, _, err := persona.Scale([]domain.VenueAggregate{agg("a", 1, 1), agg("a", 2, 1)}); !errors.As(err, &mre) {
		t.Fatalf("want MalformedRecordError for duplicate, got %v", err)
	}
}
