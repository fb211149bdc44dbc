package dataset_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"

	"coffee_persona/internal/adapters/dataset"
	"coffee_persona/internal/domain"
)

const shopsCSV = "\ufeffId;RateStars;ReviewsTotalCount;OrganizationAddress;OrganizationLatitude;OrganizationLongitude\n" +
	"s1;4,5;120;Kopi Kenangan, Jl. Sudirman 1;-6,2;106,8\n" +
	"s2;3.9;57,0;;;\n" +
	"s3;;10;Tanpa Rating, Jl. Kosong;;\n" +
	"s1;2.0;1;Duplicate;;\n"

const reviewsCSV = "OrganizationId;ReviewTextOriginal\n" +
	"s1;Wifi kencang, cocok buat kerja\n" +
	"s2;\"Tempat nongkrong; rame\"\n" +
	"s3;review of a dropped shop\n" +
	"s2;   \n" +
	"s9;unknown venue stays for the engine\n"

func TestReadShops(t *testing.T) {
	venues, dropped, err := dataset.ReadShops(strings.NewReader(shopsCSV))
	if err != nil {
		t.Fatalf("ReadShops: %v", err)
	}
	if len(venues) != 2 {
		t.Fatalf("want 2 venues, got %d", len(venues))
	}
	if _, ok := dropped["s3"]; !ok || len(dropped) != 1 {
		t.Fatalf("want s3 dropped, got %v", dropped)
	}

	s1 := venues["s1"]
	if s1.Rating != 4.5 || s1.ReviewCount != 120 || s1.DisplayName != "Kopi Kenangan" {
		t.Fatalf("s1 parsed wrong: %+v", s1)
	}
	if s1.Lat == nil || *s1.Lat != -6.2 {
		t.Fatalf("s1 lat: %v", s1.Lat)
	}
	s2 := venues["s2"]
	if s2.ReviewCount != 57 || s2.DisplayName != "Unknown" || s2.Lat != nil {
		t.Fatalf("s2 parsed wrong: %+v", s2)
	}
}

func TestReadShops_MissingColumn(t *testing.T) {
	_, _, err := dataset.ReadShops(strings.NewReader("Id;Name\ns1;x\n"))
	if err == nil || !strings.Contains(err.Error(), `"rating"`) {
		t.Fatalf("want missing rating column error, got %v", err)
	}
}

func TestReadShops_Empty(t *testing.T) {
	_, _, err := dataset.ReadShops(strings.NewReader(""))
	var mi *domain.MissingInputError
	if !errors.As(err, &mi) {
		t.Fatalf("want MissingInputError, got %v", err)
	}
}

func TestReadReviews(t *testing.T) {
	reviews, empty, err := dataset.ReadReviews(strings.NewReader(reviewsCSV))
	if err != nil {
		t.Fatalf("ReadReviews: %v", err)
	}
	if empty != 1 {
		t.Fatalf("want 1 empty review, got %d", empty)
	}
	if len(reviews) != 4 {
		t.Fatalf("want 4 reviews, got %d", len(reviews))
	}
	if reviews[1].Text != "Tempat nongkrong; rame" {
		t.Fatalf("quoted field: %q", reviews[1].Text)
	}
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	latin, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(reviewsCSV + "s1;Kafé yang nyaman\n"))
	if err != nil {
		t.Fatal(err)
	}
	l, err := dataset.New(
		writeFile(t, dir, "shops.csv", []byte(shopsCSV)),
		writeFile(t, dir, "reviews.csv", latin),
		"latin-1",
	)
	if err != nil {
		t.Fatal(err)
	}

	ds, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.DroppedShops != 1 || ds.DroppedReviews != 1 || ds.OrphanReviews != 1 {
		t.Fatalf("counts: %+v", ds)
	}
	if len(ds.Reviews) != 4 {
		t.Fatalf("want 4 reviews, got %d", len(ds.Reviews))
	}
	if got := ds.Reviews[3].Text; got != "Kafé yang nyaman" {
		t.Fatalf("latin-1 decode: %q", got)
	}
	for _, r := range ds.Reviews {
		if r.VenueID == "s3" {
			t.Fatal("review of dropped shop leaked")
		}
	}
}

func TestLoader_MissingFile(t *testing.T) {
	l, err := dataset.New("/nope/shops.csv", "/nope/reviews.csv", "")
	if err != nil {
		t.Fatal(err)
	}
	_, err = l.Load(context.Background())
	var mi *domain.MissingInputError
	if !errors.As(err, &mi) {
		t.Fatalf("want MissingInputError, got %v", err)
	}
}

func TestNew_BadEncoding(t *testing.T) {
	if _, err := dataset.New("a", "b", "ebcdic"); err == nil {
		t.Fatal("want error")
	}
}

func TestWriteProfiles(t *testing.T) {
	var buf bytes.Buffer
	err := dataset.WriteProfiles(&buf, []domain.VenueProfile{{
		VenueID: "s1", Name: "Kopi, Satu", Rating: 4.5, ReviewCount: 10,
		TotalProductivity: 12, TotalSocial: 3, ProductivityNorm: 1, SocialNorm: 0.25,
		Segment: domain.SegmentProductivityHub,
	}})
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("want header+1 row, got %q", buf.String())
	}
	want := `s1,"Kopi, Satu",4.5,10,12,3,1.000000,0.250000,` + string(domain.SegmentProductivityHub)
	if lines[1] != want {
		t.Fatalf("row:\n got %s\nwant %s", lines[1], want)
	}
}
