package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

/********** alias registries (single source of truth) **********/

var shopAliases = map[string][]string{
	"id":           {"Id", "shop_id", "venue_id"},
	"rating":       {"RateStars", "rate_stars", "rating", "stars"},
	"review_count": {"ReviewsTotalCount", "reviews_total_count", "review_count", "reviews"},
	"name":         {"OrganizationName", "organization_name", "name"},
	"address":      {"OrganizationAddress", "organization_address", "address"},
	"lat":          {"OrganizationLatitude", "latitude", "lat"},
	"lon":          {"OrganizationLongitude", "longitude", "lon", "lng"},
}

var reviewAliases = map[string][]string{
	"venue_id": {"OrganizationId", "organization_id", "venue_id", "shop_id"},
	"text":     {"ReviewTextOriginal", "review_text_original", "review_text", "text"},
}

/********** header resolution **********/

// header maps a canonical column key to its index in a record.
type header map[string]int

// resolveHeader matches column names case-insensitively against the alias registry.
// The first alias found wins. Every required key must resolve.
func resolveHeader(cols []string, aliases map[string][]string, required ...string) (header, error) {
	pos := make(map[string]int, len(cols))
	for i, c := range cols {
		c = strings.TrimSpace(strings.TrimPrefix(c, "\ufeff"))
		if _, dup := pos[strings.ToLower(c)]; !dup {
			pos[strings.ToLower(c)] = i
		}
	}
	h := header{}
	for key, names := range aliases {
		for _, n := range names {
			if i, ok := pos[strings.ToLower(n)]; ok {
				h[key] = i
				break
			}
		}
	}
	for _, k := range required {
		if _, ok := h[k]; !ok {
			return nil, fmt.Errorf("missing column %q (accepted: %s)", k, strings.Join(aliases[k], ", "))
		}
	}
	return h, nil
}

// get returns the trimmed cell for key, "" when the column is absent or the row is short.
func (h header) get(rec []string, key string) string {
	i, ok := h[key]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

/********** tiny helpers **********/

// parseFloatFlexible accepts "4.5" and the decimal-comma form "4,5".
func parseFloatFlexible(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseIntFlexible accepts integers and integral floats ("57", "57.0", "57,0").
func parseIntFlexible(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	if f, ok := parseFloatFlexible(s); ok && f == float64(int(f)) {
		return int(f), true
	}
	return 0, false
}

func ptrFloat(s string) *float64 {
	if f, ok := parseFloatFlexible(s); ok {
		return &f
	}
	return nil
}

// displayName takes the first comma-separated part of the address; the export has no clean name column.
func displayName(name, address string) string {
	if name != "" {
		return name
	}
	if address == "" {
		return "Unknown"
	}
	first := strings.TrimSpace(strings.SplitN(address, ",", 2)[0])
	if first == "" {
		return "Unknown"
	}
	return first
}
