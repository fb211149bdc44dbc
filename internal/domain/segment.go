package domain

import "fmt"

// Persona names a behavioral archetype a review can match.
type Persona string

const (
	PersonaProductivity Persona = "productivity"
	PersonaSocial       Persona = "social"
)

// Segment is one of the four quadrants a venue falls into.
type Segment string

const (
	SegmentAllRounder      Segment = "AllRounder"
	SegmentProductivityHub Segment = "ProductivityHub"
	SegmentSocialHotspot   Segment = "SocialHotspot"
	SegmentGeneralPurpose  Segment = "GeneralPurpose"
)

// Segments lists every segment in report order.
var Segments = []Segment{
	SegmentProductivityHub,
	SegmentSocialHotspot,
	SegmentAllRounder,
	SegmentGeneralPurpose,
}

// Label is the human readable form used in reports.
func (s Segment) Label() string {
	switch s {
	case SegmentAllRounder:
		return "All-Rounder"
	case SegmentProductivityHub:
		return "Productivity Hub"
	case SegmentSocialHotspot:
		return "Social Hotspot"
	case SegmentGeneralPurpose:
		return "General Purpose"
	}
	return string(s)
}

// ParseSegment accepts the identifier or the label, case-sensitively.
func ParseSegment(s string) (Segment, error) {
	for _, seg := range Segments {
		if s == string(seg) || s == seg.Label() {
			return seg, nil
		}
	}
	return "", fmt.Errorf("unknown segment %q", s)
}
