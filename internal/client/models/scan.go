package models

import (
	"slices"
	"time"
)

// Scan is a history record of one successful identification. It is
// immutable once written.
type Scan struct {
	// ID is a globally unique identifier (UUID v4) assigned on append.
	ID string

	// PlantName is the name reported by the identification service.
	PlantName string

	// Confidence is the service's confidence label.
	Confidence string

	// PlantID is the matched knowledge record id, empty when unmatched.
	PlantID string

	// CreatedAt is the creation time in UTC and the display ordering key.
	CreatedAt time.Time

	// Image holds the submitted image bytes.
	Image []byte
}

// ScanFromResult builds a history entry from an identification result and
// the submitted image. ID and CreatedAt are left for the history cache.
func ScanFromResult(r *IdentificationResult, image []byte) Scan {
	s := Scan{
		PlantName:  r.Name,
		Confidence: r.Confidence,
		Image:      image,
	}
	if id, ok := r.MatchedPlantID(); ok {
		s.PlantID = id
	}
	return s
}

// Clone returns a copy of s that does not share the image buffer.
func (s Scan) Clone() Scan {
	s.Image = slices.Clone(s.Image)
	return s
}
