package models

import "slices"

// IdentificationResult is the typed answer of the identification service for
// a single submitted image. It lives only in the orchestrator's session state
// until it is discarded or recorded as a Scan.
type IdentificationResult struct {
	// Name is the identified common name. Always non-empty.
	Name string

	// ScientificName is the binomial name, when the service reported one.
	ScientificName *string

	// Confidence is a service-defined short label such as "High" or "72%".
	Confidence string

	// Description is the free-form description, when reported.
	Description *string

	// List attributes are never nil once parsed.
	Characteristics     []string
	MedicinalProperties []string
	Uses                []string
	PartsUsed           []string

	// MatchesDatabase is true only when DatabasePlantID is also set.
	MatchesDatabase bool
	DatabasePlantID string

	// ScanID is the server-side scan id, if the service recorded one.
	ScanID string
}

// MatchedPlantID returns the identifier of the matched knowledge record.
func (r *IdentificationResult) MatchedPlantID() (string, bool) {
	if r == nil || !r.MatchesDatabase || r.DatabasePlantID == "" {
		return "", false
	}
	return r.DatabasePlantID, true
}

// Clone returns a deep copy of r.
func (r *IdentificationResult) Clone() *IdentificationResult {
	if r == nil {
		return nil
	}
	out := *r
	out.ScientificName = cloneString(r.ScientificName)
	out.Description = cloneString(r.Description)
	out.Characteristics = slices.Clone(r.Characteristics)
	out.MedicinalProperties = slices.Clone(r.MedicinalProperties)
	out.Uses = slices.Clone(r.Uses)
	out.PartsUsed = slices.Clone(r.PartsUsed)
	return &out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
