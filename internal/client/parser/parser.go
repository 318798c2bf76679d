// Package parser converts untyped payloads returned by the HerbScan backend
// into typed models.
//
// The identification service answers with a loosely specified JSON object.
// ParseIdentification requires only the identified name; every other field is
// optional and defaulted. Inconsistent matching metadata (match flag without
// a record id) is downgraded rather than rejected, so the descriptive part of
// the answer stays usable.
//
// Knowledge-store records are decoded by ParsePlant / ParsePlantList and
// validated on ingestion; invalid records are rejected individually.
package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/herbscan/internal/client/models"
	"github.com/dmitrijs2005/herbscan/internal/common"
)

// Payload is an untyped JSON object as received from the backend.
type Payload map[string]any

// Wire keys of the identification response.
const (
	keyPlantName       = "plant_name"
	keyIdentifiedName  = "identified_name"
	keyScientificName  = "scientific_name"
	keyConfidence      = "confidence"
	keyFullDescription = "full_description"
	keyDescription     = "description"
	keyCharacteristics = "characteristics"
	keyMedicinal       = "medicinal_properties"
	keyUses            = "uses"
	keyPartsUsed       = "parts_used"
	keyMatches         = "matches_database"
	keyPlantID         = "database_plant_id"
	keyScanID          = "scan_id"
)

// Decode parses raw JSON into a Payload. Anything that is not a JSON object
// is reported as common.ErrMalformedResponse.
func Decode(raw []byte) (Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var p Payload
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: empty payload", common.ErrMalformedResponse)
	}
	return p, nil
}

// ParseIdentification builds an IdentificationResult from p.
func ParseIdentification(p Payload) (*models.IdentificationResult, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil payload", common.ErrMalformedResponse)
	}

	name, err := p.name(keyPlantName, keyIdentifiedName)
	if err != nil {
		return nil, err
	}

	r := &models.IdentificationResult{
		Name:                name,
		ScientificName:      p.optString(keyScientificName),
		Confidence:          p.confidence(),
		Characteristics:     p.strings(keyCharacteristics),
		MedicinalProperties: p.strings(keyMedicinal),
		Uses:                p.strings(keyUses),
		PartsUsed:           p.strings(keyPartsUsed),
		ScanID:              p.str(keyScanID),
	}

	r.Description = p.optString(keyFullDescription)
	if r.Description == nil {
		r.Description = p.optString(keyDescription)
	}

	if p.boolean(keyMatches) {
		if id := p.str(keyPlantID); id != "" {
			r.MatchesDatabase = true
			r.DatabasePlantID = id
		}
	}

	return r, nil
}

// str returns the trimmed string value at key or "" when absent or not a string.
func (p Payload) str(key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

// name returns the identified name from the first of keys that is present.
// A present name key that is blank or not a string makes the whole payload
// malformed, even when another key carries a usable name. JSON null counts
// as absent.
func (p Payload) name(keys ...string) (string, error) {
	name := ""
	for _, k := range keys {
		v, ok := p[k]
		if !ok || v == nil {
			continue
		}
		s, _ := v.(string)
		s = strings.TrimSpace(s)
		if s == "" {
			return "", fmt.Errorf("%w: %s is blank", common.ErrMalformedResponse, k)
		}
		if name == "" {
			name = s
		}
	}
	if name == "" {
		return "", fmt.Errorf("%w: identified name is missing", common.ErrMalformedResponse)
	}
	return name, nil
}

func (p Payload) optString(key string) *string {
	s := p.str(key)
	if s == "" {
		return nil
	}
	return &s
}

// strings returns the string items of the array at key. Non-string items are
// skipped. The result is never nil.
func (p Payload) strings(key string) []string {
	out := []string{}
	items, ok := p[key].([]any)
	if !ok {
		return out
	}
	for _, it := range items {
		if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func (p Payload) boolean(key string) bool {
	switch t := p[key].(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return err == nil && b
	default:
		return false
	}
}

// confidence renders the confidence label. Numeric values in [0,1] are read
// as ratios, larger values as percentages.
func (p Payload) confidence() string {
	switch t := p[keyConfidence].(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return s
		}
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return percent(f)
		}
	case float64:
		return percent(t)
	}
	return common.DefaultConfidence
}

func percent(f float64) string {
	if f <= 1 {
		f *= 100
	}
	return strconv.Itoa(int(math.Round(f))) + "%"
}
