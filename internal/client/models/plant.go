// Package models defines client-side data models used by the HerbScan client:
// plant knowledge records, identification results and scan history entries.
package models

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/herbscan/internal/common"
)

// Image is a binary image payload. On the wire it travels as a standard
// base64 string, which encoding/json produces for byte slices.
type Image []byte

// Synonym is a Sanskrit synonym together with the reason it is used.
type Synonym struct {
	Name   string `json:"name" yaml:"name"`
	Reason string `json:"reason" yaml:"reason"`
}

// Classification places the plant in a classical group (gana) according to
// an author.
type Classification struct {
	Author string `json:"author" yaml:"author"`
	Group  string `json:"gana" yaml:"gana"`
}

// TherapeuticUses splits therapeutic uses into internal and external ones.
type TherapeuticUses struct {
	Internal []string `json:"internal" yaml:"internal,omitempty"`
	External []string `json:"external" yaml:"external,omitempty"`
}

// IsEmpty reports whether there is nothing to render.
func (t *TherapeuticUses) IsEmpty() bool {
	return t == nil || (len(t.Internal) == 0 && len(t.External) == 0)
}

// Reference is a literary reference to a classical text.
type Reference struct {
	Verse  string `json:"verse" yaml:"verse"`
	Text   string `json:"text" yaml:"text"`
	Source string `json:"source" yaml:"source"`
}

// Plant is a plant knowledge record as served by the knowledge store.
//
// Name, ScientificName, Family and Description are required. Every other
// attribute is optional and independent of the others: a nil pointer, map or
// slice means "not documented", while a non-nil empty value means the store
// returned the attribute without content. Both render the same way, but
// Merge keeps them apart.
type Plant struct {
	ID string `json:"_id,omitempty" yaml:"id,omitempty"`

	Name           string `json:"name" yaml:"name"`
	ScientificName string `json:"scientific_name" yaml:"scientific_name"`
	Family         string `json:"family" yaml:"family"`
	Description    string `json:"description" yaml:"description"`

	SanskritName      *string           `json:"sanskrit_name" yaml:"sanskrit_name,omitempty"`
	BotanicalSynonyms []string          `json:"botanical_synonyms" yaml:"botanical_synonyms,omitempty"`
	VernacularNames   map[string]string `json:"vernacular_names" yaml:"vernacular_names,omitempty"`
	Synonyms          []Synonym         `json:"synonyms" yaml:"synonyms,omitempty"`
	Classifications   []Classification  `json:"gana" yaml:"gana,omitempty"`
	Types             []string          `json:"types" yaml:"types,omitempty"`

	Habit           *string           `json:"habit" yaml:"habit,omitempty"`
	Habitat         *string           `json:"habitat" yaml:"habitat,omitempty"`
	Morphology      map[string]string `json:"morphology" yaml:"morphology,omitempty"`
	Characteristics []string          `json:"characteristics" yaml:"characteristics,omitempty"`

	// Rasapanchaka.
	Rasa     []string `json:"rasa" yaml:"rasa,omitempty"`
	Guna     []string `json:"guna" yaml:"guna,omitempty"`
	Virya    *string  `json:"virya" yaml:"virya,omitempty"`
	Vipaka   *string  `json:"vipaka" yaml:"vipaka,omitempty"`
	Prabhava *string  `json:"prabhava" yaml:"prabhava,omitempty"`

	DoshaKarma          map[string]string `json:"dosha_karma" yaml:"dosha_karma,omitempty"`
	Karma               []string          `json:"karma" yaml:"karma,omitempty"`
	Indications         []string          `json:"indication" yaml:"indication,omitempty"`
	MedicinalProperties []string          `json:"medicinal_properties" yaml:"medicinal_properties,omitempty"`
	Uses                []string          `json:"uses" yaml:"uses,omitempty"`
	TherapeuticUses     *TherapeuticUses  `json:"therapeutic_uses" yaml:"therapeutic_uses,omitempty"`

	PartsUsed []string          `json:"parts_used" yaml:"parts_used,omitempty"`
	Dosage    map[string]string `json:"dosage" yaml:"dosage,omitempty"`

	ChemicalConstituents []string `json:"chemical_constituents" yaml:"chemical_constituents,omitempty"`
	PhytoConstituents    []string `json:"phyto_constituents" yaml:"phyto_constituents,omitempty"`
	ModernPharmacology   []string `json:"modern_pharmacology" yaml:"modern_pharmacology,omitempty"`
	ResearchUpdates      []string `json:"research_updates" yaml:"research_updates,omitempty"`

	Formulations []string `json:"formulations" yaml:"formulations,omitempty"`
	Shodhana     *string  `json:"shodana" yaml:"shodana,omitempty"`

	Adulterants       []string `json:"adulterants" yaml:"adulterants,omitempty"`
	Contraindications []string `json:"contraindications" yaml:"contraindications,omitempty"`
	Substitutes       []string `json:"substitutes" yaml:"substitutes,omitempty"`

	References []Reference `json:"references" yaml:"references,omitempty"`

	Images    []Image `json:"images_base64" yaml:"images_base64,omitempty"`
	Thumbnail Image   `json:"thumbnail" yaml:"thumbnail,omitempty"`
}

// Validate checks that all required descriptive fields are present.
// The returned error wraps common.ErrValidation and names every missing field.
func (p *Plant) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil record", common.ErrValidation)
	}

	var missing []string
	for _, f := range []struct{ value, label string }{
		{p.Name, "name"},
		{p.ScientificName, "scientific_name"},
		{p.Family, "family"},
		{p.Description, "description"},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.label)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: plant %q missing %s", common.ErrValidation, p.ID, strings.Join(missing, ", "))
	}
	return nil
}

// Summary returns the minimal subset used by list views: identity, the
// required descriptive fields and the thumbnail. When no thumbnail is set
// the first image is used.
func (p *Plant) Summary() Plant {
	s := Plant{
		ID:             p.ID,
		Name:           p.Name,
		ScientificName: p.ScientificName,
		Family:         p.Family,
		Description:    p.Description,
		Thumbnail:      p.Thumbnail,
	}
	if len(s.Thumbnail) == 0 && len(p.Images) > 0 {
		s.Thumbnail = p.Images[0]
	}
	return s
}

// Merge reconciles a cached record (p) with a freshly fetched one.
//
// The fresh record wins for every attribute it carries: required fields when
// non-blank and optional fields when present (non-nil). Optional attributes
// the fresh record does not carry keep the cached value, so a documented
// field is never lost because a later response was less complete. Neither
// argument is modified; slices and maps in the result are shared with the
// inputs and must be treated as read-only.
func (p *Plant) Merge(fresh *Plant) Plant {
	if p == nil && fresh == nil {
		return Plant{}
	}
	if p == nil {
		return *fresh
	}
	if fresh == nil {
		return *p
	}

	out := *p
	ov := reflect.ValueOf(&out).Elem()
	fv := reflect.ValueOf(fresh).Elem()

	for i := 0; i < fv.NumField(); i++ {
		f := fv.Field(i)
		switch f.Kind() {
		case reflect.String:
			if strings.TrimSpace(f.String()) != "" {
				ov.Field(i).Set(f)
			}
		case reflect.Pointer, reflect.Map, reflect.Slice:
			if !f.IsNil() {
				ov.Field(i).Set(f)
			}
		}
	}
	return out
}

// Completeness returns how many optional attributes are documented
// (present, possibly empty).
func (p *Plant) Completeness() int {
	v := reflect.ValueOf(p).Elem()
	n := 0
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		switch f.Kind() {
		case reflect.Pointer, reflect.Map, reflect.Slice:
			if !f.IsNil() {
				n++
			}
		}
	}
	return n
}

// StringPtr returns a pointer to s. Handy for optional attributes.
func StringPtr(s string) *string {
	return &s
}
