package cli

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/herbscan/internal/client/client"
	"github.com/dmitrijs2005/herbscan/internal/client/models"
	"github.com/dmitrijs2005/herbscan/internal/client/orchestrator"
	"github.com/dmitrijs2005/herbscan/internal/client/services"
	"github.com/fatih/color"
)

var (
	titleColor   = color.New(color.FgGreen, color.Bold).SprintFunc()
	headerColor  = color.New(color.FgCyan, color.Bold).SprintFunc()
	successColor = color.New(color.FgGreen).SprintFunc()
	warnColor    = color.New(color.FgYellow).SprintFunc()
	errorColor   = color.New(color.FgRed, color.Bold).SprintFunc()
	dimColor     = color.New(color.Faint).SprintFunc()
)

// userMessage returns what the user should read for err: the service
// detail when the server sent one, otherwise the error text.
func userMessage(err error) string {
	if d := client.DetailOf(err); d != "" {
		return d
	}
	var f *orchestrator.Failure
	if errors.As(err, &f) {
		return f.Message
	}
	return err.Error()
}

func stateColor(s orchestrator.State) string {
	switch s {
	case orchestrator.Resolved:
		return successColor(s.String())
	case orchestrator.Failed:
		return errorColor(s.String())
	case orchestrator.Submitting:
		return warnColor(s.String())
	default:
		return s.String()
	}
}

// confidenceColor highlights "High" labels and percentages of 80 and above.
func confidenceColor(c string) string {
	var pct float64
	switch {
	case strings.EqualFold(c, "high"):
		return successColor(c)
	case strings.EqualFold(c, "low"):
		return warnColor(c)
	case strings.HasSuffix(c, "%"):
		if _, err := fmt.Sscanf(c, "%f%%", &pct); err == nil && pct >= 80 {
			return successColor(c)
		}
	}
	return c
}

func writeList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w, headerColor(title+":"))
	for _, it := range items {
		fmt.Fprintf(w, "  - %s\n", it)
	}
}

func writeMap(w io.Writer, title string, m map[string]string) {
	if len(m) == 0 {
		return
	}
	fmt.Fprintln(w, headerColor(title+":"))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		fmt.Fprintf(w, "  %s: %s\n", k, m[k])
	}
}

func writeText(w io.Writer, title string, v *string) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return
	}
	fmt.Fprintf(w, "%s %s\n", headerColor(title+":"), *v)
}

// renderResult prints the orchestrator snapshot.
func renderResult(w io.Writer, s orchestrator.Snapshot) {
	fmt.Fprintf(w, "State: %s\n", stateColor(s.State))

	switch s.State {
	case orchestrator.Idle:
		fmt.Fprintln(w, dimColor("No image selected. Use 'select <image>'."))
	case orchestrator.ImageSelected:
		fmt.Fprintf(w, "Image ready (%d bytes). Use 'identify' to submit.\n", s.ImageSize)
	case orchestrator.Submitting:
		fmt.Fprintln(w, "Identification in progress...")
	case orchestrator.Failed:
		fmt.Fprintf(w, "%s %s\n", errorColor("Failed:"), s.Failure)
		fmt.Fprintln(w, dimColor("Use 'identify' to retry or 'reset' to start over."))
	case orchestrator.Resolved:
		if s.Result != nil {
			renderIdentification(w, s.Result)
		}
	}
}

func renderIdentification(w io.Writer, r *models.IdentificationResult) {
	fmt.Fprintln(w, titleColor(r.Name))
	writeText(w, "Scientific name", r.ScientificName)
	fmt.Fprintf(w, "%s %s\n", headerColor("Confidence:"), confidenceColor(r.Confidence))
	writeText(w, "Description", r.Description)
	writeList(w, "Characteristics", r.Characteristics)
	writeList(w, "Medicinal properties", r.MedicinalProperties)
	writeList(w, "Uses", r.Uses)
	writeList(w, "Parts used", r.PartsUsed)

	if id, ok := r.MatchedPlantID(); ok {
		fmt.Fprintf(w, "%s use 'show %s' for the full record\n", successColor("Found in database:"), id)
	}
}

// renderPlant prints a knowledge record, skipping every section that is
// absent or empty.
func renderPlant(w io.Writer, p *models.Plant) {
	fmt.Fprintln(w, titleColor(p.Name))
	fmt.Fprintf(w, "%s (%s)\n", p.ScientificName, p.Family)
	if p.ID != "" {
		fmt.Fprintln(w, dimColor("id: "+p.ID))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, p.Description)

	writeText(w, "Sanskrit name", p.SanskritName)
	writeList(w, "Botanical synonyms", p.BotanicalSynonyms)
	writeMap(w, "Vernacular names", p.VernacularNames)

	if len(p.Synonyms) > 0 {
		fmt.Fprintln(w, headerColor("Synonyms:"))
		for _, s := range p.Synonyms {
			fmt.Fprintf(w, "  - %s: %s\n", s.Name, s.Reason)
		}
	}
	if len(p.Classifications) > 0 {
		fmt.Fprintln(w, headerColor("Classification:"))
		for _, c := range p.Classifications {
			fmt.Fprintf(w, "  - %s: %s\n", c.Author, c.Group)
		}
	}
	writeList(w, "Types", p.Types)

	writeText(w, "Habit", p.Habit)
	writeText(w, "Habitat", p.Habitat)
	writeMap(w, "Morphology", p.Morphology)
	writeList(w, "Characteristics", p.Characteristics)

	writeList(w, "Rasa", p.Rasa)
	writeList(w, "Guna", p.Guna)
	writeText(w, "Virya", p.Virya)
	writeText(w, "Vipaka", p.Vipaka)
	writeText(w, "Prabhava", p.Prabhava)

	writeMap(w, "Dosha karma", p.DoshaKarma)
	writeList(w, "Karma", p.Karma)
	writeList(w, "Indications", p.Indications)
	writeList(w, "Medicinal properties", p.MedicinalProperties)
	writeList(w, "Uses", p.Uses)
	if !p.TherapeuticUses.IsEmpty() {
		writeList(w, "Therapeutic uses (internal)", p.TherapeuticUses.Internal)
		writeList(w, "Therapeutic uses (external)", p.TherapeuticUses.External)
	}

	writeList(w, "Parts used", p.PartsUsed)
	writeMap(w, "Dosage", p.Dosage)

	writeList(w, "Chemical constituents", p.ChemicalConstituents)
	writeList(w, "Phyto constituents", p.PhytoConstituents)
	writeList(w, "Modern pharmacology", p.ModernPharmacology)
	writeList(w, "Research updates", p.ResearchUpdates)

	writeList(w, "Formulations", p.Formulations)
	writeText(w, "Shodhana", p.Shodhana)

	writeList(w, "Adulterants", p.Adulterants)
	writeList(w, "Contraindications", p.Contraindications)
	writeList(w, "Substitutes", p.Substitutes)

	if len(p.References) > 0 {
		fmt.Fprintln(w, headerColor("References:"))
		for _, r := range p.References {
			fmt.Fprintf(w, "  - %s %s (%s)\n", r.Verse, r.Text, r.Source)
		}
	}

	if n := len(p.Images); n > 0 {
		fmt.Fprintln(w, dimColor(fmt.Sprintf("%d image(s) attached", n)))
	}
}

func renderSummary(w io.Writer, p models.Plant) {
	id := p.ID
	if id == "" {
		id = "-"
	}
	fmt.Fprintf(w, "%-26s %s (%s)\n", dimColor(id), titleColor(p.Name), p.ScientificName)
}

func renderCatalogPage(w io.Writer, page *services.CatalogPage) {
	if page.Offline {
		fmt.Fprintln(w, warnColor("Server unavailable, showing cached catalog"))
	}
	if len(page.Plants) == 0 {
		fmt.Fprintln(w, "No plants found")
	}
	for _, p := range page.Plants {
		renderSummary(w, p)
	}
	if len(page.Plants) > 0 {
		fmt.Fprintf(w, "%s\n", dimColor(fmt.Sprintf("%d-%d of %d", page.Skip+1, page.Skip+len(page.Plants), page.Total)))
	}
	if n := len(page.Rejected); n > 0 {
		fmt.Fprintln(w, warnColor(fmt.Sprintf("%d record(s) skipped as invalid", n)))
	}
}

func renderScan(w io.Writer, s models.Scan) {
	match := ""
	if s.PlantID != "" {
		match = " [" + s.PlantID + "]"
	}
	fmt.Fprintf(w, "%s  %s  %s%s\n",
		dimColor(s.CreatedAt.Local().Format(time.DateTime)),
		titleColor(s.PlantName),
		confidenceColor(s.Confidence),
		match,
	)
}
