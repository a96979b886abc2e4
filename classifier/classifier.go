// Package classifier scores a free-text business description against
// per-sector keyword sets and extracts structured facts from it. The scoring
// and extraction heuristics are deliberately simple and deterministic; voice
// and template selection downstream depend on their exact thresholds, so do
// not tune them without adjusting the catalog defaults.
package classifier

import (
	"errors"
	"regexp"
	"strings"
)

// DefaultSector is used whenever no keyword signal wins.
const DefaultSector = "service"

// ErrEmptyDescription is returned for missing or blank input; it is the only
// error this package produces.
var ErrEmptyDescription = errors.New("empty business description")

// Result is the outcome of classifying one description.
type Result struct {
	Sector       string
	Confidence   float64
	BusinessName string
	Location     string
	Services     []string
	Size         string
}

// sectorKeywords is ordered: ties between sectors are broken by declaration
// order, first one wins. Keep the order stable.
var sectorKeywords = []struct {
	sector   string
	keywords []string
}{
	{"restaurant", []string{
		"restaurant", "pizzeria", "brasserie", "café", "bistrot", "cuisine",
		"menu", "table", "réservation", "gastronomie", "chef", "plat",
	}},
	{"salon", []string{
		"salon", "coiffure", "coiffeur", "beauté", "esthétique",
		"rendez-vous", "coupe", "coloration", "manucure",
	}},
	{"ecommerce", []string{
		"boutique", "vente", "produits", "commerce", "magasin",
		"e-commerce", "commande", "livraison",
	}},
	{"artisan", []string{
		"plombier", "électricien", "chauffagiste", "dépannage",
		"intervention", "réparation", "urgence", "artisan",
	}},
	{"service", []string{
		"conseil", "service", "accompagnement", "formation", "consulting",
		"expertise", "consultation",
	}},
	{"medical", []string{
		"médecin", "docteur", "cabinet", "consultation", "santé", "patient",
		"rendez-vous médical", "praticien",
	}},
}

var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:restaurant|chez|salon|boutique|cabinet)\s+([a-zA-ZÀ-ÿ\s]{2,20})`),
	regexp.MustCompile(`(?i)([a-zA-ZÀ-ÿ\s]{2,20})\s+(?:restaurant|salon|boutique)`),
	regexp.MustCompile(`(?i)je\s+(?:suis|gère|dirige)\s+([a-zA-ZÀ-ÿ\s]{2,20})`),
}

var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)à\s+([a-zA-ZÀ-ÿ\s]{2,20})`),
	regexp.MustCompile(`(?i)sur\s+([a-zA-ZÀ-ÿ\s]{2,20})`),
	regexp.MustCompile(`(?i)dans\s+([a-zA-ZÀ-ÿ\s]{2,20})`),
}

var (
	specialtyPattern = regexp.MustCompile(`(?i)(?:spécialisé|spécialités?)\s+(?:(?:en|dans)\s+)?([a-zA-ZÀ-ÿ\s,]{5,50})`)
	offerPattern     = regexp.MustCompile(`(?i)(?:propose|offre|fait)\s+([a-zA-ZÀ-ÿ\s,]{5,50})`)
	indicatorPattern = regexp.MustCompile(`(?i)(?:livraison|à emporter|sur place|dépannage|urgence)`)
)

// Classify runs sector scoring, fact extraction, and size detection over one
// business description. Every branch has a deterministic fallback: unknown
// input yields the service sector, empty extraction, and small size.
func Classify(description string) (Result, error) {
	if strings.TrimSpace(description) == "" {
		return Result{}, ErrEmptyDescription
	}

	sector, confidence := detectSector(description)
	name, location, services := extractBusinessInfo(description)

	return Result{
		Sector:       sector,
		Confidence:   confidence,
		BusinessName: name,
		Location:     location,
		Services:     services,
		Size:         detectSize(description),
	}, nil
}

// detectSector scores each sector's keyword list against the lower-cased
// description: +1 per keyword found as a substring, +0.5 when it also appears
// as a whole word. Three keyword hits saturate confidence at 1.0.
func detectSector(description string) (string, float64) {
	text := strings.ToLower(description)

	bestSector := DefaultSector
	bestScore := 0.0

	for _, entry := range sectorKeywords {
		score := 0.0
		for _, kw := range entry.keywords {
			if strings.Contains(text, kw) {
				score++
			}
			if wholeWord(text, kw) {
				score += 0.5
			}
		}
		if score > bestScore {
			bestScore = score
			bestSector = entry.sector
		}
	}

	confidence := bestScore / 3
	if confidence > 1 {
		confidence = 1
	}
	return bestSector, confidence
}

// wholeWord reports whether kw appears bounded by whitespace or string edges.
func wholeWord(text, kw string) bool {
	return strings.Contains(text, " "+kw+" ") ||
		strings.HasPrefix(text, kw+" ") ||
		strings.HasSuffix(text, " "+kw)
}

// extractBusinessInfo pulls the business name, location, and service
// candidates out of the description. For name and location the first matching
// pattern wins; service candidates accumulate across all patterns and are
// deduplicated, keeping only fragments longer than two characters.
func extractBusinessInfo(description string) (name, location string, services []string) {
	for _, p := range namePatterns {
		if m := p.FindStringSubmatch(description); m != nil {
			name = strings.TrimSpace(m[1])
			break
		}
	}

	for _, p := range locationPatterns {
		if m := p.FindStringSubmatch(description); m != nil {
			location = strings.TrimSpace(m[1])
			break
		}
	}

	var candidates []string
	for _, p := range []*regexp.Regexp{specialtyPattern, offerPattern} {
		if m := p.FindStringSubmatch(description); m != nil {
			for _, part := range strings.Split(m[1], ",") {
				candidates = append(candidates, strings.TrimSpace(part))
			}
		}
	}
	candidates = append(candidates, indicatorPattern.FindAllString(description, -1)...)

	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if len(c) <= 2 || seen[c] {
			continue
		}
		services = append(services, c)
		seen[c] = true
	}
	return name, location, services
}

var (
	largeSizeWords  = []string{"chaîne", "plusieurs", "franchise", "réseau", "filiales", "groupe"}
	mediumSizeWords = []string{"équipe", "collaborateurs", "succursale", "agence"}
)

// detectSize buckets the business by multi-site or team vocabulary; the
// decision is independent of the sector.
func detectSize(description string) string {
	text := strings.ToLower(description)

	for _, w := range largeSizeWords {
		if strings.Contains(text, w) {
			return "large"
		}
	}
	for _, w := range mediumSizeWords {
		if strings.Contains(text, w) {
			return "medium"
		}
	}
	return "small"
}
