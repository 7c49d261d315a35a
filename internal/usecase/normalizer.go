package usecase

import (
	"log"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/shopscan/backend/internal/domain"
)

// Relevance scoring weights. The score is a completeness signal in [0,1]:
// records carrying more of the fields a buyer needs rank higher.
const (
	baseRelevanceScore  = 0.5
	nameLengthBonus     = 0.1  // name longer than 5 chars
	descriptionBonus    = 0.1  // description longer than 20 chars
	numericPriceBonus   = 0.15 // value or min present
	sourceURLBonus      = 0.1
	specsBonus          = 0.05
	maxRelevanceScore   = 1.0
	minScoredNameLength = 5
	minScoredDescLength = 20
)

// nonProductRegex matches informational phrasing (how-to, tutorial, review,
// comparison, definition style) the model sometimes returns instead of
// sellable items. Phrase list is language-specific: pt-BR first, English
// second.
var nonProductRegex = regexp.MustCompile(`(?i)\b(como (fazer|escolher|funciona|usar|limpar)|passo a passo|tutorial|guia (de|para|completo)|o que (é|são)|qual a diferença|análise|resenha|comparativo|comparação|história d[aeo]|dicas (de|para)|significado de|definição de|how to|guide to|what (is|are)|review|comparison|history of|tips for|definition of)\b`)

var whitespaceRunRegex = regexp.MustCompile(`\s+`)

// Locale-aware printers for price display.
var (
	brlPrinter = message.NewPrinter(language.BrazilianPortuguese)
	usdPrinter = message.NewPrinter(language.AmericanEnglish)
)

// Normalizer turns a validated product list into the final ranked result:
// non-product entries are dropped, duplicates collapse onto the better-scored
// record, every record gets a locally computed relevance score and a display
// price, and the list is sorted by score. Every stage is total - none of them
// can fail on already-valid data.
type Normalizer struct {
	debug bool
}

// NewNormalizer creates a new normalization pipeline.
func NewNormalizer(debug bool) *Normalizer {
	return &Normalizer{debug: debug}
}

// Normalize runs the full pipeline. The input slice is not retained.
func (n *Normalizer) Normalize(products []domain.Product) []domain.Product {
	products = n.filterNonProducts(products)

	for i := range products {
		products[i].RelevanceScore = relevanceScore(&products[i])
	}

	products = dedupeByName(products)
	formatPrices(products)

	sort.SliceStable(products, func(i, j int) bool {
		return products[i].RelevanceScore > products[j].RelevanceScore
	})
	return products
}

// filterNonProducts drops records whose name+description reads like
// informational content rather than a sellable item.
func (n *Normalizer) filterNonProducts(products []domain.Product) []domain.Product {
	kept := products[:0]
	for _, p := range products {
		combined := p.Name + " " + p.Description
		if nonProductRegex.MatchString(combined) {
			if n.debug {
				log.Printf("[NORMALIZE] dropped non-product record: %q", p.Name)
			}
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// relevanceScore computes the completeness-based ranking signal. Base 0.5,
// bonuses for substantive name/description, a numeric price, a source URL and
// specs, clamped to 1.0.
func relevanceScore(p *domain.Product) float64 {
	score := baseRelevanceScore
	if len(p.Name) > minScoredNameLength {
		score += nameLengthBonus
	}
	if len(p.Description) > minScoredDescLength {
		score += descriptionBonus
	}
	if p.HasNumericPrice() {
		score += numericPriceBonus
	}
	if p.SourceURL() != "" {
		score += sourceURLBonus
	}
	if len(p.Specs) > 0 {
		score += specsBonus
	}
	if score > maxRelevanceScore {
		score = maxRelevanceScore
	}
	return score
}

// dedupeKey normalizes a product name for duplicate detection: lowercased,
// whitespace runs collapsed, trimmed.
func dedupeKey(name string) string {
	return strings.TrimSpace(whitespaceRunRegex.ReplaceAllString(strings.ToLower(name), " "))
}

// dedupeByName collapses records sharing a normalized name. The higher-scored
// candidate survives at the first-seen position; ties keep the first-seen.
func dedupeByName(products []domain.Product) []domain.Product {
	seen := make(map[string]int, len(products))
	result := make([]domain.Product, 0, len(products))

	for _, p := range products {
		key := dedupeKey(p.Name)
		if idx, ok := seen[key]; ok {
			if p.RelevanceScore > result[idx].RelevanceScore {
				result[idx] = p
			}
			continue
		}
		seen[key] = len(result)
		result = append(result, p)
	}
	return result
}

// formatPrices attaches a locale-formatted display string to every record with
// a numeric price. Records without one keep Formatted unset. A price without a
// currency defaults to BRL, the primary market.
func formatPrices(products []domain.Product) {
	for i := range products {
		p := &products[i]
		if !p.HasNumericPrice() {
			continue
		}
		amount := p.Price.Value
		if amount == nil {
			amount = p.Price.Min
		}
		if p.Price.Currency == "" {
			p.Price.Currency = "BRL"
		}
		p.Price.Formatted = FormatPrice(*amount, p.Price.Currency)
	}
}

// FormatPrice renders an amount in the display convention of its currency.
func FormatPrice(amount float64, currency string) string {
	if currency == "USD" {
		return usdPrinter.Sprintf("$%.2f", amount)
	}
	return brlPrinter.Sprintf("R$ %.2f", amount)
}
