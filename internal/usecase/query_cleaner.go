package usecase

import (
	"regexp"
	"strings"
)

// maxQueryLength caps what we forward to a provider; longer queries add noise
// without narrowing results.
const maxQueryLength = 200

var nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)

// queryNoisePhrases are purchase-intent fillers users type that carry no
// signal for the provider.
var queryNoisePhrases = []string{
	"quero comprar",
	"onde comprar",
	"comprar barato",
	"preço de",
	"preco de",
	"valor de",
	"where to buy",
	"i want to buy",
	"best price for",
}

// CleanQuery sanitizes a free-text product query before it reaches a provider:
// control characters stripped, intent fillers removed, whitespace collapsed,
// length capped at a word boundary.
func CleanQuery(query string) string {
	cleaned := stripControlChars(query)

	lower := strings.ToLower(cleaned)
	for _, phrase := range queryNoisePhrases {
		for {
			idx := strings.Index(lower, phrase)
			if idx < 0 {
				break
			}
			cleaned = cleaned[:idx] + cleaned[idx+len(phrase):]
			lower = strings.ToLower(cleaned)
		}
	}

	cleaned = whitespaceRunRegex.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	if len(cleaned) > maxQueryLength {
		cleaned = cleaned[:maxQueryLength]
		if lastSpace := strings.LastIndex(cleaned, " "); lastSpace > maxQueryLength/2 {
			cleaned = cleaned[:lastSpace]
		}
	}

	return cleaned
}

// normalizeForCacheKey normalizes a query for use as a cache key component:
// lowercase, alphanumerics only, single spaces.
func normalizeForCacheKey(s string) string {
	result := strings.ToLower(s)
	result = nonAlphanumericRegex.ReplaceAllString(result, "")
	result = whitespaceRunRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}
