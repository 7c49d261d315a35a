package usecase

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/shopscan/backend/internal/domain"
)

// Listing-page signatures. Path segments cover pt-BR and English storefront
// conventions; query parameters are the usual free-text search keys.
var (
	searchPathRegex = regexp.MustCompile(`(?i)/(busca|buscar|pesquisa|search|procurar|categoria|categorias|category|categories|browse|navegue|result|results|resultado|resultados|catalogo|catalog|departamento|departamentos|department|dept|lista|listagem|colecao|collection|collections|ofertas|deals)(/|$)`)
	searchQueryRegex = regexp.MustCompile(`(?i)(^|&)(q|query|k|s|busca|search|term|termo|palavra|keyword|kw)=`)
)

// Product-detail signatures: a detail path segment, a 6+ digit identifier, or
// a SKU-like token such as an ASIN.
var (
	productSegmentRegex = regexp.MustCompile(`(?i)/(dp|gp/product|produto|produtos|product|products|item|itm|sku|pd|pdp|p)(/|$)`)
	productIDRegex      = regexp.MustCompile(`\d{6,}`)
	skuTokenRegex       = regexp.MustCompile(`/[A-Z0-9]{8,}([/?#]|$)`)
)

// IsSearchURL reports whether a URL points at a search/category/listing page
// rather than a specific product. Malformed URLs are conservatively treated as
// search pages, failing safe toward exclusion.
func IsSearchURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return true
	}
	if searchPathRegex.MatchString(u.Path) {
		return true
	}
	return searchQueryRegex.MatchString(u.RawQuery)
}

// IsProductURL reports whether a URL looks like a product-detail page. A URL
// classified as a search page is never a product page. Absent an explicit
// detail signature, a path with at least two non-empty segments counts:
// deeper paths are more likely specific pages than listing roots.
func IsProductURL(raw string) bool {
	if IsSearchURL(raw) {
		return false
	}
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if productSegmentRegex.MatchString(u.Path) ||
		productIDRegex.MatchString(u.Path) ||
		skuTokenRegex.MatchString(u.Path) {
		return true
	}
	return len(nonEmptySegments(u.Path)) >= 2
}

func nonEmptySegments(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// FilterSearchURLs removes products whose declared source URL is a listing
// page. Records with no URL at all are kept - they may still gain a resolved
// image later. Removed URLs are returned for diagnostics.
func FilterSearchURLs(products []domain.Product) ([]domain.Product, []string) {
	kept := make([]domain.Product, 0, len(products))
	var removed []string
	for _, p := range products {
		if u := p.SourceURL(); u != "" && IsSearchURL(u) {
			removed = append(removed, u)
			continue
		}
		kept = append(kept, p)
	}
	return kept, removed
}
