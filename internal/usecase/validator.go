package usecase

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopscan/backend/internal/domain"
)

// Product contract bounds.
const (
	minNameLength        = 3
	maxNameLength        = 200
	maxDescriptionLength = 500
	maxSpecLength        = 200
)

// Validator applies the structural Product contract to an extracted document.
// The top-level shape is checked once (a missing products sequence is a
// genuine parse failure); each record is then validated independently so one
// bad record never discards the rest. Validation never fails, it only filters
// and reports.
type Validator struct{}

// NewValidator creates a new record validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks the document shape and every record in it. It returns the
// surviving products in original order, the search summary, and one
// human-readable diagnostic per rejected record (1-based position).
func (v *Validator) Validate(doc map[string]interface{}) ([]domain.Product, string, []string) {
	raw, err := documentShape(doc)
	if err != nil {
		return nil, "", []string{err.Error()}
	}

	var (
		products []domain.Product
		errs     []string
	)
	for i, record := range raw.Products {
		m, ok := record.(map[string]interface{})
		if !ok {
			errs = append(errs, fmt.Sprintf("record %d: not an object", i+1))
			continue
		}
		product, err := validateRecord(m)
		if err != nil {
			errs = append(errs, fmt.Sprintf("record %d: %v", i+1, err))
			continue
		}
		products = append(products, *product)
	}
	return products, raw.SearchSummary, errs
}

// documentShape performs the loose phase-one check: the document must carry a
// products sequence. Both summary key spellings are accepted.
func documentShape(doc map[string]interface{}) (*domain.RawDocument, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is empty")
	}
	rawProducts, ok := doc["products"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("document has no products array")
	}

	summary := stringField(doc, "search_summary")
	if summary == "" {
		summary = stringField(doc, "searchSummary")
	}
	return &domain.RawDocument{Products: rawProducts, SearchSummary: summary}, nil
}

// validateRecord applies the strict per-record contract. The record fails only
// when its name is missing, mistyped or out of bounds; invalid optional fields
// are cleared or truncated so a noisy field never costs a usable record.
func validateRecord(m map[string]interface{}) (*domain.Product, error) {
	name := strings.TrimSpace(stringField(m, "name"))
	if name == "" {
		return nil, fmt.Errorf("missing or non-string name")
	}
	if n := utf8.RuneCountInString(name); n < minNameLength || n > maxNameLength {
		return nil, fmt.Errorf("name length %d outside [%d,%d]", n, minNameLength, maxNameLength)
	}

	p := &domain.Product{
		Name:         name,
		Description:  truncate(stringField(m, "description"), maxDescriptionLength),
		Availability: stringField(m, "availability"),
	}

	p.Price = validatePrice(m["price"])
	p.Source = validateSource(m["source"])

	if img := firstStringField(m, "image_url", "imageUrl", "image"); img != "" && isAbsoluteURL(img) {
		p.ImageURL = img
	}

	if specs, ok := m["specs"].([]interface{}); ok {
		for _, s := range specs {
			if str, ok := s.(string); ok && strings.TrimSpace(str) != "" {
				p.Specs = append(p.Specs, truncate(str, maxSpecLength))
			}
		}
	}

	if rating, ok := numberField(m["rating"]); ok && rating >= 0 && rating <= 5 {
		p.Rating = &rating
	}

	// relevance_score is never taken from upstream; the normalizer owns it.
	return p, nil
}

// validatePrice coerces whatever the provider sent (object, bare number,
// formatted string) into the Price shape. Negative figures and unknown
// currencies are dropped; an unusable price clears the whole field.
func validatePrice(v interface{}) *domain.Price {
	switch t := v.(type) {
	case map[string]interface{}:
		price := &domain.Price{}
		price.Value = nonNegative(t["value"])
		price.Min = nonNegative(t["min"])
		price.Max = nonNegative(t["max"])
		if cur := strings.ToUpper(stringField(t, "currency")); cur == "BRL" || cur == "USD" {
			price.Currency = cur
		}
		if price.Value == nil && price.Min == nil && price.Max == nil {
			return nil
		}
		return price
	case float64:
		if t < 0 {
			return nil
		}
		return &domain.Price{Value: &t}
	case string:
		value, currency, ok := parseMoneyString(t)
		if !ok || value < 0 {
			return nil
		}
		return &domain.Price{Value: &value, Currency: currency}
	default:
		return nil
	}
}

func validateSource(v interface{}) *domain.Source {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	source := &domain.Source{Name: stringField(m, "name")}
	if u := stringField(m, "url"); u != "" && isAbsoluteURL(u) {
		source.URL = u
	}
	if source.Name == "" && source.URL == "" {
		return nil
	}
	return source
}

var moneyStringRegex = regexp.MustCompile(`[0-9][0-9.,]*`)

// parseMoneyString extracts a numeric value from a formatted price string such
// as "R$ 1.299,00" or "$129.99", inferring the currency from its symbol.
func parseMoneyString(s string) (float64, string, bool) {
	currency := ""
	switch {
	case strings.Contains(s, "R$") || strings.Contains(strings.ToUpper(s), "BRL"):
		currency = "BRL"
	case strings.Contains(s, "$") || strings.Contains(strings.ToUpper(s), "USD"):
		currency = "USD"
	}

	num := moneyStringRegex.FindString(s)
	if num == "" {
		return 0, "", false
	}

	// Brazilian formatting uses "." for grouping and "," for decimals; US
	// formatting is the reverse. When both separators appear, the later one
	// is the decimal point. With a single kind, 1-2 trailing digits mean a
	// decimal part and anything else is grouping.
	lastComma := strings.LastIndex(num, ",")
	lastDot := strings.LastIndex(num, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastDot > lastComma {
			num = strings.ReplaceAll(num, ",", "")
		} else {
			num = strings.ReplaceAll(num, ".", "")
			num = strings.ReplaceAll(num, ",", ".")
		}
	case lastComma >= 0:
		if strings.Count(num, ",") == 1 && len(num)-lastComma-1 <= 2 {
			num = strings.ReplaceAll(num, ",", ".")
		} else {
			num = strings.ReplaceAll(num, ",", "")
		}
	case lastDot >= 0:
		if strings.Count(num, ".") == 1 && len(num)-lastDot-1 <= 2 {
			break
		}
		num = strings.ReplaceAll(num, ".", "")
	}

	value, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, "", false
	}
	return value, currency, true
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func firstStringField(m map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s := stringField(m, key); s != "" {
			return s
		}
	}
	return ""
}

func numberField(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func nonNegative(v interface{}) *float64 {
	f, ok := numberField(v)
	if !ok || f < 0 {
		return nil
	}
	return &f
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
