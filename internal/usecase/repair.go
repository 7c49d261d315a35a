package usecase

import (
	"regexp"
	"strings"
)

// The repair chain is an ordered list of pure text transformations targeting
// the malformations generative models actually produce. Each rule is
// idempotent and independently testable; order matters (fences must go before
// prefix trimming, quote closing before bracket balancing).
type repairRule struct {
	name  string
	apply func(string) string
}

var repairRules = []repairRule{
	{"strip_bom_and_fences", stripBOMAndFences},
	{"trim_to_json_start", trimToJSONStart},
	{"remove_trailing_commas", removeTrailingCommas},
	{"insert_missing_separators", insertMissingSeparators},
	{"strip_control_chars", stripControlChars},
	{"close_unterminated_string", closeUnterminatedString},
	{"balance_brackets", balanceBrackets},
}

// Repair runs the full rule chain over s.
func Repair(s string) string {
	for _, rule := range repairRules {
		s = rule.apply(s)
	}
	return s
}

// stripBOMAndFences drops a leading byte-order mark and any surrounding
// triple-backtick fence markers, including a language tag on the opening one.
func stripBOMAndFences(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if nl := strings.Index(s, "\n"); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimLeft(s[3:], "json ")
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// trimToJSONStart removes any prose before the first structural opener.
func trimToJSONStart(s string) string {
	brace := strings.IndexAny(s, "{[")
	if brace > 0 {
		return s[brace:]
	}
	return s
}

var trailingCommaRegex = regexp.MustCompile(`,\s*([}\]])`)

// removeTrailingCommas strips commas sitting directly before a closing
// brace/bracket, repeated to a fixed point so ",,]" style runs also collapse.
func removeTrailingCommas(s string) string {
	for {
		next := trailingCommaRegex.ReplaceAllString(s, "$1")
		if next == s {
			return next
		}
		s = next
	}
}

var (
	// closing brace/bracket immediately followed by an opener: `}{`, `]["`...
	missingSepAfterCloseRegex = regexp.MustCompile(`([}\]])(\s*)([{\["])`)
	// closing quote immediately followed by a brace/bracket opener: `" {`
	missingSepAfterQuoteRegex = regexp.MustCompile(`"(\s*)([{\[])`)
	// two strings separated only by whitespace: `"a" "b"`. Requires at least
	// one whitespace char so empty strings ("") are left alone.
	missingSepBetweenStringsRegex = regexp.MustCompile(`"(\s+)"`)
)

// insertMissingSeparators adds the comma models commonly drop between adjacent
// structural tokens. Heuristic: it can misfire on strings whose content mimics
// a boundary, which is an accepted trade-off of good-faith repair.
func insertMissingSeparators(s string) string {
	s = missingSepAfterCloseRegex.ReplaceAllString(s, "$1,$2$3")
	s = missingSepAfterQuoteRegex.ReplaceAllString(s, `",$1$2`)
	s = missingSepBetweenStringsRegex.ReplaceAllString(s, `",$1"`)
	return s
}

// stripControlChars removes raw control characters, preserving newline,
// carriage return and tab.
func stripControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// closeUnterminatedString appends a closing quote when the document contains
// an odd number of unescaped double-quotes.
func closeUnterminatedString(s string) string {
	count := 0
	escaped := false
	for _, r := range s {
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			escaped = true
		case '"':
			count++
		}
	}
	if count%2 != 0 {
		return s + `"`
	}
	return s
}

// balanceBrackets appends the closing brackets and braces a truncated document
// is missing. Brackets close before braces: arrays close before the objects
// that contain them at the truncation point.
func balanceBrackets(s string) string {
	openBraces, closeBraces, openBrackets, closeBrackets := 0, 0, 0, 0
	inString := false
	escaped := false
	for _, r := range s {
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			escaped = inString
		case '"':
			inString = !inString
		case '{':
			if !inString {
				openBraces++
			}
		case '}':
			if !inString {
				closeBraces++
			}
		case '[':
			if !inString {
				openBrackets++
			}
		case ']':
			if !inString {
				closeBrackets++
			}
		}
	}

	var b strings.Builder
	b.WriteString(s)
	for i := 0; i < openBrackets-closeBrackets; i++ {
		b.WriteByte(']')
	}
	for i := 0; i < openBraces-closeBraces; i++ {
		b.WriteByte('}')
	}
	return b.String()
}
