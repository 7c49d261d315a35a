package usecase

import (
	"encoding/json"
	"log"
	"regexp"
	"strings"
)

// Extractor recovers a parseable JSON document from raw generative-model
// output. Model replies are frequently wrapped in markdown fences, carry
// trailing commas, drop separators, or arrive truncated; the extractor walks
// a ladder of recovery attempts, each one only tried when the previous failed:
//
//  1. parse the text as-is
//  2. take the interior of a fenced code block and repair it
//  3. take the greedy first-{ to last-} span and repair it
//  4. rescue just the "products" array by bracket counting
//
// This is deliberately a good-faith recovery heuristic for the malformations
// models actually produce, not a general JSON grammar fixer.
type Extractor struct {
	debug bool
}

// NewExtractor creates a new extraction engine.
func NewExtractor(debug bool) *Extractor {
	return &Extractor{debug: debug}
}

// Fenced code block, optionally tagged (```json ... ```).
var fencedBlockRegex = regexp.MustCompile("(?s)```[a-zA-Z]*[ \t]*\r?\n?(.*?)```")

// Extract attempts to recover a document from text. On success it returns the
// loosely-typed document; on total failure it returns nil plus diagnostics.
// Failure is not fatal to the caller - it simply yields zero products.
func (e *Extractor) Extract(text string) (map[string]interface{}, []string) {
	// Step 1: the reply may already be clean JSON.
	if doc, ok := parseDocument(text); ok {
		return doc, nil
	}

	// Step 2: fenced code block interior.
	if m := fencedBlockRegex.FindStringSubmatch(text); m != nil {
		if doc, ok := parseDocument(Repair(m[1])); ok {
			e.logf("recovered document from fenced block")
			return doc, nil
		}
	}

	// Step 3: greedy top-level object span.
	if first, last := strings.Index(text, "{"), strings.LastIndex(text, "}"); first >= 0 && last > first {
		if doc, ok := parseDocument(Repair(text[first : last+1])); ok {
			e.logf("recovered document from brace span")
			return doc, nil
		}
	}

	// Step 4: the object may be beyond repair while the products array is not.
	if arr, ok := extractProductsArray(text); ok {
		var products []interface{}
		if err := json.Unmarshal([]byte(Repair(arr)), &products); err == nil {
			e.logf("recovered bare products array (%d elements)", len(products))
			return map[string]interface{}{
				"products":       products,
				"search_summary": "",
			}, nil
		}
	}

	return nil, []string{"unable to recover a JSON document from model output"}
}

func (e *Extractor) logf(format string, args ...interface{}) {
	if e.debug {
		log.Printf("[EXTRACT] "+format, args...)
	}
}

// parseDocument parses s as a JSON object. Non-object values (bare arrays,
// strings, numbers) are not documents.
func parseDocument(s string) (map[string]interface{}, bool) {
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	doc, ok := v.(map[string]interface{})
	return doc, ok
}

var productsKeyRegex = regexp.MustCompile(`"products"\s*:`)

// extractProductsArray locates a "products" key and returns its array value by
// counting bracket depth to the matching closing bracket. A truncated array is
// returned as-is so the repair chain can balance it.
func extractProductsArray(s string) (string, bool) {
	loc := productsKeyRegex.FindStringIndex(s)
	if loc == nil {
		return "", false
	}
	rest := s[loc[1]:]
	open := strings.Index(rest, "[")
	if open < 0 {
		return "", false
	}
	rest = rest[open:]

	depth := 0
	inString := false
	escaped := false
	for i, r := range rest {
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			escaped = inString
		case '"':
			inString = !inString
		case '[':
			if !inString {
				depth++
			}
		case ']':
			if !inString {
				depth--
				if depth == 0 {
					return rest[:i+1], true
				}
			}
		}
	}
	return rest, true
}
