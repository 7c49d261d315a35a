package domain

// Product is the canonical output unit of the search pipeline. Records coming
// back from a provider are validated onto this shape; anything that leaves the
// core satisfies the bounds documented on each field.
type Product struct {
	Name           string   `json:"name"`                  // required, 3-200 chars
	Description    string   `json:"description,omitempty"` // <= 500 chars
	Price          *Price   `json:"price,omitempty"`
	Source         *Source  `json:"source,omitempty"`
	ImageURL       string   `json:"image_url,omitempty"` // absolute URL when set
	Specs          []string `json:"specs,omitempty"`
	Rating         *float64 `json:"rating,omitempty"` // [0,5]
	Availability   string   `json:"availability,omitempty"`
	RelevanceScore float64  `json:"relevance_score"` // [0,1], always computed locally
}

// Price holds the numeric and display forms of a product price.
// All numeric fields are non-negative; Currency is "BRL" or "USD".
type Price struct {
	Value     *float64 `json:"value,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	Currency  string   `json:"currency,omitempty"`
	Formatted string   `json:"formatted,omitempty"`
}

// Source identifies where a product record came from.
type Source struct {
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// HasNumericPrice reports whether the product carries a usable price figure.
func (p *Product) HasNumericPrice() bool {
	return p.Price != nil && (p.Price.Value != nil || p.Price.Min != nil)
}

// SourceURL returns the declared source URL, or "" when absent.
func (p *Product) SourceURL() string {
	if p.Source == nil {
		return ""
	}
	return p.Source.URL
}

// RawDocument is the provisionally-untyped document recovered from a raw model
// reply, prior to per-record validation. Records stay untyped until the
// validator applies the Product contract to each one independently; keeping
// the raw slice preserves original positions for diagnostics.
type RawDocument struct {
	Products      []interface{}
	SearchSummary string
}

// SearchRequest is a product search request as received from the client.
type SearchRequest struct {
	Query    string `json:"query" binding:"required"`
	Provider string `json:"provider,omitempty"` // "gemini" (default) or "shopping"
}

// SearchResponse is the full pipeline output for one request.
type SearchResponse struct {
	Products      []Product `json:"products"`
	SearchSummary string    `json:"search_summary,omitempty"`
	Images        []string  `json:"images,omitempty"`
	ParseErrors   []string  `json:"parse_errors,omitempty"`
	Source        string    `json:"source"` // "gemini", "shopping" or "cache"
}
