package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for response caching. Values are raw
// JSON so the memory implementation behaves like an external store would.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ImageCache memoizes page URL -> resolved image URL lookups for the process
// lifetime. Negative entries record a failed resolution so the same page is
// never fetched twice.
type ImageCache interface {
	// Lookup returns the resolved image URL (may be "" for a negative entry)
	// and whether the page URL has been seen before.
	Lookup(pageURL string) (imageURL string, found bool)
	StoreImage(pageURL, imageURL string)
	StoreFailure(pageURL string)
}

// TextGenerator defines the interface for the generative-text provider.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ShoppingClient defines the interface for the shopping-search provider,
// returning records already adapted onto the Product shape.
type ShoppingClient interface {
	SearchProducts(ctx context.Context, query string) ([]Product, error)
}

// PageFetcher fetches a page body for image resolution. Implementations must
// bound the request with a timeout and a redirect cap.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}
