package usecase

import (
	"context"
	"encoding/json"
	"log"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/shopscan/backend/internal/domain"
)

// defaultMaxImageLookups bounds the page fetches a single request may issue.
const defaultMaxImageLookups = 3

// ImageResolver fills in missing product images by scraping the linked pages.
// For each leading record missing an image but carrying a source URL, it
// checks the process-wide memo, fetches the page on a miss, and walks the
// extraction fallback chain: og:image meta, twitter:image meta, first JSON-LD
// block carrying an image field. Every outcome - success or failure - is
// memoized so a page is fetched at most once per process lifetime.
type ImageResolver struct {
	fetcher    domain.PageFetcher
	cache      domain.ImageCache
	maxLookups int
	debug      bool
}

// NewImageResolver creates an image resolver with an injected fetcher and memo.
func NewImageResolver(fetcher domain.PageFetcher, cache domain.ImageCache, maxLookups int, debug bool) *ImageResolver {
	if maxLookups <= 0 {
		maxLookups = defaultMaxImageLookups
	}
	return &ImageResolver{
		fetcher:    fetcher,
		cache:      cache,
		maxLookups: maxLookups,
		debug:      debug,
	}
}

// Resolve fills image URLs in place for at most maxLookups leading records and
// returns the deduplicated image list: provider-supplied images first, then
// images discovered here, in first-seen order. Fetch and parse failures are
// logged and memoized, never propagated.
func (r *ImageResolver) Resolve(ctx context.Context, products []domain.Product, existing []string) []string {
	type lookup struct {
		index   int
		pageURL string
	}
	var lookups []lookup

	limit := len(products)
	if limit > r.maxLookups {
		limit = r.maxLookups
	}
	for i := 0; i < limit; i++ {
		if products[i].ImageURL != "" {
			continue
		}
		pageURL := products[i].SourceURL()
		if pageURL == "" {
			continue
		}
		if img, found := r.cache.Lookup(pageURL); found {
			products[i].ImageURL = img
			continue
		}
		lookups = append(lookups, lookup{index: i, pageURL: pageURL})
	}

	// Fetches are independent; issue them as one bounded batch. Result order
	// follows the product list, not fetch completion.
	var wg sync.WaitGroup
	resolved := make([]string, len(lookups))
	for j, l := range lookups {
		wg.Add(1)
		go func(j int, l lookup) {
			defer wg.Done()
			resolved[j] = r.resolvePage(ctx, l.pageURL)
		}(j, l)
	}
	wg.Wait()

	for j, l := range lookups {
		products[l.index].ImageURL = resolved[j]
	}

	return mergeImages(existing, products)
}

// resolvePage fetches one page and extracts its representative image,
// memoizing the outcome either way.
func (r *ImageResolver) resolvePage(ctx context.Context, pageURL string) string {
	html, err := r.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		log.Printf("[IMAGES] WARNING: fetch failed for %s: %v", pageURL, err)
		r.cache.StoreFailure(pageURL)
		return ""
	}

	img := ExtractImageFromHTML(html, pageURL)
	if img == "" {
		if r.debug {
			log.Printf("[IMAGES] no image found in %s", pageURL)
		}
		r.cache.StoreFailure(pageURL)
		return ""
	}

	r.cache.StoreImage(pageURL, img)
	return img
}

// ExtractImageFromHTML runs the extraction fallback chain over a page body:
// og:image, then twitter:image, then the first JSON-LD script block carrying
// an image field. The winning candidate is resolved against the page URL.
func ExtractImageFromHTML(html, pageURL string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	if content, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok {
		if img := strings.TrimSpace(content); img != "" {
			return makeAbsoluteURL(img, pageURL)
		}
	}

	if content, ok := doc.Find(`meta[name="twitter:image"]`).Attr("content"); ok {
		if img := strings.TrimSpace(content); img != "" {
			return makeAbsoluteURL(img, pageURL)
		}
	}

	var found string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var v interface{}
		if err := json.Unmarshal([]byte(s.Text()), &v); err != nil {
			return true
		}
		if img := jsonLDImage(v); img != "" {
			found = img
			return false
		}
		return true
	})
	if found != "" {
		return makeAbsoluteURL(found, pageURL)
	}
	return ""
}

// jsonLDImage digs an image URL out of parsed JSON-LD: a top-level image
// field (string, string array, or object array with url), or one nested under
// offers.
func jsonLDImage(v interface{}) string {
	switch t := v.(type) {
	case []interface{}:
		for _, item := range t {
			if img := jsonLDImage(item); img != "" {
				return img
			}
		}
	case map[string]interface{}:
		if img := imageFieldValue(t["image"]); img != "" {
			return img
		}
		if offers, ok := t["offers"]; ok {
			if img := jsonLDImage(offers); img != "" {
				return img
			}
		}
	}
	return ""
}

func imageFieldValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []interface{}:
		for _, item := range t {
			switch e := item.(type) {
			case string:
				if s := strings.TrimSpace(e); s != "" {
					return s
				}
			case map[string]interface{}:
				if u, ok := e["url"].(string); ok && strings.TrimSpace(u) != "" {
					return strings.TrimSpace(u)
				}
			}
		}
	case map[string]interface{}:
		if u, ok := t["url"].(string); ok {
			return strings.TrimSpace(u)
		}
	}
	return ""
}

// makeAbsoluteURL resolves a candidate against the page it came from. An
// already-absolute candidate passes through; if neither parse succeeds the
// raw candidate is returned as-is, best effort.
func makeAbsoluteURL(candidate, pageURL string) string {
	ref, err := url.Parse(candidate)
	if err != nil {
		return candidate
	}
	if ref.IsAbs() {
		return candidate
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return candidate
	}
	return base.ResolveReference(ref).String()
}

// mergeImages combines provider-supplied images with images discovered during
// resolution, deduplicated, first-seen order preserved.
func mergeImages(existing []string, products []domain.Product) []string {
	seen := make(map[string]bool)
	var images []string
	add := func(img string) {
		if img == "" || seen[img] {
			return
		}
		seen[img] = true
		images = append(images, img)
	}
	for _, img := range existing {
		add(img)
	}
	for i := range products {
		add(products[i].ImageURL)
	}
	return images
}
