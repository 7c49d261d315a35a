package cache

import "sync"

// imageEntry is either a resolved image URL or an explicit negative marker.
type imageEntry struct {
	imageURL string
	failed   bool
}

// ImageMemo memoizes page URL -> image resolution outcomes for the process
// lifetime. Entries are created lazily on first attempt and never evicted;
// negative entries prevent re-fetching pages that yielded nothing. Values are
// immutable once written, so concurrent overwrite of an equivalent value is
// harmless.
type ImageMemo struct {
	mu      sync.RWMutex
	entries map[string]imageEntry
}

// NewImageMemo creates an empty image memo.
func NewImageMemo() *ImageMemo {
	return &ImageMemo{entries: make(map[string]imageEntry)}
}

// Lookup returns the memoized image URL for a page ("" for a negative entry)
// and whether the page has been seen.
func (m *ImageMemo) Lookup(pageURL string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, found := m.entries[pageURL]
	if !found {
		return "", false
	}
	if entry.failed {
		return "", true
	}
	return entry.imageURL, true
}

// StoreImage records a successful resolution.
func (m *ImageMemo) StoreImage(pageURL, imageURL string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[pageURL] = imageEntry{imageURL: imageURL}
}

// StoreFailure records a negative entry so the page is not fetched again.
func (m *ImageMemo) StoreFailure(pageURL string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[pageURL] = imageEntry{failed: true}
}

// Size returns the number of memoized pages (for debugging/monitoring).
func (m *ImageMemo) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
