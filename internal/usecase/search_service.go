package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/shopscan/backend/internal/domain"
)

// Provider names accepted in requests and config.
const (
	ProviderGemini   = "gemini"
	ProviderShopping = "shopping"
)

// SearchServiceConfig holds configuration for the search service.
type SearchServiceConfig struct {
	CacheTTL        time.Duration
	DefaultProvider string
	Debug           bool
}

// SearchService runs the full product search pipeline: cache lookup, provider
// call, extraction, validation, normalization, URL filtering, image
// resolution, response caching. Only a provider failure is fatal; everything
// below it degrades to diagnostics on an otherwise successful response.
type SearchService struct {
	cache           domain.CacheRepository
	generator       domain.TextGenerator
	shopping        domain.ShoppingClient
	extractor       *Extractor
	validator       *Validator
	normalizer      *Normalizer
	images          *ImageResolver
	cacheTTL        time.Duration
	defaultProvider string
	debug           bool
}

// NewSearchService creates a search service with its collaborators. The
// shopping client may be nil when only the generative provider is configured.
func NewSearchService(
	cache domain.CacheRepository,
	generator domain.TextGenerator,
	shopping domain.ShoppingClient,
	images *ImageResolver,
	config SearchServiceConfig,
) *SearchService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 1 * time.Hour
	}
	provider := config.DefaultProvider
	if provider == "" {
		provider = ProviderGemini
	}

	return &SearchService{
		cache:           cache,
		generator:       generator,
		shopping:        shopping,
		extractor:       NewExtractor(config.Debug),
		validator:       NewValidator(),
		normalizer:      NewNormalizer(config.Debug),
		images:          images,
		cacheTTL:        cacheTTL,
		defaultProvider: provider,
		debug:           config.Debug,
	}
}

// Search resolves a product query into a clean, ranked product list.
// Flow: check cache -> call provider -> extract -> validate -> normalize ->
// filter listing URLs -> resolve images -> cache -> return.
func (s *SearchService) Search(ctx context.Context, request *domain.SearchRequest) (*domain.SearchResponse, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}
	query := CleanQuery(request.Query)
	if query == "" {
		return nil, domain.ErrInvalidRequest
	}

	provider := request.Provider
	if provider == "" {
		provider = s.defaultProvider
	}
	if provider != ProviderGemini && provider != ProviderShopping {
		return nil, fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidRequest, provider)
	}

	cacheKey := fmt.Sprintf("search:%s:%s", provider, normalizeForCacheKey(query))
	if cached := s.getFromCache(ctx, cacheKey); cached != nil {
		cached.Source = "cache"
		return cached, nil
	}

	var (
		products    []domain.Product
		summary     string
		parseErrors []string
	)

	switch provider {
	case ProviderShopping:
		results, err := s.searchShopping(ctx, query)
		if err != nil {
			return nil, err
		}
		products = results
	default:
		reply, err := s.generateReply(ctx, query)
		if err != nil {
			return nil, err
		}
		products, summary, parseErrors = s.parseReply(reply)
	}

	products = s.normalizer.Normalize(products)

	products, removed := FilterSearchURLs(products)
	if len(removed) > 0 {
		log.Printf("[SEARCH] removed %d listing-page records: %v", len(removed), removed)
	}

	images := s.images.Resolve(ctx, products, nil)

	response := &domain.SearchResponse{
		Products:      products,
		SearchSummary: summary,
		Images:        images,
		ParseErrors:   parseErrors,
		Source:        provider,
	}

	s.setInCache(ctx, cacheKey, response)
	return response, nil
}

func (s *SearchService) generateReply(ctx context.Context, query string) (string, error) {
	if s.generator == nil {
		return "", fmt.Errorf("%w: generative provider not configured", domain.ErrProviderFailure)
	}
	system, user := BuildSearchPrompts(query)
	reply, err := s.generator.Generate(ctx, system, user)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	return reply, nil
}

func (s *SearchService) searchShopping(ctx context.Context, query string) ([]domain.Product, error) {
	if s.shopping == nil {
		return nil, fmt.Errorf("%w: shopping provider not configured", domain.ErrProviderFailure)
	}
	results, err := s.shopping.SearchProducts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	return results, nil
}

// parseReply runs extraction and validation over a raw model reply. A reply
// nothing could be recovered from yields zero products plus diagnostics, not
// an error.
func (s *SearchService) parseReply(reply string) ([]domain.Product, string, []string) {
	doc, diagnostics := s.extractor.Extract(reply)
	if doc == nil {
		return nil, "", diagnostics
	}
	products, summary, validationErrors := s.validator.Validate(doc)
	if len(validationErrors) > 0 {
		log.Printf("[SEARCH] %d records rejected during validation", len(validationErrors))
	}
	return products, summary, append(diagnostics, validationErrors...)
}

func (s *SearchService) getFromCache(ctx context.Context, key string) *domain.SearchResponse {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil
	}
	var response domain.SearchResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil
	}
	return &response
}

func (s *SearchService) setInCache(ctx context.Context, key string, response *domain.SearchResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		log.Printf("[SEARCH] WARNING: cache store failed: %v", err)
	}
}
