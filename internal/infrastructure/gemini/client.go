package gemini

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/shopscan/backend/internal/domain"
)

// Config holds the generative provider settings.
type Config struct {
	APIKey string
	Model  string

	// BaseURL overrides the Gemini API base URL. Useful for proxies/testing.
	BaseURL string
}

// Client handles communication with the Gemini API, implementing
// domain.TextGenerator.
type Client struct {
	client      *genai.Client
	model       string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new Gemini client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gemini-2.0-flash"
	}

	cc := &genai.ClientConfig{
		APIKey:  strings.TrimSpace(cfg.APIKey),
		Backend: genai.BackendGeminiAPI,
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		cc.HTTPOptions.BaseURL = strings.TrimSpace(cfg.BaseURL)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}

	// Keep a generous margin under the free-tier per-minute quota.
	limiter := rate.NewLimiter(rate.Limit(0.5), 5)

	return &Client{
		client:      client,
		model:       model,
		rateLimiter: limiter,
	}, nil
}

// SetDebug enables request logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Generate sends the prompts to the model and returns its raw text reply.
// Transient failures are retried with backoff; permanent failures surface as
// domain errors.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		CandidateCount:    1,
		Temperature:       genai.Ptr[float32](0.2),
		ResponseMIMEType:  "application/json",
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(userPrompt), config)
		if err != nil {
			lastErr = classifyErr(err)
			if c.debug {
				log.Printf("[GEMINI] request error (attempt %d): %v", attempt, err)
			}
			if !errors.Is(lastErr, domain.ErrRateLimited) && !isTransient(err) {
				return "", lastErr
			}
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt*500) * time.Millisecond):
			}
			continue
		}

		text := resp.Text()
		if c.debug {
			log.Printf("[GEMINI] reply: %d bytes for prompt %q", len(text), truncateForLog(userPrompt))
		}
		return text, nil
	}

	return "", lastErr
}

// classifyErr maps API failures onto domain sentinels.
func classifyErr(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == 429 {
			return fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		}
		return fmt.Errorf("%w: status %d", domain.ErrProviderFailure, apiErr.Code)
	}
	return fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
}

// isTransient reports whether the failure is worth retrying.
func isTransient(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Code/100 == 5
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncateForLog(s string) string {
	if len(s) > 60 {
		return s[:60] + "..."
	}
	return s
}
