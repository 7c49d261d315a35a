package gemini

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"

	"github.com/shopscan/backend/internal/domain"
)

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(context.Background(), Config{APIKey: "   "})
	assert.Error(t, err)
}

func TestClassifyErr(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"quota exhausted", genai.APIError{Code: 429}, domain.ErrRateLimited},
		{"server error", genai.APIError{Code: 500}, domain.ErrProviderFailure},
		{"auth failure", genai.APIError{Code: 401}, domain.ErrProviderFailure},
		{"plain error", errors.New("connection reset"), domain.ErrProviderFailure},
		{"wrapped api error", fmt.Errorf("call failed: %w", genai.APIError{Code: 429}), domain.ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classifyErr(tt.in), tt.want)
		})
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want bool
	}{
		{"rate limit", genai.APIError{Code: 429}, true},
		{"server error", genai.APIError{Code: 503}, true},
		{"auth failure", genai.APIError{Code: 401}, false},
		{"bad request", genai.APIError{Code: 400}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTransient(tt.in))
		})
	}
}

func TestTruncateForLog(t *testing.T) {
	assert.Equal(t, "curto", truncateForLog("curto"))

	long := ""
	for i := 0; i < 10; i++ {
		long += "0123456789"
	}
	got := truncateForLog(long)
	assert.Len(t, got, 63)
	assert.Contains(t, got, "...")
}
