package ai

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
)

const DefaultRequestsPerMinute = 15

type rateLimitedCaller struct {
	next    FunctionCaller
	limiter *rate.Limiter
}

// NewRateLimitedCaller spaces calls to next at perMinute, waiting while the caller's context allows.
func NewRateLimitedCaller(next FunctionCaller, perMinute int) FunctionCaller {
	if perMinute <= 0 {
		perMinute = DefaultRequestsPerMinute
	}
	return &rateLimitedCaller{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perMinute)/60, max(1, perMinute/60)),
	}
}

func (c *rateLimitedCaller) CallFunction(ctx context.Context, system, prompt string, fn *genai.FunctionDeclaration) (map[string]any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("llm rate limited: %w", err)
	}
	return c.next.CallFunction(ctx, system, prompt, fn)
}

func (c *rateLimitedCaller) Close() error {
	return c.next.Close()
}
