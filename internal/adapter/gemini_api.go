// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

package adapter

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// ============================================================================
// GEMINI API ADAPTER
// ============================================================================

// Default generation parameters for code tasks. Low temperature keeps
// generations reproducible enough for verification.
const (
	defaultTemperature     = float32(0.4)
	defaultMaxOutputTokens = int32(8192)

	// apiConfidence is the confidence attached to API-direct results.
	apiConfidence = 0.9

	// defaultRequestsPerMinute bounds the request rate to the API.
	defaultRequestsPerMinute = 60
)

// GeminiOption configures a GeminiAPI adapter.
type GeminiOption func(*GeminiAPI)

// WithModel overrides the default Gemini model.
func WithModel(model string) GeminiOption {
	return func(g *GeminiAPI) { g.model = model }
}

// WithMaxRetries sets the maximum number of retry attempts.
func WithMaxRetries(n int) GeminiOption {
	return func(g *GeminiAPI) { g.maxRetries = n }
}

// WithRequestsPerMinute sets the client-side rate limit.
func WithRequestsPerMinute(n int) GeminiOption {
	return func(g *GeminiAPI) {
		g.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)
	}
}

// WithCapabilities overrides the advertised capabilities, used when the
// configured model's pricing differs from the defaults.
func WithCapabilities(caps Capabilities) GeminiOption {
	return func(g *GeminiAPI) { g.caps = caps }
}

// GeminiAPI executes tasks against the Gemini API directly.
type GeminiAPI struct {
	client     *genai.Client
	model      string
	maxRetries int
	retryDelay time.Duration
	limiter    *rate.Limiter
	caps       Capabilities
}

// NewGeminiAPI creates a Gemini API adapter.
func NewGeminiAPI(ctx context.Context, apiKey string, opts ...GeminiOption) (*GeminiAPI, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	g := &GeminiAPI{
		client:     client,
		model:      "gemini-1.5-flash",
		maxRetries: 3,
		retryDelay: 1 * time.Second,
		limiter:    rate.NewLimiter(rate.Every(time.Minute/defaultRequestsPerMinute), 1),
		caps: Capabilities{
			Name:                 "Gemini API",
			CostPerMillionInput:  0.075,
			CostPerMillionOutput: 0.30,
			SupportsThinking:     false,
			MaxContextTokens:     1_000_000,
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Execute sends the task to the Gemini API and returns the generated
// code. Transient failures are retried with exponential backoff.
func (g *GeminiAPI) Execute(ctx context.Context, task string) (*Result, error) {
	var lastErr error
	maxDelay := 30 * time.Second

	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			delay := backoff(g.retryDelay, attempt-1, maxDelay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		result, err := g.generate(ctx, task)
		if err == nil {
			return result, nil
		}

		lastErr = err
		if !isRetryable(err) {
			return nil, err
		}
		log.Printf("ADAPTER: gemini-api attempt %d failed: %v", attempt+1, err)
	}

	return nil, fmt.Errorf("max retries (%d) exceeded: %w", g.maxRetries, lastErr)
}

// generate performs a single non-streaming request.
func (g *GeminiAPI) generate(ctx context.Context, task string) (*Result, error) {
	temp := defaultTemperature
	maxTokens := defaultMaxOutputTokens
	config := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: &maxTokens,
	}

	contents := []*genai.Content{genai.NewContentFromText(task, "user")}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	code, language := ExtractCodeBlock(text)
	if language == "" {
		language = DetectLanguage(code)
	}

	result := &Result{
		Code:               code,
		Language:           language,
		Confidence:         apiConfidence,
		VerificationPassed: VerifyCode(code).Valid,
	}

	if resp.UsageMetadata != nil {
		if resp.UsageMetadata.PromptTokenCount != nil {
			result.InputTokens = uint32(*resp.UsageMetadata.PromptTokenCount)
		}
		if resp.UsageMetadata.CandidatesTokenCount != nil {
			result.OutputTokens = uint32(*resp.UsageMetadata.CandidatesTokenCount)
		}
	}
	// Some responses omit usage metadata; estimate so cost accounting
	// never silently records zero usage.
	if result.InputTokens == 0 {
		result.InputTokens = EstimateTokens(task)
	}
	if result.OutputTokens == 0 {
		result.OutputTokens = EstimateTokens(text)
	}

	return result, nil
}

// Capabilities describes the configured model's pricing and limits.
func (g *GeminiAPI) Capabilities() Capabilities {
	return g.caps
}

// responseText extracts the concatenated text parts of the first
// candidate, skipping thought parts.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrInvalidResponse)
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: candidate has no content", ErrInvalidResponse)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: empty text", ErrInvalidResponse)
	}
	return b.String(), nil
}

// isRetryable returns true if the error should trigger a retry.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"429", "500", "502", "503", "504",
		"connection refused", "timeout", "unavailable", "resource_exhausted",
	}
	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// backoff calculates exponential backoff delay.
func backoff(base time.Duration, attempt int, max time.Duration) time.Duration {
	delay := base
	for i := 0; i < attempt; i++ {
		delay *= 2
	}
	if delay > max {
		delay = max
	}
	return delay
}
