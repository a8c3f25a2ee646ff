package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/caskbook/internal/domain"
	"github.com/kailas-cloud/caskbook/internal/domain/flavor"
	"github.com/kailas-cloud/caskbook/internal/metrics"
)

// Suggester proposes flavor profiles using an OpenAI-compatible chat completion in JSON mode.
type Suggester struct {
	client   *openai.Client
	model    string
	user     string
	provider string
	logger   *zap.Logger
}

// Config holds the suggestion provider settings.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	User     string
	Provider string
	Logger   *zap.Logger
}

// NewSuggester creates an OpenAI-compatible suggestion provider.
func NewSuggester(cfg *Config) *Suggester {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Suggester{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		user:     cfg.User,
		provider: cfg.Provider,
		logger:   logger,
	}
}

var systemPrompt = func() string {
	names := make([]string, 0, flavor.NumDimensions)
	for _, d := range flavor.Dimensions() {
		names = append(names, d.String())
	}
	return "You are a whisky tasting assistant. Read the user's tasting notes and rate each flavor " +
		"dimension from 0 (absent) to 5 (dominant). Reply with a single JSON object whose keys are exactly: " +
		strings.Join(names, ", ") + ". Values are integers."
}()

// Suggest implements flavor.Suggester.
func (s *Suggester) Suggest(ctx context.Context, notes string) (flavor.Suggestion, error) {
	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: notes},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		User: s.user,
	}

	start := time.Now()

	resp, err := s.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		s.fail("api_error")
		return flavor.Suggestion{}, parseAPIError(err)
	}
	if len(resp.Choices) == 0 {
		s.fail("empty_response")
		return flavor.Suggestion{}, fmt.Errorf("empty completion response: %w", domain.ErrSuggestProviderError)
	}

	profile, err := parseProfile(resp.Choices[0].Message.Content)
	if err != nil {
		s.fail("invalid_json")
		s.logger.Warn("Unparseable suggestion", zap.String("model", s.model), zap.Error(err))
		return flavor.Suggestion{}, fmt.Errorf("parse completion: %v: %w", err, domain.ErrSuggestProviderError)
	}

	metrics.SuggestRequestsTotal.WithLabelValues(s.provider, s.model, "success").Inc()
	metrics.SuggestRequestDuration.WithLabelValues(s.provider, s.model).Observe(duration.Seconds())

	promptTokens, totalTokens := resp.Usage.PromptTokens, resp.Usage.TotalTokens
	if totalTokens > 0 {
		metrics.SuggestTokensTotal.WithLabelValues(s.provider, s.model, "prompt").Add(float64(promptTokens))
		metrics.SuggestTokensTotal.WithLabelValues(s.provider, s.model, "total").Add(float64(totalTokens))
	}

	return flavor.Suggestion{
		Profile:      profile,
		PromptTokens: promptTokens,
		TotalTokens:  totalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (s *Suggester) HealthCheck(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func (s *Suggester) fail(errorType string) {
	metrics.SuggestRequestsTotal.WithLabelValues(s.provider, s.model, "error").Inc()
	metrics.SuggestErrorsTotal.WithLabelValues(s.provider, s.model, errorType).Inc()
}

// parseProfile reads the model's JSON object. Unknown keys are ignored and
// numbers are rounded; clamping into range happens further up the chain.
func parseProfile(content string) (flavor.Vector, error) {
	var raw map[string]float64
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &raw); err != nil {
		return flavor.Vector{}, err
	}
	m := make(map[string]int, len(raw))
	for k, v := range raw {
		if _, ok := flavor.ParseDimension(k); !ok {
			continue
		}
		m[k] = int(v + 0.5)
	}
	if len(m) == 0 {
		return flavor.Vector{}, errors.New("no known flavor dimensions in response")
	}
	return flavor.FromMap(m), nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrSuggestProviderError for correct 502 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrSuggestProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("suggestion API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("suggestion API error %d: %s: %w", reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("suggestion API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("suggestion request failed: %w", wrap)
}

// extractDetail extracts the "detail" field from a JSON error body (Nebius error format).
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
