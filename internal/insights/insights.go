// Package insights produces the two on-demand AI text blurbs shown on the
// participant dashboard. Generation is best effort: a missing credential or
// an upstream failure degrades to a canned string, never an error.
package insights

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// Fallback copy returned when generation is unavailable.
const (
	fallbackUnavailable = "AI insights are currently unavailable. Please configure the API Key."
	fallbackImpact      = "Great job on recycling! Continue to grow your XRP portfolio."
	fallbackForecast    = "Long-term holding allows you to ride out market volatility."
	fallbackNoForecast  = "Market analysis unavailable."
)

// Generator produces text from a prompt. Satisfied by the GenAI client and by
// test stubs.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenAIGenerator generates text using Google's Gemini API.
type GenAIGenerator struct {
	client *genai.Client
}

// NewGenAIGenerator creates a Gemini-backed generator. Returns an error when
// the API key is empty; callers treat that as "run without insights".
func NewGenAIGenerator(ctx context.Context, apiKey string) (*GenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create GenAI client: %w", err)
	}
	return &GenAIGenerator{client: client}, nil
}

// Generate runs one text generation call.
func (g *GenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("empty generation result")
	}
	return text, nil
}

// Service wraps a Generator with the program's prompts and fallbacks. A nil
// generator means no credential was configured.
type Service struct {
	generator Generator
}

// NewService builds an insights service.
func NewService(generator Generator) *Service {
	return &Service{generator: generator}
}

// RecyclingImpact returns a short motivational paragraph about the user's
// environmental impact and crypto holdings.
func (s *Service) RecyclingImpact(ctx context.Context, totalBottles int, totalXRP float64) string {
	if s.generator == nil {
		return fallbackUnavailable
	}

	prompt := fmt.Sprintf(`I am running a recycling gamification project in Botswana.
Current stats for this user:
- Total Bottles Recycled: %d
- Total XRP Crypto Accumulated: %.2f

Provide a short, motivating paragraph (max 50 words) for the participants about the environmental impact of these bottles and the potential future value of their crypto assets. Use an encouraging tone.`,
		totalBottles, totalXRP)

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return fallbackImpact
	}
	return text
}

// MarketForecast returns a brief holding-strategy snippet.
func (s *Service) MarketForecast(ctx context.Context) string {
	if s.generator == nil {
		return fallbackNoForecast
	}

	prompt := `Act as a financial analyst for a gamified recycling project.
Explain briefly (in 2 bullet points) why holding crypto assets like XRP over a 24-month period might be a good strategy for small contributors in a developing economy like Botswana.`

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return fallbackForecast
	}
	return text
}
