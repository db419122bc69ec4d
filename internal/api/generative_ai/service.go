package generativeAI

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"google.golang.org/genai"

	"github.com/Sayan-Mondal2022/travAi/app/observability/metrics"
)

const defaultModel = "gemini-2.5-flash"

// Generator is the black-box generative model boundary: a prompt in, raw
// text out. The itinerary pipeline only ever consumes the returned text
// through the parser.
type Generator interface {
	GenerateItinerary(ctx context.Context, prompt string) (string, error)
}

var _ Generator = (*AIClient)(nil)

// AIClient wraps the Gemini API with JSON output mode and a low
// temperature, which keeps the response parseable most of the time.
type AIClient struct {
	logger *slog.Logger
	client *genai.Client
	model  string
}

func NewAIClient(ctx context.Context, model string, logger *slog.Logger) (*AIClient, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	if model == "" {
		model = defaultModel
	}
	return &AIClient{
		logger: logger,
		client: client,
		model:  model,
	}, nil
}

// GenerateItinerary sends the prompt and returns the raw model text.
func (ai *AIClient) GenerateItinerary(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.2),
		ResponseMIMEType: "application/json",
	}

	start := time.Now()
	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), config)
	metrics.RecordAIGenerationDuration(ctx, time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("generating itinerary content: %w", err)
	}

	ai.logger.DebugContext(ctx, "Model response received",
		slog.String("model", ai.model),
		slog.Duration("latency", time.Since(start)))
	return result.Text(), nil
}
