package analysis

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"senseshare/internal/models"
)

// Gateway is the single seam to the external generation service. Handlers
// and tests swap in stubs; production uses GeminiGateway.
type Gateway interface {
	Generate(ctx context.Context, prompt string, schema *genai.Schema) (string, error)
}

type geminiGateway struct {
	client *genai.Client
	model  string
}

// NewGeminiGateway builds the production gateway. The API key is checked
// here rather than at config load so the rest of the service runs without
// one; callers surface the missing-key case per request.
func NewGeminiGateway(ctx context.Context, apiKey, model string) (Gateway, error) {
	if apiKey == "" {
		return nil, models.NewConfigurationError("GEMINI_API_KEY is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, models.NewGatewayError(err)
	}
	return &geminiGateway{client: client, model: model}, nil
}

func (g *geminiGateway) Generate(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return "", models.NewGatewayError(err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", models.NewGatewayError(errEmptyResponse)
	}
	return text, nil
}

type gatewayError string

func (e gatewayError) Error() string { return string(e) }

const errEmptyResponse = gatewayError("model returned an empty response")
