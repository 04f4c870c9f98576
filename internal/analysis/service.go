package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"senseshare/internal/middleware"
	"senseshare/internal/models"
)

// MaxRecommendedTags caps the tag suggestions returned to the client.
const MaxRecommendedTags = 5

// Service orchestrates analysis requests: build, call the gateway once,
// parse. There is no automatic retry; a failed call surfaces to the caller
// and retrying is the client's decision.
type Service struct {
	gateway  Gateway
	template *Template
	logger   *slog.Logger
}

func NewService(gateway Gateway, template *Template, logger *slog.Logger) *Service {
	if template == nil {
		template = PsychologicalTemplate()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{gateway: gateway, template: template, logger: logger}
}

// AnalyzePost runs the sensation analysis for a post snapshot and returns
// the populated fields. Absent or null fields (the conditional gap field on
// an all-agree post) are simply omitted from the result.
func (s *Service) AnalyzePost(ctx context.Context, p *models.Post) (map[string]string, error) {
	req, err := BuildRequest(s.template, p)
	if err != nil {
		middleware.AnalysisRequests.WithLabelValues("sense", "invalid").Inc()
		return nil, err
	}

	raw, err := s.gateway.Generate(ctx, req.Prompt, req.Schema)
	if err != nil {
		middleware.AnalysisRequests.WithLabelValues("sense", "error").Inc()
		s.logger.ErrorContext(ctx, "analysis generation failed", "template", s.template.Name, "error", err)
		return nil, err
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		middleware.AnalysisRequests.WithLabelValues("sense", "error").Inc()
		return nil, models.NewGatewayError(fmt.Errorf("unparsable model output: %w", err))
	}

	result := make(map[string]string, len(req.Fields))
	for _, name := range req.Fields {
		if v, ok := parsed[name].(string); ok && v != "" {
			result[name] = v
		}
	}
	middleware.AnalysisRequests.WithLabelValues("sense", "ok").Inc()
	return result, nil
}

// RecommendTags suggests emotion tags for a draft's situation and sensation.
// Validation is fail-fast: empty input never reaches the gateway.
func (s *Service) RecommendTags(ctx context.Context, situation, sensation string) ([]string, error) {
	situation = strings.TrimSpace(situation)
	sensation = strings.TrimSpace(sensation)
	if situation == "" || sensation == "" {
		return nil, models.NewValidationError("situation and sensation are required")
	}

	prompt := fmt.Sprintf("Suggest short emotion hashtags for this experience, each a single word or compact phrase.\n\n"+
		"- Objective situation: %q\n- Subjective sensation: %q\n\n"+
		"Return at most %d tags that capture the feeling, without the leading '#'.",
		situation, sensation, MaxRecommendedTags)

	schema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"tags": {
				Type:        genai.TypeArray,
				Description: "Suggested emotion tags, most fitting first.",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
		},
		Required:         []string{"tags"},
		PropertyOrdering: []string{"tags"},
	}

	raw, err := s.gateway.Generate(ctx, prompt, schema)
	if err != nil {
		middleware.AnalysisRequests.WithLabelValues("tags", "error").Inc()
		return nil, err
	}

	var parsed struct {
		Tags []string `json:"tags"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		middleware.AnalysisRequests.WithLabelValues("tags", "error").Inc()
		return nil, models.NewGatewayError(fmt.Errorf("unparsable model output: %w", err))
	}

	tags := make([]string, 0, MaxRecommendedTags)
	for _, t := range parsed.Tags {
		t = strings.TrimSpace(strings.TrimPrefix(t, "#"))
		if t == "" {
			continue
		}
		tags = append(tags, "#"+t)
		if len(tags) == MaxRecommendedTags {
			break
		}
	}
	middleware.AnalysisRequests.WithLabelValues("tags", "ok").Inc()
	return tags, nil
}
