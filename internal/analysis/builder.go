package analysis

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"senseshare/internal/models"
)

// Request is a fully assembled generation request: the prompt text and the
// response schema that constrains the model's output. Fields lists the
// schema property names in prompt order.
type Request struct {
	Prompt string
	Schema *genai.Schema
	Fields []string
}

// BuildRequest assembles the prompt and response schema for a post under the
// given template. Validation happens here, before any gateway call: a post
// without a situation or sensation never reaches the model.
func BuildRequest(tmpl *Template, p *models.Post) (*Request, error) {
	if strings.TrimSpace(p.Situation) == "" || strings.TrimSpace(p.Sensation) == "" {
		return nil, models.NewValidationError("situation and sensation are required for analysis")
	}

	fields := make([]FieldSpec, 0, len(tmpl.Required)+len(tmpl.Conditional))
	fields = append(fields, tmpl.Required...)
	for _, cond := range tmpl.Conditional {
		if cond.Predicate(p) {
			fields = append(fields, cond.FieldSpec)
		}
	}

	var b strings.Builder
	b.WriteString(tmpl.Role)
	b.WriteString("\n\n### Experience data:\n")
	fmt.Fprintf(&b, "- Experience type: %s\n", experienceLabel(p))
	fmt.Fprintf(&b, "- Objective situation: %q\n", p.Situation)
	fmt.Fprintf(&b, "- Subjective sensation: %q\n", p.Sensation)
	if p.EmotionTag != "" {
		fmt.Fprintf(&b, "- Emotion tag: %s\n", p.EmotionTag)
	}
	fmt.Fprintf(&b, "- Community reaction: %d agree, %d disagree\n", p.AgreeCount, p.DisagreeCount)
	b.WriteString("\n### Instructions:\n")

	props := make(map[string]*genai.Schema, len(fields))
	names := make([]string, 0, len(fields))
	for i, f := range fields {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, f.Instruction(p))
		props[f.Name] = &genai.Schema{
			Type:        genai.TypeString,
			Description: f.Description,
		}
		names = append(names, f.Name)
	}
	b.WriteString("\nRespond in plain, conversational language. Each field should be a short paragraph.\n")

	required := make([]string, 0, len(tmpl.Required))
	for _, f := range tmpl.Required {
		required = append(required, f.Name)
	}

	return &Request{
		Prompt: b.String(),
		Schema: &genai.Schema{
			Type:             genai.TypeObject,
			Properties:       props,
			Required:         required,
			PropertyOrdering: names,
		},
		Fields: names,
	}, nil
}
