// Package analysis builds structured-output analysis requests from post
// snapshots and talks to the external generation gateway.
package analysis

import (
	"fmt"
	"math"

	"senseshare/internal/models"
)

// FieldSpec describes one output field: its schema entry and the instruction
// paragraph that produces it. Every field has exactly one instruction block
// and vice versa; the renderer emits them in the same order.
type FieldSpec struct {
	Name        string
	Description string
	Instruction func(p *models.Post) string
}

// ConditionalFieldSpec is a FieldSpec that only appears when its predicate
// holds for the post's current aggregate state.
type ConditionalFieldSpec struct {
	FieldSpec
	Predicate func(p *models.Post) bool
}

// Template is the content configuration for an analysis request: role
// framing plus ordered required and conditional fields. The structure (two
// fixed fields, one vote-gap conditional) is the contract; wording is
// swappable per template.
type Template struct {
	Name        string
	Role        string
	Required    []FieldSpec
	Conditional []ConditionalFieldSpec
}

// DisagreePercent returns the rounded share of disagree votes, 0 when there
// are no votes at all.
func DisagreePercent(p *models.Post) int {
	total := p.TotalVotes()
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(p.DisagreeCount) / float64(total) * 100))
}

func hasSensationGap(p *models.Post) bool {
	return p.DisagreeCount > 0
}

func experienceLabel(p *models.Post) string {
	if p.Type == models.PostTypeBest {
		return "best experience"
	}
	return "worst experience"
}

// gapFieldSpec is shared by all templates: the conditional field's predicate
// and percentage computation are structural, only the framing text varies.
func gapFieldSpec(framing func(p *models.Post, percent int) string) ConditionalFieldSpec {
	return ConditionalFieldSpec{
		FieldSpec: FieldSpec{
			Name:        "gapAnalysis",
			Description: "In-depth analysis of why the author's sensation diverged from the majority reaction.",
			Instruction: func(p *models.Post) string {
				return framing(p, DisagreePercent(p))
			},
		},
		Predicate: hasSensationGap,
	}
}

// PsychologicalTemplate is the default framing: an empathetic psychologist
// reading the author's personality through the community's reaction.
func PsychologicalTemplate() *Template {
	return &Template{
		Name: "psychological",
		Role: "You are a witty, insightful psychologist who analyzes people's everyday experiences. " +
			"Combining the objective situation with the community reaction data, present both the " +
			"perspective that shares the author's subjective sensation and the perspective that does not.",
		Required: []FieldSpec{
			{
				Name:        "agree",
				Description: "Analysis that empathizes with the author's sensation and infers their disposition from it.",
				Instruction: func(p *models.Post) string {
					return fmt.Sprintf("**The empathizing view (agree):**\n"+
						"- Connect the situation and the sensation, and explain with empathy why this was the author's %s.\n"+
						"- Point out what the reaction suggests about the author's personality, values and priorities.",
						experienceLabel(p))
				},
			},
			{
				Name:        "disagree",
				Description: "Analysis of why someone looking only at the objective situation might not share the sensation.",
				Instruction: func(p *models.Post) string {
					return "**The other view (disagree):**\n" +
						"- Looking only at the objective situation, explain why some people might not share this sensation.\n" +
						"- Speculate about the disposition and values of those who do not relate."
				},
			},
		},
		Conditional: []ConditionalFieldSpec{
			gapFieldSpec(func(p *models.Post, percent int) string {
				return fmt.Sprintf("**Sensation gap deep-dive (gapAnalysis):**\n"+
					"- This experience did not resonate with %d%% of voters. Analyze in depth why this sensation gap exists.\n"+
					"- Explain why the author's sensation ended up a minority view, considering differences in values, generation and personal history.\n"+
					"- Present the analysis constructively, helping the author understand their distinctive sensation rather than judging it as wrong.",
					percent)
			}),
		},
	}
}

// TrendTemplate reframes the same structure around consumer-trend reading.
func TrendTemplate() *Template {
	return &Template{
		Name: "trend",
		Role: "You are a sharp trend analyst who reads everyday experiences as signals of shifting consumer " +
			"sensibilities. Using the situation and the community reaction data, explain what the agreeing and " +
			"disagreeing camps each reveal about current trends.",
		Required: []FieldSpec{
			{
				Name:        "agree",
				Description: "What the empathizing majority or minority reveals about an emerging trend.",
				Instruction: func(p *models.Post) string {
					return fmt.Sprintf("**The resonating camp (agree):**\n"+
						"- Explain which current trend or sensibility makes this a %s for people who relate.\n"+
						"- Name the consumer or lifestyle segment this reaction points to.",
						experienceLabel(p))
				},
			},
			{
				Name:        "disagree",
				Description: "What the non-relating camp reveals about a counter-trend.",
				Instruction: func(p *models.Post) string {
					return "**The unmoved camp (disagree):**\n" +
						"- Based on the objective situation alone, describe the counter-trend or sensibility of those who do not relate.\n" +
						"- Contrast the two camps' priorities."
				},
			},
		},
		Conditional: []ConditionalFieldSpec{
			gapFieldSpec(func(p *models.Post, percent int) string {
				return fmt.Sprintf("**Sensibility gap reading (gapAnalysis):**\n"+
					"- %d%% of voters did not share this sensation. Read the gap as a trend signal: which shift explains it?\n"+
					"- Keep the reading constructive; a minority sensation is an early signal, not a mistake.",
					percent)
			}),
		},
	}
}

// TemplateByName resolves a configured template name, falling back to the
// psychological default for unknown names.
func TemplateByName(name string) *Template {
	switch name {
	case "trend":
		return TrendTemplate()
	default:
		return PsychologicalTemplate()
	}
}
