package analysis

import (
	"fmt"
	"strings"
	"testing"

	"senseshare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analysisPost() *models.Post {
	return &models.Post{
		ID:         1,
		Type:       models.PostTypeWorst,
		Situation:  "Waited forty minutes in line for a restaurant",
		Sensation:  "It ruined my entire day",
		EmotionTag: "#rage",
	}
}

func TestDisagreePercent(t *testing.T) {
	cases := []struct {
		agree, disagree, want int
	}{
		{0, 0, 0},
		{0, 4, 100},
		{3, 1, 25},
		{1, 2, 67},
		{2, 1, 33},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d_agree_%d_disagree", tc.agree, tc.disagree), func(t *testing.T) {
			p := &models.Post{AgreeCount: tc.agree, DisagreeCount: tc.disagree}
			assert.Equal(t, tc.want, DisagreePercent(p))
		})
	}
}

func TestBuildRequestRequiredFieldsOnly(t *testing.T) {
	p := analysisPost()
	p.AgreeCount = 5

	req, err := BuildRequest(PsychologicalTemplate(), p)
	require.NoError(t, err)

	assert.Equal(t, []string{"agree", "disagree"}, req.Fields)
	assert.Equal(t, []string{"agree", "disagree"}, req.Schema.Required)
	assert.Equal(t, []string{"agree", "disagree"}, req.Schema.PropertyOrdering)
	assert.Len(t, req.Schema.Properties, 2)
	assert.NotContains(t, req.Prompt, "gapAnalysis", "gap block only appears once someone disagreed")
}

func TestBuildRequestIncludesGapField(t *testing.T) {
	p := analysisPost()
	p.AgreeCount = 3
	p.DisagreeCount = 1

	req, err := BuildRequest(PsychologicalTemplate(), p)
	require.NoError(t, err)

	assert.Equal(t, []string{"agree", "disagree", "gapAnalysis"}, req.Fields)
	assert.Equal(t, []string{"agree", "disagree", "gapAnalysis"}, req.Schema.PropertyOrdering)
	// the conditional field is requested but never schema-required
	assert.Equal(t, []string{"agree", "disagree"}, req.Schema.Required)
	assert.Contains(t, req.Prompt, "25%")
}

func TestBuildRequestGapAllDisagree(t *testing.T) {
	p := analysisPost()
	p.DisagreeCount = 4

	req, err := BuildRequest(PsychologicalTemplate(), p)
	require.NoError(t, err)
	assert.Contains(t, req.Prompt, "100%")
}

func TestBuildRequestOneInstructionPerField(t *testing.T) {
	p := analysisPost()
	p.AgreeCount = 2
	p.DisagreeCount = 2

	for _, tmpl := range []*Template{PsychologicalTemplate(), TrendTemplate()} {
		t.Run(tmpl.Name, func(t *testing.T) {
			req, err := BuildRequest(tmpl, p)
			require.NoError(t, err)

			for i, name := range req.Fields {
				assert.Contains(t, req.Prompt, fmt.Sprintf("\n%d. ", i+1))
				require.Contains(t, req.Schema.Properties, name)
				assert.NotEmpty(t, req.Schema.Properties[name].Description)
			}
			// no stray numbered block beyond the declared fields
			assert.NotContains(t, req.Prompt, fmt.Sprintf("\n%d. ", len(req.Fields)+1))
		})
	}
}

func TestBuildRequestValidation(t *testing.T) {
	p := analysisPost()
	p.Situation = "   "

	_, err := BuildRequest(PsychologicalTemplate(), p)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

func TestBuildRequestIncludesPostData(t *testing.T) {
	p := analysisPost()
	p.AgreeCount = 7
	p.DisagreeCount = 3

	req, err := BuildRequest(PsychologicalTemplate(), p)
	require.NoError(t, err)

	assert.Contains(t, req.Prompt, p.Situation)
	assert.Contains(t, req.Prompt, p.Sensation)
	assert.Contains(t, req.Prompt, "#rage")
	assert.Contains(t, req.Prompt, "7 agree, 3 disagree")
	assert.True(t, strings.Contains(req.Prompt, "worst experience"))
}

func TestTemplateByName(t *testing.T) {
	assert.Equal(t, "trend", TemplateByName("trend").Name)
	assert.Equal(t, "psychological", TemplateByName("psychological").Name)
	assert.Equal(t, "psychological", TemplateByName("does-not-exist").Name)
}
