package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/hireloop/vellum/internal/match"
)

const analyzeModel = "deepseek-r1-distill-llama-70b"

const analyzeSystemPrompt = `You are a career coach reviewing resumes against job descriptions. Respond with a single valid JSON object and nothing else.`

const analyzePromptFmt = `Analyze the following resume against the job description:

Resume:
%s

Job Description:
%s

Return a JSON object with these exact keys:
{
    "strengths": ["key strengths matching the job requirements"],
    "weaknesses": ["areas of improvement or missing skills"],
    "suggestions": ["specific suggestions to improve the resume"],
    "match_score": <number from 0 to 100 estimating how well the resume fits the job>
}`

// Analysis is the analyze endpoint's payload: the model's review plus
// the deterministic keyword comparison.
type Analysis struct {
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	Suggestions []string `json:"suggestions"`
	MatchScore  float64  `json:"match_score"`
	Matched     []string `json:"matched_keywords"`
	Missing     []string `json:"missing_keywords"`
}

// AnalyzeResume reviews a resume against a job description. The match
// score blends the model's estimate with a local keyword score, so a
// score is reported even when the model omits one.
func (c *Client) AnalyzeResume(ctx context.Context, resumeText, jobDescription string) (*Analysis, error) {
	local := match.Compare(resumeText, jobDescription)

	raw, err := c.chat(ctx, chatRequest{
		system:      analyzeSystemPrompt,
		user:        fmt.Sprintf(analyzePromptFmt, resumeText, jobDescription),
		model:       analyzeModel,
		temperature: 0.7,
		maxTokens:   1000,
		jsonMode:    true,
	})
	if err != nil {
		return nil, err
	}

	analysis, err := parseAnalysis(raw)
	if err != nil {
		return nil, err
	}
	analysis.MatchScore = blendScore(analysis.MatchScore, local.Score)
	analysis.Matched = local.Matched
	analysis.Missing = local.Missing
	return analysis, nil
}

func parseAnalysis(raw string) (*Analysis, error) {
	cleaned := stripFences(raw)

	var payload map[string]any
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("model returned malformed JSON: %w", err)
	}
	if err := requireKeys(payload, "strengths", "weaknesses", "suggestions"); err != nil {
		return nil, err
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		return nil, fmt.Errorf("unexpected analysis shape: %w", err)
	}
	return &analysis, nil
}

// blendScore averages the model's estimate with the local keyword
// score. Estimates outside (0, 100] are treated as absent.
func blendScore(model, local float64) float64 {
	if model <= 0 || model > 100 {
		return local
	}
	return math.Round((model+local)/2*10) / 10
}
