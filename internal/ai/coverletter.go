package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hireloop/vellum/internal/format"
)

const coverLetterModel = "meta-llama/llama-4-maverick-17b-128e-instruct"

const coverLetterSystemPrompt = `You are a professional cover letter writing expert.
Your task is to generate personalized, compelling cover letters that match the candidate's experience with the job requirements.

Important rules:
1. NEVER include any address information in the cover letter
2. For the salutation, use "Dear Hiring Manager"
3. Keep the tone professional and engaging
4. Focus on creating a unique, engaging narrative that demonstrates the candidate's value proposition
5. Always return a properly formatted JSON object with the specified fields`

const coverLetterPromptFmt = `Generate a professional cover letter based on the following information.
The cover letter should be personalized, compelling, and highlight relevant experience.

Company: %s
Position: %s

Job Description:
%s

Resume Content:
%s

Requirements:
1. Use a professional tone
2. Highlight relevant experience from the resume that matches the job requirements
3. Show enthusiasm for the specific company and position
4. Keep it concise (3-4 paragraphs)
5. Include a clear call to action

Important: DO NOT include any address information in the cover letter.

Return the cover letter in this exact format:
{
    "salutation": "Dear Hiring Manager",
    "body": "Cover letter body paragraphs separated by blank lines",
    "closing": "Sincerely",
    "signature": "Your Name"
}`

// CoverLetterInput is the cover-letter request payload.
type CoverLetterInput struct {
	CompanyName    string `json:"company_name"`
	PositionTitle  string `json:"position_title"`
	JobDescription string `json:"job_description"`
	ResumeText     string `json:"resume_text"`
}

// GenerateCoverLetter writes a cover letter for the given position.
// The date line is stamped locally rather than trusted to the model.
func (c *Client) GenerateCoverLetter(ctx context.Context, in CoverLetterInput) (*format.CoverLetter, error) {
	raw, err := c.chat(ctx, chatRequest{
		system: coverLetterSystemPrompt,
		user: fmt.Sprintf(coverLetterPromptFmt,
			in.CompanyName, in.PositionTitle, in.JobDescription, in.ResumeText),
		model:       coverLetterModel,
		temperature: 0.7,
		maxTokens:   1000,
		jsonMode:    true,
	})
	if err != nil {
		return nil, err
	}

	letter, err := parseCoverLetter(raw)
	if err != nil {
		return nil, err
	}
	letter.Date = time.Now().Format("January 02, 2006")
	return letter, nil
}

func parseCoverLetter(raw string) (*format.CoverLetter, error) {
	cleaned := stripFences(raw)

	var payload map[string]any
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("model returned malformed JSON: %w", err)
	}
	if err := requireKeys(payload, "salutation", "body", "closing", "signature"); err != nil {
		return nil, err
	}

	var letter format.CoverLetter
	if err := json.Unmarshal([]byte(cleaned), &letter); err != nil {
		return nil, fmt.Errorf("unexpected cover letter shape: %w", err)
	}
	return &letter, nil
}
