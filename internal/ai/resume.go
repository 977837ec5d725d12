package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hireloop/vellum/internal/format"
)

const resumeModel = "deepseek-r1-distill-llama-70b"

const resumeSystemPrompt = `You are a resume writing assistant. Your task is to generate a professional resume in JSON format.
Always respond with a valid JSON object containing these exact keys: name, summary, experience, education, skills, and projects.

For experience, each entry should have: company, position, location, dates, and description (as an array of bullet points).
For education, each entry should have: degree, institution, location, dates (use graduation_date as the dates value), and gpa (if provided).
For projects, each entry should have: name and description.

For skills, use this exact format:
"skills": {
    "technical": ["skill1", "skill2", "skill3"],
    "soft": ["skill1", "skill2", "skill3"]
}

Make sure to:
1. Split technical and soft skills into separate arrays
2. Convert comma-separated skills into array items
3. Remove any empty or whitespace-only skills
4. Preserve all skills exactly as provided in the input

Do not include any text before or after the JSON object.`

// GenerateResume polishes a raw draft into a final resume.
func (c *Client) GenerateResume(ctx context.Context, draft format.Draft) (*format.Resume, error) {
	raw, err := c.chat(ctx, chatRequest{
		system:      resumeSystemPrompt,
		user:        draftPrompt(draft),
		model:       resumeModel,
		temperature: 0.7,
		maxTokens:   1000,
		jsonMode:    true,
	})
	if err != nil {
		return nil, err
	}
	return parseResume(raw)
}

// parseResume validates and decodes the model's resume JSON. Education
// entries without dates fall back to their graduation_date, then to
// "Not specified".
func parseResume(raw string) (*format.Resume, error) {
	cleaned := stripFences(raw)

	var payload map[string]any
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("model returned malformed JSON: %w", err)
	}
	if err := requireKeys(payload, "name", "summary", "experience", "education", "skills", "projects"); err != nil {
		return nil, err
	}

	if entries, ok := payload["education"].([]any); ok {
		for _, e := range entries {
			entry, ok := e.(map[string]any)
			if !ok {
				continue
			}
			if _, ok := entry["dates"]; ok {
				continue
			}
			if grad, ok := entry["graduation_date"]; ok {
				entry["dates"] = grad
			} else {
				entry["dates"] = "Not specified"
			}
		}
	}

	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var resume format.Resume
	if err := json.Unmarshal(buf, &resume); err != nil {
		return nil, fmt.Errorf("unexpected resume shape: %w", err)
	}
	return &resume, nil
}

// draftPrompt renders the user's draft the way the generation prompt
// expects it.
func draftPrompt(d format.Draft) string {
	var b strings.Builder
	b.WriteString("You are a resume generation expert. Based on the user's input below, create a structured and professional resume.\n")
	b.WriteString("Use action verbs, quantify achievements where possible, and format in standard US resume format.\n\n")

	p := d.PersonalInfo
	b.WriteString("## Personal Information:\n")
	fmt.Fprintf(&b, "Name: %s\nEmail: %s\nPhone: %s\nLocation: %s\n", p.FullName, p.Email, p.Phone, p.Location)
	if p.LinkedIn != "" {
		fmt.Fprintf(&b, "LinkedIn: %s\n", p.LinkedIn)
	}
	if p.Website != "" {
		fmt.Fprintf(&b, "Website: %s\n", p.Website)
	}
	fmt.Fprintf(&b, "Summary: %s\n", p.Summary)

	b.WriteString("\n## Experience:\n")
	for i, job := range d.Experience {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Position: %s\nCompany: %s\nPeriod: %s - %s\nLocation: %s\n",
			job.JobTitle, job.Company, job.StartDate, job.EndDate, job.Location)
		fmt.Fprintf(&b, "Description: %s\n", job.Description)
		if len(job.Achievements) > 0 {
			b.WriteString("Achievements:\n")
			for _, a := range job.Achievements {
				fmt.Fprintf(&b, "- %s\n", a)
			}
		}
	}

	b.WriteString("\n## Education:\n")
	for i, edu := range d.Education {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Degree: %s\nInstitution: %s\nGraduation: %s\nLocation: %s\n",
			edu.Degree, edu.Institution, edu.GraduationDate, edu.Location)
		if edu.GPA != "" {
			fmt.Fprintf(&b, "GPA: %s\n", edu.GPA)
		}
	}

	fmt.Fprintf(&b, "\n## Technical Skills:\n%s\n", normalizeSkills(d.TechnicalSkills))
	fmt.Fprintf(&b, "\n## Soft Skills:\n%s\n", normalizeSkills(d.SoftSkills))

	b.WriteString("\n## Projects:\n")
	for i, proj := range d.Projects {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Title: %s\nDescription: %s\n", proj.Title, proj.Description)
	}

	b.WriteString("\nOutput a JSON with the following keys: name, summary, experience, education, skills, and projects.\n")
	b.WriteString("Use bullet points where needed. Return only valid JSON.")
	return b.String()
}

// normalizeSkills tidies a comma-separated skill list, dropping blank
// entries.
func normalizeSkills(raw string) string {
	var skills []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return strings.Join(skills, ", ")
}
