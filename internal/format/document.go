package format

import (
	"fmt"
	"strings"

	"github.com/hireloop/vellum/document"
)

// ResumeDocument lays a polished resume out as a renderable document:
// centered name header, then Summary, Experience, Education, Skills and
// Projects sections. Empty sections are dropped.
func ResumeDocument(r Resume) *document.Document {
	doc := &document.Document{
		Meta: document.Meta{
			Title:   r.Name,
			Author:  r.Name,
			Subject: "Resume",
		},
	}

	if strings.TrimSpace(r.Name) != "" {
		doc.Sections = append(doc.Sections, document.Section{
			Title: r.Name,
			Align: "center",
		})
	}

	if strings.TrimSpace(r.Summary) != "" {
		doc.Sections = append(doc.Sections, document.Section{
			Title:  "Summary",
			Blocks: []document.Block{{Text: r.Summary}},
		})
	}

	if len(r.Experience) > 0 {
		sec := document.Section{Title: "Experience"}
		for _, e := range r.Experience {
			sec.Blocks = append(sec.Blocks, document.Block{
				Text:  joinNonEmpty(", ", e.Position, e.Company),
				Style: document.StyleHeading,
			})
			if line := joinNonEmpty(" | ", e.Location, e.Dates); line != "" {
				sec.Blocks = append(sec.Blocks, document.Block{
					Text:  line,
					Style: document.StyleSubheading,
				})
			}
			for _, item := range e.Description {
				sec.Blocks = append(sec.Blocks, document.Block{
					Text:  item,
					Style: document.StyleBullet,
				})
			}
		}
		doc.Sections = append(doc.Sections, sec)
	}

	if len(r.Education) > 0 {
		sec := document.Section{Title: "Education"}
		for _, e := range r.Education {
			sec.Blocks = append(sec.Blocks, document.Block{
				Text:  joinNonEmpty(", ", e.Degree, e.Institution),
				Style: document.StyleHeading,
			})
			gpa := ""
			if e.GPA != "" {
				gpa = "GPA " + e.GPA
			}
			if line := joinNonEmpty(" | ", e.Location, e.Dates, gpa); line != "" {
				sec.Blocks = append(sec.Blocks, document.Block{
					Text:  line,
					Style: document.StyleSubheading,
				})
			}
		}
		doc.Sections = append(doc.Sections, sec)
	}

	if len(r.Skills.Technical) > 0 || len(r.Skills.Soft) > 0 {
		sec := document.Section{Title: "Skills"}
		if len(r.Skills.Technical) > 0 {
			sec.Blocks = append(sec.Blocks, document.Block{
				Text:  "Technical: " + strings.Join(r.Skills.Technical, ", "),
				Style: document.StyleBullet,
			})
		}
		if len(r.Skills.Soft) > 0 {
			sec.Blocks = append(sec.Blocks, document.Block{
				Text:  "Soft: " + strings.Join(r.Skills.Soft, ", "),
				Style: document.StyleBullet,
			})
		}
		doc.Sections = append(doc.Sections, sec)
	}

	if len(r.Projects) > 0 {
		sec := document.Section{Title: "Projects"}
		for _, p := range r.Projects {
			sec.Blocks = append(sec.Blocks, document.Block{
				Text:  p.Name,
				Style: document.StyleHeading,
			})
			if p.Description != "" {
				sec.Blocks = append(sec.Blocks, document.Block{Text: p.Description})
			}
		}
		doc.Sections = append(doc.Sections, sec)
	}

	return doc
}

// ReportDocument lays a finished interview session out as a report:
// centered title, one section per question with the answer and the
// coach's feedback, then the overall analysis.
func ReportDocument(t Transcript) *document.Document {
	doc := &document.Document{
		Meta: document.Meta{
			Title:   "Interview Report",
			Subject: "Mock interview feedback",
		},
		Sections: []document.Section{
			{Title: "Interview Report", Align: "center"},
		},
	}

	for i, turn := range t.Turns {
		doc.Sections = append(doc.Sections, document.Section{
			Title: fmt.Sprintf("Question %d", i+1),
			Blocks: []document.Block{
				{Text: turn.Question, Style: document.StyleHeading},
				{Text: "Answer: " + turn.Answer},
				{Text: "Feedback: " + turn.Feedback},
			},
		})
	}

	if strings.TrimSpace(t.Overall) != "" {
		doc.Sections = append(doc.Sections, document.Section{
			Title:  "Overall Analysis",
			Blocks: []document.Block{{Text: t.Overall}},
		})
	}

	return doc
}

// CoverLetterDocument lays a cover letter out as a single untitled
// section: date, salutation, body paragraphs, closing and signature.
// Body paragraphs are split on blank lines.
func CoverLetterDocument(cl CoverLetter) *document.Document {
	sec := document.Section{}
	add := func(text string) {
		if strings.TrimSpace(text) == "" {
			return
		}
		sec.Blocks = append(sec.Blocks, document.Block{Text: text})
	}

	add(cl.Date)
	add(cl.Salutation)
	for _, para := range strings.Split(cl.Body, "\n\n") {
		add(strings.TrimSpace(para))
	}
	add(cl.Closing)
	add(cl.Signature)

	return &document.Document{
		Meta: document.Meta{
			Title:   "Cover Letter",
			Author:  cl.Signature,
			Subject: "Cover Letter",
		},
		Sections: []document.Section{sec},
	}
}

// joinNonEmpty joins the non-blank parts with sep.
func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
