package format

import (
	"testing"

	"github.com/hireloop/vellum/document"
)

func sampleResume() Resume {
	return Resume{
		Name:    "Ada Lovelace",
		Summary: "Engineer with a decade of distributed systems work.",
		Experience: []Experience{{
			Company:     "Acme",
			Position:    "Staff Engineer",
			Location:    "Remote",
			Dates:       "2019 - Present",
			Description: []string{"Led the billing rewrite.", "Cut p99 latency in half."},
		}},
		Education: []Education{{
			Degree:      "BSc Mathematics",
			Institution: "University of London",
			Location:    "London",
			Dates:       "2014",
			GPA:         "3.9",
		}},
		Skills: Skills{
			Technical: []string{"Go", "PostgreSQL"},
			Soft:      []string{"Mentoring"},
		},
		Projects: []Project{{Name: "vellum", Description: "A PDF layout engine."}},
	}
}

func TestResumeDocumentSections(t *testing.T) {
	doc := ResumeDocument(sampleResume())

	wantTitles := []string{"Ada Lovelace", "Summary", "Experience", "Education", "Skills", "Projects"}
	if len(doc.Sections) != len(wantTitles) {
		t.Fatalf("sections = %d, want %d", len(doc.Sections), len(wantTitles))
	}
	for i, want := range wantTitles {
		if doc.Sections[i].Title != want {
			t.Errorf("section %d title = %q, want %q", i, doc.Sections[i].Title, want)
		}
	}

	header := doc.Sections[0]
	if header.Align != "center" {
		t.Errorf("header align = %q, want center", header.Align)
	}
	if len(header.Blocks) != 0 {
		t.Errorf("header has %d blocks, want none", len(header.Blocks))
	}

	exp := doc.Sections[2].Blocks
	if len(exp) != 4 {
		t.Fatalf("experience blocks = %d, want 4", len(exp))
	}
	if exp[0].Text != "Staff Engineer, Acme" || exp[0].Style != document.StyleHeading {
		t.Errorf("experience heading = %+v", exp[0])
	}
	if exp[1].Text != "Remote | 2019 - Present" || exp[1].Style != document.StyleSubheading {
		t.Errorf("experience subheading = %+v", exp[1])
	}
	for _, b := range exp[2:] {
		if b.Style != document.StyleBullet {
			t.Errorf("experience detail style = %q, want bullet", b.Style)
		}
	}

	edu := doc.Sections[3].Blocks
	if len(edu) != 2 {
		t.Fatalf("education blocks = %d, want 2", len(edu))
	}
	if edu[1].Text != "London | 2014 | GPA 3.9" {
		t.Errorf("education detail = %q", edu[1].Text)
	}

	skills := doc.Sections[4].Blocks
	if len(skills) != 2 {
		t.Fatalf("skills blocks = %d, want 2", len(skills))
	}
	if skills[0].Text != "Technical: Go, PostgreSQL" || skills[0].Style != document.StyleBullet {
		t.Errorf("technical skills block = %+v", skills[0])
	}
	if skills[1].Text != "Soft: Mentoring" {
		t.Errorf("soft skills block = %+v", skills[1])
	}

	if doc.Meta.Title != "Ada Lovelace" || doc.Meta.Subject != "Resume" {
		t.Errorf("meta = %+v", doc.Meta)
	}
}

func TestResumeDocumentSkipsEmptySections(t *testing.T) {
	doc := ResumeDocument(Resume{Name: "Solo"})
	if len(doc.Sections) != 1 {
		t.Fatalf("sections = %d, want only the header", len(doc.Sections))
	}
	if doc.Sections[0].Title != "Solo" {
		t.Errorf("header title = %q", doc.Sections[0].Title)
	}
}

func TestReportDocument(t *testing.T) {
	tr := Transcript{
		SessionID: "abc",
		Turns: []TranscriptTurn{
			{Question: "Why this role?", Answer: "Because.", Feedback: "Expand on motivation."},
			{Question: "Biggest challenge?", Answer: "A migration.", Feedback: "Good detail."},
		},
		Overall: "Solid candidate, needs more structure.",
	}

	doc := ReportDocument(tr)
	if len(doc.Sections) != 4 {
		t.Fatalf("sections = %d, want 4", len(doc.Sections))
	}
	if doc.Sections[0].Title != "Interview Report" || doc.Sections[0].Align != "center" {
		t.Errorf("title section = %+v", doc.Sections[0])
	}

	q1 := doc.Sections[1]
	if q1.Title != "Question 1" {
		t.Errorf("first question title = %q", q1.Title)
	}
	if len(q1.Blocks) != 3 {
		t.Fatalf("question blocks = %d, want 3", len(q1.Blocks))
	}
	if q1.Blocks[0].Text != "Why this role?" || q1.Blocks[0].Style != document.StyleHeading {
		t.Errorf("question block = %+v", q1.Blocks[0])
	}
	if q1.Blocks[1].Text != "Answer: Because." {
		t.Errorf("answer block = %q", q1.Blocks[1].Text)
	}
	if q1.Blocks[2].Text != "Feedback: Expand on motivation." {
		t.Errorf("feedback block = %q", q1.Blocks[2].Text)
	}

	last := doc.Sections[3]
	if last.Title != "Overall Analysis" || len(last.Blocks) != 1 {
		t.Errorf("overall section = %+v", last)
	}
}

func TestCoverLetterDocument(t *testing.T) {
	cl := CoverLetter{
		Date:       "August 22, 2026",
		Salutation: "Dear Hiring Manager",
		Body:       "First paragraph.\n\nSecond paragraph.\n\n   ",
		Closing:    "Sincerely",
		Signature:  "Ada Lovelace",
	}

	doc := CoverLetterDocument(cl)
	if len(doc.Sections) != 1 {
		t.Fatalf("sections = %d, want 1", len(doc.Sections))
	}
	sec := doc.Sections[0]
	if sec.Title != "" {
		t.Errorf("cover letter section should be untitled, got %q", sec.Title)
	}

	wantTexts := []string{
		"August 22, 2026",
		"Dear Hiring Manager",
		"First paragraph.",
		"Second paragraph.",
		"Sincerely",
		"Ada Lovelace",
	}
	if len(sec.Blocks) != len(wantTexts) {
		t.Fatalf("blocks = %d, want %d", len(sec.Blocks), len(wantTexts))
	}
	for i, want := range wantTexts {
		if sec.Blocks[i].Text != want {
			t.Errorf("block %d = %q, want %q", i, sec.Blocks[i].Text, want)
		}
	}

	if doc.Meta.Author != "Ada Lovelace" {
		t.Errorf("meta author = %q", doc.Meta.Author)
	}
}

func TestJoinNonEmpty(t *testing.T) {
	cases := []struct {
		parts []string
		want  string
	}{
		{[]string{"a", "b"}, "a | b"},
		{[]string{"", "b"}, "b"},
		{[]string{"a", "  ", "c"}, "a | c"},
		{[]string{"", ""}, ""},
	}
	for _, tc := range cases {
		if got := joinNonEmpty(" | ", tc.parts...); got != tc.want {
			t.Errorf("joinNonEmpty(%v) = %q, want %q", tc.parts, got, tc.want)
		}
	}
}
