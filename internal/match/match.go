// Package match scores a resume against a job description with plain
// keyword overlap. It is deterministic and needs no network access, so
// the analyze endpoint always has a baseline score to report even when
// the model does not supply one.
package match

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Report summarizes the keyword overlap. Score is Jaccard similarity
// between the two keyword sets scaled to 0-100; Matched and Missing
// list the job description's keywords found and not found in the
// resume.
type Report struct {
	Score   float64  `json:"score"`
	Matched []string `json:"matched_keywords"`
	Missing []string `json:"missing_keywords"`
}

// stopWords is the usual English filler plus boilerplate that shows up
// in nearly every job posting and resume.
var stopWords = map[string]struct{}{
	"ability": {}, "about": {}, "all": {}, "and": {}, "any": {}, "are": {},
	"been": {}, "both": {}, "but": {}, "can": {}, "experience": {},
	"for": {}, "from": {}, "had": {}, "has": {}, "have": {}, "into": {},
	"its": {}, "knowledge": {}, "looking": {}, "not": {}, "other": {},
	"our": {}, "over": {}, "per": {}, "plus": {}, "preferred": {},
	"required": {}, "requirements": {}, "responsibilities": {},
	"role": {}, "skills": {}, "strong": {}, "team": {}, "that": {},
	"the": {}, "their": {}, "them": {}, "they": {}, "this": {},
	"under": {}, "was": {}, "were": {}, "what": {}, "when": {},
	"which": {}, "who": {}, "will": {}, "with": {}, "within": {},
	"work": {}, "working": {}, "would": {}, "you": {}, "your": {},
	"years": {},
}

// Keywords extracts the distinct content words of text: lowercased,
// split on non-alphanumeric runs, stop words dropped. Tokens shorter
// than three characters match everything and are skipped too.
// The result is sorted.
func Keywords(text string) []string {
	seen := make(map[string]struct{})
	var words []string
	for _, tok := range tokenize(text) {
		if len(tok) < 3 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		words = append(words, tok)
	}
	sort.Strings(words)
	return words
}

// Compare scores resumeText against jobDescription.
func Compare(resumeText, jobDescription string) Report {
	resume := Keywords(resumeText)
	job := Keywords(jobDescription)

	inResume := make(map[string]struct{}, len(resume))
	for _, w := range resume {
		inResume[w] = struct{}{}
	}

	var matched, missing []string
	for _, w := range job {
		if _, ok := inResume[w]; ok {
			matched = append(matched, w)
		} else {
			missing = append(missing, w)
		}
	}

	// Union of the two sets: everything in the resume plus the job
	// keywords the resume lacks.
	union := len(resume) + len(missing)
	score := 0.0
	if union > 0 {
		score = float64(len(matched)) / float64(union) * 100
	}

	return Report{
		Score:   math.Round(score*10) / 10,
		Matched: matched,
		Missing: missing,
	}
}

// tokenize keeps + and # so terms like c++ survive splitting.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})
}
