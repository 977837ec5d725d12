// Package format defines the career-document contracts exchanged with
// the AI layer and turns them into renderable documents.
package format

// Draft is the raw resume input a user submits for polishing.
type Draft struct {
	PersonalInfo    PersonalInfo      `json:"personal_info"`
	Experience      []DraftExperience `json:"experience"`
	Education       []DraftEducation  `json:"education"`
	TechnicalSkills string            `json:"technical_skills"`
	SoftSkills      string            `json:"soft_skills"`
	Projects        []DraftProject    `json:"projects"`
}

type PersonalInfo struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
	Summary  string `json:"summary"`
}

type DraftExperience struct {
	JobTitle     string   `json:"job_title"`
	Company      string   `json:"company"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Location     string   `json:"location"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements,omitempty"`
}

type DraftEducation struct {
	Degree         string `json:"degree"`
	Institution    string `json:"institution"`
	GraduationDate string `json:"graduation_date"`
	Location       string `json:"location"`
	GPA            string `json:"gpa,omitempty"`
}

type DraftProject struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Resume is the polished resume. The field set and JSON keys are the
// wire contract of the generate endpoint and must stay stable.
type Resume struct {
	Name       string       `json:"name"`
	Summary    string       `json:"summary"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	Skills     Skills       `json:"skills"`
	Projects   []Project    `json:"projects"`
}

type Experience struct {
	Company     string   `json:"company"`
	Position    string   `json:"position"`
	Location    string   `json:"location"`
	Dates       string   `json:"dates"`
	Description []string `json:"description"`
}

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Location    string `json:"location"`
	Dates       string `json:"dates"`
	GPA         string `json:"gpa,omitempty"`
}

type Skills struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
}

type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CoverLetter mirrors the cover-letter wire contract. Date is stamped
// by the server, not the model.
type CoverLetter struct {
	Date       string `json:"date"`
	Salutation string `json:"salutation"`
	Body       string `json:"body"`
	Closing    string `json:"closing"`
	Signature  string `json:"signature"`
}

// Transcript is a finished mock-interview session, ready for the
// report renderer.
type Transcript struct {
	SessionID string
	Turns     []TranscriptTurn
	Overall   string
}

type TranscriptTurn struct {
	Question string
	Answer   string
	Feedback string
}
