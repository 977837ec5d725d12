package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/hireloop/vellum/internal/format"
)

const (
	interviewModel      = "meta-llama/llama-4-maverick-17b-128e-instruct"
	questionsPerSession = 5
)

var (
	// ErrSessionNotFound reports an unknown interview session id.
	ErrSessionNotFound = errors.New("interview session not found")
	// ErrAnswerSubmitted reports a second answer to the same question.
	ErrAnswerSubmitted = errors.New("answer already submitted for latest question")
	// ErrSessionNotFinished reports a report request before the final
	// answer.
	ErrSessionNotFinished = errors.New("interview session not finished")
)

// Coach runs five-question mock interviews. Sessions live in process,
// keyed by uuid.
type Coach struct {
	ask askFunc

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	resume   string
	jobDesc  string
	turns    []turn
	feedback *InterviewFeedback
}

type turn struct {
	question string
	answer   string
	answered bool
}

// NewCoach creates a coach backed by the given chat client.
func NewCoach(client *Client) *Coach {
	return &Coach{ask: client.chat, sessions: make(map[string]*session)}
}

// Started is the response to a new interview session.
type Started struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
}

// Step is the response to a submitted answer: the next question, or
// the coach's feedback after the final answer.
type Step struct {
	Complete     bool               `json:"isComplete"`
	NextQuestion string             `json:"nextQuestion,omitempty"`
	Feedback     *InterviewFeedback `json:"analysis,omitempty"`
}

// InterviewFeedback is the final analysis. The JSON keys are the wire
// contract of the answer endpoint.
type InterviewFeedback struct {
	QuestionAnalysis []QuestionFeedback `json:"questionAnalysis"`
	OverallAnalysis  string             `json:"overallAnalysis"`
}

type QuestionFeedback struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Feedback string `json:"feedback"`
}

// Start opens a session and asks the first question.
func (co *Coach) Start(ctx context.Context, resumeText, jobDescription string) (*Started, error) {
	question, err := co.ask(ctx, chatRequest{
		user:        initialPrompt(resumeText, jobDescription),
		model:       interviewModel,
		temperature: 0.7,
		maxTokens:   1024,
	})
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	co.mu.Lock()
	co.sessions[id] = &session{
		resume:  resumeText,
		jobDesc: jobDescription,
		turns:   []turn{{question: question}},
	}
	co.mu.Unlock()

	return &Started{SessionID: id, Question: question}, nil
}

// Answer records the answer to the latest question. While fewer than
// five questions have been asked it returns the next one; the fifth
// answer yields the final feedback instead.
func (co *Coach) Answer(ctx context.Context, sessionID, answer string) (*Step, error) {
	co.mu.Lock()
	sess, ok := co.sessions[sessionID]
	if !ok {
		co.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	last := &sess.turns[len(sess.turns)-1]
	if last.answered {
		co.mu.Unlock()
		return nil, ErrAnswerSubmitted
	}
	last.answer = answer
	last.answered = true
	history := qaHistory(sess.turns)
	done := len(sess.turns) >= questionsPerSession
	co.mu.Unlock()

	if done {
		raw, err := co.ask(ctx, chatRequest{
			user:        feedbackPrompt(history),
			model:       interviewModel,
			temperature: 0.7,
			maxTokens:   1024,
			jsonMode:    true,
		})
		if err != nil {
			co.rollback(sessionID)
			return nil, err
		}
		feedback, err := parseFeedback(raw)
		if err != nil {
			co.rollback(sessionID)
			return nil, err
		}

		co.mu.Lock()
		sess.feedback = feedback
		co.mu.Unlock()
		return &Step{Complete: true, Feedback: feedback}, nil
	}

	question, err := co.ask(ctx, chatRequest{
		user:        followupPrompt(history),
		model:       interviewModel,
		temperature: 0.7,
		maxTokens:   1024,
	})
	if err != nil {
		co.rollback(sessionID)
		return nil, err
	}

	co.mu.Lock()
	sess.turns = append(sess.turns, turn{question: question})
	co.mu.Unlock()
	return &Step{Complete: false, NextQuestion: question}, nil
}

// rollback releases the latest answer so the client can retry after a
// failed model call.
func (co *Coach) rollback(sessionID string) {
	co.mu.Lock()
	defer co.mu.Unlock()
	sess, ok := co.sessions[sessionID]
	if !ok || len(sess.turns) == 0 {
		return
	}
	last := &sess.turns[len(sess.turns)-1]
	last.answer = ""
	last.answered = false
}

// Transcript returns a finished session for report rendering.
func (co *Coach) Transcript(sessionID string) (*format.Transcript, error) {
	co.mu.Lock()
	defer co.mu.Unlock()

	sess, ok := co.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.feedback == nil {
		return nil, ErrSessionNotFinished
	}

	tr := &format.Transcript{
		SessionID: sessionID,
		Overall:   sess.feedback.OverallAnalysis,
	}
	for _, qa := range sess.feedback.QuestionAnalysis {
		tr.Turns = append(tr.Turns, format.TranscriptTurn{
			Question: qa.Question,
			Answer:   qa.Answer,
			Feedback: qa.Feedback,
		})
	}
	return tr, nil
}

// parseFeedback validates and decodes the final analysis. Every
// question entry must carry question, answer and feedback.
func parseFeedback(raw string) (*InterviewFeedback, error) {
	cleaned := stripFences(raw)

	var payload map[string]any
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("model returned malformed JSON: %w", err)
	}
	if err := requireKeys(payload, "questionAnalysis", "overallAnalysis"); err != nil {
		return nil, err
	}
	entries, ok := payload["questionAnalysis"].([]any)
	if !ok {
		return nil, errors.New("questionAnalysis must be an array")
	}
	if _, ok := payload["overallAnalysis"].(string); !ok {
		return nil, errors.New("overallAnalysis must be a string")
	}
	for i, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("analysis entry %d is not an object", i+1)
		}
		for _, key := range []string{"question", "answer", "feedback"} {
			if _, ok := entry[key]; !ok {
				return nil, fmt.Errorf("analysis entry %d missing %s", i+1, key)
			}
		}
	}

	var feedback InterviewFeedback
	if err := json.Unmarshal([]byte(cleaned), &feedback); err != nil {
		return nil, fmt.Errorf("unexpected analysis shape: %w", err)
	}
	return &feedback, nil
}

func initialPrompt(resume, jobDesc string) string {
	return fmt.Sprintf(`You are an AI mock interview coach. Based on the resume and job description below, generate the first of five role-specific interview questions. Ask only one question at a time.

Resume:
%s

Job Description:
%s

Provide only the first interview question.`, resume, jobDesc)
}

func followupPrompt(history string) string {
	return fmt.Sprintf(`You are an AI interview coach continuing a mock interview.
Based on the following Q&A history, provide the next role-specific interview question. Only one question.

%s`, history)
}

func feedbackPrompt(history string) string {
	return fmt.Sprintf(`You are an AI career coach. Analyze the following mock interview Q&A and provide structured feedback.
Your response MUST be in the following JSON format:
{
    "questionAnalysis": [
        {
            "question": "The question asked",
            "answer": "The candidate's answer",
            "feedback": "Your detailed feedback on this answer"
        }
    ],
    "overallAnalysis": "Your overall analysis of the candidate's performance"
}

Here is the Q&A history to analyze:
%s

Remember to:
1. Keep the exact JSON structure shown above
2. Include all questions and answers in the analysis
3. Provide specific, actionable feedback
4. Ensure the JSON is properly formatted and valid`, history)
}

// qaHistory renders the answered turns for a follow-up prompt.
func qaHistory(turns []turn) string {
	parts := make([]string, 0, len(turns))
	for _, t := range turns {
		parts = append(parts, fmt.Sprintf("Question: %s\nAnswer: %s", t.question, t.answer))
	}
	return strings.Join(parts, "\n\n")
}
