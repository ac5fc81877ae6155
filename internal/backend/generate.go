package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/skanda/quizquest/internal/quiz"
	"github.com/skanda/quizquest/internal/submission"
)

const opGenerate = "generate-questions"

// generateResponse mirrors the wire shape of the question generation service.
type generateResponse struct {
	Questions struct {
		MCQ []struct {
			Question    string            `json:"question"`
			Options     map[string]string `json:"options"`
			Answer      string            `json:"answer"`
			Explanation string            `json:"explanation"`
			Difficulty  int               `json:"difficulty"`
		} `json:"mcq_questions"`
		Subjective []struct {
			Question     string   `json:"question"`
			SampleAnswer string   `json:"sample_answer"`
			Keywords     []string `json:"keywords"`
			Difficulty   int      `json:"difficulty"`
		} `json:"subjective_questions"`
		TotalQuestions int `json:"total_questions"`
	} `json:"questions"`
	TextPreview     string `json:"extracted_text_preview"`
	TotalCharacters int    `json:"total_characters"`
	DifficultyLevel int    `json:"difficulty_level"`
}

func (c *HTTPClient) GenerateQuestions(ctx context.Context, payload *submission.Payload) (*quiz.QuestionSet, error) {
	url := c.baseURL + "/generate-from-pdf"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload.Body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", payload.ContentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: opGenerate, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: opGenerate, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServerError{Op: opGenerate, Status: resp.StatusCode, Body: bodySnippet(body)}
	}

	// Validate the shape before parsing. The generation service reports
	// some of its own failures inside a 200 body; those fail the schema
	// and are rejected here rather than half-parsed.
	if err := validateGenerateResponse(body); err != nil {
		return nil, &MalformedResponse{Op: opGenerate, Err: err}
	}

	var wire generateResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, &MalformedResponse{Op: opGenerate, Err: err}
	}

	return questionSetFromWire(&wire), nil
}

// questionSetFromWire maps the wire response onto the immutable core type,
// assigning stable per-set question IDs.
func questionSetFromWire(wire *generateResponse) *quiz.QuestionSet {
	qs := &quiz.QuestionSet{
		SourceCharCount: wire.TotalCharacters,
		SourcePreview:   wire.TextPreview,
		DifficultyLevel: wire.DifficultyLevel,
	}

	for i, q := range wire.Questions.MCQ {
		choices := make(map[string]string, len(q.Options))
		for k, v := range q.Options {
			choices[k] = v
		}
		qs.Objective = append(qs.Objective, quiz.ObjectiveQuestion{
			ID:          fmt.Sprintf("mcq-%d", i+1),
			Prompt:      q.Question,
			Choices:     choices,
			CorrectKey:  q.Answer,
			Explanation: q.Explanation,
			Difficulty:  q.Difficulty,
		})
	}

	for i, q := range wire.Questions.Subjective {
		qs.Subjective = append(qs.Subjective, quiz.SubjectiveQuestion{
			ID:           fmt.Sprintf("subj-%d", i+1),
			Prompt:       q.Question,
			SampleAnswer: q.SampleAnswer,
			Keywords:     q.Keywords,
			Difficulty:   q.Difficulty,
		})
	}

	return qs
}

// bodySnippet trims a response body for inclusion in an error message.
func bodySnippet(body []byte) string {
	const max = 200
	s := string(body)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
