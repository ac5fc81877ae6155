package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skanda/quizquest/internal/submission"
)

func testPayload(t *testing.T) *submission.Payload {
	t.Helper()
	p, err := submission.BuildPayload(&submission.Submission{
		FileName:        "notes.pdf",
		MediaType:       "application/pdf",
		Data:            []byte("%PDF-1.4"),
		Instruction:     "summarize",
		NumObjective:    3,
		NumSubjective:   2,
		DifficultyLevel: 1,
	})
	require.NoError(t, err)
	return p
}

const validGenerateBody = `{
	"questions": {
		"mcq_questions": [
			{
				"question": "What is the capital of France?",
				"options": {"A": "Lyon", "B": "Paris", "C": "Nice", "D": "Lille"},
				"answer": "B",
				"explanation": "Paris has been the capital since 987.",
				"difficulty": 1
			},
			{
				"question": "Which river runs through Paris?",
				"options": {"A": "Seine", "B": "Loire", "C": "Rhone", "D": "Garonne"},
				"answer": "A",
				"explanation": "The Seine crosses the city east to west.",
				"difficulty": 2
			}
		],
		"subjective_questions": [
			{
				"question": "Explain the role of the Seine in the growth of Paris.",
				"sample_answer": "The river enabled trade and defense.",
				"keywords": ["trade", "defense"],
				"difficulty": 2
			}
		],
		"total_questions": 3
	},
	"extracted_text_preview": "Paris is the capital...",
	"total_characters": 3200,
	"difficulty_level": 1
}`

func TestGenerateQuestions(t *testing.T) {
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/generate-from-pdf", r.URL.Path)
		gotContentType = r.Header.Get("Content-Type")
		fmt.Fprint(w, validGenerateBody)
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	qs, err := c.GenerateQuestions(context.Background(), testPayload(t))
	require.NoError(t, err)

	assert.Contains(t, gotContentType, "multipart/form-data")
	require.Len(t, qs.Objective, 2)
	require.Len(t, qs.Subjective, 1)

	assert.Equal(t, "mcq-1", qs.Objective[0].ID)
	assert.Equal(t, "B", qs.Objective[0].CorrectKey)
	assert.Equal(t, "Paris", qs.Objective[0].Choices["B"])
	assert.Equal(t, "mcq-2", qs.Objective[1].ID)
	assert.Equal(t, "subj-1", qs.Subjective[0].ID)
	assert.Equal(t, []string{"trade", "defense"}, qs.Subjective[0].Keywords)
	assert.Equal(t, 3200, qs.SourceCharCount)
	assert.Equal(t, 1, qs.DifficultyLevel)
	assert.Equal(t, 3, qs.TotalQuestions())
}

func TestGenerateQuestions_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	_, err := c.GenerateQuestions(context.Background(), testPayload(t))

	var se *ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Status)
	assert.True(t, IsRemoteFailure(err))
}

func TestGenerateQuestions_InBandErrorBodyRejected(t *testing.T) {
	// The generation service reports some failures inside a 200 body.
	// Those must fail schema validation, never half-parse.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error": "JSON parsing failed", "mcq_raw": "..."}`)
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	_, err := c.GenerateQuestions(context.Background(), testPayload(t))

	var me *MalformedResponse
	require.ErrorAs(t, err, &me)
}

func TestGenerateQuestions_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"questions": `)
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	_, err := c.GenerateQuestions(context.Background(), testPayload(t))

	var me *MalformedResponse
	require.ErrorAs(t, err, &me)
}

func TestGenerateQuestions_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused

	c := NewHTTPClient(Config{BaseURL: srv.URL, Timeout: time.Second})
	_, err := c.GenerateQuestions(context.Background(), testPayload(t))

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.True(t, IsRemoteFailure(err))
}

func TestLevels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/levels", r.URL.Path)
		fmt.Fprint(w, `{
			"levels": [
				{"level": 1, "title": "Level 1", "difficulty": "Easy", "mcq_count": 3, "subjective_count": 1},
				{"level": 2, "title": "Level 2", "difficulty": "Easy", "mcq_count": 3, "subjective_count": 1}
			],
			"total_levels": 2
		}`)
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	levels, err := c.Levels(context.Background())
	require.NoError(t, err)
	require.Len(t, levels, 2)
	assert.Equal(t, 1, levels[0].Number)
	assert.Equal(t, "Easy", levels[0].Difficulty)
	assert.Equal(t, 3, levels[0].ObjectiveCount)
}

func TestLevels_EmptyCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"levels": [], "total_levels": 0}`)
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	_, err := c.Levels(context.Background())

	var me *MalformedResponse
	require.ErrorAs(t, err, &me)
}

func TestEvaluateSubjective(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/evaluate-subjective", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		fmt.Fprint(w, `{
			"llm_evaluation": {"overall_score": 8, "feedback": "Solid answer."},
			"similarity_score": 0.7,
			"final_score": 7.5,
			"evaluation_method": "LLM + Cosine Similarity"
		}`)
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	eval, err := c.EvaluateSubjective(context.Background(), EvaluationRequest{
		Question:        "Why is the sky blue?",
		StudentAnswer:   "Rayleigh scattering.",
		ReferenceAnswer: "Air scatters blue light more than red.",
	})
	require.NoError(t, err)
	assert.Equal(t, 7.5, eval.FinalScore)
	assert.Equal(t, "LLM + Cosine Similarity", eval.Method)
	assert.Equal(t, "Solid answer.", eval.Feedback)
}

func TestEvaluateSubjective_MissingScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"evaluation_method": "LLM Only"}`)
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	_, err := c.EvaluateSubjective(context.Background(), EvaluationRequest{Question: "q", StudentAnswer: "a"})

	var me *MalformedResponse
	require.ErrorAs(t, err, &me)
}

func TestEvaluateSubjective_ScoreOutOfRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"final_score": 14.0, "evaluation_method": "LLM Only"}`)
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	_, err := c.EvaluateSubjective(context.Background(), EvaluationRequest{Question: "q", StudentAnswer: "a"})

	var me *MalformedResponse
	require.ErrorAs(t, err, &me)
}
