package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const opEvaluate = "evaluate-subjective"

func (c *HTTPClient) EvaluateSubjective(ctx context.Context, evalReq EvaluationRequest) (*Evaluation, error) {
	url := c.baseURL + "/evaluate-subjective"

	reqBody, err := json.Marshal(evalReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: opEvaluate, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: opEvaluate, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServerError{Op: opEvaluate, Status: resp.StatusCode, Body: bodySnippet(body)}
	}

	var wire struct {
		FinalScore       *float64 `json:"final_score"`
		EvaluationMethod string   `json:"evaluation_method"`
		LLMEvaluation    struct {
			Feedback string `json:"feedback"`
		} `json:"llm_evaluation"`
	}
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, &MalformedResponse{Op: opEvaluate, Err: err}
	}
	if wire.FinalScore == nil {
		return nil, &MalformedResponse{Op: opEvaluate, Err: fmt.Errorf("missing final_score")}
	}
	if *wire.FinalScore < 0 || *wire.FinalScore > 10 {
		return nil, &MalformedResponse{Op: opEvaluate, Err: fmt.Errorf("final_score %v outside [0,10]", *wire.FinalScore)}
	}

	return &Evaluation{
		FinalScore: *wire.FinalScore,
		Method:     wire.EvaluationMethod,
		Feedback:   wire.LLMEvaluation.Feedback,
	}, nil
}
