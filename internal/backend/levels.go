package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const opLevels = "fetch-levels"

func (c *HTTPClient) Levels(ctx context.Context) ([]Level, error) {
	url := c.baseURL + "/levels"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: opLevels, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: opLevels, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServerError{Op: opLevels, Status: resp.StatusCode, Body: bodySnippet(body)}
	}

	var wire struct {
		Levels      []Level `json:"levels"`
		TotalLevels int     `json:"total_levels"`
	}
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, &MalformedResponse{Op: opLevels, Err: err}
	}
	if len(wire.Levels) == 0 {
		return nil, &MalformedResponse{Op: opLevels, Err: fmt.Errorf("empty level catalog")}
	}

	return wire.Levels, nil
}
