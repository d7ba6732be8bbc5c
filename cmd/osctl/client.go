package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// apiClient talks to the service-orders HTTP API.
type apiClient struct {
	baseURL string
	http    *http.Client
}

type apiError struct {
	Status  int
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

func (e *apiError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s (%d): %s %v", e.Code, e.Status, e.Message, e.Details)
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

func newAPIClient(baseURL string, timeout time.Duration) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// do sends a request and decodes the "data" member of the response into out.
func (c *apiClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	raw, _, err := c.raw(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return json.Unmarshal(env.Data, out)
}

// raw sends a request and returns the body as-is.
func (c *apiClient) raw(ctx context.Context, method, path string, query url.Values, body any) ([]byte, string, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, "", err
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, "", err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode >= 400 {
		apiErr := &apiError{Status: resp.StatusCode, Code: "HTTP_ERROR", Message: http.StatusText(resp.StatusCode)}
		var env struct {
			Error *apiError `json:"error"`
		}
		if json.Unmarshal(raw, &env) == nil && env.Error != nil {
			env.Error.Status = resp.StatusCode
			apiErr = env.Error
		}
		return nil, "", apiErr
	}
	return raw, resp.Header.Get("Content-Type"), nil
}

type order struct {
	ID             string     `json:"id"`
	BuildingID     string     `json:"buildingId"`
	SectorID       string     `json:"sectorId"`
	OpeningDate    time.Time  `json:"openingDate"`
	AcceptanceDate *time.Time `json:"acceptanceDate"`
	ClosingDate    *time.Time `json:"closingDate"`
	RequesterName  string     `json:"requesterName"`
	Description    string     `json:"description"`
	PriorityLabel  string     `json:"priorityLabel"`
	StatusLabel    string     `json:"statusLabel"`
	TeamID         string     `json:"teamId"`
	ProfessionalID string     `json:"professionalId"`
	AIDiagnosis    string     `json:"aiDiagnosis"`
}

type orderList struct {
	Query    string   `json:"q"`
	Status   string   `json:"status"`
	Orders   []order  `json:"orders"`
	Selected []string `json:"selected"`
}

type selection struct {
	Selected []string `json:"selected"`
}

type dashboard struct {
	Total      int            `json:"total"`
	Executed   int            `json:"executed"`
	Pending    int            `json:"pending"`
	InProgress int            `json:"inProgress"`
	ByStatus   map[string]int `json:"byStatus"`
	ByPriority map[string]int `json:"byPriority"`
}
