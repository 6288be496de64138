package files

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// PageCounter reports how many pages an uploaded document has. Conversion of
// office formats to PDF happens behind this boundary; the wizard only ever
// sees the resulting integer or an error.
type PageCounter interface {
	CountPages(ctx context.Context, fileURL, mimeType string) (int, error)
}

// HTTPInspector calls the file-inspection service over HTTP.
type HTTPInspector struct {
	baseURL string
	client  *http.Client
}

func NewHTTPInspector(baseURL string) *HTTPInspector {
	return &HTTPInspector{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type inspectRequest struct {
	FileURL  string `json:"file_url"`
	MimeType string `json:"mime_type"`
}

type inspectResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	PageCount int    `json:"page_count"`
}

func (i *HTTPInspector) CountPages(ctx context.Context, fileURL, mimeType string) (int, error) {
	body, err := json.Marshal(inspectRequest{FileURL: fileURL, MimeType: mimeType})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.baseURL+"/inspect", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := i.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("file inspector unavailable: %w", err)
	}
	defer resp.Body.Close()

	var result inspectResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("invalid inspector response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !result.Success {
		msg := result.Message
		if msg == "" {
			msg = fmt.Sprintf("inspector returned status %d", resp.StatusCode)
		}
		return 0, fmt.Errorf("page count failed: %s", msg)
	}
	if result.PageCount < 1 {
		return 0, fmt.Errorf("inspector reported %d pages", result.PageCount)
	}
	return result.PageCount, nil
}
