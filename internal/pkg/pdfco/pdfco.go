// Package pdfco is a minimal client for the hosted PDF.co
// document-to-text conversion API.
package pdfco

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/researchhub/core/internal/config"
)

// ErrMissingAPIKey is returned when no server credential is configured.
// Callers treat it as a fatal configuration error, never as a
// try-the-next-strategy signal.
var ErrMissingAPIKey = errors.New("pdfco: api key is not configured")

// Client calls the conversion endpoint with the server-held credential.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

func New(cfg config.PDFCoConfig) *Client {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = config.DefaultPDFCoEndpoint
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   strings.TrimSpace(cfg.APIKey),
		http:     &http.Client{Timeout: config.UpstreamTimeout},
	}
}

type convertRequest struct {
	URL    string `json:"url"`
	Inline bool   `json:"inline"`
	Async  bool   `json:"async"`
	Pages  string `json:"pages,omitempty"`
	Lang   string `json:"lang,omitempty"`
}

// convertResponse covers both upstream response shapes: inline text in
// Body, or a secondary URL the result must be fetched from.
type convertResponse struct {
	Body    string `json:"body"`
	URL     string `json:"url"`
	Error   bool   `json:"error"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// ConvertToText submits a document URL and returns the extracted text.
func (c *Client) ConvertToText(ctx context.Context, sourceURL, lang, pages string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	payload, err := json.Marshal(convertRequest{
		URL:    sourceURL,
		Inline: true,
		Async:  false,
		Pages:  pages,
		Lang:   lang,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("pdfco request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("pdfco returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed convertResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("pdfco response is not JSON: %w", err)
	}
	if parsed.Error {
		return "", fmt.Errorf("pdfco conversion error: %s", strings.TrimSpace(parsed.Message))
	}

	if text := strings.TrimSpace(parsed.Body); text != "" {
		return parsed.Body, nil
	}
	if parsed.URL != "" {
		return c.fetchResult(ctx, parsed.URL)
	}
	return "", errors.New("pdfco returned an empty result")
}

// fetchResult downloads the secondary result URL variant.
func (c *Client) fetchResult(ctx context.Context, resultURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resultURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("pdfco result fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pdfco result fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(string(body)) == "" {
		return "", errors.New("pdfco result body is empty")
	}
	return string(body), nil
}
