package mcp

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

	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/refresh"
	"github.com/claude/ironlog/internal/storage"
	"github.com/google/uuid"
)

// HTTPClient implements DataSource by calling the IronLog REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but data
// lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time checks: HTTPClient serves both the MCP tools and the
// Refresher.
var (
	_ DataSource     = (*HTTPClient)(nil)
	_ refresh.Source = (*HTTPClient)(nil)
)

// NewHTTPClient creates an HTTPClient targeting the given base URL. apiKey
// is required for the mutating endpoints.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, body any) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("httpclient: encode body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("httpclient: %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return data, nil
}

// QuerySets retrieves sets in a time range via GET /api/v1/sets.
func (c *HTTPClient) QuerySets(ctx context.Context, start, end time.Time) ([]models.SetLog, error) {
	params := url.Values{}
	params.Set("start", start.Format(time.RFC3339))
	params.Set("end", end.Format(time.RFC3339))

	data, err := c.do(ctx, http.MethodGet, "/api/v1/sets", params, nil)
	if err != nil {
		return nil, err
	}

	var sets []models.SetLog
	if err := json.Unmarshal(data, &sets); err != nil {
		return nil, fmt.Errorf("httpclient: decode sets: %w", err)
	}
	return sets, nil
}

// RecentSets approximates the local query by fetching the last 14 days and
// truncating.
func (c *HTTPClient) RecentSets(ctx context.Context, limit int) ([]models.SetLog, error) {
	end := time.Now()
	sets, err := c.QuerySets(ctx, end.AddDate(0, 0, -14), end)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(sets) > limit {
		sets = sets[:limit]
	}
	return sets, nil
}

// InsertSets posts each set to POST /api/v1/sets.
func (c *HTTPClient) InsertSets(ctx context.Context, sets []models.SetLog) (int64, error) {
	var inserted int64
	for _, s := range sets {
		payload := map[string]any{
			"exercise":     s.Exercise,
			"muscles":      s.Muscles,
			"performed_at": s.PerformedAt,
			"weight_kg":    s.WeightKg,
			"reps":         s.Reps,
		}
		if s.RIR != nil {
			payload["rir"] = *s.RIR
		}
		if _, err := c.do(ctx, http.MethodPost, "/api/v1/sets", nil, payload); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

// DeleteSet calls DELETE /api/v1/sets/{id}.
func (c *HTTPClient) DeleteSet(ctx context.Context, id uuid.UUID) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/v1/sets/"+id.String(), nil, nil)
	return err
}

// GetDataStats calls GET /api/v1/stats.
func (c *HTTPClient) GetDataStats(ctx context.Context) (*storage.DataStats, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/v1/stats", nil, nil)
	if err != nil {
		return nil, err
	}
	var stats storage.DataStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("httpclient: decode stats: %w", err)
	}
	return &stats, nil
}

// GetSettings calls GET /api/v1/settings, letting the Refresher resolve
// thresholds and windows from the remote server's settings.
func (c *HTTPClient) GetSettings(ctx context.Context) (*storage.Settings, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/v1/settings", nil, nil)
	if err != nil {
		return nil, err
	}
	var s storage.Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("httpclient: decode settings: %w", err)
	}
	return &s, nil
}
