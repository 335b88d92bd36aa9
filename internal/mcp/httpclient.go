package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/fitstreak/internal/history"
	"github.com/claude/fitstreak/internal/models"
	"github.com/claude/fitstreak/internal/recovery"
	"github.com/claude/fitstreak/internal/tracker"
)

// HTTPClient implements DataSource by calling the FitStreak REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale). The server
// identifies the caller, so userID arguments are ignored.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, v any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return fmt.Errorf("httpclient: %s: %w", path, tracker.ErrNotFound)
	default:
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

// rangeParams converts a half-open [from, to) window into the API's
// inclusive start/end query.
func rangeParams(from, to string) (url.Values, error) {
	v := url.Values{}
	if from != "" {
		v.Set("start", from)
	}
	if to != "" {
		t, err := time.Parse(models.DateLayout, to)
		if err != nil {
			return nil, fmt.Errorf("httpclient: bad range end %q: %w", to, err)
		}
		v.Set("end", t.AddDate(0, 0, -1).Format(models.DateLayout))
	}
	return v, nil
}

func (c *HTTPClient) PersonalRecords(ctx context.Context, _ string) (map[string]float64, error) {
	var prs map[string]float64
	if err := c.get(ctx, "/api/v1/records", nil, &prs); err != nil {
		return nil, err
	}
	return prs, nil
}

func (c *HTTPClient) EstimatedMaxes(ctx context.Context, _ string) (map[string]int, error) {
	var maxes map[string]int
	if err := c.get(ctx, "/api/v1/estimates", nil, &maxes); err != nil {
		return nil, err
	}
	return maxes, nil
}

func (c *HTTPClient) ExerciseSeries(ctx context.Context, _ string, exercise, from, to string) ([]history.SeriesPoint, error) {
	params, err := rangeParams(from, to)
	if err != nil {
		return nil, err
	}
	params.Set("exercise", exercise)

	var points []history.SeriesPoint
	if err := c.get(ctx, "/api/v1/series", params, &points); err != nil {
		return nil, err
	}
	return points, nil
}

func (c *HTTPClient) RecoveryStatus(ctx context.Context, _ string) ([]recovery.GroupStatus, error) {
	var status []recovery.GroupStatus
	if err := c.get(ctx, "/api/v1/recovery", nil, &status); err != nil {
		return nil, err
	}
	return status, nil
}

func (c *HTTPClient) ListSessions(ctx context.Context, _ string, from, to string) ([]models.WorkoutSession, error) {
	params, err := rangeParams(from, to)
	if err != nil {
		return nil, err
	}

	var sessions []models.WorkoutSession
	if err := c.get(ctx, "/api/v1/sessions", params, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (c *HTTPClient) CatalogEntries(ctx context.Context, group string) ([]models.ExerciseMeta, error) {
	params := url.Values{}
	if group != "" {
		params.Set("group", group)
	}

	var entries []models.ExerciseMeta
	if err := c.get(ctx, "/api/v1/catalog", params, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *HTTPClient) CatalogEntry(ctx context.Context, name string) (models.ExerciseMeta, error) {
	var meta models.ExerciseMeta
	if err := c.get(ctx, "/api/v1/catalog/"+url.PathEscape(name), nil, &meta); err != nil {
		return models.ExerciseMeta{}, err
	}
	return meta, nil
}
