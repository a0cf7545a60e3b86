package tui

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"shop-order-scheduler/internal/usecase/queries"

	"github.com/cockroachdb/errors"
)

// DefaultClientTimeout bounds every dashboard request.
const DefaultClientTimeout = 5 * time.Second

// Client reads the dashboard from a running API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultClientTimeout,
		},
	}
}

// Dashboard fetches the combined summary, status breakdown and utilization.
func (c *Client) Dashboard(ctx context.Context) (*queries.DashboardView, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/dashboard", nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch dashboard")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, errors.Newf("API error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var view queries.DashboardView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		return nil, errors.Wrap(err, "decode dashboard")
	}
	return &view, nil
}
