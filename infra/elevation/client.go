// Package elevation resolves ground elevation for GPS points through the
// opentopodata API. Failures degrade to zero elevations so the prediction
// core never sees an error from this collaborator.
package elevation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/serikch/evpredict/core/logger"
)

// MaxPointsPerCall bounds a single upstream request.
const MaxPointsPerCall = 100

// Config locates the upstream elevation dataset.
type Config struct {
	APIURL   string `json:"api_url"`
	TimeoutS int    `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.APIURL == "" {
		c.APIURL = "https://api.opentopodata.org/v1/eudem25m"
	}
	if c.TimeoutS <= 0 {
		c.TimeoutS = 30
	}
}

// Point is a GPS fix.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Client queries the upstream dataset.
type Client struct {
	cfg    Config
	client *http.Client
	log    logger.Logger
}

// New creates a Client.
func New(cfg Config, log logger.Logger) *Client {
	cfg.SetDefaults()
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutS) * time.Second},
		log:    log,
	}
}

type upstreamResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Elevation *float64 `json:"elevation"`
	} `json:"results"`
}

// Lookup resolves elevations for up to MaxPointsPerCall points. The returned
// slice always has one entry per input point; on upstream failure every point
// is zero. Only a structurally invalid request (too many points) is an error.
func (c *Client) Lookup(ctx context.Context, points []Point) ([]float64, error) {
	if len(points) == 0 {
		return nil, nil
	}
	if len(points) > MaxPointsPerCall {
		return nil, fmt.Errorf("at most %d points per call, got %d", MaxPointsPerCall, len(points))
	}
	out, err := c.fetch(ctx, points)
	if err != nil {
		c.log.Warnf("elevation lookup degraded to zeros: %v", err)
		return make([]float64, len(points)), nil
	}
	return out, nil
}

// Single resolves one point and, unlike Lookup, propagates upstream failure.
func (c *Client) Single(ctx context.Context, p Point) (float64, error) {
	out, err := c.fetch(ctx, []Point{p})
	if err != nil {
		return 0, err
	}
	return out[0], nil
}

func (c *Client) fetch(ctx context.Context, points []Point) ([]float64, error) {
	locs := make([]string, len(points))
	for i, p := range points {
		locs[i] = fmt.Sprintf("%f,%f", p.Latitude, p.Longitude)
	}
	q := url.Values{}
	q.Set("locations", strings.Join(locs, "|"))
	q.Set("interpolation", "bilinear")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.APIURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query upstream: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream status %s", resp.Status)
	}

	var body upstreamResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode upstream response: %w", err)
	}
	if body.Status != "OK" {
		return nil, fmt.Errorf("upstream reported status %q", body.Status)
	}
	out := make([]float64, len(points))
	for i := range points {
		if i < len(body.Results) && body.Results[i].Elevation != nil {
			out[i] = *body.Results[i].Elevation
		}
	}
	return out, nil
}
