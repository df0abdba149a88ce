// Package artifact acquires the trained regressor: it lazily downloads the
// artifact into a local cache, deserializes it, and serves predictions from
// a process-wide in-memory instance. Every failure mode degrades to "no
// model available" so the caller can fall back to physics.
package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/serikch/evpredict/auth"
	"github.com/serikch/evpredict/core/features"
	"github.com/serikch/evpredict/core/logger"
	"github.com/serikch/evpredict/core/monitoring"
	"github.com/serikch/evpredict/core/regressor"
)

// Config locates the artifact. The URL can be overridden with the MODEL_URL
// environment variable. Auth is only needed for registries that protect
// their downloads.
type Config struct {
	URL              string     `json:"url"`
	CachePath        string     `json:"cache_path"`
	DownloadTimeoutS int        `json:"download_timeout_seconds"`
	Auth             *auth.Conf `json:"auth,omitempty"`
}

// SetDefaults applies sane defaults and the MODEL_URL override.
func (c *Config) SetDefaults() {
	if c.URL == "" {
		c.URL = "https://github.com/serikch/ev-prediction-app/releases/download/v1.0.0/model.json"
	}
	if v := os.Getenv("MODEL_URL"); v != "" {
		c.URL = v
	}
	if c.CachePath == "" {
		c.CachePath = filepath.Join("ml_models", "model.json")
	}
	if c.DownloadTimeoutS <= 0 {
		c.DownloadTimeoutS = 300
	}
}

// Metadata describes the loaded artifact for the model-info endpoint.
type Metadata struct {
	Loaded       bool     `json:"loaded"`
	FeatureCount int      `json:"feature_count"`
	FeatureNames []string `json:"feature_names,omitempty"`
	R2           *float64 `json:"r2,omitempty"`
	MAE          *float64 `json:"mae,omitempty"`
	VehicleType  string   `json:"vehicle_type,omitempty"`
}

// container is the rich artifact form: the model plus training metadata. The
// bare form is the model object alone.
type container struct {
	Model       json.RawMessage `json:"model"`
	Features    []string        `json:"features"`
	R2          *float64        `json:"r2"`
	MAE         *float64        `json:"mae"`
	VehicleType string          `json:"vehicle_type"`
}

// Loader owns the trained-model singleton. Loading is idempotent: once a
// model is in memory it is never reloaded or re-downloaded; while no model is
// loaded every call retries.
type Loader struct {
	cfg    Config
	log    logger.Logger
	mon    monitoring.Monitor
	client *http.Client

	mu    sync.Mutex
	model regressor.Regressor
	meta  Metadata

	creds *auth.ClientCred
}

// NewLoader creates a Loader. mon may be nil.
func NewLoader(cfg Config, log logger.Logger, mon monitoring.Monitor) *Loader {
	cfg.SetDefaults()
	if mon == nil {
		mon = monitoring.NopMonitor{}
	}
	l := &Loader{
		cfg:    cfg,
		log:    log,
		mon:    mon,
		client: &http.Client{Timeout: time.Duration(cfg.DownloadTimeoutS) * time.Second},
	}
	if cfg.Auth.Enabled() {
		l.creds = auth.NewClientCred(cfg.Auth)
	}
	return l
}

// EnsureLoaded makes sure the model is in memory, downloading and decoding
// the artifact if needed. It reports whether a model is available and never
// returns an error: unavailability is an expected state.
func (l *Loader) EnsureLoaded(ctx context.Context) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.model != nil {
		return true
	}

	if _, err := os.Stat(l.cfg.CachePath); err != nil {
		l.log.Infof("model artifact not cached, downloading from %s", l.cfg.URL)
		if err := l.download(ctx); err != nil {
			l.log.Warnf("model download failed: %v", err)
			l.mon.CaptureException(err, map[string]string{"stage": "download"})
			return false
		}
	}

	data, err := os.ReadFile(l.cfg.CachePath)
	if err != nil {
		l.log.Warnf("model artifact unreadable: %v", err)
		return false
	}
	model, meta, err := decode(data)
	if err != nil {
		l.log.Warnf("model artifact decode failed: %v", err)
		l.mon.CaptureException(err, map[string]string{"stage": "decode"})
		return false
	}
	l.model = model
	l.meta = meta
	l.log.Infof("model loaded: %d features, vehicle=%q", meta.FeatureCount, meta.VehicleType)
	if meta.R2 != nil && meta.MAE != nil {
		l.log.Infof("model quality: r2=%.3f mae=%.2f kW", *meta.R2, *meta.MAE)
	}
	return true
}

// Predict converts the named feature map into the model's expected ordered
// vector and runs a single-row prediction. It reports false when no model is
// available or inference failed; that failure is per-request, not sticky.
func (l *Loader) Predict(featureMap map[string]any) (float64, bool) {
	if !l.EnsureLoaded(context.Background()) {
		return 0, false
	}
	l.mu.Lock()
	model := l.model
	l.mu.Unlock()

	expected := features.Order
	if fn, ok := model.(regressor.FeatureNamer); ok && len(fn.FeatureNames()) > 0 {
		expected = fn.FeatureNames()
	}
	vec, missing := features.Vectorize(expected, featureMap)
	if len(missing) > 0 && len(missing) <= 5 {
		l.log.Debugf("features substituted with 0: %v", missing)
	}

	p, err := model.Predict(vec)
	if err != nil {
		l.log.Errorf("model inference failed: %v", err)
		l.mon.CaptureException(err, map[string]string{"stage": "inference"})
		return 0, false
	}
	if math.IsNaN(p) || math.IsInf(p, 0) {
		l.log.Errorf("model produced non-finite prediction")
		return 0, false
	}
	return p, true
}

// Metadata reports the current load state for the model-info endpoint.
func (l *Loader) Metadata() Metadata {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.meta
}

// download streams the artifact to the cache path, creating directories as
// needed. A temp file plus rename keeps a concurrent double download
// harmless.
func (l *Loader) download(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if l.creds != nil {
		if err := l.creds.SetAuthHeader(req); err != nil {
			return fmt.Errorf("authenticate: %w", err)
		}
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch artifact: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("fetch artifact: unexpected status %s", resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(l.cfg.CachePath), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(l.cfg.CachePath), "model-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), l.cfg.CachePath); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("install artifact: %w", err)
	}
	return nil
}

// decode resolves the container-or-bare artifact union into a compiled
// regressor plus metadata.
func decode(data []byte) (regressor.Regressor, Metadata, error) {
	var c container
	if err := json.Unmarshal(data, &c); err == nil && len(c.Model) > 0 {
		m, err := decodeModel(c.Model, c.Features)
		if err != nil {
			return nil, Metadata{}, err
		}
		return m, metadataFor(m, c), nil
	}
	m, err := decodeModel(data, nil)
	if err != nil {
		return nil, Metadata{}, err
	}
	return m, metadataFor(m, container{}), nil
}

func decodeModel(raw json.RawMessage, containerFeatures []string) (regressor.Regressor, error) {
	var kind struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &kind); err != nil {
		return nil, fmt.Errorf("decode model envelope: %w", err)
	}
	switch kind.Type {
	case "", "linear":
		var lm regressor.LinearModel
		if err := json.Unmarshal(raw, &lm); err != nil {
			return nil, fmt.Errorf("decode linear model: %w", err)
		}
		if len(lm.Features) == 0 {
			lm.Features = containerFeatures
		}
		if err := lm.Compile(features.Order); err != nil {
			return nil, err
		}
		return &lm, nil
	default:
		return nil, fmt.Errorf("unsupported model type %q", kind.Type)
	}
}

func metadataFor(m regressor.Regressor, c container) Metadata {
	meta := Metadata{
		Loaded:      true,
		R2:          c.R2,
		MAE:         c.MAE,
		VehicleType: c.VehicleType,
	}
	if fn, ok := m.(regressor.FeatureNamer); ok {
		meta.FeatureNames = fn.FeatureNames()
	}
	meta.FeatureCount = len(meta.FeatureNames)
	return meta
}
