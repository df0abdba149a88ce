package test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serikch/evpredict/app"
	"github.com/serikch/evpredict/config"
	"github.com/serikch/evpredict/core/model"
)

// artifact with weights only on features the requests below provide, so the
// ML path produces a deterministic figure.
const linearArtifact = `{
  "model": {
    "type": "linear",
    "intercept": 2.0,
    "weights": {"speed_kmh": 0.1, "slope": 1.5},
    "features": ["speed_kmh", "slope"]
  },
  "features": ["speed_kmh", "slope"],
  "r2": 0.91,
  "mae": 1.7,
  "vehicle_type": "BEV2"
}`

func newService(t *testing.T, cachePath string) *app.Service {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Model.CachePath = cachePath
	cfg.Model.URL = "http://127.0.0.1:1/model.json"
	cfg.Model.DownloadTimeoutS = 1

	svc, err := app.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestService_HealthAndRoot(t *testing.T) {
	svc := newService(t, filepath.Join(t.TempDir(), "model.json"))
	h := svc.Handler()

	rr := do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var root map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &root))
	assert.Equal(t, "running", root["status"])
}

func TestService_PredictFallsBackWithoutArtifact(t *testing.T) {
	svc := newService(t, filepath.Join(t.TempDir(), "model.json"))
	h := svc.Handler()

	rr := do(t, h, http.MethodPost, "/api/predict", `{
		"vehicle_type": "BEV1",
		"features": {"speed_kmh": 90, "slope": 1}
	}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var res struct {
		ModelUsed      string  `json:"model_used"`
		Confidence     float64 `json:"confidence"`
		BatteryPowerKW float64 `json:"battery_power_kw"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, model.ModelPhysics, res.ModelUsed)
	assert.Equal(t, 0.75, res.Confidence)
	assert.NotZero(t, res.BatteryPowerKW)
}

func TestService_PredictUsesCachedArtifact(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(cachePath, []byte(linearArtifact), 0o600))
	svc := newService(t, cachePath)
	h := svc.Handler()

	rr := do(t, h, http.MethodPost, "/api/predict", `{
		"features": {"speed_kmh": 100, "slope": 2}
	}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var res struct {
		ModelUsed      string  `json:"model_used"`
		Confidence     float64 `json:"confidence"`
		BatteryPowerKW float64 `json:"battery_power_kw"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, model.ModelML, res.ModelUsed)
	assert.Equal(t, 0.92, res.Confidence)
	// 2.0 + 0.1*100 + 1.5*2
	assert.InDelta(t, 15.0, res.BatteryPowerKW, 1e-9)

	rr = do(t, h, http.MethodGet, "/api/predict/models", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var info struct {
		TrainedModel struct {
			Loaded       bool    `json:"loaded"`
			FeatureCount int     `json:"feature_count"`
			R2           float64 `json:"r2"`
		} `json:"trained_model"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	assert.True(t, info.TrainedModel.Loaded)
	assert.Equal(t, 2, info.TrainedModel.FeatureCount)
	assert.Equal(t, 0.91, info.TrainedModel.R2)
}

func TestService_SessionLifecycleOverHTTP(t *testing.T) {
	svc := newService(t, filepath.Join(t.TempDir(), "model.json"))
	h := svc.Handler()

	body1 := `{"current_data": {"speed_kmh": 50, "latitude": 45, "longitude": 5, "timestamp": 1000, "soc": 80}}`
	body2 := `{"current_data": {"speed_kmh": 70, "latitude": 45, "longitude": 5, "timestamp": 1002, "soc": 80}}`

	rr := do(t, h, http.MethodPost, "/api/predict?session_id=trip", body1)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = do(t, h, http.MethodPost, "/api/predict?session_id=trip", body2)
	require.Equal(t, http.StatusOK, rr.Code)

	var res struct {
		FeaturesUsed map[string]float64 `json:"features_used"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	// (70-50) km/h over 2 s
	assert.InDelta(t, 20.0/3.6/2.0, res.FeaturesUsed["acceleration"], 1e-9)

	rr = do(t, h, http.MethodDelete, "/api/predict/session/trip", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"cleared"}`, rr.Body.String())
}

func TestService_CORSPreflight(t *testing.T) {
	svc := newService(t, filepath.Join(t.TempDir(), "model.json"))
	rr := do(t, svc.Handler(), http.MethodOptions, "/api/predict", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
