package elevation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serikch/evpredict/infra/logger"
)

func newClient(url string) *Client {
	return New(Config{APIURL: url, TimeoutS: 2}, logger.NopLogger{})
}

func TestLookup_ResolvesElevations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("locations"), "|")
		assert.Equal(t, "bilinear", r.URL.Query().Get("interpolation"))
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"elevation":120.5},{"elevation":130}]}`))
	}))
	defer srv.Close()

	got, err := newClient(srv.URL).Lookup(context.Background(), []Point{{45, 5}, {45.1, 5.1}})
	require.NoError(t, err)
	assert.Equal(t, []float64{120.5, 130}, got)
}

func TestLookup_UpstreamFailureYieldsZeros(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	got, err := newClient(srv.URL).Lookup(context.Background(), []Point{{45, 5}, {45.1, 5.1}})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, got)
}

func TestLookup_NullElevationYieldsZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"elevation":null},{"elevation":42}]}`))
	}))
	defer srv.Close()

	got, err := newClient(srv.URL).Lookup(context.Background(), []Point{{45, 5}, {45.1, 5.1}})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 42}, got)
}

func TestLookup_TooManyPoints(t *testing.T) {
	points := make([]Point, MaxPointsPerCall+1)
	_, err := newClient("http://127.0.0.1:1").Lookup(context.Background(), points)
	assert.Error(t, err)
}

func TestSingle_PropagatesFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).Single(context.Background(), Point{45, 5})
	assert.Error(t, err)
}

func TestSingle_ResolvesElevation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"elevation":512}]}`))
	}))
	defer srv.Close()

	got, err := newClient(srv.URL).Single(context.Background(), Point{45, 5})
	require.NoError(t, err)
	assert.Equal(t, 512.0, got)
}

func TestLookup_Empty(t *testing.T) {
	got, err := newClient("http://127.0.0.1:1").Lookup(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}
