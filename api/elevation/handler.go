// Package elevation exposes the elevation proxy endpoints.
package elevation

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/serikch/evpredict/core/logger"
	"github.com/serikch/evpredict/core/session"
	"github.com/serikch/evpredict/infra/elevation"
)

type batchRequest struct {
	Points []elevation.Point `json:"points"`
}

type resolvedPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation"`
}

type batchResponse struct {
	Points []resolvedPoint `json:"points"`
	Source string          `json:"source"`
}

const source = "eudem25m"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func validPoints(points []elevation.Point) string {
	for _, p := range points {
		if p.Latitude < -90 || p.Latitude > 90 {
			return "latitude out of range"
		}
		if p.Longitude < -180 || p.Longitude > 180 {
			return "longitude out of range"
		}
	}
	return ""
}

// NewSingleHandler returns GET /api/elevation/single?latitude=..&longitude=..
// Unlike the batch endpoint it surfaces upstream failure as 503.
func NewSingleHandler(client *elevation.Client, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lat, errLat := strconv.ParseFloat(r.URL.Query().Get("latitude"), 64)
		lon, errLon := strconv.ParseFloat(r.URL.Query().Get("longitude"), 64)
		if errLat != nil || errLon != nil {
			writeError(w, http.StatusUnprocessableEntity, "latitude and longitude are required")
			return
		}
		p := elevation.Point{Latitude: lat, Longitude: lon}
		if msg := validPoints([]elevation.Point{p}); msg != "" {
			writeError(w, http.StatusUnprocessableEntity, msg)
			return
		}
		elev, err := client.Single(r.Context(), p)
		if err != nil {
			log.Warnf("single elevation lookup: %v", err)
			writeError(w, http.StatusServiceUnavailable, "elevation service unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"latitude":  lat,
			"longitude": lon,
			"elevation": elev,
			"source":    source,
		})
	})
}

// NewBatchHandler returns POST /api/elevation. Upstream failure degrades to
// zero elevations, never an error.
func NewBatchHandler(client *elevation.Client) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req batchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid JSON body")
			return
		}
		if len(req.Points) == 0 {
			writeError(w, http.StatusUnprocessableEntity, "at least one point is required")
			return
		}
		if len(req.Points) > elevation.MaxPointsPerCall {
			writeError(w, http.StatusBadRequest, "maximum 100 points")
			return
		}
		if msg := validPoints(req.Points); msg != "" {
			writeError(w, http.StatusUnprocessableEntity, msg)
			return
		}
		elevs, err := client.Lookup(r.Context(), req.Points)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, buildResponse(req.Points, elevs))
	})
}

// NewSlopeHandler returns POST /api/elevation/with-slope: elevations plus the
// grade between consecutive points, clamped like the session derivation.
func NewSlopeHandler(client *elevation.Client) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var points []elevation.Point
		if err := json.NewDecoder(r.Body).Decode(&points); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid JSON body")
			return
		}
		if len(points) < 2 {
			writeError(w, http.StatusBadRequest, "need at least 2 points")
			return
		}
		if len(points) > elevation.MaxPointsPerCall {
			writeError(w, http.StatusBadRequest, "maximum 100 points")
			return
		}
		if msg := validPoints(points); msg != "" {
			writeError(w, http.StatusUnprocessableEntity, msg)
			return
		}
		elevs, err := client.Lookup(r.Context(), points)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		type slopedPoint struct {
			resolvedPoint
			Slope float64 `json:"slope"`
		}
		out := make([]slopedPoint, len(points))
		for i, p := range points {
			sp := slopedPoint{resolvedPoint: resolvedPoint{Latitude: p.Latitude, Longitude: p.Longitude, Elevation: elevs[i]}}
			if i > 0 {
				dist := session.Haversine(points[i-1].Latitude, points[i-1].Longitude, p.Latitude, p.Longitude)
				if dist > 1 {
					slope := (elevs[i] - elevs[i-1]) / dist * 100
					if slope > 20 {
						slope = 20
					} else if slope < -20 {
						slope = -20
					}
					sp.Slope = slope
				}
			}
			out[i] = sp
		}
		writeJSON(w, http.StatusOK, map[string]any{"points": out, "source": source})
	})
}

func buildResponse(points []elevation.Point, elevs []float64) batchResponse {
	out := batchResponse{Points: make([]resolvedPoint, len(points)), Source: source}
	for i, p := range points {
		out.Points[i] = resolvedPoint{Latitude: p.Latitude, Longitude: p.Longitude, Elevation: elevs[i]}
	}
	return out
}
