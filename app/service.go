// Package app wires the prediction engine, HTTP API and connectors together.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	apielevation "github.com/serikch/evpredict/api/elevation"
	apiprediction "github.com/serikch/evpredict/api/prediction"
	"github.com/serikch/evpredict/config"
	coremetrics "github.com/serikch/evpredict/core/metrics"
	coremon "github.com/serikch/evpredict/core/monitoring"
	"github.com/serikch/evpredict/core/predict"
	predlog "github.com/serikch/evpredict/core/predict/logging"
	"github.com/serikch/evpredict/core/recommend"
	"github.com/serikch/evpredict/core/session"
	"github.com/serikch/evpredict/infra/artifact"
	"github.com/serikch/evpredict/infra/elevation"
	"github.com/serikch/evpredict/infra/logger"
	"github.com/serikch/evpredict/infra/metrics"
	"github.com/serikch/evpredict/infra/monitoring"
	"github.com/serikch/evpredict/infra/mqtt"
	"github.com/serikch/evpredict/internal/eventbus"

	"github.com/prometheus/client_golang/prometheus"
)

const apiVersion = "1.0.0"

// Service orchestrates the prediction engine, HTTP server and the optional
// MQTT telemetry connector.
type Service struct {
	Engine *predict.Engine
	Loader *artifact.Loader

	cfg       *config.Config
	log       logger.Logger
	mon       coremon.Monitor
	bus       *eventbus.Bus[predict.Event]
	srv       *http.Server
	connector *mqtt.Connector
	audit     predlog.LogStore
	recorder  *predlog.Recorder
}

func newAuditStore(cfg config.AuditConfig) (predlog.LogStore, error) {
	switch cfg.Backend {
	case "jsonl":
		return predlog.NewJSONLStore(cfg.Path)
	case "rotating":
		return predlog.NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	case "sqlite":
		return predlog.NewSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown audit backend %q", cfg.Backend)
	}
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}

	var sinks []coremetrics.PredictionSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(prometheus.DefaultRegisterer)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.PredictionSink
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	loader := artifact.NewLoader(cfg.Model, logger.New("model-loader"), mon)
	store := session.New(cfg.Sessions.Store(), logger.New("sessions"))
	bus := eventbus.New[predict.Event]()
	engine := predict.New(loader, store, recommend.New(cfg.Recommend), sink, bus, logger.New("predict"))
	elevClient := elevation.New(cfg.Elevation, logger.New("elevation"))

	svc := &Service{
		Engine: engine,
		Loader: loader,
		cfg:    cfg,
		log:    logg,
		mon:    mon,
		bus:    bus,
	}
	svc.srv = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      allowAll(svc.routes(elevClient)),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutS) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutS) * time.Second,
	}

	if cfg.MQTT.Enabled {
		client, err := mqtt.NewPahoClient(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
		svc.connector = mqtt.NewConnector(cfg.MQTT, client, engine, logger.New("mqtt"))
	}
	if cfg.Audit.Enabled {
		store, err := newAuditStore(cfg.Audit)
		if err != nil {
			return nil, fmt.Errorf("audit store: %w", err)
		}
		svc.audit = store
		svc.recorder = predlog.NewRecorder(store, bus, logger.New("audit"))
	}
	return svc, nil
}

func (s *Service) routes(elevClient *elevation.Client) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("POST /api/predict", apiprediction.NewPredictHandler(s.Engine, logger.New("api")))
	mux.Handle("DELETE /api/predict/session/{id}", apiprediction.NewSessionHandler(s.Engine))
	mux.Handle("GET /api/predict/models", apiprediction.NewModelsHandler(s.Loader))
	mux.Handle("GET /api/elevation/single", apielevation.NewSingleHandler(elevClient, logger.New("api")))
	mux.Handle("POST /api/elevation", apielevation.NewBatchHandler(elevClient))
	mux.Handle("POST /api/elevation/with-slope", apielevation.NewSlopeHandler(elevClient))
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "healthy"})
	})
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{
			"name":    "EV Energy Prediction API",
			"version": apiVersion,
			"status":  "running",
		})
	})
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// allowAll is a permissive CORS wrapper for browser dashboards.
func allowAll(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Handler exposes the HTTP routing tree for tests.
func (s *Service) Handler() http.Handler { return s.srv.Handler }

// Run starts the HTTP server (and the optional sidecars) and blocks until the
// context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.connector != nil {
		if err := s.connector.Start(); err != nil {
			return fmt.Errorf("mqtt connector: %w", err)
		}
	}
	if s.recorder != nil {
		s.recorder.Start(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", s.cfg.Server.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutCtx)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.connector != nil {
		s.connector.Close()
	}
	s.bus.Close()
	if s.recorder != nil {
		s.recorder.Wait()
	}
	var err error
	if s.audit != nil {
		err = s.audit.Close()
	}
	s.mon.Flush(2 * time.Second)
	return err
}
