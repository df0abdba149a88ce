// Package session keeps per-session driving state so acceleration and slope
// can be derived across successive raw sensor submissions. State lives for
// the process lifetime only and is an approximation aid, not a
// correctness-critical resource: concurrent updates for the same id are
// last-writer-wins.
package session

import (
	"math"
	"sync"
	"time"

	"github.com/serikch/evpredict/core/features"
	"github.com/serikch/evpredict/core/logger"
	"github.com/serikch/evpredict/core/model"
)

const (
	minElapsedS  = 0.1
	minDistanceM = 1.0
	maxSlopePct  = 20.0

	speedWindow = 10
	accelWindow = 5
	slopeWindow = 20
)

// Config bounds the store so long-running processes do not grow without
// limit.
type Config struct {
	MaxAge     time.Duration // entries idle longer than this are evicted
	MaxEntries int           // hard cap; the stalest entry is evicted first
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.MaxAge <= 0 {
		c.MaxAge = 30 * time.Minute
	}
	if c.MaxEntries <= 0 {
		c.MaxEntries = 10000
	}
}

type state struct {
	speedKmh   float64
	elevationM float64
	timestampS float64
	soc        float64
	lat, lon   float64

	speeds []float64
	accels []float64
	slopes []float64

	cumGainM   float64
	cumLossM   float64
	lastStopTS float64

	touched time.Time
}

// Store is a bounded in-memory session table.
type Store struct {
	mu       sync.Mutex
	cfg      Config
	log      logger.Logger
	sessions map[string]*state
	now      func() time.Time
}

// New creates a Store with the given bounds.
func New(cfg Config, log logger.Logger) *Store {
	cfg.SetDefaults()
	return &Store{
		cfg:      cfg,
		log:      log,
		sessions: make(map[string]*state),
		now:      time.Now,
	}
}

// Observe derives kinematics for the sample against the session's previous
// reading and then overwrites the session state. The first call for a
// session id yields zero acceleration and zero slope.
func (s *Store) Observe(id string, smp model.SensorSample) (model.Kinematics, features.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictLocked(now)

	st, ok := s.sessions[id]
	if !ok {
		st = &state{
			speedKmh:   smp.SpeedKmh,
			elevationM: smp.ElevationM(),
			timestampS: smp.Timestamp - 1,
			soc:        smp.SoC,
			lat:        smp.Latitude,
			lon:        smp.Longitude,
			lastStopTS: smp.Timestamp,
		}
		s.sessions[id] = st
	}

	elapsed := math.Max(smp.Timestamp-st.timestampS, minElapsedS)
	accel := (smp.SpeedKmh/3.6 - st.speedKmh/3.6) / elapsed

	dist := Haversine(st.lat, st.lon, smp.Latitude, smp.Longitude)
	elevDiff := smp.ElevationM() - st.elevationM

	slope := 0.0
	if dist > minDistanceM {
		slope = elevDiff / dist * 100
		slope = math.Max(-maxSlopePct, math.Min(maxSlopePct, slope))
		if elevDiff > 0 {
			st.cumGainM += elevDiff
		} else {
			st.cumLossM += -elevDiff
		}
	}

	socDelta := smp.SoC - st.soc

	if smp.SpeedKmh < 1 {
		st.lastStopTS = smp.Timestamp
	}
	timeSinceStop := math.Max(smp.Timestamp-st.lastStopTS, 0)

	st.speeds = push(st.speeds, smp.SpeedKmh, speedWindow)
	st.accels = push(st.accels, accel, accelWindow)
	st.slopes = push(st.slopes, slope, slopeWindow)

	st.speedKmh = smp.SpeedKmh
	st.elevationM = smp.ElevationM()
	st.timestampS = smp.Timestamp
	st.soc = smp.SoC
	st.lat, st.lon = smp.Latitude, smp.Longitude
	st.touched = now

	snap := features.Snapshot{
		Speeds:         clone(st.speeds),
		Accels:         clone(st.accels),
		Slopes:         clone(st.slopes),
		CumulGainM:     st.cumGainM,
		CumulLossM:     st.cumLossM,
		TimeSinceStopS: timeSinceStop,
	}
	return model.Kinematics{
		AccelerationMps2: accel,
		SlopePercent:     slope,
		ElevationDiffM:   elevDiff,
		SoCDelta:         socDelta,
		ElapsedS:         elapsed,
	}, snap
}

// Delete removes the session state. Deleting an unknown id is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// evictLocked drops idle entries and enforces the entry cap.
func (s *Store) evictLocked(now time.Time) {
	for id, st := range s.sessions {
		if now.Sub(st.touched) > s.cfg.MaxAge {
			delete(s.sessions, id)
		}
	}
	for len(s.sessions) >= s.cfg.MaxEntries {
		oldestID := ""
		var oldest time.Time
		for id, st := range s.sessions {
			if oldestID == "" || st.touched.Before(oldest) {
				oldestID, oldest = id, st.touched
			}
		}
		if oldestID == "" {
			return
		}
		s.log.Warnf("session cap reached, evicting %s", oldestID)
		delete(s.sessions, oldestID)
	}
}

func push(window []float64, v float64, max int) []float64 {
	window = append(window, v)
	if len(window) > max {
		window = window[len(window)-max:]
	}
	return window
}

func clone(in []float64) []float64 {
	out := make([]float64, len(in))
	copy(out, in)
	return out
}
