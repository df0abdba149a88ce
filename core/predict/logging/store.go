// Package logging persists served predictions for offline analysis. Stores
// are append-only and queried by time range, session or model tag.
package logging

import (
	"context"
	"time"

	"github.com/serikch/evpredict/core/model"
)

// LogRecord captures one served prediction.
type LogRecord struct {
	Timestamp   time.Time              `json:"timestamp"`
	SessionID   string                 `json:"session_id"`
	VehicleType string                 `json:"vehicle_type"`
	Result      model.PredictionResult `json:"result"`
}

// LogQuery defines filters for retrieving records.
type LogQuery struct {
	Start     time.Time
	End       time.Time
	SessionID string
	ModelUsed string
}

func (q LogQuery) matches(r LogRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.SessionID != "" && r.SessionID != q.SessionID {
		return false
	}
	if q.ModelUsed != "" && r.Result.ModelUsed != q.ModelUsed {
		return false
	}
	return true
}

// LogStore persists LogRecords and supports querying.
type LogStore interface {
	Append(ctx context.Context, rec LogRecord) error
	Query(ctx context.Context, q LogQuery) ([]LogRecord, error)
	Close() error
}
