// Package monitoring abstracts error reporting so the core never depends on
// a concrete vendor SDK.
package monitoring

import "time"

// Monitor captures exceptions for out-of-band alerting.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	Flush(timeout time.Duration)
}

// NopMonitor drops everything.
type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Flush(time.Duration)                       {}
