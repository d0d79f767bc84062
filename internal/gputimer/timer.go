// internal/gputimer/timer.go
// Package gputimer measures true GPU execution time per frame using a paired
// start/end device timestamp query. Wall-clock timing is unreliable under
// frame pipelining, so the harness brackets each submission with two
// timestamp writes and reads them back only after the GPU has fully drained.
package gputimer

import (
	"errors"

	"github.com/mwiater/aquabench/internal/logging"
)

// ErrNotReady is returned by TimestampQuery.Results when the device reports
// the query values are not yet available. Under the drain-before-read
// contract this indicates a caller bug, not a transient condition.
var ErrNotReady = errors.New("gputimer: timestamp results not ready")

// Device is the capability surface the host renderer exposes for GPU timing.
type Device interface {
	// TimestampsSupported reports whether the device can write timestamps.
	TimestampsSupported() bool
	// TimestampPeriodNs returns the device constant converting raw timestamp
	// ticks to nanoseconds.
	TimestampPeriodNs() float64
	// NewTimestampQuery allocates a paired start/end timestamp query.
	NewTimestampQuery() (TimestampQuery, error)
}

// TimestampQuery records timestamp commands into the device's command stream
// and reads the written values back after the work completes.
type TimestampQuery interface {
	// CmdReset records a reset of both query slots. Must precede the writes
	// in the same command stream.
	CmdReset()
	// CmdWriteStart records the start timestamp write.
	CmdWriteStart()
	// CmdWriteEnd records the end timestamp write.
	CmdWriteEnd()
	// Results returns the raw start and end tick values. Only valid after the
	// device has fully drained the bracketed submission; a device that has
	// not finished returns ErrNotReady.
	Results() (startTicks, endTicks uint64, err error)
}

// state is the per-frame protocol position of the timer.
//
// Three independent booleans would make invalid combinations such as
// end-written-without-start representable; the enumerated state cannot
// express them.
type state int

const (
	stateNeedsReset state = iota
	stateResetDone
	stateStartWritten
	stateEndWritten
)

// Timer enforces the reset -> start -> end -> read protocol for one frame at
// a time. Out-of-order calls are silently skipped so that a half-bracketed
// frame can never corrupt the previous frame's valid reading.
type Timer struct {
	query        TimestampQuery
	tickPeriodNs float64
	state        state
	lastGPUMs    float64
}

// New creates a Timer backed by dev's timestamp facility. If timestamps are
// unsupported or the query cannot be created, the timer permanently degrades
// to reporting 0 ms for every frame; this is logged once and is not fatal.
func New(dev Device) *Timer {
	t := &Timer{state: stateNeedsReset}
	if dev == nil || !dev.TimestampsSupported() {
		logging.LogEvent("[GPUTimer] Device timestamps unavailable, GPU time will be reported as 0")
		return t
	}
	q, err := dev.NewTimestampQuery()
	if err != nil {
		logging.LogEvent("[GPUTimer] Failed to create timestamp query, GPU time will be reported as 0: %v", err)
		return t
	}
	t.query = q
	t.tickPeriodNs = dev.TimestampPeriodNs()
	logging.LogEvent("[GPUTimer] Initialized, timestamp period: %v ns", t.tickPeriodNs)
	return t
}

// Degraded reports whether the timestamp facility is unavailable. In degraded
// mode GPU time is 0 and CPU time equals the full frame time.
func (t *Timer) Degraded() bool { return t.query == nil }

// ResetForFrame records the query reset for this frame's command stream and
// arms the timer for a start write. Must be called before either write.
func (t *Timer) ResetForFrame() {
	if t.query == nil {
		return
	}
	t.query.CmdReset()
	t.state = stateResetDone
}

// WriteStart records the start timestamp. Skipped unless ResetForFrame was
// called this generation.
func (t *Timer) WriteStart() {
	if t.query == nil || t.state != stateResetDone {
		return
	}
	t.query.CmdWriteStart()
	t.state = stateStartWritten
}

// WriteEnd records the end timestamp. Skipped unless WriteStart succeeded
// this generation, so an end-without-start pair is never readable.
func (t *Timer) WriteEnd() {
	if t.query == nil || t.state != stateStartWritten {
		return
	}
	t.query.CmdWriteEnd()
	t.state = stateEndWritten
}

// ReadBack converts the written timestamp pair to milliseconds and returns
// the result. It must only be called after the caller has fully drained the
// GPU for this submission.
//
// If the pair was not fully written this frame, or the device reports an
// invalid pair (end <= start) or a failure, the previous value is retained
// rather than zeroed so aggregated statistics are not biased by spurious
// zeros.
func (t *Timer) ReadBack() float64 {
	if t.query == nil {
		return 0
	}
	if t.state != stateEndWritten {
		t.state = stateNeedsReset
		return t.lastGPUMs
	}
	t.state = stateNeedsReset

	start, end, err := t.query.Results()
	if err != nil {
		if errors.Is(err, ErrNotReady) {
			// The read is defined to be post-drain; not-ready means the
			// caller broke the contract.
			logging.LogEvent("[GPUTimer] Results not ready after drain, keeping previous value")
		} else {
			logging.LogEvent("[GPUTimer] Timestamp readback failed, keeping previous value: %v", err)
		}
		return t.lastGPUMs
	}
	if end <= start {
		logging.LogEvent("[GPUTimer] Invalid timestamps (end <= start), keeping previous value")
		return t.lastGPUMs
	}

	t.lastGPUMs = float64(end-start) * t.tickPeriodNs / 1e6
	return t.lastGPUMs
}

// LastGPUTimeMs returns the most recently computed GPU time.
func (t *Timer) LastGPUTimeMs() float64 { return t.lastGPUMs }

// ResetRun clears the protocol state and the retained reading at the start of
// a new test run so one run's last frame cannot leak into the next.
func (t *Timer) ResetRun() {
	t.state = stateNeedsReset
	t.lastGPUMs = 0
}
