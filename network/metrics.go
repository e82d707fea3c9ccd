package network

import "sync/atomic"

// SessionMetrics counts traffic and corrections for monitoring and debugging.
// Counters are atomic so a debug endpoint may read them off the host loop.
type SessionMetrics struct {
	MessagesReceived     int64 // inbound payloads while connected
	DecodeErrors         int64 // malformed payloads dropped
	ProtocolViolations   int64 // recognised commands with bad fields dropped
	Unrecognized         int64 // unknown command tags ignored
	StaleReferences      int64 // moves/removes for ids not in the store
	MovesSent            int64
	MovesThrottled       int64 // predicted ticks whose report was coalesced
	SendFailures         int64
	CorrectionsApplied   int64 // local snaps to the authoritative position
	CorrectionsDiscarded int64 // authoritative updates absorbed by prediction
}

func (m *SessionMetrics) IncReceived()             { atomic.AddInt64(&m.MessagesReceived, 1) }
func (m *SessionMetrics) IncDecodeErrors()         { atomic.AddInt64(&m.DecodeErrors, 1) }
func (m *SessionMetrics) IncProtocolViolations()   { atomic.AddInt64(&m.ProtocolViolations, 1) }
func (m *SessionMetrics) IncUnrecognized()         { atomic.AddInt64(&m.Unrecognized, 1) }
func (m *SessionMetrics) IncStaleReferences()      { atomic.AddInt64(&m.StaleReferences, 1) }
func (m *SessionMetrics) IncMovesSent()            { atomic.AddInt64(&m.MovesSent, 1) }
func (m *SessionMetrics) IncMovesThrottled()       { atomic.AddInt64(&m.MovesThrottled, 1) }
func (m *SessionMetrics) IncSendFailures()         { atomic.AddInt64(&m.SendFailures, 1) }
func (m *SessionMetrics) IncCorrectionsApplied()   { atomic.AddInt64(&m.CorrectionsApplied, 1) }
func (m *SessionMetrics) IncCorrectionsDiscarded() { atomic.AddInt64(&m.CorrectionsDiscarded, 1) }

// Snapshot returns a read-only copy suitable for JSON output.
func (m *SessionMetrics) Snapshot() map[string]any {
	return map[string]any{
		"messages_received":     atomic.LoadInt64(&m.MessagesReceived),
		"decode_errors":         atomic.LoadInt64(&m.DecodeErrors),
		"protocol_violations":   atomic.LoadInt64(&m.ProtocolViolations),
		"unrecognized":          atomic.LoadInt64(&m.Unrecognized),
		"stale_references":      atomic.LoadInt64(&m.StaleReferences),
		"moves_sent":            atomic.LoadInt64(&m.MovesSent),
		"moves_throttled":       atomic.LoadInt64(&m.MovesThrottled),
		"send_failures":         atomic.LoadInt64(&m.SendFailures),
		"corrections_applied":   atomic.LoadInt64(&m.CorrectionsApplied),
		"corrections_discarded": atomic.LoadInt64(&m.CorrectionsDiscarded),
	}
}
