// Package trace emits optional telemetry events describing what one
// invocation did. Tracing is off unless ADAPTIVE_CARD_TRACE=1; when off,
// the recorder is a no-op and the result carries no telemetry at all.
package trace

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/greentic-ai/cardengine/internal/canonicaljson"
)

// Domain prefixes for content hashing. The version suffix enables future
// algorithm migration.
const (
	DomainState  = "cardengine/state/v1"
	DomainResult = "cardengine/result/v1"
)

// EnvToggle is the environment variable that enables tracing.
const EnvToggle = "ADAPTIVE_CARD_TRACE"

// Event is one telemetry record. Events marshal as plain objects on the
// result's telemetryEvents array.
type Event struct {
	ID    string         `json:"id"`
	Stage string         `json:"stage"`
	At    time.Time      `json:"at"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// Recorder collects events for one invocation.
type Recorder struct {
	enabled bool
	events  []Event
	now     func() time.Time
}

// NewRecorder builds a recorder honoring the environment toggle.
func NewRecorder() *Recorder {
	return &Recorder{
		enabled: os.Getenv(EnvToggle) == "1",
		now:     time.Now,
	}
}

// NewEnabledRecorder builds a recorder that always records. Tests use this
// to observe events without touching the environment.
func NewEnabledRecorder() *Recorder {
	return &Recorder{enabled: true, now: time.Now}
}

// Enabled reports whether events are being collected.
func (r *Recorder) Enabled() bool { return r.enabled }

// Record appends one event. A nil attrs map is fine.
func (r *Recorder) Record(stage string, attrs map[string]any) {
	if !r.enabled {
		return
	}
	r.events = append(r.events, Event{
		ID:    uuid.NewString(),
		Stage: stage,
		At:    r.now().UTC(),
		Attrs: attrs,
	})
}

// Events returns the collected events as result payload values. Returns nil
// when tracing is off so the field is omitted on the wire.
func (r *Recorder) Events() []any {
	if !r.enabled || len(r.events) == 0 {
		return nil
	}
	out := make([]any, len(r.events))
	for i, e := range r.events {
		out[i] = e
	}
	return out
}

// HashState returns the domain-separated SHA-256 of a state document in
// canonical form. Used in telemetry so state transitions are comparable
// without shipping the state itself.
func HashState(state any) string {
	return hashWithDomain(DomainState, state)
}

// HashResult returns the domain-separated SHA-256 of a result document in
// canonical form. Typed results are normalized through a JSON round trip
// before hashing.
func HashResult(result any) string {
	raw, err := json.Marshal(result)
	if err != nil {
		return ""
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ""
	}
	return hashWithDomain(DomainResult, doc)
}

// hashWithDomain computes SHA256(domain + 0x00 + canonical(v)). The null
// byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, v any) string {
	raw, err := canonicaljson.Marshal(v)
	if err != nil {
		return ""
	}
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(raw)
	return hex.EncodeToString(h.Sum(nil))
}
