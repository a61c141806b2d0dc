// Package audit provides a tamper-evident audit trail for signing operations.
//
// Audit logs are separate from technical logs. Each event is a JSON line
// whose hash covers the previous event's hash, so any edit, insertion or
// deletion breaks the chain.
//
// Key principles:
//   - Audit failure = Operation failure
//   - Never log secrets (private keys, signed data, signatures)
//   - All timestamps in UTC
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// EventType represents the category of audit event.
type EventType string

const (
	// Key lifecycle events
	EventKeyGenerated EventType = "KEY_GENERATED"
	EventKeyImported  EventType = "KEY_IMPORTED"

	// Signature events
	EventSign   EventType = "SIGN"
	EventVerify EventType = "VERIFY"

	// Digest events
	EventDigest EventType = "DIGEST"
)

// Result represents the outcome of an audited operation.
type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
)

// Actor represents who performed the action.
type Actor struct {
	Type string `json:"type"`           // "user", "service"
	ID   string `json:"id"`             // username or service identifier
	Host string `json:"host,omitempty"` // hostname where action occurred
}

// Object represents what was acted upon.
type Object struct {
	Type        string `json:"type"`                  // "key", "data"
	Kind        string `json:"kind,omitempty"`        // "private", "public"
	Fingerprint string `json:"fingerprint,omitempty"` // SHA-256 of the key DER, hex
	Size        int    `json:"size,omitempty"`        // data length in bytes
}

// Context provides additional details about the operation.
type Context struct {
	Scheme        string `json:"scheme,omitempty"`
	Hash          string `json:"hash,omitempty"`
	ModulusLength int    `json:"modulus_length,omitempty"`
	Encoding      string `json:"encoding,omitempty"`
	Verified      *bool  `json:"verified,omitempty"`
	Reason        string `json:"reason,omitempty"` // failure reason
}

// Event represents a single audit log entry.
type Event struct {
	EventType EventType `json:"event_type"`
	Timestamp string    `json:"timestamp"` // RFC3339 UTC
	Actor     Actor     `json:"actor"`
	Object    Object    `json:"object"`
	Context   Context   `json:"context"`
	Result    Result    `json:"result"`
	HashPrev  string    `json:"hash_prev"`
	Hash      string    `json:"hash"`
}

// localActor is the user running the process, resolved once.
var localActor = sync.OnceValue(resolveLocalActor)

func resolveLocalActor() Actor {
	hostname, _ := os.Hostname()
	name := os.Getenv("USER")
	if name == "" {
		name = os.Getenv("USERNAME")
	}
	if name == "" {
		name = "unknown"
	}
	return Actor{Type: "user", ID: name, Host: hostname}
}

// NewEvent creates an event stamped now, with the local user as actor.
func NewEvent(eventType EventType, result Result) *Event {
	return &Event{
		EventType: eventType,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Actor:     localActor(),
		Result:    result,
	}
}

// WithObject sets the object field.
func (e *Event) WithObject(obj Object) *Event {
	e.Object = obj
	return e
}

// WithContext sets the context field.
func (e *Event) WithContext(ctx Context) *Event {
	e.Context = ctx
	return e
}

// WithActor overrides the default actor.
func (e *Event) WithActor(actor Actor) *Event {
	e.Actor = actor
	return e
}

// Validate checks that required fields are present.
func (e *Event) Validate() error {
	if e.EventType == "" {
		return fmt.Errorf("event_type is required")
	}
	if e.Timestamp == "" {
		return fmt.Errorf("timestamp is required")
	}
	if e.Actor.Type == "" || e.Actor.ID == "" {
		return fmt.Errorf("actor type and id are required")
	}
	if e.Result == "" {
		return fmt.Errorf("result is required")
	}
	return nil
}

// CanonicalJSON returns the event without its Hash, as hashed into the chain.
func (e *Event) CanonicalJSON() ([]byte, error) {
	c := *e
	c.Hash = ""
	return json.Marshal(struct {
		EventType EventType `json:"event_type"`
		Timestamp string    `json:"timestamp"`
		Actor     Actor     `json:"actor"`
		Object    Object    `json:"object"`
		Context   Context   `json:"context"`
		Result    Result    `json:"result"`
		HashPrev  string    `json:"hash_prev"`
	}{c.EventType, c.Timestamp, c.Actor, c.Object, c.Context, c.Result, c.HashPrev})
}

// JSON returns the full event as JSON.
func (e *Event) JSON() ([]byte, error) {
	return json.Marshal(e)
}
