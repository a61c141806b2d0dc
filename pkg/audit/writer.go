package audit

import "io"

// Writer defines the interface for audit log writers.
//
// Implementations MUST:
//   - Return an error if the write fails (audit fails = operation fails)
//   - Set the hash chain (HashPrev, Hash) before persisting
//   - Never write key material, signed data or signatures
type Writer interface {
	// Write validates, chains and persists an event.
	Write(event *Event) error

	// Close flushes any pending writes and closes the writer.
	Close() error

	// LastHash returns the hash of the last written event, or GenesisHash.
	LastHash() string
}

// Ensure Writer extends io.Closer for proper resource management.
var _ io.Closer = (Writer)(nil)

// NopWriter discards all events. Used when audit logging is disabled.
type NopWriter struct{}

var _ Writer = NopWriter{}

func (NopWriter) Write(*Event) error { return nil }
func (NopWriter) Close() error       { return nil }
func (NopWriter) LastHash() string   { return GenesisHash }

// MemoryWriter keeps chained events in memory. It is used by tests and by
// callers that forward events elsewhere.
type MemoryWriter struct {
	chain  chain
	events []*Event
}

var _ Writer = (*MemoryWriter)(nil)

// NewMemoryWriter returns an empty in-memory writer.
func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{chain: chain{lastHash: GenesisHash}}
}

func (m *MemoryWriter) Write(event *Event) error {
	m.chain.mu.Lock()
	defer m.chain.mu.Unlock()

	if _, err := m.chain.link(event); err != nil {
		return err
	}
	m.chain.lastHash = event.Hash
	m.events = append(m.events, event)
	return nil
}

func (m *MemoryWriter) Close() error { return nil }

func (m *MemoryWriter) LastHash() string {
	m.chain.mu.Lock()
	defer m.chain.mu.Unlock()
	return m.chain.lastHash
}

// Snapshot returns a copy of the recorded events.
func (m *MemoryWriter) Snapshot() []*Event {
	m.chain.mu.Lock()
	defer m.chain.mu.Unlock()
	out := make([]*Event, len(m.events))
	copy(out, m.events)
	return out
}
