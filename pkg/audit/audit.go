package audit

import (
	"fmt"
	"sync"
)

var (
	// globalWriter is the default audit writer.
	globalWriter Writer = NopWriter{}
	globalMu     sync.RWMutex
)

// Init installs w as the global audit writer, closing the one it replaces.
// A nil w disables auditing.
func Init(w Writer) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	prev := globalWriter
	if w == nil {
		w = NopWriter{}
	}
	globalWriter = w
	if prev != w {
		return prev.Close()
	}
	return nil
}

// InitFile initializes the global audit logger with a file writer.
// An empty path disables auditing.
func InitFile(path string) error {
	if path == "" {
		return Init(nil)
	}

	w, err := NewFileWriter(path)
	if err != nil {
		return err
	}

	return Init(w)
}

// Close closes the global audit writer.
func Close() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	err := globalWriter.Close()
	globalWriter = NopWriter{}
	return err
}

// Default returns the global audit writer.
func Default() Writer {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalWriter
}

// Record writes event to w, falling back to the global writer when w is nil.
func Record(w Writer, event *Event) error {
	if w == nil {
		w = Default()
	}
	if err := w.Write(event); err != nil {
		return fmt.Errorf("audit log failed: %w", err)
	}
	return nil
}

func resultOf(err error) (Result, string) {
	if err != nil {
		return ResultFailure, err.Error()
	}
	return ResultSuccess, ""
}

// KeyGenerated builds a KEY_GENERATED event for a key pair identified by the
// fingerprint of its public key.
func KeyGenerated(fingerprint string, ctx Context, err error) *Event {
	result, reason := resultOf(err)
	ctx.Reason = reason
	return NewEvent(EventKeyGenerated, result).
		WithObject(Object{Type: "key", Kind: "pair", Fingerprint: fingerprint}).
		WithContext(ctx)
}

// KeyImported builds a KEY_IMPORTED event.
func KeyImported(kind, fingerprint string, ctx Context, err error) *Event {
	result, reason := resultOf(err)
	ctx.Reason = reason
	return NewEvent(EventKeyImported, result).
		WithObject(Object{Type: "key", Kind: kind, Fingerprint: fingerprint}).
		WithContext(ctx)
}

// Signed builds a SIGN event. size is the signed data length in bytes.
func Signed(fingerprint string, size int, ctx Context, err error) *Event {
	result, reason := resultOf(err)
	ctx.Reason = reason
	return NewEvent(EventSign, result).
		WithObject(Object{Type: "data", Fingerprint: fingerprint, Size: size}).
		WithContext(ctx)
}

// Verified builds a VERIFY event. A signature that does not verify is a
// successful operation with Verified=false.
func Verified(fingerprint string, size int, ctx Context, valid bool, err error) *Event {
	result, reason := resultOf(err)
	ctx.Reason = reason
	if err == nil {
		ctx.Verified = &valid
	}
	return NewEvent(EventVerify, result).
		WithObject(Object{Type: "data", Fingerprint: fingerprint, Size: size}).
		WithContext(ctx)
}

// Digested builds a DIGEST event.
func Digested(size int, ctx Context, err error) *Event {
	result, reason := resultOf(err)
	ctx.Reason = reason
	return NewEvent(EventDigest, result).
		WithObject(Object{Type: "data", Size: size}).
		WithContext(ctx)
}
