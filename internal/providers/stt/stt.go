package stt

import "context"

type EventKind int

const (
	// EventInterim is a partial, low-confidence result that later events may
	// revise.
	EventInterim EventKind = iota
	// EventFinal is a confirmed result for a completed utterance boundary.
	EventFinal
	// EventError is terminal; the stream emits no further events after it.
	EventError
)

type Event struct {
	Kind       EventKind
	Text       string
	Confidence float64
	Err        error
}

// Stream is one live recognition stream bound to a single connection.
// Events() is closed after Stop returns or after an EventError.
type Stream interface {
	Start(ctx context.Context) error
	// Write pushes one opaque audio chunk. Framing and encoding negotiation
	// are the provider's concern.
	Write(audio []byte) error
	Events() <-chan Event
	// Stop is idempotent and safe to call even if Start never completed.
	Stop() error
}

type Provider interface {
	NewStream(ctx context.Context) (Stream, error)
	Close() error
}
