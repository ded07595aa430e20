// Package capture models the client-side recording lifecycle. Platform media
// recorders deliver encoded chunks through callbacks; Recorder turns that into
// explicit state transitions and a single event stream.
package capture

import (
	"bytes"
	"errors"
	"sync"
)

type State int

const (
	Idle State = iota
	Recording
	Finalizing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Finalizing:
		return "finalizing"
	default:
		return "unknown"
	}
}

type EventKind int

const (
	ChunkAvailable EventKind = iota
	Stopped
)

// Event is a notification that the recorder state advanced. The authoritative
// encoded bytes are returned by Stop; events only signal progress, and a slow
// consumer may miss intermediate ChunkAvailable notifications.
type Event struct {
	Kind EventKind
	Size int64
}

var (
	ErrNotIdle      = errors.New("recorder is not idle")
	ErrNotRecording = errors.New("recorder is not recording")
)

// Recorder is the idle -> recording -> finalizing -> idle state machine for a
// single clip. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	state  State
	buf    bytes.Buffer
	events chan Event
}

func NewRecorder() *Recorder {
	return &Recorder{events: make(chan Event, 16)}
}

func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Events exposes the notification stream. Sends never block the recorder.
func (r *Recorder) Events() <-chan Event {
	return r.events
}

// Start begins a new clip. Fails unless the recorder is idle.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != Idle {
		return ErrNotIdle
	}
	r.buf.Reset()
	r.state = Recording
	return nil
}

// PushChunk appends one encoded chunk delivered by the capture device.
func (r *Recorder) PushChunk(chunk []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != Recording {
		return ErrNotRecording
	}
	r.buf.Write(chunk)
	r.notify(Event{Kind: ChunkAvailable, Size: int64(r.buf.Len())})
	return nil
}

// Stop finalizes the clip and returns the full encoded byte stream, leaving
// the recorder idle again.
func (r *Recorder) Stop() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != Recording {
		return nil, ErrNotRecording
	}
	r.state = Finalizing
	out := make([]byte, r.buf.Len())
	copy(out, r.buf.Bytes())
	r.buf.Reset()
	r.state = Idle
	r.notify(Event{Kind: Stopped, Size: int64(len(out))})
	return out, nil
}

func (r *Recorder) notify(ev Event) {
	select {
	case r.events <- ev:
	default:
	}
}
