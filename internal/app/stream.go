package app

import (
	"context"
	"fmt"
	"io"
	"iter"
	"time"
	"unicode/utf8"

	"trip_planner/internal/adapters/observability"
	"trip_planner/internal/domain"
)

const (
	DefaultChunkSize  = 5
	DefaultChunkDelay = 5 * time.Millisecond

	// InBandErrorMarker is appended to a stream that failed after its first byte.
	InBandErrorMarker = "\n\nError: Failed to complete itinerary generation."
)

// StreamState tracks one transmission: NotStarted -> Streaming -> Completed,
// with Errored reachable from either of the first two.
type StreamState int

const (
	StreamNotStarted StreamState = iota
	StreamStreaming
	StreamCompleted
	StreamErrored
)

func (s StreamState) String() string {
	switch s {
	case StreamNotStarted:
		return "not_started"
	case StreamStreaming:
		return "streaming"
	case StreamCompleted:
		return "completed"
	case StreamErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Pause runs between two chunk writes. It must return early with ctx.Err()
// once ctx is done.
type Pause func(ctx context.Context) error

// SleepPause waits d between chunks.
func SleepPause(d time.Duration) Pause {
	return func(ctx context.Context) error {
		if d <= 0 {
			return ctx.Err()
		}
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			return nil
		}
	}
}

// NoPause is used by tests to make transmission instant.
func NoPause(ctx context.Context) error { return ctx.Err() }

// Chunks splits text into pieces of at most size characters. Boundaries may
// fall inside words but never inside a UTF-8 sequence.
func Chunks(text string, size int) iter.Seq[string] {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return func(yield func(string) bool) {
		rest := text
		for len(rest) > 0 {
			end, n := 0, 0
			for end < len(rest) && n < size {
				_, w := utf8.DecodeRuneInString(rest[end:])
				end += w
				n++
			}
			if !yield(rest[:end]) {
				return
			}
			rest = rest[end:]
		}
	}
}

type Transmitter struct {
	ChunkSize int
	Pause     Pause
}

func NewTransmitter(chunkSize int, delay time.Duration) *Transmitter {
	return &Transmitter{ChunkSize: chunkSize, Pause: SleepPause(delay)}
}

// Open binds a fresh stream to sink. If sink has a Flush method it is called
// after every chunk; if it is an io.Closer it is closed at end of stream.
func (t *Transmitter) Open(sink io.Writer) *Stream {
	return &Stream{t: t, sink: sink}
}

// Transmit is Open followed by Send.
func (t *Transmitter) Transmit(ctx context.Context, text string, sink io.Writer) error {
	return t.Open(sink).Send(ctx, text)
}

// Stream is a single, non-reusable transmission.
type Stream struct {
	t       *Transmitter
	sink    io.Writer
	state   StreamState
	started bool
	sent    int
}

func (s *Stream) State() StreamState { return s.state }

// Sent is the number of bytes the sink accepted.
func (s *Stream) Sent() int { return s.sent }

// Send writes text chunk by chunk, pausing between chunks, then ends the stream.
func (s *Stream) Send(ctx context.Context, text string) error {
	if s.state != StreamNotStarted {
		return fmt.Errorf("%w: stream is %s", domain.ErrTransmission, s.state)
	}
	pause := s.t.Pause
	if pause == nil {
		pause = NoPause
	}

	first := true
	for chunk := range Chunks(text, s.t.ChunkSize) {
		if !first {
			if err := pause(ctx); err != nil {
				return s.fail(err)
			}
		}
		first = false

		s.state = StreamStreaming
		s.started = true
		n, err := io.WriteString(s.sink, chunk)
		s.sent += n
		if err != nil {
			return s.fail(err)
		}
		s.flush()
		observability.StreamChunks.Inc()
	}

	s.state = StreamCompleted
	s.close()
	observability.ObserveStream(s.state.String())
	return nil
}

// Abort appends marker (best effort) once writing has begun, then ends the
// stream. A stream that never started is left for the caller to answer with a
// regular error response.
func (s *Stream) Abort(marker string) {
	if s.started && marker != "" {
		if _, err := io.WriteString(s.sink, marker); err == nil {
			s.flush()
		}
	}
	if s.state != StreamErrored {
		s.state = StreamErrored
		observability.ObserveStream(s.state.String())
	}
	s.close()
}

func (s *Stream) fail(err error) error {
	s.state = StreamErrored
	observability.ObserveStream(s.state.String())
	return fmt.Errorf("%w: after %d bytes: %w", domain.ErrTransmission, s.sent, err)
}

func (s *Stream) flush() {
	if f, ok := s.sink.(interface{ Flush() }); ok {
		f.Flush()
	}
}

func (s *Stream) close() {
	if c, ok := s.sink.(io.Closer); ok {
		_ = c.Close()
	}
}
