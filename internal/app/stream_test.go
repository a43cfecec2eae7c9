package app_test

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"trip_planner/internal/app"
	"trip_planner/internal/domain"
)

func TestChunks_ReassembleExactly(t *testing.T) {
	texts := []string{
		"",
		"DAY 1: Beaches",
		"₹15000 for 2 people - Goa 🌴 trip",
		strings.Repeat("Morning: Fort Aguada. ", 50),
	}
	for _, text := range texts {
		for _, size := range []int{1, 2, 3, 5, 7, 64, 10000} {
			var parts []string
			for c := range app.Chunks(text, size) {
				if n := len([]rune(c)); n == 0 || n > size {
					t.Fatalf("size %d: chunk %q has %d runes", size, c, n)
				}
				parts = append(parts, c)
			}
			if got := strings.Join(parts, ""); got != text {
				t.Fatalf("size %d: reassembled %q, want %q", size, got, text)
			}
		}
	}
}

func TestChunks_RangeTwice(t *testing.T) {
	seq := app.Chunks("abcdefgh", 3)
	a := slices.Collect(seq)
	b := slices.Collect(seq)
	if !slices.Equal(a, []string{"abc", "def", "gh"}) || !slices.Equal(a, b) {
		t.Fatalf("unexpected chunks: %v / %v", a, b)
	}
}

// recordingSink keeps each write separately and counts flushes and closes.
type recordingSink struct {
	writes  []string
	flushes int
	closed  bool
	failAt  int
}

func (s *recordingSink) Write(b []byte) (int, error) {
	if s.failAt > 0 && len(s.writes)+1 == s.failAt {
		s.failAt = 0
		return 0, errors.New("broken pipe")
	}
	s.writes = append(s.writes, string(b))
	return len(b), nil
}

func (s *recordingSink) Flush()       { s.flushes++ }
func (s *recordingSink) Close() error { s.closed = true; return nil }

func TestStream_CompletesInOrder(t *testing.T) {
	tr := &app.Transmitter{ChunkSize: 5, Pause: app.NoPause}
	sink := &recordingSink{}
	st := tr.Open(sink)
	if st.State() != app.StreamNotStarted {
		t.Fatalf("state = %s", st.State())
	}

	text := "DAY 1: Baga Beach"
	if err := st.Send(context.Background(), text); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if st.State() != app.StreamCompleted || !sink.closed {
		t.Fatalf("state = %s closed = %v", st.State(), sink.closed)
	}
	want := []string{"DAY 1", ": Bag", "a Bea", "ch"}
	if !slices.Equal(sink.writes, want) {
		t.Fatalf("writes = %q", sink.writes)
	}
	if sink.flushes != len(want) || st.Sent() != len(text) {
		t.Fatalf("flushes = %d sent = %d", sink.flushes, st.Sent())
	}

	// a stream is single-use
	if err := st.Send(context.Background(), "again"); !errors.Is(err, domain.ErrTransmission) {
		t.Fatalf("expected transmission error on reuse, got %v", err)
	}
}

func TestStream_PausesBetweenChunksOnly(t *testing.T) {
	pauses := 0
	tr := &app.Transmitter{ChunkSize: 2, Pause: func(ctx context.Context) error { pauses++; return nil }}
	if err := tr.Transmit(context.Background(), "abcdef", &bytes.Buffer{}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if pauses != 2 {
		t.Fatalf("pauses = %d, want 2", pauses)
	}
}

func TestStream_SinkFailureThenAbort(t *testing.T) {
	tr := &app.Transmitter{ChunkSize: 5, Pause: app.NoPause}
	sink := &recordingSink{failAt: 3}
	st := tr.Open(sink)

	err := st.Send(context.Background(), "DAY 1: Baga Beach")
	if !errors.Is(err, domain.ErrTransmission) {
		t.Fatalf("expected transmission error, got %v", err)
	}
	if st.State() != app.StreamErrored {
		t.Fatalf("state = %s", st.State())
	}

	st.Abort(app.InBandErrorMarker)
	got := strings.Join(sink.writes, "")
	if got != "DAY 1: Bag"+app.InBandErrorMarker {
		t.Fatalf("body = %q", got)
	}
	if !sink.closed {
		t.Fatalf("sink must be closed after abort")
	}
}

func TestStream_CancelledMidway(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tr := &app.Transmitter{ChunkSize: 1, Pause: func(c context.Context) error {
		cancel()
		return c.Err()
	}}
	sink := &recordingSink{}
	st := tr.Open(sink)

	err := st.Send(ctx, "abc")
	if !errors.Is(err, context.Canceled) || !errors.Is(err, domain.ErrTransmission) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if len(sink.writes) != 1 {
		t.Fatalf("writes = %q", sink.writes)
	}
}

func TestStream_AbortBeforeStartWritesNothing(t *testing.T) {
	sink := &recordingSink{}
	st := (&app.Transmitter{ChunkSize: 5, Pause: app.NoPause}).Open(sink)
	st.Abort(app.InBandErrorMarker)
	if len(sink.writes) != 0 || st.State() != app.StreamErrored {
		t.Fatalf("writes = %q state = %s", sink.writes, st.State())
	}
}
