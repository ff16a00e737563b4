package scan

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feed(events ...Event) <-chan Event {
	ch := make(chan Event, len(events))
	for _, ev := range events {
		ch <- ev
	}
	close(ch)
	return ch
}

func TestFirstHitSkipsNotFoundFrames(t *testing.T) {
	text, err := FirstHit(context.Background(), feed(
		Event{NotFound: true},
		Event{NotFound: true},
		Event{Text: "4901234567894"},
		Event{Text: "ignored-second-hit"},
	))

	require.NoError(t, err)
	assert.Equal(t, "4901234567894", text)
}

func TestFirstHitFatalDecoderError(t *testing.T) {
	_, err := FirstHit(context.Background(), feed(
		Event{NotFound: true},
		Event{Error: "camera unavailable"},
	))

	var fatal *FatalError
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, "camera unavailable", fatal.Reason)
}

func TestFirstHitStreamEndsWithoutHit(t *testing.T) {
	_, err := FirstHit(context.Background(), feed(
		Event{NotFound: true},
		Event{NotFound: true},
	))

	assert.ErrorIs(t, err, ErrStreamEnded)
}

func TestFirstHitContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	events := make(chan Event)
	done := make(chan struct{})
	var err error
	go func() {
		_, err = FirstHit(ctx, events)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("FirstHit did not return after cancellation")
	}
	assert.ErrorIs(t, err, context.Canceled)
}
