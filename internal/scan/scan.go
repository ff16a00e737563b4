// Package scan consumes barcode decode attempts produced frame by frame from
// a camera stream. Only the first successfully decoded text matters for a
// scan session; "not found" frames are noise.
package scan

import (
	"context"
	"errors"
	"fmt"
)

// Event is one decode attempt. Exactly one of Text, NotFound or Error is set.
type Event struct {
	Text     string `json:"text,omitempty"`
	NotFound bool   `json:"not_found,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ErrStreamEnded is returned when the event source closes before any frame
// decodes successfully.
var ErrStreamEnded = errors.New("decode stream ended without a hit")

// FatalError is a decoder failure reported by the frame source (camera
// unavailable, decoder crash). It terminates the scan session.
type FatalError struct {
	Reason string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("decoder failed: %s", e.Reason)
}

// FirstHit drains events until the first decoded text and returns it.
// NotFound frames are skipped. A fatal decoder error or context cancellation
// ends the session with an error.
func FirstHit(ctx context.Context, events <-chan Event) (string, error) {
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return "", ErrStreamEnded
			}
			if ev.Error != "" {
				return "", &FatalError{Reason: ev.Error}
			}
			if ev.NotFound {
				continue
			}
			if ev.Text != "" {
				return ev.Text, nil
			}
		}
	}
}
