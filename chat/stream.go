package chat

import (
	"context"

	"github.com/poiesic/docpipe/core"
)

// Stream delivers an answer as an ordered sequence of text fragments.
// Consumers range over Fragments until it closes, then call Wait for the
// persisted turn or the terminal error. Canceling the request context
// terminates the stream.
type Stream struct {
	fragments chan string
	done      chan struct{}
	turn      *core.ConversationTurn
	err       error
}

func newStream() *Stream {
	return &Stream{
		fragments: make(chan string, 16),
		done:      make(chan struct{}),
	}
}

// Fragments returns the fragment channel. It is closed when the answer is
// complete or the stream failed.
func (s *Stream) Fragments() <-chan string {
	return s.fragments
}

// Wait blocks until the stream ends and returns the persisted assistant
// turn, or the error that terminated the stream.
func (s *Stream) Wait() (*core.ConversationTurn, error) {
	<-s.done
	return s.turn, s.err
}

// emit pushes one fragment, giving up if the consumer's context ends.
func (s *Stream) emit(ctx context.Context, fragment string) error {
	select {
	case s.fragments <- fragment:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Stream) succeed(turn *core.ConversationTurn) {
	s.turn = turn
}

func (s *Stream) fail(err error) {
	s.err = err
}

// close finalizes the stream. Must run after succeed or fail.
func (s *Stream) close() {
	close(s.fragments)
	close(s.done)
}
