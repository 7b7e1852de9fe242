package insight

import "context"

// Turn is one prior message of a reasoning session, used to seed the chat
// history before the first real message.
type Turn struct {
	Role string // "user" or "model"
	Text string
}

// Stream is a cancellable pull-based text stream from the reasoning
// service. Next returns the next chunk; ok is false once the stream is
// exhausted. Close releases the stream early.
type Stream interface {
	Next() (chunk string, ok bool, err error)
	Close()
}

// Session is one conversation with the reasoning service.
type Session interface {
	// SendMessage sends text and returns the streamed response. The
	// context bounds the whole streaming call.
	SendMessage(ctx context.Context, text string) (Stream, error)
}

// SessionFactory starts reasoning sessions pre-seeded with history.
type SessionFactory interface {
	StartSession(ctx context.Context, history []Turn) (Session, error)
}

// collect drains a stream, concatenating chunks in arrival order. No
// reordering, no deduplication; the transcript is exactly what arrived.
func collect(stream Stream) (string, error) {
	defer stream.Close()

	var text string
	for {
		chunk, ok, err := stream.Next()
		if err != nil {
			return "", err
		}
		if !ok {
			return text, nil
		}
		text += chunk
	}
}
