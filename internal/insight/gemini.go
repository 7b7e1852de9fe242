package insight

import (
	"context"
	"fmt"
	"iter"

	"google.golang.org/genai"
)

// DefaultModelName is the Gemini model used unless configured otherwise.
const DefaultModelName = "gemini-2.0-flash"

// GeminiSessionFactory starts chat sessions against the Gemini API. It
// implements SessionFactory.
type GeminiSessionFactory struct {
	client *genai.Client
	model  string
}

// NewGeminiSessionFactory creates the shared GenAI client. The model may be
// empty to use DefaultModelName.
func NewGeminiSessionFactory(ctx context.Context, model string) (*GeminiSessionFactory, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("NewGeminiSessionFactory: create genai client: %w", err)
	}
	if model == "" {
		model = DefaultModelName
	}
	return &GeminiSessionFactory{client: client, model: model}, nil
}

// StartSession opens a chat pre-seeded with the given turns.
func (f *GeminiSessionFactory) StartSession(ctx context.Context, history []Turn) (Session, error) {
	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		contents = append(contents, &genai.Content{
			Role:  turn.Role,
			Parts: []*genai.Part{{Text: turn.Text}},
		})
	}
	chat, err := f.client.Chats.Create(ctx, f.model, nil, contents)
	if err != nil {
		return nil, fmt.Errorf("StartSession: create chat: %w", err)
	}
	return &geminiSession{chat: chat}, nil
}

type geminiSession struct {
	chat *genai.Chat
}

func (s *geminiSession) SendMessage(ctx context.Context, text string) (Stream, error) {
	seq := s.chat.SendMessageStream(ctx, genai.Part{Text: text})
	next, stop := iter.Pull2(seq)
	return &geminiStream{next: next, stop: stop}, nil
}

// geminiStream adapts the SDK's push iterator into the pull-based Stream
// contract.
type geminiStream struct {
	next func() (*genai.GenerateContentResponse, error, bool)
	stop func()
}

func (s *geminiStream) Next() (string, bool, error) {
	resp, err, ok := s.next()
	if !ok {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("Next: receive chunk: %w", err)
	}
	return resp.Text(), true, nil
}

func (s *geminiStream) Close() {
	s.stop()
}
