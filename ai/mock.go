package ai

import (
	"context"
	"strings"
	"sync"
)

// MockProvider is a scripted Provider for tests and local development.
// It records the last request it saw so assertions can inspect what would
// have gone upstream.
type MockProvider struct {
	mu sync.Mutex

	// Reply is the canned response text. When empty, the mock echoes the prompt.
	Reply string
	// Err, when set, is returned from every call.
	Err error
	// AttachmentErr, when set, simulates a failed attachment fetch/upload:
	// the reply carries the fallback failure note instead of erroring.
	AttachmentErr error
	// ChunkSize controls how Stream splits the reply. Zero means whole words.
	ChunkSize int
	// Fragments, when set, is streamed exactly as given instead of
	// splitting the reply. Empty strings are legal fragments.
	Fragments []string

	lastRequest *Request
	calls       int
}

// NewMockProvider creates a mock with a canned reply
func NewMockProvider(reply string) *MockProvider {
	return &MockProvider{Reply: reply}
}

// Model returns a stable fake model name
func (m *MockProvider) Model() string {
	return "mock-model"
}

// LastRequest returns the most recent request, or nil
func (m *MockProvider) LastRequest() *Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRequest
}

// Calls returns how many generation calls were made
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockProvider) record(req Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	copied := req
	m.lastRequest = &copied
}

func (m *MockProvider) reply(req Request) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	// Mirror the gateway's attachment fallback so delivery-layer tests can
	// observe the failure note without a live provider.
	if req.FileURL != "" && m.AttachmentErr != nil {
		return req.Prompt + " (Note: File upload failed - " + m.AttachmentErr.Error() + ")", nil
	}
	if m.Reply != "" {
		return m.Reply, nil
	}
	return "echo: " + req.Prompt, nil
}

// Generate returns the canned reply
func (m *MockProvider) Generate(ctx context.Context, req Request) (string, error) {
	m.record(req)
	return m.reply(req)
}

// Stream splits the canned reply into fragments. With an attachment the
// real provider degrades to a single fragment; the mock does the same.
func (m *MockProvider) Stream(ctx context.Context, req Request) (Result, error) {
	m.record(req)

	text, err := m.reply(req)
	if err != nil {
		return nil, err
	}

	// A successful attachment degrades to a single fragment; a failed one
	// falls back to ordinary text streaming, as the real gateway does.
	if req.FileURL != "" && m.AttachmentErr == nil {
		return Complete{Text: text}, nil
	}

	fragments := m.Fragments
	if fragments == nil {
		fragments = splitFragments(text, m.ChunkSize)
	}
	return Chunks{Seq: func(yield func(string, error) bool) {
		for _, fragment := range fragments {
			if !yield(fragment, nil) {
				return
			}
		}
	}}, nil
}

func splitFragments(text string, size int) []string {
	if size > 0 {
		var out []string
		for len(text) > size {
			out = append(out, text[:size])
			text = text[size:]
		}
		if text != "" {
			out = append(out, text)
		}
		return out
	}

	words := strings.SplitAfter(text, " ")
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}
