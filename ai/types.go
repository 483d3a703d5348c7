// Package ai is the gateway to the external generation provider. It turns
// an assembled prompt plus agent parameters into either a complete text or
// a finite stream of text fragments.
package ai

import (
	"context"
	"iter"
)

// Turn is one prior exchange in a conversation
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request carries everything the provider needs for one generation
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
	History     []Turn
	FileURL     string
	FileName    string
}

// Result is the outcome of a generation: either Complete or Chunks.
// Callers branch on the variant rather than duck-typing an iterator.
type Result interface {
	generationResult()
}

// Complete is a finished generation delivered as one text
type Complete struct {
	Text string
}

func (Complete) generationResult() {}

// Chunks is a finite, non-restartable sequence of text fragments
type Chunks struct {
	Seq iter.Seq2[string, error]
}

func (Chunks) generationResult() {}

// Provider is the generation backend. Generate waits for the full text;
// Stream returns Chunks normally, or Complete when the provider cannot
// deliver incrementally (multi-part messages with attachments).
type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
	Stream(ctx context.Context, req Request) (Result, error)
	Model() string
}
