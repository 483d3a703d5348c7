package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"net/url"
	"path"
	"time"

	"google.golang.org/genai"
)

// GeminiConfig configures the Gemini provider
type GeminiConfig struct {
	APIKey string
	Model  string
}

// GeminiProvider generates text through the Gemini API. Each request opens
// a stateful chat session seeded with the system instruction, generation
// parameters and prior history.
type GeminiProvider struct {
	client     *genai.Client
	model      string
	httpClient *http.Client
}

// NewGeminiProvider creates a provider backed by the Gemini API
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-pro"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiProvider{
		client:     client,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// Model returns the configured model name
func (p *GeminiProvider) Model() string {
	return p.model
}

// Generate sends one user turn and waits for the complete text
func (p *GeminiProvider) Generate(ctx context.Context, req Request) (string, error) {
	chat, err := p.newChat(ctx, req)
	if err != nil {
		return "", err
	}

	parts, _ := p.buildParts(ctx, req)

	resp, err := chat.SendMessage(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}

	return resp.Text(), nil
}

// Stream sends one user turn and delivers the reply incrementally. When an
// attachment is involved the provider cannot stream multi-part messages, so
// the full reply is obtained up front and returned as Complete; the caller
// emits it as a single fragment.
func (p *GeminiProvider) Stream(ctx context.Context, req Request) (Result, error) {
	chat, err := p.newChat(ctx, req)
	if err != nil {
		return nil, err
	}

	parts, fallback := p.buildParts(ctx, req)

	if req.FileURL != "" && !fallback {
		resp, err := chat.SendMessage(ctx, parts...)
		if err != nil {
			return nil, fmt.Errorf("generation failed: %w", err)
		}
		return Complete{Text: resp.Text()}, nil
	}

	return Chunks{Seq: textSeq(chat.SendMessageStream(ctx, parts...))}, nil
}

// newChat opens a chat session carrying the agent parameters and history
func (p *GeminiProvider) newChat(ctx context.Context, req Request) (*genai.Chat, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	chat, err := p.client.Chats.Create(ctx, p.model, config, historyContents(req.History))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat session: %w", err)
	}
	return chat, nil
}

// buildParts assembles the message parts for one turn. On any attachment
// failure it falls back to a text-only message carrying a human-readable
// note, so the turn never fails outright for attachment reasons; the second
// return value reports that fallback.
func (p *GeminiProvider) buildParts(ctx context.Context, req Request) ([]genai.Part, bool) {
	if req.FileURL == "" {
		return []genai.Part{{Text: req.Prompt}}, false
	}

	file, err := p.uploadFile(ctx, req.FileURL)
	if err != nil {
		note := req.Prompt + " (Note: File upload failed - " + err.Error() + ")"
		return []genai.Part{{Text: note}}, true
	}

	mimeType := file.MIMEType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return []genai.Part{
		{Text: req.Prompt},
		*genai.NewPartFromURI(file.URI, mimeType),
	}, false
}

// uploadFile fetches the bytes behind fileURL and pushes them to the
// provider's file store. A failed fetch or an empty body is a hard failure
// for the attachment path.
func (p *GeminiProvider) uploadFile(ctx context.Context, fileURL string) (*genai.File, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid file URL: %w", err)
	}
	httpReq.Header.Set("Cache-Control", "no-store")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch file: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("file is empty (0 bytes)")
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	file, err := p.client.Files.Upload(ctx, bytes.NewReader(data), &genai.UploadFileConfig{
		MIMEType:    mimeType,
		DisplayName: fileDisplayName(fileURL),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}
	if file.URI == "" {
		return nil, errors.New("file upload succeeded but no URI was returned")
	}

	return file, nil
}

// historyContents converts prior turns into the provider's format
func historyContents(history []Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		role := genai.Role(genai.RoleModel)
		if turn.Role == "user" {
			role = genai.Role(genai.RoleUser)
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, role))
	}
	return contents
}

// textSeq maps the SDK's response stream onto plain text fragments
func textSeq(seq iter.Seq2[*genai.GenerateContentResponse, error]) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for resp, err := range seq {
			if err != nil {
				yield("", fmt.Errorf("generation failed: %w", err))
				return
			}
			if !yield(resp.Text(), nil) {
				return
			}
		}
	}
}

func fileDisplayName(fileURL string) string {
	parsed, err := url.Parse(fileURL)
	if err != nil || parsed.Path == "" || parsed.Path == "/" {
		return "uploaded-file"
	}
	name := path.Base(parsed.Path)
	if name == "." || name == "/" {
		return "uploaded-file"
	}
	return name
}
