package model

import (
	"context"
	"fmt"
	"sync"
)

// Request captures the normalized model input assembled by agents. Unified
// across vendors so agent logic needs no per-provider branching.
type Request struct {
	// Instructions is system-level guidance for the model.
	Instructions string
	// Prompt is the user-level input for this generation.
	Prompt string
}

// Usage captures token usage statistics for a generation.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Response is the final completion for a request.
type Response struct {
	Text  string
	Usage *Usage
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string
	Provider string // "openai", "anthropic", "mock", etc.
}

// Model is the minimal interface required by agents to drive generation.
type Model interface {
	Generate(ctx context.Context, req Request) (Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Safe for concurrent use.
type MockModel struct {
	info Info

	mu        sync.RWMutex
	responses map[string]string
}

// NewMockModel constructs a MockModel.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: provider},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// Generate implements Model; returns the canned completion for the prompt or
// an echo fallback.
func (m *MockModel) Generate(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	m.mu.RLock()
	text := m.responses[req.Prompt]
	m.mu.RUnlock()

	if text == "" {
		text = fmt.Sprintf("Mock response to: %s", req.Prompt)
	}
	return Response{Text: text}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
