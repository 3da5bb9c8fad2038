// Package llm abstracts the external model providers behind a single
// structured-output interface. The generator and scorer build a Request
// with a JSON Schema attached; providers return validated JSON or a typed
// transport error the caller can classify for retry.
package llm

import (
	"context"
	"encoding/json"
)

// Provider is the transport abstraction for model calls.
type Provider interface {
	// Generate sends one request and returns the structured response.
	// When the request carries a Schema the returned Content is JSON that
	// has already been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID reports the configured model identifier.
	ModelID() string
}

// Request is a single model call.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Messages is the conversation. Session generation and scoring are
	// single-turn, so this is one user message in practice.
	Messages []Message

	// Schema, when set, demands structured output conforming to it. The
	// provider uses its native structured-output mechanism and the
	// response is validated before being returned.
	Schema *Schema

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature in [0,1]; zero means deterministic.
	Temperature float64
}

// Message is one turn in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role identifies the message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema describes the JSON shape a structured response must take.
type Schema struct {
	// Name identifies the schema to the provider (tool name for
	// Anthropic, schema name for OpenAI). Kebab-case.
	Name string

	// Description guides generation; sent to the model.
	Description string

	// Definition is the JSON Schema document as a map. Validation accepts
	// object and array roots, but OpenAI's strict response format rejects
	// array roots, so portable schemas keep an object at the top.
	Definition map[string]any
}

// Response is the model's output.
type Response struct {
	// Content is the generated output: schema-validated JSON when the
	// request carried a Schema, raw text otherwise.
	Content json.RawMessage

	// Usage reports token consumption.
	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage is token accounting for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// resolveModel maps a friendly alias to a provider model ID, passing
// unknown names through unchanged so direct model IDs keep working.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
