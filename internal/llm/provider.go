package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Provider generates text, or JSON when a schema is given, from a prompt.
// Failures are *Error values where the cause is known.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the resolved model the provider sends requests to.
	ModelID() string
}

// Request is one generation call. Example lookups send a single user
// message.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, asks for structured output and is checked
	// against the reply. When nil, Content is the raw text.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default.
	Temperature float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name is kebab-case, e.g. "example-sentence". OpenAI sends it as
	// the schema name.
	Name string

	Description string

	// Definition is the JSON Schema document.
	Definition map[string]any
}

// Response holds the LLM's output.
type Response struct {
	// Content is the schema-checked JSON for structured requests, else
	// the raw reply text.
	Content json.RawMessage

	Usage Usage

	// Model is the model that served the request, which may differ from
	// the configured alias.
	Model string

	// StopReason is StopEnd or StopMaxTokens.
	StopReason string
}

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Decode unmarshals Content into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Content, v); err != nil {
		return &Error{Kind: KindInvalidResponse, Content: r.Content, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

// finish applies the checks shared by every provider to a structured
// reply: a reply cut off at max tokens is truncated, and the content must
// satisfy the request schema.
func finish(provider string, req Request, resp *Response) (*Response, error) {
	if req.Schema == nil {
		return resp, nil
	}
	if resp.StopReason == StopMaxTokens {
		return nil, &Error{Kind: KindTruncated, Provider: provider, Content: resp.Content}
	}
	if err := req.Schema.Check(resp.Content); err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.Provider = provider
		}
		return nil, err
	}
	return resp, nil
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
