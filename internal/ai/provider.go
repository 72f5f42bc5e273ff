// Package ai dispatches prompts to LLM providers and classifies their failures.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnsupportedProvider = errors.New("unsupported ai provider")
	ErrInvalidCredential   = errors.New("provider rejected the api credential")
	ErrProvider            = errors.New("ai provider error")
)

// Provider identifies an LLM backend.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is recognised but has no backend; its client answers
	// with PlaceholderText.
	ProviderOpenAI Provider = "openai"
)

// DefaultProvider is used when a request names none.
const DefaultProvider = ProviderGemini

// PlaceholderText is what the openai variant returns instead of calling out.
const PlaceholderText = "OpenAI processing is not implemented yet. Please use Gemini AI."

// ParseProvider maps a request value to a Provider. Matching is exact after
// trimming; an empty value selects DefaultProvider.
func ParseProvider(s string) (Provider, error) {
	switch p := Provider(strings.TrimSpace(s)); p {
	case "":
		return DefaultProvider, nil
	case ProviderGemini, ProviderOpenAI:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, s)
	}
}

// Implemented reports whether the provider makes a real model call.
func (p Provider) Implemented() bool {
	return p == ProviderGemini
}

func (p Provider) String() string { return string(p) }

// Client sends a composed prompt to a model and returns its raw text output.
type Client interface {
	Generate(ctx context.Context, apiKey, prompt string) (string, error)
}

// Clients maps each provider to its client.
type Clients map[Provider]Client

// placeholderClient stands in for providers without a backend.
type placeholderClient struct{}

// NewPlaceholder returns the client used for ProviderOpenAI. It never touches the network.
func NewPlaceholder() Client { return placeholderClient{} }

func (placeholderClient) Generate(context.Context, string, string) (string, error) {
	return PlaceholderText, nil
}
