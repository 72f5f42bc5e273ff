package model

import "encoding/json"

// PromptTemplate is a read-only catalogue entry.
type PromptTemplate struct {
	ID     int    `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Prompt string `json:"prompt" yaml:"prompt"`
}

// CleaningRequest is the input of one AI cleaning run. It is never persisted.
type CleaningRequest struct {
	UserPrompt    string `json:"user_prompt"`
	ExtractedText string `json:"extracted_text"`
	UserAPIKey    string `json:"user_api_key,omitempty"`
	AIProvider    string `json:"ai_provider,omitempty"`
}

// CleanedResult is the structured output of a cleaning run.
type CleanedResult struct {
	// Content is the parsed provider output, re-encoded as JSON.
	Content json.RawMessage `json:"content"`
	// Location of the persisted cleaned_result artifact; empty when nothing was stored.
	Location string `json:"-"`
	// Placeholder is set when the provider is recognised but not implemented.
	Placeholder bool `json:"-"`
}
