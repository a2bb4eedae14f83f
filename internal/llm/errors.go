// ABOUTME: Sentinel errors for the LLM client and embedding pipeline
// ABOUTME: Callers distinguish configuration, input, and upstream failures with errors.Is
package llm

import "errors"

var (
	// ErrNotConfigured means no API credential is set. Fatal until fixed;
	// never retried.
	ErrNotConfigured = errors.New("openai api key not configured")

	// ErrEmptyInput means the text was empty after cleaning. Caller error;
	// not retried.
	ErrEmptyInput = errors.New("empty text provided for embedding")

	// ErrUpstream wraps a non-success status or timeout from the OpenAI API.
	// Transient; safe to retry with backoff.
	ErrUpstream = errors.New("upstream api error")

	// ErrEmbeddingUnavailable means a query embedding could not be produced,
	// so similarity search cannot proceed.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
)
