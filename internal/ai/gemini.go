package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"docclean/internal/logging"
)

const jsonMIMEType = "application/json"

// GeminiClient calls the Gemini API. The key is supplied per call, so a
// genai.Client is created for each request and closed afterwards.
type GeminiClient struct {
	model string
	log   logging.Logger
	// newClient is replaced in tests.
	newClient func(ctx context.Context, apiKey string) (*genai.Client, error)
}

// NewGemini returns a client for the given model name, e.g. "gemini-2.5-flash".
func NewGemini(model string, log logging.Logger) *GeminiClient {
	if log == nil {
		log = logging.Nop()
	}
	return &GeminiClient{model: model, log: log, newClient: dialGemini}
}

// apiKeyHeader carries the key on REST calls. option.WithAPIKey is not
// applied when the client is built from a custom http.Client.
const apiKeyHeader = "x-goog-api-key"

func dialGemini(ctx context.Context, apiKey string) (*genai.Client, error) {
	return genai.NewClient(ctx,
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(newTracedHTTPClient(apiKey, http.DefaultTransport)),
	)
}

// newTracedHTTPClient returns a client whose requests carry apiKey and are
// recorded as otel client spans.
func newTracedHTTPClient(apiKey string, base http.RoundTripper) *http.Client {
	return &http.Client{
		Transport: otelhttp.NewTransport(&keyTransport{key: apiKey, next: base}),
	}
}

type keyTransport struct {
	key  string
	next http.RoundTripper
}

func (t *keyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set(apiKeyHeader, t.key)
	return t.next.RoundTrip(r)
}

// Generate sends prompt as a single text part and asks for a JSON response.
func (g *GeminiClient) Generate(ctx context.Context, apiKey, prompt string) (string, error) {
	start := time.Now()
	client, err := g.newClient(ctx, apiKey)
	if err != nil {
		return "", classifyError(err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.ResponseMIMEType = jsonMIMEType

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		g.log.WithError(err).Warn("gemini request failed",
			logging.F(logging.FieldProvider, ProviderGemini),
			logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
		return "", classifyError(err)
	}

	text, err := responseText(resp)
	if err != nil {
		return "", err
	}
	g.log.Debug("gemini response received",
		logging.F(logging.FieldProvider, ProviderGemini),
		logging.F(logging.FieldBytes, len(text)),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return text, nil
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: empty response", ErrProvider)
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: response has no text", ErrProvider)
	}
	return strings.TrimSpace(b.String()), nil
}

// classifyError separates rejected credentials from every other failure.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if isCredentialError(err) {
		return fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	return fmt.Errorf("%w: %w", ErrProvider, err)
}

func isCredentialError(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return true
		case http.StatusBadRequest:
			if mentionsKey(gerr.Message) || mentionsKey(gerr.Body) {
				return true
			}
		}
	}

	msg := err.Error()
	return strings.Contains(msg, "API_KEY") || strings.Contains(strings.ToLower(msg), "authentication")
}

func mentionsKey(s string) bool {
	return strings.Contains(s, "API key") || strings.Contains(s, "API_KEY")
}
