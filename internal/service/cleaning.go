package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"docclean/internal/ai"
	"docclean/internal/docstore"
	"docclean/internal/export"
	"docclean/internal/logging"
	"docclean/internal/model"
)

// promptDelimiter separates the instruction from the document text.
const promptDelimiter = "\n\nText:\n"

// DefaultAITimeout bounds a single provider call when none is configured.
const DefaultAITimeout = 120 * time.Second

// CleaningService runs extracted text through an LLM and keeps the result.
type CleaningService interface {
	// Clean validates req, calls the provider and persists the parsed JSON.
	Clean(ctx context.Context, req model.CleaningRequest) (*model.CleanedResult, error)

	// Result returns the persisted cleaned result.
	Result(ctx context.Context) (*model.CleanedResult, error)

	// Export renders the persisted cleaned result in format (csv, xlsx, json).
	Export(ctx context.Context, format string) (*export.File, error)
}

// CleaningConfig carries the values the pipeline needs from configuration.
type CleaningConfig struct {
	// FallbackAPIKey is used when a request carries no key.
	FallbackAPIKey string
	Timeout        time.Duration
}

type cleaningService struct {
	store   *docstore.Store
	clients ai.Clients
	cfg     CleaningConfig
	log     logging.Logger
}

// NewCleaningService wires the pipeline. clients must hold an entry for every
// provider ParseProvider accepts.
func NewCleaningService(store *docstore.Store, clients ai.Clients, cfg CleaningConfig, log logging.Logger) CleaningService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultAITimeout
	}
	return &cleaningService{
		store:   store,
		clients: clients,
		cfg:     cfg,
		log:     log.WithField(logging.FieldComponent, "cleaning"),
	}
}

// ComposePrompt joins the instruction and the text exactly as sent to the provider.
func ComposePrompt(userPrompt, text string) string {
	return userPrompt + promptDelimiter + text
}

func (s *cleaningService) Clean(ctx context.Context, req model.CleaningRequest) (*model.CleanedResult, error) {
	if req.UserPrompt == "" || req.ExtractedText == "" {
		return nil, fmt.Errorf("%w: user_prompt and extracted_text are required", ErrValidation)
	}

	apiKey := strings.TrimSpace(req.UserAPIKey)
	if apiKey == "" {
		apiKey = s.cfg.FallbackAPIKey
	}
	if apiKey == "" {
		return nil, ErrMissingCredential
	}

	provider, err := ai.ParseProvider(req.AIProvider)
	if err != nil {
		return nil, err
	}
	client, ok := s.clients[provider]
	if !ok {
		return nil, fmt.Errorf("no client registered for provider %q", provider)
	}

	log := logging.WithContext(ctx, s.log).WithField(logging.FieldProvider, provider)
	prompt := ComposePrompt(req.UserPrompt, req.ExtractedText)

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	out, err := client.Generate(callCtx, apiKey, prompt)
	if err != nil {
		log.WithError(err).Warn("provider call failed", logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
		return nil, providerErr(err)
	}

	if !provider.Implemented() {
		content, err := json.Marshal(out)
		if err != nil {
			return nil, err
		}
		log.Info("provider not implemented, returning placeholder")
		return &model.CleanedResult{Content: content, Placeholder: true}, nil
	}

	out = strings.TrimSpace(out)
	if !json.Valid([]byte(out)) {
		log.Warn("provider returned invalid json", logging.F(logging.FieldBytes, len(out)))
		return nil, ErrInvalidAIResponse
	}
	content := json.RawMessage(out)

	// Raw bytes keep the provider's key order in the stored artifact.
	loc, err := s.store.PutJSON(ctx, docstore.SlotCleanedResult, content)
	if err != nil {
		return nil, fmt.Errorf("store cleaned result: %w", err)
	}
	log.Info("cleaned result stored",
		logging.F(logging.FieldLocation, loc),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))

	return &model.CleanedResult{Content: content, Location: loc}, nil
}

func (s *cleaningService) Result(ctx context.Context) (*model.CleanedResult, error) {
	raw, err := s.store.GetJSON(ctx, docstore.SlotCleanedResult)
	if err != nil {
		return nil, notFound(err, "no cleaned result yet")
	}
	loc, err := s.store.Location(ctx, docstore.SlotCleanedResult)
	if err != nil {
		return nil, notFound(err, "no cleaned result yet")
	}
	return &model.CleanedResult{Content: raw, Location: loc}, nil
}

func (s *cleaningService) Export(ctx context.Context, format string) (*export.File, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	raw, err := s.store.GetJSON(ctx, docstore.SlotCleanedResult)
	if err != nil {
		return nil, notFound(err, "no cleaned result yet")
	}
	return export.Render(f, raw)
}

// providerErr keeps classified errors and files everything else under ErrProvider.
func providerErr(err error) error {
	if errors.Is(err, ErrInvalidCredential) || errors.Is(err, ErrProvider) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrProvider, err)
}
