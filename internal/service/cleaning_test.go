package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docclean/internal/ai"
	aiMocks "docclean/internal/ai/mocks"
	"docclean/internal/docstore"
	"docclean/internal/model"
)

func newCleaning(t *testing.T, fallback string) (CleaningService, *aiMocks.MockClient, afero.Fs) {
	t.Helper()
	store, mem := newTestStore(t)
	gemini := new(aiMocks.MockClient)
	clients := ai.Clients{ai.ProviderGemini: gemini, ai.ProviderOpenAI: ai.NewPlaceholder()}
	return NewCleaningService(store, clients, CleaningConfig{FallbackAPIKey: fallback, Timeout: time.Second}, nopLog), gemini, mem
}

func TestComposePrompt(t *testing.T) {
	assert.Equal(t, "Extract words\n\nText:\nHallo Welt", ComposePrompt("Extract words", "Hallo Welt"))
}

func TestCleaningService_Clean(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		fallback   string
		req        model.CleaningRequest
		setupMocks func(m *aiMocks.MockClient)
		wantErr    error
		wantJSON   string
	}{
		{
			name: "happy path with request key",
			req:  model.CleaningRequest{UserPrompt: "p", ExtractedText: "t", UserAPIKey: "req-key"},
			setupMocks: func(m *aiMocks.MockClient) {
				m.On("Generate", mock.Anything, "req-key", "p\n\nText:\nt").Return(`{"ok":true}`, nil).Once()
			},
			wantJSON: `{"ok":true}`,
		},
		{
			name:     "fallback key used when request has none",
			fallback: "env-key",
			req:      model.CleaningRequest{UserPrompt: "p", ExtractedText: "t", AIProvider: "gemini"},
			setupMocks: func(m *aiMocks.MockClient) {
				m.On("Generate", mock.Anything, "env-key", mock.Anything).Return(`[1,2]`, nil).Once()
			},
			wantJSON: `[1,2]`,
		},
		{
			name:     "request key wins over fallback",
			fallback: "env-key",
			req:      model.CleaningRequest{UserPrompt: "p", ExtractedText: "t", UserAPIKey: "req-key"},
			setupMocks: func(m *aiMocks.MockClient) {
				m.On("Generate", mock.Anything, "req-key", mock.Anything).Return(`{}`, nil).Once()
			},
			wantJSON: `{}`,
		},
		{
			name:     "empty prompt",
			fallback: "k",
			req:      model.CleaningRequest{ExtractedText: "t"},
			wantErr:  ErrValidation,
		},
		{
			name:     "whitespace text is still text",
			fallback: "k",
			req:      model.CleaningRequest{UserPrompt: "p", ExtractedText: "  \n"},
			setupMocks: func(m *aiMocks.MockClient) {
				m.On("Generate", mock.Anything, "k", "p\n\nText:\n  \n").Return(`[]`, nil).Once()
			},
			wantJSON: `[]`,
		},
		{
			name:     "whitespace prompt is still a prompt",
			fallback: "k",
			req:      model.CleaningRequest{UserPrompt: " ", ExtractedText: "t"},
			setupMocks: func(m *aiMocks.MockClient) {
				m.On("Generate", mock.Anything, "k", " \n\nText:\nt").Return(`{}`, nil).Once()
			},
			wantJSON: `{}`,
		},
		{
			name:    "no credential anywhere",
			req:     model.CleaningRequest{UserPrompt: "p", ExtractedText: "t"},
			wantErr: ErrMissingCredential,
		},
		{
			name:     "unknown provider",
			fallback: "k",
			req:      model.CleaningRequest{UserPrompt: "p", ExtractedText: "t", AIProvider: "mistral"},
			wantErr:  ErrUnsupportedProvider,
		},
		{
			name:     "rejected credential",
			fallback: "bad",
			req:      model.CleaningRequest{UserPrompt: "p", ExtractedText: "t"},
			setupMocks: func(m *aiMocks.MockClient) {
				m.On("Generate", mock.Anything, "bad", mock.Anything).Return("", ai.ErrInvalidCredential).Once()
			},
			wantErr: ErrInvalidCredential,
		},
		{
			name:     "unclassified provider failure",
			fallback: "k",
			req:      model.CleaningRequest{UserPrompt: "p", ExtractedText: "t"},
			setupMocks: func(m *aiMocks.MockClient) {
				m.On("Generate", mock.Anything, "k", mock.Anything).Return("", errors.New("connection reset")).Once()
			},
			wantErr: ErrProvider,
		},
		{
			name:     "invalid json",
			fallback: "k",
			req:      model.CleaningRequest{UserPrompt: "p", ExtractedText: "t"},
			setupMocks: func(m *aiMocks.MockClient) {
				m.On("Generate", mock.Anything, "k", mock.Anything).Return("Sure! Here is your data:", nil).Once()
			},
			wantErr: ErrInvalidAIResponse,
		},
		{
			name:     "trailing garbage",
			fallback: "k",
			req:      model.CleaningRequest{UserPrompt: "p", ExtractedText: "t"},
			setupMocks: func(m *aiMocks.MockClient) {
				m.On("Generate", mock.Anything, "k", mock.Anything).Return(`{"a":1} extra`, nil).Once()
			},
			wantErr: ErrInvalidAIResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, gemini, _ := newCleaning(t, tt.fallback)
			if tt.setupMocks != nil {
				tt.setupMocks(gemini)
			}

			res, err := svc.Clean(ctx, tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
			} else {
				require.NoError(t, err)
				assert.JSONEq(t, tt.wantJSON, string(res.Content))
				assert.Equal(t, "data/cleaned_data.json", res.Location)
				assert.False(t, res.Placeholder)
			}
			gemini.AssertExpectations(t)
		})
	}
}

func TestCleaningService_EmptyTextNeverDispatches(t *testing.T) {
	svc, gemini, _ := newCleaning(t, "k")

	_, err := svc.Clean(context.Background(), model.CleaningRequest{UserPrompt: "p", ExtractedText: ""})

	assert.ErrorIs(t, err, ErrValidation)
	gemini.AssertNumberOfCalls(t, "Generate", 0)
}

func TestCleaningService_ProviderWithoutClient(t *testing.T) {
	store, _ := newTestStore(t)
	svc := NewCleaningService(store, ai.Clients{ai.ProviderOpenAI: ai.NewPlaceholder()}, CleaningConfig{FallbackAPIKey: "k", Timeout: time.Second}, nopLog)

	_, err := svc.Clean(context.Background(), model.CleaningRequest{UserPrompt: "p", ExtractedText: "t", AIProvider: "gemini"})

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupportedProvider)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "gemini")
}

func TestCleaningService_OpenAIPlaceholder(t *testing.T) {
	svc, gemini, mem := newCleaning(t, "k")

	res, err := svc.Clean(context.Background(), model.CleaningRequest{
		UserPrompt: "p", ExtractedText: "t", AIProvider: "openai",
	})

	require.NoError(t, err)
	assert.True(t, res.Placeholder)
	assert.JSONEq(t, `"OpenAI processing is not implemented yet. Please use Gemini AI."`, string(res.Content))
	assert.Empty(t, res.Location)
	gemini.AssertNumberOfCalls(t, "Generate", 0)

	exists, _ := afero.Exists(mem, "data/cleaned_data.json")
	assert.False(t, exists)
}

func TestCleaningService_InvalidJSONKeepsPreviousResult(t *testing.T) {
	ctx := context.Background()
	svc, gemini, mem := newCleaning(t, "k")

	gemini.On("Generate", mock.Anything, "k", mock.Anything).Return(`[{"de_word":"Haus","en_word":"house"}]`, nil).Once()
	_, err := svc.Clean(ctx, model.CleaningRequest{UserPrompt: "p", ExtractedText: "Haus"})
	require.NoError(t, err)
	before, err := afero.ReadFile(mem, "data/cleaned_data.json")
	require.NoError(t, err)

	gemini.On("Generate", mock.Anything, "k", mock.Anything).Return("not json at all", nil).Once()
	_, err = svc.Clean(ctx, model.CleaningRequest{UserPrompt: "p", ExtractedText: "Haus"})
	require.ErrorIs(t, err, ErrInvalidAIResponse)
	assert.NotContains(t, err.Error(), "not json at all")

	after, err := afero.ReadFile(mem, "data/cleaned_data.json")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCleaningService_TimeoutApplied(t *testing.T) {
	svc, gemini, _ := newCleaning(t, "k")

	gemini.On("Generate", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), "k", mock.Anything).Return("", context.DeadlineExceeded).Once()

	_, err := svc.Clean(context.Background(), model.CleaningRequest{UserPrompt: "p", ExtractedText: "t"})
	assert.ErrorIs(t, err, ErrProvider)
	gemini.AssertExpectations(t)
}

func TestCleaningService_ResultAndExport(t *testing.T) {
	ctx := context.Background()
	svc, gemini, _ := newCleaning(t, "k")

	_, err := svc.Result(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Export(ctx, "csv")
	assert.ErrorIs(t, err, ErrNotFound)

	gemini.On("Generate", mock.Anything, "k", mock.Anything).Return(`[{"nl_word":"fiets","en_word":"bike"}]`, nil).Once()
	_, err = svc.Clean(ctx, model.CleaningRequest{UserPrompt: "p", ExtractedText: "fiets"})
	require.NoError(t, err)

	res, err := svc.Result(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"nl_word":"fiets","en_word":"bike"}]`, string(res.Content))

	file, err := svc.Export(ctx, "csv")
	require.NoError(t, err)
	assert.Equal(t, "nl_word,en_word\nfiets,bike\n", string(file.Data))

	_, err = svc.Export(ctx, "docx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestCleaningService_ResultMalformed(t *testing.T) {
	store, mem := newTestStore(t)
	svc := NewCleaningService(store, ai.Clients{}, CleaningConfig{}, nopLog)
	require.NoError(t, afero.WriteFile(mem, "data/cleaned_data.json", []byte("{oops"), 0o644))

	_, err := svc.Result(context.Background())
	assert.ErrorIs(t, err, ErrMalformed)
	assert.ErrorIs(t, err, docstore.ErrMalformed)
}
