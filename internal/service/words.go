package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"docclean/internal/docstore"
	"docclean/internal/logging"
	"docclean/internal/model"
	"docclean/internal/repository"
)

// vocabularySchema describes the cleaned result produced by the word extraction templates.
const vocabularySchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["en_word"],
    "properties": {
      "en_word": {"type": "string", "minLength": 1}
    },
    "patternProperties": {
      "^[a-z]{2}_(word|example|gender|category)$": {"type": ["string", "null"]}
    }
  }
}`

var vocabulary = jsonschema.MustCompileString("vocabulary.json", vocabularySchema)

// WordListResult is a page of word list entries.
type WordListResult struct {
	Items []model.WordEntry `json:"data"`
	Total int               `json:"total"`
}

// WordService manages the vocabulary word list.
type WordService interface {
	Add(ctx context.Context, word, meaning, example string) (*model.WordEntry, error)
	List(ctx context.Context, limit, offset int) (*WordListResult, error)
	Delete(ctx context.Context, id string) error
	// ImportCleaned stores every vocabulary row of the cleaned result and returns how many were added.
	ImportCleaned(ctx context.Context) (int, error)
}

type wordService struct {
	repo  repository.WordRepository
	store *docstore.Store
	log   logging.Logger
}

// NewWordService returns a WordService. A nil repo yields a service whose
// every call fails with ErrDatabaseDisabled.
func NewWordService(repo repository.WordRepository, store *docstore.Store, log logging.Logger) WordService {
	return &wordService{repo: repo, store: store, log: log.WithField(logging.FieldComponent, "wordlist")}
}

func (s *wordService) Add(ctx context.Context, word, meaning, example string) (*model.WordEntry, error) {
	if s.repo == nil {
		return nil, ErrDatabaseDisabled
	}
	word, meaning = strings.TrimSpace(word), strings.TrimSpace(meaning)
	if word == "" || meaning == "" {
		return nil, fmt.Errorf("%w: word and meaning are required", ErrValidation)
	}
	return s.repo.Create(ctx, &model.WordEntry{Word: word, Meaning: meaning, Example: strings.TrimSpace(example)})
}

func (s *wordService) List(ctx context.Context, limit, offset int) (*WordListResult, error) {
	if s.repo == nil {
		return nil, ErrDatabaseDisabled
	}
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &WordListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *wordService) Delete(ctx context.Context, id string) error {
	if s.repo == nil {
		return ErrDatabaseDisabled
	}
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrValidation)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: word %s", ErrNotFound, id)
		}
		return err
	}
	return nil
}

func (s *wordService) ImportCleaned(ctx context.Context) (int, error) {
	if s.repo == nil {
		return 0, ErrDatabaseDisabled
	}
	raw, err := s.store.GetJSON(ctx, docstore.SlotCleanedResult)
	if err != nil {
		return 0, notFound(err, "no cleaned result yet")
	}

	words, err := vocabularyRows(raw)
	if err != nil {
		return 0, err
	}
	n, err := s.repo.CreateMany(ctx, words)
	if err != nil {
		return 0, fmt.Errorf("import words: %w", err)
	}
	logging.WithContext(ctx, s.log).Info("vocabulary imported", logging.F(logging.FieldCount, n))
	return n, nil
}

// vocabularyRows validates raw and maps <lang>_word, en_word and
// <lang>_example onto word, meaning and example.
func vocabularyRows(raw json.RawMessage) ([]model.WordEntry, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := vocabulary.Validate(v); err != nil {
		return nil, fmt.Errorf("%w: cleaned result is not a vocabulary list: %v", ErrValidation, err)
	}

	items := v.([]any)
	out := make([]model.WordEntry, 0, len(items))
	for i, it := range items {
		row := it.(map[string]any)
		lang := foreignLang(row)
		if lang == "" {
			return nil, fmt.Errorf("%w: row %d has no foreign word", ErrValidation, i)
		}
		out = append(out, model.WordEntry{
			Word:    str(row[lang+"_word"]),
			Meaning: str(row["en_word"]),
			Example: str(row[lang+"_example"]),
		})
	}
	return out, nil
}

// foreignLang returns the prefix of the first non-empty <lang>_word key other than en_word.
func foreignLang(row map[string]any) string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		lang, ok := strings.CutSuffix(k, "_word")
		if !ok || lang == "en" || lang == "" {
			continue
		}
		if str(row[k]) != "" {
			return lang
		}
	}
	return ""
}

func str(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
