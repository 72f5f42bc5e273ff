// Package bootstrap assembles storage, services and the optional database
// from configuration. The API server and the CLI share it.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"docclean/internal/ai"
	"docclean/internal/config"
	"docclean/internal/database"
	"docclean/internal/database/migration"
	"docclean/internal/docstore"
	"docclean/internal/logging"
	"docclean/internal/repository"
	"docclean/internal/repository/postgres"
	"docclean/internal/service"
	"docclean/internal/storage"
)

// Services is the assembled application core.
type Services struct {
	Backend   storage.Storage
	Store     *docstore.Store
	Documents service.DocumentService
	Cleaning  service.CleaningService
	Words     service.WordService
	// DB is nil when no database is configured.
	DB *sql.DB
}

// Close releases the database pool, if any.
func (s *Services) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// NewStorage selects the artifact backend named by cfg.Storage.Backend.
func NewStorage(cfg *config.AppConfig) (storage.Storage, error) {
	switch cfg.Storage.Backend {
	case "fs", "":
		return storage.NewFilesystem(filepath.Clean(cfg.Storage.Root))
	case "minio":
		return storage.NewMinIO(cfg.MinIO)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// Build wires every service. The database is connected and migrated only
// when configured; without it the word list answers ErrDatabaseDisabled.
func Build(ctx context.Context, cfg *config.AppConfig, log logging.Logger) (*Services, error) {
	backend, err := NewStorage(cfg)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	store := docstore.New(backend,
		docstore.DefaultLayout(cfg.Storage.UploadDir, cfg.Storage.DataDir),
		time.Duration(cfg.MinIO.PresignExpirySec)*time.Second)

	clients := ai.Clients{
		ai.ProviderGemini: ai.NewGemini(cfg.AI.GeminiModel, log),
		ai.ProviderOpenAI: ai.NewPlaceholder(),
	}

	s := &Services{
		Backend:   backend,
		Store:     store,
		Documents: service.NewDocumentService(store, log),
		Cleaning: service.NewCleaningService(store, clients, service.CleaningConfig{
			FallbackAPIKey: cfg.AI.GeminiAPIKey,
			Timeout:        time.Duration(cfg.AI.RequestTimeoutSec) * time.Second,
		}, log),
	}

	var words repository.WordRepository
	if cfg.Database.Enabled() {
		db, err := database.NewPostgres(ctx, cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		if err := migration.EnsureMigrated(ctx, db, log); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		s.DB = db
		words = postgres.NewWordPostgres(db)
	} else {
		log.Warn("DB_HOST not set; word list disabled")
	}
	s.Words = service.NewWordService(words, store, log)

	return s, nil
}
