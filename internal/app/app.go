// Package app builds the components shared by the server and the CLI from
// configuration.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"facturaval/internal/config"
	"facturaval/internal/extractor/documentai"
	"facturaval/internal/port"
	"facturaval/internal/repository/memory"
	"facturaval/internal/repository/postgres"
	"facturaval/internal/storage/noop"
	s3storage "facturaval/internal/storage/s3"
	"facturaval/internal/validator"
	"facturaval/internal/validator/field"
)

// NewDomainKnowledgeBase returns the built-in email domains, extended from
// the configured domains file when there is one.
func NewDomainKnowledgeBase(cfg *config.EngineConfig) (*field.DomainKnowledgeBase, error) {
	if cfg.DomainsFile == "" {
		return field.DefaultDomainKnowledgeBase(), nil
	}
	return field.LoadDomainKnowledgeBase(cfg.DomainsFile)
}

// NewEngine builds the validation engine from cfg.
func NewEngine(cfg *config.EngineConfig) (*validator.Engine, error) {
	kb, err := NewDomainKnowledgeBase(cfg)
	if err != nil {
		return nil, err
	}
	return validator.NewEngine(validator.Options{
		LineItemSlots:    cfg.LineItemSlots,
		Domains:          kb,
		SimilarityCutoff: cfg.SimilarityCutoff,
	})
}

// NewExtractor returns the Document AI extractor, or nil when no processor
// is configured.
func NewExtractor(cfg *config.ExtractorConfig, log *zap.Logger) (port.FragmentExtractor, error) {
	if !cfg.Enabled() {
		log.Warn("app.NewExtractor: no processor configured, image extraction disabled")
		return nil, nil
	}
	ext, err := documentai.NewExtractor(cfg, log)
	if err != nil {
		return nil, err
	}
	return ext, nil
}

// NewObjectStorage returns S3 storage when a bucket is configured, noop otherwise.
func NewObjectStorage(ctx context.Context, cfg *config.S3Config, log *zap.Logger) (port.ObjectStorage, error) {
	if cfg.Bucket == "" {
		log.Info("app.NewObjectStorage: no bucket configured, source documents are not archived")
		return noop.NewNoopStorage(log), nil
	}
	return s3storage.NewS3Client(ctx, cfg)
}

// Store is the configured record repository plus its cleanup.
type Store struct {
	Repo  port.RecordRepository
	close func()
}

// Close releases the store's resources.
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// NewStore opens the configured record repository. The memory store runs
// an expiry sweeper until ctx is done.
func NewStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := postgres.NewDB(ctx, &cfg.DB)
		if err != nil {
			return nil, err
		}
		return &Store{
			Repo:  postgres.NewRecordRepo(db),
			close: func() { closeDB(db, log) },
		}, nil
	case config.StoreDriverMemory:
		repo := memory.NewRecordRepo(cfg.Store.TTL)
		if cfg.Store.TTL > 0 {
			go repo.RunSweeper(ctx, sweepInterval(cfg.Store.TTL))
		}
		return &Store{Repo: repo}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func sweepInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	return interval
}

func closeDB(db *sqlx.DB, log *zap.Logger) {
	if err := db.Close(); err != nil {
		log.Warn("app.Store: closing database failed", zap.Error(err))
	}
}
