package cmd

import (
	"fmt"

	"doc-composer/core/config"
	"doc-composer/core/database"
	"doc-composer/core/library"
	"doc-composer/core/logger"
	"doc-composer/core/storage"
	"doc-composer/feature/compose"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// environment holds what every command needs: configuration, logger,
// storage, the optional catalog and the library cache built from them.
type environment struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   storage.Client
	db      *gorm.DB
	catalog *library.CatalogSource
	cache   *library.Cache
}

// setup loads configuration and builds the library.
// A catalog that cannot be reached is skipped with a warning, unless
// requireCatalog is set.
func setup(requireCatalog bool) (*environment, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	store, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	env := &environment{cfg: cfg, logger: logg, store: store}

	if cfg.Library.UseCatalog || requireCatalog {
		db, err := database.Connect(cfg.Database)
		switch {
		case err == nil:
			env.db = db
			env.catalog = library.NewCatalogSource(db, cfg.Library.CatalogTable, store)
			logg.Info("Connected to catalog database", zap.String("table", env.catalog.Table))
		case requireCatalog:
			return nil, fmt.Errorf("database connection required: %w", err)
		default:
			logg.Warn("Optional catalog connection failed", zap.Error(err))
		}
	}

	env.cache = library.NewCache(env.library(), cfg.Library.CacheTTL())
	return env, nil
}

// library assembles the configured sources: directories first, then the
// bucket prefix, then the catalog.
func (e *environment) library() *library.Library {
	lc := e.cfg.Library

	var sources []library.Source
	for _, dir := range lc.Directories() {
		sources = append(sources, library.NewDirSource(dir, lc.Extension))
	}
	if lc.BucketPrefix != "" {
		sources = append(sources, library.NewBucketSource(e.store, e.cfg.Storage.Bucket, lc.BucketPrefix, lc.Extension))
	}
	if e.catalog != nil && lc.UseCatalog {
		sources = append(sources, e.catalog)
	}
	return library.New(sources...)
}

// service creates the compose service from configuration.
func (e *environment) service() *compose.Service {
	opts := e.cfg.Compose.Options(e.cfg.Library.CollisionPolicy)
	return compose.NewService(e.cache, e.store, e.cfg.Storage.Bucket, e.logger, opts)
}

func (e *environment) close() {
	_ = e.logger.Sync()
	if e.db != nil {
		if sqlDB, err := e.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
