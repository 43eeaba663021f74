// Package storage elige la implementación del DocumentStore según la configuración.
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Stockeando-api/internal/domain/repository"
	"github.com/jhoicas/Stockeando-api/internal/infrastructure/docstore"
	"github.com/jhoicas/Stockeando-api/internal/infrastructure/memory"
	"github.com/jhoicas/Stockeando-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Stockeando-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/Stockeando-api/pkg/config"
)

// Open abre el store de cfg.Store.Driver (sqlite | postgres | memory).
// sqlite y postgres quedan envueltos con timeout y reintentos; close libera
// la conexión y siempre es distinto de nil.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store repository.DocumentStore, close func(), err error) {
	policy := docstore.RetryPolicy{
		Timeout:  cfg.Store.Timeout(),
		Attempts: cfg.Store.Retries,
		Backoff:  cfg.Store.RetryBackoff(),
	}
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return memory.NewStore(), func() {}, nil
	case config.DriverSQLite:
		s, err := sqlite.NewStore(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, func() {}, err
		}
		log.Info().Str("path", s.Path()).Msg("store sqlite abierto")
		policy.Retryable = sqlite.IsTransient
		return docstore.NewResilient(s, policy, log), func() { _ = s.Close() }, nil
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, func() {}, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		s, err := postgres.NewDocumentStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, func() {}, err
		}
		log.Info().Str("host", cfg.DB.Host).Msg("store postgres abierto")
		policy.Retryable = postgres.IsTransient
		return docstore.NewResilient(s, policy, log), pool.Close, nil
	default:
		return nil, func() {}, fmt.Errorf("driver de store desconocido %q", cfg.Store.Driver)
	}
}
