// Package store abre la variante de almacén de clientes elegida en la configuración.
package store

import (
	"context"
	"fmt"

	"github.com/jhoicas/clientes-admin/internal/domain/repository"
	"github.com/jhoicas/clientes-admin/internal/infrastructure/localstore"
	"github.com/jhoicas/clientes-admin/internal/infrastructure/memory"
	"github.com/jhoicas/clientes-admin/internal/infrastructure/postgres"
	"github.com/jhoicas/clientes-admin/internal/infrastructure/remote"
	"github.com/jhoicas/clientes-admin/pkg/config"
	"github.com/jhoicas/clientes-admin/pkg/logger"
)

// Store repositorio abierto más sus recursos.
type Store struct {
	Kind  string
	Repo  repository.CustomerRepository
	Batch repository.CustomerBatchCreator // nil si la variante no importa en lote

	closers []func() error
}

// Close libera conexiones y archivos.
func (s *Store) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}

// Open construye el almacén según cfg.Store.Kind. Para postgres aplica las migraciones pendientes.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.Nop()
	}
	sc := cfg.Store
	s := &Store{Kind: sc.Kind}

	switch sc.Kind {
	case config.StoreMemory:
		var opts []memory.Option
		if sc.Seed {
			opts = append(opts, memory.WithSeed(memory.DemoSeed()...))
		}
		repo := memory.NewCustomerRepository(opts...)
		s.Repo, s.Batch = repo, repo

	case config.StoreLocal:
		slot, err := localstore.NewSQLiteSlot(sc.LocalPath)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, slot.Close)
		repo, err := localstore.Open(ctx, slot, sc.SlotName, localstore.WithLogger(log.Zerolog()))
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.Repo, s.Batch = repo, repo

	case config.StoreRedis:
		slot, err := localstore.NewRedisSlot(ctx, sc.RedisAddr, sc.RedisPassword, sc.RedisDB)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, slot.Close)
		repo, err := localstore.Open(ctx, slot, sc.SlotName, localstore.WithLogger(log.Zerolog()))
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.Repo, s.Batch = repo, repo

	case config.StoreRemote:
		s.Repo = remote.NewCustomerRepository(sc.RemoteURL, sc.RemoteTimeout)

	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() error { pool.Close(); return nil })
		runner := postgres.NewTxRunner(pool)
		if err := postgres.Migrate(ctx, runner, pool, log.Zerolog()); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("migraciones: %w", err)
		}
		s.Repo = postgres.NewCustomerRepository(pool)
		s.Batch = postgres.NewCustomerImporter(runner)

	default:
		return nil, fmt.Errorf("almacén desconocido: %q", sc.Kind)
	}

	log.Info().Str("store", sc.Kind).Msg("almacén de clientes abierto")
	return s, nil
}
