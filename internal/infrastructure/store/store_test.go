package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clientes-admin/internal/domain/repository/repositorytest"
	"github.com/jhoicas/clientes-admin/internal/infrastructure/store"
	"github.com/jhoicas/clientes-admin/pkg/config"
)

func TestOpen_MemoriaConSemilla(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Kind: config.StoreMemory, Seed: true}}
	s, err := store.Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer s.Close()

	list, err := s.Repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.NotNil(t, s.Batch)
}

func TestOpen_LocalPersisteEntreAperturas(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Store: config.StoreConfig{
		Kind:      config.StoreLocal,
		LocalPath: filepath.Join(t.TempDir(), "sub", "clientes.db"),
		SlotName:  "customers",
	}}

	s, err := store.Open(ctx, cfg, nil)
	require.NoError(t, err)
	_, err = s.Repo.Create(ctx, repositorytest.Ayse())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = store.Open(ctx, cfg, nil)
	require.NoError(t, err)
	defer s.Close()
	list, err := s.Repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ayşe", list[0].Name)
}

func TestOpen_Desconocido(t *testing.T) {
	_, err := store.Open(context.Background(), &config.Config{Store: config.StoreConfig{Kind: "ftp"}}, nil)
	assert.Error(t, err)
}
