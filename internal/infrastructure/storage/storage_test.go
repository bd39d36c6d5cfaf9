package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/albaranes-api/internal/infrastructure/storage"
	"github.com/jhoicas/albaranes-api/pkg/config"
)

func TestLocal_SaveYOpen(t *testing.T) {
	st, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, "firmas/firma-1.png", []byte("png"), "image/png"))

	data, err := st.Open(ctx, "firmas/firma-1.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)
}

func TestLocal_ClavesInvalidas(t *testing.T) {
	st, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"", "/etc/passwd", "../fuera.txt", "a/../../fuera.txt"} {
		assert.ErrorIs(t, st.Save(ctx, key, []byte("x"), ""), storage.ErrInvalidKey, key)
	}
}

func TestLocal_NoExiste(t *testing.T) {
	st, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = st.Open(context.Background(), "ficheros-generados/nada.pdf")
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
}

func TestNew_Drivers(t *testing.T) {
	_, err := storage.New(context.Background(), config.StorageConfig{Driver: "local", LocalDir: t.TempDir()})
	assert.NoError(t, err)

	_, err = storage.New(context.Background(), config.StorageConfig{Driver: "s3"})
	assert.Error(t, err, "sin bucket no se puede construir S3")

	_, err = storage.New(context.Background(), config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)
}
