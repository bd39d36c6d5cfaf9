// Package storage guarda firmas y PDFs generados en disco local o en S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/jhoicas/albaranes-api/pkg/config"
)

// ErrInvalidKey clave vacía, absoluta o que intenta salir del directorio base.
var ErrInvalidKey = errors.New("storage: clave inválida")

// ErrObjectNotFound el objeto no existe.
var ErrObjectNotFound = errors.New("storage: objeto no encontrado")

// Backend operaciones comunes a todos los drivers. Las claves usan "/" como separador.
type Backend interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
	Open(ctx context.Context, key string) ([]byte, error)
}

var (
	_ Backend = (*Local)(nil)
	_ Backend = (*S3)(nil)
)

// New construye el backend según cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (Backend, error) {
	switch cfg.Driver {
	case "", "local":
		l, err := NewLocal(cfg.LocalDir)
		if err != nil {
			return nil, err
		}
		return l, nil
	case "s3":
		s, err := NewS3(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("storage: driver no soportado %q", cfg.Driver)
	}
}

// cleanKey normaliza la clave con separadores "/" y rechaza rutas que escapan.
func cleanKey(key string) (string, error) {
	key = strings.ReplaceAll(strings.TrimSpace(key), "\\", "/")
	if key == "" || strings.HasPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	clean := path.Clean(key)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidKey
	}
	return clean, nil
}
