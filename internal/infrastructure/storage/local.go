package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Local guarda los objetos como archivos bajo un directorio base.
// cmd/api sirve ese directorio como estático en /storage.
type Local struct {
	baseDir string
}

// NewLocal crea el directorio base si no existe.
func NewLocal(baseDir string) (*Local, error) {
	if baseDir == "" {
		baseDir = "./storage"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: crear %s: %w", baseDir, err)
	}
	return &Local{baseDir: baseDir}, nil
}

// Dir directorio base.
func (l *Local) Dir() string { return l.baseDir }

// Save escribe data en baseDir/key creando los subdirectorios necesarios.
func (l *Local) Save(_ context.Context, key string, data []byte, _ string) error {
	clean, err := cleanKey(key)
	if err != nil {
		return err
	}
	full := filepath.Join(l.baseDir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage: crear directorio: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("storage: escribir %s: %w", clean, err)
	}
	return nil
}

// Open lee el objeto completo.
func (l *Local) Open(_ context.Context, key string) ([]byte, error) {
	clean, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(l.baseDir, filepath.FromSlash(clean)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: leer %s: %w", clean, err)
	}
	return data, nil
}
