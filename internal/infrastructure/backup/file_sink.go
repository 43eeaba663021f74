// Package backup implementa los destinos de los respaldos completos.
package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileSink escribe los respaldos en un directorio local.
type FileSink struct {
	dir string
}

// NewFileSink crea el directorio si no existe.
func NewFileSink(dir string) (*FileSink, error) {
	if dir == "" {
		return nil, fmt.Errorf("backup: directorio requerido")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("backup: crear directorio: %w", err)
	}
	return &FileSink{dir: dir}, nil
}

// Upload escribe a un temporal y renombra, así nunca queda un respaldo a medias.
func (s *FileSink) Upload(ctx context.Context, name string, body io.Reader, _ int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dst := filepath.Join(s.dir, filepath.Base(name))
	tmp, err := os.CreateTemp(s.dir, ".backup-*")
	if err != nil {
		return "", fmt.Errorf("backup: crear temporal: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("backup: escribir: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("backup: renombrar: %w", err)
	}
	return dst, nil
}
