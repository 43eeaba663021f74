package ports

import (
	"context"
	"io"
)

// BackupSink destino externo de los respaldos completos (directorio, S3).
type BackupSink interface {
	Upload(ctx context.Context, name string, body io.Reader, size int64) (location string, err error)
}
