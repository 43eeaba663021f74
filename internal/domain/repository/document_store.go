package repository

import "context"

// Claves de los documentos persistidos.
const (
	KeyInventory     = "inventory"
	KeyMachines      = "machines"
	KeyProductStates = "product_states"
	KeyMovements     = "movements"
	KeyQRCodes       = "qr_codes"
	KeyCategories    = "categories"
	KeyRejections    = "rejections"
	KeyDailyCounter  = "daily_counter"
	KeyUsers         = "users"
)

// DocumentStore almacenamiento clave-valor de documentos JSON.
// Sin transacciones: cada escritura reemplaza el documento completo.
type DocumentStore interface {
	// Get devuelve el documento y found=false si la clave no existe.
	Get(ctx context.Context, key string) (payload []byte, found bool, err error)
	Put(ctx context.Context, key string, payload []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}
