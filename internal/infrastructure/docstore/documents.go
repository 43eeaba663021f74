// Package docstore implementa los repositorios tipados del dominio sobre un
// repository.DocumentStore: cada documento se lee completo, se modifica en
// memoria y se reescribe completo.
//
// Los elementos ilegibles se descartan al leer y el documento original se
// guarda bajo CorruptBackupKey antes de que una escritura lo reemplace.
package docstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Stockeando-api/internal/application/ports"
	"github.com/jhoicas/Stockeando-api/internal/domain/entity"
	"github.com/jhoicas/Stockeando-api/internal/domain/repository"
)

// codec lectura/escritura JSON compartida por todos los repositorios.
type codec struct {
	store repository.DocumentStore
	log   zerolog.Logger
	diag  ports.Diagnostics
}

// CorruptBackupKey clave donde se conserva el payload original de un documento
// que no se pudo leer completo. Depende del contenido: el mismo payload
// ilegible siempre cae en la misma clave.
func CorruptBackupKey(key string, payload []byte) string {
	sum := sha256.Sum256(payload)
	return key + ".corrupt." + hex.EncodeToString(sum[:6])
}

// loadRaw payload crudo; found=false si no existe o está vacío.
func (c codec) loadRaw(ctx context.Context, key string) ([]byte, bool, error) {
	payload, found, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("leer documento %s: %w", key, err)
	}
	if !found || len(bytes.TrimSpace(payload)) == 0 {
		return nil, false, nil
	}
	return payload, true, nil
}

// load decodifica el documento completo en dst. Si no existe deja dst intacto
// y devuelve found=false. Un documento ilegible se trata como ausente, previo
// respaldo del original.
func (c codec) load(ctx context.Context, key string, dst any) (bool, error) {
	payload, found, err := c.loadRaw(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		// descartar lo decodificado parcialmente
		rv := reflect.ValueOf(dst).Elem()
		rv.Set(reflect.Zero(rv.Type()))
		return false, c.degraded(ctx, key, payload, err)
	}
	return true, nil
}

// degraded registra que el documento se leyó con pérdidas y guarda el payload
// original aparte. La próxima escritura del documento reemplaza solo la copia
// principal. Si el respaldo no se puede escribir se devuelve error y la
// operación no continúa.
func (c codec) degraded(ctx context.Context, key string, payload []byte, cause error) error {
	backupKey := CorruptBackupKey(key, payload)
	c.log.Warn().Err(cause).Str("key", key).Str("backup_key", backupKey).Int("bytes", len(payload)).
		Msg("documento con datos ilegibles, se conserva el original aparte")
	c.diag.DocumentUnreadable(key)

	if _, exists, err := c.store.Get(ctx, backupKey); err == nil && exists {
		return nil
	}
	if err := c.store.Put(ctx, backupKey, payload); err != nil {
		return fmt.Errorf("respaldar documento ilegible %s: %w", key, err)
	}
	return nil
}

// decodeList decodifica un array elemento por elemento. Los elementos
// ilegibles se descartan y se informan en el error; el slice nunca es nil.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	out := []T{}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return out, nil
	}
	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return out, err
	}
	var errs []error
	for i, p := range parts {
		var v T
		if err := json.Unmarshal(p, &v); err != nil {
			errs = append(errs, fmt.Errorf("elemento %d: %w", i, err))
			continue
		}
		out = append(out, v)
	}
	return out, errors.Join(errs...)
}

// loadList lee un documento array tolerando elementos ilegibles.
func loadList[T any](ctx context.Context, c codec, key string) ([]T, error) {
	payload, found, err := c.loadRaw(ctx, key)
	if err != nil || !found {
		return []T{}, err
	}
	out, cause := decodeList[T](payload)
	if cause != nil {
		if err := c.degraded(ctx, key, payload, cause); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// loadCollections lee un documento {colección: [materiales]} (inventory,
// machines). Una colección null queda en nil para que el validador la detecte.
// found=false si el documento no existe o no es un objeto.
func loadCollections(ctx context.Context, c codec, key string) (map[string][]entity.Item, bool, error) {
	payload, found, err := c.loadRaw(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, false, c.degraded(ctx, key, payload, err)
	}
	out := make(map[string][]entity.Item, len(raw))
	var errs []error
	for name, r := range raw {
		if bytes.Equal(bytes.TrimSpace(r), []byte("null")) {
			out[name] = nil
			continue
		}
		items, cause := decodeList[entity.Item](r)
		if cause != nil {
			errs = append(errs, fmt.Errorf("colección %s: %w", name, cause))
		}
		out[name] = items
	}
	if err := errors.Join(errs...); err != nil {
		if err := c.degraded(ctx, key, payload, err); err != nil {
			return nil, false, err
		}
	}
	return out, true, nil
}

func (c codec) save(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("codificar documento %s: %w", key, err)
	}
	if err := c.store.Put(ctx, key, payload); err != nil {
		return fmt.Errorf("guardar documento %s: %w", key, err)
	}
	return nil
}

// Repositories agrupa los repositorios tipados construidos sobre el mismo store.
type Repositories struct {
	Inventory     *InventoryRepo
	Machines      *MachineRepo
	Counter       *CounterRepo
	Categories    *CategoryRepo
	Movements     *MovementRepo
	ProductStates *ProductStateRepo
	Rejections    *RejectionRepo
	QRCodes       *QRRepo
	Users         *UserRepo
}

// New construye todos los repositorios. diag puede ser nil.
func New(store repository.DocumentStore, log zerolog.Logger, diag ports.Diagnostics) *Repositories {
	if diag == nil {
		diag = ports.NopDiagnostics{}
	}
	c := codec{store: store, log: log.With().Str("component", "docstore").Logger(), diag: diag}
	return &Repositories{
		Inventory:     &InventoryRepo{c: c},
		Machines:      &MachineRepo{c: c},
		Counter:       &CounterRepo{c: c},
		Categories:    &CategoryRepo{c: c},
		Movements:     &MovementRepo{c: c},
		ProductStates: &ProductStateRepo{c: c},
		Rejections:    &RejectionRepo{c: c},
		QRCodes:       &QRRepo{c: c},
		Users:         &UserRepo{c: c},
	}
}
