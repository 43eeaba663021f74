package ledger_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Stockeando-api/internal/application/ledger"
	"github.com/jhoicas/Stockeando-api/internal/domain/entity"
	"github.com/jhoicas/Stockeando-api/internal/infrastructure/docstore"
	"github.com/jhoicas/Stockeando-api/internal/infrastructure/memory"
)

var hoy = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newLedger(t *testing.T) (*ledger.Service, *docstore.Repositories, *clock) {
	t.Helper()
	repos := docstore.New(memory.NewStore(), zerolog.Nop(), nil)
	c := &clock{t: hoy}
	svc := ledger.NewService(repos.Movements, repos.ProductStates, repos.Inventory, repos.Machines, zerolog.Nop(), nil).
		WithClock(c.now)
	return svc, repos, c
}

func seedInventory(t *testing.T, repos *docstore.Repositories, coll string, items ...entity.Item) {
	t.Helper()
	ctx := context.Background()
	inv, err := repos.Inventory.Get(ctx)
	require.NoError(t, err)
	inv[coll] = append(inv.Get(coll), items...)
	require.NoError(t, repos.Inventory.Save(ctx, inv))
}

func TestRegisterMovement_HistorialYUbicacion(t *testing.T) {
	ctx := context.Background()
	svc, repos, _ := newLedger(t)
	seedInventory(t, repos, entity.CollectionDeposit, entity.Item{ID: "p1", Name: "Resina", Code: "RE-010124-A", Lot: "L1"})

	mov, err := svc.RegisterMovement(ctx, "p1", "deposito", "plant1deposit", "", entity.MovementDetails{})
	require.NoError(t, err)
	assert.Equal(t, "planta1", mov.To)
	assert.Equal(t, entity.DefaultActor, mov.User)
	assert.Equal(t, "Resina", mov.ProductData.Name)
	assert.False(t, mov.ProductData.Unknown)
	assert.Equal(t, hoy, mov.Timestamp)

	loc, found, err := svc.CurrentLocation(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "planta1", loc)

	_, found, err = svc.CurrentLocation(ctx, "nunca-movido")
	require.NoError(t, err)
	assert.False(t, found)

	history, err := svc.ProductHistory(ctx, "nunca-movido")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestRegisterMovement_ActorDelContexto(t *testing.T) {
	svc, _, _ := newLedger(t)
	ctx := ledger.WithActor(context.Background(), "ana")
	mov, err := svc.RegisterMovement(ctx, "p1", "deposito", "transito", "r", entity.MovementDetails{})
	require.NoError(t, err)
	assert.Equal(t, "ana", mov.User)

	assert.Equal(t, entity.DefaultActor, ledger.ActorFromContext(ledger.WithActor(context.Background(), "  ")))
}

func TestRegisterMovement_MaterialDesconocido(t *testing.T) {
	svc, _, _ := newLedger(t)
	mov, err := svc.RegisterMovement(context.Background(), "fantasma", "deposito", "planta2", "x", entity.MovementDetails{})
	require.NoError(t, err)
	assert.True(t, mov.ProductData.Unknown)
	assert.Equal(t, entity.PlaceholderText, mov.ProductData.Name)
	assert.Equal(t, entity.PlaceholderText, mov.ProductData.Code)
	assert.Equal(t, "fantasma", mov.ProductData.ID)
}

func TestRegisterMovement_CompletaDesdeLaPlanta(t *testing.T) {
	ctx := context.Background()
	svc, repos, _ := newLedger(t)
	seedInventory(t, repos, "planta1", entity.Item{ID: "otro", Name: "Bobina", Code: "BO-010124-A", Lot: "L7"})
	ms := entity.NewMachineState()
	ms[string(entity.Plant1MachineA)] = []entity.Item{{ID: "m1", Name: "Bobina", MachineEntryDate: "2024-03-09"}}
	require.NoError(t, repos.Machines.Save(ctx, ms))

	mov, err := svc.RegisterMovement(ctx, "m1", "plant1MachineA", "planta1", "", entity.MovementDetails{})
	require.NoError(t, err)
	assert.Equal(t, "m1", mov.ProductData.ID)
	assert.Equal(t, "BO-010124-A", mov.ProductData.Code)
	assert.Equal(t, "L7", mov.ProductData.Lot)
	assert.Equal(t, "2024-03-09", mov.ProductData.MachineEntryDate)
}

func TestRegisterMovement_RelojAtrasadoNoRompeOrden(t *testing.T) {
	ctx := context.Background()
	svc, _, c := newLedger(t)
	_, err := svc.RegisterMovement(ctx, "p1", "deposito", "planta1", "", entity.MovementDetails{})
	require.NoError(t, err)
	c.t = hoy.Add(-time.Hour)
	mov, err := svc.RegisterMovement(ctx, "p1", "planta1", "deposito", "", entity.MovementDetails{})
	require.NoError(t, err)
	assert.Equal(t, hoy, mov.Timestamp)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newLedger(t)
	_, err := svc.RegisterMovement(ctx, "p1", "deposito", "planta1", "", entity.MovementDetails{})
	require.NoError(t, err)
	rej, err := svc.RegisterRejection(ctx, "p1", "planta1", "fisura", "control")
	require.NoError(t, err)
	assert.Equal(t, "control", rej.RejectedBy)
	assert.Equal(t, "2024-03-10", rej.RejectionDate)
	_, err = svc.RegisterRejection(ctx, "p2", "rechazados", "mancha", "control")
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStats{
		Total:      3,
		Today:      3,
		Rejected:   2,
		ByLocation: map[string]int{entity.RejectedSink: 2, "planta1": 1},
	}, stats)
}

func TestCleanOldMovements_NoTocaHistorial(t *testing.T) {
	ctx := context.Background()
	svc, _, c := newLedger(t)
	c.t = hoy.AddDate(0, 0, -40)
	_, err := svc.RegisterMovement(ctx, "p1", "deposito", "planta1", "", entity.MovementDetails{})
	require.NoError(t, err)
	c.t = hoy
	_, err = svc.RegisterMovement(ctx, "p1", "planta1", "transito", "", entity.MovementDetails{})
	require.NoError(t, err)

	removed, err := svc.CleanOldMovements(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	all, err := svc.AllMovements(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "transito", all[0].To)

	history, err := svc.ProductHistory(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, history, 2)

	removed, err = svc.CleanOldMovements(ctx, 30)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestExportImport_IdaYVuelta(t *testing.T) {
	ctx := context.Background()
	svc, repos, _ := newLedger(t)
	seedInventory(t, repos, entity.CollectionDeposit, entity.Item{ID: "p1", Name: "Resina", Weight: entity.WeightFromFloat(12.5)})
	_, err := svc.RegisterMovement(ctx, "p1", "deposito", "planta3", "", entity.MovementDetails{})
	require.NoError(t, err)
	_, err = svc.RegisterRejection(ctx, "p1", "planta3", "fisura", "control")
	require.NoError(t, err)

	exported, err := svc.ExportData(ctx)
	require.NoError(t, err)
	assert.Equal(t, hoy, exported.ExportDate)
	payload, err := json.Marshal(exported)
	require.NoError(t, err)

	doc, err := ledger.DecodeImport(payload)
	require.NoError(t, err)
	other, _, _ := newLedger(t)
	require.NoError(t, other.ImportData(ctx, doc))

	back, err := other.ExportData(ctx)
	require.NoError(t, err)
	again, err := svc.ExportData(ctx)
	require.NoError(t, err)
	assert.Equal(t, again.Movements, back.Movements)
	assert.Equal(t, again.ProductStates, back.ProductStates)
}

func TestImportData_SoloClavesPresentes(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newLedger(t)
	_, err := svc.RegisterMovement(ctx, "p1", "deposito", "planta1", "", entity.MovementDetails{})
	require.NoError(t, err)

	doc, err := ledger.DecodeImport([]byte(`{"movements": []}`))
	require.NoError(t, err)
	require.NoError(t, svc.ImportData(ctx, doc))

	all, err := svc.AllMovements(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	history, err := svc.ProductHistory(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, history, 1)

	_, err = ledger.DecodeImport([]byte(`{no`))
	assert.Error(t, err)
}

func TestRegisterMovement_LedgerConMovimientoIlegible(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Put(ctx, "movements", []byte(`[
		{"id":"m1","productId":"p1","from":"deposito","to":"planta1","timestamp":"2024-03-01T10:00:00Z"},
		{"id":"m2","productId":"p1","from":"planta1","to":"planta2","timestamp":"2024-03-02T10:00:00Z"},
		{"id":"m3","productId":"p2","from":"deposito","to":"transito","timestamp":"sin fecha"}
	]`)))
	repos := docstore.New(store, zerolog.Nop(), nil)
	svc := ledger.NewService(repos.Movements, repos.ProductStates, repos.Inventory, repos.Machines, zerolog.Nop(), nil).
		WithClock(func() time.Time { return hoy })

	_, err := svc.RegisterMovement(ctx, "p3", "deposito", "planta1", "", entity.MovementDetails{})
	require.NoError(t, err)

	all, err := repos.Movements.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "m1", all[0].ID)
	assert.Equal(t, "m2", all[1].ID)
	assert.Equal(t, "p3", all[2].ProductID)

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	var backups int
	for _, k := range keys {
		if strings.HasPrefix(k, "movements.corrupt.") {
			backups++
		}
	}
	assert.Equal(t, 1, backups)
}
