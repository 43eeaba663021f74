package docstore_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/jhoicas/Stockeando-api/internal/domain/entity"
	"github.com/jhoicas/Stockeando-api/internal/infrastructure/docstore"
	"github.com/jhoicas/Stockeando-api/internal/infrastructure/memory"
)

type countingDiag struct {
	unreadable []string
}

func (d *countingDiag) MovementRecorded(string)                   {}
func (d *countingDiag) PlaceholderUsed(string)                    {}
func (d *countingDiag) DocumentUnreadable(key string)             { d.unreadable = append(d.unreadable, key) }
func (d *countingDiag) DuplicatesRemoved(string, int)             {}
func (d *countingDiag) CodeRegenerated(string)                    {}
func (d *countingDiag) MachineEntriesDropped(string, string, int) {}
func (d *countingDiag) OwnershipConflict(string)                  {}
func (d *countingDiag) LocationMismatch(string)                   {}

func TestInventoryRepo_SinDocumento(t *testing.T) {
	repos := docstore.New(memory.NewStore(), zerolog.Nop(), nil)
	inv, err := repos.Inventory.Get(context.Background())
	require.NoError(t, err)
	for _, c := range entity.InventoryCollections() {
		assert.NotNil(t, inv[c], c)
		assert.Empty(t, inv[c], c)
	}
}

func TestRepos_DocumentoCorrupto(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Put(ctx, "movements", []byte(`{no es json`)))
	require.NoError(t, store.Put(ctx, "machines", []byte(`[1,2]`)))
	diag := &countingDiag{}
	repos := docstore.New(store, zerolog.Nop(), diag)

	movs, err := repos.Movements.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, movs)

	ms, err := repos.Machines.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, ms)

	assert.Equal(t, []string{"movements", "machines"}, diag.unreadable)
}

func TestCounterRepo_AceptaString(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := docstore.New(store, zerolog.Nop(), nil)

	n, err := repos.Counter.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, store.Put(ctx, "daily_counter", []byte(`"7"`)))
	n, err = repos.Counter.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	require.NoError(t, repos.Counter.Set(ctx, 8))
	n, err = repos.Counter.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}

func TestProductStateRepo_Clear(t *testing.T) {
	ctx := context.Background()
	repos := docstore.New(memory.NewStore(), zerolog.Nop(), nil)
	states := entity.ProductStates{"p1": {CurrentLocation: "deposito"}}
	require.NoError(t, repos.ProductStates.Save(ctx, states))

	got, err := repos.ProductStates.GetAll(ctx)
	require.NoError(t, err)
	require.Contains(t, got, "p1")
	assert.NotNil(t, got["p1"].History)

	require.NoError(t, repos.ProductStates.Clear(ctx))
	got, err = repos.ProductStates.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCategoryRepo_Default(t *testing.T) {
	repos := docstore.New(memory.NewStore(), zerolog.Nop(), nil)
	raw, err := repos.Categories.Get(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))
}

func TestRepos_DocumentoCorrupto_ConservaOriginal(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	payload := []byte(`{no es json`)
	require.NoError(t, store.Put(ctx, "movements", payload))
	repos := docstore.New(store, zerolog.Nop(), nil)

	_, err := repos.Movements.List(ctx)
	require.NoError(t, err)
	require.NoError(t, repos.Movements.Save(ctx, nil))

	backup, found, err := store.Get(ctx, docstore.CorruptBackupKey("movements", payload))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, payload, backup)
}

func TestMovementRepo_ElementoIlegibleNoBorraElLedger(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	payload := []byte(`[
		{"id":"m1","productId":"p1","from":"deposito","to":"planta1","timestamp":"2024-03-01T10:00:00.000Z"},
		{"id":"m2","productId":"p1","from":"planta1","to":"planta2","timestamp":"2024-03-02"},
		{"id":"m3","productId":"p2","from":"deposito","to":"transito","timestamp":"3/3/2024","productData":{"name":"Cobre","lot":7}},
		{"id":"m4","productId":"p2","from":"transito","to":"deposito","timestamp":"ayer"}
	]`)
	require.NoError(t, store.Put(ctx, "movements", payload))
	diag := &countingDiag{}
	repos := docstore.New(store, zerolog.Nop(), diag)

	movs, err := repos.Movements.List(ctx)
	require.NoError(t, err)
	require.Len(t, movs, 3)
	assert.Equal(t, []string{"m1", "m2", "m3"}, []string{movs[0].ID, movs[1].ID, movs[2].ID})
	assert.Equal(t, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), movs[2].Timestamp)
	assert.Equal(t, "7", movs[2].ProductData.Lot)
	assert.Equal(t, []string{"movements"}, diag.unreadable)

	// la escritura siguiente no pierde los movimientos legibles
	movs = append(movs, entity.Movement{ID: "m5", ProductID: "p3", To: "deposito", Timestamp: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, repos.Movements.Save(ctx, movs))
	again, err := repos.Movements.List(ctx)
	require.NoError(t, err)
	assert.Len(t, again, 4)

	backup, found, err := store.Get(ctx, docstore.CorruptBackupKey("movements", payload))
	require.NoError(t, err)
	require.True(t, found)
	assert.Contains(t, string(backup), `"ayer"`)
}

func TestInventoryRepo_CamposNumericosSeLeenComoTexto(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Put(ctx, "inventory", []byte(`{
		"deposito":[{"id":"a","name":"Cobre","code":"CO-1"},{"id":"b","name":"Resina","lot":7,"weight":"12,5"}],
		"planta1":[{"id":"c","name":"Resina","code":"RE-1"}, 42],
		"planta2":null
	}`)))
	diag := &countingDiag{}
	repos := docstore.New(store, zerolog.Nop(), diag)

	inv, err := repos.Inventory.Get(ctx)
	require.NoError(t, err)
	require.Len(t, inv["deposito"], 2)
	assert.Equal(t, "7", inv["deposito"][1].Lot)
	assert.Equal(t, "12.5", inv["deposito"][1].Weight.String())
	assert.True(t, inv.HasCode("CO-1"))
	require.Len(t, inv["planta1"], 1, "el elemento que no es material se descarta")
	assert.Nil(t, inv["planta2"])
	assert.Equal(t, []string{"inventory"}, diag.unreadable)
}

func TestProductStateRepo_HistorialParcial(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Put(ctx, "product_states", []byte(`{
		"p1":{"currentLocation":"planta1","history":[
			{"id":"m1","productId":"p1","to":"planta1","timestamp":1709287200000},
			{"id":"m2","productId":"p1","to":"planta1"}
		]},
		"p2":null
	}`)))
	repos := docstore.New(store, zerolog.Nop(), nil)

	states, err := repos.ProductStates.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, states, 1)
	require.Len(t, states["p1"].History, 1)
	assert.Equal(t, "planta1", states["p1"].CurrentLocation)
	assert.Equal(t, time.UnixMilli(1709287200000).UTC(), states["p1"].History[0].Timestamp)
}

// Leer un ledger con movimientos ilegibles y volver a escribirlo conserva
// todos los legibles en orden, y el original queda respaldado.
func TestMovementRepo_LecturaDegradadaYEscritura(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		n := rapid.IntRange(0, 12).Draw(t, "n")
		var parts []string
		var wantIDs []string
		for i := 0; i < n; i++ {
			id := fmt.Sprintf("m%d", i)
			ts := rapid.SampledFrom([]string{
				`"2024-03-01T10:00:00Z"`, `"2024-03-02"`, `"3/3/2024"`, `1709287200000`,
				`"ayer"`, `null`, `{}`,
			}).Draw(t, "ts")
			lot := rapid.SampledFrom([]string{`"L1"`, `7`, `null`, `[1]`}).Draw(t, "lot")
			parts = append(parts, fmt.Sprintf(`{"id":%q,"productId":"p","to":"deposito","timestamp":%s,"productData":{"name":"Cobre","lot":%s}}`, id, ts, lot))
			if ts != `"ayer"` && ts != `null` && ts != `{}` {
				wantIDs = append(wantIDs, id)
			}
		}
		if rapid.Bool().Draw(t, "basura") {
			parts = append(parts, `42`)
		}
		payload := []byte("[" + strings.Join(parts, ",") + "]")

		store := memory.NewStore()
		require.NoError(t, store.Put(ctx, "movements", payload))
		repos := docstore.New(store, zerolog.Nop(), nil)

		movs, err := repos.Movements.List(ctx)
		require.NoError(t, err)
		movs = append(movs, entity.Movement{ID: "nuevo", ProductID: "p", To: "planta1", Timestamp: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)})
		require.NoError(t, repos.Movements.Save(ctx, movs))

		again, err := repos.Movements.List(ctx)
		require.NoError(t, err)
		gotIDs := make([]string, 0, len(again))
		for _, m := range again {
			gotIDs = append(gotIDs, m.ID)
		}
		assert.Equal(t, append(wantIDs, "nuevo"), gotIDs)

		if len(wantIDs) < n || strings.HasSuffix(string(payload), "42]") {
			backup, found, err := store.Get(ctx, docstore.CorruptBackupKey("movements", payload))
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, payload, backup)
		}
	})
}
