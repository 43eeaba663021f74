package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/jhoicas/Stockeando-api/internal/domain/entity"
)

func TestParseLocation_VariantesHistoricas(t *testing.T) {
	cases := []struct {
		raw        string
		kind       entity.LocationKind
		collection string
		plant      int
	}{
		{"deposito", entity.KindDeposit, "deposito", 0},
		{"transito", entity.KindTransit, "transito", 0},
		{"pedidos", entity.KindOrders, "pedidos", 0},
		{"eliminados", entity.KindEliminated, "eliminados", 0},
		{"rechazados", entity.KindRejected, "rechazados", 0},
		{"rejected", entity.KindRejected, "rechazados", 0},
		{"planta1", entity.KindPlant, "planta1", 1},
		{"planta2_deposit", entity.KindPlant, "planta2", 2},
		{"plant3deposit", entity.KindPlant, "planta3", 3},
		{"plant1", entity.KindPlant, "planta1", 1},
		{"plant1MachineB", entity.KindMachine, "plant1MachineB", 1},
		{"machineA", entity.KindMachine, "plant2MachineA", 2},
		{"machineB", entity.KindMachine, "plant2MachineB", 2},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			loc := entity.ParseLocation(tc.raw)
			assert.True(t, loc.Valid())
			assert.Equal(t, tc.kind, loc.Kind)
			assert.Equal(t, tc.collection, loc.Collection())
			p, ok := loc.PlantNumber()
			assert.Equal(t, tc.plant > 0, ok)
			assert.Equal(t, tc.plant, p)
		})
	}
}

func TestParseLocation_Invalidas(t *testing.T) {
	for _, raw := range []string{"", "planta4", "planta0", "plant9MachineA", "bodega", "plantaX", "planta1_cocina"} {
		loc := entity.ParseLocation(raw)
		assert.False(t, loc.Valid(), raw)
		assert.Empty(t, loc.Collection(), raw)
		assert.Equal(t, raw, loc.LedgerName(), raw)
	}
}

func TestLocation_NombresDeLedgerYEtiquetas(t *testing.T) {
	assert.Equal(t, entity.RejectedSink, entity.ParseLocation("rechazados").LedgerName())
	assert.Equal(t, "planta2", entity.ParseLocation("plant2deposit").LedgerName())
	assert.Equal(t, "Planta 3", entity.ParseLocation("plant3MachineA").Label())
	assert.Equal(t, "Depósito", entity.ParseLocation("deposito").Label())
	assert.Equal(t, "Rechazado", entity.ParseLocation("rejected").Label())
}

func TestParseMachineID(t *testing.T) {
	id, legacy, ok := entity.ParseMachineID("plant3MachineA")
	assert.True(t, ok)
	assert.False(t, legacy)
	assert.Equal(t, 3, id.Plant())
	assert.Equal(t, "A", id.Slot())

	id, legacy, ok = entity.ParseMachineID("machineB")
	assert.True(t, ok)
	assert.True(t, legacy)
	assert.Equal(t, entity.Plant2MachineB, id)

	_, _, ok = entity.ParseMachineID("plant4MachineA")
	assert.False(t, ok)
}

// Una ubicación válida siempre se resuelve a una colección cuyo nombre canónico
// vuelve a parsear a la misma ubicación.
func TestParseLocation_CanonicaEstable(t *testing.T) {
	names := []string{"deposito", "transito", "pedidos", "eliminados", "rechazados", "rejected", "machineA", "machineB"}
	for _, m := range entity.ValidMachines() {
		names = append(names, string(m))
	}
	for i := 1; i <= entity.PlantCount; i++ {
		names = append(names, entity.PlantCollection(i), entity.PlantCollection(i)+"_deposit")
	}
	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.SampledFrom(names).Draw(t, "raw")
		loc := entity.ParseLocation(raw)
		again := entity.ParseLocation(loc.LedgerName())
		if again.Collection() != loc.Collection() || again.Kind != loc.Kind {
			t.Fatalf("%q -> %q no es estable", raw, loc.LedgerName())
		}
	})
}
