package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/jhoicas/Stockeando-api/internal/application/inventory"
	"github.com/jhoicas/Stockeando-api/internal/domain"
	"github.com/jhoicas/Stockeando-api/internal/infrastructure/docstore"
	"github.com/jhoicas/Stockeando-api/internal/infrastructure/memory"
)

var primeroDeEnero = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

func newGenerator(maxAttempts int) (*inventory.CodeGenerator, *docstore.Repositories) {
	repos := docstore.New(memory.NewStore(), zerolog.Nop(), nil)
	g := inventory.NewCodeGenerator(repos.Counter, time.UTC, maxAttempts).
		WithClock(func() time.Time { return primeroDeEnero })
	return g, repos
}

func none(string) bool { return false }

func TestGenerate_Secuencia(t *testing.T) {
	ctx := context.Background()
	g, repos := newGenerator(0)

	code, err := g.Generate(ctx, "Resina", none)
	require.NoError(t, err)
	assert.Equal(t, "RE-010124-A", code)

	code, err = g.Generate(ctx, "resina epoxi", none)
	require.NoError(t, err)
	assert.Equal(t, "RE-010124-B", code)

	counter, err := repos.Counter.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counter)
}

func TestGenerate_SaltaCodigosUsados(t *testing.T) {
	ctx := context.Background()
	g, _ := newGenerator(0)
	used := map[string]bool{"BO-010124-A": true, "BO-010124-B": true}
	code, err := g.Generate(ctx, "Bobina", func(c string) bool { return used[c] })
	require.NoError(t, err)
	assert.Equal(t, "BO-010124-C", code)
}

func TestGenerate_EspacioAgotado(t *testing.T) {
	ctx := context.Background()
	g, repos := newGenerator(3)
	_, err := g.Generate(ctx, "Bobina", func(string) bool { return true })
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCodeSpaceExhausted))

	counter, err := repos.Counter.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, counter)
}

func TestGenerate_PrefijoCorto(t *testing.T) {
	g, _ := newGenerator(0)
	code, err := g.Generate(context.Background(), "ñ", none)
	require.NoError(t, err)
	assert.Equal(t, "Ñ-010124-A", code)
}

func TestFormatCode(t *testing.T) {
	assert.Equal(t, "RE-010124-Z", inventory.FormatCode("RE", "010124", 25))
	assert.Equal(t, "RE-010124-A1", inventory.FormatCode("RE", "010124", 26))
	assert.Equal(t, "RE-010124-B1", inventory.FormatCode("RE", "010124", 27))
	assert.Equal(t, "RE-010124-A2", inventory.FormatCode("RE", "010124", 52))
}

// Dos valores distintos del contador nunca dan el mismo código.
func TestFormatCode_Inyectivo(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.IntRange(0, 100000).Draw(t, "a")
		b := rapid.IntRange(0, 100000).Draw(t, "b")
		if a == b {
			return
		}
		if inventory.FormatCode("XX", "010124", a) == inventory.FormatCode("XX", "010124", b) {
			t.Fatalf("colisión entre %d y %d", a, b)
		}
	})
}
