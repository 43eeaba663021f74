package inventory

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/Stockeando-api/internal/domain"
	"github.com/jhoicas/Stockeando-api/internal/domain/repository"
)

// DefaultMaxCodeAttempts tope de candidatos probados por llamada.
const DefaultMaxCodeAttempts = 1000

// CodeGenerator genera códigos de negocio PREFIJO-DDMMAA-LETRA[SUFIJO].
// La letra y el sufijo salen de un contador persistente que no se reinicia por día.
type CodeGenerator struct {
	counter     repository.CounterRepository
	now         func() time.Time
	loc         *time.Location
	maxAttempts int
}

// NewCodeGenerator construye el generador. loc nil = UTC.
func NewCodeGenerator(counter repository.CounterRepository, loc *time.Location, maxAttempts int) *CodeGenerator {
	if loc == nil {
		loc = time.UTC
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxCodeAttempts
	}
	return &CodeGenerator{
		counter:     counter,
		now:         time.Now,
		loc:         loc,
		maxAttempts: maxAttempts,
	}
}

// WithClock reemplaza el reloj (tests).
func (g *CodeGenerator) WithClock(now func() time.Time) *CodeGenerator {
	g.now = now
	return g
}

// Generate devuelve el primer candidato que taken no reconoce como usado y
// persiste el contador. Si se agotan los intentos devuelve ErrCodeSpaceExhausted.
func (g *CodeGenerator) Generate(ctx context.Context, name string, taken func(code string) bool) (string, error) {
	counter, err := g.counter.Get(ctx)
	if err != nil {
		return "", err
	}
	prefix := codePrefix(name)
	date := g.now().In(g.loc).Format("020106")

	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		code := FormatCode(prefix, date, counter)
		counter++
		if taken(code) {
			continue
		}
		if err := g.counter.Set(ctx, counter); err != nil {
			return "", fmt.Errorf("guardar contador: %w", err)
		}
		return code, nil
	}
	if err := g.counter.Set(ctx, counter); err != nil {
		return "", fmt.Errorf("guardar contador: %w", err)
	}
	return "", fmt.Errorf("%w: %d intentos para %q", domain.ErrCodeSpaceExhausted, g.maxAttempts, name)
}

// codePrefix dos primeras letras del nombre en mayúsculas.
// Un Caser no se comparte entre goroutines.
func codePrefix(name string) string {
	r := []rune(name)
	if len(r) > 2 {
		r = r[:2]
	}
	return cases.Upper(language.Und).String(string(r))
}

// FormatCode arma el código para un valor del contador: la letra es
// A+counter%26 y a partir de 26 se agrega counter/26 como sufijo.
func FormatCode(prefix, date string, counter int) string {
	letter := string(rune('A' + counter%26))
	suffix := ""
	if counter >= 26 {
		suffix = strconv.Itoa(counter / 26)
	}
	return prefix + "-" + date + "-" + letter + suffix
}
