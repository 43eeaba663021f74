package ledger

import (
	"context"
	"strings"

	"github.com/jhoicas/Stockeando-api/internal/domain/entity"
)

type actorKey struct{}

// WithActor devuelve un contexto que registra a user como autor de los movimientos.
func WithActor(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, actorKey{}, user)
}

// ActorFromContext usuario actual o "sistema" si no hay sesión.
func ActorFromContext(ctx context.Context) string {
	if ctx != nil {
		if u, ok := ctx.Value(actorKey{}).(string); ok && strings.TrimSpace(u) != "" {
			return u
		}
	}
	return entity.DefaultActor
}
