package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Stockeando-api/internal/domain/repository"
)

var _ repository.DocumentStore = (*Resilient)(nil)

// RetryPolicy timeout por llamada y reintentos acotados con backoff lineal.
type RetryPolicy struct {
	Timeout  time.Duration // 0 = sin timeout propio
	Attempts int           // total de intentos, mínimo 1
	Backoff  time.Duration
	// Retryable clasifica errores; nil = todos se reintentan.
	Retryable func(error) bool
}

// Resilient decora un DocumentStore de red/archivo con timeout y reintentos.
// No reintenta si el contexto del llamador ya fue cancelado.
type Resilient struct {
	inner  repository.DocumentStore
	policy RetryPolicy
	log    zerolog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewResilient envuelve inner con la política dada.
func NewResilient(inner repository.DocumentStore, policy RetryPolicy, log zerolog.Logger) *Resilient {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}
	return &Resilient{inner: inner, policy: policy, log: log.With().Str("component", "store").Logger(), sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (r *Resilient) do(ctx context.Context, op, key string, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= r.policy.Attempts; attempt++ {
		callCtx, cancel := ctx, context.CancelFunc(func() {})
		if r.policy.Timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, r.policy.Timeout)
		}
		err = fn(callCtx)
		cancel()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || attempt == r.policy.Attempts {
			break
		}
		if r.policy.Retryable != nil && !r.policy.Retryable(err) {
			break
		}
		r.log.Warn().Err(err).Str("op", op).Str("key", key).Int("attempt", attempt).Msg("reintentando operación de almacenamiento")
		if sErr := r.sleep(ctx, r.policy.Backoff*time.Duration(attempt)); sErr != nil {
			return errors.Join(err, sErr)
		}
	}
	return err
}

func (r *Resilient) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		payload []byte
		found   bool
	)
	err := r.do(ctx, "get", key, func(ctx context.Context) error {
		var err error
		payload, found, err = r.inner.Get(ctx, key)
		return err
	})
	return payload, found, err
}

func (r *Resilient) Put(ctx context.Context, key string, payload []byte) error {
	return r.do(ctx, "put", key, func(ctx context.Context) error {
		return r.inner.Put(ctx, key, payload)
	})
}

func (r *Resilient) Delete(ctx context.Context, key string) error {
	return r.do(ctx, "delete", key, func(ctx context.Context) error {
		return r.inner.Delete(ctx, key)
	})
}

func (r *Resilient) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := r.do(ctx, "keys", "", func(ctx context.Context) error {
		var err error
		keys, err = r.inner.Keys(ctx)
		return err
	})
	return keys, err
}
