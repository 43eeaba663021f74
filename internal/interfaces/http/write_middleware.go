package http

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// SerializeWrites deja pasar de a una las peticiones que modifican datos
// (todo lo que no sea GET/HEAD/OPTIONS). Cada mutación lee y reescribe
// documentos completos, así que dos escritores concurrentes perderían datos.
// onWrite se llama después de cada escritura exitosa.
func SerializeWrites(onWrite func()) fiber.Handler {
	var mu sync.Mutex
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}
		mu.Lock()
		defer mu.Unlock()
		err := c.Next()
		if err == nil && c.Response().StatusCode() < fiber.StatusBadRequest && onWrite != nil {
			onWrite()
		}
		return err
	}
}

// RequestObserver recibe la latencia de cada petición.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, d time.Duration)
}

// RequestMetrics mide la latencia por ruta registrada (no por path, para no
// multiplicar series con los ids).
func RequestMetrics(obs RequestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		obs.ObserveRequest(c.Method(), c.Route().Path, status, time.Since(start))
		return err
	}
}
