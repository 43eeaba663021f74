// Package metrics expone en Prometheus los caminos degradados del motor de
// inventario y la latencia de la API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Stockeando-api/internal/application/ports"
)

const namespace = "stockeando"

// Recorder implementa ports.Diagnostics sobre un registry propio.
// Seguro para uso concurrente.
type Recorder struct {
	registry *prometheus.Registry

	movements          *prometheus.CounterVec
	placeholders       prometheus.Counter
	unreadable         *prometheus.CounterVec
	duplicatesRemoved  *prometheus.CounterVec
	codesRegenerated   *prometheus.CounterVec
	machineDropped     *prometheus.CounterVec
	ownershipConflicts prometheus.Counter
	locationMismatches prometheus.Counter
	httpDuration       *prometheus.HistogramVec
}

var _ ports.Diagnostics = (*Recorder)(nil)

// NewRecorder registra todas las métricas más las del runtime de Go.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	r := &Recorder{
		registry: registry,
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "movements_recorded_total",
			Help: "Movimientos escritos en el ledger por destino.",
		}, []string{"to"}),
		placeholders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "placeholder_snapshots_total",
			Help: "Movimientos registrados con datos de producto de reemplazo.",
		}),
		unreadable: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "documents_unreadable_total",
			Help: "Documentos que no se pudieron decodificar y se trataron como vacíos.",
		}, []string{"key"}),
		duplicatesRemoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "validator_duplicates_removed_total",
			Help: "Duplicados eliminados por el validador.",
		}, []string{"collection"}),
		codesRegenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "validator_codes_regenerated_total",
			Help: "Códigos duplicados regenerados por el validador.",
		}, []string{"collection"}),
		machineDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "validator_machine_entries_dropped_total",
			Help: "Entradas de máquina descartadas por el validador.",
		}, []string{"bucket", "reason"}),
		ownershipConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "validator_ownership_conflicts_total",
			Help: "Materiales presentes en más de una colección.",
		}),
		locationMismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "validator_location_mismatches_total",
			Help: "Materiales cuya colección no coincide con la ubicación del ledger.",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "Latencia de las peticiones HTTP.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	registry.MustRegister(
		r.movements, r.placeholders, r.unreadable, r.duplicatesRemoved,
		r.codesRegenerated, r.machineDropped, r.ownershipConflicts,
		r.locationMismatches, r.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Registry acceso al registry (tests).
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler endpoint /metrics.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// ObserveRequest registra la latencia de una petición.
func (r *Recorder) ObserveRequest(method, route string, status int, d time.Duration) {
	r.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

func (r *Recorder) MovementRecorded(to string) { r.movements.WithLabelValues(to).Inc() }

func (r *Recorder) PlaceholderUsed(string) { r.placeholders.Inc() }

func (r *Recorder) DocumentUnreadable(key string) { r.unreadable.WithLabelValues(key).Inc() }

func (r *Recorder) DuplicatesRemoved(collection string, n int) {
	r.duplicatesRemoved.WithLabelValues(collection).Add(float64(n))
}

func (r *Recorder) CodeRegenerated(collection string) {
	r.codesRegenerated.WithLabelValues(collection).Inc()
}

func (r *Recorder) MachineEntriesDropped(bucket, reason string, n int) {
	r.machineDropped.WithLabelValues(bucket, reason).Add(float64(n))
}

func (r *Recorder) OwnershipConflict(string) { r.ownershipConflicts.Inc() }

func (r *Recorder) LocationMismatch(string) { r.locationMismatches.Inc() }
