// Package metrics registra las métricas Prometheus del servicio.
// Todos los métodos aceptan receptor nil para que los tests no necesiten registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Resultados de una transición.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Lifecycle métricas del ciclo de vida de solicitudes y del libro de inventario.
type Lifecycle struct {
	transitions *prometheus.CounterVec
	movements   *prometheus.CounterVec
}

// NewLifecycle registra las métricas de dominio en reg. Con reg nil devuelve un recolector inerte.
func NewLifecycle(reg prometheus.Registerer) *Lifecycle {
	if reg == nil {
		return &Lifecycle{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "material_request_transitions_total",
		Help: "Transiciones de solicitudes de materiales por tipo y resultado.",
	}, []string{"transition", "result"})
	movements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_movements_total",
		Help: "Asientos del libro de inventario por dirección y origen.",
	}, []string{"direction", "source"})
	reg.MustRegister(transitions, movements)
	return &Lifecycle{transitions: transitions, movements: movements}
}

// ObserveTransition cuenta una transición con su resultado.
func (l *Lifecycle) ObserveTransition(transition, result string) {
	if l == nil || l.transitions == nil {
		return
	}
	l.transitions.WithLabelValues(normalizeLabel(transition), normalizeLabel(result)).Inc()
}

// ObserveMovement cuenta un asiento confirmado.
func (l *Lifecycle) ObserveMovement(direction, source string) {
	if l == nil || l.movements == nil {
		return
	}
	l.movements.WithLabelValues(normalizeLabel(direction), normalizeLabel(source)).Inc()
}

// HTTP métricas de las peticiones HTTP.
type HTTP struct {
	duration *prometheus.HistogramVec
}

// NewHTTP registra el histograma de latencia en reg.
func NewHTTP(reg prometheus.Registerer) *HTTP {
	if reg == nil {
		return &HTTP{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duración de las peticiones HTTP en segundos.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	reg.MustRegister(duration)
	return &HTTP{duration: duration}
}

// Observe registra la duración de una petición.
func (h *HTTP) Observe(method, route, status string, d time.Duration) {
	if h == nil || h.duration == nil {
		return
	}
	h.duration.WithLabelValues(method, normalizeLabel(route), status).Observe(d.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
