// Package metrics expone los contadores Prometheus del pipeline de impresión
// remota. La cola de jobs es el único recurso compartido entre el backend y
// los agentes, así que cada transición observable del estado queda contada.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// JobsEnqueued total de print jobs encolados por el backend.
	JobsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slipsync_print_jobs_enqueued_total",
		Help: "Total de print jobs encolados",
	})

	// JobsClaimed total de jobs entregados a un agente (queued -> processing).
	JobsClaimed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slipsync_print_jobs_claimed_total",
		Help: "Total de print jobs reclamados por agentes",
	})

	// JobsReclaimed jobs "processing" que excedieron el claim timeout y
	// fueron entregados de nuevo.
	JobsReclaimed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slipsync_print_jobs_reclaimed_total",
		Help: "Total de print jobs re-entregados tras exceder el claim timeout",
	})

	// JobsReported resultado reportado por el agente, etiquetado por estado final.
	JobsReported = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slipsync_print_jobs_reported_total",
		Help: "Total de resultados de impresión reportados",
	}, []string{"status"})

	// DeviceHeartbeats latidos recibidos de agentes emparejados.
	DeviceHeartbeats = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slipsync_print_device_heartbeats_total",
		Help: "Total de heartbeats de dispositivos de impresión",
	})

	// DeviceRegistrations emparejamientos (incluye re-registros idempotentes).
	DeviceRegistrations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slipsync_print_device_registrations_total",
		Help: "Total de registros de dispositivos de impresión",
	})

	// AuthRejections peticiones rechazadas antes de tocar lógica de negocio,
	// etiquetadas por tipo de credencial (user | device).
	AuthRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slipsync_auth_rejections_total",
		Help: "Total de peticiones rechazadas por autenticación",
	}, []string{"kind"})
)
