package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// MetricsPrefix prefix used for all the metrics
	MetricsPrefix = "control_tower_"

	// OperationsTotalCount - name of the total operations metric
	OperationsTotalCount = "operations_total_count"
	// OperationsSuccessCount - name of the successful operations metric
	OperationsSuccessCount = "operations_success_count"
	// OpenIncidentsCount - name of the open incidents gauge
	OpenIncidentsCount = "open_incidents_count"
	// HealthScore - name of the health score gauge
	HealthScore = "health_score"
	// ReconcilerDuration - name of the reconciler duration metric
	ReconcilerDuration = "worker_duration_in_seconds"
	// ReconcilerSuccessCount - name of the reconciler success metric
	ReconcilerSuccessCount = "worker_success_count"
	// ReconcilerFailureCount - name of the reconciler failure metric
	ReconcilerFailureCount = "worker_failure_count"

	labelAction      = "action"
	labelWorkspaceID = "workspace_id"
	labelWorkerType  = "worker_type"
)

var operationsTotalCountMetricLabels = []string{
	labelAction,
}

var operationsTotalCountMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: MetricsPrefix + OperationsTotalCount,
		Help: "count of control tower operations attempted",
	},
	operationsTotalCountMetricLabels,
)

// IncreaseOperationTotalCount - increase counter for given operation attempt
func IncreaseOperationTotalCount(action string) {
	labels := prometheus.Labels{
		labelAction: action,
	}
	operationsTotalCountMetric.With(labels).Inc()
}

var operationsSuccessCountMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: MetricsPrefix + OperationsSuccessCount,
		Help: "count of control tower operations that succeeded",
	},
	operationsTotalCountMetricLabels,
)

// IncreaseOperationSuccessCount - increase counter for given successful operation
func IncreaseOperationSuccessCount(action string) {
	labels := prometheus.Labels{
		labelAction: action,
	}
	operationsSuccessCountMetric.With(labels).Inc()
}

var openIncidentsMetric = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: MetricsPrefix + OpenIncidentsCount,
		Help: "number of unresolved incidents in a workspace",
	},
	[]string{labelWorkspaceID},
)

// UpdateOpenIncidentsMetric - sets the open incident gauge for a workspace
func UpdateOpenIncidentsMetric(workspaceID string, count int) {
	labels := prometheus.Labels{
		labelWorkspaceID: workspaceID,
	}
	openIncidentsMetric.With(labels).Set(float64(count))
}

var healthScoreMetric = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: MetricsPrefix + HealthScore,
		Help: "share of connectors in the connected state, 0 to 100",
	},
	[]string{labelWorkspaceID},
)

// UpdateHealthScoreMetric - sets the health score gauge for a workspace
func UpdateHealthScoreMetric(workspaceID string, score int) {
	labels := prometheus.Labels{
		labelWorkspaceID: workspaceID,
	}
	healthScoreMetric.With(labels).Set(float64(score))
}

var reconcilerDurationMetric = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: MetricsPrefix + ReconcilerDuration,
		Help: "duration of each background worker run",
	},
	[]string{labelWorkerType},
)

// UpdateReconcilerDurationMetric - sets the duration of the most recent worker run
func UpdateReconcilerDurationMetric(workerType string, start time.Time) {
	labels := prometheus.Labels{
		labelWorkerType: workerType,
	}
	reconcilerDurationMetric.With(labels).Set(time.Since(start).Seconds())
}

var reconcilerSuccessCountMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: MetricsPrefix + ReconcilerSuccessCount,
		Help: "count of successful background worker runs",
	},
	[]string{labelWorkerType},
)

// IncreaseReconcilerSuccessCount - increase counter for successful worker runs
func IncreaseReconcilerSuccessCount(workerType string) {
	labels := prometheus.Labels{
		labelWorkerType: workerType,
	}
	reconcilerSuccessCountMetric.With(labels).Inc()
}

var reconcilerFailureCountMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: MetricsPrefix + ReconcilerFailureCount,
		Help: "count of background worker runs that returned errors",
	},
	[]string{labelWorkerType},
)

// IncreaseReconcilerFailureCount - increase counter for failed worker runs
func IncreaseReconcilerFailureCount(workerType string) {
	labels := prometheus.Labels{
		labelWorkerType: workerType,
	}
	reconcilerFailureCountMetric.With(labels).Inc()
}

// register the metric(s)
func init() {
	prometheus.MustRegister(operationsTotalCountMetric)
	prometheus.MustRegister(operationsSuccessCountMetric)
	prometheus.MustRegister(openIncidentsMetric)
	prometheus.MustRegister(healthScoreMetric)
	prometheus.MustRegister(reconcilerDurationMetric)
	prometheus.MustRegister(reconcilerSuccessCountMetric)
	prometheus.MustRegister(reconcilerFailureCountMetric)
}
