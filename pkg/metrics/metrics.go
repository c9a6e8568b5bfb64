package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var (
	registry       *prometheus.Registry
	registryOnce   sync.Once
	metricsEnabled = true

	// Transcript processing metrics
	TranscriptsProcessed prometheus.Counter
	TranscriptsSkipped   *prometheus.CounterVec

	// Insight metrics
	InsightsGenerated *prometheus.CounterVec
	InsightWrites     *prometheus.CounterVec

	// Dashboard metrics
	DashboardRequests        *prometheus.CounterVec
	DashboardRefreshDuration prometheus.Histogram

	// Ingest metrics
	IngestNotifications *prometheus.CounterVec

	// AMQP metrics
	AMQPPublishedMessages *prometheus.CounterVec
	AMQPConnectionStatus  prometheus.Gauge
)

// Init initializes all metrics and registers them with Prometheus
func Init(logger *logrus.Logger) {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()

		TranscriptsProcessed = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "supportiq_transcripts_processed_total",
				Help: "Total number of transcripts successfully read and normalized",
			},
		)

		TranscriptsSkipped = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "supportiq_transcripts_skipped_total",
				Help: "Total number of transcripts skipped during processing",
			},
			[]string{"reason"},
		)

		InsightsGenerated = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "supportiq_insights_generated_total",
				Help: "Total number of coaching insights generated",
			},
			[]string{"type", "priority"},
		)

		InsightWrites = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "supportiq_insight_writes_total",
				Help: "Total number of insight store writes",
			},
			[]string{"status"},
		)

		DashboardRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "supportiq_dashboard_requests_total",
				Help: "Total number of dashboard analytics requests",
			},
			[]string{"result"},
		)

		DashboardRefreshDuration = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "supportiq_dashboard_refresh_duration_seconds",
				Help:    "Time taken to recompute the dashboard aggregate",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
			},
		)

		IngestNotifications = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "supportiq_ingest_notifications_total",
				Help: "Total number of transcript ingest notifications handled",
			},
			[]string{"status"},
		)

		AMQPPublishedMessages = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "supportiq_amqp_published_messages_total",
				Help: "Total number of messages published to AMQP",
			},
			[]string{"queue", "status"},
		)

		AMQPConnectionStatus = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "supportiq_amqp_connection_status",
				Help: "AMQP connection status (1 = connected, 0 = disconnected)",
			},
		)

		registry.MustRegister(
			TranscriptsProcessed,
			TranscriptsSkipped,
			InsightsGenerated,
			InsightWrites,
			DashboardRequests,
			DashboardRefreshDuration,
			IngestNotifications,
			AMQPPublishedMessages,
			AMQPConnectionStatus,
		)

		logger.Info("Prometheus metrics initialized")
	})
}

// GetRegistry returns the Prometheus registry, or nil if Init has not run
func GetRegistry() *prometheus.Registry {
	return registry
}

// SetMetricsEnabled enables or disables metrics collection
func SetMetricsEnabled(enabled bool) {
	metricsEnabled = enabled
}

// RecordTranscriptProcessed records one successfully processed transcript
func RecordTranscriptProcessed() {
	if metricsEnabled && TranscriptsProcessed != nil {
		TranscriptsProcessed.Inc()
	}
}

// RecordTranscriptSkipped records one skipped transcript
func RecordTranscriptSkipped(reason string) {
	if metricsEnabled && TranscriptsSkipped != nil {
		TranscriptsSkipped.WithLabelValues(reason).Inc()
	}
}

// RecordInsightGenerated records one generated insight
func RecordInsightGenerated(insightType, priority string) {
	if metricsEnabled && InsightsGenerated != nil {
		InsightsGenerated.WithLabelValues(insightType, priority).Inc()
	}
}

// RecordInsightWrite records one insight store write attempt
func RecordInsightWrite(status string) {
	if metricsEnabled && InsightWrites != nil {
		InsightWrites.WithLabelValues(status).Inc()
	}
}

// RecordDashboardRequest records one dashboard request outcome
func RecordDashboardRequest(result string) {
	if metricsEnabled && DashboardRequests != nil {
		DashboardRequests.WithLabelValues(result).Inc()
	}
}

// ObserveDashboardRefresh returns a function that records the refresh
// duration when called
func ObserveDashboardRefresh() func() {
	if !metricsEnabled || DashboardRefreshDuration == nil {
		return func() {}
	}

	timer := prometheus.NewTimer(DashboardRefreshDuration)
	return func() {
		timer.ObserveDuration()
	}
}

// RecordIngestNotification records one handled ingest notification
func RecordIngestNotification(status string) {
	if metricsEnabled && IngestNotifications != nil {
		IngestNotifications.WithLabelValues(status).Inc()
	}
}

// RecordAMQPPublish records metrics for an AMQP publish
func RecordAMQPPublish(queue, status string) {
	if metricsEnabled && AMQPPublishedMessages != nil {
		AMQPPublishedMessages.WithLabelValues(queue, status).Inc()
	}
}

// SetAMQPConnectionStatus sets the AMQP connection status
func SetAMQPConnectionStatus(connected bool) {
	if !metricsEnabled || AMQPConnectionStatus == nil {
		return
	}
	if connected {
		AMQPConnectionStatus.Set(1)
	} else {
		AMQPConnectionStatus.Set(0)
	}
}
