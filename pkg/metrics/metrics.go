package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	tenderAnalyzer = "tender_analyzer"

	jobsProcessedTotal   = "jobs_processed_total"
	jobRetriesTotal      = "job_retries_total"
	exportDownloadsTotal = "export_downloads_total"
	analysisDuration     = "analysis_duration_seconds"

	jobStatusLabel  = "status"
	exportTypeLabel = "type"
)

var jobsProcessedTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: tenderAnalyzer,
		Name:      jobsProcessedTotal,
		Help:      "number of processed jobs partitioned by terminal status",
	},
	[]string{jobStatusLabel},
)

var jobRetriesTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: tenderAnalyzer,
		Name:      jobRetriesTotal,
		Help:      "number of manual job retries",
	},
)

var exportDownloadsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: tenderAnalyzer,
		Name:      exportDownloadsTotal,
		Help:      "number of export downloads partitioned by export type",
	},
	[]string{exportTypeLabel},
)

var analysisDurationMetric = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Subsystem: tenderAnalyzer,
		Name:      analysisDuration,
		Help:      "time spent in the analysis step of the pipeline",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300},
	},
)

func IncreaseJobsProcessedTotalMetric(status string) {
	jobsProcessedTotalMetric.With(prometheus.Labels{jobStatusLabel: status}).Inc()
}

func IncreaseJobRetriesTotalMetric() {
	jobRetriesTotalMetric.Inc()
}

func IncreaseExportDownloadsTotalMetric(exportType string) {
	exportDownloadsTotalMetric.With(prometheus.Labels{exportTypeLabel: exportType}).Inc()
}

func ObserveAnalysisDurationMetric(seconds float64) {
	analysisDurationMetric.Observe(seconds)
}

type PrometheusMetricsHandler struct{}

func NewPrometheusMetricsHandler() *PrometheusMetricsHandler {
	prometheus.MustRegister(jobsProcessedTotalMetric)
	prometheus.MustRegister(jobRetriesTotalMetric)
	prometheus.MustRegister(exportDownloadsTotalMetric)
	prometheus.MustRegister(analysisDurationMetric)
	return &PrometheusMetricsHandler{}
}

func (h *PrometheusMetricsHandler) Handler() http.Handler {
	return promhttp.Handler()
}
