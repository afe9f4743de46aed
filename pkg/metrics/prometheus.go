package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder records application metrics to Prometheus.
type Recorder struct {
	scansTotal     prometheus.Counter
	outcomesTotal  *prometheus.CounterVec
	alertsTotal    prometheus.Counter
	errorsTotal    *prometheus.CounterVec
	lastPrice      *prometheus.GaugeVec
	candidateScore *prometheus.GaugeVec
	watchlistSize  prometheus.Gauge
	phaseDuration  *prometheus.HistogramVec
}

// NewRecorder creates a Prometheus metrics recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		scansTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coinfunnel_scans_total",
			Help: "Total number of funnel scan passes",
		}),
		outcomesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "coinfunnel_outcomes_total",
			Help: "Pipeline outcomes by phase and status",
		}, []string{"phase", "status"}),
		alertsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coinfunnel_alerts_total",
			Help: "Total number of alerts dispatched",
		}),
		errorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "coinfunnel_errors_total",
			Help: "Errors by component",
		}, []string{"component"}),
		lastPrice: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "coinfunnel_last_price",
			Help: "Last observed price per monitored asset",
		}, []string{"asset"}),
		candidateScore: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "coinfunnel_candidate_score",
			Help: "Latest combined score per candidate",
		}, []string{"asset"}),
		watchlistSize: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "coinfunnel_watchlist_size",
			Help: "Number of assets currently monitored",
		}),
		phaseDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "coinfunnel_phase_duration_seconds",
			Help:    "Duration of pipeline phases",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
		}, []string{"phase"}),
	}
}

// RecordScan increments the scan pass counter.
func (r *Recorder) RecordScan() {
	r.scansTotal.Inc()
}

// RecordOutcome records a phase outcome.
func (r *Recorder) RecordOutcome(phase, status string) {
	r.outcomesTotal.WithLabelValues(phase, status).Inc()
}

// RecordAlert increments the dispatched alert counter.
func (r *Recorder) RecordAlert() {
	r.alertsTotal.Inc()
}

// RecordError increments the error counter for a component.
func (r *Recorder) RecordError(component string) {
	r.errorsTotal.WithLabelValues(component).Inc()
}

// RecordLastPrice sets the last observed price gauge for an asset.
func (r *Recorder) RecordLastPrice(asset string, price float64) {
	r.lastPrice.WithLabelValues(asset).Set(price)
}

// RecordScore sets the combined score gauge for a candidate.
func (r *Recorder) RecordScore(asset string, score float64) {
	r.candidateScore.WithLabelValues(asset).Set(score)
}

// RecordWatchlistSize sets the current watchlist size.
func (r *Recorder) RecordWatchlistSize(n int) {
	r.watchlistSize.Set(float64(n))
}

// RecordPhaseDuration observes how long a pipeline phase took.
func (r *Recorder) RecordPhaseDuration(phase string, d time.Duration) {
	r.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}
