package ftp

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus instrumentation for the engine, grounded on
// the way runZeroInc's sibling repos expose socket/transport counters: a
// small struct of pre-registered collectors handed to whichever HTTP
// server wants to serve them, rather than relying on the global default
// registry.
type Metrics struct {
	framesSent        prometheus.Counter
	retransmits       prometheus.Counter
	timeouts          prometheus.Counter
	bytesDownloaded   prometheus.Counter
	bytesUploaded     prometheus.Counter
	transferDurations prometheus.Histogram
}

// NewMetrics constructs and registers the engine's collectors against reg.
// Pass a fresh prometheus.NewRegistry() in tests to avoid collisions with
// the global default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		framesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "govftp_frames_sent_total",
			Help: "Total FTP frames transmitted, including retransmissions.",
		}),
		retransmits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "govftp_retransmits_total",
			Help: "Total frames retransmitted after a timeout.",
		}),
		timeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "govftp_timeouts_total",
			Help: "Total operations that exhausted their retries.",
		}),
		bytesDownloaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "govftp_bytes_downloaded_total",
			Help: "Total bytes written to local files by Download operations.",
		}),
		bytesUploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "govftp_bytes_uploaded_total",
			Help: "Total bytes read from local files by Upload operations.",
		}),
		transferDurations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "govftp_transfer_duration_seconds",
			Help:    "Registered for Download/Upload durations; the engine records no observations into it.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.framesSent,
			m.retransmits,
			m.timeouts,
			m.bytesDownloaded,
			m.bytesUploaded,
			m.transferDurations,
		)
	}
	return m
}

// newNopMetrics returns a Metrics not registered against any registerer,
// for callers (and tests) that don't want Prometheus wiring.
func newNopMetrics() *Metrics {
	return NewMetrics(nil)
}
