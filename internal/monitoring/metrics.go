package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 归档网关的监控指标。
type Metrics struct {
	// 归档指标
	MessagesArchived   prometheus.Counter
	ArchiveFailures    *prometheus.CounterVec
	AttachmentsWritten prometheus.Counter
	ArchivedBytes      prometheus.Counter
	ProcessingTime     prometheus.Histogram

	// SMTP 指标
	ConnectionsAccepted prometheus.Counter
	ConnectionsRejected prometheus.Counter
	MessagesRejected    *prometheus.CounterVec
}

// NewMetrics 创建监控指标。
func NewMetrics() *Metrics {
	return &Metrics{
		MessagesArchived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "msgstg_messages_archived_total",
			Help: "Total number of messages encoded and archived",
		}),
		ArchiveFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "msgstg_archive_failures_total",
			Help: "Total number of archive failures by stage",
		}, []string{"stage"}),
		AttachmentsWritten: promauto.NewCounter(prometheus.CounterOpts{
			Name: "msgstg_attachments_written_total",
			Help: "Total number of attachment containers written",
		}),
		ArchivedBytes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "msgstg_archived_bytes_total",
			Help: "Total raw message bytes accepted for archiving",
		}),
		ProcessingTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "msgstg_processing_seconds",
			Help:    "Time spent parsing and encoding a message",
			Buckets: prometheus.DefBuckets,
		}),
		ConnectionsAccepted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "msgstg_smtp_connections_accepted_total",
			Help: "Total number of accepted SMTP connections",
		}),
		ConnectionsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "msgstg_smtp_connections_rejected_total",
			Help: "Total number of SMTP connections rejected by the limiter",
		}),
		MessagesRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "msgstg_smtp_messages_rejected_total",
			Help: "Total number of rejected messages by reason",
		}, []string{"reason"}),
	}
}

// Handler 返回 /metrics 与 /healthz 的 HTTP 处理器。
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
