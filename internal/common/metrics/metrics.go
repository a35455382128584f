// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_submissions_received_total",
			Help: "Total number of applications received by the relay",
		},
		[]string{"route"},
	)

	SubmissionsAccepted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_submissions_accepted_total",
			Help: "Total number of applications handed to the mail transport",
		},
		[]string{"route"},
	)

	SubmissionsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_submissions_failed_total",
			Help: "Total number of applications the relay could not forward",
		},
		[]string{"route", "error_code"},
	)

	MailSendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "intake_mail_send_duration_seconds",
			Help: "Duration of outbound mail delivery in seconds",
		},
		[]string{"transport"},
	)

	AttachmentsForwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_attachments_forwarded_total",
			Help: "Total number of documents attached to forwarded emails",
		},
		[]string{"field"},
	)

	AttachmentBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_attachment_bytes_total",
			Help: "Total attachment payload forwarded, in bytes",
		},
		[]string{"field"},
	)

	SubmissionsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "intake_submissions_active",
			Help: "Number of submissions currently being processed",
		},
		[]string{"route"},
	)
)
