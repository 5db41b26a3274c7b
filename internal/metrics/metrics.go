package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_messages_sent_total",
		Help: "Messages accepted by the send gateway.",
	})
	MessagesMarkedRead = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_messages_marked_read_total",
		Help: "Messages flipped to read by thread views.",
	})
	InboxRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_inbox_requests_total",
		Help: "Inbox aggregations served.",
	})
)

// Handler returns an http.Handler for Prometheus scraping
func Handler() http.Handler {
	return promhttp.Handler()
}
