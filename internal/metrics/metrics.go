package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activity_signup",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served, by method, route and status.",
	}, []string{"method", "route", "status"})
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "activity_signup",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	signups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activity_signup",
		Name:      "signups_total",
		Help:      "Successful signups per activity.",
	}, []string{"activity"})
	unregistrations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activity_signup",
		Name:      "unregistrations_total",
		Help:      "Successful unregistrations per activity.",
	}, []string{"activity"})
	participants = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "activity_signup",
		Name:      "participants",
		Help:      "Current participant count per activity.",
	}, []string{"activity"})
	eventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activity_signup",
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Participant events handed to the broker, by kind and result.",
	}, []string{"kind", "result"})
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration, signups, unregistrations, participants, eventsPublished)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func RecordSignup(activity string, count int) {
	signups.WithLabelValues(activity).Inc()
	SetParticipants(activity, count)
}

func RecordUnregister(activity string, count int) {
	unregistrations.WithLabelValues(activity).Inc()
	SetParticipants(activity, count)
}

func SetParticipants(activity string, count int) {
	participants.WithLabelValues(activity).Set(float64(count))
}

func RecordPublish(kind string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	eventsPublished.WithLabelValues(kind, result).Inc()
}
