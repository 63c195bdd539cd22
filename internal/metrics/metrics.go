package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	reservationAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "haksik",
			Name:      "reservation_attempts_total",
			Help:      "Seat reservation attempts by outcome.",
		},
		[]string{"outcome"},
	)

	refreshTicks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "haksik",
			Name:      "seat_refresh_ticks_total",
			Help:      "Periodic seat status recomputations.",
		},
	)

	announcements = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "haksik",
			Name:      "tts_announcements_total",
			Help:      "Voice announcements handed to the TTS worker.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(reservationAttempts, refreshTicks, announcements)
	})
}

// IncReservation increments the attempt counter for an outcome label.
func IncReservation(outcome string) {
	reservationAttempts.WithLabelValues(outcome).Inc()
}

// IncRefreshTick counts one periodic status recomputation.
func IncRefreshTick() {
	refreshTicks.Inc()
}

// IncAnnouncement counts one queued voice announcement.
func IncAnnouncement() {
	announcements.Inc()
}
