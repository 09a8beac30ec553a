package session

import "github.com/prometheus/client_golang/prometheus"

var (
	gamesStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arcade",
			Subsystem: "session",
			Name:      "games_started_total",
			Help:      "Games started, by movement mode.",
		},
		[]string{"mode"},
	)
	gamesOver = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arcade",
			Subsystem: "session",
			Name:      "games_over_total",
			Help:      "Games ended, by cause.",
		},
		[]string{"cause"},
	)
	framesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arcade",
			Subsystem: "session",
			Name:      "frames_total",
			Help:      "Frames rendered, by movement mode.",
		},
		[]string{"mode"},
	)
	finalScores = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "arcade",
			Subsystem: "session",
			Name:      "final_score",
			Help:      "Score at game over.",
			Buckets:   prometheus.LinearBuckets(0, 50, 10),
		},
	)
	activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "arcade",
			Subsystem: "session",
			Name:      "running",
			Help:      "Sessions currently held by the manager.",
		},
	)
)

func init() {
	prometheus.MustRegister(gamesStarted, gamesOver, framesTotal, finalScores, activeSessions)
}
