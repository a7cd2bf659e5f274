package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	quizzesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quizapp_quizzes_created_total",
			Help: "Total number of quizzes created",
		},
	)

	attemptsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizapp_attempts_recorded_total",
			Help: "Total number of graded attempts",
		},
		[]string{"result"}, // result: perfect/partial/zero
	)
)

func observeAttempt(result GradeResult) {
	switch {
	case result.Total > 0 && result.Score == result.Total:
		attemptsRecorded.WithLabelValues("perfect").Inc()
	case result.Score == 0:
		attemptsRecorded.WithLabelValues("zero").Inc()
	default:
		attemptsRecorded.WithLabelValues("partial").Inc()
	}
}
