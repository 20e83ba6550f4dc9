package task

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	domain "github.com/vidhun05/To-Do/domain/task"
)

var storeOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "todo",
	Subsystem: "store",
	Name:      "operations_total",
	Help:      "Task store operations by operation and outcome.",
}, []string{"operation", "outcome"})

var cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "todo",
	Subsystem: "cache",
	Name:      "lookups_total",
	Help:      "Task detail cache lookups by result.",
}, []string{"result"})

// observe records the outcome of a store operation.
func observe(operation string, err error) {
	storeOperations.WithLabelValues(operation, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrTaskNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrInvalidSubtaskIndex):
		return "bad_index"
	default:
		return "error"
	}
}
