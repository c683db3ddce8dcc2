// Package metrics exposes Prometheus instruments for reaction writes and
// recount runs.
//
// A nil *Recorder is valid and records nothing, so callers that do not care
// about metrics never need to construct one.
package metrics

import (
	"errors"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	labelOp     = "op"
	labelResult = "result"
)

// Reaction write operations.
const (
	OpReact   = "react"
	OpUnreact = "unreact"
)

// Reaction write results.
const (
	ResultApplied = "applied"
	ResultNoop    = "noop"
	ResultError   = "error"
)

// Recount reactant results.
const (
	ResultRecounted = "recounted"
	ResultFailed    = "failed"
)

var defaultRecountBuckets = []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300}

// Recorder holds the love instruments.
type Recorder struct {
	reactions        *prometheus.CounterVec
	recountReactants *prometheus.CounterVec
	recountDuration  prometheus.Histogram
}

// NewRecorder creates the instruments and registers them with reg.
// Collectors already registered by an earlier Recorder are reused.
func NewRecorder(reg prometheus.Registerer, namespace string) (*Recorder, error) {
	var err error
	var result *multierror.Error
	r := &Recorder{}

	r.reactions, err = registerCounterVec(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reactions_total",
			Help:      "The total number of react and unreact calls, by outcome",
		},
		[]string{labelOp, labelResult},
	))
	if err != nil {
		result = multierror.Append(result, err)
	}

	r.recountReactants, err = registerCounterVec(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recount_reactants_total",
			Help:      "The total number of reactants processed by recount runs, by outcome",
		},
		[]string{labelResult},
	))
	if err != nil {
		result = multierror.Append(result, err)
	}

	r.recountDuration, err = registerHistogram(reg, prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recount_duration_seconds",
			Help:      "The time a whole recount run took in seconds",
			Buckets:   defaultRecountBuckets,
		},
	))
	if err != nil {
		result = multierror.Append(result, err)
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return r, nil
}

// ObserveReaction counts one react or unreact call.
func (r *Recorder) ObserveReaction(op, result string) {
	if r == nil {
		return
	}
	r.reactions.With(prometheus.Labels{labelOp: op, labelResult: result}).Inc()
}

// ObserveRecount records a finished recount run.
func (r *Recorder) ObserveRecount(recounted, failed int, took time.Duration) {
	if r == nil {
		return
	}
	r.recountReactants.With(prometheus.Labels{labelResult: ResultRecounted}).Add(float64(recounted))
	r.recountReactants.With(prometheus.Labels{labelResult: ResultFailed}).Add(float64(failed))
	r.recountDuration.Observe(took.Seconds())
}

func register(reg prometheus.Registerer, c prometheus.Collector) (prometheus.Collector, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		return are.ExistingCollector, nil
	}

	return nil, err
}

func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	col, err := register(reg, c)
	if err != nil {
		return nil, err
	}
	return col.(*prometheus.CounterVec), nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram) (prometheus.Histogram, error) {
	col, err := register(reg, h)
	if err != nil {
		return nil, err
	}
	return col.(prometheus.Histogram), nil
}
