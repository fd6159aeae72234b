package metrics

import "github.com/prometheus/client_golang/prometheus"

type Counter interface {
	Inc(labels ...string)
}

type Counters struct {
	// labels: operation, severity
	LogMutations Counter

	// labels: format, status
	LogsExported Counter
}

type PrometheusCounter struct {
	counter *prometheus.CounterVec
}

func newCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: name,
		Help: help,
	}, labels)
}

func NewPrometheusCounter(reg prometheus.Registerer, name, help string, labels []string) *PrometheusCounter {
	c := &PrometheusCounter{counter: newCounterVec(name, help, labels)}
	reg.MustRegister(c.counter)
	return c
}

func (p *PrometheusCounter) Inc(labels ...string) {
	p.counter.WithLabelValues(labels...).Inc()
}

func newCounters(reg prometheus.Registerer) *Counters {
	return &Counters{
		LogMutations: NewPrometheusCounter(
			reg,
			"log_mutations_total",
			"Number of log entries created, updated or deleted",
			[]string{"operation", "severity"},
		),
		LogsExported: NewPrometheusCounter(
			reg,
			"logs_exported_total",
			"Number of log exports by format and outcome",
			[]string{"format", "status"},
		),
	}
}

func New() *Counters {
	return newCounters(prometheus.DefaultRegisterer)
}

// NewTestCounters registers the counters in a private registry so that
// tests can build as many services as they like.
func NewTestCounters() *Counters {
	return newCounters(prometheus.NewRegistry())
}
