// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/quickly-tally/ballot"
)

const namespace = "quicklytally"

// Collector mirrors authority state into Prometheus gauges. It is fed by
// the authority's event stream after an initial Seed.
type Collector struct {
	registry *prometheus.Registry

	tally            *prometheus.GaugeVec
	registeredVoters prometheus.Gauge
	votesCast        prometheus.Gauge
	registrationOpen prometheus.Gauge
	rejected         *prometheus.CounterVec
}

// New creates a collector with its own registry
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		tally: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tally",
			Help:      "Votes counted per candidate index",
		}, []string{"candidate"}),
		registeredVoters: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registered_voters",
			Help:      "Number of registered voters",
		}),
		votesCast: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "votes_cast",
			Help:      "Number of accepted votes",
		}),
		registrationOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registration_open",
			Help:      "1 while registration is open, 0 once closed",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_calls_total",
			Help:      "Calls rejected by the authority, by operation and error kind",
		}, []string{"op", "kind"}),
	}

	c.registry.MustRegister(
		c.tally,
		c.registeredVoters,
		c.votesCast,
		c.registrationOpen,
		c.rejected,
	)
	return c
}

// Seed sets every gauge from a snapshot. Call it before subscribing.
func (c *Collector) Seed(s ballot.Snapshot) {
	for i, n := range s.Tally {
		c.tally.WithLabelValues(strconv.Itoa(i)).Set(float64(n))
	}
	c.registeredVoters.Set(float64(s.Registered))
	c.votesCast.Set(float64(s.Voted))
	if s.RegistrationOpen {
		c.registrationOpen.Set(1)
	} else {
		c.registrationOpen.Set(0)
	}
}

// Observe implements ballot.Observer
func (c *Collector) Observe(e ballot.Event) {
	switch e.Kind {
	case ballot.VoterRegistered:
		c.registeredVoters.Inc()
	case ballot.RegistrationClosed:
		c.registrationOpen.Set(0)
	case ballot.VoteSubmitted:
		c.tally.WithLabelValues(strconv.Itoa(e.Candidate)).Inc()
		c.votesCast.Inc()
	}
}

// Rejected counts a failed call to op
func (c *Collector) Rejected(op string, err error) {
	c.rejected.WithLabelValues(op, ballot.Kind(err)).Inc()
}

// Registry exposes the underlying registry, mostly for tests
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
