// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package metrics exports authority state to Prometheus.

	m := metrics.New()
	m.Seed(authority.Snapshot())
	authority.Subscribe(m)
	mux.Handle("GET /metrics", m.Handler())

Exported series (namespace quicklytally):

	quicklytally_tally{candidate="0"}        votes per candidate
	quicklytally_registered_voters          roster size
	quicklytally_votes_cast                 accepted votes
	quicklytally_registration_open          1 or 0
	quicklytally_rejected_calls_total{op,kind}
*/
package metrics
