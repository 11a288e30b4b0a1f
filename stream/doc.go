// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package stream pushes ballot events to websocket clients.

	hub := stream.NewHub(stream.DefaultQueueSize, nil)
	authority.Subscribe(hub)
	mux.Handle("GET /events/ws", hub)

Each message is one JSON-encoded models.Event, in commit order. The hub
never blocks the authority: a client whose queue is full is dropped and
can resume from GET /events?after=<last seq>.
*/
package stream
