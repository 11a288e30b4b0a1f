// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger stores the ballot authority and its ordered journal in SQL.

# Bootstrap

	a, l, err := ledger.Bootstrap(ctx, conn, ledger.Config{
		CandidateCount: 3,
		Admin:          adminAddr,
	})

On an empty database this creates the authority row. Afterwards it loads
the row, refuses a config that contradicts it, replays every journaled
event through ballot.Restore and attaches itself as the authority's
journal, so each accepted call is written before it takes effect.

# Event Feed

	events, err := l.Events(ctx, afterSeq, limit)

Events come back in sequence order. Clients poll with the last sequence
number they have seen.
*/
package ledger
