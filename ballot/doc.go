// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ballot implements the ballot authority: a fixed roster of voters
registered by one administrator, one irrevocable vote per voter, and a
running tally over a fixed number of candidates.

# Construction

	a, err := ballot.New(3, adminAddr)

The candidate count and the administrator never change after New.

# Operations

	a.RegisterVoter(ctx, admin, voter)   // admin only
	a.CloseRegistration(ctx, admin)      // admin only, repeatable
	a.SubmitVote(ctx, voter, 1)          // registered voters, once
	a.Results()                          // []uint64, candidate order

Rejections are returned as wrapped sentinel errors:

	if errors.Is(err, ballot.ErrAlreadyVoted) { ... }

ballot.Kind(err) turns any of them into a stable string.

# Registration flag

By default closing registration only flips a flag; RegisterVoter keeps
working afterwards. WithStrictRegistration makes it fail with
ErrRegistrationClosed instead. Voting is never gated on the flag.

# Events and journaling

Every accepted call produces one Event with a per-authority sequence
number. A Journal attached with WithJournal sees the event before it is
applied; Observers added with Subscribe see it after. Restore rebuilds an
authority from a journaled history.
*/
package ballot
