// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"pgregory.net/rapid"
)

// model mirrors the authority with plain maps so every call can be checked
type model struct {
	registered map[Identity]bool
	voted      map[Identity]bool
	open       bool
}

func checkInvariants(t *rapid.T, a *Authority, m *model, candidates int) {
	s := a.Snapshot()

	if len(s.Tally) != candidates {
		t.Fatalf("tally length %d, want %d", len(s.Tally), candidates)
	}
	if s.Total() > uint64(s.Registered) {
		t.Fatalf("tally total %d exceeds registered %d", s.Total(), s.Registered)
	}
	if s.Total() != uint64(s.Voted) {
		t.Fatalf("tally total %d differs from voters %d", s.Total(), s.Voted)
	}
	for id := range m.voted {
		if !a.IsRegistered(id) {
			t.Fatalf("%s voted without registration", id.Hex())
		}
	}
	if s.Registered != len(m.registered) || s.Voted != len(m.voted) {
		t.Fatalf("snapshot %d/%d, model %d/%d", s.Registered, s.Voted, len(m.registered), len(m.voted))
	}
	if s.RegistrationOpen != m.open {
		t.Fatalf("registration open %v, model %v", s.RegistrationOpen, m.open)
	}
}

func TestInvariantsHoldForRandomCalls(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		candidates := rapid.IntRange(1, 6).Draw(t, "candidates")
		strict := rapid.Bool().Draw(t, "strict")

		// a small identity pool makes collisions (double registration,
		// double voting) likely
		pool := make([]Identity, 6)
		for i := range pool {
			pool[i] = common.HexToAddress(fmt.Sprintf("0x%040x", i+1))
		}
		admin := pool[0]

		var opts []Option
		if strict {
			opts = append(opts, WithStrictRegistration())
		}
		a, err := New(candidates, admin, opts...)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		m := &model{registered: map[Identity]bool{}, voted: map[Identity]bool{}, open: true}

		steps := rapid.IntRange(0, 60).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			caller := rapid.SampledFrom(pool).Draw(t, "caller")
			before := a.Snapshot()

			var err error
			switch op := rapid.IntRange(0, 2).Draw(t, "op"); op {
			case 0:
				target := rapid.SampledFrom(pool).Draw(t, "target")
				err = a.RegisterVoter(ctx, caller, target)
				switch {
				case caller != admin:
					expectErr(t, err, ErrUnauthorized)
				case strict && !m.open:
					expectErr(t, err, ErrRegistrationClosed)
				case m.registered[target]:
					expectErr(t, err, ErrAlreadyRegistered)
				default:
					expectErr(t, err, nil)
					m.registered[target] = true
				}
			case 1:
				err = a.CloseRegistration(ctx, caller)
				if caller != admin {
					expectErr(t, err, ErrUnauthorized)
				} else {
					expectErr(t, err, nil)
					m.open = false
				}
			case 2:
				candidate := rapid.IntRange(-1, candidates).Draw(t, "candidate")
				err = a.SubmitVote(ctx, caller, candidate)
				switch {
				case !m.registered[caller]:
					expectErr(t, err, ErrNotRegistered)
				case m.voted[caller]:
					expectErr(t, err, ErrAlreadyVoted)
				case candidate < 0 || candidate >= candidates:
					expectErr(t, err, ErrInvalidCandidate)
				default:
					expectErr(t, err, nil)
					m.voted[caller] = true
				}
			}

			// rejected calls leave state untouched
			if err != nil {
				after := a.Snapshot()
				if fmt.Sprint(before) != fmt.Sprint(after) {
					t.Fatalf("rejected call changed state: %v -> %v", before, after)
				}
			}

			// closed registration never reopens and, when strict, never grows
			if !before.RegistrationOpen && a.RegistrationOpen() {
				t.Fatalf("registration reopened")
			}
			if strict && !before.RegistrationOpen && a.Snapshot().Registered > before.Registered {
				t.Fatalf("registration grew after close")
			}

			checkInvariants(t, a, m, candidates)
		}
	})
}

func expectErr(t *rapid.T, got, want error) {
	if want == nil {
		if got != nil {
			t.Fatalf("unexpected error: %v", got)
		}
		return
	}
	if !errors.Is(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

// TestConcurrentVotes races every registered voter, twice each, against
// the same authority and checks that exactly one vote per voter lands.
func TestConcurrentVotes(t *testing.T) {
	ctx := context.Background()
	a, err := New(candidateCount, owner)
	if err != nil {
		t.Fatal(err)
	}

	numVoters := 50
	voters := make([]Identity, numVoters)
	for i := range voters {
		voters[i] = common.HexToAddress(fmt.Sprintf("0x%040x", 0x100+i))
		if err := a.RegisterVoter(ctx, owner, voters[i]); err != nil {
			t.Fatal(err)
		}
	}

	var accepted, rejected atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < numVoters; i++ {
		for attempt := 0; attempt < 2; attempt++ {
			wg.Add(1)
			go func(idx, attempt int) {
				defer wg.Done()
				err := a.SubmitVote(ctx, voters[idx], (idx+attempt)%candidateCount)
				switch {
				case err == nil:
					accepted.Add(1)
				case errors.Is(err, ErrAlreadyVoted):
					rejected.Add(1)
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}(i, attempt)
		}
	}

	// readers run alongside and must never see a torn state
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			s := a.Snapshot()
			if s.Total() != uint64(s.Voted) {
				t.Errorf("torn snapshot: total %d, voted %d", s.Total(), s.Voted)
				return
			}
		}
	}()

	wg.Wait()
	<-done

	if int(accepted.Load()) != numVoters {
		t.Errorf("Expected %d accepted votes, got %d", numVoters, accepted.Load())
	}
	if int(rejected.Load()) != numVoters {
		t.Errorf("Expected %d rejected votes, got %d", numVoters, rejected.Load())
	}
	if total := a.Snapshot().Total(); total != uint64(numVoters) {
		t.Errorf("Expected tally total %d, got %d", numVoters, total)
	}
}
