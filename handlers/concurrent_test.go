// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/quickly-tally/models"
	"github.com/danielhkuo/quickly-tally/testutil"
)

// TestConcurrentVoteSubmissions races every voter against itself and
// checks that exactly one vote per voter is counted and journaled
func TestConcurrentVoteSubmissions(t *testing.T) {
	f := setup(t, false)

	numVoters := 10
	voters := make([]testutil.Key, numVoters)
	for i := range voters {
		voters[i] = testutil.NewKey(t)
		testutil.RegisterTestVoter(t, f.authority, voters[i].Address)
	}

	// Sign up front; t.Fatalf must not run in the worker goroutines
	const attempts = 3
	requests := make([][]*http.Request, numVoters)
	for i := range voters {
		for j := 0; j < attempts; j++ {
			c := (i + j) % testutil.TestCandidateCount
			requests[i] = append(requests[i],
				testutil.MakeSignedRequest(t, voters[i], "POST", "/votes", models.SubmitVoteRequest{Candidate: &c}))
		}
	}

	var created, conflicts atomic.Int32
	var wg sync.WaitGroup

	for i := range voters {
		for j := 0; j < attempts; j++ {
			wg.Add(1)
			go func(req *http.Request) {
				defer wg.Done()

				w := httptest.NewRecorder()
				f.votingHandler.SubmitVote(w, req)

				switch w.Code {
				case http.StatusCreated:
					created.Add(1)
				case http.StatusConflict:
					conflicts.Add(1)
				default:
					t.Errorf("Unexpected status %d: %s", w.Code, w.Body.String())
				}
			}(requests[i][j])
		}
	}

	wg.Wait()

	if int(created.Load()) != numVoters {
		t.Errorf("Expected %d accepted votes, got %d", numVoters, created.Load())
	}
	if int(conflicts.Load()) != numVoters*(attempts-1) {
		t.Errorf("Expected %d conflicts, got %d", numVoters*(attempts-1), conflicts.Load())
	}

	s := f.authority.Snapshot()
	if s.Total() != uint64(numVoters) || s.Voted != numVoters {
		t.Errorf("Expected %d votes, got total=%d voted=%d", numVoters, s.Total(), s.Voted)
	}

	// journal agrees with memory
	events, err := f.ledger.Events(t.Context(), uint64(numVoters), 0)
	if err != nil {
		t.Fatalf("Failed to read events: %v", err)
	}
	if len(events) != numVoters {
		t.Errorf("Expected %d vote events, got %d", numVoters, len(events))
	}
}

// TestConcurrentRegistrations races admin registrations of the same
// voters; each voter must be registered exactly once
func TestConcurrentRegistrations(t *testing.T) {
	f := setup(t, false)

	numVoters := 8
	const attempts = 2
	var requests []*http.Request
	for i := 0; i < numVoters; i++ {
		voter := testutil.NewKey(t)
		for j := 0; j < attempts; j++ {
			requests = append(requests,
				testutil.MakeSignedRequest(t, f.admin, "POST", "/voters", models.RegisterVoterRequest{Voter: voter.Address.Hex()}))
		}
	}

	var created atomic.Int32
	var wg sync.WaitGroup
	for _, req := range requests {
		wg.Add(1)
		go func(req *http.Request) {
			defer wg.Done()

			w := httptest.NewRecorder()
			f.adminHandler.RegisterVoter(w, req)
			if w.Code == http.StatusCreated {
				created.Add(1)
			}
		}(req)
	}

	wg.Wait()

	if int(created.Load()) != numVoters {
		t.Errorf("Expected %d registrations, got %d", numVoters, created.Load())
	}
	if got := f.authority.Snapshot().Registered; got != numVoters {
		t.Errorf("Expected %d registered voters, got %d", numVoters, got)
	}
}

// TestConcurrentReadsDuringVoting checks results never show more votes
// than voters while votes are landing
func TestConcurrentReadsDuringVoting(t *testing.T) {
	f := setup(t, false)

	numVoters := 10
	var requests []*http.Request
	for i := 0; i < numVoters; i++ {
		voter := testutil.NewKey(t)
		testutil.RegisterTestVoter(t, f.authority, voter.Address)
		c := i % testutil.TestCandidateCount
		requests = append(requests,
			testutil.MakeSignedRequest(t, voter, "POST", "/votes", models.SubmitVoteRequest{Candidate: &c}))
	}

	var wg sync.WaitGroup
	for _, req := range requests {
		wg.Add(1)
		go func(req *http.Request) {
			defer wg.Done()
			f.votingHandler.SubmitVote(httptest.NewRecorder(), req)
		}(req)
	}

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			w := httptest.NewRecorder()
			f.resultsHandler.GetResults(w, httptest.NewRequest("GET", "/results", nil))

			var resp models.ResultsResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Errorf("Failed to decode results: %v", err)
				return
			}
			var sum uint64
			for _, n := range resp.Results {
				sum += n
			}
			if sum != resp.Total || resp.Total > uint64(numVoters) {
				t.Errorf("Inconsistent results: %+v", resp)
			}
		}()
	}

	wg.Wait()
}
