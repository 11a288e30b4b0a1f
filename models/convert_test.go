package models

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-tally/ballot"
)

func TestNewEvent(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	voter := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

	t.Run("registration", func(t *testing.T) {
		e := NewEvent(ballot.Event{Seq: 1, ID: "a", Kind: ballot.VoterRegistered, Voter: voter, At: at})
		assert.Equal(t, voter.Hex(), e.Voter)
		assert.Nil(t, e.Candidate)
		assert.Equal(t, "VoterRegistered", e.Kind)
	})

	t.Run("close has no voter", func(t *testing.T) {
		e := NewEvent(ballot.Event{Seq: 2, ID: "b", Kind: ballot.RegistrationClosed, At: at})
		assert.Empty(t, e.Voter)
		assert.Nil(t, e.Candidate)
	})

	t.Run("vote keeps candidate zero", func(t *testing.T) {
		e := NewEvent(ballot.Event{Seq: 3, ID: "c", Kind: ballot.VoteSubmitted, Voter: voter, Candidate: 0, At: at})
		require.NotNil(t, e.Candidate)
		assert.Equal(t, 0, *e.Candidate)
		assert.Equal(t, at, e.At)
	})
}

func TestNewEventsNeverNil(t *testing.T) {
	out := NewEvents(nil)
	assert.NotNil(t, out)
	assert.Len(t, out, 0)
}
