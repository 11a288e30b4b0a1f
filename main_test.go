// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-tally/auth"
	"github.com/danielhkuo/quickly-tally/cliparse"
	"github.com/danielhkuo/quickly-tally/db"
	"github.com/danielhkuo/quickly-tally/ledger"
	"github.com/danielhkuo/quickly-tally/testutil"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestKeygenAndSign(t *testing.T) {
	out, err := run(t, "keygen")
	require.NoError(t, err)

	var priv, addr string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		fields := strings.Fields(line)
		require.Len(t, fields, 2, "line %q", line)
		switch fields[0] {
		case "private_key:":
			priv = fields[1]
		case "address:":
			addr = fields[1]
		}
	}
	require.NotEmpty(t, priv)
	require.NotEmpty(t, addr)

	body := `{"candidate":1}`
	sig, err := run(t, "sign", "--key", priv, "--path", "/votes", "--body", body)
	require.NoError(t, err)

	caller, err := auth.RecoverCaller("POST", "/votes", []byte(body), strings.TrimSpace(sig))
	require.NoError(t, err)
	assert.Equal(t, addr, caller.Hex())
}

func TestSignRequiresKeyAndPath(t *testing.T) {
	_, err := run(t, "sign", "--path", "/votes")
	assert.ErrorContains(t, err, "--key")

	_, err = run(t, "sign", "--key", "0x01")
	assert.ErrorContains(t, err, "--path")

	_, err = run(t, "sign", "--key", "nothex", "--path", "/votes")
	assert.Error(t, err)
}

func TestTally(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ballot.db")

	conn, err := db.Open(db.TypeSQLite, "file:"+path)
	require.NoError(t, err)
	require.NoError(t, db.CreateSchema(conn))

	admin := testutil.NewKey(t)
	a, _, err := ledger.Bootstrap(ctx, conn, ledger.Config{CandidateCount: 3, Admin: admin.Address})
	require.NoError(t, err)

	voterA, voterB := testutil.NewKey(t), testutil.NewKey(t)
	testutil.RegisterTestVoter(t, a, voterA.Address)
	testutil.RegisterTestVoter(t, a, voterB.Address)
	require.NoError(t, a.CloseRegistration(ctx, admin.Address))
	require.NoError(t, a.SubmitVote(ctx, voterA.Address, 0))
	require.NoError(t, a.SubmitVote(ctx, voterB.Address, 1))
	require.NoError(t, conn.Close())

	out, err := run(t, "tally", "-d", "file:"+path, "-n", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "Owner         "+admin.Address.Hex())
	assert.Contains(t, out, "Registration  closed")
	assert.Contains(t, out, "Votes cast    2 (100% turnout)")
	assert.Regexp(t, `(?m)^0\s+1\s+50%$`, out)
	assert.Regexp(t, `(?m)^1\s+1\s+50%$`, out)
	assert.Regexp(t, `(?m)^2\s+0\s+0%$`, out)
	assert.Contains(t, out, "#5 VoteSubmitted "+voterB.Address.Hex()+" -> 1")
	assert.NotContains(t, out, "#3 RegistrationClosed")
}

func TestTallyEmptyDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	conn, err := db.Open(db.TypeSQLite, "file:"+path)
	require.NoError(t, err)
	require.NoError(t, db.CreateSchema(conn))
	require.NoError(t, conn.Close())

	_, err = run(t, "tally", "-d", "file:"+path)
	assert.ErrorIs(t, err, ledger.ErrNoAuthority)
}

func TestServeHelp(t *testing.T) {
	_, err := run(t, "serve", "-h")
	assert.NoError(t, err)
}

func TestServeRejectsBadConfig(t *testing.T) {
	_, err := run(t, "serve", "-env-file", "", "-d", "file:x.db", "-t", "mysql")
	assert.ErrorContains(t, err, "unsupported database type")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := newLogger(&buf, cliparse.Config{LogFormat: "json", LogLevel: "warn"})
	logger.Info("hidden")
	logger.Warn("shown", "voter", "0x1")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"voter":"0x1"`)

	buf.Reset()
	newLogger(&buf, cliparse.Config{LogFormat: "text"}).Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}
