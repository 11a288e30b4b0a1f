// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/quickly-tally/ballot"
	"github.com/danielhkuo/quickly-tally/db"
	"github.com/danielhkuo/quickly-tally/ledger"
)

func newTallyCmd() *cobra.Command {
	var dbURL, dbType string
	var lastEvents int

	cmd := &cobra.Command{
		Use:   "tally",
		Short: "Print the results stored in a ballot database",
		Long: `Print the results stored in a ballot database.

The journal is replayed with the same checks the server uses, so a
tampered or inconsistent database is reported instead of printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbURL == "" {
				dbURL = os.Getenv("DATABASE_URL")
			}
			if dbURL == "" {
				return errors.New("database URL required (use -d or DATABASE_URL env)")
			}

			conn, err := db.Open(dbType, dbURL)
			if err != nil {
				return err
			}
			defer conn.Close()

			report, err := loadReport(cmd.Context(), conn, lastEvents)
			if err != nil {
				return err
			}
			report.write(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().StringVarP(&dbURL, "database", "d", "", "database URL")
	cmd.Flags().StringVarP(&dbType, "type", "t", db.TypeSQLite, "database type (sqlite or postgres)")
	cmd.Flags().IntVarP(&lastEvents, "events", "n", 5, "number of recent events to show")
	return cmd
}

type tallyReport struct {
	record   ledger.Record
	snapshot ballot.Snapshot
	recent   []ballot.Event
}

func loadReport(ctx context.Context, conn *sql.DB, lastEvents int) (tallyReport, error) {
	rec, err := ledger.LoadRecord(ctx, conn)
	if err != nil {
		return tallyReport{}, err
	}

	history, err := ledger.New(conn, rec.ID).Events(ctx, 0, 0)
	if err != nil {
		return tallyReport{}, err
	}

	var opts []ballot.Option
	if rec.Strict {
		opts = append(opts, ballot.WithStrictRegistration())
	}
	a, err := ballot.Restore(rec.CandidateCount, rec.Owner, history, opts...)
	if err != nil {
		return tallyReport{}, err
	}

	if lastEvents > len(history) {
		lastEvents = len(history)
	}
	if lastEvents < 0 {
		lastEvents = 0
	}

	return tallyReport{
		record:   rec,
		snapshot: a.Snapshot(),
		recent:   history[len(history)-lastEvents:],
	}, nil
}

func (r tallyReport) write(out io.Writer) {
	s := r.snapshot

	registration := "open"
	if !s.RegistrationOpen {
		registration = "closed"
	}
	if r.record.Strict {
		registration += " (strict)"
	}

	fmt.Fprintf(out, "Authority     %s (created %s)\n", r.record.ID, humanize.Time(r.record.CreatedAt))
	fmt.Fprintf(out, "Owner         %s\n", s.Owner.Hex())
	fmt.Fprintf(out, "Registration  %s\n", registration)
	fmt.Fprintf(out, "Registered    %s\n", humanize.Comma(int64(s.Registered)))
	fmt.Fprintf(out, "Votes cast    %s (%s turnout)\n", humanize.Comma(int64(s.Voted)), percent(uint64(s.Voted), uint64(s.Registered)))
	fmt.Fprintln(out)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CANDIDATE\tVOTES\tSHARE")
	total := s.Total()
	for i, n := range s.Tally {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i, humanize.Comma(int64(n)), percent(n, total))
	}
	tw.Flush()

	if len(r.recent) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Recent events")
	for _, e := range r.recent {
		fmt.Fprintf(out, "  #%d %s%s (%s)\n", e.Seq, e.Kind, eventDetail(e), humanize.Time(e.At))
	}
}

func eventDetail(e ballot.Event) string {
	switch e.Kind {
	case ballot.VoterRegistered:
		return " " + e.Voter.Hex()
	case ballot.VoteSubmitted:
		return fmt.Sprintf(" %s -> %d", e.Voter.Hex(), e.Candidate)
	}
	return ""
}

func percent(n, of uint64) string {
	if of == 0 {
		return "0%"
	}
	return humanize.FtoaWithDigits(float64(n)*100/float64(of), 1) + "%"
}
