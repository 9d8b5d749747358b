package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/talgya/hex-tactics/internal/journal"
)

func (a *app) journalAction(ctx context.Context, cmd *cli.Command) error {
	if a.cfg.JournalPath == "" {
		return errors.New("no journal configured: pass --journal or set TACTICS_JOURNAL")
	}
	db, err := journal.Open(a.cfg.JournalPath)
	if err != nil {
		return err
	}
	defer db.Close()
	return printJournal(os.Stdout, db, cmd.Args().Get(0))
}

// printJournal lists the recorded matches, or every event of one match when
// matchID is set.
func printJournal(w io.Writer, db *journal.DB, matchID string) error {
	if matchID == "" {
		matches, err := db.Matches()
		if err != nil {
			return fmt.Errorf("list matches: %w", err)
		}
		for _, m := range matches {
			last, err := db.LastTurn(m.ID)
			if err != nil {
				return fmt.Errorf("last turn of %s: %w", m.ID, err)
			}
			fmt.Fprintf(w, "%s  seed %d  radius %d  %d players  reached the %s turn\n",
				m.ID, m.Seed, m.Radius, m.Players, humanize.Ordinal(last))
		}
		fmt.Fprintf(w, "%s matches\n", humanize.Comma(int64(len(matches))))
		return nil
	}

	events, err := db.Events(matchID)
	if err != nil {
		return fmt.Errorf("events of %s: %w", matchID, err)
	}
	if len(events) == 0 {
		return fmt.Errorf("no events for match %q", matchID)
	}
	for _, e := range events {
		at := ""
		if e.Q != nil && e.R != nil {
			at = fmt.Sprintf(" at (%d,%d)", *e.Q, *e.R)
		}
		unit := e.UnitID
		if len(unit) > 8 {
			unit = unit[:8]
		}
		fmt.Fprintf(w, "%4d  turn %d  %-12s %-10s %s%s %s\n", e.Seq, e.Turn, e.Phase, e.Kind, unit, at, e.Detail)
	}
	return nil
}
