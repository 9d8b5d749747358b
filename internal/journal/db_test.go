package journal

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestAppendAssignsSequence(t *testing.T) {
	db := openTestDB(t)
	if err := db.StartMatch(Match{ID: "m1", Seed: 42, Radius: 4, Players: 2, MaxTurns: 3}); err != nil {
		t.Fatal(err)
	}

	first := Event{MatchID: "m1", Turn: 1, Phase: "Player1Turn", Kind: "select", UnitID: "u1"}
	moved := Event{MatchID: "m1", Turn: 1, Phase: "Player1Turn", Kind: "commit", UnitID: "u1", Detail: Detail(map[string]int{"cost": 2})}
	moved.At(2, -1)
	ended := Event{MatchID: "m1", Turn: 2, Phase: "Player2Turn", Kind: "end_turn"}

	for i, e := range []Event{first, moved, ended} {
		got, err := db.Append(e)
		if err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
		if got.Seq != i+1 {
			t.Errorf("event %d seq = %d, want %d", i, got.Seq, i+1)
		}
	}

	events, err := db.Events("m1")
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].Q != nil || events[0].Detail != "null" {
		t.Errorf("event without coordinate: %+v", events[0])
	}
	if events[1].Q == nil || *events[1].Q != 2 || *events[1].R != -1 {
		t.Errorf("coordinate not stored: %+v", events[1])
	}
	if events[1].Detail != `{"cost":2}` {
		t.Errorf("detail = %s", events[1].Detail)
	}
	if events[2].Kind != "end_turn" || events[2].CreatedAt == 0 {
		t.Errorf("last event = %+v", events[2])
	}
}

func TestSequencesArePerMatch(t *testing.T) {
	db := openTestDB(t)
	db.StartMatch(Match{ID: "a", Players: 1})
	db.StartMatch(Match{ID: "b", Players: 1})

	db.Append(Event{MatchID: "a", Turn: 1, Kind: "end_turn"})
	db.Append(Event{MatchID: "a", Turn: 2, Kind: "end_turn"})
	got, err := db.Append(Event{MatchID: "b", Turn: 1, Kind: "end_turn"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Seq != 1 {
		t.Errorf("first event of match b has seq %d, want 1", got.Seq)
	}

	matches, err := db.Matches()
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Errorf("got %d matches, want 2", len(matches))
	}
}

func TestLastTurn(t *testing.T) {
	db := openTestDB(t)
	db.StartMatch(Match{ID: "m", Players: 2})

	if n, err := db.LastTurn("m"); err != nil || n != 0 {
		t.Errorf("LastTurn on empty match = %d, %v", n, err)
	}
	db.Append(Event{MatchID: "m", Turn: 1, Kind: "end_turn"})
	db.Append(Event{MatchID: "m", Turn: 3, Kind: "end_turn"})
	if n, err := db.LastTurn("m"); err != nil || n != 3 {
		t.Errorf("LastTurn = %d, %v, want 3", n, err)
	}
}

func TestReopenKeepsEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	db.StartMatch(Match{ID: "m", Players: 2})
	db.Append(Event{MatchID: "m", Turn: 1, Kind: "regenerate"})
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	events, err := db.Events("m")
	if err != nil || len(events) != 1 {
		t.Fatalf("after reopen: %d events, %v", len(events), err)
	}
}

func TestStartMatchRejectsDuplicate(t *testing.T) {
	db := openTestDB(t)
	if err := db.StartMatch(Match{ID: "dup", Players: 1}); err != nil {
		t.Fatal(err)
	}
	if err := db.StartMatch(Match{ID: "dup", Players: 1}); err == nil {
		t.Error("duplicate match ID should fail")
	}
}
