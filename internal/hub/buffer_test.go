package hub

import (
	"testing"

	"github.com/eldtechnologies/relaycast/internal/models"
)

func msg(id string) models.Message {
	return models.Message{ID: id, Author: "bob", Content: "hi", CreatedAt: 1000, ReceivedAt: 2000}
}

func ids(msgs []models.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.ID
	}
	return out
}

func assertIDs(t *testing.T, got []models.Message, want ...string) {
	t.Helper()
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("expected ids %v, got %v", want, gotIDs)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("expected ids %v, got %v", want, gotIDs)
		}
	}
}

func TestAppendEvictsFromHead(t *testing.T) {
	s := NewBufferStore(2)

	s.Append("Alpha", []models.Message{msg("1")})
	assertIDs(t, s.Read("Alpha"), "1")

	s.Append("Alpha", []models.Message{msg("2")})
	assertIDs(t, s.Read("Alpha"), "1", "2")

	s.Append("Alpha", []models.Message{msg("3")})
	assertIDs(t, s.Read("Alpha"), "2", "3")
}

func TestAppendBatchLargerThanCap(t *testing.T) {
	s := NewBufferStore(2)

	s.Append("Alpha", []models.Message{msg("1"), msg("2"), msg("3")})
	assertIDs(t, s.Read("Alpha"), "2", "3")
}

func TestAppendBatchAtTruncationBoundary(t *testing.T) {
	s := NewBufferStore(2)

	// An oversized batch must not leave a stale older record behind
	s.Append("Alpha", []models.Message{msg("old")})
	s.Append("Alpha", []models.Message{msg("1"), msg("2"), msg("3")})
	assertIDs(t, s.Read("Alpha"), "2", "3")
}

func TestReadUnknownChannel(t *testing.T) {
	s := NewBufferStore(2)
	if got := s.Read("nope"); len(got) != 0 {
		t.Fatalf("expected empty read for unknown channel, got %v", got)
	}
}

func TestChannelsAreIndependent(t *testing.T) {
	s := NewBufferStore(2)

	s.Append("Alpha", []models.Message{msg("a1"), msg("a2"), msg("a3")})
	s.Append("Beta", []models.Message{msg("b1")})

	assertIDs(t, s.Read("Alpha"), "a2", "a3")
	assertIDs(t, s.Read("Beta"), "b1")
}

func TestSnapshotMatchesRead(t *testing.T) {
	s := NewBufferStore(2)
	s.Append("Alpha", []models.Message{msg("1"), msg("2")})
	s.Append("Beta", []models.Message{msg("3")})

	snap := s.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 channels in snapshot, got %d", len(snap))
	}
	for _, name := range []string{"Alpha", "Beta"} {
		assertIDs(t, snap[name], ids(s.Read(name))...)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewBufferStore(2)
	s.Append("Alpha", []models.Message{msg("1")})

	snap := s.Snapshot()
	snap["Alpha"][0].ID = "mutated"

	assertIDs(t, s.Read("Alpha"), "1")
}

func TestStats(t *testing.T) {
	s := NewBufferStore(2)
	s.Append("Beta", []models.Message{msg("1")})
	s.Append("Alpha", []models.Message{msg("2"), msg("3"), msg("4")})

	stats := s.Stats()
	if len(stats) != 2 {
		t.Fatalf("expected 2 channels, got %d", len(stats))
	}
	// Sorted by name
	if stats[0].Name != "Alpha" || stats[1].Name != "Beta" {
		t.Fatalf("expected [Alpha Beta], got [%s %s]", stats[0].Name, stats[1].Name)
	}
	if stats[0].Ingested != 3 {
		t.Errorf("expected 3 ingested for Alpha, got %d", stats[0].Ingested)
	}
	if stats[0].Buffered != 2 {
		t.Errorf("expected 2 buffered for Alpha, got %d", stats[0].Buffered)
	}
	if stats[0].LastActive != 2000 {
		t.Errorf("expected last active 2000, got %d", stats[0].LastActive)
	}
}

func TestNonPositiveCapFallsBack(t *testing.T) {
	if got := NewBufferStore(0).Cap(); got != DefaultCap {
		t.Fatalf("expected cap %d, got %d", DefaultCap, got)
	}
	if got := NewBufferStore(-1).Cap(); got != DefaultCap {
		t.Fatalf("expected cap %d, got %d", DefaultCap, got)
	}
}
