package normalize

import (
	"strings"
	"testing"
	"time"
)

func TestCanonicalizeRepairsEveryField(t *testing.T) {
	now := time.Now()
	raw := map[string]any{
		"id":        float64(42), // JSON numbers decode as float64
		"author":    nil,
		"content":   map[string]any{"a": float64(1)},
		"createdAt": "not-a-number",
	}

	m := Canonicalize(raw, now)

	if m.ID != "42" {
		t.Errorf("expected id %q, got %q", "42", m.ID)
	}
	if m.Author != DefaultAuthor {
		t.Errorf("expected author %q, got %q", DefaultAuthor, m.Author)
	}
	if m.Content != `{"a":1}` {
		t.Errorf("expected serialized content, got %q", m.Content)
	}
	if m.CreatedAt != now.UnixMilli() {
		t.Errorf("expected createdAt %d, got %d", now.UnixMilli(), m.CreatedAt)
	}
	if m.ReceivedAt != now.UnixMilli() {
		t.Errorf("expected receivedAt %d, got %d", now.UnixMilli(), m.ReceivedAt)
	}
}

func TestCanonicalizeValidRecordPassesThrough(t *testing.T) {
	now := time.Now()
	raw := map[string]any{
		"id":        "abc",
		"author":    "bob",
		"content":   "hi <strong>there</strong>",
		"createdAt": float64(1000),
	}

	m := Canonicalize(raw, now)

	if m.ID != "abc" || m.Author != "bob" || m.Content != "hi <strong>there</strong>" || m.CreatedAt != 1000 {
		t.Fatalf("unexpected record %+v", m)
	}
	if m.ReceivedAt != now.UnixMilli() {
		t.Errorf("receivedAt must always be ingest time, got %d", m.ReceivedAt)
	}
}

func TestCanonicalizeNilRecord(t *testing.T) {
	now := time.Now()
	m := Canonicalize(nil, now)

	if m.ID == "" {
		t.Error("expected a synthetic id, got empty")
	}
	if m.Author != DefaultAuthor {
		t.Errorf("expected author %q, got %q", DefaultAuthor, m.Author)
	}
	if m.Content != "" {
		t.Errorf("expected empty content, got %q", m.Content)
	}
	if m.CreatedAt != now.UnixMilli() {
		t.Errorf("expected createdAt defaulted to now, got %d", m.CreatedAt)
	}
}

func TestSyntheticIDsAreDistinct(t *testing.T) {
	now := time.Now()
	a := Canonicalize(map[string]any{}, now)
	b := Canonicalize(map[string]any{}, now)

	if a.ID == "" || b.ID == "" {
		t.Fatal("synthetic ids must be non-empty")
	}
	if a.ID == b.ID {
		t.Fatalf("synthetic ids must be distinct, both %q", a.ID)
	}
}

func TestContentIsCapped(t *testing.T) {
	now := time.Now()
	raw := map[string]any{"content": strings.Repeat("x", MaxContentLen+100)}

	m := Canonicalize(raw, now)
	if len(m.Content) != MaxContentLen {
		t.Fatalf("expected content capped at %d, got %d", MaxContentLen, len(m.Content))
	}
}

func TestContentCapIsRuneSafe(t *testing.T) {
	now := time.Now()
	raw := map[string]any{"content": strings.Repeat("é", MaxContentLen+10)}

	m := Canonicalize(raw, now)
	runes := []rune(m.Content)
	if len(runes) != MaxContentLen {
		t.Fatalf("expected %d runes, got %d", MaxContentLen, len(runes))
	}
	if !strings.HasSuffix(m.Content, "é") {
		t.Fatal("truncation split a UTF-8 sequence")
	}
}

func TestCreatedAtCoercions(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name string
		in   any
		want int64
	}{
		{"number", float64(1000), 1000},
		{"numeric string", "2000", 2000},
		{"garbage string", "soon", now.UnixMilli()},
		{"missing", nil, now.UnixMilli()},
		{"bool", true, now.UnixMilli()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := Canonicalize(map[string]any{"createdAt": tc.in}, now)
			if m.CreatedAt != tc.want {
				t.Errorf("expected %d, got %d", tc.want, m.CreatedAt)
			}
		})
	}
}

func TestBatchPreservesOrder(t *testing.T) {
	now := time.Now()
	raws := []map[string]any{
		{"id": "1"},
		{"id": "2"},
		{"id": "3"},
	}

	batch := Batch(raws, now)
	if len(batch) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(batch))
	}
	for i, want := range []string{"1", "2", "3"} {
		if batch[i].ID != want {
			t.Errorf("position %d: expected id %q, got %q", i, want, batch[i].ID)
		}
	}
}
