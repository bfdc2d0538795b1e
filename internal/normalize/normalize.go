// Package normalize converts raw ingest records of unknown shape into
// canonical Messages. Normalization is total: malformed fields are repaired
// with documented defaults rather than rejected, so partially-broken upstream
// data never stalls the relay pipeline.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/eldtechnologies/relaycast/internal/models"
)

const (
	// MaxContentLen bounds the stored content of a single message.
	MaxContentLen = 20000

	// DefaultAuthor is substituted when a record carries no usable author.
	DefaultAuthor = "Unknown"
)

// Batch normalizes a full ingest batch, preserving order. All records in the
// batch share the same receipt timestamp.
func Batch(raws []map[string]any, now time.Time) []models.Message {
	msgs := make([]models.Message, len(raws))
	for i, raw := range raws {
		msgs[i] = Canonicalize(raw, now)
	}
	return msgs
}

// Canonicalize converts one raw record into a Message. It never fails; every
// missing or invalid field is replaced with its default.
func Canonicalize(raw map[string]any, now time.Time) models.Message {
	return models.Message{
		ID:         coerceID(raw["id"]),
		Author:     coerceAuthor(raw["author"]),
		Content:    coerceContent(raw["content"]),
		CreatedAt:  coerceMillis(raw["createdAt"], now),
		ReceivedAt: now.UnixMilli(),
	}
}

// coerceID returns the record's id as a string, or a fresh ULID when the id
// is missing or unusable. ULIDs are time-prefixed, so synthetic ids sort in
// arrival order alongside each other.
func coerceID(v any) string {
	switch id := v.(type) {
	case string:
		if id != "" {
			return id
		}
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case json.Number:
		return id.String()
	}
	return ulid.Make().String()
}

func coerceAuthor(v any) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return DefaultAuthor
}

// coerceContent renders any content value as a capped string. Non-string
// values (objects, arrays, numbers) are JSON-serialized, matching what the
// display client expects to render.
func coerceContent(v any) string {
	var s string
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		s = c
	default:
		data, err := json.Marshal(c)
		if err != nil {
			return ""
		}
		s = string(data)
	}
	return truncate(s, MaxContentLen)
}

// coerceMillis parses an epoch-milliseconds timestamp, falling back to now
// when the value is missing, unparseable, or not finite.
func coerceMillis(v any, now time.Time) int64 {
	switch ts := v.(type) {
	case float64:
		if finite(ts) {
			return int64(ts)
		}
	case json.Number:
		if f, err := ts.Float64(); err == nil && finite(f) {
			return int64(f)
		}
	case string:
		if f, err := strconv.ParseFloat(ts, 64); err == nil && finite(f) {
			return int64(f)
		}
	}
	return now.UnixMilli()
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// truncate cuts s to at most max runes without splitting a UTF-8 sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
