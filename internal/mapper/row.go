package mapper

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/entity"
)

// Row is the backend's representation of a record: column name to value.
// Values arrive either from pgx (int64, time.Time, decoded jsonb) or from JSON
// (float64, RFC 3339 strings), so the readers below accept both.
type Row map[string]any

// Codec translates one entity kind between Row and its domain type.
type Codec[T any] struct {
	Kind     entity.Kind
	ToDomain func(Row) (T, error)
	ToRaw    func(T) Row
}

type reader struct {
	kind entity.Kind
	row  Row
	err  error
}

func newReader(kind entity.Kind, row Row) *reader {
	return &reader{kind: kind, row: row}
}

func (r *reader) fail(field, format string, args ...any) {
	if r.err == nil {
		r.err = &MappingError{Kind: r.kind, Field: field, Reason: fmt.Sprintf(format, args...)}
	}
}

func (r *reader) id(field string) string {
	v, ok := r.row[field]
	if !ok || v == nil {
		r.fail(field, "required identifier is missing")
		return ""
	}
	s := r.str(field)
	if s == "" && r.err == nil {
		r.fail(field, "required identifier is empty")
	}
	return s
}

func (r *reader) str(field string) string {
	v, ok := r.row[field]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	case [16]byte:
		return formatUUID(t)
	}
	r.fail(field, "want string, got %T", v)
	return ""
}

func (r *reader) int(field string) int64 {
	v, ok := r.row[field]
	if !ok || v == nil {
		return 0
	}
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case int16:
		return int64(t)
	case float64:
		if t != math.Trunc(t) {
			r.fail(field, "want integer, got %v", t)
			return 0
		}
		return int64(t)
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			r.fail(field, "want integer, got %q", t.String())
		}
		return n
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			r.fail(field, "want integer, got %q", t)
		}
		return n
	}
	r.fail(field, "want integer, got %T", v)
	return 0
}

func (r *reader) bool(field string) bool {
	v, ok := r.row[field]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(t)
		if err != nil {
			r.fail(field, "want bool, got %q", t)
		}
		return b
	}
	r.fail(field, "want bool, got %T", v)
	return false
}

func (r *reader) time(field string) time.Time {
	t := r.timePtr(field)
	if t == nil {
		return time.Time{}
	}
	return *t
}

func (r *reader) timePtr(field string) *time.Time {
	v, ok := r.row[field]
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return nil
		}
		return &t
	case *time.Time:
		if t == nil || t.IsZero() {
			return nil
		}
		c := *t
		return &c
	case string:
		if t == "" {
			return nil
		}
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			r.fail(field, "want RFC 3339 time, got %q", t)
			return nil
		}
		return &parsed
	}
	r.fail(field, "want time, got %T", v)
	return nil
}

func (r *reader) history(field string) entity.History {
	v, ok := r.row[field]
	if !ok || v == nil {
		return entity.History{}
	}

	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case []map[string]any:
		items = make([]any, len(t))
		for i := range t {
			items[i] = t[i]
		}
	case string, []byte:
		raw, _ := t.(string)
		if b, ok := t.([]byte); ok {
			raw = string(b)
		}
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			r.fail(field, "want JSON array: %v", err)
			return entity.History{}
		}
	default:
		r.fail(field, "want history array, got %T", v)
		return entity.History{}
	}

	entries := make([]entity.HistoryEntry, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			r.fail(field, "entry %d: want object, got %T", i, item)
			return entity.History{}
		}
		sub := newReader(r.kind, m)
		e := entity.HistoryEntry{
			At:       sub.time("at"),
			Actor:    sub.str("actor"),
			Activity: sub.str("activity"),
		}
		if sub.err != nil {
			r.fail(field, "entry %d: %v", i, sub.err)
			return entity.History{}
		}
		entries = append(entries, e)
	}
	return entity.NewHistory(entries...)
}

func formatUUID(b [16]byte) string {
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}

func timeValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func historyValue(h entity.History) []any {
	entries := h.Entries()
	out := make([]any, len(entries))
	for i, e := range entries {
		out[i] = map[string]any{
			"at":       e.At,
			"actor":    e.Actor,
			"activity": e.Activity,
		}
	}
	return out
}
