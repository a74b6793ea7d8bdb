// Package remote defines the generic remote-data access layer: a tagged Value
// type, the three backend capability interfaces (document store, tree store,
// blob store), and the Accessor implementing the uniform read-once /
// subscribe / merge-write / delete contract on top of them.
package remote

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind discriminates the variants of Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindTime
	// KindServerTimestamp is a write-only sentinel: the store resolves it to
	// its own clock when the record is persisted. Reads never return it.
	KindServerTimestamp
)

// Value is a closed, tagged union of the payload types a record field can
// hold. The zero Value is Null.
type Value struct {
	kind Kind
	s    string
	i    int64
	t    time.Time
}

func Null() Value               { return Value{} }
func String(s string) Value     { return Value{kind: KindString, s: s} }
func Int(i int64) Value         { return Value{kind: KindInt, i: i} }
func Time(t time.Time) Value    { return Value{kind: KindTime, t: t} }
func ServerTimestamp() Value    { return Value{kind: KindServerTimestamp} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string payload; the empty string for non-string values.
func (v Value) Str() string {
	if v.kind != KindString {
		return ""
	}
	return v.s
}

func (v Value) Int() int64 {
	if v.kind != KindInt {
		return 0
	}
	return v.i
}

func (v Value) Time() time.Time {
	if v.kind != KindTime {
		return time.Time{}
	}
	return v.t
}

func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.s == o.s
	case KindInt:
		return v.i == o.i
	case KindTime:
		return v.t.Equal(o.t)
	default:
		return true
	}
}

// Display renders the value for presentation: strings as-is, ints in decimal,
// times as RFC 3339, null as the empty string.
func (v Value) Display() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindTime:
		return v.t.Format(time.RFC3339)
	default:
		return ""
	}
}

// ResolveServerTimestamp returns v with a KindServerTimestamp sentinel
// replaced by the given instant. Store implementations call this at write
// time with their own clock.
func (v Value) ResolveServerTimestamp(now time.Time) Value {
	if v.kind == KindServerTimestamp {
		return Time(now)
	}
	return v
}

// MarshalJSON encodes the value for wire/JSONB storage: null, JSON string,
// JSON number, or an RFC 3339 string for times. A ServerTimestamp sentinel
// must be resolved before marshalling.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.s)
	case KindInt:
		return json.Marshal(v.i)
	case KindTime:
		return json.Marshal(v.t.Format(time.RFC3339Nano))
	default:
		return nil, fmt.Errorf("unresolved server timestamp")
	}
}

// UnmarshalJSON decodes a stored value. Times come back as strings; callers
// that need a time.Time parse the RFC 3339 text themselves.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Null()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = String(s)
		return nil
	}
	var i int64
	if err := json.Unmarshal(data, &i); err == nil {
		*v = Int(i)
		return nil
	}
	return fmt.Errorf("unsupported value payload: %s", data)
}

// Record maps field names to values. A nil Record means the addressed
// document or leaf is absent.
type Record map[string]Value

// Clone returns a shallow copy; Values are immutable so this is sufficient.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	c := make(Record, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// Resolve replaces every ServerTimestamp sentinel with now.
func (r Record) Resolve(now time.Time) Record {
	c := make(Record, len(r))
	for k, v := range r {
		c[k] = v.ResolveServerTimestamp(now)
	}
	return c
}
