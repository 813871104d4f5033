package tender

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Result is the raw analysis payload returned by the backend for one
// document. The payload schema is open: the backend has shipped both a
// flat "legacy" shape and the current nested shape, and new fields may
// appear at any time. The original bytes are kept so that a translated
// payload can replace the result wholesale and so that sub-objects can
// be walked in the order the backend emitted them.
type Result struct {
	raw    []byte
	fields map[string]json.RawMessage
}

// ParseResult decodes a raw payload into a Result. The input must be a
// JSON object.
func ParseResult(data []byte) (*Result, error) {
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decode analysis payload: %w", err)
	}
	raw := make([]byte, len(data))
	copy(raw, data)
	return &Result{raw: raw, fields: fields}, nil
}

// MarshalJSON returns the payload exactly as it was received.
func (r *Result) MarshalJSON() ([]byte, error) {
	if r == nil || len(r.raw) == 0 {
		return []byte("null"), nil
	}
	out := make([]byte, len(r.raw))
	copy(out, r.raw)
	return out, nil
}

func (r *Result) UnmarshalJSON(data []byte) error {
	parsed, err := ParseResult(data)
	if err != nil {
		return err
	}
	*r = *parsed
	return nil
}

// Has reports whether the top-level field is present, regardless of its
// value.
func (r *Result) Has(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.fields[name]
	return ok
}

// Raw returns the undecoded value of a top-level field, or nil when the
// field is absent.
func (r *Result) Raw(name string) json.RawMessage {
	if r == nil {
		return nil
	}
	return r.fields[name]
}

// Field returns a top-level field rendered as display text. Strings are
// returned as-is, numbers and booleans in their literal form. Absent
// fields, nulls and structured values render as the empty string.
func (r *Result) Field(name string) string {
	if r == nil {
		return ""
	}
	return scalarString(r.fields[name])
}

// Entries walks a top-level object field and returns its key/value
// pairs in the order the payload lists them. A nil slice means the
// field is absent or not an object.
func (r *Result) Entries(name string) []Row {
	if r == nil {
		return nil
	}
	return orderedEntries(r.fields[name])
}

// StringList returns a top-level field that holds a sequence of values,
// each rendered as display text. The second return is false when the
// field is not a sequence.
func (r *Result) StringList(name string) ([]string, bool) {
	if r == nil {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(r.fields[name], &items); err != nil {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, scalarString(it))
	}
	return out, true
}

func scalarString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '{', '[':
		return ""
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return ""
		}
		return strconv.FormatBool(b)
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return ""
		}
		return n.String()
	}
}

// orderedEntries decodes a JSON object into rows without losing the key
// order of the source bytes. Map-based decoding would scramble it.
func orderedEntries(raw json.RawMessage) []Row {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil
	}
	var rows []Row
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil
		}
		rows = append(rows, Row{Label: key, Value: scalarString(val)})
	}
	return rows
}

// Row is one label/value pair ready for display.
type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Section is a named group of rows. A section may be empty after
// placeholder filtering but keeps its place in the normalized output.
type Section struct {
	Title string `json:"title"`
	Rows  []Row  `json:"rows"`
}

// EntryKind distinguishes the two sides of a Q&A exchange.
type EntryKind string

const (
	EntryQuestion EntryKind = "question"
	EntryAnswer   EntryKind = "answer"
)

// ChatEntry is one element of the session transcript. Answer entries
// start out pending and are resolved in place when the backend replies,
// so a question is never left without its paired answer entry.
type ChatEntry struct {
	ID      uuid.UUID `json:"id"`
	Kind    EntryKind `json:"kind"`
	Content string    `json:"content"`
	Pending bool      `json:"pending,omitempty"`
}
