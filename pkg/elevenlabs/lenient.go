package elevenlabs

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Optional payload fields are decoded through the types below. A field of an
// unexpected JSON type reads as its zero value instead of failing the whole
// webhook.

// text is a string field that also accepts a bare number literal.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}

	switch {
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			*t = text(s)
		}
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		*t = text(b)
	}
	return nil
}

// number is a numeric field that also accepts a numeric string.
type number struct {
	value float64
	set   bool
}

func (n *number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			n.value, n.set = v, true
		}
		return nil
	}

	var v float64
	if err := json.Unmarshal(b, &v); err == nil {
		n.value, n.set = v, true
	}
	return nil
}

// tolerant decodes into T and keeps the zero value when the JSON does not fit.
type tolerant[T any] struct {
	V T
}

func (t *tolerant[T]) UnmarshalJSON(b []byte) error {
	var v T
	if err := json.Unmarshal(b, &v); err == nil {
		t.V = v
	}
	return nil
}

// anyText renders a decoded scalar as text, or "" for other types.
func anyText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	default:
		return ""
	}
}
