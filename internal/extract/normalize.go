package extract

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// contentFields are the candidate prompt-text field names across Cursor
// versions, in priority order.
var contentFields = []string{"text", "richText", "prompt", "message", "content"}

// epochFields are numeric creation/update fields reinterpreted as epoch time
// when no explicit timestamp is present.
var epochFields = []string{"createdAt", "lastUpdatedAt", "unixMs"}

// Fallback carries what Normalize needs to synthesize timestamps for
// payloads that lack any time field.
type Fallback struct {
	// Time is the extraction start instant.
	Time time.Time
	// Index counts entries already consumed from the same database.
	Index int
}

// Normalize parses one raw row value into zero or more Records. The payload
// may be a single JSON object or an array of objects; one Record is emitted
// per object carrying at least one known text field. Malformed JSON drops
// the whole row. The caller should advance fb.Index by the number of
// records returned.
//
// Entries without any usable time field get a synthesized timestamp below
// fb.Time, spaced so that later-stored entries map to later instants; the
// descending output sort then reproduces the original storage order
// newest-first. Offsets span the records actually emitted, so advancing
// fb.Index by the returned count keeps instants distinct across rows even
// when some objects are dropped.
func Normalize(value []byte, fb Fallback) []Record {
	var payload any
	if err := sonic.Unmarshal(value, &payload); err != nil {
		return nil
	}

	var objs []map[string]any
	single := false
	switch v := payload.(type) {
	case map[string]any:
		objs = []map[string]any{v}
		single = true
	case []any:
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				objs = append(objs, m)
			}
		}
	default:
		return nil
	}

	type entry struct {
		obj     map[string]any
		content string
	}
	entries := make([]entry, 0, len(objs))
	for _, obj := range objs {
		content, ok := textField(obj)
		if !ok {
			continue
		}
		entries = append(entries, entry{obj: obj, content: content})
	}

	records := make([]Record, 0, len(entries))
	n := len(entries)
	for i, e := range entries {
		ts := payloadTime(e.obj)
		if ts.IsZero() {
			ts = fb.Time.Add(-time.Duration(fb.Index+n-1-i) * time.Second)
		}

		raw := json.RawMessage(value)
		if !single {
			if b, err := sonic.Marshal(e.obj); err == nil {
				raw = b
			}
		}

		records = append(records, Record{
			Timestamp:   ts,
			CommandType: commandTypeOf(e.obj),
			Content:     e.content,
			Raw:         raw,
		})
	}
	return records
}

// textField returns the prompt text of obj: the first non-empty candidate
// field, or "" when candidates exist but are all empty. ok is false when no
// candidate field is present at all, which drops the object.
func textField(obj map[string]any) (text string, ok bool) {
	for _, name := range contentFields {
		v, present := obj[name]
		if !present {
			continue
		}
		s, isString := v.(string)
		if !isString {
			continue
		}
		ok = true
		if strings.TrimSpace(s) != "" {
			return s, true
		}
	}
	return "", ok
}

// commandTypeOf maps the payload's commandType field to a symbolic name.
// Numeric codes go through the known table; string codes are accepted when
// they name a known type. Everything else is CommandUnknown.
func commandTypeOf(obj map[string]any) CommandType {
	v, ok := obj["commandType"]
	if !ok {
		return CommandUnknown
	}
	switch code := v.(type) {
	case float64:
		if ct, known := commandTypes[int(code)]; known {
			return ct
		}
	case string:
		for _, ct := range commandTypes {
			if string(ct) == code {
				return ct
			}
		}
	}
	return CommandUnknown
}

// payloadTime derives the entry's timestamp: an explicit timestamp field
// first, then numeric creation/update fields as epoch time. Zero when
// nothing usable is present.
func payloadTime(obj map[string]any) time.Time {
	if v, ok := obj["timestamp"]; ok {
		switch ts := v.(type) {
		case string:
			if t := parseTimestamp(ts); !t.IsZero() {
				return t
			}
		case float64:
			if t := epochTime(ts); !t.IsZero() {
				return t
			}
		}
	}

	for _, name := range epochFields {
		v, ok := obj[name]
		if !ok {
			continue
		}
		if f, isNum := v.(float64); isNum {
			if t := epochTime(f); !t.IsZero() {
				return t
			}
		}
	}
	return time.Time{}
}

// epochTime interprets f as epoch seconds, or millis when large enough.
func epochTime(f float64) time.Time {
	if f <= 0 {
		return time.Time{}
	}
	if f > 1e12 { // epoch millis
		ms := int64(f)
		return time.Unix(ms/1000, (ms%1000)*int64(time.Millisecond))
	}
	return time.Unix(int64(f), 0)
}

// parseTimestamp parses the string timestamp forms seen in the wild.
func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return epochTime(float64(n))
	}
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
