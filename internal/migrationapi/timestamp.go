package migrationapi

import (
	"encoding/json"
	"fmt"
	"time"
)

// naiveLayouts are the zone-less formats the backend emits from its local clock.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Timestamp is a time.Time that decodes both RFC3339 and zone-less ISO strings.
// A zone-less value keeps its wall clock in UTC and sets Naive; InZone reads
// it as wall time of the viewer's location.
type Timestamp struct {
	time.Time
	Naive bool
}

// ParseTimestamp parses a backend timestamp string. Zone-less values are
// interpreted in loc; RFC3339 values keep their own offset.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse timestamp %q", s)
}

// InZone returns the instant in loc. A naive timestamp is taken as wall time
// in loc, the way a browser reads a zone-less ISO string.
func (t Timestamp) InZone(loc *time.Location) time.Time {
	if !t.Naive {
		return t.In(loc)
	}
	y, mo, d := t.Date()
	h, mi, sec := t.Clock()
	return time.Date(y, mo, d, h, mi, sec, t.Nanosecond(), loc)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if s == "" {
		return nil
	}

	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time, t.Naive = parsed, false
		return nil
	}
	parsed, err := ParseTimestamp(s, time.UTC)
	if err != nil {
		return err
	}
	t.Time, t.Naive = parsed, true
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	if t.Naive {
		return json.Marshal(t.Format("2006-01-02T15:04:05"))
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}
