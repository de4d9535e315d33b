package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RankedCount is one entry of a RankedCounts list.
type RankedCount struct {
	Name  string
	Count int
}

// RankedCounts is an ordered name to count mapping.
// It serializes as a JSON object whose keys keep the slice order,
// which a plain Go map cannot do.
type RankedCounts []RankedCount

// Get returns the count for name, or 0 when absent.
func (r RankedCounts) Get(name string) int {
	for _, rc := range r {
		if rc.Name == name {
			return rc.Count
		}
	}
	return 0
}

// MarshalJSON implements json.Marshaler.
func (r RankedCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, rc := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(rc.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", rc.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler and keeps the key order of the input.
func (r *RankedCounts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*r = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("ranked counts: expected object, got %v", tok)
	}
	out := RankedCounts{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("ranked counts: expected string key, got %v", keyTok)
		}
		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("ranked counts: value for %q: %w", key, err)
		}
		out = append(out, RankedCount{Name: key, Count: count})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = out
	return nil
}
