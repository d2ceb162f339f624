package es

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"golang.org/x/xerrors"
)

var esTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// esTime decodes the date formats accepted by the default elasticsearch date
// mapping: RFC3339 strings, plain dates and epoch milliseconds.
type esTime struct {
	time.Time
}

func (t esTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func (t *esTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	if data[0] != '"' {
		millis, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return xerrors.Errorf("decode date %s: %w", data, err)
		}
		t.Time = time.UnixMilli(millis).UTC()
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, layout := range esTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return xerrors.Errorf("decode date %q: unsupported format", s)
}
