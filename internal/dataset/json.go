package dataset

import (
	"encoding/json"
	"fmt"

	"github.com/banshee-data/series.align/internal/series"
)

type wireDataset struct {
	Headers []string                     `json:"headers"`
	Rows    []map[string]json.RawMessage `json:"rows"`
	Summary *Summary                     `json:"summary,omitempty"`
}

// MarshalJSON writes rows as objects keyed by header, time column first in
// the headers list.
func (d *Dataset) MarshalJSON() ([]byte, error) {
	timeCol := d.TimeColumn()
	rows := make([]map[string]any, len(d.Rows))
	for i, r := range d.Rows {
		obj := make(map[string]any, len(d.Headers))
		obj[timeCol] = r.Time
		for _, col := range d.Headers[1:] {
			obj[col] = r.Values[col]
		}
		rows[i] = obj
	}
	return json.Marshal(struct {
		Headers []string         `json:"headers"`
		Rows    []map[string]any `json:"rows"`
		Summary Summary          `json:"summary"`
	}{d.Headers, rows, d.Summary})
}

// UnmarshalJSON reads the form MarshalJSON writes. A supplied summary is
// ignored and recomputed from the rows.
func (d *Dataset) UnmarshalJSON(data []byte) error {
	var w wireDataset
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("failed to parse dataset JSON: %w", err)
	}
	if len(w.Headers) == 0 {
		return fmt.Errorf("%w: headers are required", ErrInvalidDataset)
	}
	timeCol := w.Headers[0]
	rows := make([]Row, len(w.Rows))
	for i, obj := range w.Rows {
		r := Row{Values: make(map[string]series.Value, len(w.Headers)-1)}
		if raw, ok := obj[timeCol]; ok {
			var s string
			if err := json.Unmarshal(raw, &s); err == nil {
				r.Time = s
			} else {
				r.Time = string(raw)
			}
		}
		for _, col := range w.Headers[1:] {
			raw, ok := obj[col]
			if !ok {
				continue
			}
			var v series.Value
			if err := json.Unmarshal(raw, &v); err != nil {
				return fmt.Errorf("row %d column %q: %w", i, col, err)
			}
			r.Values[col] = v
		}
		rows[i] = r
	}
	built, err := New(w.Headers, rows)
	if err != nil {
		return err
	}
	*d = *built
	return nil
}
