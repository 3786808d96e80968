// Package render formats the sorted aggregate records into the final text
// sink. This is a separate, minimal collaborator so the hot path never
// touches an io.Writer.
package render

import (
	"fmt"
	"io"

	"github.com/wxstat/aggregator/internal/engine"
)

// Write emits one line per record as "<name>=<min>/<mean>/<max>", each
// value with exactly one fractional digit. Records must already be sorted;
// Write does not sort them itself.
func Write(w io.Writer, records []engine.Record) error {
	for _, r := range records {
		_, err := fmt.Fprintf(w, "%s=%.1f/%.1f/%.1f\n",
			r.Name, float64(r.Min)/10, r.Mean(), float64(r.Max)/10)
		if err != nil {
			return fmt.Errorf("render: write %q: %w", r.Name, err)
		}
	}
	return nil
}
