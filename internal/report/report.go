// Package report prints the per-table outcome of a load run.
package report

import (
	"fmt"
	"io"

	"github.com/vvka-141/ecomload/pkg/ecomload"
)

// Reporter writes one line per loaded table.
type Reporter struct {
	out io.Writer
}

// New creates a Reporter writing to out.
func New(out io.Writer) *Reporter {
	if out == nil {
		panic("out cannot be nil")
	}
	return &Reporter{out: out}
}

// Write emits "<table>: inserted <n> rows" for every table in summary, in
// the order they were loaded.
func (r *Reporter) Write(summary ecomload.Summary) error {
	for _, t := range summary.Tables {
		if _, err := fmt.Fprintf(r.out, "%s: inserted %d rows\n", t.Table, t.Inserted); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	return nil
}
