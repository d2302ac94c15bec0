// Package report writes lookup records as tab-separated lines.
package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/use-agent/emotetcheck/models"
)

// TSVWriter writes one line per record:
//
//	<address>\t<True|False>\t<real sender>\t<fake sender>\t<recipient>
//
// Every line is flushed before Write returns, so a run that aborts later
// leaves all earlier lines in the output.
type TSVWriter struct {
	w *bufio.Writer
}

// NewTSVWriter creates a TSVWriter on top of out.
func NewTSVWriter(out io.Writer) *TSVWriter {
	return &TSVWriter{w: bufio.NewWriter(out)}
}

// Write outputs rec and flushes it.
func (t *TSVWriter) Write(rec models.Record) error {
	c := rec.Outcome.Counts
	if _, err := fmt.Fprintf(t.w, "%s\t%s\t%d\t%d\t%d\n",
		rec.Address, formatBool(rec.Outcome.Found), c.RealSender, c.FakeSender, c.Recipient); err != nil {
		return err
	}
	return t.w.Flush()
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
