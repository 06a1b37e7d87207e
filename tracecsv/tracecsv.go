// Package tracecsv exports a completed harness trace as CSV for downstream
// analysis and plotting. It is a consumer of the trace; the harness core
// itself performs no file I/O.
package tracecsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/vawtlabs/vawthil"
)

var header = []string{"t", "wind", "rpm", "duty", "power", "cp", "lambda", "fallback"}

// Write streams the trace to w, one row per tick, with a header row.
func Write(w io.Writer, tr *vawthil.Trace) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, s := range tr.Samples() {
		row := []string{
			strconv.FormatFloat(s.T, 'f', 2, 64),
			strconv.FormatFloat(s.WindSpeed, 'f', 3, 64),
			strconv.FormatFloat(s.RPM, 'f', 3, 64),
			strconv.FormatFloat(s.Duty, 'f', 3, 64),
			strconv.FormatFloat(s.Power, 'f', 3, 64),
			strconv.FormatFloat(s.Cp, 'f', 4, 64),
			strconv.FormatFloat(s.Lambda, 'f', 4, 64),
			strconv.FormatBool(s.FallbackUsed),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes the trace to the named file.
func WriteFile(path string, tr *vawthil.Trace) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := Write(f, tr); err != nil {
		return err
	}
	return f.Close()
}
