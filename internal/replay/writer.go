// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package replay

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/relabs-tech/balancing_robot/internal/balance"
	"github.com/relabs-tech/balancing_robot/internal/orientation"
)

// Columns selects the optional output columns.
type Columns struct {
	Trace    bool // throttle,turn,target_pitch_deg,mode,enabled,ramp
	Steppers bool // left_pos,right_pos
}

// Header returns the CSV header for c.
func (c Columns) Header() string {
	cols := []string{"t", "roll", "pitch", "balance", "left", "right"}
	if c.Trace {
		cols = append(cols, "throttle", "turn", "target_pitch_deg", "mode", "enabled", "ramp")
	}
	if c.Steppers {
		cols = append(cols, "left_pos", "right_pos")
	}
	return strings.Join(cols, ",")
}

// Writer formats loop outputs as CSV rows. Angles are radians except
// target_pitch_deg.
type Writer struct {
	w    *bufio.Writer
	cols Columns
}

func NewWriter(w io.Writer, cols Columns) *Writer {
	return &Writer{w: bufio.NewWriter(w), cols: cols}
}

func (w *Writer) WriteHeader() error {
	_, err := fmt.Fprintln(w.w, w.cols.Header())
	return err
}

// WriteRow writes one running tick. pos is only used with Steppers.
func (w *Writer) WriteRow(t float64, out balance.Output, leftPos, rightPos int64) error {
	fmt.Fprintf(w.w, "%.6f,%.6f,%.6f,%.6f,%.6f,%.6f",
		t, out.Roll, out.Pitch, out.Balance, out.Motor.Left, out.Motor.Right)
	if w.cols.Trace {
		fmt.Fprintf(w.w, ",%.6f,%.6f,%.6f,%d,%d,%d",
			out.Throttle, out.Turn, orientation.RadToDeg(out.TargetPitch),
			out.Mode, b2i(out.Enabled), b2i(out.Ramping))
	}
	if w.cols.Steppers {
		fmt.Fprintf(w.w, ",%d,%d", leftPos, rightPos)
	}
	_, err := w.w.WriteString("\n")
	return err
}

func (w *Writer) Flush() error {
	return w.w.Flush()
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
