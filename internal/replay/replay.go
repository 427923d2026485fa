// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package replay

import (
	"bufio"
	"fmt"
	"io"

	"github.com/relabs-tech/balancing_robot/internal/balance"
	"github.com/relabs-tech/balancing_robot/internal/command"
	"github.com/relabs-tech/balancing_robot/internal/stepper"
)

// DefaultDT is used for the first sample, which has no predecessor.
const DefaultDT = 1.0 / 500

// Summary counts what a replay consumed and produced.
type Summary struct {
	Samples int
	Profile int
	Live    int
	Skipped int
	Rows    int
	Left    int64 // final stepper positions
	Right   int64
	Offsets [2]float64 // roll, pitch calibration offsets, rad
}

// Run replays r through a fresh loop and writes CSV rows to w. Samples
// consumed by calibration produce no rows.
func Run(r io.Reader, w io.Writer, cfg balance.Config, cols Columns) (Summary, error) {
	var sum Summary
	loop := balance.New(cfg)
	cmds := command.NewResolver()
	var wheels stepper.Pair
	out := NewWriter(w, cols)

	if err := out.WriteHeader(); err != nil {
		return sum, fmt.Errorf("replay: header: %w", err)
	}

	var lastT float64
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := ParseLine(sc.Text())
		switch line.Kind {
		case KindProfile:
			cmds.AddProfile(line.Profile)
			sum.Profile++
			continue
		case KindLive:
			cmds.SetLive(line.Live)
			sum.Live++
			continue
		case KindSkip:
			sum.Skipped++
			continue
		}

		s := line.Sample
		sum.Samples++
		dt := DefaultDT
		if lastT > 0 {
			dt = s.T - lastT
		}
		lastT = s.T

		res := loop.Tick(s, dt, cmds.Resolve(s.T))
		if res.State != balance.StateRunning {
			continue
		}
		wheels.Advance(res.Motor.Left, res.Motor.Right, dt)
		l, rp := wheels.Positions()
		if err := out.WriteRow(s.T, res, l, rp); err != nil {
			return sum, fmt.Errorf("replay: write: %w", err)
		}
		sum.Rows++
	}
	if err := sc.Err(); err != nil {
		return sum, fmt.Errorf("replay: read: %w", err)
	}

	sum.Left, sum.Right = wheels.Positions()
	off := loop.Offsets()
	sum.Offsets = [2]float64{off.Roll, off.Pitch}
	return sum, out.Flush()
}
