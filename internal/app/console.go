// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"io"
	"time"

	"github.com/relabs-tech/balancing_robot/internal/balance"
	"github.com/relabs-tech/balancing_robot/internal/command"
	"github.com/relabs-tech/balancing_robot/internal/config"
)

// RunConsole runs the emulated robot armed in the given script mode and
// prints a telemetry line to out every 100ms. It needs no hardware and no
// broker. A positive duration stops the run.
func RunConsole(out io.Writer, sc config.Scenario, mode uint8, duration time.Duration) error {
	b, err := NewBridge(BridgeOptions{Scenario: sc, Loop: balance.DefaultConfig()})
	if err != nil {
		return err
	}
	b.resolver.SetLive(command.Intent{Enabled: true, Mode: mode})

	// Emulated time advances 100ms per printed line.
	if sc.RateHz <= 0 {
		sc.RateHz = 500
	}
	dt := 1 / sc.RateHz
	perLine := int(0.1/dt + 0.5)
	if perLine < 1 {
		perLine = 1
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	start := time.Now()
	for range ticker.C {
		for i := 0; i < perLine; i++ {
			if err := b.Step(dt); err != nil {
				return err
			}
		}
		if f, ok := b.Frame(); ok {
			fmt.Fprintln(out, f.Text())
		} else {
			fmt.Fprintln(out, "calibrating...")
		}
		if duration > 0 && time.Since(start) >= duration {
			return nil
		}
	}
	return nil
}
