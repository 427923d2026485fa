// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"io"
	"log"

	"github.com/relabs-tech/balancing_robot/internal/balance"
	"github.com/relabs-tech/balancing_robot/internal/config"
	"github.com/relabs-tech/balancing_robot/internal/replay"
)

// ReplayOptions configures RunReplay.
type ReplayOptions struct {
	ConfigPath string // optional robot config; empty uses the simulator gains
	Columns    replay.Columns
}

// RunReplay runs a recorded or synthetic log from in through a fresh
// balance loop and writes CSV rows to out.
func RunReplay(in io.Reader, out io.Writer, opts ReplayOptions) error {
	cfg := balance.DefaultConfig()
	if opts.ConfigPath != "" {
		robot, err := config.Load(opts.ConfigPath)
		if err != nil {
			return fmt.Errorf("sim: %w", err)
		}
		cfg = balanceConfig(robot)
	}

	sum, err := replay.Run(in, out, cfg, opts.Columns)
	if err != nil {
		return fmt.Errorf("sim: %w", err)
	}
	log.Printf("sim: samples=%d rows=%d profile=%d live=%d skipped=%d offsets roll=%.4f pitch=%.4f rad",
		sum.Samples, sum.Rows, sum.Profile, sum.Live, sum.Skipped, sum.Offsets[0], sum.Offsets[1])
	if opts.Columns.Steppers {
		log.Printf("sim: final stepper positions left=%d right=%d", sum.Left, sum.Right)
	}
	return nil
}
