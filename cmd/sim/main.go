// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"
	"os"

	"github.com/relabs-tech/balancing_robot/internal/app"
	"github.com/relabs-tech/balancing_robot/internal/replay"
)

func main() {
	configPath := flag.String("config", "", "optional robot config file; default uses the simulator gains")
	trace := flag.Bool("trace", false, "append throttle,turn,target_pitch_deg,mode,enabled,ramp columns")
	steppers := flag.Bool("steppers", false, "append emulated stepper positions")
	flag.Parse()

	opts := app.ReplayOptions{
		ConfigPath: *configPath,
		Columns:    replay.Columns{Trace: *trace, Steppers: *steppers},
	}
	if err := app.RunReplay(os.Stdin, os.Stdout, opts); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
