// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"
	"os"

	"github.com/relabs-tech/balancing_robot/internal/app"
	"github.com/relabs-tech/balancing_robot/internal/config"
)

func main() {
	configPath := flag.String("config", "", "path to YAML scenario; default is a quiet level robot")
	duration := flag.Float64("duration_s", -1, "run time in seconds, 0 runs until Ctrl+C; overrides the scenario")
	motion := flag.String("motion", "", "motion type; overrides the scenario")
	seed := flag.Int64("seed", 0, "noise seed; overrides the scenario when non-zero")
	flag.Parse()

	sc := config.DefaultScenario()
	if *configPath != "" {
		var err error
		if sc, err = config.LoadScenario(*configPath); err != nil {
			log.Fatalf("failed to load scenario: %v", err)
		}
	}
	if *duration >= 0 {
		sc.DurationS = *duration
	}
	if *motion != "" {
		sc.Motion.Type = *motion
	}
	if *seed != 0 {
		sc.Seed = *seed
	}
	if err := sc.Normalize(); err != nil {
		log.Fatalf("invalid scenario: %v", err)
	}

	if err := app.RunIMUStreamer(sc, os.Stdout); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
