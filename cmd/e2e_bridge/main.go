// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/relabs-tech/balancing_robot/internal/app"
	"github.com/relabs-tech/balancing_robot/internal/balance"
	"github.com/relabs-tech/balancing_robot/internal/config"
)

func main() {
	scenarioPath := flag.String("scenario", "", "path to YAML emulator scenario")
	port := flag.Int("port", 9001, "TCP port for app clients")
	duration := flag.Float64("duration_s", 0, "run time in seconds (0 = run until Ctrl+C)")
	telemetryHz := flag.Float64("telemetry-hz", 20, "max rate (Hz) of telemetry lines per client")
	armRestPitch := flag.Float64("arm-rest-pitch", -25, "pitch (deg) reported while disarmed (resting on arm)")
	motion := flag.String("motion", "", "motion type (e.g. static for balancing at 0); overrides the scenario")
	flag.Parse()

	sc := config.DefaultScenario()
	if *scenarioPath != "" {
		var err error
		if sc, err = config.LoadScenario(*scenarioPath); err != nil {
			log.Fatalf("failed to load scenario: %v", err)
		}
	}
	sc.DurationS = *duration
	if *motion != "" {
		sc.Motion.Type = *motion
	}

	log.Println("starting balancing-robot e2e bridge (emulated IMU → balance loop → TCP)")

	err := app.RunBridge(app.BridgeOptions{
		Addr:         fmt.Sprintf(":%d", *port),
		TelemetryHz:  *telemetryHz,
		ArmRestPitch: *armRestPitch,
		Scenario:     sc,
		Loop:         balance.DefaultConfig(),
	})
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
