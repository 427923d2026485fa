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
	mode := flag.Uint("mode", 0, "script mode 0-11 to run armed")
	motion := flag.String("motion", "static", "emulated body motion")
	flag.Parse()

	log.Println("starting balancing-robot (emulated console)")

	sc := config.DefaultScenario()
	sc.Motion.Type = *motion
	if *mode > 255 {
		log.Fatalf("mode %d out of range", *mode)
	}

	if err := app.RunConsole(os.Stdout, sc, uint8(*mode), 0); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
