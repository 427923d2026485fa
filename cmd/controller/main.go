// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/balancing_robot/internal/app"
	"github.com/relabs-tech/balancing_robot/internal/config"
)

func main() {
	configPath := flag.String("config", "./robot_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting balancing-robot controller (IMU → balance loop → steppers)")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunController(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
