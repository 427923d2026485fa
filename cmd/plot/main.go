// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"
	"os"

	"github.com/relabs-tech/balancing_robot/internal/app"
)

func main() {
	in := flag.String("in", "-", "CSV from sim or imu_streamer, - for stdin")
	out := flag.String("out", "plots", "output directory for PNG files")
	flag.Parse()

	src := os.Stdin
	if *in != "-" {
		f, err := os.Open(*in)
		if err != nil {
			log.Fatalf("failed to open input: %v", err)
		}
		defer f.Close()
		src = f
	}

	if err := app.RunPlot(src, *out); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
