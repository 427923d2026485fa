// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relabs-tech/balancing_robot/internal/config"
	"github.com/relabs-tech/balancing_robot/internal/imu"
	"github.com/relabs-tech/balancing_robot/internal/motion"
	looprt "github.com/relabs-tech/balancing_robot/internal/runtime"
	"github.com/relabs-tech/balancing_robot/internal/stream"
)

// RunIMUStreamer emulates the IMU in real time and writes samples as CSV
// to out, mirrored to UDP when the scenario enables it. Period statistics
// are logged when the run ends.
func RunIMUStreamer(sc config.Scenario, out io.Writer) error {
	model, err := motion.New(sc.Motion)
	if err != nil {
		return fmt.Errorf("imu-streamer: %w", err)
	}
	emu := imu.NewEmulator(sc, model, rand.New(rand.NewSource(sc.Seed)))

	st, err := stream.New(out, sc.UDP)
	if err != nil {
		return fmt.Errorf("imu-streamer: %w", err)
	}
	defer st.Close()
	if sc.UDP.Enabled {
		log.Printf("imu-streamer: mirroring %s samples to udp %s", sc.UDP.Format, sc.UDP.Addr)
	}

	if err := st.WriteHeader(); err != nil {
		return fmt.Errorf("imu-streamer: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := &looprt.Runner{
		RateHz:   sc.RateHz,
		Duration: time.Duration(sc.DurationS * float64(time.Second)),
	}
	log.Printf("imu-streamer: %s motion at %.0f Hz, units %s, seed %d", sc.Motion.Type, sc.RateHz, sc.Units, sc.Seed)

	stats, err := runner.Run(ctx, func(dt float64) error {
		emu.SetDelta(dt)
		s, err := emu.Next()
		if err != nil {
			return err
		}
		return st.WriteSample(s)
	})
	log.Printf("imu-streamer: dt mean=%.6fs std=%.6fs min=%.6fs max=%.6fs n=%d",
		stats.Mean, stats.StdDev(), stats.Min, stats.Max, stats.Count)
	if err != nil {
		return fmt.Errorf("imu-streamer: %w", err)
	}
	return nil
}
