// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package runtime drives fixed-rate loops from wall-clock time and keeps
// jitter statistics on the measured tick period.
package runtime

import (
	"context"
	"math"
	"sync"
	"time"
)

// Stats is a running summary (Welford) of observed tick periods.
type Stats struct {
	Count int
	Mean  float64
	M2    float64
	Min   float64
	Max   float64
}

// Add folds x into the summary.
func (s *Stats) Add(x float64) {
	s.Count++
	if s.Count == 1 {
		s.Mean, s.Min, s.Max = x, x, x
		return
	}
	s.Min = min(s.Min, x)
	s.Max = max(s.Max, x)
	delta := x - s.Mean
	s.Mean += delta / float64(s.Count)
	s.M2 += delta * (x - s.Mean)
}

// StdDev is the sample standard deviation, 0 below two observations.
func (s Stats) StdDev() float64 {
	if s.Count < 2 {
		return 0
	}
	return math.Sqrt(s.M2 / float64(s.Count-1))
}

// TickFunc is called once per period with the measured elapsed time.
type TickFunc func(dt float64) error

// Runner calls a TickFunc at RateHz until its context ends, Duration
// elapses or the TickFunc fails.
type Runner struct {
	RateHz   float64       // <= 0 means 500
	Duration time.Duration // 0 runs until cancelled

	mu    sync.Mutex
	stats Stats
}

// Run blocks until the loop stops. Cancellation is not an error.
func (r *Runner) Run(ctx context.Context, tick TickFunc) (Stats, error) {
	rate := r.RateHz
	if rate <= 0 {
		rate = 500
	}
	ticker := time.NewTicker(time.Duration(float64(time.Second) / rate))
	defer ticker.Stop()

	start := time.Now()
	prev := start
	for {
		select {
		case <-ctx.Done():
			return r.Stats(), nil
		case now := <-ticker.C:
			dt := now.Sub(prev).Seconds()
			prev = now

			r.mu.Lock()
			r.stats.Add(dt)
			r.mu.Unlock()

			if err := tick(dt); err != nil {
				return r.Stats(), err
			}
			if r.Duration > 0 && now.Sub(start) >= r.Duration {
				return r.Stats(), nil
			}
		}
	}
}

// Stats returns a snapshot of the period statistics. Safe to call while
// Run is active.
func (r *Runner) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}
