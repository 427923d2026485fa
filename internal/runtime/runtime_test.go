// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package runtime

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	var s Stats
	assert.Zero(t, s.StdDev())

	for _, x := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		s.Add(x)
	}
	assert.Equal(t, 8, s.Count)
	assert.InDelta(t, 5, s.Mean, 1e-12)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 9.0, s.Max)
	assert.InDelta(t, math.Sqrt(32.0/7), s.StdDev(), 1e-12)
}

func TestRunnerDuration(t *testing.T) {
	r := &Runner{RateHz: 200, Duration: 100 * time.Millisecond}
	n := 0
	stats, err := r.Run(context.Background(), func(dt float64) error {
		n++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, n, stats.Count)
	assert.GreaterOrEqual(t, n, 5)
	assert.InDelta(t, 0.005, stats.Mean, 0.005)
}

func TestRunnerStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	r := &Runner{RateHz: 1000}
	n := 0
	_, err := r.Run(context.Background(), func(float64) error {
		n++
		if n == 3 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, n)
}

func TestRunnerCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	r := &Runner{RateHz: 100}
	_, err := r.Run(ctx, func(float64) error { return nil })
	assert.NoError(t, err)
}
