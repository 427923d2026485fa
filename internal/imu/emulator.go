// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package imu

import (
	"math"
	"math/rand"

	"github.com/relabs-tech/balancing_robot/internal/config"
	"github.com/relabs-tech/balancing_robot/internal/motion"
)

// Emulator synthesizes samples from a ground-truth motion model with
// seeded sensor imperfections: constant gyro bias, random-walk bias drift,
// white noise on both sensors and duty-cycled Z vibration bursts.
//
// Not safe for concurrent use.
type Emulator struct {
	sc    config.Scenario
	model motion.Model
	rng   *rand.Rand

	t        float64
	dt       float64
	drift    [3]float64
	vibPhase float64
}

// NewEmulator returns an emulator at t=0. rng must not be shared.
func NewEmulator(sc config.Scenario, model motion.Model, rng *rand.Rand) *Emulator {
	return &Emulator{sc: sc, model: model, rng: rng}
}

// SetDelta sets the time step of the next sample. Non-positive values are
// ignored; without a delta the emulator steps by 1/RateHz.
func (e *Emulator) SetDelta(dt float64) {
	if dt > 0 {
		e.dt = dt
	}
}

// Next advances the clock and returns the sample at the new time. It never
// fails.
func (e *Emulator) Next() (Sample, error) {
	dt := e.dt
	if dt <= 0 {
		rate := e.sc.RateHz
		if rate <= 0 {
			rate = 500
		}
		dt = 1 / rate
	}
	e.t += dt
	st := e.model.StateAt(e.t)

	gyro := st.Rate
	for i := range gyro {
		gyro[i] += e.sc.GyroBias[i]
	}
	e.addDrift(&gyro, dt)
	e.addNoise(&gyro, e.sc.GyroNoiseStd)

	accel := st.Attitude.SpecificForce()
	e.addVibration(&accel, dt)
	e.addNoise(&accel, e.sc.AccelNoiseStd)

	if e.sc.Units == "deg" {
		for i := range gyro {
			gyro[i] *= 180 / math.Pi
		}
	}
	return Sample{T: e.t, Gyro: gyro, Accel: accel}, nil
}

func (e *Emulator) addNoise(v *[3]float64, std float64) {
	if std == 0 {
		return
	}
	for i := range v {
		v[i] += e.rng.NormFloat64() * std
	}
}

// addDrift integrates a random walk with per-step sigma GyroDriftStd·√dt.
func (e *Emulator) addDrift(v *[3]float64, dt float64) {
	if e.sc.GyroDriftStd == 0 || dt <= 0 {
		return
	}
	sigma := e.sc.GyroDriftStd * math.Sqrt(dt)
	for i := range v {
		e.drift[i] += e.rng.NormFloat64() * sigma
		v[i] += e.drift[i]
	}
}

func (e *Emulator) addVibration(v *[3]float64, dt float64) {
	b := e.sc.VibrationBurst
	if !b.Enabled || b.FreqHz <= 0 {
		return
	}
	e.vibPhase += 2 * math.Pi * b.FreqHz * dt
	duty := b.DutyCycle
	if duty <= 0 || duty > 1 {
		duty = 0.1
	}
	if math.Mod(e.vibPhase/(2*math.Pi), 1) <= duty {
		v[2] += b.Amplitude * math.Sin(e.vibPhase)
	}
}
