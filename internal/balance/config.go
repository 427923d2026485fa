// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package balance

import (
	"github.com/relabs-tech/balancing_robot/internal/script"
)

// DefaultCalibSamples is the length of the static calibration window.
const DefaultCalibSamples = 200

// Config is the tuning of one Loop. Gains and limits are fixed for the
// lifetime of the loop.
type Config struct {
	Kp, Ki, Kd   float64
	BalanceLimit float64 // PID output limit
	MotorLimit   float64 // wheel command limit, <= 0 disables clamping

	// Intent scaling into motor units before mixing.
	ThrottleScale float64
	TurnScale     float64

	CalibSamples int

	RampDuration float64 // seconds, 0 disables the stand-up ramp
	RampFrom     float64 // rad

	Script script.Params
}

// DefaultConfig returns the gains used by the replay simulator. Hardware
// builds override them from the robot config file.
func DefaultConfig() Config {
	return Config{
		Kp:            2.5,
		Ki:            0,
		Kd:            0.05,
		BalanceLimit:  10,
		MotorLimit:    10,
		ThrottleScale: 1,
		TurnScale:     1,
		CalibSamples:  DefaultCalibSamples,
		RampDuration:  script.DefaultRampDuration,
		RampFrom:      script.DefaultRampFrom,
		Script:        script.DefaultParams(),
	}
}
