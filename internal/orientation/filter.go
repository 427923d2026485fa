// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"github.com/relabs-tech/balancing_robot/internal/imu"
)

// Filter fuses gyro and accelerometer readings into roll and pitch.
// Roll integrates gx and pitch integrates gy; gz is not used.
type Filter struct {
	Roll  Kalman
	Pitch Kalman
}

// Reset returns both axes to their initial state.
func (f *Filter) Reset() {
	f.Roll.Reset()
	f.Pitch.Reset()
}

// Update feeds one sample into both axes.
func (f *Filter) Update(s imu.Sample, dt float64) Pose {
	rollAcc, pitchAcc := AccelAngles(s.Accel[0], s.Accel[1], s.Accel[2])
	return Pose{
		Roll:  f.Roll.Update(s.Gyro[0], rollAcc, dt),
		Pitch: f.Pitch.Update(s.Gyro[1], pitchAcc, dt),
	}
}

// Pose returns the current estimate without updating it.
func (f *Filter) Pose() Pose {
	return Pose{Roll: f.Roll.Angle, Pitch: f.Pitch.Angle}
}
