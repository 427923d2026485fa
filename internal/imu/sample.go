// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package imu

// Sample is one inertial reading. Gyro is in rad/s (or deg/s when a
// producer is configured for "deg" units), Accel in m/s² or g; tilt
// angles only depend on the accel ratios so either works.
type Sample struct {
	T     float64    `json:"t"`     // seconds since the source started
	Gyro  [3]float64 `json:"gyro"`  // gx, gy, gz
	Accel [3]float64 `json:"accel"` // ax, ay, az
}

// Source produces one Sample per control tick.
type Source interface {
	Next() (Sample, error)
}
