// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

// Noise constants of the angle/bias filter.
const (
	QAngle   = 0.001
	QBias    = 0.003
	RMeasure = 0.03
)

// Kalman is a two-state (angle, gyro bias) filter for one tilt axis.
// The zero value is a freshly initialized filter.
//
// Not safe for concurrent use.
type Kalman struct {
	Angle float64
	Bias  float64
	P     [2][2]float64
}

// Reset zeroes the angle, bias and covariance.
func (k *Kalman) Reset() {
	*k = Kalman{}
}

// Update runs one predict/correct cycle with the gyro rate around this axis
// and the accelerometer-derived angle, and returns the new angle estimate.
// A non-positive dt leaves the state untouched.
func (k *Kalman) Update(rate, accelAngle, dt float64) float64 {
	if dt <= 0 {
		return k.Angle
	}

	// Predict
	k.Angle += dt * (rate - k.Bias)

	k.P[0][0] += dt * (dt*k.P[1][1] - k.P[0][1] - k.P[1][0] + QAngle)
	k.P[0][1] -= dt * k.P[1][1]
	k.P[1][0] -= dt * k.P[1][1]
	k.P[1][1] += QBias * dt

	// Correct
	s := k.P[0][0] + RMeasure
	k0 := k.P[0][0] / s
	k1 := k.P[1][0] / s

	y := accelAngle - k.Angle
	k.Angle += k0 * y
	k.Bias += k1 * y

	p00, p01 := k.P[0][0], k.P[0][1]
	k.P[0][0] -= k0 * p00
	k.P[0][1] -= k0 * p01
	k.P[1][0] -= k1 * p00
	k.P[1][1] -= k1 * p01

	return k.Angle
}
