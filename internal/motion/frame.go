// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package motion

import "math"

// Gravity is standard gravity in m/s².
const Gravity = 9.80665

// Attitude is a body orientation in radians.
//
// World and body frames are X forward, Y right, Z up; gravity points to -Z.
// Roll is about +X, pitch about +Y, yaw about +Z. A level body at rest
// reads specific force (0, 0, +g).
type Attitude struct {
	Roll, Pitch, Yaw float64
}

// Rotation returns R = Rz(yaw)·Ry(pitch)·Rx(roll), body to world.
func (a Attitude) Rotation() [3][3]float64 {
	cr, sr := math.Cos(a.Roll), math.Sin(a.Roll)
	cp, sp := math.Cos(a.Pitch), math.Sin(a.Pitch)
	cy, sy := math.Cos(a.Yaw), math.Sin(a.Yaw)
	return [3][3]float64{
		{cy * cp, cy*sp*sr - sy*cr, cy*sp*cr + sy*sr},
		{sy * cp, sy*sp*sr + cy*cr, sy*sp*cr - cy*sr},
		{-sp, cp * sr, cp * cr},
	}
}

// WorldToBody rotates v from the world frame into the body frame (Rᵀ·v).
func (a Attitude) WorldToBody(v [3]float64) [3]float64 {
	r := a.Rotation()
	var out [3]float64
	for i := range 3 {
		out[i] = r[0][i]*v[0] + r[1][i]*v[1] + r[2][i]*v[2]
	}
	return out
}

// SpecificForce is what a resting accelerometer reads at attitude a.
func (a Attitude) SpecificForce() [3]float64 {
	g := a.WorldToBody([3]float64{0, 0, -Gravity})
	return [3]float64{-g[0], -g[1], -g[2]}
}
