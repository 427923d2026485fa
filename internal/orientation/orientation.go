// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"
)

// Pose is the tilt estimate used by the balance loop. Angles are radians.
// There is no yaw: the IMU has no heading reference.
type Pose struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
}

// Degrees returns the pose converted to degrees, for telemetry and displays.
func (p Pose) Degrees() Pose {
	return Pose{Roll: RadToDeg(p.Roll), Pitch: RadToDeg(p.Pitch)}
}

// AccelAngles computes roll and pitch from the gravity vector alone.
// The accelerometer must report specific force, so a level, motionless
// body reads (0, 0, +g) and yields (0, 0).
//
//	roll  = atan2(ay, az)
//	pitch = atan2(-ax, sqrt(ay² + az²))
func AccelAngles(ax, ay, az float64) (roll, pitch float64) {
	roll = math.Atan2(ay, az)
	pitch = math.Atan2(-ax, math.Sqrt(ay*ay+az*az))
	return roll, pitch
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}
