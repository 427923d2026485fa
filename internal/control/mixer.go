// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package control

import "math"

// MotorCommand holds signed per-wheel speed commands.
type MotorCommand struct {
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
}

// Mix combines the balance correction with the drive intents into
// differential wheel commands, each saturated to ±limit.
func Mix(balance, throttle, turn, limit float64) MotorCommand {
	base := balance + throttle
	return MotorCommand{
		Left:  Clamp(base+turn, limit),
		Right: Clamp(base-turn, limit),
	}
}

// Clamp saturates v to [-limit, limit]. A non-positive limit disables it.
// NaN maps to 0.
func Clamp(v, limit float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if limit <= 0 {
		return v
	}
	return clampRange(v, -limit, limit)
}

func clampRange(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
