// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package stepper turns signed wheel speeds into step pulses.
package stepper

import "math"

// Emulator is a step accumulator for one wheel: every |speed|·dt of
// accumulated travel past one whole step emits a step in the direction of
// speed.
type Emulator struct {
	acc float64
	pos int64
}

// Advance integrates speed (steps/s) over dt seconds and returns the signed
// number of steps emitted.
func (e *Emulator) Advance(speed, dt float64) int {
	if dt <= 0 || speed == 0 || math.IsNaN(speed) || math.IsInf(speed, 0) {
		return 0
	}
	dir := 1
	if speed < 0 {
		dir = -1
		speed = -speed
	}
	e.acc += speed * dt

	whole := math.Floor(e.acc)
	e.acc -= whole
	steps := dir * int(whole)
	e.pos += int64(steps)
	return steps
}

// Position returns the signed step count since the emulator was created.
func (e *Emulator) Position() int64 {
	return e.pos
}

// Pair emulates both wheels.
type Pair struct {
	Left, Right Emulator
}

// Advance moves both wheels by one control tick.
func (p *Pair) Advance(left, right, dt float64) {
	p.Left.Advance(left, dt)
	p.Right.Advance(right, dt)
}

// Positions returns the left and right step counts.
func (p *Pair) Positions() (left, right int64) {
	return p.Left.Position(), p.Right.Position()
}
