// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package script

import "math"

// Stand-up defaults: lift from resting on the arm to upright in 1.5 s.
const (
	DefaultRampDuration = 1.5
	DefaultRampFrom     = -25 * math.Pi / 180
)

// Ramp interpolates the target pitch from From to To over Duration seconds.
// It ends on its own once the normalized time reaches 1.
type Ramp struct {
	Duration float64
	From     float64 // rad
	To       float64 // rad

	t      float64
	active bool
}

// NewRamp returns an inactive ramp.
func NewRamp(duration, from, to float64) *Ramp {
	return &Ramp{Duration: duration, From: from, To: to}
}

// Start (re)arms the ramp from its first sample.
func (r *Ramp) Start() {
	r.t = 0
	r.active = true
}

// Cancel stops an in-progress ramp.
func (r *Ramp) Cancel() {
	r.active = false
}

// Active reports whether the ramp still owns the setpoint.
func (r *Ramp) Active() bool {
	return r.active
}

// Step returns the target pitch for this tick and advances the ramp clock.
// ok is false once the ramp is inactive or has just run to completion.
func (r *Ramp) Step(dt float64) (target float64, ok bool) {
	if !r.active {
		return 0, false
	}
	norm := 1.0
	if r.Duration > 0 {
		norm = r.t / r.Duration
	}
	if norm >= 1 {
		r.active = false
		return 0, false
	}

	target = r.From + (r.To-r.From)*norm
	if dt > 0 {
		r.t += dt
	}
	return target, true
}
