// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package control

// PID is the balance controller. The output is saturated to ±OutputLimit
// and, when both Ki and OutputLimit are positive, the integral is held
// within ±OutputLimit/Ki so the I term alone can never exceed the limit.
//
// Not safe for concurrent use.
type PID struct {
	Kp, Ki, Kd  float64
	OutputLimit float64

	integral  float64
	prevError float64
}

// NewPID returns a controller with zeroed integral and error history.
func NewPID(kp, ki, kd, outputLimit float64) *PID {
	return &PID{Kp: kp, Ki: ki, Kd: kd, OutputLimit: outputLimit}
}

// Update advances the controller by dt seconds and returns the correction.
// A non-positive dt returns 0 and leaves the state unchanged.
func (p *PID) Update(err, dt float64) float64 {
	if dt <= 0 {
		return 0
	}

	p.integral += err * dt
	if p.Ki > 0 && p.OutputLimit > 0 {
		bound := p.OutputLimit / p.Ki
		p.integral = clampRange(p.integral, -bound, bound)
	}

	derivative := (err - p.prevError) / dt
	p.prevError = err

	out := p.Kp*err + p.Ki*p.integral + p.Kd*derivative
	return Clamp(out, p.OutputLimit)
}

// Integral returns the accumulated error integral.
func (p *PID) Integral() float64 {
	return p.integral
}

// Reset clears the integral and derivative history. Gains are kept.
func (p *PID) Reset() {
	p.integral = 0
	p.prevError = 0
}
