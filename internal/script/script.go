// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package script generates open-loop maneuvers for the balancing robot.
//
// A Script maps a mode id and a local clock to throttle, turn and target
// pitch setpoints. The clock restarts whenever the mode changes. A Ramp is
// the stand-up sequence that takes priority over the script while active.
package script

import (
	"math"
)

// Mode ids understood by Script. Anything above ModeOscillate is idle.
const (
	ModeIdle uint8 = iota
	ModeCircle
	ModeFigure8A
	ModeFigure8B
	ModeFigure8C
	ModeSpin
	ModeStopAndGo
	ModeSquare
	ModeSlalom
	ModeHoldUp
	ModeHoldDown
	ModeOscillate
)

// Setpoint is the script output for one tick. Override reports whether the
// script owns throttle and turn; when false the operator's intent applies.
type Setpoint struct {
	Throttle    float64
	Turn        float64
	TargetPitch float64 // rad
	Override    bool
}

// Wave is a sinusoid amplitude·sin(2π·t/period).
type Wave struct {
	Amplitude float64
	Period    float64 // seconds
}

// At evaluates the wave at t seconds. A non-positive period yields 0.
func (w Wave) At(t float64) float64 {
	if w.Period <= 0 {
		return 0
	}
	return w.Amplitude * math.Sin(2*math.Pi*t/w.Period)
}

// Params holds the tuned constants of every maneuver.
type Params struct {
	Throttle     float64 // forward throttle of the driving maneuvers
	CircleTurn   float64
	Figure8      [3]Wave // modes 2, 3, 4
	SpinTurn     float64
	StopGoCycle  float64 // seconds; throttle is on for the first half
	SquareTurn   float64
	SquareLeg    float64 // seconds of straight driving per side
	SquareCorner float64 // seconds of turning per corner
	Slalom       Wave
	HoldPitch    float64 // rad, ±target of modes 9 and 10
	Oscillation  Wave    // target pitch of mode 11, rad
}

// DefaultParams returns the tuned maneuver constants.
func DefaultParams() Params {
	return Params{
		Throttle:   0.3,
		CircleTurn: 0.2,
		Figure8: [3]Wave{
			{Amplitude: 0.25, Period: 4},
			{Amplitude: 0.20, Period: 6},
			{Amplitude: 0.30, Period: 3},
		},
		SpinTurn:     0.35,
		StopGoCycle:  2,
		SquareTurn:   0.35,
		SquareLeg:    1,
		SquareCorner: 0.5,
		Slalom:       Wave{Amplitude: 0.40, Period: 3},
		HoldPitch:    5 * math.Pi / 180,
		Oscillation:  Wave{Amplitude: 3 * math.Pi / 180, Period: 10},
	}
}

// Script is the maneuver state machine.
//
// Not safe for concurrent use.
type Script struct {
	params   Params
	elapsed  float64
	lastMode uint8
}

// New returns a script in idle mode with its clock at zero.
func New(p Params) *Script {
	return &Script{params: p}
}

// Reset restarts the maneuver clock without changing the mode.
func (s *Script) Reset() {
	s.elapsed = 0
}

// Elapsed returns seconds spent in the current mode.
func (s *Script) Elapsed() float64 {
	return s.elapsed
}

// Mode returns the mode of the previous Step.
func (s *Script) Mode() uint8 {
	return s.lastMode
}

// Step evaluates mode at the current clock and then advances the clock by
// dt. Switching mode restarts the clock before evaluation, so the first
// tick of a new maneuver is always evaluated at t=0.
func (s *Script) Step(mode uint8, dt float64) Setpoint {
	if mode != s.lastMode {
		s.Reset()
		s.lastMode = mode
	}

	sp := s.eval(mode, s.elapsed)

	if dt > 0 {
		s.elapsed += dt
	}
	return sp
}

func (s *Script) eval(mode uint8, t float64) Setpoint {
	p := s.params
	switch mode {
	case ModeCircle:
		return drive(p.Throttle, p.CircleTurn)
	case ModeFigure8A, ModeFigure8B, ModeFigure8C:
		return drive(p.Throttle, p.Figure8[mode-ModeFigure8A].At(t))
	case ModeSpin:
		return drive(0, p.SpinTurn)
	case ModeStopAndGo:
		if phase(t, p.StopGoCycle) < p.StopGoCycle/2 {
			return drive(p.Throttle, 0)
		}
		return drive(0, 0)
	case ModeSquare:
		side := p.SquareLeg + p.SquareCorner
		if phase(t, side) < p.SquareLeg {
			return drive(p.Throttle, 0)
		}
		return drive(0, p.SquareTurn)
	case ModeSlalom:
		return drive(p.Throttle, p.Slalom.At(t))
	case ModeHoldUp:
		return Setpoint{TargetPitch: p.HoldPitch, Override: true}
	case ModeHoldDown:
		return Setpoint{TargetPitch: -p.HoldPitch, Override: true}
	case ModeOscillate:
		return Setpoint{TargetPitch: p.Oscillation.At(t), Override: true}
	default:
		return Setpoint{}
	}
}

func drive(throttle, turn float64) Setpoint {
	return Setpoint{Throttle: throttle, Turn: turn, Override: true}
}

// phase returns t modulo period, or t itself for a non-positive period.
func phase(t, period float64) float64 {
	if period <= 0 {
		return t
	}
	return math.Mod(t, period)
}
