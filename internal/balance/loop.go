// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package balance runs the per-tick control pipeline of the robot: tilt
// estimation, setpoint resolution, PID balance and wheel mixing.
package balance

import (
	"github.com/relabs-tech/balancing_robot/internal/command"
	"github.com/relabs-tech/balancing_robot/internal/control"
	"github.com/relabs-tech/balancing_robot/internal/imu"
	"github.com/relabs-tech/balancing_robot/internal/orientation"
	"github.com/relabs-tech/balancing_robot/internal/script"
)

// State is the phase of the loop.
type State int

const (
	StateCalibrating State = iota
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateCalibrating:
		return "calibrating"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Output is everything one tick decided. Angles are radians; Throttle and
// Turn are the unit intents before scaling.
type Output struct {
	State       State
	Roll        float64
	Pitch       float64
	TargetPitch float64
	Throttle    float64
	Turn        float64
	Balance     float64
	Mode        uint8
	Enabled     bool
	Ramping     bool
	Motor       control.MotorCommand
}

// Loop owns the filter, controller and script state of one robot.
//
// Not safe for concurrent use; the host drives Tick from a single
// goroutine.
type Loop struct {
	cfg Config

	filter orientation.Filter
	pid    *control.PID
	script *script.Script
	ramp   *script.Ramp

	step func(s imu.Sample, dt float64, in command.Intent) Output

	state       State
	calibCount  int
	rollSum     float64
	pitchSum    float64
	offsets     orientation.Pose
	lastEnabled bool
}

// New returns a loop in the calibrating state.
func New(cfg Config) *Loop {
	l := &Loop{
		cfg:    cfg,
		pid:    control.NewPID(cfg.Kp, cfg.Ki, cfg.Kd, cfg.BalanceLimit),
		script: script.New(cfg.Script),
		ramp:   script.NewRamp(cfg.RampDuration, cfg.RampFrom, 0),
	}
	l.step = l.calibrate
	if cfg.CalibSamples <= 0 {
		l.enterRunning()
	}
	return l
}

// Tick advances the loop by one sample. dt <= 0 freezes the filter,
// controller and script clocks for this tick.
func (l *Loop) Tick(s imu.Sample, dt float64, in command.Intent) Output {
	return l.step(s, dt, in)
}

// State returns the current phase.
func (l *Loop) State() State {
	return l.state
}

// Offsets returns the static roll/pitch offsets found during calibration.
func (l *Loop) Offsets() orientation.Pose {
	return l.offsets
}

func (l *Loop) calibrate(s imu.Sample, _ float64, in command.Intent) Output {
	roll, pitch := orientation.AccelAngles(s.Accel[0], s.Accel[1], s.Accel[2])
	l.rollSum += roll
	l.pitchSum += pitch
	l.calibCount++

	if l.calibCount >= l.cfg.CalibSamples {
		n := float64(l.calibCount)
		l.offsets = orientation.Pose{Roll: l.rollSum / n, Pitch: l.pitchSum / n}
		l.enterRunning()
	}
	return Output{State: StateCalibrating, Mode: in.Mode, Enabled: in.Enabled}
}

func (l *Loop) enterRunning() {
	l.state = StateRunning
	l.step = l.run
}

func (l *Loop) run(s imu.Sample, dt float64, in command.Intent) Output {
	pose := l.filter.Update(s, dt)
	pose.Roll -= l.offsets.Roll
	pose.Pitch -= l.offsets.Pitch

	switch {
	case in.Enabled && !l.lastEnabled:
		l.ramp.Start()
		l.script.Reset()
	case !in.Enabled && l.lastEnabled:
		l.ramp.Cancel()
		l.script.Reset()
	}
	l.lastEnabled = in.Enabled

	out := Output{
		State:   StateRunning,
		Roll:    pose.Roll,
		Pitch:   pose.Pitch,
		Mode:    in.Mode,
		Enabled: in.Enabled,
	}

	if target, ok := l.ramp.Step(dt); ok {
		out.TargetPitch = target
		out.Ramping = true
	} else {
		sp := l.script.Step(in.Mode, dt)
		out.TargetPitch = sp.TargetPitch
		out.Throttle, out.Turn = in.Throttle, in.Turn
		if sp.Override {
			out.Throttle, out.Turn = sp.Throttle, sp.Turn
		}
		if !in.Enabled {
			out.Throttle, out.Turn = 0, 0
		}
	}

	out.Balance = l.pid.Update(out.TargetPitch-pose.Pitch, dt)
	out.Motor = control.Mix(out.Balance,
		out.Throttle*l.cfg.ThrottleScale,
		out.Turn*l.cfg.TurnScale,
		l.cfg.MotorLimit)
	return out
}
