// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package motion holds ground-truth body motion models used to drive the
// IMU emulator.
package motion

import (
	"errors"
	"fmt"
	"math"

	"github.com/relabs-tech/balancing_robot/internal/config"
)

// State is the true body state at one instant.
type State struct {
	Attitude Attitude
	Rate     [3]float64 // body angular velocity, rad/s
}

// Model evaluates the ground truth at t seconds from the start of a run.
type Model interface {
	StateAt(t float64) State
}

// ErrNoSegments is returned for a scripted motion without segments.
var ErrNoSegments = errors.New("motion: scripted motion requires segments")

// New builds the model described by cfg. Zero amplitudes, rates and
// durations take the defaults of each model.
func New(cfg config.MotionConfig) (Model, error) {
	switch cfg.Type {
	case "", "static":
		return Static{}, nil
	case "slow_tilt":
		return SlowTilt{
			Amplitude: deg(orDefault(cfg.AmplitudeDeg, 10)),
			Duration:  orDefault(cfg.DurationS, 5),
		}, nil
	case "sine":
		return Sine{
			Amplitude: deg(orDefault(cfg.AmplitudeDeg, 5)),
			FreqHz:    orDefault(cfg.FreqHz, 1),
		}, nil
	case "impulse_push":
		return newImpulse(cfg.Impulse), nil
	case "scripted":
		return newScripted(cfg.Scripted)
	default:
		return nil, fmt.Errorf("motion: unknown type %q", cfg.Type)
	}
}

func newImpulse(c config.ImpulseConfig) Impulse {
	axis := c.Axis
	if axis == "" {
		axis = "pitch"
	}
	return Impulse{
		Axis:     axis,
		Rate:     deg(orDefault(c.RateDegS, 90)),
		Duration: orDefault(c.DurationS, 0.05),
	}
}

func newScripted(segs []config.SegmentConfig) (Model, error) {
	if len(segs) == 0 {
		return nil, ErrNoSegments
	}
	var out Scripted
	var t0 float64
	for i, s := range segs {
		if s.Type == "scripted" {
			return nil, fmt.Errorf("motion: segment %d: scripted segments cannot nest", i)
		}
		m, err := New(config.MotionConfig{
			Type:         s.Type,
			AmplitudeDeg: s.AmplitudeDeg,
			FreqHz:       s.FreqHz,
			DurationS:    s.DurationS,
			Impulse:      s.Impulse,
		})
		if err != nil {
			return nil, fmt.Errorf("motion: segment %d: %w", i, err)
		}
		dur := orDefault(s.DurationS, 1)
		out.Segments = append(out.Segments, Segment{Start: t0, End: t0 + dur, Model: m})
		t0 += dur
	}
	return out, nil
}

// Static is a level body at rest.
type Static struct{}

func (Static) StateAt(float64) State { return State{} }

// SlowTilt pitches up to Amplitude over the first half of Duration and
// back to level over the second half.
type SlowTilt struct {
	Amplitude float64 // rad
	Duration  float64 // s
}

func (m SlowTilt) StateAt(t float64) State {
	if m.Duration <= 0 || t < 0 || t > m.Duration {
		return State{}
	}
	half := m.Duration / 2
	rate := m.Amplitude / half
	if t <= half {
		return pitchState(rate*t, rate)
	}
	return pitchState(m.Amplitude-rate*(t-half), -rate)
}

// Sine oscillates pitch as Amplitude·sin(2π·FreqHz·t).
type Sine struct {
	Amplitude float64 // rad
	FreqHz    float64
}

func (m Sine) StateAt(t float64) State {
	w := 2 * math.Pi * m.FreqHz
	return pitchState(m.Amplitude*math.Sin(w*t), m.Amplitude*w*math.Cos(w*t))
}

// Impulse rotates about one axis at Rate for Duration seconds and then
// holds the reached angle.
type Impulse struct {
	Axis     string // roll, pitch or yaw
	Rate     float64
	Duration float64
}

func (m Impulse) StateAt(t float64) State {
	if t < 0 {
		return State{}
	}
	if t <= m.Duration {
		return axisState(m.Axis, m.Rate*t, m.Rate)
	}
	return axisState(m.Axis, m.Rate*m.Duration, 0)
}

// Segment is a model active on [Start, End), evaluated on local time.
type Segment struct {
	Start, End float64
	Model      Model
}

// Scripted plays segments back to back and holds the final state of the
// last one afterwards.
type Scripted struct {
	Segments []Segment
}

func (s Scripted) StateAt(t float64) State {
	for _, seg := range s.Segments {
		if t >= seg.Start && t < seg.End {
			return seg.Model.StateAt(t - seg.Start)
		}
	}
	if n := len(s.Segments); n > 0 && t >= s.Segments[n-1].End {
		last := s.Segments[n-1]
		return last.Model.StateAt(last.End - last.Start)
	}
	return State{}
}

func pitchState(angle, rate float64) State {
	return axisState("pitch", angle, rate)
}

func axisState(axis string, angle, rate float64) State {
	switch axis {
	case "roll":
		return State{Attitude: Attitude{Roll: angle}, Rate: [3]float64{rate, 0, 0}}
	case "yaw":
		return State{Attitude: Attitude{Yaw: angle}, Rate: [3]float64{0, 0, rate}}
	default:
		return State{Attitude: Attitude{Pitch: angle}, Rate: [3]float64{0, rate, 0}}
	}
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func deg(v float64) float64 {
	return v * math.Pi / 180
}
