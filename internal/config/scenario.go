// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario describes one emulated IMU run.
type Scenario struct {
	RateHz         float64      `yaml:"rate_hz"`
	DurationS      float64      `yaml:"duration_s"`
	Units          string       `yaml:"units"` // "si" or "deg" (gyro only)
	Seed           int64        `yaml:"seed"`
	Motion         MotionConfig `yaml:"motion"`
	GyroNoiseStd   float64      `yaml:"gyro_noise_std"`
	AccelNoiseStd  float64      `yaml:"accel_noise_std"`
	GyroBias       [3]float64   `yaml:"gyro_bias"`
	GyroDriftStd   float64      `yaml:"gyro_bias_drift_std"`
	VibrationBurst BurstConfig  `yaml:"vibration_burst"`
	UDP            UDPConfig    `yaml:"udp"`
}

// MotionConfig selects a ground-truth motion model.
type MotionConfig struct {
	Type         string          `yaml:"type"` // static, slow_tilt, sine, impulse_push, scripted
	AmplitudeDeg float64         `yaml:"amplitude_deg"`
	FreqHz       float64         `yaml:"freq_hz"`
	DurationS    float64         `yaml:"duration_s"`
	Impulse      ImpulseConfig   `yaml:"impulse"`
	Scripted     []SegmentConfig `yaml:"scripted"`
}

type ImpulseConfig struct {
	Axis      string  `yaml:"axis"` // roll, pitch, yaw
	RateDegS  float64 `yaml:"rate_deg_s"`
	DurationS float64 `yaml:"duration_s"`
}

// SegmentConfig is one step of a scripted motion. Segments run back to back.
type SegmentConfig struct {
	Type         string        `yaml:"type"`
	DurationS    float64       `yaml:"duration_s"`
	AmplitudeDeg float64       `yaml:"amplitude_deg"`
	FreqHz       float64       `yaml:"freq_hz"`
	Impulse      ImpulseConfig `yaml:"impulse"`
}

// BurstConfig adds a duty-cycled sinusoid to the Z accelerometer axis.
type BurstConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Amplitude float64 `yaml:"amplitude"`
	FreqHz    float64 `yaml:"freq_hz"`
	DutyCycle float64 `yaml:"duty_cycle"`
}

type UDPConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Format  string `yaml:"format"` // csv or binary
}

// DefaultScenario is a quiet, level robot sampled at 500 Hz.
func DefaultScenario() Scenario {
	return Scenario{
		RateHz: 500,
		Units:  "si",
		Motion: MotionConfig{Type: "static"},
		UDP:    UDPConfig{Format: "csv"},
	}
}

// LoadScenario reads a YAML scenario. Fields missing from the file keep
// their DefaultScenario value.
func LoadScenario(path string) (Scenario, error) {
	sc := DefaultScenario()
	b, err := os.ReadFile(path)
	if err != nil {
		return sc, fmt.Errorf("scenario: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &sc); err != nil {
		return sc, fmt.Errorf("scenario: parse %s: %w", path, err)
	}
	return sc, sc.Normalize()
}

// Normalize fills zero fields with defaults and rejects unknown enums.
func (s *Scenario) Normalize() error {
	if s.RateHz <= 0 {
		s.RateHz = 500
	}
	s.Units = strings.ToLower(s.Units)
	switch s.Units {
	case "":
		s.Units = "si"
	case "si", "deg":
	default:
		return fmt.Errorf("scenario: units must be si or deg, got %q", s.Units)
	}
	switch s.UDP.Format {
	case "":
		s.UDP.Format = "csv"
	case "csv", "binary":
	default:
		return fmt.Errorf("scenario: udp format must be csv or binary, got %q", s.UDP.Format)
	}
	if s.UDP.Enabled && s.UDP.Addr == "" {
		return fmt.Errorf("scenario: udp enabled without addr")
	}
	return nil
}
