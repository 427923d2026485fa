// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package telemetry carries the robot state to operator front-ends, as a
// space-separated text line for the mobile app and as JSON over MQTT.
package telemetry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/relabs-tech/balancing_robot/internal/balance"
	"github.com/relabs-tech/balancing_robot/internal/orientation"
)

// Frame is one telemetry snapshot. Angles are degrees.
type Frame struct {
	T           float64 `json:"t"`
	Roll        float64 `json:"roll"`
	Pitch       float64 `json:"pitch"`
	Yaw         float64 `json:"yaw"`
	Left        float64 `json:"left"`
	Right       float64 `json:"right"`
	Balance     float64 `json:"balance"`
	TargetPitch float64 `json:"target_pitch"`
	Mode        uint8   `json:"mode"`
	Enabled     bool    `json:"enabled"`
	State       int     `json:"state"` // 0 calibrating, 1 running
	Ramping     bool    `json:"ramping"`
}

// FromOutput converts a loop output taken at t seconds.
func FromOutput(t float64, out balance.Output) Frame {
	return Frame{
		T:           t,
		Roll:        orientation.RadToDeg(out.Roll),
		Pitch:       orientation.RadToDeg(out.Pitch),
		Left:        out.Motor.Left,
		Right:       out.Motor.Right,
		Balance:     out.Balance,
		TargetPitch: orientation.RadToDeg(out.TargetPitch),
		Mode:        out.Mode,
		Enabled:     out.Enabled,
		State:       int(out.State),
		Ramping:     out.Ramping,
	}
}

// Text renders the frame as the app's line format, without newline:
//
//	T:1.234 R:0.10 P:-2.50 Y:0 LM:12.0 RM:11.0 BAL:11.50 TP:0.00 MODE:0 EN:1 ST:1
func (f Frame) Text() string {
	return fmt.Sprintf("T:%.3f R:%.2f P:%.2f Y:%.0f LM:%.1f RM:%.1f BAL:%.2f TP:%.2f MODE:%d EN:%d ST:%d",
		f.T, f.Roll, f.Pitch, f.Yaw, f.Left, f.Right, f.Balance, f.TargetPitch,
		f.Mode, boolInt(f.Enabled), f.State)
}

// RestText is the short frame sent while the robot rests on its arm.
func RestText(pitchDeg float64) string {
	return fmt.Sprintf("R:0 P:%.2f Y:0", pitchDeg)
}

// ParseText reads a text frame. Unknown or malformed tokens are ignored;
// ok is false unless both R: and P: parse.
func ParseText(line string) (Frame, bool) {
	var f Frame
	var haveRoll, havePitch bool
	for _, tok := range strings.Fields(line) {
		key, val, found := strings.Cut(tok, ":")
		if !found {
			continue
		}
		switch key {
		case "T":
			f.T, _ = strconv.ParseFloat(val, 64)
		case "R":
			v, err := strconv.ParseFloat(val, 64)
			f.Roll, haveRoll = v, err == nil
		case "P":
			v, err := strconv.ParseFloat(val, 64)
			f.Pitch, havePitch = v, err == nil
		case "Y":
			f.Yaw, _ = strconv.ParseFloat(val, 64)
		case "LM":
			f.Left, _ = strconv.ParseFloat(val, 64)
		case "RM":
			f.Right, _ = strconv.ParseFloat(val, 64)
		case "BAL":
			f.Balance, _ = strconv.ParseFloat(val, 64)
		case "TP":
			f.TargetPitch, _ = strconv.ParseFloat(val, 64)
		case "MODE":
			if v, err := strconv.ParseUint(val, 10, 8); err == nil {
				f.Mode = uint8(v)
			}
		case "EN":
			if v, err := strconv.Atoi(val); err == nil {
				f.Enabled = v != 0
			}
		case "ST":
			f.State, _ = strconv.Atoi(val)
		}
	}
	return f, haveRoll && havePitch
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
