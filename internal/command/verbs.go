// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Verb is a line command sent by operator front-ends.
type Verb int

const (
	VerbStart  Verb = iota + 1 // begin streaming telemetry
	VerbStop                   // stop streaming telemetry
	VerbArm                    // enable balancing
	VerbDisarm                 // disable balancing
	VerbMode                   // MODE:<n>
	VerbDrive                  // M:<throttle>,<turn>
	VerbLED                    // accepted, no effect on the loop
)

var verbNames = map[Verb]string{
	VerbStart:  "START",
	VerbStop:   "STOP",
	VerbArm:    "ARM",
	VerbDisarm: "DISARM",
	VerbMode:   "MODE",
	VerbDrive:  "M",
	VerbLED:    "LED",
}

func (v Verb) String() string {
	if s, ok := verbNames[v]; ok {
		return s
	}
	return fmt.Sprintf("Verb(%d)", int(v))
}

// ErrUnknownVerb is returned for lines that are not a known verb.
var ErrUnknownVerb = errors.New("command: unknown verb")

// ApplyVerb parses one front-end line and returns cur updated by it.
// A drive command implies enabled, matching the joystick behaviour of the
// mobile app. START, STOP and LED return cur unchanged.
func ApplyVerb(line string, cur Intent) (Intent, Verb, error) {
	line = strings.TrimSpace(line)
	switch strings.ToUpper(line) {
	case "START":
		return cur, VerbStart, nil
	case "STOP":
		return cur, VerbStop, nil
	case "ARM":
		cur.Enabled = true
		return cur, VerbArm, nil
	case "DISARM":
		cur.Enabled = false
		cur.Throttle, cur.Turn = 0, 0
		return cur, VerbDisarm, nil
	case "LED":
		return cur, VerbLED, nil
	}

	switch {
	case strings.HasPrefix(line, "MODE:"):
		v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(line, "MODE:")), 64)
		if err != nil {
			return cur, VerbMode, fmt.Errorf("command: MODE: %w", err)
		}
		mode, ok := modeFromFloat(v)
		if !ok {
			return cur, VerbMode, fmt.Errorf("command: MODE %v out of range", v)
		}
		cur.Mode = mode
		return cur, VerbMode, nil

	case strings.HasPrefix(line, "M:"):
		parts := strings.SplitN(strings.TrimPrefix(line, "M:"), ",", 2)
		if len(parts) != 2 {
			return cur, VerbDrive, fmt.Errorf("command: M: expects throttle,turn")
		}
		throttle, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return cur, VerbDrive, fmt.Errorf("command: M throttle: %w", err)
		}
		turn, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return cur, VerbDrive, fmt.Errorf("command: M turn: %w", err)
		}
		if !finite(throttle) || !finite(turn) {
			return cur, VerbDrive, fmt.Errorf("command: M %v,%v not finite", throttle, turn)
		}
		cur.Throttle = ClampUnit(throttle)
		cur.Turn = ClampUnit(turn)
		cur.Enabled = true
		return cur, VerbDrive, nil
	}

	return cur, 0, fmt.Errorf("%w: %q", ErrUnknownVerb, line)
}
