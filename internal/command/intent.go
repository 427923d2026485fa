// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package command

import (
	"math"
	"strconv"
	"strings"
)

// Intent is an operator or scripted request for one tick.
type Intent struct {
	Throttle float64 `json:"throttle"` // [-1, 1]
	Turn     float64 `json:"turn"`     // [-1, 1]
	Enabled  bool    `json:"enabled"`
	Mode     uint8   `json:"mode"`
}

// ClampUnit saturates v to [-1, 1]. NaN maps to 0.
func ClampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return min(max(v, -1), 1)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ParseFields decodes "throttle,turn,enabled[,mode]" already split on commas.
// Throttle and turn are clamped to [-1, 1]; any non-zero enabled value
// enables. ok is false for a wrong field count or a non-numeric or
// non-finite field.
func ParseFields(fields []string) (Intent, bool) {
	if len(fields) != 3 && len(fields) != 4 {
		return Intent{}, false
	}
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil || !finite(v) {
			return Intent{}, false
		}
		vals[i] = v
	}

	in := Intent{
		Throttle: ClampUnit(vals[0]),
		Turn:     ClampUnit(vals[1]),
		Enabled:  vals[2] != 0,
	}
	if len(vals) == 4 {
		mode, ok := modeFromFloat(vals[3])
		if !ok {
			return Intent{}, false
		}
		in.Mode = mode
	}
	return in, true
}

// ParseLine decodes one line from the RC link. Plain lines are
// "throttle,turn,enabled[,mode]"; lines starting with '$' must be
// checksummed BRCMD sentences.
func ParseLine(line string) (Intent, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Intent{}, false
	}
	if strings.HasPrefix(line, "$") {
		return ParseSentence(line)
	}
	return ParseFields(strings.Split(line, ","))
}

func modeFromFloat(v float64) (uint8, bool) {
	if v < 0 || v > math.MaxUint8 || v != math.Trunc(v) {
		return 0, false
	}
	return uint8(v), true
}
