// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package replay drives the balance loop from a textual log and writes
// its decisions as CSV.
//
// Input lines are one of:
//
//	t,gx,gy,gz,ax,ay,az          inertial sample
//	t,throttle,turn,enabled[,m]  scripted profile entry
//	RC,throttle,turn,enabled[,m] live command
//
// Headers (lines starting with 't') and malformed lines are skipped.
package replay

import (
	"math"
	"strconv"
	"strings"

	"github.com/relabs-tech/balancing_robot/internal/command"
	"github.com/relabs-tech/balancing_robot/internal/imu"
)

// Kind classifies an input line.
type Kind int

const (
	KindSkip Kind = iota
	KindSample
	KindProfile
	KindLive
)

// Line is one parsed input line. Only the field matching Kind is set.
type Line struct {
	Kind    Kind
	Sample  imu.Sample
	Profile command.ProfileEntry
	Live    command.Intent
}

const livePrefix = "RC,"

// ParseLine classifies and decodes one input line.
func ParseLine(raw string) Line {
	s := strings.TrimSpace(raw)
	if s == "" || s[0] == 't' {
		return Line{}
	}
	if strings.HasPrefix(s, livePrefix) {
		in, ok := command.ParseFields(strings.Split(s[len(livePrefix):], ","))
		if !ok {
			return Line{}
		}
		return Line{Kind: KindLive, Live: in}
	}

	fields := strings.Split(s, ",")
	switch len(fields) {
	case 7:
		var v [7]float64
		for i, f := range fields {
			x, ok := parseFloat(f)
			if !ok {
				return Line{}
			}
			v[i] = x
		}
		return Line{Kind: KindSample, Sample: imu.Sample{
			T:     v[0],
			Gyro:  [3]float64{v[1], v[2], v[3]},
			Accel: [3]float64{v[4], v[5], v[6]},
		}}
	case 4, 5:
		t, ok := parseFloat(fields[0])
		if !ok {
			return Line{}
		}
		in, ok := command.ParseFields(fields[1:])
		if !ok {
			return Line{}
		}
		return Line{Kind: KindProfile, Profile: command.ProfileEntry{T: t, Intent: in}}
	default:
		return Line{}
	}
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
