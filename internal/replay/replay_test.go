// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package replay

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/balancing_robot/internal/balance"
	"github.com/relabs-tech/balancing_robot/internal/command"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		kind Kind
	}{
		{"header", "t,gx,gy,gz,ax,ay,az", KindSkip},
		{"blank", "   ", KindSkip},
		{"sample", "0.002,0.1,0.2,0.3,0,0,9.8", KindSample},
		{"profile", "1.5,0.2,0,1", KindProfile},
		{"profile with mode", "1.5,0,0,1,9", KindProfile},
		{"live", "RC,0.5,-0.5,1", KindLive},
		{"live with mode", "RC,0,0,1,11", KindLive},
		{"three fields", "1,2,3", KindSkip},
		{"six fields", "1,2,3,4,5,6", KindSkip},
		{"bad number", "0.002,x,0,0,0,0,1", KindSkip},
		{"bad live", "RC,0.5", KindSkip},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, ParseLine(tt.line).Kind)
		})
	}
}

func TestParseLineValues(t *testing.T) {
	l := ParseLine("0.25,0.1,-0.2,0.3,1,2,3")
	require.Equal(t, KindSample, l.Kind)
	assert.Equal(t, 0.25, l.Sample.T)
	assert.Equal(t, [3]float64{0.1, -0.2, 0.3}, l.Sample.Gyro)
	assert.Equal(t, [3]float64{1, 2, 3}, l.Sample.Accel)

	l = ParseLine("2,0.4,-0.1,1,6")
	require.Equal(t, KindProfile, l.Kind)
	assert.Equal(t, command.ProfileEntry{T: 2, Intent: command.Intent{Throttle: 0.4, Turn: -0.1, Enabled: true, Mode: 6}}, l.Profile)

	l = ParseLine("RC,0.5,0,0")
	require.Equal(t, KindLive, l.Kind)
	assert.Equal(t, command.Intent{Throttle: 0.5}, l.Live)
}

func TestColumnsHeader(t *testing.T) {
	assert.Equal(t, "t,roll,pitch,balance,left,right", Columns{}.Header())
	assert.Equal(t,
		"t,roll,pitch,balance,left,right,throttle,turn,target_pitch_deg,mode,enabled,ramp,left_pos,right_pos",
		Columns{Trace: true, Steppers: true}.Header())
}

func levelLog(n int, extra ...string) string {
	var b strings.Builder
	b.WriteString("t,gx,gy,gz,ax,ay,az\n")
	for _, e := range extra {
		b.WriteString(e + "\n")
	}
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "%.6f,0,0,0,0,0,9.80665\n", float64(i)/500)
	}
	return b.String()
}

func TestRunSkipsCalibration(t *testing.T) {
	var out bytes.Buffer
	sum, err := Run(strings.NewReader(levelLog(250)), &out, balance.DefaultConfig(), Columns{})
	require.NoError(t, err)

	assert.Equal(t, 250, sum.Samples)
	assert.Equal(t, 50, sum.Rows)
	assert.Equal(t, 1, sum.Skipped, "header")
	assert.InDelta(t, 0, sum.Offsets[1], 1e-12)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 51)
	assert.Equal(t, "t,roll,pitch,balance,left,right", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0.402000,"), lines[1])
}

func TestRunProfileAndRamp(t *testing.T) {
	var out bytes.Buffer
	sum, err := Run(strings.NewReader(levelLog(1200, "0,0,0,1,9")), &out,
		balance.DefaultConfig(), Columns{Trace: true, Steppers: true})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Profile)
	assert.Equal(t, 1000, sum.Rows)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	first := strings.Split(lines[1], ",")
	last := strings.Split(lines[len(lines)-1], ",")
	require.Len(t, first, 14)

	assert.Equal(t, "-25.000000", first[8], "stand-up starts at -25 deg")
	assert.Equal(t, "1", first[11], "ramp flag")
	assert.Equal(t, "5.000000", last[8], "hold-up after the ramp")
	assert.Equal(t, "9", last[9])
	assert.Equal(t, "1", last[10])
	assert.Equal(t, "0", last[11])

	lp, err := strconv.ParseInt(last[12], 10, 64)
	require.NoError(t, err)
	assert.Equal(t, sum.Left, lp)
}

func TestRunLiveOverridesProfile(t *testing.T) {
	cfg := balance.DefaultConfig()
	cfg.RampDuration = 0
	var out bytes.Buffer
	_, err := Run(strings.NewReader(levelLog(201, "0,0,0,1,9", "RC,0.5,0,1,0")), &out, cfg, Columns{Trace: true})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	row := strings.Split(lines[1], ",")
	assert.Equal(t, "0.500000", row[6], "live throttle")
	assert.Equal(t, "0.000000", row[8], "idle mode from the live command")
}
