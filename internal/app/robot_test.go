// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/balancing_robot/internal/command"
	"github.com/relabs-tech/balancing_robot/internal/config"
	"github.com/relabs-tech/balancing_robot/internal/replay"
)

func TestBalanceConfigFromRobotConfig(t *testing.T) {
	cfg := config.Default()
	cfg.RampFromDeg = -30
	cfg.ScriptHoldDeg = 4
	cfg.ScriptOscAmplitudeDeg = 2
	cfg.ScriptOscPeriodS = 8

	bc := balanceConfig(cfg)
	assert.Equal(t, 50.0, bc.Kp)
	assert.Equal(t, 2.0, bc.Kd)
	assert.Equal(t, 1000.0, bc.BalanceLimit)
	assert.Equal(t, 1000.0, bc.MotorLimit)
	assert.Equal(t, 500.0, bc.ThrottleScale)
	assert.Equal(t, 200.0, bc.TurnScale)
	assert.Equal(t, 200, bc.CalibSamples)
	assert.Equal(t, 1.5, bc.RampDuration)
	assert.InDelta(t, -30*math.Pi/180, bc.RampFrom, 1e-12)
	assert.InDelta(t, 4*math.Pi/180, bc.Script.HoldPitch, 1e-12)
	assert.InDelta(t, 2*math.Pi/180, bc.Script.Oscillation.Amplitude, 1e-12)
	assert.Equal(t, 8.0, bc.Script.Oscillation.Period)
	assert.Equal(t, 0.3, bc.Script.Throttle)
	assert.Equal(t, 0.35, bc.Script.SpinTurn)
}

func TestLiveCommands(t *testing.T) {
	r := command.NewResolver()
	c := newLiveCommands(r)

	verb, err := c.Handle("START")
	require.NoError(t, err)
	assert.Equal(t, command.VerbStart, verb)
	assert.False(t, r.Live(), "START must not latch a live intent")

	_, err = c.Handle("0.5,-0.25,1,3")
	require.NoError(t, err)
	assert.Equal(t, command.Intent{Throttle: 0.5, Turn: -0.25, Enabled: true, Mode: 3}, r.Resolve(0))

	verb, err = c.Handle("MODE:9")
	require.NoError(t, err)
	assert.Equal(t, command.VerbMode, verb)
	assert.Equal(t, uint8(9), r.Resolve(1).Mode)
	assert.True(t, r.Resolve(1).Enabled, "verbs apply on top of the last intent")

	_, err = c.Handle("DISARM")
	require.NoError(t, err)
	assert.Equal(t, command.Intent{Mode: 9}, c.Current())

	_, err = c.Handle("M:NaN,0")
	assert.Error(t, err)
	_, err = c.Handle("M:0,Inf")
	assert.Error(t, err)
	assert.Equal(t, command.Intent{Mode: 9}, r.Resolve(2), "non-finite drive rejected")

	_, err = c.Handle("WHEELIE")
	assert.ErrorIs(t, err, command.ErrUnknownVerb)
	assert.Equal(t, command.Intent{Mode: 9}, r.Resolve(2))

	verb, err = c.Handle("   ")
	require.NoError(t, err)
	assert.Zero(t, verb)
}

func TestRunReplayWritesHeader(t *testing.T) {
	in := strings.NewReader("t,gx,gy,gz,ax,ay,az\n0.002,0,0,0,0,0,9.81\n")
	var out bytes.Buffer
	err := RunReplay(in, &out, ReplayOptions{Columns: replay.Columns{Trace: true}})
	require.NoError(t, err)
	assert.Equal(t, replay.Columns{Trace: true}.Header()+"\n", out.String())
}

func TestRunReplayBadConfig(t *testing.T) {
	err := RunReplay(strings.NewReader(""), &bytes.Buffer{}, ReplayOptions{ConfigPath: "/nonexistent/robot.txt"})
	assert.Error(t, err)
}

func TestRunConsolePrintsFrames(t *testing.T) {
	var out bytes.Buffer
	err := RunConsole(&out, config.DefaultScenario(), 9, 700*time.Millisecond)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, "calibrating...", lines[0])
	last := lines[len(lines)-1]
	assert.True(t, strings.HasPrefix(last, "T:"), last)
	assert.Contains(t, last, "MODE:9 EN:1 ST:1")
}
