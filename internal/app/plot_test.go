// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const replayCSV = `t,roll,pitch,balance,left,right,left_pos,right_pos
0.402,0.001,0.010,0.5,0.5,0.5,0,0
0.404,0.001,0.012,0.6,0.6,0.6,1,1
garbage,row
0.406,0.000,0.015,0.7,0.7,0.7,1,1
`

func TestReadColumns(t *testing.T) {
	cols, err := readColumns(strings.NewReader(replayCSV))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.402, 0.404, 0.406}, cols["t"])
	assert.Equal(t, []float64{0.010, 0.012, 0.015}, cols["pitch"])
	assert.Len(t, cols["right_pos"], 3)
}

func TestRunPlotReplay(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, RunPlot(strings.NewReader(replayCSV), dir))
	for _, name := range []string{"attitude.png", "motors.png", "steppers.png"} {
		fi, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Positive(t, fi.Size())
	}
}

func TestRunPlotIMU(t *testing.T) {
	dir := t.TempDir()
	in := "t,gx,gy,gz,ax,ay,az\n0.002,0,0.1,0,0,0,9.81\n0.004,0,0.2,0,0,0,9.80\n"
	require.NoError(t, RunPlot(strings.NewReader(in), dir))
	_, err := os.Stat(filepath.Join(dir, "gyro.png"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "accel.png"))
	assert.NoError(t, err)
}

func TestRunPlotRejects(t *testing.T) {
	assert.Error(t, RunPlot(strings.NewReader(""), t.TempDir()))
	assert.Error(t, RunPlot(strings.NewReader("t,x\n1,2\n"), t.TempDir()))
	assert.Error(t, RunPlot(strings.NewReader("t,pitch\n"), t.TempDir()))
}
