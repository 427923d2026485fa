// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScales(t *testing.T) {
	assert.InDelta(t, gravity/16384, AccelScale(0), 1e-15)
	assert.InDelta(t, gravity/2048, AccelScale(3), 1e-15)
	assert.InDelta(t, math.Pi/180/131, GyroScale(0), 1e-15)
	assert.InDelta(t, math.Pi/180/16.4, GyroScale(3), 1e-15)
}

func TestConvert(t *testing.T) {
	s := Convert(1.5, [6]int16{131, -262, 0, 0, 0, 16384}, AccelScale(0), GyroScale(0))
	assert.Equal(t, 1.5, s.T)
	assert.InDelta(t, math.Pi/180, s.Gyro[0], 1e-12)
	assert.InDelta(t, -2*math.Pi/180, s.Gyro[1], 1e-12)
	assert.InDelta(t, gravity, s.Accel[2], 1e-12)
}
