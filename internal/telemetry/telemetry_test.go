// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package telemetry

import (
	"errors"
	"math"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/balancing_robot/internal/balance"
	"github.com/relabs-tech/balancing_robot/internal/control"
)

type doneToken struct{ err error }

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Error() error                   { return t.err }
func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type fakeClient struct {
	topics   []string
	payloads [][]byte
	err      error
}

func (c *fakeClient) Publish(topic string, _ byte, _ bool, payload interface{}) mqtt.Token {
	c.topics = append(c.topics, topic)
	c.payloads = append(c.payloads, payload.([]byte))
	return doneToken{err: c.err}
}

func TestFromOutputAndText(t *testing.T) {
	out := balance.Output{
		State:       balance.StateRunning,
		Roll:        0.1 * math.Pi / 180,
		Pitch:       -2.5 * math.Pi / 180,
		TargetPitch: 5 * math.Pi / 180,
		Balance:     11.5,
		Mode:        9,
		Enabled:     true,
		Motor:       control.MotorCommand{Left: 12, Right: 11},
	}
	f := FromOutput(1.234, out)
	assert.Equal(t, "T:1.234 R:0.10 P:-2.50 Y:0 LM:12.0 RM:11.0 BAL:11.50 TP:5.00 MODE:9 EN:1 ST:1", f.Text())
}

func TestParseText(t *testing.T) {
	f, ok := ParseText("T:1.234 R:0.10 P:-2.50 Y:0 LM:12.0 RM:11.0 BAL:11.50 TP:5.00 MODE:9 EN:1 ST:1")
	require.True(t, ok)
	assert.Equal(t, Frame{
		T: 1.234, Roll: 0.1, Pitch: -2.5, Left: 12, Right: 11, Balance: 11.5,
		TargetPitch: 5, Mode: 9, Enabled: true, State: 1,
	}, f)

	f, ok = ParseText(RestText(-25))
	require.True(t, ok)
	assert.Equal(t, -25.0, f.Pitch)

	_, ok = ParseText("P:1.0 LM:3")
	assert.False(t, ok, "roll missing")
	_, ok = ParseText("R:x P:1")
	assert.False(t, ok)
	_, ok = ParseText("")
	assert.False(t, ok)
}

func TestPublisherDecimates(t *testing.T) {
	c := &fakeClient{}
	p := NewPublisher(c, "robot/telemetry", 3)
	for i := 0; i < 7; i++ {
		require.NoError(t, p.Offer(Frame{T: float64(i)}))
	}
	require.Len(t, c.payloads, 3)
	assert.Equal(t, []string{"robot/telemetry", "robot/telemetry", "robot/telemetry"}, c.topics)

	f, err := Decode(c.payloads[2])
	require.NoError(t, err)
	assert.Equal(t, 6.0, f.T)
}

func TestPublisherError(t *testing.T) {
	boom := errors.New("broker gone")
	p := NewPublisher(&fakeClient{err: boom}, "t", 0)
	assert.ErrorIs(t, p.Offer(Frame{}), boom)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("{"))
	assert.Error(t, err)
}
