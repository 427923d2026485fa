// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/balancing_robot/internal/balance"
	"github.com/relabs-tech/balancing_robot/internal/command"
	"github.com/relabs-tech/balancing_robot/internal/config"
	"github.com/relabs-tech/balancing_robot/internal/imu"
	"github.com/relabs-tech/balancing_robot/internal/motion"
	"github.com/relabs-tech/balancing_robot/internal/orientation"
	"github.com/relabs-tech/balancing_robot/internal/script"
)

// balanceConfig maps the robot config file onto loop tuning. Angles in
// the file are degrees.
func balanceConfig(cfg *config.Config) balance.Config {
	p := script.DefaultParams()
	p.Throttle = cfg.ScriptThrottle
	p.SpinTurn = cfg.ScriptSpinTurn
	p.HoldPitch = orientation.DegToRad(cfg.ScriptHoldDeg)
	p.Oscillation = script.Wave{
		Amplitude: orientation.DegToRad(cfg.ScriptOscAmplitudeDeg),
		Period:    cfg.ScriptOscPeriodS,
	}

	return balance.Config{
		Kp:            cfg.PIDKp,
		Ki:            cfg.PIDKi,
		Kd:            cfg.PIDKd,
		BalanceLimit:  cfg.PIDLimit,
		MotorLimit:    cfg.MotorLimit,
		ThrottleScale: cfg.ThrottleScale,
		TurnScale:     cfg.TurnScale,
		CalibSamples:  cfg.CalibSamples,
		RampDuration:  cfg.RampDurationS,
		RampFrom:      orientation.DegToRad(cfg.RampFromDeg),
		Script:        p,
	}
}

// connectMQTT dials the broker and waits for the session.
func connectMQTT(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", broker, token.Error())
	}
	return client, nil
}

// newEmulator builds an emulated IMU from a scenario. Gyro output is
// always rad/s because the loop consumes SI units.
func newEmulator(sc config.Scenario) (*imu.Emulator, error) {
	sc.Units = "si"
	model, err := motion.New(sc.Motion)
	if err != nil {
		return nil, err
	}
	return imu.NewEmulator(sc, model, rand.New(rand.NewSource(sc.Seed))), nil
}

// liveCommands turns text lines from any operator link into live intents.
// A line is either an RC line (plain or $BRCMD) or a front-end verb
// applied on top of the last intent.
type liveCommands struct {
	mu       sync.Mutex
	cur      command.Intent
	resolver *command.Resolver
}

func newLiveCommands(r *command.Resolver) *liveCommands {
	return &liveCommands{resolver: r}
}

// Handle applies one line. Verbs that do not touch the intent (START,
// STOP, LED) are returned without publishing a new live intent.
func (c *liveCommands) Handle(line string) (command.Verb, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if in, ok := command.ParseLine(line); ok {
		c.cur = in
		c.resolver.SetLive(in)
		return 0, nil
	}

	in, verb, err := command.ApplyVerb(line, c.cur)
	if err != nil {
		return verb, err
	}
	switch verb {
	case command.VerbStart, command.VerbStop, command.VerbLED:
		return verb, nil
	}
	c.cur = in
	c.resolver.SetLive(in)
	return verb, nil
}

// Current returns the last intent set through this link.
func (c *liveCommands) Current() command.Intent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur
}
