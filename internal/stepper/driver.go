// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package stepper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// Wheel is the STEP/DIR pin pair of one driver. Mirrored wheels invert DIR
// so that positive speed drives the robot forward on both sides.
type Wheel struct {
	Step   gpio.PinOut
	Dir    gpio.PinOut
	Invert bool
}

// Driver pulses two STEP/DIR stepper drivers that share an active-low
// enable line.
//
// SetSpeed may be called from the control loop while Run pulses from its
// own goroutine.
type Driver struct {
	left, right Wheel
	enable      gpio.PinOut
	tickHz      int

	mu      sync.Mutex
	speed   [2]float64
	enabled bool
	em      Pair
}

// NewDriver returns a disabled driver that emits steps at most tickHz
// times per second per wheel.
func NewDriver(left, right Wheel, enable gpio.PinOut, tickHz int) *Driver {
	if tickHz <= 0 {
		tickHz = 20000
	}
	return &Driver{left: left, right: right, enable: enable, tickHz: tickHz}
}

// OpenDriver looks up the named pins in the periph registry. host.Init
// must have been called.
func OpenDriver(leftStep, leftDir, rightStep, rightDir, enable string, tickHz int) (*Driver, error) {
	names := []string{leftStep, leftDir, rightStep, rightDir, enable}
	pins := make([]gpio.PinIO, len(names))
	for i, n := range names {
		p := gpioreg.ByName(n)
		if p == nil {
			return nil, fmt.Errorf("stepper: pin %q not found", n)
		}
		pins[i] = p
	}
	d := NewDriver(
		Wheel{Step: pins[0], Dir: pins[1]},
		Wheel{Step: pins[2], Dir: pins[3], Invert: true},
		pins[4], tickHz)
	if err := d.Enable(false); err != nil {
		return nil, err
	}
	return d, nil
}

// Enable drives the shared enable line. Disabling also zeroes the speeds.
func (d *Driver) Enable(on bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	level := gpio.High
	if on {
		level = gpio.Low
	}
	if err := d.enable.Out(level); err != nil {
		return fmt.Errorf("stepper: enable: %w", err)
	}
	d.enabled = on
	if !on {
		d.speed = [2]float64{}
	}
	return nil
}

// SetSpeed sets the wheel speeds in steps/s.
func (d *Driver) SetSpeed(left, right float64) {
	d.mu.Lock()
	d.speed = [2]float64{left, right}
	d.mu.Unlock()
}

// Positions returns the signed step counts emitted so far.
func (d *Driver) Positions() (left, right int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.em.Positions()
}

// Step advances both wheels by dt seconds and pulses the pins.
func (d *Driver) Step(dt float64) error {
	d.mu.Lock()
	if !d.enabled {
		d.mu.Unlock()
		return nil
	}
	l := d.em.Left.Advance(d.speed[0], dt)
	r := d.em.Right.Advance(d.speed[1], dt)
	d.mu.Unlock()

	if err := pulse(d.left, l); err != nil {
		return fmt.Errorf("stepper: left: %w", err)
	}
	if err := pulse(d.right, r); err != nil {
		return fmt.Errorf("stepper: right: %w", err)
	}
	return nil
}

// Run pulses at tickHz until ctx is done, then disables the drivers.
func (d *Driver) Run(ctx context.Context) error {
	period := time.Second / time.Duration(d.tickHz)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	dt := period.Seconds()
	for {
		select {
		case <-ctx.Done():
			return d.Enable(false)
		case <-ticker.C:
			if err := d.Step(dt); err != nil {
				return err
			}
		}
	}
}

func pulse(w Wheel, steps int) error {
	if steps == 0 {
		return nil
	}
	forward := steps > 0
	if w.Invert {
		forward = !forward
	}
	if err := w.Dir.Out(gpio.Level(forward)); err != nil {
		return err
	}
	if steps < 0 {
		steps = -steps
	}
	for range steps {
		if err := w.Step.Out(gpio.High); err != nil {
			return err
		}
		if err := w.Step.Out(gpio.Low); err != nil {
			return err
		}
	}
	return nil
}
