// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/relabs-tech/balancing_robot/internal/balance"
	"github.com/relabs-tech/balancing_robot/internal/command"
	"github.com/relabs-tech/balancing_robot/internal/config"
	"github.com/relabs-tech/balancing_robot/internal/imu"
	looprt "github.com/relabs-tech/balancing_robot/internal/runtime"
	"github.com/relabs-tech/balancing_robot/internal/telemetry"
)

// BridgeOptions configures the end-to-end bridge.
type BridgeOptions struct {
	Addr         string  // TCP listen address, e.g. ":9001"
	TelemetryHz  float64 // per-client send rate, <= 0 means 20
	ArmRestPitch float64 // deg reported while disarmed
	Scenario     config.Scenario
	Loop         balance.Config
}

// Bridge runs the emulated IMU and the balance loop in-process and serves
// the mobile app's line protocol over TCP.
type Bridge struct {
	opts     BridgeOptions
	emu      *imu.Emulator
	loop     *balance.Loop
	resolver *command.Resolver
	cmds     *liveCommands
	ticks    atomic.Int64
	state    atomic.Int32

	mu     sync.Mutex
	latest telemetry.Frame
	have   bool
}

func NewBridge(opts BridgeOptions) (*Bridge, error) {
	if opts.TelemetryHz <= 0 {
		opts.TelemetryHz = 20
	}
	emu, err := newEmulator(opts.Scenario)
	if err != nil {
		return nil, fmt.Errorf("bridge: %w", err)
	}
	resolver := command.NewResolver()
	return &Bridge{
		opts:     opts,
		emu:      emu,
		loop:     balance.New(opts.Loop),
		resolver: resolver,
		cmds:     newLiveCommands(resolver),
	}, nil
}

// Step advances the emulator and the loop by dt seconds. Only the
// simulation goroutine may call it.
func (b *Bridge) Step(dt float64) error {
	b.emu.SetDelta(dt)
	s, err := b.emu.Next()
	if err != nil {
		return err
	}
	out := b.loop.Tick(s, dt, b.resolver.Resolve(s.T))
	b.ticks.Add(1)
	b.state.Store(int32(out.State))
	if out.State != balance.StateRunning {
		return nil
	}

	b.mu.Lock()
	b.latest = telemetry.FromOutput(s.T, out)
	b.have = true
	b.mu.Unlock()
	return nil
}

// Frame returns the latest running-state frame.
func (b *Bridge) Frame() (telemetry.Frame, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.latest, b.have
}

// Serve accepts clients on ln until ctx ends or ln fails.
func (b *Bridge) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("bridge: accept: %w", err)
		}
		log.Printf("bridge: client connected: %s (streaming off until START)", conn.RemoteAddr())
		go b.handle(ctx, conn)
	}
}

// bridgeConn is the per-client protocol state.
type bridgeConn struct {
	mu        sync.Mutex
	streaming bool
	disarmed  bool
}

func (c *bridgeConn) snapshot() (streaming, disarmed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.streaming, c.disarmed
}

func (b *Bridge) handle(ctx context.Context, conn net.Conn) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer conn.Close()

	st := &bridgeConn{}
	go b.sendTelemetry(ctx, conn, st)

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		line := sc.Text()
		verb, err := b.cmds.Handle(line)
		if err != nil {
			log.Printf("bridge: %s: %v", conn.RemoteAddr(), err)
			continue
		}

		st.mu.Lock()
		switch verb {
		case command.VerbStart:
			st.streaming = true
			st.disarmed = false
		case command.VerbStop:
			st.streaming = false
		case command.VerbDisarm:
			st.disarmed = true
		case command.VerbArm, command.VerbDrive:
			st.disarmed = false
		}
		st.mu.Unlock()
		log.Printf("bridge: command from %s: %q", conn.RemoteAddr(), line)
	}
	log.Printf("bridge: client disconnected: %s", conn.RemoteAddr())
}

func (b *Bridge) sendTelemetry(ctx context.Context, conn net.Conn, st *bridgeConn) {
	ticker := time.NewTicker(time.Duration(float64(time.Second) / b.opts.TelemetryHz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		streaming, disarmed := st.snapshot()
		if !streaming {
			continue
		}
		var msg string
		if disarmed {
			msg = telemetry.RestText(b.opts.ArmRestPitch)
		} else {
			f, ok := b.Frame()
			if !ok {
				continue
			}
			msg = f.Text()
		}
		if _, err := conn.Write([]byte(msg + "\n")); err != nil {
			conn.Close()
			return
		}
	}
}

// RunBridge runs the emulated robot in real time and serves clients on
// opts.Addr until interrupted or until the scenario duration ends.
func RunBridge(opts BridgeOptions) error {
	b, err := NewBridge(opts)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return fmt.Errorf("bridge: listen %s: %w", opts.Addr, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := &looprt.Runner{
		RateHz:   opts.Scenario.RateHz,
		Duration: time.Duration(opts.Scenario.DurationS * float64(time.Second)),
	}
	sched, err := startHealthJob("bridge", 5*time.Second, runner, func() string {
		return fmt.Sprintf("ticks=%d state=%s", b.ticks.Load(), balance.State(b.state.Load()))
	})
	if err != nil {
		return fmt.Errorf("bridge: %w", err)
	}
	defer sched.Stop()

	go func() {
		if err := b.Serve(ctx, ln); err != nil {
			log.Printf("bridge: %v", err)
			stop()
		}
	}()
	log.Printf("bridge: listening on %s (telemetry %.0f Hz, %s motion at %.0f Hz)",
		opts.Addr, b.opts.TelemetryHz, opts.Scenario.Motion.Type, opts.Scenario.RateHz)

	_, err = runner.Run(ctx, b.Step)
	log.Println("bridge: shutting down")
	return err
}
