// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/go-co-op/gocron"
	"github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/balancing_robot/internal/balance"
	"github.com/relabs-tech/balancing_robot/internal/command"
	"github.com/relabs-tech/balancing_robot/internal/config"
	"github.com/relabs-tech/balancing_robot/internal/imu"
	looprt "github.com/relabs-tech/balancing_robot/internal/runtime"
	"github.com/relabs-tech/balancing_robot/internal/sensors"
	"github.com/relabs-tech/balancing_robot/internal/stepper"
	"github.com/relabs-tech/balancing_robot/internal/telemetry"
)

// RunController drives the robot: MPU9250 samples feed the balance loop
// at LOOP_HZ and the wheel commands go to the stepper drivers. Operator
// intents arrive over the RC serial link and the MQTT command topic.
func RunController() error {
	log.Println("controller: starting balancing robot controller")

	cfg := config.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- IMU ---
	var src imu.Source
	src, err := sensors.OpenMPU9250(cfg.IMUSPIDevice, cfg.IMUCSPin, cfg.IMUAccelRange, cfg.IMUGyroRange)
	if err != nil {
		return fmt.Errorf("controller: %w", err)
	}

	// --- steppers, disabled until the operator arms ---
	drv, err := stepper.OpenDriver(cfg.StepperLeftStepPin, cfg.StepperLeftDirPin,
		cfg.StepperRightStepPin, cfg.StepperRightDirPin, cfg.StepperEnablePin, cfg.StepperTickHz)
	if err != nil {
		return fmt.Errorf("controller: %w", err)
	}
	go func() {
		if err := drv.Run(ctx); err != nil {
			log.Printf("controller: stepper driver stopped: %v", err)
		}
	}()

	resolver := command.NewResolver()
	cmds := newLiveCommands(resolver)

	// --- RC radio link ---
	if cfg.RCSerialPort != "" {
		port, err := serial.Open(serial.OpenOptions{
			PortName:        cfg.RCSerialPort,
			BaudRate:        uint(cfg.RCBaudRate),
			DataBits:        8,
			StopBits:        1,
			MinimumReadSize: 1,
		})
		if err != nil {
			log.Printf("controller: RC link %s unavailable: %v", cfg.RCSerialPort, err)
		} else {
			log.Printf("controller: RC link on %s @ %d baud", cfg.RCSerialPort, cfg.RCBaudRate)
			go func() {
				<-ctx.Done()
				port.Close()
			}()
			go readCommands("rc", port, cmds)
		}
	}

	// --- MQTT ---
	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDController)
	if err != nil {
		return fmt.Errorf("controller: %w", err)
	}
	defer client.Disconnect(250)
	log.Printf("controller: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicCommand, 0, func(_ mqtt.Client, msg mqtt.Message) {
		if _, err := cmds.Handle(string(msg.Payload())); err != nil {
			log.Printf("controller: command %q: %v", msg.Payload(), err)
		}
	})
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("controller: subscribe %s: %w", cfg.TopicCommand, token.Error())
	}
	log.Printf("controller: subscribed to %s", cfg.TopicCommand)

	loop := balance.New(balanceConfig(cfg))
	pub := telemetry.NewPublisher(client, cfg.TopicTelemetry, cfg.TelemetryEvery)
	runner := &looprt.Runner{RateHz: float64(cfg.LoopHz)}

	var ticks, readErrors atomic.Int64
	var state atomic.Int32
	sched, err := startHealthJob("controller", time.Duration(cfg.StatsLogInterval)*time.Second, runner, func() string {
		return fmt.Sprintf("ticks=%d read_errors=%d state=%s", ticks.Load(), readErrors.Load(), balance.State(state.Load()))
	})
	if err != nil {
		return fmt.Errorf("controller: %w", err)
	}
	defer sched.Stop()

	motorsOn := false
	log.Printf("controller: control loop at %d Hz, calibrating over %d samples", cfg.LoopHz, cfg.CalibSamples)

	_, err = runner.Run(ctx, func(dt float64) error {
		s, err := src.Next()
		if err != nil {
			readErrors.Add(1)
			return nil
		}
		ticks.Add(1)

		out := loop.Tick(s, dt, resolver.Resolve(s.T))
		state.Store(int32(out.State))

		if on := out.State == balance.StateRunning && out.Enabled; on != motorsOn {
			if err := drv.Enable(on); err != nil {
				log.Printf("controller: motor enable: %v", err)
			} else {
				motorsOn = on
				log.Printf("controller: motors enabled=%v", on)
			}
		}
		if motorsOn {
			drv.SetSpeed(out.Motor.Left, out.Motor.Right)
		}

		if err := pub.Offer(telemetry.FromOutput(s.T, out)); err != nil {
			log.Printf("controller: %v", err)
		}
		return nil
	})

	if err := drv.Enable(false); err != nil {
		log.Printf("controller: motor disable: %v", err)
	}
	log.Println("controller: shutting down")
	return err
}

// readCommands feeds newline-terminated lines from r into cmds until r
// fails or closes.
func readCommands(name string, r io.Reader, cmds *liveCommands) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if _, err := cmds.Handle(sc.Text()); err != nil {
			log.Printf("%s: %v", name, err)
		}
	}
	if err := sc.Err(); err != nil && !errors.Is(err, os.ErrClosed) {
		log.Printf("%s: link closed: %v", name, err)
	}
}

// startHealthJob logs loop timing every interval. extra adds
// component-specific counters to the line.
func startHealthJob(name string, interval time.Duration, runner *looprt.Runner, extra func() string) (*gocron.Scheduler, error) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	s := gocron.NewScheduler(time.UTC)
	_, err := s.Every(interval).Do(func() {
		st := runner.Stats()
		log.Printf("%s: dt mean=%.6fs std=%.6fs min=%.6fs max=%.6fs n=%d %s",
			name, st.Mean, st.StdDev(), st.Min, st.Max, st.Count, extra())
	})
	if err != nil {
		return nil, fmt.Errorf("health job: %w", err)
	}
	s.StartAsync()
	return s, nil
}
