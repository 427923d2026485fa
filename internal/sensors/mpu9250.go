// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package sensors reads the robot's MPU9250 over SPI.
package sensors

import (
	"fmt"
	"log"
	"math"
	"time"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/devices/v3/mpu9250"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/balancing_robot/internal/imu"
)

const gravity = 9.80665

// Gyro sensitivity in LSB per °/s for each GYRO_FS_SEL setting.
var gyroLSBPerDPS = [4]float64{131, 65.5, 32.8, 16.4}

// AccelScale returns m/s² per LSB for ACCEL_FS_SEL rng (0=±2g .. 3=±16g).
func AccelScale(rng byte) float64 {
	return gravity / float64(int(16384)>>(rng&3))
}

// GyroScale returns rad/s per LSB for GYRO_FS_SEL rng (0=±250°/s .. 3=±2000°/s).
func GyroScale(rng byte) float64 {
	return math.Pi / 180 / gyroLSBPerDPS[rng&3]
}

// MPU9250 is an imu.Source backed by the chip. Sample times are seconds
// since Open.
type MPU9250 struct {
	dev        *mpu9250.MPU9250
	accelScale float64
	gyroScale  float64
	start      time.Time
}

// OpenMPU9250 brings up the IMU on spiDev with chip select csPin, applies
// the ranges and runs the chip's self-test and bias calibration. The robot
// must be still while this runs.
func OpenMPU9250(spiDev, csPin string, accelRange, gyroRange byte) (*MPU9250, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("IMU: periph host init: %w", err)
	}

	cs := gpioreg.ByName(csPin)
	if cs == nil {
		return nil, fmt.Errorf("IMU: CS pin %q not found", csPin)
	}

	tr, err := mpu9250.NewSpiTransport(spiDev, cs)
	if err != nil {
		return nil, fmt.Errorf("IMU: SPI transport (%s): %w", spiDev, err)
	}

	dev, err := mpu9250.New(*tr)
	if err != nil {
		return nil, fmt.Errorf("IMU: device creation: %w", err)
	}
	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("IMU: initialization: %w", err)
	}

	if err := dev.SetAccelRange(accelRange); err != nil {
		return nil, fmt.Errorf("IMU: set accel range: %w", err)
	}
	log.Printf("IMU: accelerometer range set to %d (±%dg)", accelRange, []int{2, 4, 8, 16}[accelRange&3])

	if err := dev.SetGyroRange(gyroRange); err != nil {
		return nil, fmt.Errorf("IMU: set gyro range: %w", err)
	}
	log.Printf("IMU: gyroscope range set to %d (±%d°/s)", gyroRange, []int{250, 500, 1000, 2000}[gyroRange&3])

	if res, err := dev.SelfTest(); err != nil {
		log.Printf("Warning: IMU self-test failed: %v", err)
	} else {
		log.Printf("IMU self-test: accel deviation X: %.2f%% Y: %.2f%% Z: %.2f%%, gyro deviation X: %.2f%% Y: %.2f%% Z: %.2f%%",
			res.AccelDeviation.X, res.AccelDeviation.Y, res.AccelDeviation.Z,
			res.GyroDeviation.X, res.GyroDeviation.Y, res.GyroDeviation.Z)
	}

	if err := dev.Calibrate(); err != nil {
		log.Printf("Warning: IMU calibration failed: %v", err)
	} else {
		log.Println("IMU calibration complete")
	}

	return &MPU9250{
		dev:        dev,
		accelScale: AccelScale(accelRange),
		gyroScale:  GyroScale(gyroRange),
		start:      time.Now(),
	}, nil
}

// Next reads accelerometer and gyroscope and converts them to SI units.
func (m *MPU9250) Next() (imu.Sample, error) {
	readers := [6]func() (int16, error){
		m.dev.GetRotationX, m.dev.GetRotationY, m.dev.GetRotationZ,
		m.dev.GetAccelerationX, m.dev.GetAccelerationY, m.dev.GetAccelerationZ,
	}
	names := [6]string{"gyro X", "gyro Y", "gyro Z", "accel X", "accel Y", "accel Z"}

	var raw [6]int16
	for i, read := range readers {
		v, err := read()
		if err != nil {
			return imu.Sample{}, fmt.Errorf("IMU %s: %w", names[i], err)
		}
		raw[i] = v
	}
	return Convert(time.Since(m.start).Seconds(), raw, m.accelScale, m.gyroScale), nil
}

// Convert scales raw counts (gx, gy, gz, ax, ay, az) into a sample.
func Convert(t float64, raw [6]int16, accelScale, gyroScale float64) imu.Sample {
	var s imu.Sample
	s.T = t
	for i := range 3 {
		s.Gyro[i] = float64(raw[i]) * gyroScale
		s.Accel[i] = float64(raw[i+3]) * accelScale
	}
	return s
}
