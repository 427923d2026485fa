// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package stream writes inertial samples as CSV lines and optionally
// mirrors them to a UDP peer.
package stream

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"net"

	"github.com/relabs-tech/balancing_robot/internal/config"
	"github.com/relabs-tech/balancing_robot/internal/imu"
)

// Header is the CSV header of a sample stream.
const Header = "t,gx,gy,gz,ax,ay,az"

// BinarySize is the length of one binary datagram: seven little-endian
// float64 values in Header order.
const BinarySize = 7 * 8

// Streamer is not safe for concurrent use.
type Streamer struct {
	out    io.Writer
	udp    net.Conn
	binary bool
}

// New returns a streamer writing to out and, when udp.Enabled, to udp.Addr.
func New(out io.Writer, udp config.UDPConfig) (*Streamer, error) {
	s := &Streamer{out: out, binary: udp.Format == "binary"}
	if udp.Enabled {
		conn, err := net.Dial("udp", udp.Addr)
		if err != nil {
			return nil, fmt.Errorf("stream: dial %s: %w", udp.Addr, err)
		}
		s.udp = conn
	}
	return s, nil
}

func (s *Streamer) Close() error {
	if s.udp != nil {
		return s.udp.Close()
	}
	return nil
}

func (s *Streamer) WriteHeader() error {
	_, err := fmt.Fprintln(s.out, Header)
	return err
}

// WriteSample writes one CSV line. UDP send errors are dropped: a missing
// listener must not stop the stream.
func (s *Streamer) WriteSample(smp imu.Sample) error {
	line := FormatCSV(smp)
	if _, err := fmt.Fprintln(s.out, line); err != nil {
		return err
	}
	if s.udp == nil {
		return nil
	}
	if s.binary {
		_, _ = s.udp.Write(EncodeBinary(smp))
	} else {
		_, _ = s.udp.Write([]byte(line + "\n"))
	}
	return nil
}

// FormatCSV renders smp without a trailing newline.
func FormatCSV(smp imu.Sample) string {
	return fmt.Sprintf("%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f",
		smp.T,
		smp.Gyro[0], smp.Gyro[1], smp.Gyro[2],
		smp.Accel[0], smp.Accel[1], smp.Accel[2])
}

func EncodeBinary(smp imu.Sample) []byte {
	vals := [7]float64{
		smp.T,
		smp.Gyro[0], smp.Gyro[1], smp.Gyro[2],
		smp.Accel[0], smp.Accel[1], smp.Accel[2],
	}
	buf := make([]byte, BinarySize)
	for i, v := range vals {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

// DecodeBinary is the inverse of EncodeBinary.
func DecodeBinary(buf []byte) (imu.Sample, error) {
	if len(buf) != BinarySize {
		return imu.Sample{}, fmt.Errorf("stream: datagram of %d bytes, want %d", len(buf), BinarySize)
	}
	var v [7]float64
	for i := range v {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	return imu.Sample{
		T:     v[0],
		Gyro:  [3]float64{v[1], v[2], v[3]},
		Accel: [3]float64{v[4], v[5], v[6]},
	}, nil
}
