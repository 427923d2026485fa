// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package stream

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/balancing_robot/internal/config"
	"github.com/relabs-tech/balancing_robot/internal/imu"
)

var sample = imu.Sample{T: 0.002, Gyro: [3]float64{0.1, -0.2, 0.3}, Accel: [3]float64{0, 0.5, 9.80665}}

func TestCSVOnly(t *testing.T) {
	var buf bytes.Buffer
	s, err := New(&buf, config.UDPConfig{})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.WriteHeader())
	require.NoError(t, s.WriteSample(sample))
	assert.Equal(t,
		"t,gx,gy,gz,ax,ay,az\n0.002000,0.100000,-0.200000,0.300000,0.000000,0.500000,9.806650\n",
		buf.String())
}

func TestDecodeBinaryRejectsShort(t *testing.T) {
	_, err := DecodeBinary(make([]byte, 10))
	assert.Error(t, err)
}

func listen(t *testing.T) *net.UDPConn {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	return conn
}

func TestUDPBinary(t *testing.T) {
	peer := listen(t)
	var buf bytes.Buffer
	s, err := New(&buf, config.UDPConfig{Enabled: true, Addr: peer.LocalAddr().String(), Format: "binary"})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.WriteSample(sample))

	dgram := make([]byte, 128)
	n, err := peer.Read(dgram)
	require.NoError(t, err)
	got, err := DecodeBinary(dgram[:n])
	require.NoError(t, err)
	assert.Equal(t, sample, got)
}

func TestUDPCSV(t *testing.T) {
	peer := listen(t)
	s, err := New(&bytes.Buffer{}, config.UDPConfig{Enabled: true, Addr: peer.LocalAddr().String(), Format: "csv"})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.WriteSample(sample))

	dgram := make([]byte, 256)
	n, err := peer.Read(dgram)
	require.NoError(t, err)
	assert.Equal(t, FormatCSV(sample)+"\n", string(dgram[:n]))
}
