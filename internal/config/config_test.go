package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, "robot.txt", `
# sim tuning
PID_KP=2.5
PID_KD = 0.05
MOTOR_LIMIT=10
TOPIC_TELEMETRY=bot/telemetry
DISPLAY_I2C_ADDR=0x3D
IMU_GYRO_RANGE=3
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2.5, cfg.PIDKp)
	assert.Equal(t, 0.05, cfg.PIDKd)
	assert.Equal(t, 10.0, cfg.MotorLimit)
	assert.Equal(t, "bot/telemetry", cfg.TopicTelemetry)
	assert.Equal(t, uint16(0x3D), cfg.DisplayI2CAddr)
	assert.Equal(t, byte(3), cfg.IMUGyroRange)
	assert.Equal(t, 500, cfg.LoopHz, "untouched keys keep defaults")
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "NOPE=1"},
		{"missing equals", "PID_KP 2"},
		{"bad float", "PID_KP=fast"},
		{"out of range", "IMU_ACCEL_RANGE=4"},
		{"zero loop rate", "LOOP_HZ=0"},
		{"negative gain", "PID_KI=-1"},
		{"empty broker", "MQTT_BROKER="},
		{"non-finite", "MOTOR_LIMIT=Inf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "bad.txt", tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}

func TestLoadScenario(t *testing.T) {
	path := writeFile(t, "scenario.yaml", `
rate_hz: 250
duration_s: 4
units: DEG
seed: 42
motion:
  type: scripted
  scripted:
    - type: static
      duration_s: 1
    - type: impulse_push
      duration_s: 2
      impulse:
        axis: roll
        rate_deg_s: 45
gyro_bias: [0.01, -0.02, 0]
vibration_burst:
  enabled: true
  amplitude: 0.5
  freq_hz: 80
udp:
  enabled: true
  addr: 127.0.0.1:9000
`)
	sc, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, 250.0, sc.RateHz)
	assert.Equal(t, "deg", sc.Units)
	assert.Equal(t, int64(42), sc.Seed)
	require.Len(t, sc.Motion.Scripted, 2)
	assert.Equal(t, "roll", sc.Motion.Scripted[1].Impulse.Axis)
	assert.Equal(t, [3]float64{0.01, -0.02, 0}, sc.GyroBias)
	assert.True(t, sc.VibrationBurst.Enabled)
	assert.Equal(t, "csv", sc.UDP.Format, "format defaults to csv")
}

func TestScenarioNormalize(t *testing.T) {
	sc := Scenario{}
	require.NoError(t, sc.Normalize())
	assert.Equal(t, 500.0, sc.RateHz)
	assert.Equal(t, "si", sc.Units)

	sc = Scenario{Units: "rad"}
	assert.Error(t, sc.Normalize())

	sc = Scenario{UDP: UDPConfig{Enabled: true, Format: "binary"}}
	assert.Error(t, sc.Normalize(), "udp needs an address")
}

func TestShippedConfigMatchesDefault(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "robot_config.txt"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
