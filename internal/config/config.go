package config

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all robot configuration values.
type Config struct {
	// Control loop
	LoopHz       int
	CalibSamples int

	// Balance PID
	PIDKp    float64
	PIDKi    float64
	PIDKd    float64
	PIDLimit float64

	// Mixing
	MotorLimit    float64
	ThrottleScale float64
	TurnScale     float64

	// Stand-up ramp
	RampDurationS float64
	RampFromDeg   float64

	// Script tuning
	ScriptThrottle        float64
	ScriptSpinTurn        float64
	ScriptHoldDeg         float64
	ScriptOscAmplitudeDeg float64
	ScriptOscPeriodS      float64

	// MQTT
	MQTTBroker             string
	MQTTClientIDController string
	MQTTClientIDConsole    string
	MQTTClientIDWeb        string
	MQTTClientIDDisplay    string

	// Topics
	TopicTelemetry string
	TopicCommand   string

	// RC radio link
	RCSerialPort string
	RCBaudRate   int

	// IMU Hardware
	IMUSPIDevice string
	IMUCSPin     string

	// IMU Sensor Ranges
	// Accelerometer: 0=±2g, 1=±4g, 2=±8g, 3=±16g
	IMUAccelRange byte
	// Gyroscope: 0=±250°/s, 1=±500°/s, 2=±1000°/s, 3=±2000°/s
	IMUGyroRange byte

	// Steppers
	StepperLeftStepPin  string
	StepperLeftDirPin   string
	StepperRightStepPin string
	StepperRightDirPin  string
	StepperEnablePin    string // active low
	StepperTickHz       int

	// Telemetry
	TelemetryEvery   int // publish every N control ticks
	StatsLogInterval int // seconds

	// Display
	DisplayI2CAddr        uint16
	DisplayUpdateInterval int // milliseconds

	// Servers
	WebServerPort int
	BridgePort    int
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: only reachable through InitGlobal and Get.
//   - configOnce: ensures InitGlobal() only runs once.
//   - configMu: write lock for initialization, read lock for Get().
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns the configuration of the reference hardware build.
func Default() *Config {
	return &Config{
		LoopHz:       500,
		CalibSamples: 200,

		PIDKp:    50,
		PIDKi:    0,
		PIDKd:    2,
		PIDLimit: 1000,

		MotorLimit:    1000,
		ThrottleScale: 500,
		TurnScale:     200,

		RampDurationS: 1.5,
		RampFromDeg:   -25,

		ScriptThrottle:        0.3,
		ScriptSpinTurn:        0.35,
		ScriptHoldDeg:         5,
		ScriptOscAmplitudeDeg: 3,
		ScriptOscPeriodS:      10,

		MQTTBroker:             "tcp://localhost:1883",
		MQTTClientIDController: "balancing-robot-controller",
		MQTTClientIDConsole:    "balancing-robot-console",
		MQTTClientIDWeb:        "balancing-robot-web",
		MQTTClientIDDisplay:    "balancing-robot-display",

		TopicTelemetry: "robot/telemetry",
		TopicCommand:   "robot/command",

		RCSerialPort: "/dev/ttyAMA0",
		RCBaudRate:   115200,

		IMUSPIDevice:  "/dev/spidev0.0",
		IMUCSPin:      "GPIO8",
		IMUAccelRange: 0,
		IMUGyroRange:  1,

		StepperLeftStepPin:  "GPIO17",
		StepperLeftDirPin:   "GPIO27",
		StepperRightStepPin: "GPIO22",
		StepperRightDirPin:  "GPIO23",
		StepperEnablePin:    "GPIO24",
		StepperTickHz:       20000,

		TelemetryEvery:   50,
		StatsLogInterval: 5,

		DisplayI2CAddr:        0x3C,
		DisplayUpdateInterval: 200,

		WebServerPort: 8080,
		BridgePort:    9001,
	}
}

// Load reads a KEY=VALUE configuration file. Keys absent from the file keep
// their Default() value.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := Default()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	var err error
	switch key {
	// Control loop
	case "LOOP_HZ":
		c.LoopHz, err = parseInt(key, value, 1, 10000)
	case "CALIB_SAMPLES":
		c.CalibSamples, err = parseInt(key, value, 0, 100000)

	// Balance PID
	case "PID_KP":
		c.PIDKp, err = parseFloat(key, value)
	case "PID_KI":
		c.PIDKi, err = parseFloat(key, value)
	case "PID_KD":
		c.PIDKd, err = parseFloat(key, value)
	case "PID_LIMIT":
		c.PIDLimit, err = parseFloat(key, value)

	// Mixing
	case "MOTOR_LIMIT":
		c.MotorLimit, err = parseFloat(key, value)
	case "THROTTLE_SCALE":
		c.ThrottleScale, err = parseFloat(key, value)
	case "TURN_SCALE":
		c.TurnScale, err = parseFloat(key, value)

	// Stand-up ramp
	case "RAMP_DURATION_S":
		c.RampDurationS, err = parseFloat(key, value)
	case "RAMP_FROM_DEG":
		c.RampFromDeg, err = parseFloat(key, value)

	// Script tuning
	case "SCRIPT_THROTTLE":
		c.ScriptThrottle, err = parseFloat(key, value)
	case "SCRIPT_SPIN_TURN":
		c.ScriptSpinTurn, err = parseFloat(key, value)
	case "SCRIPT_HOLD_DEG":
		c.ScriptHoldDeg, err = parseFloat(key, value)
	case "SCRIPT_OSC_AMPLITUDE_DEG":
		c.ScriptOscAmplitudeDeg, err = parseFloat(key, value)
	case "SCRIPT_OSC_PERIOD_S":
		c.ScriptOscPeriodS, err = parseFloat(key, value)

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_CONTROLLER":
		c.MQTTClientIDController = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_TELEMETRY":
		c.TopicTelemetry = value
	case "TOPIC_COMMAND":
		c.TopicCommand = value

	// RC radio link
	case "RC_SERIAL_PORT":
		c.RCSerialPort = value
	case "RC_BAUD_RATE":
		c.RCBaudRate, err = parseInt(key, value, 0, 4000000)

	// IMU Hardware
	case "IMU_SPI_DEVICE":
		c.IMUSPIDevice = value
	case "IMU_CS_PIN":
		c.IMUCSPin = value
	case "IMU_ACCEL_RANGE":
		var v int
		v, err = parseInt(key, value, 0, 3)
		c.IMUAccelRange = byte(v)
	case "IMU_GYRO_RANGE":
		var v int
		v, err = parseInt(key, value, 0, 3)
		c.IMUGyroRange = byte(v)

	// Steppers
	case "STEPPER_LEFT_STEP_PIN":
		c.StepperLeftStepPin = value
	case "STEPPER_LEFT_DIR_PIN":
		c.StepperLeftDirPin = value
	case "STEPPER_RIGHT_STEP_PIN":
		c.StepperRightStepPin = value
	case "STEPPER_RIGHT_DIR_PIN":
		c.StepperRightDirPin = value
	case "STEPPER_ENABLE_PIN":
		c.StepperEnablePin = value
	case "STEPPER_TICK_HZ":
		c.StepperTickHz, err = parseInt(key, value, 1, 1000000)

	// Telemetry
	case "TELEMETRY_EVERY":
		c.TelemetryEvery, err = parseInt(key, value, 1, 1000000)
	case "STATS_LOG_INTERVAL":
		c.StatsLogInterval, err = parseInt(key, value, 1, 86400)

	// Display
	case "DISPLAY_I2C_ADDR":
		addr, perr := strconv.ParseUint(value, 0, 16)
		if perr != nil {
			return fmt.Errorf("invalid DISPLAY_I2C_ADDR %q: %w", value, perr)
		}
		c.DisplayI2CAddr = uint16(addr)
	case "DISPLAY_UPDATE_INTERVAL":
		c.DisplayUpdateInterval, err = parseInt(key, value, 1, 60000)

	// Servers
	case "WEB_SERVER_PORT":
		c.WebServerPort, err = parseInt(key, value, 1, 65535)
	case "BRIDGE_PORT":
		c.BridgePort, err = parseInt(key, value, 1, 65535)

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return err
}

func parseInt(key, value string, lo, hi int) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%s must be %d-%d, got %d", key, lo, hi, v)
	}
	return v, nil
}

func parseFloat(key, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s must be finite, got %q", key, value)
	}
	return v, nil
}

// validate checks cross-field constraints.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicTelemetry == "" {
		return fmt.Errorf("TOPIC_TELEMETRY is required")
	}
	if c.PIDKp < 0 || c.PIDKi < 0 || c.PIDKd < 0 {
		return fmt.Errorf("PID gains must be non-negative")
	}
	if c.PIDLimit < 0 {
		return fmt.Errorf("PID_LIMIT must be non-negative, got %g", c.PIDLimit)
	}
	if c.RampDurationS < 0 {
		return fmt.Errorf("RAMP_DURATION_S must be non-negative, got %g", c.RampDurationS)
	}
	if c.ScriptOscPeriodS <= 0 {
		return fmt.Errorf("SCRIPT_OSC_PERIOD_S must be positive, got %g", c.ScriptOscPeriodS)
	}
	return nil
}

// InitGlobal initializes the global configuration from file. An empty path
// uses Default().
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		if configPath == "" {
			globalConfig = Default()
			return
		}
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
