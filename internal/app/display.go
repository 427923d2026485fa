package app

import (
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/balancing_robot/internal/config"
	"github.com/relabs-tech/balancing_robot/internal/script"
	"github.com/relabs-tech/balancing_robot/internal/telemetry"
)

// DisplayData holds the latest frame for the OLED.
type DisplayData struct {
	mu    sync.RWMutex
	frame telemetry.Frame
	have  bool
}

func (d *DisplayData) set(f telemetry.Frame) {
	d.mu.Lock()
	d.frame = f
	d.have = true
	d.mu.Unlock()
}

func (d *DisplayData) get() (telemetry.Frame, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.frame, d.have
}

func RunDisplay() error {
	cfg := config.Get()

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	// Open I2C bus
	bus, err := i2creg.Open("")
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, cfg.DisplayI2CAddr, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Printf("display: initialized at 0x%02X", cfg.DisplayI2CAddr)

	if err := dev.Draw(dev.Bounds(), splashImage(), image.Point{}); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	data := &DisplayData{}

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDDisplay)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	log.Printf("display: connected to MQTT broker at %s", cfg.MQTTBroker)

	if err := telemetry.Subscribe(client, cfg.TopicTelemetry, data.set); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", cfg.TopicTelemetry, err)
	}
	log.Printf("display: subscribed to %s", cfg.TopicTelemetry)

	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")

	for range ticker.C {
		f, have := data.get()
		if err := dev.Draw(dev.Bounds(), statusImage(f, have), image.Point{}); err != nil {
			log.Printf("display: error updating display: %v", err)
		}
	}

	return nil
}

func newCanvas() (*image1bit.VerticalLSB, *font.Drawer) {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	return img, drawer
}

// statusImage renders pitch, target, wheel commands and the active
// maneuver on the 128x64 panel.
func statusImage(f telemetry.Frame, have bool) *image1bit.VerticalLSB {
	img, drawer := newCanvas()

	if !have {
		drawer.Dot = fixed.P(0, 26)
		drawer.DrawBytes([]byte("Balancing robot"))
		drawer.Dot = fixed.P(0, 39)
		drawer.DrawBytes([]byte("Waiting..."))
		return img
	}

	state := "RUN"
	switch {
	case f.State == 0:
		state = "CAL"
	case !f.Enabled:
		state = "OFF"
	case f.Ramping:
		state = "UP"
	}

	drawer.Dot = fixed.P(0, 13)
	drawer.DrawBytes([]byte(fmt.Sprintf("P:%6.1f T:%5.1f", f.Pitch, f.TargetPitch)))

	drawer.Dot = fixed.P(0, 26)
	drawer.DrawBytes([]byte(fmt.Sprintf("L:%6.0f R:%6.0f", f.Left, f.Right)))

	drawer.Dot = fixed.P(0, 39)
	drawer.DrawBytes([]byte(fmt.Sprintf("%-3s BAL:%7.1f", state, f.Balance)))

	name := "?"
	if p, ok := script.Lookup(f.Mode); ok {
		name = p.Name
	}
	drawer.Dot = fixed.P(0, 52)
	drawer.DrawBytes([]byte(fmt.Sprintf("%2d %s", f.Mode, name)))

	return img
}

func splashImage() *image1bit.VerticalLSB {
	img, drawer := newCanvas()

	drawer.Dot = fixed.P(10, 26)
	drawer.DrawBytes([]byte("Balancing bot"))

	drawer.Dot = fixed.P(5, 43)
	drawer.DrawBytes([]byte("Waiting for"))

	drawer.Dot = fixed.P(25, 56)
	drawer.DrawBytes([]byte("telemetry"))

	return img
}
