// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/csv"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/relabs-tech/balancing_robot/internal/orientation"
)

var palette = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
}

// series is one named column plotted against t.
type series struct {
	name  string
	scale float64
}

// readColumns loads a CSV with a header row into columns keyed by name.
// Rows that fail to parse are skipped.
func readColumns(r io.Reader) (map[string][]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("plot: header: %w", err)
	}

	cols := make(map[string][]float64, len(header))
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("plot: %w", err)
		}
		if len(rec) != len(header) {
			continue
		}
		vals := make([]float64, len(rec))
		ok := true
		for i, s := range rec {
			if vals[i], err = strconv.ParseFloat(s, 64); err != nil {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		for i, name := range header {
			cols[name] = append(cols[name], vals[i])
		}
	}
	return cols, nil
}

func linePlot(title, ylabel string, cols map[string][]float64, ss ...series) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())

	t := cols["t"]
	for i, s := range ss {
		ys, ok := cols[s.name]
		if !ok {
			continue
		}
		pts := make(plotter.XYs, len(t))
		for j := range t {
			pts[j].X = t[j]
			pts[j].Y = ys[j] * s.scale
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("plot: %s: %w", s.name, err)
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = palette[i%len(palette)]
		p.Add(line)
		p.Legend.Add(s.name, line)
	}
	return p, nil
}

// RunPlot renders a replay output or an IMU stream read from in as PNG
// files under outDir. The kind of input is taken from its header.
func RunPlot(in io.Reader, outDir string) error {
	cols, err := readColumns(in)
	if err != nil {
		return err
	}
	if len(cols["t"]) == 0 {
		return errors.New("plot: no data rows")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("plot: %w", err)
	}

	type figure struct {
		file, title, ylabel string
		series              []series
	}
	var figs []figure
	deg := orientation.RadToDeg(1)

	switch {
	case cols["pitch"] != nil:
		figs = []figure{
			{"attitude.png", "Attitude", "angle (deg)", []series{{"roll", deg}, {"pitch", deg}, {"target_pitch_deg", 1}}},
			{"motors.png", "Wheel commands", "command", []series{{"left", 1}, {"right", 1}, {"balance", 1}}},
		}
		if cols["left_pos"] != nil {
			figs = append(figs, figure{"steppers.png", "Stepper positions", "steps", []series{{"left_pos", 1}, {"right_pos", 1}}})
		}
	case cols["gx"] != nil:
		figs = []figure{
			{"gyro.png", "Gyroscope", "rate", []series{{"gx", 1}, {"gy", 1}, {"gz", 1}}},
			{"accel.png", "Accelerometer", "m/s²", []series{{"ax", 1}, {"ay", 1}, {"az", 1}}},
		}
	default:
		return errors.New("plot: unrecognised CSV header")
	}

	for _, fig := range figs {
		p, err := linePlot(fig.title, fig.ylabel, cols, fig.series...)
		if err != nil {
			return err
		}
		path := filepath.Join(outDir, fig.file)
		if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
			return fmt.Errorf("plot: save %s: %w", path, err)
		}
		log.Printf("plot: wrote %s", path)
	}
	return nil
}
