// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package command

import (
	"fmt"

	nmea "github.com/adrianmo/go-nmea"
)

// TypeBRCMD is the sentence type of a checksummed drive command:
//
//	$BRCMD,<throttle>,<turn>,<enabled>,<mode>*hh
//
// The NMEA framing lets the radio link drop corrupted lines instead of
// acting on them.
const TypeBRCMD = "CMD"

const talkerBR = "BR"

// Sentence is a parsed BRCMD sentence.
type Sentence struct {
	nmea.BaseSentence
	Intent Intent
}

func init() {
	nmea.MustRegisterParser(TypeBRCMD, parseBRCMD)
}

func parseBRCMD(s nmea.BaseSentence) (nmea.Sentence, error) {
	p := nmea.NewParser(s)
	p.AssertType(TypeBRCMD)
	if len(s.Fields) != 4 {
		return nil, fmt.Errorf("nmea: %s expects 4 fields, got %d", s.Prefix(), len(s.Fields))
	}
	throttle := p.Float64(0, "throttle")
	turn := p.Float64(1, "turn")
	enabled := p.Int64(2, "enabled")
	mode := p.Int64(3, "mode")
	if err := p.Err(); err != nil {
		return nil, err
	}
	if !finite(throttle) || !finite(turn) {
		return nil, fmt.Errorf("nmea: %s throttle/turn not finite", s.Prefix())
	}
	if mode < 0 || mode > 255 {
		return nil, fmt.Errorf("nmea: %s mode %d out of range", s.Prefix(), mode)
	}
	return Sentence{
		BaseSentence: s,
		Intent: Intent{
			Throttle: ClampUnit(throttle),
			Turn:     ClampUnit(turn),
			Enabled:  enabled != 0,
			Mode:     uint8(mode),
		},
	}, nil
}

// ParseSentence decodes a BRCMD sentence. Bad checksums, other sentence
// types and malformed fields all report ok=false.
func ParseSentence(raw string) (Intent, bool) {
	s, err := nmea.Parse(raw)
	if err != nil {
		return Intent{}, false
	}
	cmd, ok := s.(Sentence)
	if !ok {
		return Intent{}, false
	}
	return cmd.Intent, true
}

// FormatSentence renders in as a BRCMD sentence with checksum.
func FormatSentence(in Intent) string {
	enabled := 0
	if in.Enabled {
		enabled = 1
	}
	body := fmt.Sprintf("%s%s,%.3f,%.3f,%d,%d", talkerBR, TypeBRCMD, in.Throttle, in.Turn, enabled, in.Mode)
	return fmt.Sprintf("$%s*%s", body, nmea.Checksum(body))
}
