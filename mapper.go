package main

import (
	"context"

	"github.com/rs/zerolog"
)

// Mapping binds one input device to one output.
type Mapping struct {
	Device InputDevice
	Output DisplayOutput
}

// MappingResult holds the mappings of one cycle. Devices whose mapping
// command failed are left out and their errors kept in Failed.
type MappingResult struct {
	Mapped []Mapping
	Failed []*MappingError
}

type mapper struct {
	argv   []string
	run    runner
	logger zerolog.Logger
}

// mapDevices runs the mapping command for every device. A failure only
// drops that device.
func (m *mapper) mapDevices(ctx context.Context, devices []InputDevice, target DisplayOutput) MappingResult {
	var result MappingResult
	for _, dev := range devices {
		argv := expandArgs(m.argv, map[string]string{
			"device": dev.ID,
			"output": target.Name,
		})
		out, err := m.run.Run(ctx, argv)
		if err != nil {
			merr := &MappingError{Device: dev.ID, Output: target.Name, Err: err}
			m.logger.Error().Err(err).
				Str("device", dev.ID).
				Str("label", dev.Label).
				Str("output", target.Name).
				Msg("mapping failed")
			result.Failed = append(result.Failed, merr)
			continue
		}
		m.logger.Debug().
			Str("device", dev.ID).
			Str("label", dev.Label).
			Str("output", target.Name).
			Bytes("stdout", out).
			Msg("mapped")
		result.Mapped = append(result.Mapped, Mapping{Device: dev, Output: target})
	}
	return result
}
