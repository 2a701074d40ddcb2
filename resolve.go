package main

import (
	"github.com/rs/zerolog"
)

// resolveTarget picks the output the tablet gets bound to.
//
// An explicit override wins and is not checked against the inventory.
// Otherwise outputs whose manufacturer is vendorTag are preferred, the
// first one in inventory order if there are several. Without a vendor
// match the last output is used.
func resolveTarget(outputs []DisplayOutput, override, vendorTag string, logger zerolog.Logger) (DisplayOutput, error) {
	if override != "" && override != autoOutput {
		return DisplayOutput{Name: override, Index: -1}, nil
	}
	if len(outputs) == 0 {
		return DisplayOutput{}, ErrNoOutputsAvailable
	}

	var matches []DisplayOutput
	for _, o := range outputs {
		if o.Manufacturer == vendorTag {
			matches = append(matches, o)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		// Last output as a fallback is a heuristic only: secondary
		// displays tend to be listed last.
		target := outputs[len(outputs)-1]
		logger.Warn().
			Str("vendor", vendorTag).
			Str("output", target.Name).
			Msg("no output from tablet vendor, falling back to last output")
		return target, nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		logger.Warn().
			Strs("candidates", names).
			Str("output", matches[0].Name).
			Msg("several outputs from tablet vendor, using the first")
		return matches[0], nil
	}
}
