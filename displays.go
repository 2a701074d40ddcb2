package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/jochenvg/go-udev"
)

// DisplayOutput is one connected monitor. Name is what the mapping
// command accepts (DP-1, HDMI-1, ...).
type DisplayOutput struct {
	Name         string
	Manufacturer string
	Model        string
	Index        int
}

func (o DisplayOutput) String() string {
	desc := strings.TrimSpace(o.Manufacturer + " " + o.Model)
	if desc == "" {
		return o.Name
	}
	return fmt.Sprintf("%s (%s)", o.Name, desc)
}

type displayLister interface {
	ListOutputs(ctx context.Context) ([]DisplayOutput, error)
}

func newDisplayLister(conf *Config, run runner) displayLister {
	if conf.DisplaySource == "drm" {
		return &drmDisplays{devices: drmConnectors}
	}
	return &xrandrDisplays{argv: conf.Commands.Displays, run: run}
}

// ---------------------------------------------------------------------
// xrandr

var (
	connectedRe = regexp.MustCompile(`^(\S+) connected`)
	hexLineRe   = regexp.MustCompile(`^[0-9a-fA-F]+$`)
)

// xrandrDisplays reads `xrandr --verbose`, which includes the EDID of
// every connected output.
type xrandrDisplays struct {
	argv []string
	run  runner
}

func (x *xrandrDisplays) ListOutputs(ctx context.Context) ([]DisplayOutput, error) {
	out, err := x.run.Run(ctx, x.argv)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDisplayUnavailable, err)
	}
	return parseXrandr(out), nil
}

func parseXrandr(out []byte) []DisplayOutput {
	var outputs []DisplayOutput
	var current *DisplayOutput
	var edid []byte
	inEDID := false

	flush := func() {
		if current == nil {
			return
		}
		if info, ok := parseEDID(edid); ok {
			current.Manufacturer = info.Manufacturer
			current.Model = info.Model
		}
		current.Index = len(outputs)
		outputs = append(outputs, *current)
		current, edid, inEDID = nil, nil, false
	}

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if line[0] != ' ' && line[0] != '\t' {
			flush()
			if m := connectedRe.FindStringSubmatch(line); m != nil {
				current = &DisplayOutput{Name: m[1]}
			}
			continue
		}
		if current == nil {
			continue
		}
		field := strings.TrimSpace(line)
		if inEDID {
			if hexLineRe.MatchString(field) {
				if b, err := hex.DecodeString(field); err == nil {
					edid = append(edid, b...)
					continue
				}
			}
			inEDID = false
		}
		if field == "EDID:" {
			inEDID = true
		}
	}
	flush()
	return outputs
}

// ---------------------------------------------------------------------
// drm

// sysDevice is the part of *udev.Device needed to inspect a connector.
type sysDevice interface {
	Sysname() string
	Syspath() string
	SysattrValue(string) string
}

// drmDisplays walks the drm connectors in sysfs. Connector names drop the
// cardN- prefix, which matches the modesetting driver's output names.
type drmDisplays struct {
	devices func() ([]sysDevice, error)
}

func drmConnectors() ([]sysDevice, error) {
	u := udev.Udev{}
	e := u.NewEnumerate()
	if err := e.AddMatchSubsystem("drm"); err != nil {
		return nil, err
	}
	if err := e.AddMatchIsInitialized(); err != nil {
		return nil, err
	}
	udevDevices, err := e.Devices()
	if err != nil {
		return nil, err
	}
	devices := make([]sysDevice, 0, len(udevDevices))
	for _, d := range udevDevices {
		devices = append(devices, d)
	}
	return devices, nil
}

func (d *drmDisplays) ListOutputs(ctx context.Context) ([]DisplayOutput, error) {
	devices, err := d.devices()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDisplayUnavailable, err)
	}
	sort.Slice(devices, func(i, j int) bool {
		return devices[i].Sysname() < devices[j].Sysname()
	})

	var outputs []DisplayOutput
	for _, dev := range devices {
		if strings.TrimSpace(dev.SysattrValue("status")) != "connected" {
			continue
		}
		name := dev.Sysname()
		if i := strings.IndexByte(name, '-'); i >= 0 && strings.HasPrefix(name, "card") {
			name = name[i+1:]
		}
		o := DisplayOutput{Name: name, Index: len(outputs)}
		// the edid attribute is binary, libudev would cut it at the
		// first NUL, so read the file directly
		if raw, err := os.ReadFile(filepath.Join(dev.Syspath(), "edid")); err == nil {
			if info, ok := parseEDID(raw); ok {
				o.Manufacturer = info.Manufacturer
				o.Model = info.Model
			}
		}
		outputs = append(outputs, o)
	}
	return outputs, nil
}
