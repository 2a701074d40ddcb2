package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// InputDevice is a pointer/tablet device known to the input subsystem.
type InputDevice struct {
	ID    string
	Label string
}

type deviceLister interface {
	ListInputDevices(ctx context.Context) ([]InputDevice, error)
}

// "Wacom Intuos S Pen stylus       \tid: 10\ttype: STYLUS    "
var deviceLineRe = regexp.MustCompile(`^(.*?)\s*\tid: (\d+)\t`)

// commandDeviceLister lists devices with an external command
// (xsetwacom --list devices).
type commandDeviceLister struct {
	argv []string
	run  runner
}

func (l *commandDeviceLister) ListInputDevices(ctx context.Context) ([]InputDevice, error) {
	out, err := l.run.Run(ctx, l.argv)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceQuery, err)
	}
	return parseDeviceList(out), nil
}

// parseDeviceList keeps well formed lines and skips the rest. Devices
// are ordered by numeric id.
func parseDeviceList(out []byte) []InputDevice {
	seen := map[string]string{}
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		m := deviceLineRe.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		label := strings.TrimSpace(m[1])
		if label == "" {
			continue
		}
		seen[m[2]] = label
	}
	devices := make([]InputDevice, 0, len(seen))
	for id, label := range seen {
		devices = append(devices, InputDevice{ID: id, Label: label})
	}
	sort.Slice(devices, func(i, j int) bool {
		a, _ := strconv.Atoi(devices[i].ID)
		b, _ := strconv.Atoi(devices[j].ID)
		return a < b
	})
	return devices
}
