package main

import (
	"errors"
	"fmt"
)

var (
	// ErrDisplayUnavailable is returned when display enumeration cannot run
	ErrDisplayUnavailable = errors.New("display enumeration unavailable")

	// ErrNoOutputsAvailable is returned when there is no output to map to
	ErrNoOutputsAvailable = errors.New("no display outputs available")

	// ErrDeviceQuery is returned when the device listing command fails
	ErrDeviceQuery = errors.New("input device query failed")

	// ErrMapping is returned when mapping a single device fails
	ErrMapping = errors.New("mapping command failed")

	// ErrNotificationBackend is returned when the notification service
	// cannot be reached, even after reconnecting
	ErrNotificationBackend = errors.New("notification backend unavailable")

	// ErrCycleRunning is returned when a cycle is started while another runs
	ErrCycleRunning = errors.New("mapping cycle already running")
)

// MappingError records which device failed to map to which output.
type MappingError struct {
	Device string
	Output string
	Err    error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("map device %s to %s: %v", e.Device, e.Output, e.Err)
}

func (e *MappingError) Unwrap() []error { return []error{ErrMapping, e.Err} }
