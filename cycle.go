package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type cycleState int

const (
	stateIdle cycleState = iota
	stateRunning
)

func (s cycleState) String() string {
	if s == stateRunning {
		return "running"
	}
	return "idle"
}

// orchestrator runs mapping cycles: list devices, resolve the target,
// map, and tell the user. Only the notifier carries state from one
// cycle to the next.
type orchestrator struct {
	devices   deviceLister
	displays  displayLister
	mapper    *mapper
	notifier  *Notifier
	override  string
	vendorTag string
	settle    time.Duration
	state     cycleState
	cycles    int
	logger    zerolog.Logger
}

// Run performs one cycle. trigger is nil for the startup cycle.
// expectFailure marks a cycle in which finding no device is normal. A
// failing cycle is logged and reported, and its error returned for the
// caller's information only. Cancelling ctx does not interrupt a cycle
// that has started; shutdown waits for it.
func (o *orchestrator) Run(ctx context.Context, trigger *HotplugEvent, expectFailure bool) (MappingResult, error) {
	ctx = context.WithoutCancel(ctx)
	if o.state == stateRunning {
		return MappingResult{}, ErrCycleRunning
	}
	o.state = stateRunning
	defer func() { o.state = stateIdle }()
	o.cycles++

	lctx := o.logger.With().Int("cycle", o.cycles).Bool("expect_failure", expectFailure)
	if trigger != nil {
		lctx = lctx.Stringer("event", trigger).Str("syspath", trigger.Syspath)
	}
	logger := lctx.Logger()

	result, err := o.configure(ctx, trigger, expectFailure, logger)
	if err != nil {
		ev := logger.Error().Err(err)
		if trigger != nil {
			ev = ev.Interface("properties", trigger.Properties)
		}
		ev.Msg("mapping cycle failed")
		o.notify(logger, message{
			Summary: "Tablet mapping failed",
			Body:    err.Error(),
			Urgency: urgencyCritical,
		})
	}
	return result, err
}

func (o *orchestrator) configure(ctx context.Context, trigger *HotplugEvent, expectFailure bool, logger zerolog.Logger) (MappingResult, error) {
	if trigger != nil && o.settle > 0 {
		time.Sleep(o.settle)
	}

	devices, err := o.devices.ListInputDevices(ctx)
	if err != nil {
		return MappingResult{}, err
	}
	if len(devices) == 0 {
		if expectFailure {
			logger.Info().Msg("no tablet device present")
			return MappingResult{}, nil
		}
		logger.Warn().Msg("no tablet device found")
		body := "No tablet input device is registered."
		if trigger != nil {
			body = fmt.Sprintf("%s\n%s", body, trigger)
		}
		o.notify(logger, message{Summary: "No tablet found", Body: body, Urgency: urgencyNormal})
		return MappingResult{}, nil
	}

	var outputs []DisplayOutput
	if o.override == "" || o.override == autoOutput {
		if outputs, err = o.displays.ListOutputs(ctx); err != nil {
			return MappingResult{}, err
		}
		logger.Debug().Interface("outputs", outputs).Msg("displays")
	}
	target, err := resolveTarget(outputs, o.override, o.vendorTag, logger)
	if err != nil {
		return MappingResult{}, err
	}

	result := o.mapper.mapDevices(ctx, devices, target)
	if len(result.Mapped) == 0 {
		errs := make([]error, len(result.Failed))
		for i, f := range result.Failed {
			errs[i] = f
		}
		return result, errors.Join(errs...)
	}

	logger.Info().
		Int("mapped", len(result.Mapped)).
		Int("failed", len(result.Failed)).
		Str("output", target.Name).
		Msg("tablet mapped")
	o.notify(logger, successMessage(result, target, trigger))
	return result, nil
}

func successMessage(result MappingResult, target DisplayOutput, trigger *HotplugEvent) message {
	noun := "devices"
	if len(result.Mapped) == 1 {
		noun = "device"
	}
	lines := []string{fmt.Sprintf("%d %s mapped to %s", len(result.Mapped), noun, target)}
	for _, m := range result.Mapped {
		lines = append(lines, "• "+m.Device.Label)
	}
	for _, f := range result.Failed {
		lines = append(lines, "✗ "+f.Device)
	}
	if trigger != nil {
		lines = append(lines, trigger.String())
	}
	return message{
		Summary:   "Tablet mapped to " + target.Name,
		Body:      strings.Join(lines, "\n"),
		Urgency:   urgencyLow,
		Transient: true,
	}
}

// notify is best effort: a notification failure never fails the cycle.
func (o *orchestrator) notify(logger zerolog.Logger, msg message) {
	if err := o.notifier.Notify(msg); err != nil {
		logger.Error().Err(err).Str("summary", msg.Summary).Msg("notification failed")
	}
}
