package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jochenvg/go-udev"
	"github.com/rs/zerolog"
)

// abstract the *udev.Device type so I can create test entries
type device interface {
	Syspath() string
	Action() string
	Properties() map[string]string
	PropertyValue(string) string
}

// HotplugEvent is a udev event that passed the tablet filter.
type HotplugEvent struct {
	Action     string
	VendorID   string
	Model      string
	Syspath    string
	Properties map[string]string
}

func (e HotplugEvent) String() string {
	return fmt.Sprintf("%s %s", strings.ReplaceAll(e.Model, "_", " "), e.Action)
}

// hotplugFilter accepts attach events of the tablet vendor. The model
// check guards against other products sharing the vendor id.
type hotplugFilter struct {
	conf hotplugConfig
}

func (f hotplugFilter) match(d device) (HotplugEvent, bool) {
	ev := HotplugEvent{
		Action:     d.Action(),
		VendorID:   strings.TrimSpace(d.PropertyValue(f.conf.VendorProperty)),
		Model:      strings.TrimSpace(d.PropertyValue(f.conf.ModelProperty)),
		Syspath:    d.Syspath(),
		Properties: d.Properties(),
	}
	actionOK := false
	for _, a := range f.conf.Actions {
		if a == ev.Action {
			actionOK = true
			break
		}
	}
	if !actionOK {
		return ev, false
	}
	if !strings.EqualFold(ev.VendorID, f.conf.VendorID) {
		return ev, false
	}
	model := strings.ToLower(ev.Model)
	if !strings.Contains(model, strings.ToLower(f.conf.ModelContains)) {
		return ev, false
	}
	return ev, true
}

// eventSource returns udev events until ctx is done.
type eventSource func(ctx context.Context) (<-chan device, error)

type watcher struct {
	filter hotplugFilter
	source eventSource
	logger zerolog.Logger
}

// Watch calls onEvent for every matching event, one at a time, until ctx
// is cancelled or the event source closes. Events arriving while onEvent
// runs wait in the netlink socket buffer.
func (w *watcher) Watch(ctx context.Context, onEvent func(HotplugEvent)) error {
	devchan, err := w.source(ctx)
	if err != nil {
		return err
	}
	return watchLoop(ctx, devchan, w.filter, onEvent, w.logger)
}

// main loop
// reads udev events, filters them and hands matches to onEvent
func watchLoop(ctx context.Context, devchan <-chan device, filter hotplugFilter,
	onEvent func(HotplugEvent), logger zerolog.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-devchan:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("udev event source closed")
			}
			ev, ok := filter.match(d)
			if !ok {
				logger.Debug().
					Str("action", ev.Action).
					Str("vendor", ev.VendorID).
					Str("model", ev.Model).
					Msg("ignoring udev event")
				continue
			}
			logger.Info().Stringer("event", ev).Str("syspath", ev.Syspath).Msg("tablet attached")
			onEvent(ev)
		}
	}
}

// udevEvents returns the channel of udev device events for the configured
// subsystem. The channel closes once ctx is done.
func udevEvents(conf hotplugConfig) eventSource {
	return func(ctx context.Context) (<-chan device, error) {
		u := udev.Udev{}
		m := u.NewMonitorFromNetlink("udev")

		var err error
		if conf.Devtype != "" {
			err = m.FilterAddMatchSubsystemDevtype(conf.Subsystem, conf.Devtype)
		} else if conf.Subsystem != "" {
			err = m.FilterAddMatchSubsystem(conf.Subsystem)
		}
		if err != nil {
			return nil, fmt.Errorf("udev filter: %w", err)
		}

		ch, err := m.DeviceChan(ctx)
		if err != nil {
			return nil, fmt.Errorf("udev monitor: %w", err)
		}
		devchan := make(chan device)
		go func() {
			defer close(devchan)
			for d := range ch {
				select {
				case devchan <- d:
				case <-ctx.Done():
					return
				}
			}
		}()
		return devchan, nil
	}
}

// devString formats an event's properties for the event dump.
func devString(dev device, headerProp string) string {
	name := strings.TrimSpace(dev.PropertyValue(headerProp))
	if name == "" {
		name = dev.Syspath()
	}
	properties := dev.Properties()
	orderedKeys := make([]string, 0, len(properties))
	result := make([]string, 0, len(properties)+1)

	result = append(result,
		fmt.Sprintf("\n%s\n%s\n", name, strings.Repeat("-", len(name))))
	for k := range properties {
		orderedKeys = append(orderedKeys, k)
	}
	sort.Strings(orderedKeys)
	for _, k := range orderedKeys {
		result = append(result,
			fmt.Sprintf("%s = %q\n", k, strings.TrimSpace(properties[k])))
	}
	return strings.Join(result, "")
}
