package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, unix.SIGQUIT, unix.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, changed func(string) bool, stdout, stderr io.Writer) error {
	conf, err := getConfig(opts.configFile)
	if err != nil {
		return err
	}
	opts.apply(conf, changed)

	logger, closer, err := newLogger(logOptions{
		Verbosity: opts.verbose,
		Quiet:     opts.quiet,
		File:      os.ExpandEnv(conf.LogFile),
		FileLevel: conf.LogFileLevel,
	}, stderr)
	if err != nil {
		return fmt.Errorf("log file: %w", err)
	}
	defer closer.Close()

	if opts.watchEvents {
		return dumpEvents(ctx, conf.Hotplug, stdout)
	}

	cmds := execRunner{timeout: conf.CommandTimeout.Duration}
	devices := &commandDeviceLister{argv: conf.Commands.List, run: cmds}
	displays := newDisplayLister(conf, cmds)

	if opts.list {
		return listInventory(ctx, stdout, devices, displays, conf, logger)
	}

	var backend notificationBackend
	if conf.Notify {
		b, err := newDBusBackend(conf.Notification)
		if err != nil {
			logger.Warn().Err(err).Msg("notifications unavailable")
		} else {
			defer b.Close()
			backend = b
		}
	}

	o := &orchestrator{
		devices:   devices,
		displays:  displays,
		mapper:    &mapper{argv: conf.Commands.Map, run: cmds, logger: withComponent(logger, "mapper")},
		notifier:  newNotifier(conf.Notify, backend, withComponent(logger, "notifier")),
		override:  conf.Output,
		vendorTag: conf.VendorTag,
		settle:    conf.SettleDelay.Duration,
		logger:    withComponent(logger, "cycle"),
	}

	_, err = o.Run(ctx, nil, true)
	if !conf.Monitor {
		return err
	}

	w := &watcher{
		filter: hotplugFilter{conf: conf.Hotplug},
		source: udevEvents(conf.Hotplug),
		logger: withComponent(logger, "hotplug"),
	}
	logger.Info().Str("subsystem", conf.Hotplug.Subsystem).Msg("watching for tablets")
	return w.Watch(ctx, func(ev HotplugEvent) {
		// failures are already logged and reported by the cycle
		_, _ = o.Run(ctx, &ev, false)
	})
}

// dumpEvents writes every udev event of the configured subsystem to out,
// marking the ones that would start a mapping cycle.
func dumpEvents(ctx context.Context, conf hotplugConfig, out io.Writer) error {
	devchan, err := udevEvents(conf)(ctx)
	if err != nil {
		return err
	}
	filter := hotplugFilter{conf: conf}
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-devchan:
			if !ok {
				return nil
			}
			_, match := filter.match(d)
			fmt.Fprint(out, devString(d, conf.ModelProperty))
			fmt.Fprintf(out, "# ACTION=%s matches=%t\n", d.Action(), match)
		}
	}
}

// listInventory prints what a cycle would see and where it would map.
func listInventory(ctx context.Context, out io.Writer, devices deviceLister,
	displays displayLister, conf *Config, logger zerolog.Logger) error {
	devs, err := devices.ListInputDevices(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Input devices:")
	for _, d := range devs {
		fmt.Fprintf(out, "  %-4s %s\n", d.ID, d.Label)
	}

	outputs, err := displays.ListOutputs(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Outputs:")
	for _, o := range outputs {
		fmt.Fprintf(out, "  %d %-10s %-4s %s\n", o.Index, o.Name, o.Manufacturer, o.Model)
	}

	target, err := resolveTarget(outputs, conf.Output, conf.VendorTag, logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Target: %s\n", target.Name)
	return nil
}
