package main

import (
	"github.com/spf13/cobra"
)

// Flags
type options struct {
	configFile  string
	output      string
	monitor     bool
	noNotify    bool
	verbose     int
	quiet       bool
	logFile     string
	logLevel    string
	list        bool
	watchEvents bool
}

const longUsage = `Map Wacom tablets to the right monitor, on startup and, with --monitor,
every time a tablet is plugged in. A desktop notification reports the
result. Configuration defaults to the standard XDG location (usually
~/.config/udev-tablet-map/config.toml).

With --output auto (the default) the target is the monitor made by the
tablet vendor (EDID id WAC), or the last connected monitor if there is
none.`

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:          "udev-tablet-map",
		Short:        "Map tablets to a monitor on hotplug",
		Long:         longUsage,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, cmd.Flags().Changed,
				cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.configFile, "config", "c", "", "Use `file` for your config")
	f.StringVarP(&opts.output, "output", "o", autoOutput, "Output to map to, or auto")
	f.BoolVarP(&opts.monitor, "monitor", "m", false, "Keep running and map on hotplug")
	f.BoolVar(&opts.noNotify, "no-notify", false, "Don't show desktop notifications")
	f.CountVarP(&opts.verbose, "verbose", "v", "More output, repeat for debug")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "Quiet all console output")
	f.StringVar(&opts.logFile, "log-file", "", "Also log to `path`")
	f.StringVar(&opts.logLevel, "log-level", "", "Minimum `level` written to the log file")
	f.BoolVarP(&opts.list, "list", "l", false, "List tablets and monitors and the chosen target")
	f.BoolVarP(&opts.watchEvents, "watch-events", "w", false,
		"Write udev events to STDOUT")
	return cmd
}

// apply overrides configured values with the flags given on the command
// line.
func (o options) apply(conf *Config, changed func(string) bool) {
	if changed("output") {
		conf.Output = o.output
	}
	if changed("monitor") {
		conf.Monitor = o.monitor
	}
	if o.noNotify {
		conf.Notify = false
	}
	if changed("log-file") {
		conf.LogFile = o.logFile
	}
	if changed("log-level") {
		conf.LogFileLevel = o.logLevel
	}
}
