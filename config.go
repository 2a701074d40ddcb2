package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/BurntSushi/xdg"
)

// autoOutput asks the resolver to pick the target output itself.
const autoOutput = "auto"

type Config struct {
	// Output to map to, or "auto"
	Output string
	// Show desktop notifications
	Notify bool
	// Keep running and re-map on hotplug events
	Monitor bool
	// EDID manufacturer id of the tablet's own display
	VendorTag string
	// Where displays are enumerated from: "xrandr" or "drm"
	DisplaySource string
	// Upper bound for every external command, zero means none
	CommandTimeout duration
	// Wait after an attach event before listing input devices
	SettleDelay duration
	// Optional JSON log file and its minimum level
	LogFile      string
	LogFileLevel string

	Hotplug      hotplugConfig
	Commands     commandConfig
	Notification notificationConfig
}

// Subsystem and Devtype filter udev events in the kernel
// VendorProperty/VendorID must match exactly
// ModelProperty must contain ModelContains (case insensitive)
// Actions lists the udev actions that count as an attach
type hotplugConfig struct {
	Subsystem, Devtype           string
	VendorProperty, VendorID     string
	ModelProperty, ModelContains string
	Actions                      []string
}

// List prints the input devices, Map binds one device to one output
// ({device} and {output} are substituted), Displays is the xrandr query.
type commandConfig struct {
	List, Map, Displays []string
}

type notificationConfig struct {
	AppName, Icon string
	// milliseconds, -1 lets the server decide
	Timeout int32
}

// duration lets TOML values like "1500ms" decode into a time.Duration.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func defaultConfig() *Config {
	return &Config{
		Output:        autoOutput,
		Notify:        true,
		VendorTag:     "WAC",
		DisplaySource: "xrandr",
		SettleDelay:   duration{time.Second},
		LogFileLevel:  "info",
		Hotplug: hotplugConfig{
			Subsystem:      "usb",
			Devtype:        "usb_device",
			VendorProperty: "ID_VENDOR_ID",
			VendorID:       "056a",
			ModelProperty:  "ID_MODEL",
			ModelContains:  "Wacom",
			Actions:        []string{"add"},
		},
		Commands: commandConfig{
			List:     []string{"xsetwacom", "--list", "devices"},
			Map:      []string{"xsetwacom", "--set", "{device}", "MapToOutput", "{output}"},
			Displays: []string{"xrandr", "--verbose"},
		},
		Notification: notificationConfig{
			AppName: "udev-tablet-map",
			Icon:    "input-tablet",
			Timeout: -1,
		},
	}
}

// configPath returns the config file in the XDG config dirs, or "" when
// there is none.
func configPath() string {
	paths := xdg.Paths{
		Override:  os.Getenv("UdevTabletMapConfig"),
		XDGSuffix: "udev-tablet-map",
	}
	path, err := paths.ConfigFile("config.toml")
	if err != nil {
		return ""
	}
	return path
}

// loadConfig decodes path on top of the defaults.
func loadConfig(path string) (*Config, error) {
	conf := defaultConfig()
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if _, err = toml.Decode(string(bs), conf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := conf.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return conf, nil
}

// getConfig loads the explicit file when given, otherwise the XDG one,
// otherwise the defaults.
func getConfig(explicit string) (*Config, error) {
	path := explicit
	if path == "" {
		if path = configPath(); path == "" {
			return defaultConfig(), nil
		}
	}
	return loadConfig(path)
}

func (c *Config) validate() error {
	switch c.DisplaySource {
	case "xrandr", "drm":
	default:
		return fmt.Errorf("unknown DisplaySource %q", c.DisplaySource)
	}
	if c.Output == "" {
		c.Output = autoOutput
	}
	if len(c.Commands.List) == 0 || len(c.Commands.Map) == 0 {
		return errors.New("Commands.List and Commands.Map must not be empty")
	}
	if c.DisplaySource == "xrandr" && len(c.Commands.Displays) == 0 {
		return errors.New("Commands.Displays must not be empty")
	}
	if len(c.Hotplug.Actions) == 0 {
		return errors.New("Hotplug.Actions must not be empty")
	}
	return nil
}
