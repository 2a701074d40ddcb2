package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigLoad(t *testing.T) {
	conf, err := loadConfig("./example-config.toml")
	require.NoError(t, err)
	assert.Equal(t, autoOutput, conf.Output)
	assert.True(t, conf.Monitor)
	assert.Equal(t, "WAC", conf.VendorTag)
	assert.Equal(t, 10*time.Second, conf.CommandTimeout.Duration)
	assert.Equal(t, 1500*time.Millisecond, conf.SettleDelay.Duration)
	assert.Equal(t, []string{"add", "bind"}, conf.Hotplug.Actions)
	assert.Equal(t, "wacom", conf.Hotplug.ModelContains)
	assert.Equal(t, []string{"xsetwacom", "--set", "{device}", "MapToOutput", "{output}"},
		conf.Commands.Map)
	assert.Equal(t, int32(4000), conf.Notification.Timeout)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestConfigPartialKeepsDefaults(t *testing.T) {
	conf, err := loadConfig(writeConfig(t, "Output = \"HDMI-1\"\n[Hotplug]\nVendorID = \"0b57\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "HDMI-1", conf.Output)
	assert.True(t, conf.Notify)
	assert.Equal(t, "0b57", conf.Hotplug.VendorID)
	assert.Equal(t, "usb", conf.Hotplug.Subsystem)
	assert.Equal(t, []string{"add"}, conf.Hotplug.Actions)
	assert.Equal(t, time.Second, conf.SettleDelay.Duration)
}

func TestConfigErrors(t *testing.T) {
	tests := map[string]string{
		"bad toml":      "Output = ",
		"bad duration":  "SettleDelay = \"soon\"",
		"bad source":    "DisplaySource = \"wayland\"",
		"empty map":     "[Commands]\nMap = []",
		"empty actions": "[Hotplug]\nActions = []",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestGetConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_DIRS", t.TempDir())
	t.Setenv("UdevTabletMapConfig", "")

	conf, err := getConfig("")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), conf, "no config file means defaults")

	_, err = getConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err, "an explicit file must exist")

	conf, err = getConfig(writeConfig(t, "Notify = false\n"))
	require.NoError(t, err)
	assert.False(t, conf.Notify)
}
