/*
udev-tablet-map binds Wacom tablets to a monitor with xsetwacom, once on
startup and, in monitor mode, every time a tablet is plugged in. Designed to
run as part of a user session on a Linux X11 desktop.

    udev-tablet-map -m

On every run it lists the tablet's input devices (xsetwacom --list devices),
picks a target output and maps each device to it. The target is the
--output given, or with "auto", the connected monitor whose EDID names the
tablet vendor (a pen display), or failing that the last connected monitor.
The outcome is shown in a single desktop notification that is updated in
place on later events.

To see what it would do without mapping anything:

    udev-tablet-map -l

To see which udev events a tablet produces (and whether they match):

    udev-tablet-map -w

It searches for a TOML formatted config file passed on the command line or in..

	$XDG_CONFIG_HOME/udev-tablet-map/config.toml

See the example-config.toml for the config file structure. Every setting has
a default, so the file is optional.

NOTE: By default XDG_CONFIG_HOME is set to ~/.config on most Linux systems.
*/
package main
