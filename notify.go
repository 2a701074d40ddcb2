package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
)

type urgency byte

// freedesktop notification urgency levels
const (
	urgencyLow urgency = iota
	urgencyNormal
	urgencyCritical
)

// message is what a notification shows.
type message struct {
	Summary   string
	Body      string
	Urgency   urgency
	Transient bool
}

type notificationBackend interface {
	// New creates a handle without showing it.
	New(msg message) notificationHandle
	// Reconnect drops the connection to the notification service and
	// opens a fresh one.
	Reconnect() error
}

type notificationHandle interface {
	Update(msg message)
	Show() error
}

// Notifier keeps a single notification and updates it in place so
// repeated events don't stack up in the tray.
type Notifier struct {
	enabled bool
	backend notificationBackend
	handle  notificationHandle
	logger  zerolog.Logger
}

// newNotifier returns a Notifier that silently does nothing when disabled
// or when backend is nil.
func newNotifier(enabled bool, backend notificationBackend, logger zerolog.Logger) *Notifier {
	return &Notifier{enabled: enabled, backend: backend, logger: logger}
}

// Notify shows msg, reusing the live notification if there is one. If
// showing fails the connection is re-established once and the show
// retried; a second failure is returned.
func (n *Notifier) Notify(msg message) error {
	return n.notify(msg, 1)
}

func (n *Notifier) notify(msg message, retries int) error {
	if n == nil || !n.enabled || n.backend == nil {
		return nil
	}
	if n.handle == nil {
		n.handle = n.backend.New(msg)
	} else {
		n.handle.Update(msg)
	}
	err := n.handle.Show()
	if err == nil {
		return nil
	}
	n.handle = nil
	if retries <= 0 {
		return fmt.Errorf("%w: %v", ErrNotificationBackend, err)
	}
	n.logger.Warn().Err(err).Msg("showing notification failed, reconnecting")
	if err := n.backend.Reconnect(); err != nil {
		return fmt.Errorf("%w: reconnect: %v", ErrNotificationBackend, err)
	}
	return n.notify(msg, retries-1)
}

// ---------------------------------------------------------------------
// org.freedesktop.Notifications over the session bus

const (
	notifyDest    = "org.freedesktop.Notifications"
	notifyPath    = dbus.ObjectPath("/org/freedesktop/Notifications")
	notifyMethod  = notifyDest + ".Notify"
	notifyTimeout = 5 * time.Second
)

type dbusBackend struct {
	conn    *dbus.Conn
	connect func() (*dbus.Conn, error)
	conf    notificationConfig
}

func newDBusBackend(conf notificationConfig) (*dbusBackend, error) {
	b := &dbusBackend{
		connect: func() (*dbus.Conn, error) { return dbus.ConnectSessionBus() },
		conf:    conf,
	}
	if err := b.Reconnect(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *dbusBackend) New(msg message) notificationHandle {
	return &dbusNotification{backend: b, msg: msg}
}

func (b *dbusBackend) Reconnect() error {
	b.Close()
	conn, err := b.connect()
	if err != nil {
		return err
	}
	b.conn = conn
	return nil
}

func (b *dbusBackend) Close() error {
	if b.conn == nil {
		return nil
	}
	err := b.conn.Close()
	b.conn = nil
	return err
}

// dbusNotification is one notification id, replaced on every show.
type dbusNotification struct {
	backend *dbusBackend
	id      uint32
	msg     message
}

func (n *dbusNotification) Update(msg message) { n.msg = msg }

func (n *dbusNotification) Show() error {
	conn := n.backend.conn
	if conn == nil {
		return errors.New("not connected to session bus")
	}
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	call := conn.Object(notifyDest, notifyPath).CallWithContext(ctx, notifyMethod, 0, n.args()...)
	if call.Err != nil {
		return call.Err
	}
	return call.Store(&n.id)
}

// args are the Notify arguments. A non-zero id makes the server replace
// the earlier notification.
func (n *dbusNotification) args() []interface{} {
	conf := n.backend.conf
	return []interface{}{
		conf.AppName, n.id, conf.Icon, n.msg.Summary, n.msg.Body,
		[]string{}, notificationHints(n.msg), conf.Timeout,
	}
}

func notificationHints(msg message) map[string]dbus.Variant {
	hints := map[string]dbus.Variant{
		"urgency":  dbus.MakeVariant(byte(msg.Urgency)),
		"category": dbus.MakeVariant("device"),
	}
	if msg.Transient {
		hints["transient"] = dbus.MakeVariant(true)
	}
	return hints
}
