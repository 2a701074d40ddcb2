package main

import (
	"context"
	"errors"
	"strings"
)

// fakeRunner answers commands from canned output keyed by the joined argv.
type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   [][]string
}

func (f *fakeRunner) Run(_ context.Context, argv []string) ([]byte, error) {
	f.calls = append(f.calls, argv)
	key := strings.Join(argv, " ")
	return []byte(f.outputs[key]), f.errs[key]
}

type runnerFunc func(ctx context.Context, argv []string) ([]byte, error)

func (f runnerFunc) Run(ctx context.Context, argv []string) ([]byte, error) { return f(ctx, argv) }

// fakeBackend counts creates, shows and reconnects. The next failShows
// calls to Show fail.
type fakeBackend struct {
	creates      int
	shows        int
	reconnects   int
	failShows    int
	reconnectErr error
	shown        []message
}

func (b *fakeBackend) New(msg message) notificationHandle {
	b.creates++
	return &fakeHandle{b: b, msg: msg}
}

func (b *fakeBackend) Reconnect() error {
	b.reconnects++
	return b.reconnectErr
}

type fakeHandle struct {
	b   *fakeBackend
	msg message
}

func (h *fakeHandle) Update(msg message) { h.msg = msg }

func (h *fakeHandle) Show() error {
	h.b.shows++
	if h.b.failShows > 0 {
		h.b.failShows--
		return errors.New("connection closed")
	}
	h.b.shown = append(h.b.shown, h.msg)
	return nil
}

// makeEDID builds a minimal EDID base block with a monitor name descriptor.
func makeEDID(manufacturer, name string) []byte {
	b := make([]byte, edidBlockLen)
	copy(b, edidHeader)
	v := uint16(manufacturer[0]-'@')<<10 | uint16(manufacturer[1]-'@')<<5 | uint16(manufacturer[2]-'@')
	b[8], b[9] = byte(v>>8), byte(v)
	d := b[54:72]
	d[3] = 0xfc
	field := []byte(name + "\n")
	for len(field) < 13 {
		field = append(field, ' ')
	}
	copy(d[5:], field[:13])
	return b
}
