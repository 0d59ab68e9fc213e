// Copyright (c) 2026, The Wayshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wayshell

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/wayshell/wayshell/events"
	"github.com/wayshell/wayshell/geom"
)

// fakeSurface records every request made against one window's
// protocol resources.
type fakeSurface struct {
	id            events.SurfaceID
	commits       int
	frameRequests int
	titles        []string
	maximized     int
	unmaximized   int
	minimized     int
	decorations   []DecorationMode
	destroyed     bool
}

func (s *fakeSurface) ID() events.SurfaceID            { return s.id }
func (s *fakeSurface) Commit()                         { s.commits++ }
func (s *fakeSurface) SetTitle(title string)           { s.titles = append(s.titles, title) }
func (s *fakeSurface) SetMaximized()                   { s.maximized++ }
func (s *fakeSurface) UnsetMaximized()                 { s.unmaximized++ }
func (s *fakeSurface) SetMinimized()                   { s.minimized++ }
func (s *fakeSurface) SetDecorations(m DecorationMode) { s.decorations = append(s.decorations, m) }
func (s *fakeSurface) RequestFrameCallback()           { s.frameRequests++ }
func (s *fakeSurface) Destroy()                        { s.destroyed = true }

// fakeTransport is a headless Transport driven directly by tests, in
// the role the offscreen driver plays for a GUI toolkit.
type fakeTransport struct {
	mu       sync.Mutex
	nextID   events.SurfaceID
	reuseID  events.SurfaceID // if set, every NewSurface returns this id
	surfaces []*fakeSurface
	pending  []events.Event
	wake     chan struct{}
	pumpErr  error
	closed   bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{wake: make(chan struct{}, 1)}
}

// push queues events for the next Pump and wakes it.
func (t *fakeTransport) push(evs ...events.Event) {
	t.mu.Lock()
	t.pending = append(t.pending, evs...)
	t.mu.Unlock()
	t.Wake()
}

func (t *fakeTransport) take() []events.Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	evs := t.pending
	t.pending = nil
	return evs
}

func (t *fakeTransport) Pump(deliver func(events.Event)) error {
	if t.pumpErr != nil {
		return t.pumpErr
	}
	evs := t.take()
	if len(evs) == 0 {
		<-t.wake
		evs = t.take()
	}
	for _, ev := range evs {
		deliver(ev)
	}
	return nil
}

func (t *fakeTransport) Wake() {
	select {
	case t.wake <- struct{}{}:
	default:
	}
}

func (t *fakeTransport) NewSurface(opts SurfaceOptions) (Surface, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.reuseID
	if id == 0 {
		t.nextID++
		id = t.nextID
	}
	s := &fakeSurface{id: id}
	if opts.Title != "" {
		s.titles = append(s.titles, opts.Title)
	}
	t.surfaces = append(t.surfaces, s)
	return s, nil
}

func (t *fakeTransport) Close() error {
	t.closed = true
	return nil
}

// recordingHandler records every handler invocation in order.
type recordingHandler struct {
	handle  *WindowHandle
	calls   []string
	sizes   []geom.Size
	scales  []geom.Scale
	regions []geom.Region
	tokens  []IdleToken

	prepares      int
	paints        int
	closeRequests int
	destroys      int

	onPaint        func()
	onRequestClose func()
}

func (h *recordingHandler) Connect(wh *WindowHandle) {
	h.handle = wh
	h.calls = append(h.calls, "connect")
}

func (h *recordingHandler) Size(sz geom.Size) {
	h.sizes = append(h.sizes, sz)
	h.calls = append(h.calls, "size")
}

func (h *recordingHandler) Scale(s geom.Scale) {
	h.scales = append(h.scales, s)
	h.calls = append(h.calls, "scale")
}

func (h *recordingHandler) PreparePaint() {
	h.prepares++
	h.calls = append(h.calls, "prepare")
}

func (h *recordingHandler) Paint(r geom.Region) {
	h.paints++
	h.regions = append(h.regions, r)
	h.calls = append(h.calls, "paint")
	if h.onPaint != nil {
		h.onPaint()
	}
}

func (h *recordingHandler) RequestClose() {
	h.closeRequests++
	h.calls = append(h.calls, "request-close")
	if h.onRequestClose != nil {
		h.onRequestClose()
	}
}

func (h *recordingHandler) Idle(token IdleToken) {
	h.tokens = append(h.tokens, token)
	h.calls = append(h.calls, "idle")
}

func (h *recordingHandler) Destroy() {
	h.destroys++
	h.calls = append(h.calls, "destroy")
}

// pointerRecorder additionally implements [PointerHandler].
type pointerRecorder struct {
	recordingHandler
	pointers []events.Pointer
}

func (h *pointerRecorder) Pointer(e events.Pointer) {
	h.pointers = append(h.pointers, e)
}

// keyRecorder additionally implements [KeyHandler].
type keyRecorder struct {
	recordingHandler
	keys []events.Key
}

func (h *keyRecorder) Key(e events.Key) {
	h.keys = append(h.keys, e)
}

// captureLogs routes slog output to a buffer for the duration of the
// test, so diagnostics can be asserted on.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return buf
}

// newTestWindow builds one window over a fresh fake transport and
// returns the pieces tests poke at.
func newTestWindow(t *testing.T, sz geom.Size) (*App, *fakeTransport, *recordingHandler, *WindowHandle) {
	t.Helper()
	tr := newFakeTransport()
	app, err := NewApp(tr)
	if err != nil {
		t.Fatal(err)
	}
	h := &recordingHandler{}
	wh, err := app.NewWindow().SetTitle("test").SetSize(sz).SetHandler(h).Build()
	if err != nil {
		t.Fatal(err)
	}
	return app, tr, h, wh
}
