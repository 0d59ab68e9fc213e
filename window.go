// Copyright (c) 2026, The Wayshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wayshell

import (
	"fmt"
	"sync"

	"github.com/wayshell/wayshell/events"
	"github.com/wayshell/wayshell/geom"
)

// Properties is the shared, mutable record of one window's live
// geometry and scale. It is referenced both by the window's registry
// entry and by every [WindowHandle] derived from the window, so handle
// methods can read cached geometry synchronously from any goroutine.
// When the window closes the record becomes inert: the surface
// reference is cleared and fallible reads start returning
// [ErrWindowClosed], even while handles persist.
type Properties struct {
	mu sync.Mutex

	// requested is the size claimed by SetSize but not yet applied on
	// the dispatch goroutine; nil when no apply is pending.
	requested *geom.Size

	// current and scale always reflect the last values delivered to
	// the window's handler, never a value in flight.
	current geom.Size
	scale   geom.Scale

	title   string
	surface Surface // nil once the window is closed
}

func newProperties(surface Surface, size geom.Size, scale geom.Scale, title string) *Properties {
	return &Properties{current: size, scale: scale, title: title, surface: surface}
}

// Size returns the window's current logical size: the last size
// delivered to the handler, never an unapplied requested size.
func (p *Properties) Size() geom.Size {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Scale returns the window's current scale factor, or
// [ErrWindowClosed] if the window has been destroyed.
func (p *Properties) Scale() (geom.Scale, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.surface == nil {
		return 0, ErrWindowClosed
	}
	return p.scale, nil
}

// Title returns the window's cached title.
func (p *Properties) Title() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.title
}

// setRequested records a size claim and reports whether no resize
// apply was already pending, i.e. whether the caller must enqueue one.
// Back-to-back claims before the dispatch goroutine runs overwrite
// each other and share a single pending apply.
func (p *Properties) setRequested(sz geom.Size) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	first := p.requested == nil
	p.requested = &sz
	return first
}

// takeRequested consumes the pending requested size, making it the
// current size. A missing requested size is a bug in wayshell itself
// (a resize apply is only ever enqueued after setRequested), so it is
// fatal.
func (p *Properties) takeRequested() geom.Size {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.requested == nil {
		panic("wayshell: resize apply with no requested size")
	}
	p.current = *p.requested
	p.requested = nil
	return p.current
}

// setCurrent records a size delivered to the handler from the server
// side (a configure suggestion). It reports whether the size changed.
func (p *Properties) setCurrent(sz geom.Size) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == sz {
		return false
	}
	p.current = sz
	return true
}

// rescale converts the current size to a new scale factor through
// device-pixel space and returns the converted size.
func (p *Properties) rescale(factor geom.Scale) geom.Size {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = geom.Rescale(p.current, p.scale, factor)
	p.scale = factor
	return p.current
}

func (p *Properties) setTitle(title string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.title = title
}

// markClosed makes the record inert.
func (p *Properties) markClosed() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.surface = nil
}

func (p *Properties) alive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.surface != nil
}

// windowState is one window's registry entry. It owns the
// application's handler and the window's protocol resources, and
// shares the [Properties] record with the window's handles. There is
// at most one windowState per surface identity at any time, and only
// the dispatch goroutine touches it.
type windowState struct {
	id      events.SurfaceID
	handler Handler
	surface Surface
	props   *Properties

	// shown records the first Commit so Show stays idempotent.
	shown bool

	// frameRequested coalesces frame-callback requests: at most one
	// may be in flight per surface.
	frameRequested bool

	// configured is set by the first configure event.
	configured bool
}

// windowRegistry maps surface identities to window state. Only the
// dispatch goroutine reads or writes it; cross-thread access goes
// through the action and idle queues instead.
type windowRegistry struct {
	windows map[events.SurfaceID]*windowState
}

func newWindowRegistry() windowRegistry {
	return windowRegistry{windows: map[events.SurfaceID]*windowState{}}
}

// insert registers a new window. A duplicate identity means the
// transport broke its uniqueness promise, which is a bug, not an input
// error, so it is fatal.
func (r *windowRegistry) insert(id events.SurfaceID, st *windowState) {
	if _, ok := r.windows[id]; ok {
		panic(fmt.Sprintf("wayshell: duplicate window identity %d", id))
	}
	r.windows[id] = st
}

// get returns the state for id. A miss is not an error: inbound events
// can legitimately race a window close.
func (r *windowRegistry) get(id events.SurfaceID) (*windowState, bool) {
	st, ok := r.windows[id]
	return st, ok
}

func (r *windowRegistry) remove(id events.SurfaceID) (*windowState, bool) {
	st, ok := r.windows[id]
	if ok {
		delete(r.windows, id)
	}
	return st, ok
}

func (r *windowRegistry) empty() bool {
	return len(r.windows) == 0
}

// WindowBuilder configures and creates one window. Build must be
// called on the dispatch goroutine (normally before [App.Run], or from
// inside a handler or idle callback).
type WindowBuilder struct {
	app         *App
	title       string
	appID       string
	size        geom.Size
	decorations DecorationMode
	handler     Handler
}

// SetTitle sets the initial window title.
func (b *WindowBuilder) SetTitle(title string) *WindowBuilder {
	b.title = title
	return b
}

// SetAppID sets the application identifier the compositor uses to
// group this window.
func (b *WindowBuilder) SetAppID(id string) *WindowBuilder {
	b.appID = id
	return b
}

// SetSize sets the initial logical size. A zero size defaults to
// 800x600.
func (b *WindowBuilder) SetSize(sz geom.Size) *WindowBuilder {
	b.size = sz
	return b
}

// SetDecorations sets the initially requested decoration mode.
func (b *WindowBuilder) SetDecorations(mode DecorationMode) *WindowBuilder {
	b.decorations = mode
	return b
}

// SetHandler sets the window's event handler. A handler is required.
func (b *WindowBuilder) SetHandler(h Handler) *WindowBuilder {
	b.handler = h
	return b
}

// Build creates the window's protocol resources, registers the window,
// and connects the handler. The handler receives Connect, Scale, and
// Size (in that order) before Build returns. The window is not mapped
// until [WindowHandle.Show].
func (b *WindowBuilder) Build() (*WindowHandle, error) {
	if b.handler == nil {
		return nil, fmt.Errorf("build window %q: no handler set", b.title)
	}
	size := b.size
	if size.IsZero() {
		size = geom.Sz(800, 600)
	}

	surface, err := b.app.transport.NewSurface(SurfaceOptions{
		Title:       b.title,
		AppID:       b.appID,
		Decorations: b.decorations,
	})
	if err != nil {
		return nil, fmt.Errorf("build window %q: %w", b.title, err)
	}

	// Scale starts at 1; the compositor reports the real factor once
	// the surface appears on an output.
	props := newProperties(surface, size, 1, b.title)
	st := &windowState{
		id:      surface.ID(),
		handler: b.handler,
		surface: surface,
		props:   props,
	}
	b.app.windows.insert(st.id, st)

	handle := &WindowHandle{id: st.id, props: props, app: b.app}
	b.handler.Connect(handle)
	b.handler.Scale(1)
	b.handler.Size(size)
	return handle, nil
}
