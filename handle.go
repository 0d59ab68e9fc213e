// Copyright (c) 2026, The Wayshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wayshell

import (
	"log/slog"

	"github.com/wayshell/wayshell/events"
	"github.com/wayshell/wayshell/geom"
)

// WindowMode is the shell-level presentation state of a window.
type WindowMode int32

const (
	// WindowRestored is the normal floating state.
	WindowRestored WindowMode = iota

	// WindowMaximized fills the work area.
	WindowMaximized

	// WindowMinimized hides the window in the shell's taskbar
	// equivalent.
	WindowMinimized
)

// WindowHandle is the public capability for controlling one window.
// Handles are freely copyable and usable from any goroutine: reads
// come from the shared [Properties] cache, and every mutation is
// deferred to the dispatch goroutine through the app's queues, so a
// handle method never calls back into a [Handler] from the caller's
// stack.
//
// The zero value is the unbound handle, required by APIs that need a
// handle value before any window exists. It resolves to no window:
// reads return zero values or [ErrWindowClosed], mutations log and do
// nothing. Handles may also outlive their window, in which case they
// behave like unbound ones.
type WindowHandle struct {
	id    events.SurfaceID
	props *Properties
	app   *App
}

// ID returns the window's surface identity, or zero for the unbound
// handle.
func (h *WindowHandle) ID() events.SurfaceID {
	return h.id
}

// onWindow defers f to the dispatch goroutine, resolving the window at
// run time. Operations on vanished or unbound windows are usage
// errors: logged, never fatal.
func (h *WindowHandle) onWindow(op string, f func(st *windowState)) {
	if h.app == nil {
		slog.Error("wayshell: " + op + " on unbound window handle")
		return
	}
	id := h.id
	h.app.enqueueIdle(idleAction{fn: func(a *App) {
		st, ok := a.windows.get(id)
		if !ok {
			slog.Warn("wayshell: "+op+" on closed window", "window", id)
			return
		}
		f(st)
	}})
}

// Show commits the surface so the window appears. Calling Show again
// before the first paint is a no-op.
func (h *WindowHandle) Show() {
	h.onWindow("show", func(st *windowState) {
		if st.shown {
			return
		}
		st.shown = true
		st.surface.Commit()
	})
}

// SetSize records the requested logical size and schedules its
// application. The new size takes effect on the dispatch goroutine:
// [WindowHandle.Size] keeps returning the previous size until the
// handler has been told about the new one. The surface size is
// client-driven, so no server round-trip is involved; the deferral
// only keeps handler callbacks off arbitrary caller stacks.
func (h *WindowHandle) SetSize(sz geom.Size) {
	if h.props == nil {
		slog.Error("wayshell: set size on unbound window handle")
		return
	}
	if h.props.setRequested(sz) {
		h.app.enqueueAction(deferredAction{window: h.id, kind: actionResizeApply})
	}
}

// Size returns the window's current logical size: always the last size
// delivered to the handler, never an unapplied requested size. The
// unbound handle returns the zero size.
func (h *WindowHandle) Size() geom.Size {
	if h.props == nil {
		return geom.Size{}
	}
	return h.props.Size()
}

// Scale returns the window's current scale factor. It returns
// [ErrWindowClosed] once the window has been destroyed, and for the
// unbound handle.
func (h *WindowHandle) Scale() (geom.Scale, error) {
	if h.props == nil {
		return 0, ErrWindowClosed
	}
	return h.props.Scale()
}

// SetTitle updates the window title.
func (h *WindowHandle) SetTitle(title string) {
	if h.props == nil {
		slog.Error("wayshell: set title on unbound window handle")
		return
	}
	h.props.setTitle(title)
	h.onWindow("set title", func(st *windowState) {
		st.surface.SetTitle(title)
	})
}

// SetWindowMode requests a shell presentation state for the window.
// Restoring from minimized has no protocol primitive; Restored is
// implemented as unset-maximized, which is the best the platform
// offers and will not unminimize the window.
func (h *WindowHandle) SetWindowMode(mode WindowMode) {
	h.onWindow("set window mode", func(st *windowState) {
		switch mode {
		case WindowMaximized:
			st.surface.SetMaximized()
		case WindowMinimized:
			st.surface.SetMinimized()
		case WindowRestored:
			st.surface.UnsetMaximized()
		}
	})
}

// SetDecorations requests server- or client-side decorations.
func (h *WindowHandle) SetDecorations(mode DecorationMode) {
	h.onWindow("set decorations", func(st *windowState) {
		st.surface.SetDecorations(mode)
	})
}

// Close schedules the window's removal and returns immediately.
// Closing an already-closed window is a recoverable usage error: the
// second removal misses, gets logged, and has no other effect.
func (h *WindowHandle) Close() {
	if h.app == nil {
		slog.Error("wayshell: close on unbound window handle")
		return
	}
	h.app.enqueueAction(deferredAction{window: h.id, kind: actionClose})
}

// IdleHandle returns a handle for scheduling idle work against this
// window, or nil once the window can no longer be resolved (closed or
// unbound).
func (h *WindowHandle) IdleHandle() *IdleHandle {
	if h.props == nil || !h.props.alive() {
		return nil
	}
	return &IdleHandle{window: h.id, app: h.app}
}

// IdleHandle schedules work on the dispatch goroutine against one
// window. It is safe to use from any goroutine. Work is bound to the
// window late, when it runs: if the window has been closed in the
// interim, the work is dropped with a diagnostic rather than executed
// against stale state.
type IdleHandle struct {
	window events.SurfaceID
	app    *App
}

// AddCallback schedules f to run on the dispatch goroutine with the
// window's handler. f runs at most once; it is dropped with a
// diagnostic if the window is closed first.
func (h *IdleHandle) AddCallback(f func(Handler)) {
	h.app.enqueueIdle(idleAction{window: h.window, winFn: f})
}

// AddToken schedules delivery of token through the handler's Idle
// method, with the same late-binding policy as AddCallback.
func (h *IdleHandle) AddToken(token IdleToken) {
	h.app.enqueueIdle(idleAction{window: h.window, token: token, isToken: true})
}
