// Copyright (c) 2026, The Wayshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wayshell

import (
	"image"
	"log/slog"

	"github.com/wayshell/wayshell/events"
	"github.com/wayshell/wayshell/geom"
)

// dispatchEvent is the single entry point for inbound protocol events.
// It resolves the target window and translates the event into handler
// calls or property updates. Events for unknown windows are normal:
// the compositor can keep delivering while a close is in flight.
func (a *App) dispatchEvent(ev events.Event) {
	switch e := ev.(type) {
	case events.ScaleChanged:
		a.scaleChanged(e)
	case events.FrameDone:
		a.frameDone(e)
	case events.Configure:
		a.configure(e)
	case events.CloseRequested:
		a.closeRequested(e)
	case events.Pointer:
		a.pointer(e)
	case events.Key:
		a.key(e)
	default:
		slog.Debug("wayshell: unhandled event", "event", ev)
	}
}

// scaleChanged recomputes the logical size at the new factor by
// round-tripping the old size through device pixels, then reports
// scale before size so the handler never lays out against a stale
// scale.
func (a *App) scaleChanged(e events.ScaleChanged) {
	st, ok := a.windows.get(e.Target)
	if !ok {
		slog.Debug("wayshell: scale change for unknown window", "window", e.Target)
		return
	}
	if cur, err := st.props.Scale(); err == nil && cur == e.Factor {
		return
	}
	size := st.props.rescale(e.Factor)
	st.handler.Scale(e.Factor)
	st.handler.Size(size)
}

// frameDone runs one paint cycle. A frame callback can race a close,
// so a missing window is silently ignored.
func (a *App) frameDone(e events.FrameDone) {
	st, ok := a.windows.get(e.Target)
	if !ok {
		return
	}
	st.frameRequested = false
	st.handler.PreparePaint()
	// No partial damage tracking yet: the whole surface is dirty.
	st.handler.Paint(geom.FullRegion(st.props.Size()))
}

// configure applies a server-suggested size, if any, and schedules the
// first paint once the surface is configured. The transport has
// already acknowledged the configure sequence.
func (a *App) configure(e events.Configure) {
	st, ok := a.windows.get(e.Target)
	if !ok {
		slog.Debug("wayshell: configure for unknown window", "window", e.Target)
		return
	}
	first := !st.configured
	st.configured = true

	if e.Suggested != (image.Point{}) {
		scale, err := st.props.Scale()
		if err != nil {
			return
		}
		size := geom.SizeFromPixels(e.Suggested, scale)
		if st.props.setCurrent(size) {
			st.handler.Size(size)
		}
	}
	if first {
		a.requestFrame(st)
	}
}

func (a *App) closeRequested(e events.CloseRequested) {
	st, ok := a.windows.get(e.Target)
	if !ok {
		slog.Debug("wayshell: close request for unknown window", "window", e.Target)
		return
	}
	st.handler.RequestClose()
}

// pointer forwards input to handlers that opt in; routing beyond
// surface and seat identity is the application's concern.
func (a *App) pointer(e events.Pointer) {
	st, ok := a.windows.get(e.Target)
	if !ok {
		return
	}
	if ph, ok := st.handler.(PointerHandler); ok {
		ph.Pointer(e)
	}
}

// key forwards keyboard input to handlers that opt in, with the same
// identity-only routing as pointer.
func (a *App) key(e events.Key) {
	st, ok := a.windows.get(e.Target)
	if !ok {
		return
	}
	if kh, ok := st.handler.(KeyHandler); ok {
		kh.Key(e)
	}
}

// requestFrame asks for the next frame callback, coalescing duplicates
// so at most one is outstanding per surface. This bounds queue growth
// under rapid resize.
func (a *App) requestFrame(st *windowState) {
	if st.frameRequested {
		return
	}
	st.frameRequested = true
	st.surface.RequestFrameCallback()
}

// drainIdle runs queued idle work to empty. It runs after all native
// events of the current loop iteration have been dispatched.
func (a *App) drainIdle() {
	for {
		act, ok := a.idles.Next()
		if !ok {
			return
		}
		a.runIdle(act)
	}
}

func (a *App) runIdle(act idleAction) {
	if act.fn != nil {
		act.fn(a)
		return
	}
	// Window-targeted work binds its window now, not at enqueue time.
	st, ok := a.windows.get(act.window)
	if !ok {
		slog.Warn("wayshell: idle work dropped; window closed before it ran",
			"window", act.window)
		return
	}
	if act.isToken {
		st.handler.Idle(act.token)
		return
	}
	if act.winFn != nil {
		act.winFn(st.handler)
	}
}

// drainActions consumes queued deferred window actions to empty.
func (a *App) drainActions() {
	for {
		act, ok := a.actions.Next()
		if !ok {
			return
		}
		switch act.kind {
		case actionResizeApply:
			a.applyResize(act.window)
		case actionClose:
			a.applyClose(act.window)
		}
	}
}

// applyResize makes the requested size current, notifies the handler,
// and schedules a repaint at the new size.
func (a *App) applyResize(id events.SurfaceID) {
	st, ok := a.windows.get(id)
	if !ok {
		// SetSize then Close before the next pump; nothing to do.
		slog.Debug("wayshell: resize apply raced window close", "window", id)
		return
	}
	size := st.props.takeRequested()
	st.handler.Size(size)
	a.requestFrame(st)
}

// applyClose removes the window, destroys its resources, and stops the
// loop when the last window is gone. A removal miss means the window
// was closed twice; that is the caller's mistake, logged and ignored.
func (a *App) applyClose(id events.SurfaceID) {
	st, ok := a.windows.remove(id)
	if !ok {
		slog.Error("wayshell: close of already-removed window", "window", id)
		return
	}
	st.props.markClosed()
	st.surface.Destroy()
	st.handler.Destroy()
	if a.windows.empty() {
		slog.Info("wayshell: last window closed; stopping event loop")
		a.stop.Store(true)
	}
}
