// Copyright (c) 2026, The Wayshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wayshell

import (
	"log/slog"

	"github.com/wayshell/wayshell/events"
)

// actionKind enumerates the deferred window actions the action queue
// carries. The set is deliberately closed and small; arbitrary deferred
// work rides the idle queue instead.
type actionKind int32

const (
	// actionResizeApply consumes the pending requested size, makes it
	// current, and notifies the handler.
	actionResizeApply actionKind = iota

	// actionClose removes the window and destroys its resources.
	actionClose
)

func (k actionKind) String() string {
	switch k {
	case actionResizeApply:
		return "resize-apply"
	case actionClose:
		return "close"
	}
	return "unknown"
}

// deferredAction is one queued window action, consumed exactly once by
// the dispatch goroutine.
type deferredAction struct {
	window events.SurfaceID
	kind   actionKind
}

// idleAction is one queued item of dispatch-goroutine work not tied to
// a protocol event: an application-level callback, a window callback,
// or an idle token. Window-targeted items resolve their window at run
// time, not at enqueue time, because they may be scheduled long before
// they run.
type idleAction struct {
	// window is zero for application-level callbacks.
	window events.SurfaceID

	// fn is an application-level callback; it runs unconditionally.
	fn func(app *App)

	// winFn is a window callback; it runs against the window's
	// handler if the window still exists.
	winFn func(h Handler)

	// token is delivered through Handler.Idle when isToken is set.
	token   IdleToken
	isToken bool
}

// enqueueAction queues a deferred window action and wakes the dispatch
// goroutine. Once the event loop has stopped there is no consumer
// anymore; that is a normal shutdown condition, logged and swallowed.
func (a *App) enqueueAction(act deferredAction) {
	if a.stopped.Load() {
		slog.Error("wayshell: window action dropped; event loop has stopped",
			"window", act.window, "action", act.kind)
		return
	}
	a.actions.Send(act)
	a.transport.Wake()
}

// enqueueIdle queues idle work and wakes the dispatch goroutine, with
// the same dead-consumer policy as enqueueAction.
func (a *App) enqueueIdle(act idleAction) {
	if a.stopped.Load() {
		slog.Error("wayshell: idle work dropped; event loop has stopped",
			"window", act.window)
		return
	}
	a.idles.Send(act)
	a.transport.Wake()
}
