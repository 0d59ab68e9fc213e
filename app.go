// Copyright (c) 2026, The Wayshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wayshell dispatches windowing events between a display-server
// protocol connection and application-supplied window handlers. It owns
// the mapping from surface identities to per-window state, runs the
// single goroutine on which all window state is mutated, and gives
// other goroutines safe ways to schedule work onto it.
package wayshell

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/wayshell/wayshell/events"
)

// App owns the dispatch goroutine and all window state. Create one
// with [NewApp], build windows with [App.NewWindow], then call
// [App.Run] on the goroutine that built them. All fields other than
// the queues and flags are confined to that goroutine.
type App struct {
	transport Transport
	windows   windowRegistry

	// actions carries the closed set of deferred window actions;
	// idles carries arbitrary callbacks and idle tokens. Both are
	// multi-producer, drained to empty once per loop iteration.
	actions *events.Queue[deferredAction]
	idles   *events.Queue[idleAction]

	// stop requests loop termination; stopped records that the loop
	// has exited, after which enqueues are dropped.
	stop    atomic.Bool
	stopped atomic.Bool
}

// NewApp creates an App over an established transport. Transport
// construction errors (connection refused, required protocol globals
// missing) belong to the transport's own constructor and surface from
// there.
func NewApp(t Transport) (*App, error) {
	if t == nil {
		return nil, errors.New("new app: nil transport")
	}
	return &App{
		transport: t,
		windows:   newWindowRegistry(),
		actions:   events.NewQueue[deferredAction](),
		idles:     events.NewQueue[idleAction](),
	}, nil
}

// NewWindow returns a builder for a new window.
func (a *App) NewWindow() *WindowBuilder {
	return &WindowBuilder{app: a}
}

// Run pumps protocol events and drains the idle and action queues, in
// that order, once per iteration, until [App.Quit] is called or the
// last window closes. It returns the transport error if the connection
// fails; once running, such a failure is unrecoverable.
//
// Run must be called on the goroutine that created the App's windows:
// that goroutine becomes the dispatch goroutine.
func (a *App) Run() error {
	defer a.stopped.Store(true)
	slog.Info("wayshell: event loop starting")
	for {
		if a.stop.Load() {
			slog.Info("wayshell: event loop stopped")
			return nil
		}
		if err := a.transport.Pump(a.dispatchEvent); err != nil {
			slog.Error("wayshell: connection failed", "err", err)
			return fmt.Errorf("pump events: %w", err)
		}
		a.drainIdle()
		a.drainActions()
	}
}

// Quit asks the run loop to stop after the current iteration. It is
// safe to call from any goroutine, and more than once.
func (a *App) Quit() {
	a.stop.Store(true)
	a.transport.Wake()
}

// Handle returns a cloneable, cross-thread handle on the app.
func (a *App) Handle() AppHandle {
	return AppHandle{app: a}
}

// AppHandle schedules application-level work onto the dispatch
// goroutine from anywhere. The zero value is unbound and drops work
// with a log message.
type AppHandle struct {
	app *App
}

// RunOnMain schedules f on the dispatch goroutine and wakes the loop.
// f runs exactly once, after the native events of the iteration it
// lands in, unless the whole application is torn down first.
func (h AppHandle) RunOnMain(f func(app *App)) {
	if h.app == nil {
		slog.Error("wayshell: RunOnMain on unbound app handle")
		return
	}
	h.app.enqueueIdle(idleAction{fn: f})
}

// Quit stops the app's run loop.
func (h AppHandle) Quit() {
	if h.app == nil {
		slog.Error("wayshell: Quit on unbound app handle")
		return
	}
	h.app.Quit()
}
