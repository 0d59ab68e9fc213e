// Copyright (c) 2026, The Wayshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wayshell

import "github.com/wayshell/wayshell/events"

// Transport is the display-server protocol connection the dispatcher
// drives. The real implementation lives in the wayland package; tests
// use a headless stand-in. A Transport is owned by the dispatch
// goroutine: every method except [Transport.Wake] must be called from it.
type Transport interface {
	// Pump flushes buffered requests, waits until protocol events
	// arrive or Wake is called, and delivers every decoded event in
	// arrival order. It may deliver zero events when woken. A returned
	// error means the connection is unusable.
	Pump(deliver func(events.Event)) error

	// Wake unblocks a concurrent Pump. It is the one Transport method
	// safe to call from any goroutine, and it must be called after
	// enqueuing cross-thread work, since enqueuing alone does not
	// guarantee timely processing.
	Wake()

	// NewSurface creates the surface and shell-window pair for one
	// window. The returned Surface is not yet committed.
	NewSurface(opts SurfaceOptions) (Surface, error)

	// Close tears down the connection. Pending requests are not flushed.
	Close() error
}

// Surface is one window's protocol resources: the displayable surface
// plus the shell-level window object wrapping it. All methods must be
// called from the dispatch goroutine. Requests are buffered; write
// failures surface from the next [Transport.Pump].
type Surface interface {
	// ID returns the surface's stable identity.
	ID() events.SurfaceID

	// Commit commits pending surface state to the compositor.
	Commit()

	// SetTitle sets the window title.
	SetTitle(title string)

	// SetMaximized asks the compositor to maximize the window.
	SetMaximized()

	// UnsetMaximized asks the compositor to unmaximize the window.
	UnsetMaximized()

	// SetMinimized asks the compositor to minimize the window.
	// There is no protocol request to undo this; see
	// [WindowHandle.SetWindowMode].
	SetMinimized()

	// SetDecorations requests server- or client-side decorations.
	// Compositors are free to ignore the request.
	SetDecorations(mode DecorationMode)

	// RequestFrameCallback asks for a one-shot notification of the
	// next good time to draw. The dispatcher coalesces requests so at
	// most one is in flight per surface.
	RequestFrameCallback()

	// Destroy destroys the window's protocol objects. The Surface is
	// unusable afterwards.
	Destroy()
}

// SurfaceOptions configures a new [Surface].
type SurfaceOptions struct {
	// Title is the initial window title.
	Title string

	// AppID is the application identifier used by the compositor to
	// group windows (desktop file name on most systems).
	AppID string

	// Decorations is the initially requested decoration mode.
	Decorations DecorationMode
}

// DecorationMode selects who draws the window decorations.
type DecorationMode int32

const (
	// DecorationServer asks the compositor to draw decorations.
	DecorationServer DecorationMode = iota

	// DecorationClient asks to draw decorations client-side.
	DecorationClient
)
