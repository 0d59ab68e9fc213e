// Copyright (c) 2026, The Wayshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wayshell

import (
	"github.com/wayshell/wayshell/events"
	"github.com/wayshell/wayshell/geom"
)

// IdleToken identifies a deferred work item delivered through
// [Handler.Idle]. Tokens are opaque to wayshell; applications assign
// their own meaning.
type IdleToken uint64

// Handler is the application-supplied capability that receives one
// window's events. Exactly one Handler is owned per window, and every
// method is invoked on the dispatch goroutine, never concurrently.
type Handler interface {
	// Connect is called once, when the window is built, with the
	// window's own handle.
	Connect(h *WindowHandle)

	// Size reports the window's new logical size. It is always
	// reported after a scale change, so the handler never computes
	// layout against a stale scale.
	Size(sz geom.Size)

	// Scale reports a change of the window's scale factor.
	Scale(scale geom.Scale)

	// PreparePaint is called before Paint, once per frame.
	PreparePaint()

	// Paint asks the handler to draw the damaged region.
	Paint(region geom.Region)

	// RequestClose reports that the user asked the window to close.
	// The window stays open unless the handler (or anyone else) calls
	// [WindowHandle.Close].
	RequestClose()

	// Idle delivers a token previously scheduled through
	// [IdleHandle.AddToken].
	Idle(token IdleToken)

	// Destroy is called exactly once, after the window has been
	// removed and its protocol resources destroyed.
	Destroy()
}

// PointerHandler is an optional extension of [Handler]. If a window's
// Handler implements it, pointer events for that window are forwarded,
// keyed by the seat that produced them. Windows whose handlers do not
// implement it simply never see pointer input.
type PointerHandler interface {
	Pointer(e events.Pointer)
}

// KeyHandler is an optional extension of [Handler] for raw keyboard
// input, with the same opt-in policy as [PointerHandler]. Keycodes are
// forwarded as the compositor reports them; keymap handling is the
// application's concern.
type KeyHandler interface {
	Key(e events.Key)
}
