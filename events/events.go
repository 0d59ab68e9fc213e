// Copyright (c) 2026, The Wayshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package events defines the typed protocol events a wayshell transport
// delivers to the dispatcher, and the queue used to move work between
// goroutines. Every event is keyed by the identity of the surface it
// targets; the dispatcher resolves that identity to per-window state.
package events

import (
	"image"

	"github.com/wayshell/wayshell/geom"
)

// SurfaceID is the stable identity of a window's underlying surface.
// It is unique per live window for the window's entire lifetime, and
// every protocol object belonging to one window (the surface itself,
// the shell-level window object, frame callbacks) resolves to the same
// SurfaceID.
type SurfaceID uint64

// SeatID identifies the logical input seat that produced an event.
type SeatID uint32

// Event is an inbound protocol event targeting one surface.
type Event interface {
	// Surface returns the identity of the surface the event targets.
	Surface() SurfaceID
}

// ScaleChanged reports a new preferred scale factor for a surface,
// typically because the window moved to a display of different density.
type ScaleChanged struct {
	Target SurfaceID
	Factor geom.Scale
}

func (e ScaleChanged) Surface() SurfaceID { return e.Target }

// FrameDone reports that the compositor considers now a good time to
// draw the next frame for a surface. One FrameDone arrives per
// requested frame callback.
type FrameDone struct {
	Target SurfaceID

	// Time is the compositor timestamp in milliseconds, with an
	// undefined base.
	Time uint32
}

func (e FrameDone) Surface() SurfaceID { return e.Target }

// Configure carries the server's suggested geometry and state for a
// surface. A zero Suggested size means the client is free to choose.
// The transport acknowledges the configure sequence itself; the
// dispatcher only applies the suggestion.
type Configure struct {
	Target SurfaceID

	// Suggested is the compositor-suggested size in device pixels,
	// or the zero point when the client decides.
	Suggested image.Point

	Serial    uint32
	Maximized bool
	Activated bool
}

func (e Configure) Surface() SurfaceID { return e.Target }

// CloseRequested reports that the user or compositor asked for the
// window to close (for example via the window's close button). The
// application decides whether to honor it.
type CloseRequested struct {
	Target SurfaceID
}

func (e CloseRequested) Surface() SurfaceID { return e.Target }

// PointerKind distinguishes the pointer event variants.
type PointerKind int32

const (
	// PointerMove is pointer motion within the surface, including the
	// initial position on enter.
	PointerMove PointerKind = iota

	// PointerButton is a button press or release; see [Pointer.Pressed].
	PointerButton

	// PointerLeave reports the pointer leaving the surface.
	PointerLeave
)

// Pointer is a pointer input event, keyed by the seat that produced it.
// Input handling beyond routing by surface and seat identity is the
// application's concern.
type Pointer struct {
	Target SurfaceID
	Seat   SeatID
	Kind   PointerKind
	Time   uint32

	// X and Y are the pointer position in logical surface coordinates.
	X float32
	Y float32

	// Button is the platform button code for PointerButton events.
	Button  uint32
	Pressed bool
}

func (e Pointer) Surface() SurfaceID { return e.Target }

// Key is a keyboard input event, keyed by the seat that produced it.
// The keycode is the platform scancode; keymap interpretation is the
// application's concern, the dispatcher only routes by surface and
// seat identity.
type Key struct {
	Target SurfaceID
	Seat   SeatID
	Time   uint32

	// Keycode is the platform key code as the compositor reported it.
	Keycode uint32
	Pressed bool
}

func (e Key) Surface() SurfaceID { return e.Target }
