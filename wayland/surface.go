// Copyright (c) 2026, The Wayshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wayland

import (
	"image"
	"log/slog"

	"github.com/wayshell/wayshell"
	"github.com/wayshell/wayshell/events"
	"github.com/wayshell/wayshell/geom"
)

// surface is one window's protocol objects: the wl_surface, its
// xdg_surface/xdg_toplevel pair, and optionally a toplevel decoration.
// The wl_surface id doubles as the window's SurfaceID; every event on
// any of the four objects resolves back to it.
type surface struct {
	c *Conn

	wlSurface  uint32
	xdgSurface uint32
	toplevel   uint32
	decoration uint32 // zero without the decoration protocol

	// frameCB is the in-flight frame callback id, zero when none.
	frameCB uint32

	// scale is the compositor's preferred buffer scale, used to convert
	// the logical configure size into device pixels. Defaults to 1 and
	// stays there on compositors older than wl_surface v6.
	scale int32

	// pending accumulates xdg_toplevel.configure state until the
	// xdg_surface.configure that commits it.
	pending struct {
		size      image.Point
		maximized bool
		activated bool
	}

	destroyed bool
}

var _ wayshell.Surface = (*surface)(nil)

// NewSurface implements [wayshell.Transport]. The surface is created
// with its shell role assigned but not committed; the dispatcher
// commits when the window is shown.
func (c *Conn) NewSurface(opts wayshell.SurfaceOptions) (wayshell.Surface, error) {
	if c.err != nil {
		return nil, c.err
	}

	s := &surface{c: c, scale: 1}

	s.wlSurface = c.newID()
	c.objects[s.wlSurface] = s.surfaceEvent
	c.sendRequest(c.compositor, compositorCreateSurface, func(e *encoder) {
		e.putUint32(s.wlSurface)
	})

	s.xdgSurface = c.newID()
	c.objects[s.xdgSurface] = s.xdgSurfaceEvent
	c.sendRequest(c.wmBase, wmBaseGetXdgSurface, func(e *encoder) {
		e.putUint32(s.xdgSurface)
		e.putUint32(s.wlSurface)
	})

	s.toplevel = c.newID()
	c.objects[s.toplevel] = s.toplevelEvent
	c.sendRequest(s.xdgSurface, xdgSurfaceGetToplevel, func(e *encoder) {
		e.putUint32(s.toplevel)
	})

	if opts.Title != "" {
		s.SetTitle(opts.Title)
	}
	if opts.AppID != "" {
		c.sendRequest(s.toplevel, toplevelSetAppID, func(e *encoder) {
			e.putString(opts.AppID)
		})
	}
	if c.decoMgr != 0 {
		s.decoration = c.newID()
		c.sendRequest(c.decoMgr, decorationMgrGetToplevelDecoration, func(e *encoder) {
			e.putUint32(s.decoration)
			e.putUint32(s.toplevel)
		})
		s.SetDecorations(opts.Decorations)
	}

	if err := c.flush(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *surface) ID() events.SurfaceID {
	return events.SurfaceID(s.wlSurface)
}

func (s *surface) Commit() {
	s.c.sendRequest(s.wlSurface, surfaceCommit, nil)
}

func (s *surface) SetTitle(title string) {
	s.c.sendRequest(s.toplevel, toplevelSetTitle, func(e *encoder) {
		e.putString(title)
	})
}

func (s *surface) SetMaximized() {
	s.c.sendRequest(s.toplevel, toplevelSetMaximized, nil)
}

func (s *surface) UnsetMaximized() {
	s.c.sendRequest(s.toplevel, toplevelUnsetMaximized, nil)
}

func (s *surface) SetMinimized() {
	s.c.sendRequest(s.toplevel, toplevelSetMinimized, nil)
}

func (s *surface) SetDecorations(mode wayshell.DecorationMode) {
	if s.decoration == 0 {
		slog.Debug("wayland: decoration request ignored, protocol not offered")
		return
	}
	m := uint32(decorationModeServer)
	if mode == wayshell.DecorationClient {
		m = decorationModeClient
	}
	s.c.sendRequest(s.decoration, decorationSetMode, func(e *encoder) {
		e.putUint32(m)
	})
}

// RequestFrameCallback asks for a frame callback and commits, since a
// pending callback only fires once the commit reaches the compositor.
func (s *surface) RequestFrameCallback() {
	if s.frameCB != 0 {
		return
	}
	s.frameCB = s.c.newID()
	s.c.objects[s.frameCB] = s.frameEvent
	s.c.sendRequest(s.wlSurface, surfaceFrame, func(e *encoder) {
		e.putUint32(s.frameCB)
	})
	s.Commit()
}

// Destroy tears the objects down child-first, the order the shell
// protocol requires.
func (s *surface) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true

	if s.frameCB != 0 {
		delete(s.c.objects, s.frameCB)
	}
	if s.decoration != 0 {
		s.c.sendRequest(s.decoration, decorationDestroy, nil)
	}
	s.c.sendRequest(s.toplevel, toplevelDestroy, nil)
	s.c.sendRequest(s.xdgSurface, xdgSurfaceDestroy, nil)
	s.c.sendRequest(s.wlSurface, surfaceDestroy, nil)

	delete(s.c.objects, s.toplevel)
	delete(s.c.objects, s.xdgSurface)
	delete(s.c.objects, s.wlSurface)

	for _, seat := range s.c.seats {
		seat.surfaceGone(s.wlSurface)
	}
}

func (s *surface) surfaceEvent(opcode uint16, d *decoder) {
	if opcode == surfaceEvtPreferredBufferScale {
		factor := d.int32()
		if factor < 1 || factor == s.scale {
			return
		}
		s.scale = factor
		s.c.queueEvent(events.ScaleChanged{
			Target: s.ID(),
			Factor: geom.Scale(factor),
		})
	}
}

func (s *surface) toplevelEvent(opcode uint16, d *decoder) {
	switch opcode {
	case toplevelEvtConfigure:
		w := d.int32()
		h := d.int32()
		states := d.array()
		s.pending.size = image.Pt(int(w), int(h))
		s.pending.maximized = false
		s.pending.activated = false
		for off := 0; off+4 <= len(states); off += 4 {
			switch decodeState(states[off:]) {
			case toplevelStateMaximized:
				s.pending.maximized = true
			case toplevelStateActivated:
				s.pending.activated = true
			}
		}
	case toplevelEvtClose:
		s.c.queueEvent(events.CloseRequested{Target: s.ID()})
	}
}

// xdgSurfaceEvent commits the accumulated toplevel state. The ack is
// sent here so the dispatcher never sees an unacknowledged configure;
// the suggested size is converted from logical to device pixels.
func (s *surface) xdgSurfaceEvent(opcode uint16, d *decoder) {
	if opcode != xdgSurfaceEvtConfigure {
		return
	}
	serial := d.uint32()
	s.c.sendRequest(s.xdgSurface, xdgSurfaceAckConfigure, func(e *encoder) {
		e.putUint32(serial)
	})
	s.c.queueEvent(events.Configure{
		Target:    s.ID(),
		Suggested: s.pending.size.Mul(int(s.scale)),
		Serial:    serial,
		Maximized: s.pending.maximized,
		Activated: s.pending.activated,
	})
}

func (s *surface) frameEvent(opcode uint16, d *decoder) {
	if opcode != callbackEvtDone {
		return
	}
	delete(s.c.objects, s.frameCB)
	s.frameCB = 0
	s.c.queueEvent(events.FrameDone{Target: s.ID(), Time: d.uint32()})
}

func decodeState(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
