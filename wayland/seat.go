// Copyright (c) 2026, The Wayshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wayland

import (
	"log/slog"

	"github.com/wayshell/wayshell/events"
)

// seat is one wl_seat and its pointer and keyboard, if the seat has
// them. Pointer events arrive as a burst terminated by a frame event;
// the burst is accumulated and released as one batch so the dispatcher
// never sees a half-applied pointer update. Key events carry no frame
// grouping and are released as they arrive.
type seat struct {
	c       *Conn
	name    uint32 // registry global name, doubles as the seat identity
	id      uint32
	version uint32

	pointer  uint32 // zero until the seat advertises pointer capability
	keyboard uint32 // zero until the seat advertises keyboard capability

	// focus is the wl_surface the pointer is inside, zero when outside
	// every surface we own.
	focus uint32
	px    float32
	py    float32

	// kbFocus is the wl_surface with keyboard focus, zero when none.
	kbFocus uint32

	// batch collects the current pointer burst until its frame event.
	batch []events.Pointer
}

func (c *Conn) addSeat(g global) {
	s := &seat{c: c, name: g.name, version: min(g.version, bindVersionSeat)}
	s.id = c.bind(g, ifaceSeat, s.version)
	c.objects[s.id] = s.seatEvent
	c.seats = append(c.seats, s)
}

func (s *seat) seatID() events.SeatID {
	return events.SeatID(s.name)
}

func (s *seat) seatEvent(opcode uint16, d *decoder) {
	switch opcode {
	case seatEvtCapabilities:
		caps := d.uint32()
		hasPointer := caps&seatCapabilityPointer != 0
		switch {
		case hasPointer && s.pointer == 0:
			s.pointer = s.c.newID()
			s.c.objects[s.pointer] = s.pointerEvent
			s.c.sendRequest(s.id, seatGetPointer, func(e *encoder) {
				e.putUint32(s.pointer)
			})
		case !hasPointer && s.pointer != 0:
			s.releasePointer()
		}
		hasKeyboard := caps&seatCapabilityKeyboard != 0
		switch {
		case hasKeyboard && s.keyboard == 0:
			s.keyboard = s.c.newID()
			s.c.objects[s.keyboard] = s.keyboardEvent
			s.c.sendRequest(s.id, seatGetKeyboard, func(e *encoder) {
				e.putUint32(s.keyboard)
			})
		case !hasKeyboard && s.keyboard != 0:
			s.releaseKeyboard()
		}
	case seatEvtName:
		slog.Debug("wayland: seat announced", "seat", s.seatID(), "name", d.string())
	}
}

func (s *seat) releasePointer() {
	if s.version >= 3 { // wl_pointer.release exists since v3
		s.c.sendRequest(s.pointer, pointerRelease, nil)
	}
	delete(s.c.objects, s.pointer)
	s.pointer = 0
	s.focus = 0
	s.batch = nil
}

func (s *seat) releaseKeyboard() {
	if s.version >= 3 { // wl_keyboard.release exists since v3
		s.c.sendRequest(s.keyboard, keyboardRelease, nil)
	}
	delete(s.c.objects, s.keyboard)
	s.keyboard = 0
	s.kbFocus = 0
}

// remove handles the seat's registry global disappearing.
func (s *seat) remove() {
	if s.pointer != 0 {
		s.releasePointer()
	}
	if s.keyboard != 0 {
		s.releaseKeyboard()
	}
	if s.version >= 5 { // wl_seat.release exists since v5
		s.c.sendRequest(s.id, seatRelease, nil)
	}
	delete(s.c.objects, s.id)
}

// surfaceGone drops any input focus referring to a destroyed surface.
func (s *seat) surfaceGone(wlSurface uint32) {
	if s.focus == wlSurface {
		s.focus = 0
		s.batch = nil
	}
	if s.kbFocus == wlSurface {
		s.kbFocus = 0
	}
}

// keyboardEvent translates raw key input. Only surface and seat
// identity routing happens here: the keymap event's content (delivered
// out of band as a file descriptor) is not consumed, and keycodes pass
// through as reported.
func (s *seat) keyboardEvent(opcode uint16, d *decoder) {
	switch opcode {
	case keyboardEvtEnter:
		d.uint32() // serial
		s.kbFocus = d.uint32()
	case keyboardEvtLeave:
		d.uint32() // serial
		if d.uint32() == s.kbFocus {
			s.kbFocus = 0
		}
	case keyboardEvtKey:
		d.uint32() // serial
		t := d.uint32()
		key := d.uint32()
		state := d.uint32()
		if s.kbFocus == 0 {
			return
		}
		s.c.queueEvent(events.Key{
			Target:  events.SurfaceID(s.kbFocus),
			Seat:    s.seatID(),
			Time:    t,
			Keycode: key,
			Pressed: state == 1,
		})
	}
}

func (s *seat) pointerEvent(opcode uint16, d *decoder) {
	switch opcode {
	case pointerEvtEnter:
		d.uint32() // serial
		s.focus = d.uint32()
		s.px = d.fixed().float32()
		s.py = d.fixed().float32()
		// The entry position is reported as the first motion.
		s.push(events.PointerMove, 0)
	case pointerEvtLeave:
		d.uint32() // serial
		left := d.uint32()
		if left == s.focus {
			s.push(events.PointerLeave, 0)
			s.flush()
			s.focus = 0
		}
	case pointerEvtMotion:
		t := d.uint32()
		s.px = d.fixed().float32()
		s.py = d.fixed().float32()
		s.push(events.PointerMove, t)
	case pointerEvtButton:
		d.uint32() // serial
		t := d.uint32()
		button := d.uint32()
		state := d.uint32()
		if s.focus == 0 {
			return
		}
		s.batch = append(s.batch, events.Pointer{
			Target:  events.SurfaceID(s.focus),
			Seat:    s.seatID(),
			Kind:    events.PointerButton,
			Time:    t,
			X:       s.px,
			Y:       s.py,
			Button:  button,
			Pressed: state == 1,
		})
	case pointerEvtFrame:
		s.flush()
	}
	// Seats older than v5 never send frame events; release each event
	// as its own burst.
	if s.version < 5 {
		s.flush()
	}
}

func (s *seat) push(kind events.PointerKind, t uint32) {
	if s.focus == 0 {
		return
	}
	s.batch = append(s.batch, events.Pointer{
		Target: events.SurfaceID(s.focus),
		Seat:   s.seatID(),
		Kind:   kind,
		Time:   t,
		X:      s.px,
		Y:      s.py,
	})
}

// flush releases the accumulated burst to the connection's event queue.
func (s *seat) flush() {
	for _, ev := range s.batch {
		s.c.queueEvent(ev)
	}
	s.batch = nil
}
