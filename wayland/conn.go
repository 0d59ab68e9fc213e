// Copyright (c) 2026, The Wayshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wayland is the real protocol transport behind wayshell: a
// pure-Go Wayland client speaking just enough of the core, xdg-shell,
// and decoration protocols to create windows, relay their lifecycle
// events, and route pointer input by seat.
package wayland

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/wayshell/wayshell"
	"github.com/wayshell/wayshell/events"
)

// ErrMissingGlobal is returned from [Connect] when the compositor does
// not advertise a protocol global this transport requires.
var ErrMissingGlobal = errors.New("required protocol global missing")

// eventHandler consumes one inbound event for one protocol object.
type eventHandler func(opcode uint16, d *decoder)

type global struct {
	name    uint32
	version uint32
}

// Conn is a connection to a Wayland compositor. It implements
// [wayshell.Transport]. Apart from Wake, a Conn is confined to the
// dispatch goroutine.
type Conn struct {
	sock   *net.UnixConn
	sockFD int
	wakeFD int

	out []byte // buffered outbound requests
	in  []byte // unparsed inbound bytes

	nextID  uint32
	objects map[uint32]eventHandler
	globals map[string]global

	// pending holds translated events awaiting the next Pump delivery.
	pending []events.Event

	// err is the sticky fatal connection error.
	err error

	registry   uint32
	compositor uint32
	wmBase     uint32
	decoMgr    uint32 // zero when the compositor offers no decoration protocol
	seats      []*seat
}

var _ wayshell.Transport = (*Conn)(nil)

// Connect dials the compositor named by WAYLAND_DISPLAY in
// XDG_RUNTIME_DIR and binds the globals wayshell needs. A missing
// wl_compositor or xdg_wm_base is reported as [ErrMissingGlobal];
// a missing decoration manager or seat is not an error.
func Connect() (*Conn, error) {
	path := os.Getenv("WAYLAND_DISPLAY")
	if path == "" {
		path = "wayland-0"
	}
	if !filepath.IsAbs(path) {
		dir := os.Getenv("XDG_RUNTIME_DIR")
		if dir == "" {
			return nil, errors.New("connect to compositor: XDG_RUNTIME_DIR is not set")
		}
		path = filepath.Join(dir, path)
	}

	nc, err := net.Dial("unix", path)
	if err != nil {
		return nil, fmt.Errorf("connect to compositor: %w", err)
	}
	sock := nc.(*net.UnixConn)

	sockFD, err := connFD(sock)
	if err != nil {
		sock.Close()
		return nil, err
	}
	wakeFD, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		sock.Close()
		return nil, fmt.Errorf("create wake eventfd: %w", err)
	}

	c := &Conn{
		sock:    sock,
		sockFD:  sockFD,
		wakeFD:  wakeFD,
		nextID:  1, // display is 1; newID starts handing out 2
		objects: map[uint32]eventHandler{},
		globals: map[string]global{},
	}
	c.objects[displayID] = c.displayEvent

	if err := c.setup(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func connFD(sock *net.UnixConn) (int, error) {
	raw, err := sock.SyscallConn()
	if err != nil {
		return 0, fmt.Errorf("connect to compositor: %w", err)
	}
	fd := -1
	if err := raw.Control(func(f uintptr) { fd = int(f) }); err != nil {
		return 0, fmt.Errorf("connect to compositor: %w", err)
	}
	return fd, nil
}

// setup runs the registry dance and binds required globals.
func (c *Conn) setup() error {
	c.registry = c.newID()
	c.objects[c.registry] = c.registryEvent
	c.sendRequest(displayID, displayGetRegistry, func(e *encoder) {
		e.putUint32(c.registry)
	})
	if err := c.roundTrip(); err != nil {
		return fmt.Errorf("initial registry sync: %w", err)
	}

	g, ok := c.globals[ifaceCompositor]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingGlobal, ifaceCompositor)
	}
	c.compositor = c.bind(g, ifaceCompositor, min(g.version, bindVersionCompositor))

	g, ok = c.globals[ifaceWmBase]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingGlobal, ifaceWmBase)
	}
	c.wmBase = c.bind(g, ifaceWmBase, min(g.version, bindVersionWmBase))
	c.objects[c.wmBase] = c.wmBaseEvent

	if g, ok = c.globals[ifaceDecorationMgr]; ok {
		c.decoMgr = c.bind(g, ifaceDecorationMgr, bindVersionDecoration)
	} else {
		slog.Debug("wayland: compositor offers no decoration protocol")
	}
	return c.flush()
}

func (c *Conn) newID() uint32 {
	c.nextID++
	return c.nextID
}

// sendRequest frames one request into the outbound buffer. build
// appends the arguments; it may be nil for argument-less requests.
func (c *Conn) sendRequest(obj uint32, opcode uint16, build func(e *encoder)) {
	var e encoder
	if build != nil {
		build(&e)
	}
	size := headerSize + len(e.buf)
	c.out = binary.LittleEndian.AppendUint32(c.out, obj)
	c.out = binary.LittleEndian.AppendUint32(c.out, uint32(size)<<16|uint32(opcode))
	c.out = append(c.out, e.buf...)
}

func (c *Conn) flush() error {
	if c.err != nil {
		return c.err
	}
	for len(c.out) > 0 {
		n, err := c.sock.Write(c.out)
		if err != nil {
			c.err = fmt.Errorf("write to compositor: %w", err)
			return c.err
		}
		c.out = c.out[n:]
	}
	c.out = nil
	return nil
}

// bind binds a registry global to a fresh object id.
func (c *Conn) bind(g global, iface string, version uint32) uint32 {
	id := c.newID()
	c.sendRequest(c.registry, registryBind, func(e *encoder) {
		e.putUint32(g.name)
		e.putString(iface)
		e.putUint32(version)
		e.putUint32(id)
	})
	return id
}

// roundTrip issues a wl_display.sync and blocks until its callback
// returns, processing everything that arrives in between.
func (c *Conn) roundTrip() error {
	done := false
	cb := c.newID()
	c.objects[cb] = func(uint16, *decoder) {
		done = true
		delete(c.objects, cb)
	}
	c.sendRequest(displayID, displaySync, func(e *encoder) {
		e.putUint32(cb)
	})
	if err := c.flush(); err != nil {
		return err
	}
	for !done && c.err == nil {
		if err := c.read(); err != nil {
			return err
		}
		c.dispatchBuffered()
	}
	return c.err
}

// read blocks for one chunk of inbound bytes.
func (c *Conn) read() error {
	var buf [4096]byte
	n, err := c.sock.Read(buf[:])
	if err != nil {
		c.err = fmt.Errorf("read from compositor: %w", err)
		return c.err
	}
	c.in = append(c.in, buf[:n]...)
	return nil
}

// dispatchBuffered decodes and dispatches every complete message in
// the inbound buffer.
func (c *Conn) dispatchBuffered() {
	for c.err == nil && len(c.in) >= headerSize {
		obj := binary.LittleEndian.Uint32(c.in)
		sizeOp := binary.LittleEndian.Uint32(c.in[4:])
		size := int(sizeOp >> 16)
		opcode := uint16(sizeOp & 0xffff)
		if size < headerSize {
			c.err = fmt.Errorf("protocol error: message size %d below header size", size)
			return
		}
		if len(c.in) < size {
			return // partial message; wait for more bytes
		}
		d := decoder{data: c.in[headerSize:size]}
		c.in = c.in[size:]

		h, ok := c.objects[obj]
		if !ok {
			// Events for objects we already destroyed still drain
			// from the socket; that is normal.
			continue
		}
		h(opcode, &d)
		if d.truncated {
			c.err = fmt.Errorf("protocol error: truncated event, object %d opcode %d", obj, opcode)
		}
	}
}

func (c *Conn) displayEvent(opcode uint16, d *decoder) {
	switch opcode {
	case displayEvtError:
		obj := d.uint32()
		code := d.uint32()
		msg := d.string()
		c.err = fmt.Errorf("compositor error on object %d (code %d): %s", obj, code, msg)
	case displayEvtDeleteID:
		delete(c.objects, d.uint32())
	}
}

func (c *Conn) registryEvent(opcode uint16, d *decoder) {
	switch opcode {
	case registryEvtGlobal:
		name := d.uint32()
		iface := d.string()
		version := d.uint32()
		c.globals[iface] = global{name: name, version: version}
		if iface == ifaceSeat {
			c.addSeat(global{name: name, version: version})
		}
	case registryEvtGlobalRemove:
		name := d.uint32()
		for i, s := range c.seats {
			if s.name == name {
				s.remove()
				c.seats = append(c.seats[:i], c.seats[i+1:]...)
				break
			}
		}
	}
}

func (c *Conn) wmBaseEvent(opcode uint16, d *decoder) {
	if opcode == wmBaseEvtPing {
		serial := d.uint32()
		c.sendRequest(c.wmBase, wmBasePong, func(e *encoder) {
			e.putUint32(serial)
		})
	}
}

// queueEvent stages a translated event for the next delivery.
func (c *Conn) queueEvent(ev events.Event) {
	c.pending = append(c.pending, ev)
}

// Pump implements [wayshell.Transport]. It flushes buffered requests,
// waits for inbound protocol data or a wake, and delivers every
// translated event in arrival order.
func (c *Conn) Pump(deliver func(events.Event)) error {
	if c.err != nil {
		return c.err
	}
	if err := c.flush(); err != nil {
		return err
	}
	c.dispatchBuffered()

	if len(c.pending) == 0 && c.err == nil {
		readable, err := c.wait()
		if err != nil {
			c.err = err
			return err
		}
		if readable {
			if err := c.read(); err != nil {
				return err
			}
			c.dispatchBuffered()
		}
	}
	if c.err != nil {
		return c.err
	}

	evs := c.pending
	c.pending = nil
	for _, ev := range evs {
		deliver(ev)
	}
	return c.err
}

// wait blocks until the socket is readable or the wake fd fires. It
// reports whether the socket has data.
func (c *Conn) wait() (readable bool, err error) {
	fds := []unix.PollFd{
		{Fd: int32(c.sockFD), Events: unix.POLLIN},
		{Fd: int32(c.wakeFD), Events: unix.POLLIN},
	}
	for {
		_, err := unix.Poll(fds, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("poll compositor socket: %w", err)
		}
		break
	}
	if fds[1].Revents&unix.POLLIN != 0 {
		var buf [8]byte
		unix.Read(c.wakeFD, buf[:]) // reset the eventfd counter
	}
	if fds[0].Revents&(unix.POLLERR|unix.POLLHUP) != 0 {
		return false, errors.New("compositor closed the connection")
	}
	return fds[0].Revents&unix.POLLIN != 0, nil
}

// Wake implements [wayshell.Transport]. It is safe from any goroutine.
func (c *Conn) Wake() {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], 1)
	unix.Write(c.wakeFD, buf[:])
}

// Close implements [wayshell.Transport].
func (c *Conn) Close() error {
	unix.Close(c.wakeFD)
	return c.sock.Close()
}
