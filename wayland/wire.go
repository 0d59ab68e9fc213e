// Copyright (c) 2026, The Wayshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wayland

import "encoding/binary"

// Wire format: every message is a 32-bit object id, then a 32-bit word
// holding the message size in bytes (including the 8-byte header) in
// the upper half and the opcode in the lower half, then the arguments.
// All words are in the host's byte order; like every practical client
// we assume little-endian.

const headerSize = 8

// fixed is the protocol's signed 24.8 fixed-point number.
type fixed int32

func (f fixed) float32() float32 {
	return float32(f) / 256
}

// encoder builds one message body. Arguments are appended in protocol
// order; the header is prepended on send.
type encoder struct {
	buf []byte
}

func (e *encoder) putUint32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

func (e *encoder) putInt32(v int32) {
	e.putUint32(uint32(v))
}

// putString appends a string argument: 32-bit length including the NUL
// terminator, the bytes, the NUL, padded to a 32-bit boundary.
func (e *encoder) putString(s string) {
	e.putUint32(uint32(len(s) + 1))
	e.buf = append(e.buf, s...)
	e.buf = append(e.buf, 0)
	for len(e.buf)%4 != 0 {
		e.buf = append(e.buf, 0)
	}
}

// decoder reads arguments out of one message body. Reads past the end
// return zero values and set truncated; the dispatcher treats a
// truncated message as a protocol error.
type decoder struct {
	data      []byte
	off       int
	truncated bool
}

func (d *decoder) uint32() uint32 {
	if d.off+4 > len(d.data) {
		d.truncated = true
		return 0
	}
	v := binary.LittleEndian.Uint32(d.data[d.off:])
	d.off += 4
	return v
}

func (d *decoder) int32() int32 {
	return int32(d.uint32())
}

func (d *decoder) fixed() fixed {
	return fixed(d.int32())
}

func (d *decoder) string() string {
	n := int(d.uint32())
	if n == 0 {
		return ""
	}
	// Validate the declared length before any arithmetic on it: a
	// corrupt length must set truncated, never slice out of range.
	// The n < 0 case covers 32-bit ints wrapping on a huge length.
	if n < 0 || n > len(d.data)-d.off {
		d.truncated = true
		return ""
	}
	pad := (4 - n%4) % 4
	if n+pad > len(d.data)-d.off {
		d.truncated = true
		return ""
	}
	s := string(d.data[d.off : d.off+n-1]) // strip the NUL
	d.off += n + pad
	return s
}

// array returns the raw bytes of an array argument.
func (d *decoder) array() []byte {
	n := int(d.uint32())
	if n < 0 || n > len(d.data)-d.off {
		d.truncated = true
		return nil
	}
	pad := (4 - n%4) % 4
	if n+pad > len(d.data)-d.off {
		d.truncated = true
		return nil
	}
	b := d.data[d.off : d.off+n]
	d.off += n + pad
	return b
}
