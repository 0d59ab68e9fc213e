// Copyright (c) 2026, The Wayshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wayland

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoderStringPadding(t *testing.T) {
	var e encoder
	e.putString("hi")

	// Length word counts the NUL; the body pads to a 32-bit boundary.
	require.Len(t, e.buf, 8)
	assert.Equal(t, []byte{3, 0, 0, 0, 'h', 'i', 0, 0}, e.buf)

	e = encoder{}
	e.putString("abc") // exactly fills the word with its NUL
	assert.Len(t, e.buf, 8)
}

func TestEncoderDecoderStringRoundTrip(t *testing.T) {
	var e encoder
	e.putString("xdg_wm_base")
	e.putUint32(42)

	d := decoder{data: e.buf}
	assert.Equal(t, "xdg_wm_base", d.string())
	assert.Equal(t, uint32(42), d.uint32())
	assert.False(t, d.truncated)
}

func TestFixedToFloat(t *testing.T) {
	assert.Equal(t, float32(1.5), fixed(384).float32())
	assert.Equal(t, float32(-0.25), fixed(-64).float32())
	assert.Equal(t, float32(0), fixed(0).float32())
}

func TestDecoderTruncation(t *testing.T) {
	d := decoder{data: []byte{1, 0}}
	assert.Equal(t, uint32(0), d.uint32())
	assert.True(t, d.truncated)

	// A string whose declared length runs past the body.
	d = decoder{data: []byte{200, 0, 0, 0, 'x'}}
	assert.Equal(t, "", d.string())
	assert.True(t, d.truncated)
}

func TestDecoderCorruptLength(t *testing.T) {
	// A hostile or corrupt length near the uint32 maximum must set
	// truncated, not slice out of range.
	d := decoder{data: []byte{0xff, 0xff, 0xff, 0xff, 0, 0, 0, 0}}
	assert.NotPanics(t, func() {
		assert.Equal(t, "", d.string())
	})
	assert.True(t, d.truncated)

	d = decoder{data: []byte{0xff, 0xff, 0xff, 0xff, 0, 0, 0, 0}}
	assert.NotPanics(t, func() {
		assert.Nil(t, d.array())
	})
	assert.True(t, d.truncated)

	// A length whose padding pushes it past the body is caught too.
	d = decoder{data: []byte{7, 0, 0, 0, 'a', 'b', 'c', 'd', 'e', 'f', 0}}
	assert.Equal(t, "", d.string())
	assert.True(t, d.truncated)
}

func TestSendRequestFraming(t *testing.T) {
	c := newTestConn()
	c.sendRequest(4, 2, func(e *encoder) {
		e.putUint32(7)
	})

	// Header: object id word, then size<<16|opcode.
	require.Len(t, c.out, 12)
	assert.Equal(t, []byte{4, 0, 0, 0}, c.out[:4])
	assert.Equal(t, []byte{2, 0, 12, 0}, c.out[4:8])
	assert.Equal(t, []byte{7, 0, 0, 0}, c.out[8:])
}

func TestSendRequestNoArguments(t *testing.T) {
	c := newTestConn()
	c.sendRequest(9, 6, nil)

	require.Len(t, c.out, headerSize)
	assert.Equal(t, []byte{9, 0, 0, 0, 6, 0, 8, 0}, c.out)
}
