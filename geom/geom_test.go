// Copyright (c) 2026, The Wayshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"image"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestToPixels(t *testing.T) {
	assert.Equal(t, image.Pt(800, 600), Sz(800, 600).ToPixels(1))
	assert.Equal(t, image.Pt(1600, 1200), Sz(800, 600).ToPixels(2))
	assert.Equal(t, image.Pt(1200, 900), Sz(800, 600).ToPixels(1.5))
	// half rounds away from zero
	assert.Equal(t, image.Pt(1201, 901), Sz(800.5, 600.5).ToPixels(1.5))
}

func TestSizeFromPixels(t *testing.T) {
	assert.Equal(t, Sz(800, 600), SizeFromPixels(image.Pt(1600, 1200), 2))
	assert.Equal(t, Sz(640, 480), SizeFromPixels(image.Pt(640, 480), 1))
}

// withinOnePixel asserts that two sizes differ by at most one device
// pixel on each axis at the given scale.
func withinOnePixel(t *testing.T, want, got Size, scale Scale) {
	t.Helper()
	wp := want.ToPixels(scale)
	gp := got.ToPixels(scale)
	assert.LessOrEqual(t, math32.Abs(float32(wp.X-gp.X)), float32(1))
	assert.LessOrEqual(t, math32.Abs(float32(wp.Y-gp.Y)), float32(1))
}

func TestRescaleRoundTrip(t *testing.T) {
	scales := []Scale{1, 1.25, 1.5, 2, 3}
	sizes := []Size{Sz(800, 600), Sz(1023, 767), Sz(333.5, 100.25)}
	for _, s1 := range scales {
		for _, s2 := range scales {
			for _, sz := range sizes {
				there := Rescale(sz, s1, s2)
				back := Rescale(there, s2, s1)
				withinOnePixel(t, sz, back, s1)
			}
		}
	}
}

func TestRescaleRepeated(t *testing.T) {
	// Drift must stay bounded across many alternating scale changes.
	sz := Sz(800, 600)
	cur := sz
	for i := 0; i < 100; i++ {
		cur = Rescale(cur, 1, 1.5)
		cur = Rescale(cur, 1.5, 1)
	}
	withinOnePixel(t, sz, cur, 1)
}

func TestFullRegion(t *testing.T) {
	r := FullRegion(Sz(800, 600))
	assert.Equal(t, Region{Width: 800, Height: 600}, r)
}
