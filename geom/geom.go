// Copyright (c) 2026, The Wayshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package geom provides the logical window geometry types used throughout
// wayshell: sizes in density-independent units, scale factors, and the
// conversions between logical and device-pixel space.
package geom

import (
	"fmt"
	"image"

	"github.com/chewxy/math32"
)

// Size is a window size in logical (density-independent) units.
type Size struct {
	Width  float32
	Height float32
}

// Sz returns a new [Size] with the given dimensions.
func Sz(width, height float32) Size {
	return Size{Width: width, Height: height}
}

func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.Width, s.Height)
}

// IsZero reports whether both dimensions are zero.
func (s Size) IsZero() bool {
	return s.Width == 0 && s.Height == 0
}

// Scale is the ratio of device pixels to logical units.
// A valid Scale is always greater than zero.
type Scale float32

// ToPixels converts a logical size to device pixels at the given scale,
// rounding each axis half away from zero.
func (s Size) ToPixels(scale Scale) image.Point {
	return image.Point{
		X: int(math32.Round(s.Width * float32(scale))),
		Y: int(math32.Round(s.Height * float32(scale))),
	}
}

// SizeFromPixels converts a device-pixel size to logical units
// at the given scale.
func SizeFromPixels(px image.Point, scale Scale) Size {
	return Size{
		Width:  float32(px.X) / float32(scale),
		Height: float32(px.Y) / float32(scale),
	}
}

// Rescale converts a logical size from one scale factor to another by
// round-tripping through device-pixel space. Going through the pixel
// intermediate, rather than multiplying by the scale ratio directly,
// keeps repeated scale changes from accumulating rounding drift: the
// pixel size is the ground truth the compositor sees.
func Rescale(s Size, old, new Scale) Size {
	return SizeFromPixels(s.ToPixels(old), new)
}

// Region is the damaged area of a window in logical coordinates,
// relative to the window's top-left corner. Partial damage tracking
// does not exist yet, so every Region produced by the dispatcher
// covers the whole surface.
type Region struct {
	X      float32
	Y      float32
	Width  float32
	Height float32
}

// FullRegion returns a Region covering an entire surface of the given size.
func FullRegion(s Size) Region {
	return Region{Width: s.Width, Height: s.Height}
}
