// Copyright (c) 2026, The Wayshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wayshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wayshell/wayshell/events"
	"github.com/wayshell/wayshell/geom"
)

func TestNewAppNilTransport(t *testing.T) {
	_, err := NewApp(nil)
	assert.Error(t, err)
}

// TestEndToEnd walks the whole window lifetime: build at 800x600, show,
// one configure and one frame from the compositor, exactly one paint
// covering the full surface, close from inside the paint callback,
// loop stops because the last window is gone.
func TestEndToEnd(t *testing.T) {
	tr := newFakeTransport()
	app, err := NewApp(tr)
	require.NoError(t, err)

	h := &recordingHandler{}
	h.onPaint = func() { h.handle.Close() }

	wh, err := app.NewWindow().
		SetTitle("demo").
		SetSize(geom.Sz(800, 600)).
		SetHandler(h).
		Build()
	require.NoError(t, err)

	wh.Show()
	tr.push(
		events.Configure{Target: wh.ID(), Serial: 1},
		events.FrameDone{Target: wh.ID(), Time: 16},
	)

	require.NoError(t, app.Run())

	assert.Equal(t, 1, h.paints)
	require.Len(t, h.regions, 1)
	assert.Equal(t, geom.FullRegion(geom.Sz(800, 600)), h.regions[0])
	assert.Equal(t, 1, h.destroys)
	assert.True(t, app.windows.empty())
	assert.True(t, tr.surfaces[0].destroyed)
}

func TestQuitFromOtherGoroutine(t *testing.T) {
	tr := newFakeTransport()
	app, err := NewApp(tr)
	require.NoError(t, err)
	_, err = app.NewWindow().SetHandler(&recordingHandler{}).Build()
	require.NoError(t, err)

	go app.Handle().Quit()
	require.NoError(t, app.Run())
}

func TestRunOnMain(t *testing.T) {
	tr := newFakeTransport()
	app, err := NewApp(tr)
	require.NoError(t, err)

	ran := false
	app.Handle().RunOnMain(func(a *App) {
		ran = true
		a.Quit()
	})

	require.NoError(t, app.Run())
	assert.True(t, ran)
}

func TestRunReturnsTransportError(t *testing.T) {
	tr := newFakeTransport()
	tr.pumpErr = errors.New("connection reset")
	app, err := NewApp(tr)
	require.NoError(t, err)

	err = app.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, tr.pumpErr)
}

func TestEnqueueAfterStopIsSwallowed(t *testing.T) {
	buf := captureLogs(t)
	app, _, _, wh := newTestWindow(t, geom.Sz(800, 600))

	app.Quit()
	require.NoError(t, app.Run())

	// The loop is gone; handle operations must log and do nothing.
	wh.Close()
	wh.SetSize(geom.Sz(1, 1))
	app.Handle().RunOnMain(func(*App) {})

	assert.Equal(t, uint64(0), app.actions.Len())
	assert.Equal(t, uint64(0), app.idles.Len())
	assert.Contains(t, buf.String(), "event loop has stopped")
}

func TestUnboundAppHandle(t *testing.T) {
	buf := captureLogs(t)
	var h AppHandle
	h.RunOnMain(func(*App) {})
	h.Quit()
	assert.Contains(t, buf.String(), "unbound app handle")
}

func TestIdleRunsAfterNativeEvents(t *testing.T) {
	tr := newFakeTransport()
	app, err := NewApp(tr)
	require.NoError(t, err)

	var order []string
	h := &recordingHandler{}
	wh, err := app.NewWindow().SetHandler(h).Build()
	require.NoError(t, err)

	ih := wh.IdleHandle()
	require.NotNil(t, ih)
	ih.AddCallback(func(Handler) { order = append(order, "idle") })
	h.onRequestClose = func() { order = append(order, "native") }

	tr.push(events.CloseRequested{Target: wh.ID()})
	app.Handle().RunOnMain(func(a *App) { a.Quit() })

	require.NoError(t, app.Run())

	// Idle work scheduled before the native event still runs after
	// every native event of the iteration.
	assert.Equal(t, []string{"native", "idle"}, order)
}
