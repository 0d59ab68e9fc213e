// Copyright (c) 2026, The Wayshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wayland

// Request and event opcodes for the handful of interfaces this
// transport speaks, in the order the protocol XML declares them.

// wl_display (object id 1)
const (
	displayID = 1

	displaySync        = 0 // request: new_id wl_callback
	displayGetRegistry = 1 // request: new_id wl_registry

	displayEvtError    = 0 // object_id, code, message
	displayEvtDeleteID = 1 // id
)

// wl_registry
const (
	registryBind = 0 // name, interface, version, new_id

	registryEvtGlobal       = 0 // name, interface, version
	registryEvtGlobalRemove = 1 // name
)

// wl_callback
const callbackEvtDone = 0 // callback_data

// wl_compositor
const compositorCreateSurface = 0 // new_id wl_surface

// wl_surface
const (
	surfaceDestroy = 0
	surfaceFrame   = 3 // new_id wl_callback
	surfaceCommit  = 6

	surfaceEvtEnter                = 0
	surfaceEvtLeave                = 1
	surfaceEvtPreferredBufferScale = 2 // factor (since v6)
)

// xdg_wm_base
const (
	wmBaseDestroy       = 0
	wmBaseGetXdgSurface = 2 // new_id, wl_surface
	wmBasePong          = 3 // serial

	wmBaseEvtPing = 0 // serial
)

// xdg_surface
const (
	xdgSurfaceDestroy      = 0
	xdgSurfaceGetToplevel  = 1 // new_id
	xdgSurfaceAckConfigure = 4 // serial

	xdgSurfaceEvtConfigure = 0 // serial
)

// xdg_toplevel
const (
	toplevelDestroy         = 0
	toplevelSetTitle        = 2 // string
	toplevelSetAppID        = 3 // string
	toplevelSetMaximized    = 9
	toplevelUnsetMaximized  = 10
	toplevelSetFullscreen   = 11 // optional output object
	toplevelUnsetFullscreen = 12
	toplevelSetMinimized    = 13

	toplevelEvtConfigure = 0 // width, height, states array
	toplevelEvtClose     = 1
)

// xdg_toplevel configure states
const (
	toplevelStateMaximized = 1
	toplevelStateActivated = 4
)

// wl_seat
const (
	seatGetPointer  = 0 // new_id
	seatGetKeyboard = 1 // new_id
	seatRelease     = 3 // since v5

	seatEvtCapabilities = 0 // capability bitmask
	seatEvtName         = 1 // string

	seatCapabilityPointer  = 1
	seatCapabilityKeyboard = 2
)

// wl_pointer
const (
	pointerRelease = 1 // since v3

	pointerEvtEnter  = 0 // serial, surface, x, y
	pointerEvtLeave  = 1 // serial, surface
	pointerEvtMotion = 2 // time, x, y
	pointerEvtButton = 3 // serial, time, button, state
	pointerEvtAxis   = 4 // time, axis, value
	pointerEvtFrame  = 5 // since v5
)

// wl_keyboard
const (
	keyboardRelease = 0 // since v3

	keyboardEvtKeymap    = 0 // format, fd, size
	keyboardEvtEnter     = 1 // serial, surface, keys array
	keyboardEvtLeave     = 2 // serial, surface
	keyboardEvtKey       = 3 // serial, time, key, state
	keyboardEvtModifiers = 4
)

// zxdg_decoration_manager_v1 / zxdg_toplevel_decoration_v1
const (
	decorationMgrGetToplevelDecoration = 1 // new_id, xdg_toplevel

	decorationDestroy = 0
	decorationSetMode = 1 // mode

	decorationModeClient = 1
	decorationModeServer = 2
)

// Interface names and the versions this transport binds.
const (
	ifaceCompositor    = "wl_compositor"
	ifaceWmBase        = "xdg_wm_base"
	ifaceSeat          = "wl_seat"
	ifaceDecorationMgr = "zxdg_decoration_manager_v1"

	bindVersionCompositor = 6 // preferred_buffer_scale needs v6
	bindVersionWmBase     = 2
	bindVersionSeat       = 5 // pointer frame events need v5
	bindVersionDecoration = 1
)
