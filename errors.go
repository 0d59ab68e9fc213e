// Copyright (c) 2026, The Wayshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wayshell

import "errors"

// ErrWindowClosed is returned by window handle operations that need a
// live window after the window has been closed, and by all fallible
// operations on the unbound zero-value handle.
var ErrWindowClosed = errors.New("window has been closed")
