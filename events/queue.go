// Copyright (c) 2026, The Wayshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package events

import (
	"sync"
	"sync/atomic"
)

// Queue is a lock-free FIFO freelist-based queue. It is safe for any
// number of concurrent senders; receiving is safe concurrently too,
// though wayshell always drains from a single goroutine. It must be
// created with [NewQueue]. The algorithm is the classic Michael-Scott
// queue with a freelist, as used in
// https://github.com/fyne-io/fyne/blob/master/internal/async/queue_canvasobject.go
type Queue[T any] struct {
	head atomic.Pointer[node[T]]
	tail atomic.Pointer[node[T]]
	len  atomic.Uint64
	pool sync.Pool
}

type node[T any] struct {
	next atomic.Pointer[node[T]]
	v    T
}

// NewQueue creates a new empty [Queue].
func NewQueue[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.pool.New = func() any { return &node[T]{} }
	head := &node[T]{}
	q.head.Store(head)
	q.tail.Store(head)
	return q
}

// Send adds a value to the end of the queue.
func (q *Queue[T]) Send(v T) {
	n := q.pool.Get().(*node[T])
	n.next.Store(nil)
	n.v = v

	for {
		last := q.tail.Load()
		lastnext := last.next.Load()
		if q.tail.Load() == last {
			if lastnext == nil {
				if last.next.CompareAndSwap(lastnext, n) {
					q.tail.CompareAndSwap(last, n)
					q.len.Add(1)
					return
				}
			} else {
				q.tail.CompareAndSwap(last, lastnext)
			}
		}
	}
}

// Next removes and returns the next value in the queue.
// It returns the zero value and false if the queue is empty.
func (q *Queue[T]) Next() (T, bool) {
	var zero T
	for {
		first := q.head.Load()
		last := q.tail.Load()
		firstnext := first.next.Load()
		if first == q.head.Load() {
			if first == last {
				if firstnext == nil {
					return zero, false
				}
				q.tail.CompareAndSwap(last, firstnext)
			} else {
				v := firstnext.v
				if q.head.CompareAndSwap(first, firstnext) {
					q.len.Add(^uint64(0))
					first.v = zero // do not retain values (closures) in the freelist
					q.pool.Put(first)
					return v, true
				}
			}
		}
	}
}

// Len returns the number of values in the queue.
func (q *Queue[T]) Len() uint64 {
	return q.len.Load()
}
