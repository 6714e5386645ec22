// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync"
)

// Waiter waits for a signal.
type Waiter interface {
	C() <-chan bool
}

// Signal wakes up waiters. The zero value is ready to use.
type Signal struct {
	mu sync.Mutex
	ch chan bool
}

func (s *Signal) current() chan bool {
	if s.ch == nil {
		s.ch = make(chan bool, 1)
	}
	return s.ch
}

// Signal wakes one waiter, or the next one to wait.
func (s *Signal) Signal() {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case s.current() <- true:
	default:
	}
}

// Broadcast wakes every waiter created before the call.
func (s *Signal) Broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()

	close(s.current())
	s.ch = make(chan bool, 1)
}

// NewWaiter returns a waiter. After each wake-up the waiter follows the signal's
// current channel.
func (s *Signal) NewWaiter() Waiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &waiter{sig: s, ch: s.current()}
}

type waiter struct {
	sig *Signal
	ch  chan bool
}

func (w *waiter) C() <-chan bool {
	ch := w.ch

	w.sig.mu.Lock()
	w.ch = w.sig.current()
	w.sig.mu.Unlock()

	return ch
}
