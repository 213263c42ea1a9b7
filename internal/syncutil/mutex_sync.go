//go:build !deadlock

// Package syncutil provides the mutex types used to fence the modem's
// tick context off from foreground callers. The default build uses
// plain sync mutexes with zero overhead; build with -tags=deadlock to
// swap in github.com/sasha-s/go-deadlock and catch lock-order bugs
// between the tick loop and the blocking wait APIs.
package syncutil

import "sync"

// Mutex wraps sync.Mutex. Build with -tags=deadlock for deadlock detection.
//
//nolint:gocritic // Intentionally embedding sync.Mutex to expose its interface
type Mutex struct {
	sync.Mutex
}

// RWMutex wraps sync.RWMutex. Build with -tags=deadlock for deadlock detection.
//
//nolint:gocritic // Intentionally embedding sync.RWMutex to expose its interface
type RWMutex struct {
	sync.RWMutex
}
