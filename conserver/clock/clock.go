// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-02 12:05 (EST)
// Function: conserver time

package clock

import (
	"sync"
	"time"
)

var lock sync.RWMutex
var fixed *time.Time

func Unix() int64 {
	return Now().Unix()
}

func Now() time.Time {

	lock.RLock()
	defer lock.RUnlock()

	if fixed != nil {
		return *fixed
	}
	return time.Now()
}

// Set pins the clock, for tests. a zero time releases it.
func Set(t time.Time) {

	lock.Lock()
	defer lock.Unlock()

	if t.IsZero() {
		fixed = nil
		return
	}
	fixed = &t
}
