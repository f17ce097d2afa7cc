// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-09 10:12 (EDT)
// Function: test descriptor interest

package group

import (
	"testing"
)

func TestWatch(t *testing.T) {

	w := &Watcher{}
	w.Watch(5, true)
	w.WatchWrite(6)

	if r, wr := w.IsSet(5); !r || !wr {
		t.Errorf("fd 5 %v %v", r, wr)
	}
	if r, wr := w.IsSet(6); r || !wr {
		t.Errorf("fd 6 %v %v", r, wr)
	}
	if w.MaxFD != 7 {
		t.Errorf("maxfd %d", w.MaxFD)
	}

	w.Zero()
	if r, wr := w.IsSet(5); r || wr || w.MaxFD != 0 {
		t.Errorf("not zeroed")
	}
}

func TestWatchLarge(t *testing.T) {

	w := &Watcher{}
	big := len(w.R.Bits)*64 + 476

	w.Watch(big, true)
	w.WatchWrite(big)
	w.Watch(-1, true)

	if r, wr := w.IsSet(big); r || wr {
		t.Errorf("large fd set %v %v", r, wr)
	}
	if r, wr := w.IsSet(-1); r || wr {
		t.Errorf("negative fd set")
	}
	if w.MaxFD != 0 {
		t.Errorf("maxfd %d", w.MaxFD)
	}
}
