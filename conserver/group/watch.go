// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-09 09:40 (EDT)
// Function: descriptor read/write interest

package group

import (
	"golang.org/x/sys/unix"
)

// Watcher tracks the descriptors the i/o loop selects on
type Watcher struct {
	R     unix.FdSet
	W     unix.FdSet
	MaxFD int // highest fd + 1
}

// fits reports whether fd can go in a select set
func (w *Watcher) fits(fd int) bool {

	if fd < 0 {
		return false
	}
	if fd >= len(w.R.Bits)*64 {
		dl.Problem("fd %d beyond the select limit, not watched", fd)
		return false
	}
	return true
}

func (w *Watcher) Zero() {
	w.R.Zero()
	w.W.Zero()
	w.MaxFD = 0
}

// Watch marks fd for read, and optionally write, readiness
func (w *Watcher) Watch(fd int, write bool) {

	if !w.fits(fd) {
		return
	}

	w.R.Set(fd)
	if write {
		w.W.Set(fd)
	}
	if w.MaxFD < fd+1 {
		w.MaxFD = fd + 1
	}
}

// WatchWrite marks only the write side
func (w *Watcher) WatchWrite(fd int) {

	if !w.fits(fd) {
		return
	}
	w.W.Set(fd)
	if w.MaxFD < fd+1 {
		w.MaxFD = fd + 1
	}
}

func (w *Watcher) IsSet(fd int) (r bool, wr bool) {

	if fd < 0 || fd >= len(w.R.Bits)*64 {
		return false, false
	}
	return w.R.IsSet(fd), w.W.IsSet(fd)
}
