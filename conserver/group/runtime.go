// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-09 10:05 (EDT)
// Function: hooks into the i/o layer

package group

import (
	"fmt"
)

const (
	MsgReset   = "[-- Conserver reconfigured - console reset --]\r\n"
	MsgDenied  = "[Conserver reconfigured - access denied]\r\n"
	MsgRemoved = "[Conserver reconfigured - r/w access removed]\r\n"
	MsgGranted = "[Conserver reconfigured - r/w access granted]\r\n"
)

// Runtime is what the reconfiguration needs from the process that
// owns the connections
type Runtime interface {
	// Notify writes msg to one client
	Notify(cl *Client, msg string)
	// NotifyAll writes msg to every client of a console
	NotifyAll(e *Entry, msg string)
	// Disconnect drops a client
	Disconnect(g *Group, cl *Client, msg string)
	// ConsDown shuts the console connection so it gets reopened
	ConsDown(e *Entry)
	// Bump takes write access away from the current writer
	Bump(e *Entry)
	// TagLog writes an annotation to the console log
	TagLog(e *Entry, format string, args ...interface{})
	// FindWrite hands write access to another client, if one wants it
	FindWrite(e *Entry)
	// Spawn starts a worker for the group, setting Pid + Port
	Spawn(g *Group) error
}

type EventKind int

const (
	EV_SPAWN EventKind = iota + 1
	EV_MIGRATE
	EV_RESTART
	EV_REMOVE
)

func (k EventKind) String() string {
	switch k {
	case EV_SPAWN:
		return "spawn"
	case EV_MIGRATE:
		return "migrate"
	case EV_RESTART:
		return "restart"
	case EV_REMOVE:
		return "remove"
	}
	return fmt.Sprintf("event-%d", int(k))
}

func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *EventKind) UnmarshalText(b []byte) error {

	for _, v := range []EventKind{EV_SPAWN, EV_MIGRATE, EV_RESTART, EV_REMOVE} {
		if v.String() == string(b) {
			*k = v
			return nil
		}
	}
	return fmt.Errorf("unknown event kind `%s'", b)
}

// Event tells the ipc layer what a reconfiguration did
type Event struct {
	Kind    EventKind `cbor:"kind" yaml:"kind"`
	Group   int       `cbor:"group" yaml:"group"`
	Console string    `cbor:"console,omitempty" yaml:"console,omitempty"`
	Clients []int     `cbor:"clients,omitempty" yaml:"clients,omitempty"` // fds moved
	Fields  []string  `cbor:"fields,omitempty" yaml:"fields,omitempty"`   // what changed
}

// LogRuntime only logs. used where no connections exist.
type LogRuntime struct{}

func (LogRuntime) Notify(cl *Client, msg string) {
	dl.Debug("notify %s: %q", cl.Acid, msg)
}

func (LogRuntime) NotifyAll(e *Entry, msg string) {
	dl.Debug("notify all %s: %q", e.Name(), msg)
}

func (LogRuntime) Disconnect(g *Group, cl *Client, msg string) {
	dl.Verbose("group %d: disconnect %s", g.ID, cl.Acid)
}

func (LogRuntime) ConsDown(e *Entry) {
	dl.Verbose("[%s] console down", e.Name())
}

func (LogRuntime) Bump(e *Entry) {
	dl.Debug("[%s] bump", e.Name())
}

func (LogRuntime) TagLog(e *Entry, format string, args ...interface{}) {
	dl.Verbose("[%s] %s", e.Name(), fmt.Sprintf(format, args...))
}

func (LogRuntime) FindWrite(e *Entry) {}

func (LogRuntime) Spawn(g *Group) error {
	return nil
}
