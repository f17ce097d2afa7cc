// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-09 09:12 (EDT)
// Function: running consoles + groups

package group

import (
	"conserver.domain/conserver/console"
	"github.com/jaw0/acdiag"
)

// Stream is an open descriptor owned by a console (its connection,
// init command, or task)
type Stream struct {
	FD      int
	OutFD   int  // separate write side, or -1
	Pending bool // buffered output waiting
}

type Client struct {
	FD       int
	User     string // username
	Acid     string // user@host
	ReadOnly bool
	Writer   bool // holds write access
	Pending  bool // buffered output waiting
}

// Entry is a console being served. the config is replaced on reread,
// the runtime state is kept.
type Entry struct {
	Config    *console.Console
	Clients   []*Client
	CoFile    *Stream
	InitFile  *Stream
	TaskFile  *Stream
	InitPid   int
	LastWrite int64
	Nolog     bool
}

// Group is a bundle of consoles served by one worker
type Group struct {
	ID      int
	Pid     int
	Port    int
	Members []*Entry
	Control *Entry    // pseudo console holding clients not yet attached
	All     []*Client // every client of the group
	Free    []*Client
}

var dl = diag.Logger("group")

func newGroup(id int) *Group {
	return &Group{ID: id, Pid: -1}
}

func (g *Group) Len() int {
	return len(g.Members)
}

// remove takes e out of the member list
func (g *Group) remove(e *Entry) {

	for i, m := range g.Members {
		if m == e {
			g.Members = append(g.Members[:i], g.Members[i+1:]...)
			return
		}
	}
}

// stage copies the group identity, with empty member and client lists.
// the free list and control console move to the copy.
func (g *Group) stage() *Group {

	ng := &Group{
		ID:      g.ID,
		Pid:     g.Pid,
		Port:    g.Port,
		Control: g.Control,
		Free:    g.Free,
	}
	g.Control = nil
	g.Free = nil
	return ng
}

func (e *Entry) Name() string {
	return e.Config.Server
}

func (e *Entry) dropClient(cl *Client) {

	for i, c := range e.Clients {
		if c == cl {
			e.Clients = append(e.Clients[:i], e.Clients[i+1:]...)
			return
		}
	}
}

// FindEntry searches by name or alias
func FindEntry(groups []*Group, name string) (*Group, *Entry) {

	for _, g := range groups {
		for _, e := range g.Members {
			if e.Config.HasName(name) {
				return g, e
			}
		}
	}
	return nil, nil
}
