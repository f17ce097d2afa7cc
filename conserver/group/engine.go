// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-09 11:02 (EDT)
// Function: apply a freshly compiled console list to the running groups

package group

import (
	"fmt"
	"strings"

	"conserver.domain/conserver/clock"
	"conserver.domain/conserver/console"
	"conserver.domain/conserver/conserver"
	"conserver.domain/conserver/users"
	"github.com/jaw0/acdiag"
)

// Timers are the earliest times the i/o loop needs to wake up for
type Timers struct {
	Idle int64 `cbor:"idle" yaml:"idle"`
	Roll int64 `cbor:"roll" yaml:"roll"`
}

type Engine struct {
	Master     bool
	MaxMembers int // per group. 0 = unlimited
	IsMe       func(string) bool
	Runtime    Runtime
	Watch      *Watcher
	ListenFD   int // re-watched on every pass, -1 for none

	Groups  []*Group
	Remotes []*Remote
	Uniq    []*Remote
	Timers  Timers
	Events  []Event

	nextID int
}

func NewEngine(master bool, maxMembers int, isMe func(string) bool, rt Runtime) *Engine {

	if rt == nil {
		rt = LogRuntime{}
	}
	return &Engine{
		Master:     master,
		MaxMembers: maxMembers,
		IsMe:       isMe,
		Runtime:    rt,
		Watch:      &Watcher{},
		ListenFD:   -1,
		nextID:     1,
	}
}

// pass holds the state of one reconfiguration
type pass struct {
	eng     *Engine
	startup bool
	old     []*Group
	fresh   []*Group
	staged  []*Group
	curr    *Group
}

// Reconfigure replaces the running configuration with consoles.
// consoles that are unchanged keep their connections untouched.
func (e *Engine) Reconfigure(consoles []*console.Console, admin users.List) error {

	p := &pass{
		eng:     e,
		startup: len(e.Groups) == 0 && len(e.Remotes) == 0,
		old:     e.Groups,
	}

	e.Groups = nil
	e.Remotes = nil
	e.Uniq = nil
	e.Events = nil
	e.Watch.Zero()
	if e.ListenFD > 0 {
		e.Watch.Watch(e.ListenFD, false)
	}

	for _, c := range consoles {
		p.add(c)
	}

	p.discard()

	// workers never gain consoles. the master keeps new non-empty groups
	for _, g := range p.fresh {
		if !e.Master || g.Len() == 0 {
			continue
		}
		e.Groups = append(e.Groups, g)
	}
	e.Groups = append(e.Groups, p.staged...)

	if !e.Master && len(e.Groups) != 0 {
		e.recheckAccess(admin)
	}

	if len(e.Groups) == 0 && len(e.Remotes) == 0 {
		if e.Master {
			return conserver.Errorf(conserver.ErrCodeNoConsoles, "no consoles found in configuration file")
		}
		return conserver.Errorf(conserver.ErrCodeNoConsoles, "no consoles to manage in child process after reconfiguration - child exiting")
	}

	if !e.Master {
		return nil
	}

	e.spawnAll()
	e.Uniq = FindUniq(e.Remotes)

	for _, r := range e.Uniq {
		diag.Verbose("peer server on `%s'", r.Host)
	}

	return nil
}

func (p *pass) add(c *console.Console) {

	e := p.eng

	if !e.IsMe(c.Master) {
		if e.Master {
			e.Remotes = append(e.Remotes, newRemote(c))
			dl.Debug("[%s] remote on %s", c.Server, c.Master)
		}
		return
	}

	var og *Group
	var match *Entry

	if !p.startup {
		og, match = takeMatch(p.old, c.Server)
		if match == nil && !e.Master {
			return
		}
	}

	if match == nil {
		g := p.stub()
		g.Members = append(g.Members, &Entry{Config: c})
		return
	}

	ng := p.stagedFor(og)
	e.migrate(og, ng, match, c)
}

// stub returns the group new consoles go into
func (p *pass) stub() *Group {

	e := p.eng

	if p.curr == nil || (e.MaxMembers > 0 && p.curr.Len() >= e.MaxMembers) {
		p.curr = newGroup(e.nextID)
		e.nextID++
		p.fresh = append(p.fresh, p.curr)
	}
	return p.curr
}

// stagedFor finds or creates the copy of og being rebuilt
func (p *pass) stagedFor(og *Group) *Group {

	for _, g := range p.staged {
		if g.ID == og.ID {
			return g
		}
	}

	ng := og.stage()
	p.staged = append(p.staged, ng)

	if ng.Control != nil {
		for _, cl := range ng.Control.Clients {
			p.eng.adopt(og, ng, cl)
		}
	}
	return ng
}

// discard shuts down consoles that are no longer configured
func (p *pass) discard() {

	e := p.eng

	for _, g := range p.old {
		for _, m := range g.Members {
			dl.Verbose("[%s] removed", m.Name())
			if !e.Master {
				for _, cl := range m.Clients {
					e.Runtime.Disconnect(g, cl, "")
				}
				e.Runtime.ConsDown(m)
			}
			e.Events = append(e.Events, Event{Kind: EV_REMOVE, Group: g.ID, Console: m.Name()})
		}
		g.Members = nil
	}
}

func takeMatch(groups []*Group, name string) (*Group, *Entry) {

	for _, g := range groups {
		for _, m := range g.Members {
			if strings.EqualFold(m.Config.Server, name) {
				g.remove(m)
				return g, m
			}
		}
	}
	return nil, nil
}

// adopt moves a client from og's tracking list to ng's
func (e *Engine) adopt(og *Group, ng *Group, cl *Client) {

	for i, c := range og.All {
		if c == cl {
			og.All = append(og.All[:i], og.All[i+1:]...)
			break
		}
	}
	ng.All = append(ng.All, cl)
	e.Watch.Watch(cl.FD, cl.Pending)
}

// migrate carries a running console into the new configuration
func (e *Engine) migrate(og *Group, ng *Group, m *Entry, c *console.Console) {

	var fds []int

	for _, cl := range m.Clients {
		e.adopt(og, ng, cl)
		fds = append(fds, cl.FD)
	}

	ng.Members = append(ng.Members, m)

	if s := m.CoFile; s != nil {
		e.Watch.Watch(s.FD, s.Pending)
	}
	if s := m.InitFile; s != nil {
		e.Watch.Watch(s.FD, false)
		if s.Pending {
			e.Watch.WatchWrite(s.OutFD)
		}
	}
	if s := m.TaskFile; s != nil {
		e.Watch.Watch(s.FD, false)
	}

	fields, initChanged := console.Diff(m.Config, c)
	if initChanged && m.InitPid != 0 {
		fields = append(fields, "initcmd")
	}

	m.Config = c
	e.adjustTimers(m)

	e.Events = append(e.Events, Event{Kind: EV_MIGRATE, Group: ng.ID, Console: c.Server, Clients: fds})

	if len(fields) == 0 {
		return
	}

	dl.Verbose("[%s] changed: %s", c.Server, strings.Join(fields, ","))

	if e.Master {
		return
	}

	e.Runtime.NotifyAll(m, MsgReset)
	e.Runtime.ConsDown(m)
	e.Events = append(e.Events, Event{Kind: EV_RESTART, Group: ng.ID, Console: c.Server, Fields: fields})
}

func (e *Engine) adjustTimers(m *Entry) {

	c := m.Config

	if c.IdleTimeout != 0 {
		t := m.LastWrite + int64(c.IdleTimeout)
		if e.Timers.Idle == 0 || e.Timers.Idle > t {
			e.Timers.Idle = t
		}
	}

	if c.LogfileMax != 0 && e.Timers.Roll == 0 {
		e.Timers.Roll = clock.Unix()
	}
}

// recheckAccess applies the new ro/rw/admin lists to connected clients
func (e *Engine) recheckAccess(admin users.List) {

	g := e.Groups[0]
	rt := e.Runtime

	for _, m := range g.Members {
		// copy, clients may be dropped
		for _, cl := range append([]*Client(nil), m.Clients...) {
			lvl := m.Config.ClientAccess(admin, cl.User)

			if lvl == users.Denied {
				rt.Disconnect(g, cl, MsgDenied)
				m.dropClient(cl)
				g.dropClient(cl)
				continue
			}

			ro := lvl == users.ReadOnly
			if cl.ReadOnly == ro {
				continue
			}
			cl.ReadOnly = ro

			if !ro {
				rt.Notify(cl, MsgGranted)
				continue
			}

			rt.Notify(cl, MsgRemoved)
			if !cl.Writer {
				continue
			}
			rt.Bump(m)
			cl.Writer = false
			rt.TagLog(m, "%s detached", cl.Acid)
			if m.Nolog {
				m.Nolog = false
				rt.TagLog(m, "Console logging restored (bumped)")
			}
			rt.FindWrite(m)
		}
	}
}

func (g *Group) dropClient(cl *Client) {

	for i, c := range g.All {
		if c == cl {
			g.All = append(g.All[:i], g.All[i+1:]...)
			return
		}
	}
}

// spawnAll starts workers for groups that do not have one yet
func (e *Engine) spawnAll() {

	for _, g := range e.Groups {
		if g.Len() == 0 || g.Pid != -1 {
			continue
		}

		err := e.Runtime.Spawn(g)
		if err != nil {
			dl.Problem("cannot start group #%d: %v", g.ID, err)
			continue
		}

		diag.Verbose("group #%d pid %d on port %d", g.ID, g.Pid, g.Port)
		e.Events = append(e.Events, Event{Kind: EV_SPAWN, Group: g.ID})
	}
}

// Counts returns the number of local and remote consoles
func (e *Engine) Counts() (local int, remote int) {

	for _, g := range e.Groups {
		local += g.Len()
	}
	return local, len(e.Remotes)
}

// Title describes the process, for the process title
func (e *Engine) Title(port int) string {

	if e.Master {
		local, remote := e.Counts()
		return fmt.Sprintf("master: port %d, %d local, %d remote", port, local, remote)
	}

	if len(e.Groups) == 0 {
		return "group: idle"
	}

	g := e.Groups[0]
	what := "consoles"
	if g.Len() == 1 {
		what = "console"
	}
	return fmt.Sprintf("group %d: port %d, %d %s", g.ID, g.Port, g.Len(), what)
}
