// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-09 14:20 (EDT)
// Function:

package group

import (
	"fmt"
	"strings"
	"testing"

	"conserver.domain/conserver/console"
	"conserver.domain/conserver/conserver"
	"conserver.domain/conserver/users"
)

type recorder struct {
	log  []string
	pids int
}

func (r *recorder) add(f string, args ...interface{}) {
	r.log = append(r.log, fmt.Sprintf(f, args...))
}

func (r *recorder) Notify(cl *Client, msg string)  { r.add("notify %d %s", cl.FD, strings.TrimSpace(msg)) }
func (r *recorder) NotifyAll(e *Entry, msg string) { r.add("notifyall %s", e.Name()) }
func (r *recorder) Disconnect(g *Group, cl *Client, msg string) {
	r.add("disconnect %d", cl.FD)
}
func (r *recorder) ConsDown(e *Entry)  { r.add("down %s", e.Name()) }
func (r *recorder) Bump(e *Entry)      { r.add("bump %s", e.Name()) }
func (r *recorder) FindWrite(e *Entry) { r.add("findwrite %s", e.Name()) }
func (r *recorder) TagLog(e *Entry, f string, args ...interface{}) {
	r.add("tag %s %s", e.Name(), fmt.Sprintf(f, args...))
}
func (r *recorder) Spawn(g *Group) error {
	r.pids++
	g.Pid = 1000 + r.pids
	g.Port = 7000 + g.ID
	return nil
}

func (r *recorder) String() string {
	return strings.Join(r.log, "; ")
}

func isMe(h string) bool {
	return h == "localhost" || h == ""
}

func cons(name string, logfile string) *console.Console {
	return &console.Console{
		Server:  name,
		Master:  "localhost",
		Type:    console.DEVICE,
		Device:  "/dev/" + name,
		Logfile: logfile,
	}
}

func TestStartup(t *testing.T) {

	rt := &recorder{}
	e := NewEngine(true, 2, isMe, rt)

	list := []*console.Console{
		cons("a", ""), cons("b", ""), cons("c", ""),
		{Server: "far", Master: "peer.example.com", Type: console.HOST},
		{Server: "far2", Master: "PEER.example.com", Type: console.HOST},
	}

	err := e.Reconfigure(list, nil)
	if err != nil {
		t.Fatalf("reconfigure: %v", err)
	}

	if len(e.Groups) != 2 || e.Groups[0].Len() != 2 || e.Groups[1].Len() != 1 {
		t.Fatalf("groups wrong: %d", len(e.Groups))
	}
	if e.Groups[0].Pid != 1001 || e.Groups[1].Pid != 1002 {
		t.Errorf("spawn wrong: %s", rt)
	}
	// group ids are 1-based
	if e.Groups[0].ID != 1 || e.Groups[1].ID != 2 || e.Groups[0].Port != 7001 {
		t.Errorf("group ids %d %d", e.Groups[0].ID, e.Groups[1].ID)
	}
	if len(e.Remotes) != 2 || len(e.Uniq) != 1 {
		t.Errorf("remotes %d uniq %d", len(e.Remotes), len(e.Uniq))
	}
	if got := e.Title(782); got != "master: port 782, 3 local, 2 remote" {
		t.Errorf("title %q", got)
	}
}

// worker with one group holding a, b
func worker(t *testing.T) (*Engine, *recorder, *Client) {

	rt := &recorder{}
	e := NewEngine(false, 0, isMe, rt)

	cl := &Client{FD: 9, User: "bob", Acid: "bob@here", Writer: true}
	a := &Entry{Config: cons("a", "/var/log/a"), Clients: []*Client{cl}, CoFile: &Stream{FD: 7, OutFD: -1}}
	b := &Entry{Config: cons("b", "/var/log/b"), CoFile: &Stream{FD: 8, OutFD: -1, Pending: true}}

	e.Groups = []*Group{{ID: 3, Pid: 1234, Port: 7003, Members: []*Entry{a, b}, All: []*Client{cl}}}
	return e, rt, cl
}

func TestUnchanged(t *testing.T) {

	e, rt, _ := worker(t)

	a := cons("a", "/var/log/a")
	a.Server = "A"

	err := e.Reconfigure([]*console.Console{cons("b", "/var/log/b"), a}, nil)
	if err != nil {
		t.Fatalf("reconfigure: %v", err)
	}

	if len(rt.log) != 0 {
		t.Errorf("runtime touched: %s", rt)
	}
	if len(e.Groups) != 1 || e.Groups[0].ID != 3 || e.Groups[0].Pid != 1234 || e.Groups[0].Len() != 2 {
		t.Fatalf("group not kept")
	}
	if len(e.Groups[0].All) != 1 {
		t.Errorf("clients not moved")
	}

	for _, fd := range []int{7, 8, 9} {
		if r, _ := e.Watch.IsSet(fd); !r {
			t.Errorf("fd %d not watched", fd)
		}
	}
	if _, w := e.Watch.IsSet(8); !w {
		t.Errorf("pending fd not watched for write")
	}
	if e.Watch.MaxFD != 10 {
		t.Errorf("maxfd %d", e.Watch.MaxFD)
	}
}

func TestRestart(t *testing.T) {

	e, rt, _ := worker(t)

	err := e.Reconfigure([]*console.Console{cons("a", "/var/log/a2"), cons("b", "/var/log/b"), cons("new", "")}, nil)
	if err != nil {
		t.Fatalf("reconfigure: %v", err)
	}

	if rt.String() != "notifyall a; down a" {
		t.Errorf("runtime: %s", rt)
	}

	var restarts []string
	for _, ev := range e.Events {
		if ev.Kind == EV_RESTART {
			restarts = append(restarts, ev.Console+":"+strings.Join(ev.Fields, ","))
		}
	}
	if strings.Join(restarts, " ") != "a:logfile" {
		t.Errorf("restarts %v", restarts)
	}

	// workers do not pick up new consoles
	if _, en := FindEntry(e.Groups, "new"); en != nil {
		t.Errorf("worker gained a console")
	}
	if e.Title(0) != "group 3: port 7003, 2 consoles" {
		t.Errorf("title %q", e.Title(0))
	}
}

func TestInitChange(t *testing.T) {

	e, rt, _ := worker(t)
	_, a := FindEntry(e.Groups, "a")

	n := cons("a", "/var/log/a")
	n.InitCmd = "/bin/login-helper"
	e.Reconfigure([]*console.Console{n, cons("b", "/var/log/b")}, nil)
	if len(rt.log) != 0 {
		t.Errorf("idle init restarted: %s", rt)
	}

	a.InitPid = 55
	n = cons("a", "/var/log/a")
	e.Reconfigure([]*console.Console{n, cons("b", "/var/log/b")}, nil)
	if rt.String() != "notifyall a; down a" {
		t.Errorf("running init not restarted: %s", rt)
	}
}

func TestRemoved(t *testing.T) {

	e, rt, _ := worker(t)

	err := e.Reconfigure([]*console.Console{cons("b", "/var/log/b")}, nil)
	if err != nil {
		t.Fatalf("reconfigure: %v", err)
	}
	if rt.String() != "disconnect 9; down a" {
		t.Errorf("runtime: %s", rt)
	}

	err = e.Reconfigure(nil, nil)
	if conserver.ErrCode(err) != conserver.ErrCodeNoConsoles {
		t.Errorf("expected no consoles, got %v", err)
	}
}

func TestAccess(t *testing.T) {

	reg := users.NewRegistry()
	var ro, rw users.List
	ro.Add(reg.Add("bob"), false)
	rw.Add(reg.Add("alice"), false)

	e, rt, cl := worker(t)
	_, a := FindEntry(e.Groups, "a")
	a.Nolog = true

	n := cons("a", "/var/log/a")
	n.RO = ro
	n.RW = rw
	e.Reconfigure([]*console.Console{n, cons("b", "/var/log/b")}, nil)

	want := "notify 9 [Conserver reconfigured - r/w access removed]; bump a; tag a bob@here detached; tag a Console logging restored (bumped); findwrite a"
	if rt.String() != want {
		t.Errorf("demote:\n got %s\nwant %s", rt, want)
	}
	if !cl.ReadOnly || cl.Writer || a.Nolog {
		t.Errorf("client state wrong")
	}

	// admin overrides
	rt.log = nil
	var admin users.List
	admin.Add(reg.Add("bob"), false)
	n = cons("a", "/var/log/a")
	n.RO = ro
	n.RW = rw
	e.Reconfigure([]*console.Console{n, cons("b", "/var/log/b")}, admin)
	if rt.String() != "notify 9 [Conserver reconfigured - r/w access granted]" {
		t.Errorf("grant: %s", rt)
	}

	// denied
	rt.log = nil
	n = cons("a", "/var/log/a")
	n.RW = rw
	e.Reconfigure([]*console.Console{n, cons("b", "/var/log/b")}, nil)
	if rt.String() != "disconnect 9" {
		t.Errorf("deny: %s", rt)
	}
	if len(a.Clients) != 0 || len(e.Groups[0].All) != 0 {
		t.Errorf("client not dropped")
	}
}

func TestMasterReread(t *testing.T) {

	rt := &recorder{}
	e := NewEngine(true, 0, isMe, rt)

	e.Reconfigure([]*console.Console{cons("a", "")}, nil)
	first := e.Groups[0]

	rt.log = nil
	err := e.Reconfigure([]*console.Console{cons("a", "/x"), cons("b", "")}, nil)
	if err != nil {
		t.Fatalf("reconfigure: %v", err)
	}

	// new console gets a new group + worker, old group kept as is
	if len(e.Groups) != 2 {
		t.Fatalf("groups %d", len(e.Groups))
	}
	if e.Groups[1].ID != first.ID || e.Groups[1].Pid != first.Pid {
		t.Errorf("old group not staged")
	}
	if e.Groups[0].ID != 2 || e.Groups[0].Pid != 1002 {
		t.Errorf("new group %d pid %d", e.Groups[0].ID, e.Groups[0].Pid)
	}
	if rt.String() != "" {
		t.Errorf("master touched consoles: %s", rt)
	}
}
