// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-04 10:02 (EST)
// Function:

package users

import (
	"strings"
	"testing"

	"conserver.domain/conserver/conserver"
)

func listExpect(t *testing.T, l List, want string) {

	if got := l.String(); got != want {
		t.Errorf("got %q, expected %q", got, want)
	}
}

func TestRegistry(t *testing.T) {

	r := NewRegistry()
	a := r.Add("alice")

	if r.Add("alice") != a {
		t.Errorf("find-or-create returned a new user")
	}
	if r.Add("Alice") == a {
		t.Errorf("names are case sensitive")
	}
	if strings.Join(r.Names(), " ") != "alice Alice" {
		t.Errorf("names %v", r.Names())
	}
}

func TestListAdd(t *testing.T) {

	r := NewRegistry()
	var l List

	l.Add(r.Add("a"), false)
	l.Add(r.Add("b"), false)
	l.Add(r.Add("c"), false)
	listExpect(t, l, "c,b,a")

	// re-add moves to the head and takes the new negation
	l.Add(r.Add("a"), true)
	listExpect(t, l, "!a,c,b")

	l.Add(r.Add("a"), false)
	listExpect(t, l, "a,c,b")

	if len(l) != 3 {
		t.Errorf("len %d", len(l))
	}
}

func TestCopyList(t *testing.T) {

	r := NewRegistry()
	var src List
	src.Add(r.Add("z"), true)
	src.Add(r.Add("y"), false)
	src.Add(r.Add("x"), false)

	var dst List
	CopyList(src, &dst, false)
	listExpect(t, dst, "x,y,!z")

	var neg List
	CopyList(src, &neg, true)
	listExpect(t, neg, "!x,!y,z")

	// twice negated == not negated
	var twice List
	CopyList(neg, &twice, true)
	if !twice.Equal(dst) {
		t.Errorf("double negation: %s != %s", twice, dst)
	}
}

func TestParseList(t *testing.T) {

	r := NewRegistry()
	gb := NewGroupBuilder(&conserver.Diag{}, r)

	gb.Begin("ops")
	gb.Items()["users"]("bob, carol")
	gb.End()

	var l List
	ParseList("alice !ops,dave", r, gb.Groups, &l)
	listExpect(t, l, "dave,!carol,!bob,alice")

	ParseList("", r, gb.Groups, &l)
	if len(l) != 0 {
		t.Errorf("empty value should clear")
	}
}

func TestGroupBuilder(t *testing.T) {

	conserver.ResetErrors()
	r := NewRegistry()
	gb := NewGroupBuilder(&conserver.Diag{Master: true}, r)

	gb.Begin("g")
	gb.Items()["users"]("a")
	gb.End()

	gb.Begin("g")
	gb.Items()["users"]("b")
	gb.End()

	gb.Begin("h")
	gb.Items()["users"]("c")
	gb.Abort()

	if len(gb.Groups.All()) != 1 {
		t.Fatalf("groups %d", len(gb.Groups.All()))
	}
	listExpect(t, gb.Groups.Find("g").Users, "b")

	if gb.Groups.Find("G") != nil {
		t.Errorf("group names are exact")
	}

	gb.Begin("")
	gb.Items()["users"]("x")
	gb.End()
	if !conserver.HasErrors() {
		t.Errorf("empty name should complain")
	}

	gb.Destroy()
	if gb.Groups.Find("g") != nil {
		t.Fail()
	}
}

func TestClientAccess(t *testing.T) {

	r := NewRegistry()
	var rw, ro, admin List

	if ClientAccess(rw, ro, admin, "anyone") != ReadWrite {
		t.Errorf("no lists should be rw")
	}

	ParseList("alice !bob", r, nil, &rw)
	ParseList("*", r, nil, &ro)
	ParseList("root", r, nil, &admin)

	check := func(name string, want Level) {
		if got := ClientAccess(rw, ro, admin, name); got != want {
			t.Errorf("%s: got %v, expected %v", name, got, want)
		}
	}

	check("alice", ReadWrite)
	check("bob", ReadOnly)
	check("carol", ReadOnly)
	check("root", ReadWrite)

	ro = nil
	ParseList("!carol", r, nil, &ro)
	check("carol", Denied)
	check("dave", Denied)
}
