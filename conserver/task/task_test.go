// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-05 14:02 (EST)
// Function:

package task

import (
	"testing"

	"conserver.domain/conserver/conserver"
	"conserver.domain/conserver/subst"
)

type box struct {
	host string
}

func testBuilder() *Builder {

	s := subst.New()
	s.Define('h', subst.Token{Kind: subst.String, Str: func(d interface{}) string { return d.(*box).host }})

	return NewBuilder(&conserver.Diag{Master: true}, s)
}

func define(b *Builder, id string, items ...string) {

	b.Begin(id)
	it := b.Items()
	for i := 0; i+1 < len(items); i += 2 {
		it[items[i]](items[i+1])
	}
	b.End()
}

func ids(l List) string {

	s := ""
	for _, t := range l {
		s += string(t.ID)
	}
	return s
}

func TestSorted(t *testing.T) {

	b := testBuilder()

	define(b, "x", "cmd", "xx")
	define(b, "3", "cmd", "three")
	define(b, "a", "cmd", "aa")
	define(b, "0", "cmd", "zero")
	define(b, "3", "cmd", "tres", "description", "again")

	if got := ids(b.List); got != "03ax" {
		t.Errorf("order %s", got)
	}
	if tk := b.List.Find('3'); tk == nil || tk.Cmd != "tres" || tk.Descr != "again" {
		t.Errorf("replace %+v", tk)
	}
	if b.List.Find('q') != nil {
		t.Fail()
	}
}

func TestDiscarded(t *testing.T) {

	conserver.ResetErrors()
	b := testBuilder()

	define(b, "5", "description", "no command")
	define(b, "A", "cmd", "bad id")
	define(b, "10", "cmd", "bad id")

	b.Begin("7")
	b.Items()["cmd"]("aborted")
	b.Abort()
	b.End()

	if len(b.List) != 0 {
		t.Errorf("list %s", ids(b.List))
	}
	if !conserver.HasErrors() {
		t.Errorf("expected invalid id errors")
	}
}

func TestSubst(t *testing.T) {

	conserver.ResetErrors()
	b := testBuilder()

	define(b, "p", "cmd", "ping host", "subst", "ping %h", "confirm", "yes")
	define(b, "q", "cmd", "bogus", "subst", "ping %z")

	tk := b.List.Find('p')
	b.Subst.Bind(&box{host: "sw1"})
	if got := tk.Command(b.Subst); got != "ping sw1" {
		t.Errorf("command %s", got)
	}
	if !tk.Confirm.True() {
		t.Fail()
	}

	tq := b.List.Find('q')
	if tq.Subst != "" || tq.Command(b.Subst) != "bogus" {
		t.Errorf("bad subst kept: %+v", tq)
	}
	if !conserver.HasErrors() {
		t.Fail()
	}
}
