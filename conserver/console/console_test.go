// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-07 14:10 (EST)
// Function:

package console

import (
	"strings"
	"testing"
	"time"

	"conserver.domain/conserver/conserver"
	"conserver.domain/conserver/users"
)

type builders struct {
	users    *users.GroupBuilder
	defaults *DefaultBuilder
	consoles *Builder
}

func testBuilders() *builders {

	conserver.ResetErrors()
	d := &conserver.Diag{Master: true}
	ub := users.NewGroupBuilder(d, users.NewRegistry())
	db := NewDefaultBuilder(d, ub)

	return &builders{
		users:    ub,
		defaults: db,
		consoles: NewBuilder(d, ub, db),
	}
}

// stanza runs begin, items, end
func stanza(begin func(string), items map[string]func(string), end func(), name string, kv ...string) {

	begin(name)
	for i := 0; i+1 < len(kv); i += 2 {
		f, ok := items[kv[i]]
		if !ok {
			panic("no item " + kv[i])
		}
		f(kv[i+1])
	}
	end()
}

func (b *builders) def(name string, kv ...string) {
	stanza(b.defaults.Begin, b.defaults.Items(), b.defaults.End, name, kv...)
}

func (b *builders) cons(name string, kv ...string) {
	stanza(b.consoles.Begin, b.consoles.Items(), b.consoles.End, name, kv...)
}

func TestPortMath(t *testing.T) {

	b := testBuilders()
	b.cons("rtr1", "master", "localhost", "type", "host", "host", "ts1", "port", "23", "portbase", "-1", "portinc", "5")
	b.consoles.Destroy()

	if len(b.consoles.Compiled) != 1 {
		t.Fatalf("compiled %d", len(b.consoles.Compiled))
	}
	c := b.consoles.Compiled[0]
	if c.NetPort != -1+5*23 {
		t.Errorf("netport %d", c.NetPort)
	}
	if c.Syntax() != "{rtr1:localhost::!:ts1,114}" {
		t.Errorf("syntax %s", c.Syntax())
	}
}

func TestNumbers(t *testing.T) {

	c := &Console{}
	check := func(name string, v string, ok bool) {
		err := attrs[name](c, v)
		if (err == nil) != ok {
			t.Errorf("%s %q: %v", name, v, err)
		}
	}

	check("portbase", "-2", false)
	check("portinc", "x", false)
	check("initspinmax", "254", true)
	check("initspinmax", "255", false)
	check("initspintimer", "", true)
	if c.SpinMax != conserver.Some(254) || c.SpinTimer.Valid {
		t.Errorf("spin %v %v", c.SpinMax, c.SpinTimer)
	}

	check("idletimeout", "90", true)
	if c.IdleTimeout != 90 {
		t.Fail()
	}
	check("idletimeout", "2h", true)
	if c.IdleTimeout != 7200 {
		t.Fail()
	}
	check("idletimeout", "2hx", false)
	check("idletimeout", "5q", false)
	check("idletimeout", "m", false)
	check("idletimeout", "h", false)
	check("idletimeout", "99999999999h", false)
	if c.IdleTimeout != 7200 {
		t.Fail()
	}

	check("logfilemax", "4k", true)
	if c.LogfileMax != 4096 {
		t.Fail()
	}
	check("logfilemax", "1000", false)
	if c.LogfileMax != 0 {
		t.Errorf("bad logfilemax leaves it unset")
	}
	check("logfilemax", "2M", true)
	if c.LogfileMax != 2*1024*1024 {
		t.Fail()
	}

	check("ipmiciphersuite", "-1", true)
	check("ipmiciphersuite", "4", false)
	check("ipmiciphersuite", "17", true)
	if c.IpmiCipherSuite != conserver.Some(17) {
		t.Fail()
	}

	check("break", "c", true)
	if c.BreakNum != conserver.Some(12) {
		t.Errorf("break %v", c.BreakNum)
	}
	check("break", "0", false)
}

func TestWordLists(t *testing.T) {

	c := &Console{}

	if err := attrs["options"](c, "hupcl !ixon, OnDemand bogus"); err == nil {
		t.Errorf("expected error for bogus")
	}
	if !c.Hupcl.True() || c.Ixon != conserver.FlagFalse || !c.OnDemand.True() || c.Ixany.IsSet() {
		t.Errorf("options %+v", c)
	}
	attrs["options"](c, "")
	if c.Hupcl.IsSet() || c.Ixon.IsSet() {
		t.Errorf("empty options resets")
	}

	if err := attrs["tasklist"](c, "a,b 1 zz *"); err == nil {
		t.Fail()
	}
	if c.TaskList != "ab1*" {
		t.Errorf("tasklist %s", c.TaskList)
	}

	attrs["ipmiworkaround"](c, "checksum ignore-port !checksum")
	if !c.IpmiWrkSet || c.IpmiWorkaround != WRK_IGNORE_PORT {
		t.Errorf("workaround %x", c.IpmiWorkaround)
	}

	if err := attrs["ipmikg"](c, `\101\102C`); err != nil || c.IpmiKG != "ABC" {
		t.Errorf("kg %q %v", c.IpmiKG, err)
	}
	if err := attrs["ipmikg"](c, strings.Repeat("x", 21)); err == nil || c.IpmiKG != "ABC" {
		t.Errorf("kg too long")
	}
}

func TestTimestamp(t *testing.T) {

	now := time.Date(2026, 3, 7, 10, 13, 27, 0, time.Local).Unix()
	want := time.Date(2026, 3, 7, 10, 15, 0, 0, time.Local).Unix()

	ts, err := ParseTimestamp("5m a", now)
	if err != nil || ts == nil {
		t.Fatalf("err %v", err)
	}
	if ts.Factor != 60 || ts.Value != 300 || !ts.Activity || ts.Break || ts.Task {
		t.Errorf("parsed %+v", ts)
	}
	if ts.NextMark != want {
		t.Errorf("next mark %d, want %d", ts.NextMark, want)
	}

	// 7m is not a divisor of an hour
	ts, _ = ParseTimestamp("7m", now)
	if ts.NextMark != now-27+420 {
		t.Errorf("unaligned %d", ts.NextMark)
	}

	ts, _ = ParseTimestamp("1d bt", now)
	if !ts.Break || !ts.Task || ts.Value != 86400 {
		t.Errorf("day %+v", ts)
	}

	ts, _ = ParseTimestamp("10l", now)
	if ts.Value != -10 || ts.NextMark != -10 {
		t.Errorf("lines %+v", ts)
	}

	if ts, _ = ParseTimestamp("5x", now); ts != nil {
		t.Errorf("unknown char accepted")
	}
	if ts, _ = ParseTimestamp("m", now); ts != nil {
		t.Errorf("missing numeral accepted")
	}
	if ts, err = ParseTimestamp("99999999999999999999m", now); ts != nil || err == nil {
		t.Errorf("overflow accepted %+v", ts)
	}
	if ts, err = ParseTimestamp("99999999999", now); ts != nil || err == nil {
		t.Errorf("trailing overflow accepted %+v", ts)
	}
	if ts, err = ParseTimestamp("5a", now); ts == nil || err == nil || !ts.Activity || ts.Value != 300 {
		t.Errorf("numeral before a %+v %v", ts, err)
	}
}

func TestApplyDefault(t *testing.T) {

	d := &Console{Host: "ts1", Port: conserver.Some(7001), Ixon: conserver.FlagFalse}
	c := &Console{Server: "x", Host: "", Ixany: conserver.FlagTrue}

	ApplyDefault(d, c)
	ApplyDefault(d, c)

	if c.Host != "ts1" || c.Port != conserver.Some(7001) {
		t.Errorf("applied %+v", c)
	}
	if c.Ixon != conserver.FlagFalse || c.Ixany != conserver.FlagTrue {
		t.Errorf("flags %v %v", c.Ixon, c.Ixany)
	}
	if c.Server != "x" {
		t.Fail()
	}
}

func TestDefaults(t *testing.T) {

	b := testBuilders()

	b.def("*", "master", "localhost", "rw", "alice")
	b.def("ts", "type", "host", "host", "ts1", "port", "7000")
	b.def("ts", "type", "host", "host", "ts2")
	b.def("bogus", "include", "nope")

	b.cons("c1", "include", "ts", "port", "7001", "ro", "bob")
	b.consoles.Destroy()

	if !conserver.HasErrors() {
		t.Errorf("expected include error")
	}

	c := b.consoles.Compiled[0]
	if c.Master != "localhost" || c.Host != "ts2" || c.Port.Val != 7001 {
		t.Errorf("console %+v", c)
	}
	if c.RW.String() != "alice" || c.RO.String() != "bob" {
		t.Errorf("users %s %s", c.RW, c.RO)
	}
	if c.TaskList != "*" || c.BreakList != "*" {
		t.Fail()
	}
}

func TestValidate(t *testing.T) {

	b := testBuilders()

	b.cons("nomaster", "type", "noop")
	b.cons("dev", "master", "localhost", "type", "device", "device", "/dev/ttyS0")
	b.cons("what", "master", "localhost")
	b.cons("ok", "master", "localhost", "type", "device", "device", "/dev/ttyS0", "baud", "9600", "parity", "n",
		"devicesubst", "/dev/tty%p")
	b.cons("uds", "master", "localhost", "type", "uds", "uds", "/tmp/x", "udssubst", "/tmp/%c.sock")

	if len(b.consoles.List) != 2 {
		t.Fatalf("committed %d", len(b.consoles.List))
	}
	if !conserver.HasErrors() {
		t.Fail()
	}

	// %p without a port is dropped, console kept
	ok := b.consoles.List[0]
	if ok.Server != "ok" || ok.DeviceSubst != "" {
		t.Errorf("devicesubst %q", ok.DeviceSubst)
	}

	b.consoles.Destroy()
	if got := b.consoles.Compiled[1].Uds; got != "/tmp/uds.sock" {
		t.Errorf("uds %s", got)
	}
	if got := b.consoles.Compiled[0].Syntax(); got != "{ok:localhost::/:/dev/ttyS0,9600n}" {
		t.Errorf("syntax %s", got)
	}
}

func TestAliases(t *testing.T) {

	b := testBuilders()

	b.cons("c1", "master", "localhost", "type", "noop", "aliases", "one uno")
	b.cons("c2", "master", "localhost", "type", "noop", "aliases", "UNO two c2 two")
	b.cons("C1", "master", "localhost", "type", "exec")

	if len(b.consoles.List) != 2 {
		t.Fatalf("list %d", len(b.consoles.List))
	}

	c2 := FindName(b.consoles.List, "TWO")
	if c2 == nil || c2.Server != "c2" || len(c2.Aliases) != 1 {
		t.Errorf("aliases %+v", c2)
	}

	// redefinition replaces and moves to the end
	if b.consoles.List[1].Server != "C1" || b.consoles.List[1].Type != EXEC {
		t.Errorf("override %+v", b.consoles.List[1])
	}

	// a name already used as an alias is rejected
	conserver.ResetErrors()
	b.cons("Two", "master", "localhost", "type", "noop")

	if len(b.consoles.List) != 2 || Find(b.consoles.List, "two") != nil {
		t.Errorf("alias taken as name %d", len(b.consoles.List))
	}
	if !conserver.HasErrors() {
		t.Errorf("expected an error")
	}
}

func TestCompile(t *testing.T) {

	b := testBuilders()
	b.consoles.Forced = Forced{Strip: true}

	b.cons("e1", "master", "localhost", "type", "exec", "logfile", "/var/log/consoles/&.log",
		"exec", "ssh x", "execsubst", "ssh %c -p %p", "port", "22", "initcmd", "x", "initsubst", "login %h")
	b.cons("n1", "master", "localhost", "type", "noop", "logfile", "/x", "options", "login")
	b.cons("u1", "master", "localhost", "type", "uds", "uds", "/"+strings.Repeat("s", 200))
	b.consoles.Destroy()

	if len(b.consoles.Compiled) != 2 {
		t.Fatalf("compiled %d", len(b.consoles.Compiled))
	}

	e := b.consoles.Compiled[0]
	if e.Logfile != "/var/log/consoles/e1.log" || e.Exec != "ssh e1 -p 22" {
		t.Errorf("exec %+v", e)
	}
	if e.InitCmd != "x" || e.InitSubst != "" {
		t.Errorf("%%h without a host should drop initsubst: %q", e.InitCmd)
	}
	if e.Ixoff != conserver.FlagFalse || e.Ixon != conserver.FlagTrue || !e.StripHigh.True() {
		t.Errorf("flags")
	}
	if e.IdleString != `\n` || e.BreakNum.Val != 1 || e.SpinMax.Val != 5 || e.SpinTimer.Val != 1 {
		t.Errorf("defaults %+v", e)
	}
	if e.IpmiPrivLevel != PRIV_ADMIN || e.IpmiCipherSuite.Val != -1 {
		t.Fail()
	}

	n := b.consoles.Compiled[1]
	if n.Login != conserver.FlagFalse || n.Logfile != "" || n.Ixoff != conserver.FlagTrue {
		t.Errorf("noop %+v", n)
	}
}

func TestDiff(t *testing.T) {

	o := &Console{Type: HOST, Host: "ts1", NetPort: 7001, Logfile: "/a", Motd: "hi"}
	n := *o
	n.Host = "TS1"
	n.Motd = "hello"

	if f, ic := Diff(o, &n); len(f) != 0 || ic {
		t.Errorf("diff %v %v", f, ic)
	}

	n.NetPort = 7002
	n.Logfile = "/b"
	n.Device = "ignored for host"
	n.InitCmd = "x"
	f, ic := Diff(o, &n)
	if strings.Join(f, ",") != "logfile,netport" || !ic {
		t.Errorf("diff %v %v", f, ic)
	}

	n = *o
	n.Type = UDS
	n.Uds = "/tmp/sock"
	if f, _ := Diff(o, &n); strings.Join(f, ",") != "type,uds" {
		t.Errorf("diff %v", f)
	}
}
