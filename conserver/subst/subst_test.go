// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-03 10:30 (EST)
// Function:

package subst

import (
	"testing"
)

type thing struct {
	host string
	port int
}

func testSubst() *Subst {

	s := New()
	s.Define('h', Token{Kind: String, Str: func(d interface{}) string { return d.(*thing).host }})
	s.Define('p', Token{Kind: Integer, Int: func(d interface{}) int { return d.(*thing).port }})
	return s
}

func expandExpect(t *testing.T, s *Subst, tmpl string, want string) {

	if err := s.Check(tmpl); err != nil {
		t.Errorf("check %s: %v", tmpl, err)
		return
	}
	if got := s.Expand(tmpl); got != want {
		t.Errorf("expand %s: got %q, expected %q", tmpl, got, want)
	}
}

func TestExpand(t *testing.T) {

	s := testSubst()
	s.Bind(&thing{host: "ts1", port: 7001})

	expandExpect(t, s, "/dev/%h", "/dev/ts1")
	expandExpect(t, s, "telnet %h %p", "telnet ts1 7001")
	expandExpect(t, s, "100%%", "100%")
	expandExpect(t, s, "plain", "plain")

	// empty data still expands
	s.Bind(&thing{})
	expandExpect(t, s, "[%h:%p]", "[:0]")
}

func TestCheckCounts(t *testing.T) {

	s := testSubst()

	s.Reset()
	if err := s.Check("%h %h %%p"); err != nil {
		t.Fatal(err)
	}
	if s.Count('h') != 2 || s.Count('p') != 0 {
		t.Errorf("counts h=%d p=%d", s.Count('h'), s.Count('p'))
	}

	s.Reset()
	if s.Count('h') != 0 {
		t.Fail()
	}
}

func TestCheckInvalid(t *testing.T) {

	s := testSubst()

	for _, tmpl := range []string{"%x", "abc%", "%\xff"} {
		if s.Check(tmpl) == nil {
			t.Errorf("%q should fail", tmpl)
		}
	}
}

func secretExpect(t *testing.T, in string, want string, ok bool) {

	got, err := DecodeSecret(in)
	if (err == nil) != ok {
		t.Errorf("%q: err %v", in, err)
		return
	}
	if ok && got != want {
		t.Errorf("%q: got %q, expected %q", in, got, want)
	}
}

func TestDecodeSecret(t *testing.T) {

	secretExpect(t, "abc", "abc", true)
	secretExpect(t, `\101BC`, "ABC", true)
	secretExpect(t, `\0`, "\x00", true)
	secretExpect(t, `\1234`, "S4", true)
	secretExpect(t, `a\\b`, `a\b`, true)
	secretExpect(t, `x\`, `x\`, true)
	secretExpect(t, "0123456789abcdefghij", "0123456789abcdefghij", true)
	secretExpect(t, "0123456789abcdefghijk", "", false)
}
