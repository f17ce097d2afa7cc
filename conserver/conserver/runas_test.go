// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-05 10:02 (EST)
// Function:

package conserver

import (
	"fmt"
	"testing"
)

func TestRunAs(t *testing.T) {

	LookupUser = func(n string) (string, error) {
		if n == "daemon" {
			return "2", nil
		}
		return "", fmt.Errorf("unknown user")
	}
	LookupGroup = func(n string) (string, error) {
		if n == "wheel" {
			return "10", nil
		}
		return "", fmt.Errorf("unknown group")
	}

	check := func(v string, uid Opt, gid Opt, ok bool) {
		u, g, err := ParseRunAs(v)
		if u != uid || g != gid || (err == nil) != ok {
			t.Errorf("%q: got %v %v %v", v, u, g, err)
		}
	}

	check("", Opt{}, Opt{}, true)
	check("100", Some(100), Opt{}, true)
	check("100:200", Some(100), Some(200), true)
	check(":200", Opt{}, Some(200), true)
	check("daemon:wheel", Some(2), Some(10), true)
	check("nobody-here:wheel", Opt{}, Some(10), false)
	check("daemon:nogroup", Some(2), Opt{}, false)
}
