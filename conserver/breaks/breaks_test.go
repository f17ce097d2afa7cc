// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-05 11:45 (EST)
// Function:

package breaks

import (
	"testing"

	"conserver.domain/conserver/conserver"
)

func TestNumber(t *testing.T) {

	good := map[string]int{"1": 1, "9": 9, "a": 10, "z": 35}
	for id, n := range good {
		if got, ok := Number(id); !ok || got != n {
			t.Errorf("%s: %d %v", id, got, ok)
		}
	}
	for _, id := range []string{"", "0", "10", "A", "*"} {
		if _, ok := Number(id); ok {
			t.Errorf("%s should be invalid", id)
		}
	}
}

func TestDefaults(t *testing.T) {

	var tab Table
	tab.Reset()

	if tab.Get(1).Seq != `\z` || tab.Get(2).Seq != `\r~^b` || tab.Get(3).Seq != `#.` {
		t.Errorf("defaults %+v", tab[:4])
	}
	if tab.Get(4).Delay != 600 || tab.Get(5).Delay != DELAYDEFAULT || tab.Get(5).Seq != "" {
		t.Fail()
	}
	if tab.Get(0) != nil || tab.Get(36) != nil {
		t.Fail()
	}
}

func TestBuilder(t *testing.T) {

	conserver.ResetErrors()
	var tab Table
	tab.Reset()
	b := NewBuilder(&conserver.Diag{Master: true}, &tab)

	b.Begin("5")
	it := b.Items()
	it["string"](`\r~^c`)
	it["delay"]("250")
	it["confirm"]("yes")
	b.End()

	if br := tab.Get(5); br.Seq != `\r~^c` || br.Delay != 250 || br.Confirm != conserver.FlagTrue {
		t.Errorf("break 5 %+v", br)
	}

	// bad values leave the previous setting
	b.Begin("c")
	it["delay"]("1000")
	it["delay"]("12x")
	b.End()
	if tab.Get(12).Delay != DELAYDEFAULT || !conserver.HasErrors() {
		t.Errorf("break c %+v", tab.Get(12))
	}

	b.Begin("3")
	it["delay"]("")
	b.End()
	if tab.Get(3).Delay != 0 || tab.Get(3).Seq != "" {
		t.Errorf("redefinition replaces the whole break: %+v", tab.Get(3))
	}

	// invalid id is a no-op stanza
	b.Begin("0")
	it["string"]("nope")
	b.End()
	b.Begin("6")
	it["string"]("aborted")
	b.Abort()
	b.End()
	if tab.Get(6).Seq != "" {
		t.Fail()
	}
}
