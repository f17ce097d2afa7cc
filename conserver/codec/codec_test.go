// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-12 09:55 (EDT)
// Function:

package codec

import (
	"bytes"
	"strings"
	"testing"

	"conserver.domain/conserver/group"
)

func TestBatch(t *testing.T) {

	b := &Batch{
		Generation: 2,
		Digest:     "abc",
		Events: []group.Event{
			{Kind: group.EV_RESTART, Group: 3, Console: "rtr1", Fields: []string{"logfile"}},
			{Kind: group.EV_SPAWN, Group: 4},
		},
	}

	var buf bytes.Buffer
	if err := WriteBatch(&buf, b); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := WriteBatch(&buf, &Batch{Generation: 3}); err != nil {
		t.Fatalf("write: %v", err)
	}

	dec := NewDecoder(&buf)
	got, err := ReadBatch(dec)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Generation != 2 || len(got.Events) != 2 || got.Events[0].Kind != group.EV_RESTART || got.Events[0].Fields[0] != "logfile" {
		t.Errorf("batch wrong: %+v", got)
	}

	got, err = ReadBatch(dec)
	if err != nil || got.Generation != 3 {
		t.Errorf("second batch: %v", err)
	}
}

func TestDeterministic(t *testing.T) {

	ev := group.Event{Kind: group.EV_MIGRATE, Group: 1, Console: "a", Clients: []int{4, 5}}

	a, _ := Marshal(ev)
	b, _ := Marshal(ev)
	if !bytes.Equal(a, b) {
		t.Errorf("encoding not stable")
	}

	d, err := Diagnose(a)
	if err != nil || !strings.Contains(d, `"migrate"`) {
		t.Errorf("kind not encoded as text: %s %v", d, err)
	}
}
