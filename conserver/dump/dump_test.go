// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-14 10:15 (EDT)
// Function:

package dump

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"conserver.domain/conserver/construct"
	"gopkg.in/yaml.v3"
)

const cf = `
task x { cmd /bin/true; }
default * { master localhost; }
console a { type exec; exec /bin/sh; aliases aa; rw alice; }
console r { master peer; type noop; }
access * { trusted 127.0.0.1; }
`

func TestDump(t *testing.T) {

	file := filepath.Join(t.TempDir(), "conserver.cf")
	if err := os.WriteFile(file, []byte(cf), 0644); err != nil {
		t.Fatal(err)
	}

	c := construct.New(construct.Options{
		Master: true,
		IsMe:   func(h string) bool { return h == "localhost" },
	})
	if err := c.ReadCfg(file); err != nil {
		t.Fatalf("read: %v", err)
	}

	var m *Model
	c.View(func() { m = Build(c) })

	if len(m.Consoles) != 2 || m.Consoles[0].Syntax != "{a:localhost:aa:|:/bin/sh}" {
		t.Errorf("consoles %+v", m.Consoles)
	}
	if len(m.Breaks) != 4 || m.Breaks[3].ID != "4" || m.Breaks[3].Delay != 600 {
		t.Errorf("breaks %+v", m.Breaks)
	}
	if len(m.Peers) != 1 || m.Peers[0] != "peer" {
		t.Errorf("peers %v", m.Peers)
	}

	out, err := m.YAML()
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}

	for _, want := range []string{"server: a", "trust: trusted", "- alice", "type: exec", "cmd: /bin/true"} {
		if !strings.Contains(string(out), want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}

	var back map[string]interface{}
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Errorf("reparse: %v", err)
	}
	if back["generation"] != 1 {
		t.Errorf("generation %v", back["generation"])
	}
}

func TestBreakID(t *testing.T) {

	for n, id := range map[int]string{1: "1", 9: "9", 10: "a", 35: "z"} {
		if breakID(n) != id {
			t.Errorf("break %d -> %s", n, breakID(n))
		}
	}
}
