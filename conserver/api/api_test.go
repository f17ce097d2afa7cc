// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-16 13:00 (EDT)
// Function:

package api

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"conserver.domain/conserver/api/client"
	"conserver.domain/conserver/construct"
)

const timeout = 5 * time.Second

func testControl(t *testing.T) (*Server, *Control, string) {

	dir := t.TempDir()
	cf := filepath.Join(dir, "conserver.cf")
	os.WriteFile(cf, []byte("console a { master localhost; type noop; }\n"), 0644)

	c := construct.New(construct.Options{Master: true, IsMe: func(h string) bool { return h == "localhost" }})

	ctl := &Control{
		Server: c,
		Reread: func() error { return c.ReadCfg(cf) },
	}
	if err := ctl.Reread(); err != nil {
		t.Fatalf("read: %v", err)
	}

	r := NewRouter()
	ctl.Install(r)

	// keep the socket path short enough for sun_path
	sock := filepath.Join(dir, "ctl")
	s, err := Listen(sock, r)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	return s, ctl, sock
}

func TestControl(t *testing.T) {

	s, ctl, sock := testControl(t)
	defer s.Close()

	down := make(chan bool, 1)
	ctl.Shutdown = func() { down <- true }

	c, err := client.New(sock, timeout)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer c.Close()

	resp, err := c.Get("status", nil, timeout)
	if err != nil || resp.Code != 200 {
		t.Fatalf("status %v %v", resp, err)
	}
	if resp.Get("generation") != "1" || resp.Get("local") != "1" {
		t.Errorf("status %+v", resp.KVP)
	}

	resp, err = c.Get("reread", nil, timeout)
	if err != nil || resp.Code != 200 {
		t.Fatalf("reread %v %v", resp, err)
	}

	resp, err = c.Get("dump", nil, timeout)
	if err != nil || !strings.Contains(resp.Get("yaml"), "generation: 2") {
		t.Errorf("dump %+v %v", resp, err)
	}

	resp, err = c.Get("nosuch", map[string]string{"x": "a b"}, timeout)
	if err != nil || resp.Code != 404 {
		t.Errorf("nosuch %v %v", resp, err)
	}

	resp, err = c.Get("shutdown", nil, timeout)
	if err != nil || resp.Code != 200 {
		t.Errorf("shutdown %v %v", resp, err)
	}
	select {
	case <-down:
	case <-time.After(timeout):
		t.Errorf("no shutdown")
	}
}
