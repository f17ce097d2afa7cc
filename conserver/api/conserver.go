// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-16 10:30 (EDT)
// Function: control requests for the running configuration

package api

import (
	"fmt"
	"strings"

	"conserver.domain/conserver/clock"
	"conserver.domain/conserver/conserver"
	"conserver.domain/conserver/construct"
	"conserver.domain/conserver/dump"
)

// Control is what the daemon provides to the control channel
type Control struct {
	Server   *construct.Conserver
	Reread   func() error
	Shutdown func()
	Started  int64
}

// Install adds reread, status, dump, and shutdown
func (ctl *Control) Install(r *Router) {

	r.Add("reread", ctl.apiReread)
	r.Add("status", ctl.apiStatus)
	r.Add("dump", ctl.apiDump)
	r.Add("shutdown", ctl.apiShutdown)
}

func (ctl *Control) apiReread(ctx *Context) {

	err := ctl.Reread()
	if err != nil {
		ctx.SendResponseFinal(500, conserver.ErrMessage(err))
		return
	}

	ctx.SendOK()
	for _, m := range conserver.LogMsgs() {
		ctx.SendKVP("msg", m.Msg)
	}
	ctx.SendFinal()
}

func (ctl *Control) apiStatus(ctx *Context) {

	ctx.SendOK()

	ctl.Server.View(func() {
		c := ctl.Server
		local, remote := c.Engine.Counts()

		ctx.SendKVP("generation", fmt.Sprintf("%d", c.Generation))
		ctx.SendKVP("digest", c.Digest)
		ctx.SendKVP("files", strings.Join(c.Files, " "))
		ctx.SendKVP("groups", fmt.Sprintf("%d", len(c.Engine.Groups)))
		ctx.SendKVP("local", fmt.Sprintf("%d", local))
		ctx.SendKVP("remote", fmt.Sprintf("%d", remote))
		ctx.SendKVP("errors", fmt.Sprintf("%v", conserver.HasErrors()))
		if c.Title != "" {
			ctx.SendKVP("title", c.Title)
		}
	})

	ctx.SendKVP("uptime", fmt.Sprintf("%ds", clock.Unix()-ctl.Started))
	ctx.SendFinal()
}

// the yaml is a single url encoded value
func (ctl *Control) apiDump(ctx *Context) {

	var out []byte
	var err error

	ctl.Server.View(func() {
		out, err = dump.Build(ctl.Server).YAML()
	})

	if err != nil {
		ctx.SendResponseFinal(500, err.Error())
		return
	}

	ctx.SendOK()
	ctx.SendKVP("yaml", string(out))
	ctx.SendFinal()
}

func (ctl *Control) apiShutdown(ctx *Context) {

	ctx.SendOKFinal()
	if ctl.Shutdown != nil {
		ctl.Shutdown()
	}
}
