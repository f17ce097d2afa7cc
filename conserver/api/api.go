// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-16 09:10 (EDT)
// Function: control channel requests

package api

import (
	"bufio"
	"net"
	"net/url"
	"sync"

	"github.com/jaw0/acdiag"
)

type Context struct {
	Method string
	Args   url.Values
	Conn   net.Conn
	bfd    *bufio.Reader
}

type HandlerFunc func(*Context)

// Router maps method names to handlers
type Router struct {
	lock   sync.RWMutex
	routes map[string]HandlerFunc
}

var dl = diag.Logger("api")

func NewRouter() *Router {

	r := &Router{routes: make(map[string]HandlerFunc)}
	r.Add("exit", apiExit)
	r.Add("ping", apiPing)
	return r
}

func (r *Router) Add(method string, f HandlerFunc) {

	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.routes[method]; ok {
		diag.Fatal("duplicate api method: %s", method)
	}
	r.routes[method] = f
}

func (r *Router) find(method string) HandlerFunc {

	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.routes[method]
}

func (c *Context) Param(n string) string {
	return c.Args.Get(n)
}

func apiExit(ctx *Context) {
	ctx.SendOKFinal()
	ctx.Conn.Close()
}

func apiPing(ctx *Context) {
	ctx.SendOKFinal()
}
