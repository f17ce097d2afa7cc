// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-16 09:40 (EDT)
// Function: control socket server

package api

import (
	"bufio"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"sync"
)

const PROTOCOL = "CONSERVER/1.0"

type Server struct {
	router *Router
	lsock  net.Listener
	wg     sync.WaitGroup
}

// Listen opens the unix domain control socket. connections on it are trusted.
func Listen(path string, r *Router) (*Server, error) {

	os.Remove(path)

	l, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}

	dl.Verbose("api listening on %s", path)

	s := &Server{router: r, lsock: l}
	s.wg.Add(1)
	go s.accept()
	return s, nil
}

func (s *Server) Addr() string {
	return s.lsock.Addr().String()
}

func (s *Server) Close() {
	s.lsock.Close()
	s.wg.Wait()
}

func (s *Server) accept() {

	defer s.wg.Done()

	for {
		c, err := s.lsock.Accept()
		if err != nil {
			return
		}
		dl.Debug("connection from %s", c.RemoteAddr())
		go s.run(c)
	}
}

func (s *Server) run(c net.Conn) {

	defer c.Close()

	ctx := &Context{Conn: c, bfd: bufio.NewReader(c)}

	for {
		if !ctx.readRequest() {
			return
		}

		f := s.router.find(ctx.Method)
		if f == nil {
			ctx.Send404()
			continue
		}
		f(ctx)
	}
}

// request:
//	GET method CONSERVER/1.0
//	param: value
//	<blank line>
//
// response:
//	CONSERVER/1.0 200 OK
//	key: value
//	<blank line>
//
// values are url encoded

func (ctx *Context) readRequest() bool {

	reqline, _, err := ctx.bfd.ReadLine()
	if err != nil {
		dl.Debug("read error: %v", err)
		return false
	}

	flds := strings.Fields(string(reqline))
	if len(flds) != 3 || flds[0] != "GET" || flds[2] != PROTOCOL {
		return false
	}

	ctx.Method, _ = url.QueryUnescape(flds[1])
	ctx.Args = make(url.Values)
	dl.Debug("request: %s", ctx.Method)

	for {
		line, _, err := ctx.bfd.ReadLine()
		if err != nil {
			dl.Debug("read error: %v", err)
			return false
		}
		if len(line) == 0 {
			return true
		}

		kv := strings.SplitN(string(line), ": ", 2)
		v := ""
		if len(kv) == 2 {
			v, _ = url.QueryUnescape(strings.TrimSpace(kv[1]))
		}
		ctx.Args.Add(strings.TrimSpace(kv[0]), v)
	}
}

func (ctx *Context) SendOK() {
	ctx.SendResponse(200, "OK")
}
func (ctx *Context) SendOKFinal() {
	ctx.SendResponseFinal(200, "OK")
}
func (ctx *Context) Send404() {
	ctx.SendResponseFinal(404, "Not Found")
}
func (ctx *Context) SendResponseFinal(code int, msg string) {
	ctx.SendResponse(code, msg)
	ctx.SendFinal()
}
func (ctx *Context) SendResponse(code int, msg string) {
	fmt.Fprintf(ctx.Conn, "%s %d %s\n", PROTOCOL, code, msg)
}
func (ctx *Context) SendFinal() {
	ctx.Conn.Write([]byte("\n"))
}
func (ctx *Context) SendKVP(key string, val string) {
	fmt.Fprintf(ctx.Conn, "%s: %s\n", key, url.QueryEscape(val))
}
