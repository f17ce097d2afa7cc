// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-16 11:20 (EDT)
// Function: control socket client

package client

import (
	"bufio"
	"fmt"
	"net"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/agilira/go-errors"
)

const (
	PROTOCOL       = "CONSERVER/1.0"
	ErrCodeProto   = "CONSERVER_PROTOCOL"
	ErrCodeConnect = "CONSERVER_CONNECT"
)

type Conn struct {
	C   net.Conn
	bfd *bufio.Reader
}

type KVP struct {
	Key string
	Val string
}

type Response struct {
	Code int
	Msg  string
	KVP  []KVP
}

func New(path string, timeout time.Duration) (*Conn, error) {

	c, err := net.DialTimeout("unix", path, timeout)
	if err != nil {
		return nil, errors.Wrap(err, ErrCodeConnect, fmt.Sprintf("cannot connect to %s", path))
	}

	return &Conn{C: c, bfd: bufio.NewReader(c)}, nil
}

func (c *Conn) Close() {
	c.C.Close()
}

func (c *Conn) Get(method string, args map[string]string, timeout time.Duration) (*Response, error) {

	c.C.SetDeadline(time.Now().Add(timeout))

	fmt.Fprintf(c.C, "GET %s %s\n", url.QueryEscape(method), PROTOCOL)

	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(c.C, "%s: %s\n", k, url.QueryEscape(args[k]))
	}
	fmt.Fprintf(c.C, "\n")

	respline, _, err := c.bfd.ReadLine()
	if err != nil {
		return nil, err
	}

	// "CONSERVER/1.0 200 OK"
	flds := strings.SplitN(string(respline), " ", 3)
	if len(flds) != 3 || flds[0] != PROTOCOL {
		return nil, errors.New(ErrCodeProto, "protocol botched")
	}

	code, _ := strconv.Atoi(flds[1])
	resp := &Response{Code: code, Msg: flds[2]}

	for {
		line, _, err := c.bfd.ReadLine()
		if err != nil {
			return resp, err
		}
		if len(line) == 0 {
			break
		}
		kv := strings.SplitN(string(line), ": ", 2)
		v := ""
		if len(kv) == 2 {
			v, _ = url.QueryUnescape(strings.TrimSpace(kv[1]))
		}
		resp.KVP = append(resp.KVP, KVP{kv[0], v})
	}

	return resp, nil
}

// Get returns the first value for key
func (r *Response) Get(key string) string {

	for _, kv := range r.KVP {
		if kv.Key == key {
			return kv.Val
		}
	}
	return ""
}
