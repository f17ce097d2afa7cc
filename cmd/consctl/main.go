// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-17 11:00 (EDT)
// Function: control conserver

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"conserver.domain/conserver/api/client"
	"conserver.domain/conserver/config"
	"conserver.domain/conserver/passwd"
	"github.com/spf13/pflag"
)

const TIMEOUT = 15 * time.Second

func main() {

	var rawoutput bool
	var controlsock string

	pflag.StringVarP(&controlsock, "socket", "s", config.CONTROLSOCKET, "control socket")
	pflag.BoolVarP(&rawoutput, "raw", "r", false, "raw output")
	pflag.Parse()

	method := pflag.Arg(0)

	switch method {
	case "":
		fmt.Fprintf(os.Stderr, "usage: consctl [-s socket] reread|status|dump|shutdown|hash password\n")
		os.Exit(2)
	case "hash":
		// build an entry for the passwd file
		h, err := passwd.Hash(pflag.Arg(1))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(h)
		return
	}

	c, err := client.New(controlsock, TIMEOUT)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot connect to conserver: %v\n", err)
		os.Exit(1)
	}
	defer c.Close()

	args := make(map[string]string)
	for i := 1; i < pflag.NArg(); i++ {
		kv := strings.SplitN(pflag.Arg(i), "=", 2)
		if len(kv) == 2 {
			args[kv[0]] = kv[1]
		} else {
			args[kv[0]] = ""
		}
	}

	resp, err := c.Get(method, args, TIMEOUT)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%d %s\n", resp.Code, resp.Msg)

	if method == "dump" && !rawoutput {
		fmt.Print(resp.Get("yaml"))
		return
	}

	maxlen := 0
	for _, kv := range resp.KVP {
		if len(kv.Key) > maxlen {
			maxlen = len(kv.Key)
		}
	}

	for _, kv := range resp.KVP {
		if rawoutput {
			fmt.Printf("%s: %s\n", kv.Key, kv.Val)
			continue
		}
		fmt.Printf("%-*s  %s\n", maxlen+1, kv.Key+":", kv.Val)
	}

	if resp.Code != 200 {
		os.Exit(1)
	}
}
