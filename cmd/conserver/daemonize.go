// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-17 10:10 (EDT)
// Function: run as a daemon

package main

import (
	"fmt"
	"os"
	"syscall"
)

const DAEMONENV = "_conserverdmode"

// daemonize re-executes in the background in a new session
func daemonize() {

	if os.Getenv(DAEMONENV) != "" {
		syscall.Setsid()
		return
	}

	prog, err := os.Executable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot daemonize: %v\n", err)
		os.Exit(2)
	}

	os.Setenv(DAEMONENV, "1")

	devnull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot daemonize: %v\n", err)
		os.Exit(2)
	}

	_, err = os.StartProcess(prog, os.Args, &os.ProcAttr{
		Files: []*os.File{devnull, devnull, devnull},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot daemonize: %v\n", err)
		os.Exit(2)
	}
	os.Exit(0)
}
