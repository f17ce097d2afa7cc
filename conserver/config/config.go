// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-15 11:30 (EDT)
// Function: load the small startup options file

package config

import (
	"conserver.domain/accfg"
	"conserver.domain/conserver/conserver"
	"github.com/jaw0/acdiag"
)

const (
	CONFIGFILE    = "/etc/conserver.cf"
	CONTROLSOCKET = "/var/run/conserver.ctl"
	MAXMEMBERS    = 16
)

type Options struct {
	Config         string
	Hostname       string
	MaxMembers     int
	PasswdFile     string
	Control_Socket string
	DNS_server     []string
	DNS_search     []string
	Debug          map[string]bool
}

var cf = defaults()

func defaults() *Options {
	return &Options{
		Config:         CONFIGFILE,
		MaxMembers:     MAXMEMBERS,
		Control_Socket: CONTROLSOCKET,
		Debug:          make(map[string]bool),
	}
}

// Load reads file, or just sets the defaults if file is ""
func Load(file string) {

	err := read(file)
	if err != nil {
		diag.Fatal("%s", conserver.ErrMessage(err))
	}
}

func Cf() *Options {
	return cf
}

func read(file string) error {

	newcf := defaults()

	if file != "" {
		err := accfg.Read(file, newcf)
		if err != nil {
			return conserver.Wrap(err, conserver.ErrCodeIO, "cannot read config '%s'", file)
		}
	}

	if newcf.MaxMembers < 0 {
		newcf.MaxMembers = 0
	}

	diag.SetConfig(&diag.Config{
		Debug: newcf.Debug,
	})

	cf = newcf
	return nil
}
