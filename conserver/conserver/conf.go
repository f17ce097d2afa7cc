// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-02 10:14 (EST)
// Function: misc config

package conserver

// about conserver
const Version = "conserver.go 0.9"

// defaults
const ConfigFile = "/etc/conserver.cf"
const ControlSocket = "/var/run/conserver.ctl"
const MaxMembers = 16

// separators used by every list valued attribute
const ALLWORDSEP = ", \f\v\t\n\r"
