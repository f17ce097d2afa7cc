// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-10 11:30 (EDT)
// Function: decide the effective settings after a read

package settings

import (
	"conserver.domain/conserver/conserver"
)

// Changes says what the caller must act on
type Changes struct {
	ReopenLog     bool
	ReopenUnified bool
	Passwd        bool     // reload the password file
	Restart       []string // changed, but only take effect on restart
}

// Effective builds the starting settings: command line, then file,
// then default
func Effective(file *Config, opt *Config, def *Config) *Config {

	live := &Config{}
	live.merge(def)
	live.merge(file)
	live.merge(opt)
	return live
}

// Reconcile updates live after a reread. fields given on the command
// line never change. the restart-only fields are checked on the master.
func Reconcile(live *Config, file *Config, opt *Config, def *Config, master bool) *Changes {

	ch := &Changes{}

	ch.ReopenLog = pick(&live.Logfile, opt.Logfile, file.Logfile, def.Logfile)
	ch.ReopenUnified = pick(&live.UnifiedLog, opt.UnifiedLog, file.UnifiedLog, def.UnifiedLog)
	ch.Passwd = pick(&live.PasswdFile, opt.PasswdFile, file.PasswdFile, def.PasswdFile)

	pick(&live.DefaultAccess, opt.DefaultAccess, file.DefaultAccess, def.DefaultAccess)
	pick(&live.Redirect, opt.Redirect, file.Redirect, def.Redirect)
	pick(&live.AutoComplete, opt.AutoComplete, file.AutoComplete, def.AutoComplete)
	pick(&live.LogHostnames, opt.LogHostnames, file.LogHostnames, def.LogHostnames)
	pick(&live.ReinitCheck, opt.ReinitCheck, file.ReinitCheck, def.ReinitCheck)
	pick(&live.InitDelay, opt.InitDelay, file.InitDelay, def.InitDelay)
	pick(&live.SSLRequired, opt.SSLRequired, file.SSLRequired, def.SSLRequired)

	if !master {
		return ch
	}

	restart := func(name string, changed bool) {
		if !changed {
			return
		}
		ch.Restart = append(ch.Restart, name)
		conserver.Loggit("", "warning: `%s' config option changed - you must restart for it to take effect", name)
	}

	restart("daemonmode", pick(&live.DaemonMode, opt.DaemonMode, file.DaemonMode, def.DaemonMode))
	restart("primaryport", pick(&live.PrimaryPort, opt.PrimaryPort, file.PrimaryPort, def.PrimaryPort))
	restart("secondaryport", pick(&live.SecondaryPort, opt.SecondaryPort, file.SecondaryPort, def.SecondaryPort))
	restart("sslcredentials", pick(&live.SSLCredentials, opt.SSLCredentials, file.SSLCredentials, def.SSLCredentials))
	restart("sslcacertificatefile", pick(&live.SSLCAFile, opt.SSLCAFile, file.SSLCAFile, def.SSLCAFile))
	restart("sslreqclientcert", pick(&live.SSLReqCert, opt.SSLReqCert, file.SSLReqCert, def.SSLReqCert))
	restart("setproctitle", pick(&live.SetProcTitle, opt.SetProcTitle, file.SetProcTitle, def.SetProcTitle))

	if ch.ReopenLog {
		dl.Verbose("logfile now %s", live.Logfile)
	}
	return ch
}

// pick sets live from the file or default, unless the command line
// set it. reports whether live changed.
func pick[T comparable](live *T, opt T, file T, def T) bool {

	var zero T
	if opt != zero {
		return false
	}

	v := file
	if v == zero {
		v = def
	}
	if *live == v {
		return false
	}
	*live = v
	return true
}
