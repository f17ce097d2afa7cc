// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-17 09:00 (EDT)
// Function: conserver main

package main

import (
	"bytes"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"conserver.domain/conserver/api"
	"conserver.domain/conserver/clock"
	"conserver.domain/conserver/codec"
	"conserver.domain/conserver/config"
	"conserver.domain/conserver/console"
	"conserver.domain/conserver/conserver"
	"conserver.domain/conserver/construct"
	"conserver.domain/conserver/dump"
	"conserver.domain/conserver/resolv"
	"conserver.domain/conserver/settings"
	"github.com/jaw0/acdiag"
	"github.com/spf13/pflag"
)

var dl = diag.Logger("main")
var sigchan = make(chan os.Signal, 5)

type flags struct {
	rcfile     string
	cfgfile    string
	maxmembers int
	syntax     int
	dump       bool
	foreground bool
	forced     console.Forced
}

func main() {

	var fl flags

	fs := pflag.NewFlagSet("conserver", pflag.ExitOnError)
	fs.StringVarP(&fl.rcfile, "rcfile", "r", "", "startup options file")
	fs.StringVarP(&fl.cfgfile, "config", "C", "", "configuration file or directory")
	fs.IntVarP(&fl.maxmembers, "maxmembers", "m", 0, "consoles per group")
	fs.CountVarP(&fl.syntax, "syntax", "S", "check the configuration (twice to list consoles)")
	fs.BoolVar(&fl.dump, "dump", false, "print the compiled configuration as yaml")
	fs.BoolVarP(&fl.foreground, "foreground", "f", false, "run in foreground")
	fs.BoolVarP(&fl.forced.NoAutoReup, "no-autoreinit", "F", false, "never reinitialize failed consoles")
	fs.BoolVarP(&fl.forced.NoInit, "on-demand", "i", false, "connect consoles on demand")
	fs.BoolVarP(&fl.forced.Strip, "strip-high", "7", false, "strip the high bit")
	fs.BoolVarP(&fl.forced.Reopen, "reinit-on-connect", "o", false, "reinitialize down consoles when a client connects")
	fs.BoolVarP(&fl.forced.All, "unloved", "u", false, "send output to unloved consoles")

	// these override the config stanza
	fs.StringP("defaultaccess", "a", "", "default access type")
	fs.BoolP("daemonmode", "d", false, "become a daemon")
	fs.StringP("logfile", "L", "", "logfile")
	fs.StringP("passwdfile", "P", "", "password file")
	fs.StringP("primaryport", "p", "", "primary port")
	fs.StringP("secondaryport", "b", "", "base secondary port")
	fs.StringP("unifiedlog", "U", "", "unified logfile")
	fs.BoolP("noredirect", "R", false, "disable automatic client redirection")
	fs.IntP("reinitcheck", "O", 0, "minutes between reinit checks")
	fs.Parse(os.Args[1:])

	opt, err := cmdlineSettings(fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", conserver.ErrMessage(err))
		os.Exit(2)
	}

	diag.Init("conserver")
	config.Load(fl.rcfile)
	cf := config.Cf()

	if fl.cfgfile != "" {
		cf.Config = fl.cfgfile
	}
	if fs.Changed("maxmembers") {
		cf.MaxMembers = fl.maxmembers
	}

	res, err := resolv.New(cf.DNS_server)
	if err == nil {
		err = res.Configure(cf.DNS_server, cf.DNS_search)
	}
	if err != nil {
		diag.Fatal("cannot configure resolver: %v", err)
	}
	host, err := resolv.Local(res, cf.Hostname)
	if err != nil {
		diag.Fatal("%v", err)
	}

	opts := construct.Options{
		Master:     true,
		MaxMembers: cf.MaxMembers,
		IsMe:       host.IsMe,
		Addrs:      host.IPv4(),
		Forced:     fl.forced,
		Opt:        opt,
	}

	if fl.syntax != 0 || fl.dump {
		os.Exit(syntaxCheck(cf.Config, opts, fl))
	}

	srv := construct.New(opts)
	_, err = srv.ReReadCfg(cf.Config)
	if err != nil {
		diag.Fatal("%s", conserver.ErrMessage(err))
	}

	if srv.Live.DaemonMode.True() && !fl.foreground {
		daemonize()
	}
	publish(srv)

	conserver.Loggit("", "conserver starting, %d consoles", len(srv.Consoles))

	ctl := &api.Control{
		Server:   srv,
		Reread:   func() error { return reread(srv, cf.Config) },
		Shutdown: func() { sigchan <- syscall.SIGTERM },
		Started:  clock.Unix(),
	}
	router := api.NewRouter()
	ctl.Install(router)

	apisrv, err := api.Listen(cf.Control_Socket, router)
	if err != nil {
		dl.Problem("cannot open control socket: %v", err)
	}

	signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)

	for n := range sigchan {
		if n != syscall.SIGHUP {
			break
		}
		if err := reread(srv, cf.Config); err != nil {
			dl.Problem("reread failed: %s", conserver.ErrMessage(err))
		}
	}

	diag.Verbose("shutting down...")
	if apisrv != nil {
		apisrv.Close()
		os.Remove(cf.Control_Socket)
	}
	conserver.Loggit("", "conserver exiting")
}

// cmdlineSettings collects the flags that were given into the
// command line shadow of the config stanza
func cmdlineSettings(fs *pflag.FlagSet) (*settings.Config, error) {

	m := make(map[string]interface{})

	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "defaultaccess", "logfile", "passwdfile", "primaryport", "secondaryport", "unifiedlog":
			m[f.Name] = f.Value.String()
		case "daemonmode":
			m[f.Name] = true
		case "noredirect":
			m["redirect"] = false
		case "reinitcheck":
			v, _ := fs.GetInt(f.Name)
			m[f.Name] = v
		}
	})

	return settings.FromMap(m)
}

func reread(srv *construct.Conserver, file string) error {

	ch, err := srv.ReReadCfg(file)
	if err != nil {
		if conserver.ErrCode(err) == conserver.ErrCodeNoConsoles {
			diag.Fatal("%s", conserver.ErrMessage(err))
		}
		return err
	}

	if ch.ReopenLog {
		diag.Verbose("logfile now %s", srv.Live.Logfile)
	}
	if ch.ReopenUnified {
		diag.Verbose("unified log now %s", srv.Live.UnifiedLog)
	}
	publish(srv)
	return nil
}

// publish hands the reconfiguration events to the group processes
func publish(srv *construct.Conserver) {

	var buf bytes.Buffer

	srv.View(func() {
		err := codec.WriteBatch(&buf, srv.Batch())
		if err != nil {
			dl.Bug("cannot encode events: %v", err)
		}
	})

	if txt, err := codec.Diagnose(buf.Bytes()); err == nil {
		dl.Debug("events %s", txt)
	}
}

func syntaxCheck(file string, opts construct.Options, fl flags) int {

	if fl.dump {
		srv := construct.New(opts)
		if err := srv.ReadCfg(file); err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", conserver.ErrMessage(err))
			return 1
		}
		out, err := dump.Build(srv).YAML()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 1
		}
		os.Stdout.Write(out)
		return exitStatus()
	}

	cons, err := construct.Check(file, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", conserver.ErrMessage(err))
		return 1
	}

	if fl.syntax > 1 {
		for _, c := range cons {
			fmt.Println(c.Syntax())
		}
	}
	return exitStatus()
}

func exitStatus() int {
	if conserver.HasErrors() {
		return 1
	}
	return 0
}
