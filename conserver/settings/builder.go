// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-10 10:02 (EDT)
// Function: config stanzas

package settings

import (
	"strconv"

	"conserver.domain/conserver/conserver"
)

// Builder handles `config NAME { ... }` stanzas. only `*' and stanzas
// naming this host are used, later ones win field by field.
type Builder struct {
	Diag *conserver.Diag
	IsMe func(string) bool
	File *Config

	name string
	curr *Config
}

func NewBuilder(d *conserver.Diag, isMe func(string) bool) *Builder {
	return &Builder{
		Diag: d,
		IsMe: isMe,
		File: &Config{},
	}
}

func (b *Builder) Begin(name string) {

	b.curr = nil
	if name == "" {
		b.Diag.Advise("empty config name")
		return
	}
	b.name = name
	b.curr = &Config{}
}

func (b *Builder) End() {

	if b.curr == nil {
		return
	}

	if b.name == "*" || b.IsMe(b.name) {
		b.File.merge(b.curr)
	} else {
		dl.Debug("skipping config %s", b.name)
	}
	b.curr = nil
}

func (b *Builder) Abort() {
	b.curr = nil
}

func (b *Builder) Destroy() {
	b.curr = nil
}

func (b *Builder) Items() map[string]func(string) {

	str := func(f func(*Config) *string) func(string) {
		return func(v string) {
			if b.curr != nil {
				*f(b.curr) = v
			}
		}
	}
	yesno := func(f func(*Config) *conserver.Flag) func(string) {
		return func(v string) {
			if b.curr != nil {
				b.Diag.YesNo(v, f(b.curr))
			}
		}
	}
	number := func(what string, f func(*Config) *int) func(string) {
		return func(v string) {
			if b.curr == nil {
				return
			}
			if v == "" {
				*f(b.curr) = 0
				return
			}
			n, err := strconv.Atoi(v)
			if !conserver.IsDigits(v) || err != nil {
				b.Diag.Advise("invalid %s value `%s'", what, v)
				return
			}
			*f(b.curr) = n
		}
	}

	return map[string]func(string){
		"autocomplete":         yesno(func(c *Config) *conserver.Flag { return &c.AutoComplete }),
		"daemonmode":           yesno(func(c *Config) *conserver.Flag { return &c.DaemonMode }),
		"defaultaccess":        b.itemDefaultAccess,
		"initdelay":            number("initdelay", func(c *Config) *int { return &c.InitDelay }),
		"logfile":              str(func(c *Config) *string { return &c.Logfile }),
		"loghostnames":         yesno(func(c *Config) *conserver.Flag { return &c.LogHostnames }),
		"passwdfile":           str(func(c *Config) *string { return &c.PasswdFile }),
		"primaryport":          str(func(c *Config) *string { return &c.PrimaryPort }),
		"redirect":             yesno(func(c *Config) *conserver.Flag { return &c.Redirect }),
		"reinitcheck":          number("reinitcheck", func(c *Config) *int { return &c.ReinitCheck }),
		"secondaryport":        str(func(c *Config) *string { return &c.SecondaryPort }),
		"setproctitle":         yesno(func(c *Config) *conserver.Flag { return &c.SetProcTitle }),
		"sslcacertificatefile": str(func(c *Config) *string { return &c.SSLCAFile }),
		"sslcredentials":       str(func(c *Config) *string { return &c.SSLCredentials }),
		"sslreqclientcert":     yesno(func(c *Config) *conserver.Flag { return &c.SSLReqCert }),
		"sslrequired":          yesno(func(c *Config) *conserver.Flag { return &c.SSLRequired }),
		"unifiedlog":           str(func(c *Config) *string { return &c.UnifiedLog }),
	}
}

func (b *Builder) itemDefaultAccess(v string) {

	if b.curr == nil {
		return
	}
	if v == "" {
		b.curr.DefaultAccess = 0
		return
	}

	a, ok := ParseAccess(v)
	if !ok {
		b.Diag.Advise("invalid access type `%s'", v)
		return
	}
	b.curr.DefaultAccess = a
}
