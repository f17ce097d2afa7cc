// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-07 09:18 (EST)
// Function: final console compile pass

package console

import (
	"fmt"
	"strings"

	"conserver.domain/conserver/conserver"
	"conserver.domain/conserver/subst"
	"golang.org/x/sys/unix"
)

// Forced options from the command line
type Forced struct {
	NoAutoReup bool // -a: never autoreinit
	NoInit     bool // -i: connect on demand
	Strip      bool // -7: strip the high bit
	Reopen     bool // -o: reinit on client connect
	All        bool // -u: unloved
}

// SunPathMax is the size of sockaddr_un.sun_path
var SunPathMax = len(unix.RawSockaddrUnix{}.Path)

// Compile fills in defaults, derives netport, runs the substitution
// templates and applies forced options. consoles that still cannot be
// used are skipped.
func Compile(list []*Console, f Forced, d *conserver.Diag) []*Console {

	var out []*Console
	s := NewSubst()

	for _, c := range list {
		c.compile(s, f)

		if c.Type == UDS && len(c.Uds) >= SunPathMax {
			d.Advise("[%s] 'uds' path too large (%d >= %d)", c.Server, len(c.Uds), SunPathMax)
			continue
		}

		dl.Debug("compiled %s", c.Syntax())
		out = append(out, c)
	}

	return out
}

func (c *Console) compile(s *subst.Subst, f Forced) {

	if c.IpmiPrivLevel == PRIV_UNSET {
		c.IpmiPrivLevel = PRIV_ADMIN
	}
	if !c.IpmiCipherSuite.Valid {
		c.IpmiCipherSuite = conserver.Some(-1)
	}
	if !c.IpmiWrkSet {
		c.IpmiWorkaround = WRK_DEFAULT
		c.IpmiWrkSet = true
	}

	if !c.BreakNum.Valid {
		c.BreakNum = conserver.Some(1)
	}
	if !c.SpinMax.Valid {
		c.SpinMax = conserver.Some(5)
	}
	if !c.SpinTimer.Valid {
		c.SpinTimer = conserver.Some(1)
	}
	if !c.PortInc.Valid {
		c.PortInc = conserver.Some(1)
	}
	if !c.PortBase.Valid {
		c.PortBase = conserver.Some(0)
	}
	if !c.Port.Valid {
		c.Port = conserver.Some(0)
	}

	c.NetPort = c.PortBase.Val + c.PortInc.Val*c.Port.Val

	s.Bind(c)
	if c.Type == DEVICE && c.DeviceSubst != "" {
		c.Device = s.Expand(c.DeviceSubst)
	}
	if c.Type == EXEC && c.ExecSubst != "" {
		c.Exec = s.Expand(c.ExecSubst)
	}
	if c.Type == UDS && c.UdsSubst != "" {
		c.Uds = s.Expand(c.UdsSubst)
	}
	if c.InitCmd != "" && c.InitSubst != "" {
		c.InitCmd = s.Expand(c.InitSubst)
	}

	if c.Logfile != "" {
		c.Logfile = strings.ReplaceAll(c.Logfile, "&", c.Server)
	}

	if c.IdleString == "" {
		c.IdleString = `\n`
	}

	c.AutoReinit = c.AutoReinit.Or(conserver.FlagTrue)
	c.Ixon = c.Ixon.Or(conserver.FlagTrue)
	c.Login = c.Login.Or(conserver.FlagTrue)
	if c.Type == EXEC {
		c.Ixoff = c.Ixoff.Or(conserver.FlagFalse)
	} else {
		c.Ixoff = c.Ixoff.Or(conserver.FlagTrue)
	}

	for _, fl := range []*conserver.Flag{
		&c.ActivityLog, &c.Raw, &c.BreakLog, &c.TaskLog, &c.Hupcl, &c.Ixany,
		&c.Cstopb, &c.Crtscts, &c.OnDemand, &c.ReinitOnCC, &c.StripHigh, &c.Unloved,
	} {
		*fl = fl.Or(conserver.FlagFalse)
	}

	if c.Type == NOOP {
		c.Login = conserver.FlagFalse
		c.Logfile = ""
	}

	if f.NoAutoReup {
		c.AutoReinit = conserver.FlagFalse
	}
	if f.NoInit {
		c.OnDemand = conserver.FlagTrue
	}
	if f.Strip {
		c.StripHigh = conserver.FlagTrue
	}
	if f.Reopen {
		c.ReinitOnCC = conserver.FlagTrue
	}
	if f.All {
		c.Unloved = conserver.FlagTrue
	}
}

// Syntax renders {server:master:aliases:T:detail}
func (c *Console) Syntax() string {

	var detail string

	switch c.Type {
	case EXEC:
		cmd := c.Exec
		if cmd == "" {
			cmd = "/bin/sh"
		}
		detail = "|:" + cmd
	case HOST:
		detail = fmt.Sprintf("!:%s,%d", c.Host, c.NetPort)
	case NOOP:
		detail = "#:"
	case UDS:
		detail = "%:" + c.Uds
	case DEVICE:
		baud := ""
		if c.Baud != nil {
			baud = c.Baud.Acrate
		}
		par := byte(' ')
		if c.Parity != nil {
			par = c.Parity.Key[0]
		}
		detail = fmt.Sprintf("/:%s,%s%c", c.Device, baud, par)
	case IPMI:
		detail = "@:" + c.Host
	}

	return fmt.Sprintf("{%s:%s:%s:%s}", c.Server, c.Master, strings.Join(c.Aliases, ","), detail)
}
