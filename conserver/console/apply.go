// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-06 14:20 (EST)
// Function: layer a default onto a console

package console

import (
	"conserver.domain/conserver/conserver"
	"conserver.domain/conserver/users"
)

// ApplyDefault copies every field that is set in d onto c.
// ro/rw lists are merged, everything else is replaced.
func ApplyDefault(d *Console, c *Console) {

	if d.Type != UNKNOWN {
		c.Type = d.Type
	}
	if d.Baud != nil {
		c.Baud = d.Baud
	}
	if d.Parity != nil {
		c.Parity = d.Parity
	}
	if d.IdleTimeout != 0 {
		c.IdleTimeout = d.IdleTimeout
	}
	if d.LogfileMax != 0 {
		c.LogfileMax = d.LogfileMax
	}
	if d.Mark != 0 {
		c.Mark = d.Mark
	}
	if d.NextMark != 0 {
		c.NextMark = d.NextMark
	}

	for _, f := range optFields {
		if v := *f(d); v.Valid {
			*f(c) = v
		}
	}
	for _, f := range flagFields {
		if v := *f(d); v.IsSet() {
			*f(c) = v
		}
	}
	for _, f := range stringFields {
		if v := *f(d); v != "" {
			*f(c) = v
		}
	}

	if d.IpmiWrkSet {
		c.IpmiWorkaround = d.IpmiWorkaround
		c.IpmiWrkSet = true
	}
	if d.IpmiPrivLevel != PRIV_UNSET {
		c.IpmiPrivLevel = d.IpmiPrivLevel
	}

	users.CopyList(d.RO, &c.RO, false)
	users.CopyList(d.RW, &c.RW, false)
}

var optFields = []func(*Console) *conserver.Opt{
	func(c *Console) *conserver.Opt { return &c.BreakNum },
	func(c *Console) *conserver.Opt { return &c.Port },
	func(c *Console) *conserver.Opt { return &c.PortBase },
	func(c *Console) *conserver.Opt { return &c.PortInc },
	func(c *Console) *conserver.Opt { return &c.SpinMax },
	func(c *Console) *conserver.Opt { return &c.SpinTimer },
	func(c *Console) *conserver.Opt { return &c.InitUID },
	func(c *Console) *conserver.Opt { return &c.InitGID },
	func(c *Console) *conserver.Opt { return &c.ExecUID },
	func(c *Console) *conserver.Opt { return &c.ExecGID },
	func(c *Console) *conserver.Opt { return &c.IpmiCipherSuite },
}

var flagFields = []func(*Console) *conserver.Flag{
	func(c *Console) *conserver.Flag { return &c.Raw },
	func(c *Console) *conserver.Flag { return &c.ActivityLog },
	func(c *Console) *conserver.Flag { return &c.BreakLog },
	func(c *Console) *conserver.Flag { return &c.TaskLog },
	func(c *Console) *conserver.Flag { return &c.Hupcl },
	func(c *Console) *conserver.Flag { return &c.Cstopb },
	func(c *Console) *conserver.Flag { return &c.Ixany },
	func(c *Console) *conserver.Flag { return &c.Ixon },
	func(c *Console) *conserver.Flag { return &c.Ixoff },
	func(c *Console) *conserver.Flag { return &c.Crtscts },
	func(c *Console) *conserver.Flag { return &c.OnDemand },
	func(c *Console) *conserver.Flag { return &c.StripHigh },
	func(c *Console) *conserver.Flag { return &c.ReinitOnCC },
	func(c *Console) *conserver.Flag { return &c.AutoReinit },
	func(c *Console) *conserver.Flag { return &c.Unloved },
	func(c *Console) *conserver.Flag { return &c.Login },
}

var stringFields = []func(*Console) *string{
	func(c *Console) *string { return &c.Host },
	func(c *Console) *string { return &c.Uds },
	func(c *Console) *string { return &c.UdsSubst },
	func(c *Console) *string { return &c.Master },
	func(c *Console) *string { return &c.Exec },
	func(c *Console) *string { return &c.Device },
	func(c *Console) *string { return &c.DeviceSubst },
	func(c *Console) *string { return &c.ExecSubst },
	func(c *Console) *string { return &c.InitSubst },
	func(c *Console) *string { return &c.Logfile },
	func(c *Console) *string { return &c.InitCmd },
	func(c *Console) *string { return &c.Motd },
	func(c *Console) *string { return &c.IdleString },
	func(c *Console) *string { return &c.ReplString },
	func(c *Console) *string { return &c.TaskList },
	func(c *Console) *string { return &c.BreakList },
	func(c *Console) *string { return &c.Username },
	func(c *Console) *string { return &c.Password },
	func(c *Console) *string { return &c.IpmiKG },
}
