// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-07 11:40 (EST)
// Function: decide if a reconfigured console must be restarted

package console

import (
	"strings"
)

type change struct {
	name  string
	types uint // type masks this applies to, 0 = all
	equal func(o, n *Console) bool
}

const (
	serialTypes = 1<<DEVICE | 1<<EXEC
)

// attributes that need the console torn down when they change.
// everything else is picked up in place.
var changes = []change{
	{"type", 0, func(o, n *Console) bool { return o.Type == n.Type }},
	{"logfile", 0, func(o, n *Console) bool { return o.Logfile == n.Logfile }},

	{"exec", 1 << EXEC, func(o, n *Console) bool { return o.Exec == n.Exec }},
	{"execrunas", 1 << EXEC, func(o, n *Console) bool { return o.ExecUID == n.ExecUID && o.ExecGID == n.ExecGID }},

	{"device", 1 << DEVICE, func(o, n *Console) bool { return o.Device == n.Device }},
	{"baud", 1 << DEVICE, func(o, n *Console) bool { return o.Baud == n.Baud }},
	{"parity", 1 << DEVICE, func(o, n *Console) bool { return o.Parity == n.Parity }},
	{"hupcl", 1 << DEVICE, func(o, n *Console) bool { return o.Hupcl == n.Hupcl }},
	{"cstopb", 1 << DEVICE, func(o, n *Console) bool { return o.Cstopb == n.Cstopb }},

	{"ixany", serialTypes, func(o, n *Console) bool { return o.Ixany == n.Ixany }},
	{"ixon", serialTypes, func(o, n *Console) bool { return o.Ixon == n.Ixon }},
	{"ixoff", serialTypes, func(o, n *Console) bool { return o.Ixoff == n.Ixoff }},
	{"crtscts", serialTypes, func(o, n *Console) bool { return o.Crtscts == n.Crtscts }},

	{"host", 1<<HOST | 1<<IPMI, func(o, n *Console) bool { return strings.EqualFold(o.Host, n.Host) }},
	{"netport", 1 << HOST, func(o, n *Console) bool { return o.NetPort == n.NetPort }},

	{"username", 1 << IPMI, func(o, n *Console) bool { return o.Username == n.Username }},
	{"password", 1 << IPMI, func(o, n *Console) bool { return o.Password == n.Password }},
	{"ipmiprivlevel", 1 << IPMI, func(o, n *Console) bool { return o.IpmiPrivLevel == n.IpmiPrivLevel }},
	{"ipmiworkaround", 1 << IPMI, func(o, n *Console) bool { return o.IpmiWorkaround == n.IpmiWorkaround }},
	{"ipmiciphersuite", 1 << IPMI, func(o, n *Console) bool { return o.IpmiCipherSuite == n.IpmiCipherSuite }},
	{"ipmikg", 1 << IPMI, func(o, n *Console) bool { return o.IpmiKG == n.IpmiKG }},

	{"uds", 1 << UDS, func(o, n *Console) bool { return strings.EqualFold(o.Uds, n.Uds) }},
}

// Diff compares a running console's config against its replacement.
// it returns the attributes that require a restart, and whether the
// init command changed (which only matters if one is running).
func Diff(o *Console, n *Console) (fields []string, initChanged bool) {

	for _, ch := range changes {
		if ch.types != 0 && ch.types&n.Type.Mask() == 0 {
			continue
		}
		if !ch.equal(o, n) {
			fields = append(fields, ch.name)
		}
	}

	initChanged = o.InitCmd != n.InitCmd
	return
}
