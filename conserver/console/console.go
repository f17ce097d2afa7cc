// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-06 09:40 (EST)
// Function: console model

package console

import (
	"strings"

	"conserver.domain/conserver/conserver"
	"conserver.domain/conserver/users"
	"github.com/jaw0/acdiag"
)

type Type int

const (
	UNKNOWN Type = iota
	DEVICE
	EXEC
	HOST
	NOOP
	UDS
	IPMI
)

var typeNames = map[Type]string{
	UNKNOWN: "unknown",
	DEVICE:  "device",
	EXEC:    "exec",
	HOST:    "host",
	NOOP:    "noop",
	UDS:     "uds",
	IPMI:    "ipmi",
}

func (t Type) String() string {
	return typeNames[t]
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Mask is used by the change table
func (t Type) Mask() uint {
	return 1 << uint(t)
}

func ParseType(v string) (Type, bool) {

	for t, n := range typeNames {
		if t != UNKNOWN && strings.EqualFold(n, v) {
			return t, true
		}
	}
	return UNKNOWN, false
}

type IpmiPriv int

const (
	PRIV_UNSET IpmiPriv = iota
	PRIV_USER
	PRIV_OPERATOR
	PRIV_ADMIN
)

func (p IpmiPriv) String() string {
	switch p {
	case PRIV_USER:
		return "user"
	case PRIV_OPERATOR:
		return "operator"
	case PRIV_ADMIN:
		return "admin"
	}
	return ""
}

func (p IpmiPriv) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Console is one compiled console (or default) stanza
type Console struct {
	Server  string
	Aliases []string
	Type    Type
	Master  string

	// connection
	Host   string
	Device string
	Exec   string
	Uds    string
	Baud   *Baud
	Parity *Parity

	// substitution templates
	DeviceSubst string
	ExecSubst   string
	UdsSubst    string
	InitSubst   string

	Logfile    string
	LogfileMax int64
	InitCmd    string
	Motd       string
	IdleString string
	ReplString string
	TaskList   string
	BreakList  string

	BreakNum    conserver.Opt
	IdleTimeout int
	Port        conserver.Opt
	PortBase    conserver.Opt
	PortInc     conserver.Opt
	NetPort     int
	SpinMax     conserver.Opt
	SpinTimer   conserver.Opt
	InitUID     conserver.Opt
	InitGID     conserver.Opt
	ExecUID     conserver.Opt
	ExecGID     conserver.Opt

	// timestamp
	Mark        int
	NextMark    int64
	ActivityLog conserver.Flag
	BreakLog    conserver.Flag
	TaskLog     conserver.Flag

	Raw        conserver.Flag
	Hupcl      conserver.Flag
	Cstopb     conserver.Flag
	Ixany      conserver.Flag
	Ixon       conserver.Flag
	Ixoff      conserver.Flag
	Crtscts    conserver.Flag
	OnDemand   conserver.Flag
	StripHigh  conserver.Flag
	ReinitOnCC conserver.Flag
	AutoReinit conserver.Flag
	Unloved    conserver.Flag
	Login      conserver.Flag

	// ipmi
	IpmiPrivLevel   IpmiPriv
	IpmiCipherSuite conserver.Opt
	IpmiWorkaround  uint32
	IpmiWrkSet      bool
	IpmiKG          string
	Username        string
	Password        string

	RO users.List
	RW users.List
}

var dl = diag.Logger("console")

// Names returns the server name followed by the aliases
func (c *Console) Names() []string {
	return append([]string{c.Server}, c.Aliases...)
}

// HasName matches the server name or an alias, case-insensitively
func (c *Console) HasName(name string) bool {

	if strings.EqualFold(c.Server, name) {
		return true
	}
	for _, a := range c.Aliases {
		if strings.EqualFold(a, name) {
			return true
		}
	}
	return false
}

// FindName searches a list of consoles by name or alias
func FindName(list []*Console, name string) *Console {

	for _, c := range list {
		if c.HasName(name) {
			return c
		}
	}
	return nil
}

// Find searches a list of consoles (or defaults) by name only
func Find(list []*Console, name string) *Console {

	for _, c := range list {
		if strings.EqualFold(c.Server, name) {
			return c
		}
	}
	return nil
}

func (c *Console) ClientAccess(admin users.List, name string) users.Level {
	return users.ClientAccess(c.RW, c.RO, admin, name)
}
