// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-09 10:30 (EDT)
// Function: consoles managed by peer servers

package group

import (
	"strings"

	"conserver.domain/conserver/console"
)

// Remote is a console whose master is another host
type Remote struct {
	Host    string   `cbor:"host" yaml:"host"`
	Server  string   `cbor:"server" yaml:"server"`
	Aliases []string `cbor:"aliases,omitempty" yaml:"aliases,omitempty"`
}

func newRemote(c *console.Console) *Remote {
	return &Remote{
		Host:    c.Master,
		Server:  c.Server,
		Aliases: append([]string(nil), c.Aliases...),
	}
}

// FindUniq returns one remote per peer host, in first seen order
func FindUniq(list []*Remote) []*Remote {

	var res []*Remote

	for _, r := range list {
		dup := false
		for _, u := range res {
			if strings.EqualFold(u.Host, r.Host) {
				dup = true
				break
			}
		}
		if !dup {
			res = append(res, r)
		}
	}
	return res
}

// FindRemote searches by name or alias
func FindRemote(list []*Remote, name string) *Remote {

	for _, r := range list {
		if strings.EqualFold(r.Server, name) {
			return r
		}
		for _, a := range r.Aliases {
			if strings.EqualFold(a, name) {
				return r
			}
		}
	}
	return nil
}
