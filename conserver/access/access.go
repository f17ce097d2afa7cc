// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-04 14:02 (EST)
// Function: access stanzas

package access

import (
	"net"
	"strings"

	"conserver.domain/conserver/conserver"
	"conserver.domain/conserver/users"
	"github.com/jaw0/acdiag"
)

// Access is one `access NAME { ... }` stanza
type Access struct {
	Name    string
	ACL     []*ACL
	Admin   users.List
	Limited users.List
}

// Compiled is the live access list for this host
type Compiled struct {
	ACL     []*ACL
	Admin   users.List
	Limited users.List
}

type Builder struct {
	Diag  *conserver.Diag
	IsMe  func(string) bool
	Users *users.GroupBuilder

	list   []*Access
	curr   *Access
	Result *Compiled
}

var dl = diag.Logger("access")

func NewBuilder(d *conserver.Diag, isMe func(string) bool, ub *users.GroupBuilder) *Builder {
	return &Builder{
		Diag:   d,
		IsMe:   isMe,
		Users:  ub,
		Result: &Compiled{},
	}
}

// Find matches names case insensitively
func (b *Builder) Find(name string) *Access {

	for _, a := range b.list {
		if strings.EqualFold(a.Name, name) {
			return a
		}
	}
	return nil
}

func (b *Builder) Begin(name string) {

	if name == "" {
		b.Diag.Advise("empty access name")
		b.curr = nil
		return
	}
	b.curr = &Access{Name: name}
}

func (b *Builder) End() {

	if b.curr == nil {
		return
	}

	for i, a := range b.list {
		if strings.EqualFold(a.Name, b.curr.Name) {
			b.list = append(b.list[:i], b.list[i+1:]...)
			break
		}
	}
	b.list = append(b.list, b.curr)
	b.curr = nil
}

func (b *Builder) Abort() {
	b.curr = nil
}

// Destroy flattens the stanzas that apply to this host, in order
func (b *Builder) Destroy() {

	res := &Compiled{}

	for _, a := range b.list {
		if a.Name != "*" && !b.IsMe(a.Name) {
			dl.Debug("skipping access %s", a.Name)
			continue
		}
		dl.Debug("adding access %s", a.Name)
		res.ACL = append(res.ACL, a.ACL...)
		res.Admin = append(res.Admin, a.Admin...)
		res.Limited = append(res.Limited, a.Limited...)
	}

	b.Result = res
	b.list = nil
	b.curr = nil
}

func (b *Builder) Items() map[string]func(string) {
	return map[string]func(string){
		"admin":    b.itemAdmin,
		"allowed":  func(v string) { b.processACL(Allowed, v) },
		"include":  b.itemInclude,
		"limited":  b.itemLimited,
		"rejected": func(v string) { b.processACL(Rejected, v) },
		"trusted":  func(v string) { b.processACL(Trusted, v) },
	}
}

func (b *Builder) itemAdmin(v string) {
	if b.curr == nil {
		return
	}
	users.ParseList(v, b.Users.Registry, b.Users.Groups, &b.curr.Admin)
}

func (b *Builder) itemLimited(v string) {
	if b.curr == nil {
		return
	}
	users.ParseList(v, b.Users.Registry, b.Users.Groups, &b.curr.Limited)
}

func (b *Builder) itemInclude(v string) {

	if b.curr == nil {
		return
	}

	for _, name := range users.Words(v) {
		pa := b.Find(name)
		if pa == nil {
			b.Diag.Advise("unknown access name `%s'", name)
			continue
		}
		for _, acl := range pa.ACL {
			b.curr.add(acl)
		}
		users.CopyList(pa.Admin, &b.curr.Admin, false)
		users.CopyList(pa.Limited, &b.curr.Limited, false)
	}
}

func (a *Access) add(acl *ACL) {

	for _, o := range a.ACL {
		if o.same(acl) {
			return
		}
	}
	a.ACL = append(a.ACL, acl)
}

func (b *Builder) processACL(trust Trust, v string) {

	if b.curr == nil {
		return
	}

	if v == "" {
		// clear only this trust level
		old := b.curr.ACL
		b.curr.ACL = nil
		for _, acl := range old {
			if acl.Trust != trust {
				b.curr.add(acl)
			}
		}
		return
	}

	for _, tok := range users.Words(v) {
		acl, err := parseACL(trust, tok)
		if err != nil {
			b.Diag.Report(err)
			return
		}
		b.curr.add(acl)
	}
}

// ################################################################

// SetDefault gives the local host access when nothing else was configured
func (c *Compiled) SetDefault(addrs []net.IP) {

	if len(c.ACL) != 0 {
		return
	}

	seen := make(map[string]bool)
	for _, ip := range append([]net.IP{net.IPv4(127, 0, 0, 1)}, addrs...) {
		ip4 := ip.To4()
		if ip4 == nil || seen[ip4.String()] {
			continue
		}
		seen[ip4.String()] = true
		acl, err := parseACL(Allowed, ip4.String())
		if err != nil {
			dl.Bug("default access: %v", err)
			continue
		}
		c.ACL = append(c.ACL, acl)
	}
}

// Decide finds the trust level for a client. first match wins.
func (c *Compiled) Decide(ip net.IP, host string, def Trust) Trust {

	for _, acl := range c.ACL {
		if acl.Match(ip, host) {
			return acl.Trust
		}
	}
	return def
}

// ClientAccess evaluates a user against a console's lists plus the admins
func (c *Compiled) ClientAccess(rw users.List, ro users.List, name string) users.Level {
	return users.ClientAccess(rw, ro, c.Admin, name)
}
