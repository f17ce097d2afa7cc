// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-03 14:25 (EST)
// Function: named groups of users

package users

import (
	"strings"

	"conserver.domain/conserver/conserver"
)

type Group struct {
	Name  string
	Users List
}

// Groups is newest first
type Groups struct {
	list []*Group
}

// Find matches names exactly
func (g *Groups) Find(name string) *Group {

	if g == nil {
		return nil
	}
	for _, pg := range g.list {
		if pg.Name == name {
			return pg
		}
	}
	return nil
}

func (g *Groups) All() []*Group {
	return g.list
}

func (g *Groups) add(pg *Group) {

	for i, o := range g.list {
		if o.Name == pg.Name {
			g.list = append(g.list[:i], g.list[i+1:]...)
			break
		}
	}
	g.list = append([]*Group{pg}, g.list...)
}

// Words splits a list valued attribute
func Words(v string) []string {
	return strings.FieldsFunc(v, func(r rune) bool {
		return strings.ContainsRune(conserver.ALLWORDSEP, r)
	})
}

// ParseList applies a ro/rw/admin/limited/users value to l.
// an empty value clears the list. !name negates, a group name
// expands to its members.
func ParseList(v string, reg *Registry, groups *Groups, l *List) {

	if v == "" {
		*l = nil
		return
	}

	for _, tok := range Words(v) {
		not := false
		if tok[0] == '!' {
			tok = tok[1:]
			not = true
		}
		if tok == "" {
			continue
		}

		if pg := groups.Find(tok); pg != nil {
			CopyList(pg.Users, l, not)
			continue
		}
		l.Add(reg.Add(tok), not)
	}
}

// ################################################################

// GroupBuilder handles `group NAME { users ...; }` stanzas
type GroupBuilder struct {
	Diag     *conserver.Diag
	Registry *Registry
	Groups   *Groups
	curr     *Group
}

func NewGroupBuilder(d *conserver.Diag, reg *Registry) *GroupBuilder {
	return &GroupBuilder{
		Diag:     d,
		Registry: reg,
		Groups:   &Groups{},
	}
}

func (b *GroupBuilder) Begin(name string) {

	if name == "" {
		b.Diag.Advise("empty group name")
		b.curr = nil
		return
	}
	b.curr = &Group{Name: name}
}

func (b *GroupBuilder) End() {

	if b.curr == nil {
		return
	}
	b.Groups.add(b.curr)
	b.curr = nil
}

func (b *GroupBuilder) Abort() {
	b.curr = nil
}

// Destroy drops the group definitions. member lists already copied
// into consoles and access lists are unaffected.
func (b *GroupBuilder) Destroy() {

	for _, g := range b.Groups.list {
		dl.Debug("group %s = %s", g.Name, g.Users)
	}
	b.Groups = &Groups{}
	b.curr = nil
}

func (b *GroupBuilder) Items() map[string]func(string) {
	return map[string]func(string){
		"users": b.itemUsers,
	}
}

func (b *GroupBuilder) itemUsers(v string) {

	if b.curr == nil {
		return
	}
	ParseList(v, b.Registry, b.Groups, &b.curr.Users)
}
