// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-03 13:40 (EST)
// Function: users + membership lists

package users

import (
	"strings"

	"github.com/jaw0/acdiag"
)

type User struct {
	Name string
}

// Registry holds every user named by one configuration generation
type Registry struct {
	all   map[string]*User
	order []*User
}

// ConsentUser is one entry of a ro/rw/admin/limited list
type ConsentUser struct {
	User *User
	Not  bool
}

// List is ordered, most recently added first
type List []*ConsentUser

var dl = diag.Logger("users")

func NewRegistry() *Registry {
	return &Registry{all: make(map[string]*User)}
}

// Add finds or creates a user. names are case sensitive.
func (r *Registry) Add(name string) *User {

	if u, ok := r.all[name]; ok {
		return u
	}

	u := &User{Name: name}
	r.all[name] = u
	r.order = append(r.order, u)
	dl.Debug("new user %s", name)
	return u
}

func (r *Registry) Find(name string) *User {
	return r.all[name]
}

func (r *Registry) Names() []string {

	names := make([]string, len(r.order))
	for i, u := range r.order {
		names[i] = u.Name
	}
	return names
}

// Add sets the user's negation. an existing entry moves to the head,
// otherwise a new entry is prepended.
func (l *List) Add(u *User, not bool) *ConsentUser {

	for i, cu := range *l {
		if cu.User.Name != u.Name {
			continue
		}
		cu.Not = not
		if i != 0 {
			copy((*l)[1:i+1], (*l)[:i])
			(*l)[0] = cu
		}
		return cu
	}

	cu := &ConsentUser{User: u, Not: not}
	*l = append(List{cu}, *l...)
	return cu
}

func (l List) Find(name string) *ConsentUser {

	for _, cu := range l {
		if cu.User.Name == name {
			return cu
		}
	}
	return nil
}

// Names renders the list as it would be written, with ! for negation
func (l List) Names() []string {

	names := make([]string, len(l))
	for i, cu := range l {
		if cu.Not {
			names[i] = "!" + cu.User.Name
		} else {
			names[i] = cu.User.Name
		}
	}
	return names
}

func (l List) String() string {
	return strings.Join(l.Names(), ",")
}

// Equal compares names and negation, in order
func (l List) Equal(o List) bool {

	if len(l) != len(o) {
		return false
	}
	for i := range l {
		if l[i].User.Name != o[i].User.Name || l[i].Not != o[i].Not {
			return false
		}
	}
	return true
}

// CopyList adds src to dst so that dst ends up in src's order.
// not flips the negation of every copied entry.
func CopyList(src List, dst *List, not bool) {

	if dst == nil {
		return
	}

	for i := len(src) - 1; i >= 0; i-- {
		cu := src[i]
		dst.Add(cu.User, cu.Not != not)
	}
}
