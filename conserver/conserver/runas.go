// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-05 09:40 (EST)
// Function: user:group

package conserver

import (
	"os/user"
	"strconv"
	"strings"
)

// lookups, replaceable for tests
var LookupUser = func(name string) (string, error) {
	u, err := user.Lookup(name)
	if err != nil {
		return "", err
	}
	return u.Uid, nil
}

var LookupGroup = func(name string) (string, error) {
	g, err := user.LookupGroup(name)
	if err != nil {
		return "", err
	}
	return g.Gid, nil
}

// ParseRunAs handles `user', `user:group' and `:group', by name or number.
// a part that fails to resolve is left unset, the other part still applies.
func ParseRunAs(v string) (uid Opt, gid Opt, err error) {

	if v == "" {
		return
	}

	name, group, _ := strings.Cut(v, ":")

	if name != "" {
		uid, err = resolveID(name, LookupUser, "user")
	}

	if group != "" {
		var gerr error
		gid, gerr = resolveID(group, LookupGroup, "group")
		if err == nil {
			err = gerr
		}
	}

	return
}

func resolveID(v string, lookup func(string) (string, error), what string) (Opt, error) {

	if IsDigits(v) {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Opt{}, Errorf(ErrCodeBadValue, "invalid %s id `%s'", what, v)
		}
		return Some(n), nil
	}

	id, err := lookup(v)
	if err != nil {
		return Opt{}, Errorf(ErrCodeBadValue, "invalid %s name `%s'", what, v)
	}

	n, err := strconv.Atoi(id)
	if err != nil {
		return Opt{}, Errorf(ErrCodeBadValue, "invalid %s name `%s'", what, v)
	}
	return Some(n), nil
}
