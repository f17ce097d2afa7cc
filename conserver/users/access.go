// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-04 09:10 (EST)
// Function: client access levels

package users

type Level int

const (
	Denied    Level = -1
	ReadWrite Level = 0
	ReadOnly  Level = 1
)

func (l Level) String() string {
	switch l {
	case ReadWrite:
		return "rw"
	case ReadOnly:
		return "ro"
	}
	return "denied"
}

// lookup finds the entry deciding name: an exact match, else `*'
func (l List) lookup(name string) *ConsentUser {

	var star *ConsentUser

	for _, cu := range l {
		if cu.User.Name == name {
			return cu
		}
		if star == nil && cu.User.Name == "*" {
			star = cu
		}
	}
	return star
}

func (l List) grants(name string) bool {

	cu := l.lookup(name)
	return cu != nil && !cu.Not
}

// ClientAccess decides what a user may do on a console.
// admins always get read-write. with neither list, everyone does.
func ClientAccess(rw List, ro List, admin List, name string) Level {

	if admin.grants(name) {
		return ReadWrite
	}
	if len(rw) == 0 && len(ro) == 0 {
		return ReadWrite
	}
	if rw.grants(name) {
		return ReadWrite
	}
	if ro.grants(name) {
		return ReadOnly
	}
	return Denied
}
