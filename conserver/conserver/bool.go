// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-02 10:31 (EST)
// Function: yes/no

package conserver

import (
	"strings"
)

// ProcessYesNo sets f from a config value.
// empty is false. an unrecognized value leaves f alone and returns false.
func ProcessYesNo(v string, f *Flag) bool {

	switch strings.ToLower(v) {
	case "":
		*f = FlagFalse
	case "yes", "true", "on":
		*f = FlagTrue
	case "no", "false", "off":
		*f = FlagFalse
	default:
		return false
	}
	return true
}

func CheckBool(v string) bool {

	switch strings.ToLower(v) {
	case "yes", "on", "true", "1":
		return true
	}
	return false
}
