// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-02 10:20 (EST)
// Function: tri-state flags + optional numbers

package conserver

import (
	"strconv"
)

// Flag is an attribute that may be left unset
type Flag int8

const (
	FlagUnknown Flag = iota
	FlagFalse
	FlagTrue
)

func FlagOf(b bool) Flag {
	if b {
		return FlagTrue
	}
	return FlagFalse
}

func (f Flag) IsSet() bool { return f != FlagUnknown }
func (f Flag) True() bool  { return f == FlagTrue }

// Or returns f, or d if f was never set
func (f Flag) Or(d Flag) Flag {
	if f == FlagUnknown {
		return d
	}
	return f
}

func (f Flag) String() string {
	switch f {
	case FlagTrue:
		return "true"
	case FlagFalse:
		return "false"
	}
	return "unset"
}

func (f Flag) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Opt is a number that may be left unset. an explicit zero is a value.
type Opt struct {
	Val   int
	Valid bool
}

func Some(v int) Opt {
	return Opt{Val: v, Valid: true}
}

// Or returns the value, or d if unset
func (o Opt) Or(d int) int {
	if !o.Valid {
		return d
	}
	return o.Val
}

func (o Opt) String() string {
	if !o.Valid {
		return "unset"
	}
	return strconv.Itoa(o.Val)
}

func (o Opt) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// IsDigits reports whether s is a non-empty run of 0-9
func IsDigits(s string) bool {

	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
