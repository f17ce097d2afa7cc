// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-06 10:05 (EST)
// Function: serial line parameters

package console

import (
	"strings"
)

type Baud struct {
	Acrate string
	Rate   int
}

type Parity struct {
	Key  string
	Bits int // 0 none, 1 odd, 2 even, 3 mark, 4 space
}

var bauds = []*Baud{
	{"50", 50}, {"75", 75}, {"110", 110}, {"134", 134}, {"150", 150},
	{"200", 200}, {"300", 300}, {"600", 600}, {"1200", 1200},
	{"1800", 1800}, {"2400", 2400}, {"4800", 4800}, {"9600", 9600},
	{"19200", 19200}, {"38400", 38400}, {"57600", 57600},
	{"115200", 115200}, {"230400", 230400}, {"460800", 460800},
	{"500000", 500000}, {"576000", 576000}, {"921600", 921600},
	{"1000000", 1000000}, {"1152000", 1152000}, {"1500000", 1500000},
	{"2000000", 2000000}, {"2500000", 2500000}, {"3000000", 3000000},
	{"3500000", 3500000}, {"4000000", 4000000},
}

var parities = []*Parity{
	{"even", 2},
	{"mark", 3},
	{"none", 0},
	{"odd", 1},
	{"space", 4},
}

func FindBaud(v string) *Baud {

	for _, b := range bauds {
		if b.Acrate == v {
			return b
		}
	}
	return nil
}

// FindParity matches on the first letter
func FindParity(v string) *Parity {

	if v == "" {
		return nil
	}
	for _, p := range parities {
		if strings.EqualFold(p.Key[:1], v[:1]) {
			return p
		}
	}
	return nil
}

func (b *Baud) MarshalText() ([]byte, error) {
	return []byte(b.Acrate), nil
}

func (p *Parity) MarshalText() ([]byte, error) {
	return []byte(p.Key), nil
}
