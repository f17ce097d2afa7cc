// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-05 11:10 (EST)
// Function: break sequences

package breaks

import (
	"conserver.domain/conserver/conserver"
	"github.com/jaw0/acdiag"
)

const (
	LISTSIZE     = 35 // 1-9 + a-z
	DELAYDEFAULT = 500
	DELAYMAX     = 999
)

type Break struct {
	Seq     string
	Delay   int
	Confirm conserver.Flag
}

type Table [LISTSIZE]Break

var dl = diag.Logger("break")

// Number maps a break id (1-9, a-z) to 1..35
func Number(id string) (int, bool) {

	if len(id) != 1 {
		return 0, false
	}
	c := id[0]
	switch {
	case c >= '1' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10, true
	}
	return 0, false
}

// Reset puts back the built in sequences
func (t *Table) Reset() {

	for i := range t {
		t[i] = Break{Delay: DELAYDEFAULT, Confirm: conserver.FlagFalse}
	}

	t[0].Seq = `\z`
	t[1].Seq = `\r~^b`
	t[2].Seq = `#.`
	t[3].Seq = `\r\d~\d^b`
	t[3].Delay = 600
}

// Get returns break n (1 based)
func (t *Table) Get(n int) *Break {

	if n < 1 || n > LISTSIZE {
		return nil
	}
	return &t[n-1]
}

// ################################################################

// Builder handles `break N { ... }` stanzas
type Builder struct {
	Diag  *conserver.Diag
	Table *Table
	num   int
	curr  Break
}

func NewBuilder(d *conserver.Diag, t *Table) *Builder {
	return &Builder{Diag: d, Table: t}
}

func (b *Builder) Begin(id string) {

	n, ok := Number(id)
	if !ok {
		b.Diag.Advise("invalid break number `%s'", id)
		b.num = 0
		return
	}

	b.num = n
	b.curr = Break{Delay: DELAYDEFAULT, Confirm: conserver.FlagFalse}
}

func (b *Builder) End() {

	if b.num == 0 {
		return
	}
	b.Table[b.num-1] = b.curr
	b.num = 0
}

func (b *Builder) Abort() {
	b.num = 0
}

func (b *Builder) Destroy() {

	b.num = 0
	for i, br := range b.Table {
		if br.Seq != "" {
			dl.Debug("break[%d] = `%s', delay=%d", i+1, br.Seq, br.Delay)
		}
	}
}

func (b *Builder) Items() map[string]func(string) {
	return map[string]func(string){
		"confirm": b.itemConfirm,
		"delay":   b.itemDelay,
		"string":  b.itemString,
	}
}

func (b *Builder) itemString(v string) {
	b.curr.Seq = v
}

func (b *Builder) itemDelay(v string) {

	if v == "" {
		b.curr.Delay = 0
		return
	}

	d := 0
	if conserver.IsDigits(v) && len(v) <= 3 {
		for i := 0; i < len(v); i++ {
			d = d*10 + int(v[i]-'0')
		}
	} else {
		d = DELAYMAX + 1
	}

	if d > DELAYMAX {
		b.Diag.Advise("invalid delay number `%s'", v)
		return
	}
	b.curr.Delay = d
}

func (b *Builder) itemConfirm(v string) {
	b.Diag.YesNo(v, &b.curr.Confirm)
}
