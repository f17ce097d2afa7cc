// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-05 13:20 (EST)
// Function: console tasks

package task

import (
	"sort"

	"conserver.domain/conserver/conserver"
	"conserver.domain/conserver/subst"
	"github.com/jaw0/acdiag"
)

type Task struct {
	ID      byte
	Cmd     string
	Descr   string
	Subst   string
	Confirm conserver.Flag
	UID     conserver.Opt
	GID     conserver.Opt
}

// List is kept sorted by id
type List []*Task

var dl = diag.Logger("task")

func ValidID(id string) bool {

	if len(id) != 1 {
		return false
	}
	c := id[0]
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z')
}

func (l List) Find(id byte) *Task {

	i := sort.Search(len(l), func(i int) bool { return l[i].ID >= id })
	if i < len(l) && l[i].ID == id {
		return l[i]
	}
	return nil
}

func (l *List) insert(t *Task) {

	i := sort.Search(len(*l), func(i int) bool { return (*l)[i].ID >= t.ID })

	if i < len(*l) && (*l)[i].ID == t.ID {
		(*l)[i] = t
		return
	}

	*l = append(*l, nil)
	copy((*l)[i+1:], (*l)[i:])
	(*l)[i] = t
}

// Command returns the command to run against the bound console data
func (t *Task) Command(s *subst.Subst) string {

	if t.Subst == "" || s == nil {
		return t.Cmd
	}
	return s.Expand(t.Subst)
}

// ################################################################

// Builder handles `task ID { ... }` stanzas
type Builder struct {
	Diag  *conserver.Diag
	Subst *subst.Subst
	List  List
	curr  *Task
}

func NewBuilder(d *conserver.Diag, s *subst.Subst) *Builder {
	return &Builder{Diag: d, Subst: s}
}

func (b *Builder) Begin(id string) {

	b.curr = nil

	if !ValidID(id) {
		b.Diag.Advise("invalid task id `%s'", id)
		return
	}

	b.curr = &Task{ID: id[0], Confirm: conserver.FlagFalse}
}

func (b *Builder) End() {

	t := b.curr
	b.curr = nil

	if t == nil || t.Cmd == "" {
		return
	}
	b.List.insert(t)
}

func (b *Builder) Abort() {
	b.curr = nil
}

func (b *Builder) Destroy() {

	b.curr = nil
	for _, t := range b.List {
		dl.Debug("task %c: %s", t.ID, t.Cmd)
	}
}

func (b *Builder) Items() map[string]func(string) {
	return map[string]func(string){
		"cmd":         b.itemCmd,
		"confirm":     b.itemConfirm,
		"description": b.itemDescr,
		"runas":       b.itemRunas,
		"subst":       b.itemSubst,
	}
}

func (b *Builder) itemCmd(v string) {
	if b.curr != nil {
		b.curr.Cmd = v
	}
}

func (b *Builder) itemDescr(v string) {
	if b.curr != nil {
		b.curr.Descr = v
	}
}

func (b *Builder) itemConfirm(v string) {
	if b.curr != nil {
		b.Diag.YesNo(v, &b.curr.Confirm)
	}
}

func (b *Builder) itemRunas(v string) {

	if b.curr == nil {
		return
	}

	uid, gid, err := conserver.ParseRunAs(v)
	b.curr.UID, b.curr.GID = uid, gid
	if err != nil {
		b.Diag.Report(err)
	}
}

func (b *Builder) itemSubst(v string) {

	if b.curr == nil {
		return
	}

	b.curr.Subst = ""
	if v == "" {
		return
	}

	if b.Subst != nil {
		b.Subst.Reset()
		if err := b.Subst.Check(v); err != nil {
			b.Diag.Report(conserver.Wrap(err, conserver.ErrCodeBadSubst, "invalid subst template `%s'", v))
			return
		}
	}
	b.curr.Subst = v
}
