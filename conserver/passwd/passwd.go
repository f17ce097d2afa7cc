// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-11 14:00 (EDT)
// Function: console password file

package passwd

import (
	"bufio"
	"os"
	"strings"
	"sync"

	"conserver.domain/conserver/conserver"
	"github.com/jaw0/acdiag"
	"golang.org/x/crypto/bcrypt"
)

// Entry is one `user:hash:consoles' line. an empty hash needs no
// password, consoles `any' (or none) covers everything.
type Entry struct {
	User     string
	Hash     string
	Consoles []string
}

type Table struct {
	lock    sync.RWMutex
	file    string
	entries map[string]*Entry
}

const (
	BCRYPTCOST = 10
	ANYUSER    = "*any*"
)

var dl = diag.Logger("passwd")

// Load reads file. a missing file is an empty table.
func Load(file string) (*Table, error) {

	t := &Table{file: file}
	err := t.Reload(file)
	return t, err
}

// Reload replaces the table with the contents of file
func (t *Table) Reload(file string) error {

	entries := make(map[string]*Entry)

	fd, err := os.Open(file)
	if err != nil {
		if os.IsNotExist(err) {
			dl.Debug("no password file %s", file)
			t.set(file, entries)
			return nil
		}
		return conserver.Wrap(err, conserver.ErrCodeIO, "cannot open %s", file)
	}
	defer fd.Close()

	scan := bufio.NewScanner(fd)
	lineno := 0

	for scan.Scan() {
		lineno++
		line := strings.TrimSpace(scan.Text())
		if line == "" || line[0] == '#' {
			continue
		}

		f := strings.SplitN(line, ":", 3)
		if len(f) < 2 || f[0] == "" {
			conserver.ConfigWarning(file, lineno, "invalid password entry")
			continue
		}

		e := &Entry{User: f[0], Hash: f[1]}
		if len(f) == 3 {
			for _, c := range strings.Split(f[2], ",") {
				if c = strings.TrimSpace(c); c != "" {
					e.Consoles = append(e.Consoles, c)
				}
			}
		}
		if _, dup := entries[e.User]; !dup {
			entries[e.User] = e
		}
	}

	if err := scan.Err(); err != nil {
		return conserver.Wrap(err, conserver.ErrCodeIO, "cannot read %s", file)
	}

	t.set(file, entries)
	dl.Debug("loaded %d entries from %s", len(entries), file)
	return nil
}

func (t *Table) set(file string, entries map[string]*Entry) {

	t.lock.Lock()
	defer t.lock.Unlock()
	t.file = file
	t.entries = entries
}

func (t *Table) File() string {

	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.file
}

func (t *Table) Len() int {

	t.lock.RLock()
	defer t.lock.RUnlock()
	return len(t.entries)
}

// Check verifies a user's password for a console
func (t *Table) Check(user string, pass string, console string) bool {

	t.lock.RLock()
	e := t.entries[user]
	if e == nil {
		e = t.entries[ANYUSER]
	}
	t.lock.RUnlock()

	if e == nil || !e.covers(console) {
		return false
	}
	if e.Hash == "" {
		return true
	}

	err := bcrypt.CompareHashAndPassword([]byte(e.Hash), []byte(pass))
	if err != nil {
		dl.Debug("password check failed for %s: %v", user, err)
		return false
	}
	return true
}

func (e *Entry) covers(console string) bool {

	if len(e.Consoles) == 0 {
		return true
	}
	for _, c := range e.Consoles {
		if c == "any" || strings.EqualFold(c, console) {
			return true
		}
	}
	return false
}

// Hash encrypts a password for the file
func Hash(pass string) (string, error) {

	ep, err := bcrypt.GenerateFromPassword([]byte(pass), BCRYPTCOST)
	if err != nil {
		return "", conserver.Wrap(err, conserver.ErrCodeBadValue, "cannot hash password")
	}
	return string(ep), nil
}
