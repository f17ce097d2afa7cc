// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-02 10:48 (EST)
// Function: messages collected while reading the config

package conserver

import (
	"fmt"
	"sync"

	"github.com/jaw0/acdiag"
)

// at most this many messages are kept per read
const MAXLOGS = 100

const (
	TagError   = "logerror"
	TagWarning = "logwarning"
)

// LogMsg is one message from a config read.
// File and Line are empty for messages not tied to a config line.
type LogMsg struct {
	Tag  string
	File string
	Line int
	Msg  string
}

func (m LogMsg) String() string {
	return m.Msg
}

type readLog struct {
	lock    sync.Mutex
	errors  bool
	warns   bool
	dropped int
	msgs    []LogMsg
}

var rlog readLog

func HasErrors() bool {
	rlog.lock.Lock()
	defer rlog.lock.Unlock()
	return rlog.errors
}
func HasWarnings() bool {
	rlog.lock.Lock()
	defer rlog.lock.Unlock()
	return rlog.warns
}

// LogMsgs returns a copy of the messages from the current read
func LogMsgs() []LogMsg {
	rlog.lock.Lock()
	defer rlog.lock.Unlock()
	return append([]LogMsg(nil), rlog.msgs...)
}

// Dropped is the number of messages past MAXLOGS
func Dropped() int {
	rlog.lock.Lock()
	defer rlog.lock.Unlock()
	return rlog.dropped
}

// ResetErrors is called at the start of every (re)read
func ResetErrors() {
	rlog.lock.Lock()
	defer rlog.lock.Unlock()
	rlog.errors = false
	rlog.warns = false
	rlog.dropped = 0
	rlog.msgs = nil
}

// add keeps m. mark flags the read as having errors or warnings
func (r *readLog) add(m LogMsg, mark bool) {

	r.lock.Lock()
	defer r.lock.Unlock()

	if mark {
		switch m.Tag {
		case TagError:
			r.errors = true
		case TagWarning:
			r.warns = true
		}
	}

	if len(r.msgs) >= MAXLOGS {
		r.dropped++
		return
	}
	r.msgs = append(r.msgs, m)
}

// Loggit records a message not tied to a config line
func Loggit(tag string, msg string, args ...interface{}) {

	txt := fmt.Sprintf(msg, args...)
	diag.Verbose("%s", txt)
	rlog.add(LogMsg{Tag: tag, Msg: txt}, false)
}

func configMsg(tag, label, file string, line int, f string, args ...interface{}) {

	txt := fmt.Sprintf("%s: in file %s on line %d: %s", label, file, line, fmt.Sprintf(f, args...))
	diag.Verbose("%s", txt)
	rlog.add(LogMsg{Tag: tag, File: file, Line: line, Msg: txt}, true)
}

func ConfigError(file string, line int, f string, args ...interface{}) {
	configMsg(TagError, "ERROR", file, line, f, args...)
}

func ConfigWarning(file string, line int, f string, args ...interface{}) {
	configMsg(TagWarning, "WARNING", file, line, f, args...)
}
