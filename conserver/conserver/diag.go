// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-02 11:20 (EST)
// Function: position + role aware config diagnostics

package conserver

import (
	"github.com/jaw0/acdiag"
)

// Where reports the current parse position
type Where interface {
	CurrFile() string
	CurrLine() int
}

// Diag reports problems at the current parse position.
// a worker process only complains at debug level, the master has
// already told the operator.
type Diag struct {
	Where  Where
	Master bool
}

var dl = diag.Logger("config")

func (d *Diag) Pos() (string, int) {

	if d == nil || d.Where == nil {
		return "", 0
	}
	return d.Where.CurrFile(), d.Where.CurrLine()
}

// Error always reports
func (d *Diag) Error(fmt string, args ...interface{}) {
	file, line := d.Pos()
	ConfigError(file, line, fmt, args...)
}

func (d *Diag) Warning(fmt string, args ...interface{}) {
	file, line := d.Pos()
	ConfigWarning(file, line, fmt, args...)
}

// Advise reports as an error on the master only
func (d *Diag) Advise(fmt string, args ...interface{}) {

	if d != nil && d.Master {
		d.Error(fmt, args...)
		return
	}
	dl.Debug(fmt, args...)
}

// Report hands a setter error to Advise
func (d *Diag) Report(err error) {

	if err == nil {
		return
	}
	d.Advise("%s", ErrMessage(err))
}

// Msg is an operator message not tied to a file position
func (d *Diag) Msg(fmt string, args ...interface{}) {
	Loggit("", fmt, args...)
}

// YesNo parses a boolean attribute, complaining about junk
func (d *Diag) YesNo(v string, f *Flag) {

	if !ProcessYesNo(v, f) {
		d.Advise("invalid boolean entry `%s'", v)
	}
}
