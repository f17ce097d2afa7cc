// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-06 13:15 (EST)
// Function: timestamp (mark) specifications

package console

import (
	"strconv"
	"time"

	"conserver.domain/conserver/clock"
	"conserver.domain/conserver/conserver"
)

type Timestamp struct {
	Factor   int // 60, 3600, 86400 or -1 (l)
	Value    int // seconds, negative for `l'
	Activity bool
	Break    bool
	Task     bool
	NextMark int64
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func leadingNumber(v string) (int, bool) {

	i := 0
	for i < len(v) && v[i] >= '0' && v[i] <= '9' {
		i++
	}
	n, err := strconv.ParseInt(v[:i], 10, 32)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

// ParseTimestamp parses [number(m|h|d|l)][a][b][t].
// a nil result is a hard error, a result plus an error is advisory.
func ParseTimestamp(v string, now int64) (*Timestamp, error) {

	ts := &Timestamp{}
	var soft error
	n := -1

	for i := 0; i < len(v); i++ {
		c := v[i]
		pfactor := 0

		switch {
		case c == 'a' || c == 'A', c == 'b' || c == 'B', c == 't' || c == 'T':
			lc := c | 0x20
			if n != -1 {
				soft = bad("invalid timestamp specification `%s': numeral before `%c' (ignoring numeral)", v, lc)
			}
			switch lc {
			case 'a':
				ts.Activity = true
			case 'b':
				ts.Break = true
			case 't':
				ts.Task = true
			}
		case c == 'm' || c == 'M':
			pfactor = 60
		case c == 'h' || c == 'H':
			pfactor = 3600
		case c == 'd' || c == 'D':
			pfactor = 86400
		case c == 'l' || c == 'L':
			pfactor = -1
		case c >= '0' && c <= '9':
			if n == -1 {
				n = i
			}
		case isSpace(c):
			if n != -1 {
				pfactor = 60
			}
		default:
			return nil, bad("invalid timestamp specification `%s': unknown character `%c'", v, c)
		}

		if pfactor != 0 {
			if n == -1 {
				return nil, bad("invalid timestamp specification `%s': missing numeric prefix for `%c'", v, c)
			}
			num, ok := leadingNumber(v[n:i])
			if !ok {
				return nil, bad("invalid timestamp specification `%s': number out of range", v)
			}
			ts.Factor = pfactor
			ts.Value = num * pfactor
			n = -1
		}
	}

	if n != -1 {
		num, ok := leadingNumber(v[n:])
		if !ok {
			return nil, bad("invalid timestamp specification `%s': number out of range", v)
		}
		ts.Factor = 60
		ts.Value = num * 60
	}

	if ts.Factor == 0 || ts.Value == 0 {
		ts.Value = 0
		return ts, soft
	}

	if ts.Factor < 0 {
		ts.NextMark = int64(ts.Value)
		return ts, soft
	}

	ts.NextMark = alignMark(now, int64(ts.Value))
	dl.Debug("timestamp `%s': factor=%d value=%d next=%d", v, ts.Factor, ts.Value, ts.NextMark)
	return ts, soft
}

// periods that evenly divide an hour or a day line up on clock boundaries
func alignMark(now int64, value int64) int64 {

	tyme := now - now%60

	if (value <= 3600 && 3600%value == 0) || (value > 3600 && 86400%value == 0) {
		lt := time.Unix(tyme, 0).Local()
		base := tyme - int64(lt.Minute()*60) - int64(lt.Hour()*3600)
		tyme = base + ((tyme-base)/value)*value
	}

	return tyme + value
}

func setTimestamp(c *Console, v string) error {

	if v == "" {
		c.ActivityLog = conserver.FlagFalse
		c.BreakLog = conserver.FlagFalse
		c.TaskLog = conserver.FlagFalse
		c.Mark = 0
		c.NextMark = 0
		return nil
	}

	ts, err := ParseTimestamp(v, clock.Unix())
	if ts == nil {
		return err
	}

	c.ActivityLog = conserver.FlagOf(ts.Activity)
	c.BreakLog = conserver.FlagOf(ts.Break)
	c.TaskLog = conserver.FlagOf(ts.Task)
	c.Mark = ts.Value
	c.NextMark = ts.NextMark
	return err
}
