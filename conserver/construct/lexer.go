// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-12 13:10 (EDT)
// Function: split config text into tokens

package construct

import (
	"strings"

	"conserver.domain/conserver/conserver"
)

type token struct {
	text   string
	quoted bool
}

// punct reports whether t is an unquoted `{', `}' or `;'
func (t *token) punct(c string) bool {
	return !t.quoted && t.text == c
}

type lexer struct {
	f      *Files
	line   string
	pos    int
	pushed *token
}

func newLexer(f *Files) *lexer {
	return &lexer{f: f}
}

func special(c byte) bool {
	return strings.IndexByte("{};#\"", c) != -1 || c == ' ' || c == '\t'
}

func (l *lexer) unread(t *token) {
	l.pushed = t
}

func (l *lexer) next() (*token, bool) {

	if t := l.pushed; t != nil {
		l.pushed = nil
		return t, true
	}

	for {
		for l.pos < len(l.line) && (l.line[l.pos] == ' ' || l.line[l.pos] == '\t' || l.line[l.pos] == '\r') {
			l.pos++
		}

		if l.pos >= len(l.line) || l.line[l.pos] == '#' {
			line, ok := l.f.NextLine()
			if !ok {
				return nil, false
			}
			l.line = line
			l.pos = 0
			continue
		}

		c := l.line[l.pos]

		switch c {
		case '{', '}', ';':
			l.pos++
			return &token{text: string(c)}, true
		case '"':
			return l.quoted(), true
		}

		return l.word(), true
	}
}

// word runs to whitespace or punctuation. a backslash makes the
// next punctuation character literal.
func (l *lexer) word() *token {

	var buf []byte

	for l.pos < len(l.line) {
		c := l.line[l.pos]

		if c == '\\' && l.pos+1 < len(l.line) {
			n := l.line[l.pos+1]
			if special(n) {
				buf = append(buf, n)
			} else {
				buf = append(buf, c, n)
			}
			l.pos += 2
			continue
		}
		if special(c) {
			break
		}
		buf = append(buf, c)
		l.pos++
	}

	return &token{text: string(buf)}
}

// quoted reads "..." on one line. \" is a quote, other escapes are
// left for whoever uses the value.
func (l *lexer) quoted() *token {

	var buf []byte
	l.pos++ // opening quote

	for l.pos < len(l.line) {
		c := l.line[l.pos]

		if c == '\\' && l.pos+1 < len(l.line) && l.line[l.pos+1] == '"' {
			buf = append(buf, '"')
			l.pos += 2
			continue
		}
		if c == '"' {
			l.pos++
			return &token{text: string(buf), quoted: true}
		}
		buf = append(buf, c)
		l.pos++
	}

	conserver.ConfigError(l.f.CurrFile(), l.f.CurrLine(), "unterminated quoted string")
	return &token{text: string(buf), quoted: true}
}
