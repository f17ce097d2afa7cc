// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-12 13:45 (EDT)
// Function: drive the stanza builders

package construct

import (
	"strings"

	"conserver.domain/conserver/conserver"
)

// Section builds one kind of stanza: `keyword name { item value; ... }'
type Section interface {
	Begin(name string)
	End()
	Abort()
	Destroy()
	Items() map[string]func(string)
}

type section struct {
	name  string
	sec   Section
	items map[string]func(string)
}

func newSection(name string, s Section) *section {
	return &section{name: name, sec: s, items: s.Items()}
}

func findSection(sections []*section, kw string) *section {

	for _, s := range sections {
		if s.name == kw {
			return s
		}
	}
	return nil
}

func parse(lx *lexer, sections []*section, d *conserver.Diag) {

	for {
		tok, ok := lx.next()
		if !ok {
			return
		}

		if tok.punct("{") || tok.punct("}") || tok.punct(";") {
			d.Error("unexpected `%s'", tok.text)
			continue
		}

		s := findSection(sections, strings.ToLower(tok.text))
		if s == nil {
			d.Error("unknown keyword `%s'", tok.text)
			skipStanza(lx)
			continue
		}

		name := ""
		tok, ok = lx.next()
		if !ok {
			d.Error("unexpected end of file after `%s'", s.name)
			return
		}
		if !tok.punct("{") {
			name = tok.text
			tok, ok = lx.next()
			if !ok {
				d.Error("unexpected end of file after `%s %s'", s.name, name)
				return
			}
		}
		if !tok.punct("{") {
			d.Error("expecting `{' after `%s %s'", s.name, name)
			lx.unread(tok)
			skipStanza(lx)
			continue
		}

		dl.Debug("%s %s {", s.name, name)
		s.sec.Begin(name)

		if !readItems(lx, s, d) {
			return
		}
	}
}

// readItems handles `item value;' lines through the closing brace
func readItems(lx *lexer, s *section, d *conserver.Diag) bool {

	for {
		tok, ok := lx.next()
		if !ok {
			d.Error("unexpected end of file in `%s' stanza", s.name)
			s.sec.Abort()
			return false
		}

		switch {
		case tok.punct("}"):
			s.sec.End()
			return true
		case tok.punct(";"):
			continue
		case tok.punct("{"):
			d.Error("unexpected `{' in `%s' stanza", s.name)
			skipBlock(lx)
			continue
		}

		key := strings.ToLower(tok.text)

		var vals []string
		for {
			t, ok := lx.next()
			if !ok {
				break
			}
			if t.punct(";") {
				break
			}
			if t.punct("}") || t.punct("{") {
				lx.unread(t)
				break
			}
			vals = append(vals, t.text)
		}

		f, found := s.items[key]
		if !found {
			d.Error("invalid keyword `%s' in `%s' stanza", tok.text, s.name)
			continue
		}

		val := strings.Join(vals, " ")
		dl.Debug("  %s %s", key, val)
		f(val)
	}
}

// skipStanza discards through the next `;' or balanced block
func skipStanza(lx *lexer) {

	for {
		tok, ok := lx.next()
		if !ok {
			return
		}
		if tok.punct(";") || tok.punct("}") {
			return
		}
		if tok.punct("{") {
			skipBlock(lx)
			return
		}
	}
}

func skipBlock(lx *lexer) {

	for {
		tok, ok := lx.next()
		if !ok {
			return
		}
		if tok.punct("}") {
			return
		}
		if tok.punct("{") {
			skipBlock(lx)
		}
	}
}
