// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-03 09:12 (EST)
// Function: %x placeholder substitution

package subst

import (
	"strconv"
	"strings"

	"conserver.domain/conserver/conserver"
	"github.com/jaw0/acdiag"
)

type Kind int

const (
	String Kind = iota
	Integer
)

// Token resolves one placeholder against the bound data
type Token struct {
	Kind Kind
	Str  func(data interface{}) string
	Int  func(data interface{}) int
}

// Subst holds a fixed token table plus a per-check usage count.
// the alphabet is small and fixed, so the counts are an array.
type Subst struct {
	tokens [128]*Token
	counts [128]int
	data   interface{}
}

var dl = diag.Logger("subst")

func New() *Subst {
	return &Subst{}
}

func (s *Subst) Define(c byte, t Token) {

	if c >= 128 || c == '%' {
		diag.Bug("invalid substitution token %q", c)
		return
	}
	s.tokens[c] = &t
}

// Bind sets the data the resolvers see
func (s *Subst) Bind(data interface{}) {
	s.data = data
}

func (s *Subst) Reset() {
	s.counts = [128]int{}
}

// Count reports how often c was seen since the last Reset
func (s *Subst) Count(c byte) int {

	if c >= 128 {
		return 0
	}
	return s.counts[c]
}

// Check scans a template, counting the tokens used, without expanding.
func (s *Subst) Check(tmpl string) error {

	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] != '%' {
			continue
		}
		i++
		if i == len(tmpl) {
			return conserver.Errorf(conserver.ErrCodeBadSubst, "incomplete substitution at end of `%s'", tmpl)
		}

		c := tmpl[i]
		if c == '%' {
			continue
		}
		if c >= 128 || s.tokens[c] == nil {
			return conserver.Errorf(conserver.ErrCodeBadSubst, "invalid substitution token `%c' in `%s'", c, tmpl)
		}
		s.counts[c]++
	}

	return nil
}

// Expand substitutes the bound data into a template.
// the template is assumed to have passed Check.
func (s *Subst) Expand(tmpl string) string {

	if strings.IndexByte(tmpl, '%') == -1 {
		return tmpl
	}

	var b strings.Builder

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]

		if c != '%' || i == len(tmpl)-1 {
			b.WriteByte(c)
			continue
		}

		i++
		c = tmpl[i]
		if c == '%' {
			b.WriteByte('%')
			continue
		}

		var t *Token
		if c < 128 {
			t = s.tokens[c]
		}
		if t == nil {
			dl.Debug("unchecked token %c", c)
			b.WriteByte('%')
			b.WriteByte(c)
			continue
		}

		switch t.Kind {
		case String:
			if t.Str != nil && s.data != nil {
				b.WriteString(t.Str(s.data))
			}
		case Integer:
			v := 0
			if t.Int != nil && s.data != nil {
				v = t.Int(s.data)
			}
			b.WriteString(strconv.Itoa(v))
		}
	}

	return b.String()
}
