// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-06 11:50 (EST)
// Function: console substitution tokens

package console

import (
	"conserver.domain/conserver/conserver"
	"conserver.domain/conserver/subst"
)

// substs is shared by the attribute setters and the compile pass
var substs = NewSubst()

// NewSubst returns an engine knowing %h %c %r %p %P, bound to a *Console
func NewSubst() *subst.Subst {

	s := subst.New()

	s.Define('h', subst.Token{Kind: subst.String, Str: func(d interface{}) string { return d.(*Console).Host }})
	s.Define('c', subst.Token{Kind: subst.String, Str: func(d interface{}) string { return d.(*Console).Server }})
	s.Define('r', subst.Token{Kind: subst.String, Str: func(d interface{}) string { return d.(*Console).ReplString }})
	s.Define('p', subst.Token{Kind: subst.Integer, Int: func(d interface{}) int { return d.(*Console).Port.Val }})
	s.Define('P', subst.Token{Kind: subst.Integer, Int: func(d interface{}) int { return d.(*Console).NetPort }})

	return s
}

// checkSubst validates a template against the console being built.
// %p needs a port, %h needs a host.
func checkSubst(c *Console, label string, tmpl string) error {

	substs.Reset()
	if err := substs.Check(tmpl); err != nil {
		return err
	}

	if substs.Count('p') != 0 && !c.Port.Valid {
		return conserver.Errorf(conserver.ErrCodeBadSubst,
			"[%s] console references 'port' in '%s' without defining 'port' attribute (ignoring %s)", c.Server, label, label)
	}
	if substs.Count('h') != 0 && c.Host == "" {
		return conserver.Errorf(conserver.ErrCodeBadSubst,
			"[%s] console references 'host' in '%s' without defining 'host' attribute (ignoring %s)", c.Server, label, label)
	}
	return nil
}
