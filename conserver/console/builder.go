// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-06 15:02 (EST)
// Function: default + console stanzas

package console

import (
	"strings"

	"conserver.domain/conserver/conserver"
	"conserver.domain/conserver/users"
)

// DefaultBuilder handles `default NAME { ... }` stanzas
type DefaultBuilder struct {
	Diag  *conserver.Diag
	Users *users.GroupBuilder
	List  []*Console
	curr  *Console
}

func NewDefaultBuilder(d *conserver.Diag, ub *users.GroupBuilder) *DefaultBuilder {
	return &DefaultBuilder{Diag: d, Users: ub}
}

func (b *DefaultBuilder) Find(name string) *Console {
	return Find(b.List, name)
}

func (b *DefaultBuilder) Begin(name string) {

	b.curr = nil
	if name == "" {
		b.Diag.Advise("empty default name")
		return
	}
	b.curr = &Console{Server: name}
}

func (b *DefaultBuilder) End() {

	d := b.curr
	b.curr = nil
	if d == nil {
		return
	}

	// a redefinition replaces, and moves to the end
	for i, o := range b.List {
		if strings.EqualFold(o.Server, d.Server) {
			b.List = append(b.List[:i], b.List[i+1:]...)
			break
		}
	}
	b.List = append(b.List, d)
}

func (b *DefaultBuilder) Abort() {
	b.curr = nil
}

func (b *DefaultBuilder) Destroy() {
	b.List = nil
	b.curr = nil
}

func (b *DefaultBuilder) Items() map[string]func(string) {
	return itemTable(b.Diag, b.Users, b, func() *Console { return b.curr })
}

// ################################################################

// Builder handles `console NAME { ... }` stanzas
type Builder struct {
	Diag     *conserver.Diag
	Users    *users.GroupBuilder
	Defaults *DefaultBuilder
	Forced   Forced
	List     []*Console // committed, in definition order
	Compiled []*Console // result of the last Destroy
	curr     *Console
}

func NewBuilder(d *conserver.Diag, ub *users.GroupBuilder, db *DefaultBuilder) *Builder {
	return &Builder{Diag: d, Users: ub, Defaults: db}
}

func (b *Builder) Begin(name string) {

	b.curr = nil
	if name == "" {
		b.Diag.Advise("empty console name")
		return
	}

	c := &Console{TaskList: "*", BreakList: "*"}
	if d := b.Defaults.Find("*"); d != nil {
		ApplyDefault(d, c)
	}
	c.Server = name
	b.curr = c
}

func (b *Builder) End() {

	c := b.curr
	b.curr = nil
	if c == nil {
		return
	}

	if !b.validate(c) {
		return
	}

	// the name must not be another console's alias
	for _, o := range b.List {
		if strings.EqualFold(o.Server, c.Server) {
			continue
		}
		if o.HasName(c.Server) {
			b.Diag.Advise("console name `%s' invalid: already in use as an alias of console `%s'", c.Server, o.Server)
			return
		}
	}

	for i, o := range b.List {
		if strings.EqualFold(o.Server, c.Server) {
			b.Diag.Advise("console definition for `%s' overridden", c.Server)
			b.List = append(b.List[:i], b.List[i+1:]...)
			break
		}
	}
	b.List = append(b.List, c)
}

func (b *Builder) Abort() {
	b.curr = nil
}

// Destroy finalizes the committed consoles into Compiled
func (b *Builder) Destroy() {

	b.Compiled = Compile(b.List, b.Forced, b.Diag)
	b.List = nil
	b.curr = nil
}

func (b *Builder) Items() map[string]func(string) {

	items := itemTable(b.Diag, b.Users, b.Defaults, func() *Console { return b.curr })
	items["aliases"] = b.itemAliases
	return items
}

// validate checks the type dependent required attributes.
// a bad substitution template is dropped, and is not fatal.
func (b *Builder) validate(c *Console) bool {

	valid := true
	missing := func(attr string) {
		b.Diag.Advise("[%s] console missing '%s' attribute", c.Server, attr)
		valid = false
	}

	if c.Master == "" {
		missing("master")
	}

	switch c.Type {
	case EXEC:
		b.dropBadSubst(c, "execsubst", &c.ExecSubst)
	case DEVICE:
		if c.Device == "" {
			missing("device")
		}
		if c.Baud == nil {
			missing("baud")
		}
		if c.Parity == nil {
			missing("parity")
		}
		b.dropBadSubst(c, "devicesubst", &c.DeviceSubst)
	case IPMI:
		if c.Host == "" {
			missing("host")
		}
	case HOST:
		if c.Host == "" {
			missing("host")
		}
		if !c.Port.Valid {
			missing("port")
		}
	case NOOP:
	case UDS:
		if c.Uds == "" {
			missing("uds")
		}
		b.dropBadSubst(c, "udssubst", &c.UdsSubst)
	default:
		b.Diag.Advise("[%s] console type unknown %d", c.Server, c.Type)
		valid = false
	}

	if c.InitCmd != "" {
		b.dropBadSubst(c, "initsubst", &c.InitSubst)
	}

	return valid
}

func (b *Builder) dropBadSubst(c *Console, label string, tmpl *string) {

	if *tmpl == "" {
		return
	}
	if err := checkSubst(c, label, *tmpl); err != nil {
		b.Diag.Report(err)
		*tmpl = ""
	}
}

// aliases are unique across all consoles
func (b *Builder) itemAliases(v string) {

	c := b.curr
	if c == nil {
		return
	}

	if v == "" {
		c.Aliases = nil
		return
	}

	for _, tok := range users.Words(v) {
		if o := FindName(b.List, tok); o != nil {
			b.Diag.Advise("alias name `%s' invalid: already in use by console `%s'", tok, o.Server)
			continue
		}
		if c.HasName(tok) {
			b.Diag.Advise("alias name `%s' repeated: ignored", tok)
			continue
		}
		c.Aliases = append([]string{tok}, c.Aliases...)
	}
}

// ################################################################

// itemTable binds the attribute setters to the stanza being built
func itemTable(d *conserver.Diag, ub *users.GroupBuilder, defs *DefaultBuilder, curr func() *Console) map[string]func(string) {

	items := make(map[string]func(string), len(attrs)+3)

	for name, set := range attrs {
		set := set
		items[name] = func(v string) {
			c := curr()
			if c == nil {
				return
			}
			if err := set(c, v); err != nil {
				d.Report(err)
			}
		}
	}

	items["include"] = func(v string) {
		c := curr()
		if c == nil || v == "" {
			return
		}
		inc := defs.Find(v)
		if inc == nil {
			d.Advise("invalid default name `%s'", v)
			return
		}
		ApplyDefault(inc, c)
	}

	items["ro"] = func(v string) {
		if c := curr(); c != nil {
			users.ParseList(v, ub.Registry, ub.Groups, &c.RO)
		}
	}
	items["rw"] = func(v string) {
		if c := curr(); c != nil {
			users.ParseList(v, ub.Registry, ub.Groups, &c.RW)
		}
	}

	return items
}
