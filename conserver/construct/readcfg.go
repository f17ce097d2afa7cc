// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-12 15:20 (EDT)
// Function: read, compile, and apply the configuration

package construct

import (
	"net"
	"sync"

	"conserver.domain/conserver/access"
	"conserver.domain/conserver/breaks"
	"conserver.domain/conserver/codec"
	"conserver.domain/conserver/console"
	"conserver.domain/conserver/conserver"
	"conserver.domain/conserver/group"
	"conserver.domain/conserver/passwd"
	"conserver.domain/conserver/settings"
	"conserver.domain/conserver/task"
	"conserver.domain/conserver/users"
	"github.com/jaw0/acdiag"
)

type Options struct {
	Master     bool
	MaxMembers int
	Port       int // for the process title
	IsMe       func(string) bool
	Addrs      []net.IP
	Forced     console.Forced
	Opt        *settings.Config // from the command line
	Default    *settings.Config
	Runtime    group.Runtime
}

// Conserver is the compiled, running configuration
type Conserver struct {
	lock       sync.Mutex
	Opts       Options
	Engine     *group.Engine
	Breaks     *breaks.Table
	Tasks      task.List
	Access     *access.Compiled
	Consoles   []*console.Console
	File       *settings.Config // from the last read
	Live       *settings.Config // in effect
	Passwd     *passwd.Table
	Files      []string
	Digest     string
	Generation int
	Title      string
}

var dl = diag.Logger("construct")

func New(opts Options) *Conserver {

	if opts.Opt == nil {
		opts.Opt = &settings.Config{}
	}
	if opts.Default == nil {
		opts.Default = settings.Defaults()
	}
	if opts.IsMe == nil {
		opts.IsMe = func(string) bool { return false }
	}

	return &Conserver{
		Opts:   opts,
		Engine: group.NewEngine(opts.Master, opts.MaxMembers, opts.IsMe, opts.Runtime),
	}
}

// View runs f with the configuration held still
func (c *Conserver) View(f func()) {
	c.lock.Lock()
	defer c.lock.Unlock()
	f()
}

type builders struct {
	tasks    *task.Builder
	breaks   *breaks.Builder
	groups   *users.GroupBuilder
	defaults *console.DefaultBuilder
	consoles *console.Builder
	access   *access.Builder
	config   *settings.Builder
}

func (c *Conserver) builders(d *conserver.Diag) (*builders, []*section) {

	tbl := &breaks.Table{}
	tbl.Reset()

	reg := users.NewRegistry()
	b := &builders{}
	b.tasks = task.NewBuilder(d, console.NewSubst())
	b.breaks = breaks.NewBuilder(d, tbl)
	b.groups = users.NewGroupBuilder(d, reg)
	b.defaults = console.NewDefaultBuilder(d, b.groups)
	b.consoles = console.NewBuilder(d, b.groups, b.defaults)
	b.consoles.Forced = c.Opts.Forced
	b.access = access.NewBuilder(d, c.Opts.IsMe, b.groups)
	b.config = settings.NewBuilder(d, c.Opts.IsMe)

	// Destroy runs in this order
	sections := []*section{
		newSection("task", b.tasks),
		newSection("break", b.breaks),
		newSection("group", b.groups),
		newSection("default", b.defaults),
		newSection("console", b.consoles),
		newSection("access", b.access),
		newSection("config", b.config),
	}

	return b, sections
}

// compile reads file into a fresh set of builders
func (c *Conserver) compile(file string) (*builders, *Files, error) {

	conserver.ResetErrors()

	f, err := NewReader(file)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	d := &conserver.Diag{Where: f, Master: c.Opts.Master}
	b, sections := c.builders(d)

	parse(newLexer(f), sections, d)

	d.Where = nil
	for _, s := range sections {
		s.sec.Destroy()
	}

	return b, f, nil
}

// Check compiles file without touching the running configuration
func Check(file string, opts Options) ([]*console.Console, error) {

	c := New(opts)
	b, _, err := c.compile(file)
	if err != nil {
		return nil, err
	}
	if len(b.consoles.Compiled) == 0 {
		return nil, conserver.Errorf(conserver.ErrCodeNoConsoles, "no consoles found in configuration file")
	}
	return b.consoles.Compiled, nil
}

// ReadCfg reads the config and applies it to the running groups
func (c *Conserver) ReadCfg(file string) error {

	c.lock.Lock()
	defer c.lock.Unlock()

	return c.readCfg(file)
}

func (c *Conserver) readCfg(file string) error {

	b, f, err := c.compile(file)
	if err != nil {
		return err
	}

	res := b.access.Result
	if c.Opts.Master {
		for _, acl := range res.ACL {
			diag.Verbose("access type `%c' for `%s'", acl.Trust, acl.Who)
		}
	}
	res.SetDefault(c.Opts.Addrs)

	err = c.Engine.Reconfigure(b.consoles.Compiled, res.Admin)
	if err != nil {
		return err
	}

	c.Breaks = b.breaks.Table
	c.Tasks = b.tasks.List
	c.Access = res
	c.Consoles = b.consoles.Compiled
	c.File = b.config.File
	c.Files = f.AllFiles()
	c.Digest = f.Digest()
	c.Generation++

	if c.Live == nil {
		c.Live = settings.Effective(c.File, c.Opts.Opt, c.Opts.Default)
		c.loadPasswd()
	}

	c.setTitle()
	dl.Debug("generation %d digest %s", c.Generation, c.Digest)
	return nil
}

// ReReadCfg rereads the config and reconciles the settings. the
// caller acts on the returned changes.
func (c *Conserver) ReReadCfg(file string) (*settings.Changes, error) {

	c.lock.Lock()
	defer c.lock.Unlock()

	first := c.Live == nil

	err := c.readCfg(file)
	if err != nil {
		return nil, err
	}

	if first {
		return &settings.Changes{}, nil
	}

	ch := settings.Reconcile(c.Live, c.File, c.Opts.Opt, c.Opts.Default, c.Opts.Master)

	if ch.Passwd {
		c.loadPasswd()
	}
	c.setTitle()

	return ch, nil
}

func (c *Conserver) loadPasswd() {

	if c.Passwd == nil {
		c.Passwd = &passwd.Table{}
	}
	err := c.Passwd.Reload(c.Live.PasswdFile)
	if err != nil {
		dl.Problem("cannot read passwd file: %v", err)
	}
}

func (c *Conserver) setTitle() {

	if c.Live == nil || !c.Live.SetProcTitle.True() {
		c.Title = ""
		return
	}
	c.Title = c.Engine.Title(c.Opts.Port)
	dl.Verbose("title %s", c.Title)
}

// Batch packages the events of the last read for the workers
func (c *Conserver) Batch() *codec.Batch {
	return &codec.Batch{
		Generation: c.Generation,
		Digest:     c.Digest,
		Events:     c.Engine.Events,
	}
}
