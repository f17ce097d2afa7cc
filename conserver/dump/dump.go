// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-14 09:30 (EDT)
// Function: render the compiled configuration

package dump

import (
	"conserver.domain/conserver/breaks"
	"conserver.domain/conserver/console"
	"conserver.domain/conserver/conserver"
	"conserver.domain/conserver/construct"
	"conserver.domain/conserver/group"
	"conserver.domain/conserver/settings"
	"gopkg.in/yaml.v3"
)

type Model struct {
	Generation int              `yaml:"generation"`
	Digest     string           `yaml:"digest,omitempty"`
	Files      []string         `yaml:"files,omitempty"`
	Settings   *settings.Config `yaml:"settings,omitempty"`
	Access     []ACL            `yaml:"access,omitempty"`
	Admin      []string         `yaml:"admin,omitempty"`
	Limited    []string         `yaml:"limited,omitempty"`
	Breaks     []Break          `yaml:"breaks,omitempty"`
	Tasks      []Task           `yaml:"tasks,omitempty"`
	Consoles   []Console        `yaml:"consoles"`
	Groups     []Group          `yaml:"groups,omitempty"`
	Remotes    []*group.Remote  `yaml:"remotes,omitempty"`
	Peers      []string         `yaml:"peers,omitempty"`
}

type ACL struct {
	Trust string `yaml:"trust"`
	Who   string `yaml:"who"`
}

type Break struct {
	ID      string         `yaml:"id"`
	Seq     string         `yaml:"string"`
	Delay   int            `yaml:"delay"`
	Confirm conserver.Flag `yaml:"confirm"`
}

type Task struct {
	ID      string         `yaml:"id"`
	Cmd     string         `yaml:"cmd"`
	Descr   string         `yaml:"description,omitempty"`
	Subst   string         `yaml:"subst,omitempty"`
	Confirm conserver.Flag `yaml:"confirm"`
}

type Console struct {
	Server   string       `yaml:"server"`
	Aliases  []string     `yaml:"aliases,omitempty"`
	Master   string       `yaml:"master"`
	Type     console.Type `yaml:"type"`
	Syntax   string       `yaml:"syntax"`
	Logfile  string       `yaml:"logfile,omitempty"`
	LogMax   int64        `yaml:"logfilemax,omitempty"`
	InitCmd  string       `yaml:"initcmd,omitempty"`
	NetPort  int          `yaml:"netport,omitempty"`
	Idle     int          `yaml:"idletimeout,omitempty"`
	Tasks    string       `yaml:"tasklist"`
	Breaks   string       `yaml:"breaklist"`
	BreakNum int          `yaml:"break"`
	RO       []string     `yaml:"ro,omitempty"`
	RW       []string     `yaml:"rw,omitempty"`
}

type Group struct {
	ID      int      `yaml:"id"`
	Pid     int      `yaml:"pid"`
	Port    int      `yaml:"port"`
	Members []string `yaml:"members"`
	Clients int      `yaml:"clients"`
}

// Build snapshots c. the caller holds it still, see Conserver.View.
func Build(c *construct.Conserver) *Model {

	m := &Model{
		Generation: c.Generation,
		Digest:     c.Digest,
		Files:      c.Files,
		Settings:   c.Live,
	}

	if c.Access != nil {
		for _, a := range c.Access.ACL {
			m.Access = append(m.Access, ACL{Trust: a.Trust.String(), Who: a.Who})
		}
		m.Admin = c.Access.Admin.Names()
		m.Limited = c.Access.Limited.Names()
	}

	if c.Breaks != nil {
		for n := 1; n <= breaks.LISTSIZE; n++ {
			b := c.Breaks.Get(n)
			if b == nil || b.Seq == "" {
				continue
			}
			m.Breaks = append(m.Breaks, Break{ID: breakID(n), Seq: b.Seq, Delay: b.Delay, Confirm: b.Confirm})
		}
	}

	for _, t := range c.Tasks {
		m.Tasks = append(m.Tasks, Task{ID: string(t.ID), Cmd: t.Cmd, Descr: t.Descr, Subst: t.Subst, Confirm: t.Confirm})
	}

	m.Consoles = Consoles(c.Consoles)

	for _, g := range c.Engine.Groups {
		dg := Group{ID: g.ID, Pid: g.Pid, Port: g.Port, Clients: len(g.All)}
		for _, e := range g.Members {
			dg.Members = append(dg.Members, e.Config.Server)
		}
		m.Groups = append(m.Groups, dg)
	}

	m.Remotes = c.Engine.Remotes
	for _, r := range c.Engine.Uniq {
		m.Peers = append(m.Peers, r.Host)
	}

	return m
}

func Consoles(list []*console.Console) []Console {

	var res []Console

	for _, c := range list {
		res = append(res, Console{
			Server:   c.Server,
			Aliases:  c.Aliases,
			Master:   c.Master,
			Type:     c.Type,
			Syntax:   c.Syntax(),
			Logfile:  c.Logfile,
			LogMax:   c.LogfileMax,
			InitCmd:  c.InitCmd,
			NetPort:  c.NetPort,
			Idle:     c.IdleTimeout,
			Tasks:    c.TaskList,
			Breaks:   c.BreakList,
			BreakNum: c.BreakNum.Val,
			RO:       c.RO.Names(),
			RW:       c.RW.Names(),
		})
	}
	return res
}

func breakID(n int) string {

	if n <= 9 {
		return string(rune('0' + n))
	}
	return string(rune('a' + n - 10))
}

// YAML renders the model
func (m *Model) YAML() ([]byte, error) {
	return yaml.Marshal(m)
}
