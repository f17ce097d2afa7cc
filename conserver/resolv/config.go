// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-11 09:10 (EDT)
// Function: resolver configuration

package resolv

import (
	"bufio"
	"net"
	"os"
	"strings"
)

const (
	RESOLVCONF = "/etc/resolv.conf"
	HOSTSFILE  = "/etc/hosts"
)

// Configure sets the nameservers. with none given, resolv.conf is used
func (r *Resolver) Configure(servers []string, search []string) error {

	r.search = []string{"."}
	r.servers = nil

	for _, dom := range search {
		r.addSearch(dom)
	}
	for _, ns := range servers {
		if err := r.addServer(ns); err != nil {
			return err
		}
	}

	if len(r.servers) == 0 {
		r.readResolvConf(RESOLVCONF)
	}
	if len(r.servers) == 0 {
		r.addServer("127.0.0.1")
	}
	return nil
}

func (r *Resolver) readResolvConf(file string) {

	fd, err := os.Open(file)
	if err != nil {
		return
	}
	defer fd.Close()

	scan := bufio.NewScanner(fd)

	for scan.Scan() {
		line := scan.Text()
		dl.Debug("resolv.conf> %s", line)

		if i := strings.IndexAny(line, "#;"); i != -1 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "search", "domain":
			for _, dom := range fields[1:] {
				r.addSearch(dom)
			}
		case "nameserver":
			for _, ns := range fields[1:] {
				r.addServer(ns)
			}
		}
	}
}

func (r *Resolver) addSearch(dom string) {

	// surround with dots => .DOMAIN.
	if dom[0] != '.' {
		dom = "." + dom
	}
	if dom[len(dom)-1] != '.' {
		dom = dom + "."
	}
	r.search = append(r.search, dom)
}

func (r *Resolver) addServer(ns string) error {

	if net.ParseIP(ns) == nil {
		return errorf("invalid nameserver `%s'", ns)
	}
	r.servers = append(r.servers, net.JoinHostPort(ns, "53"))
	return nil
}

// readHosts loads the static host table
func readHosts(file string) map[string][]net.IP {

	hosts := make(map[string][]net.IP)

	fd, err := os.Open(file)
	if err != nil {
		return hosts
	}
	defer fd.Close()

	scan := bufio.NewScanner(fd)

	for scan.Scan() {
		line := scan.Text()
		if i := strings.IndexByte(line, '#'); i != -1 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		ip := net.ParseIP(fields[0])
		if ip == nil {
			continue
		}
		for _, name := range fields[1:] {
			name = strings.ToLower(strings.TrimSuffix(name, "."))
			hosts[name] = append(hosts[name], ip)
		}
	}
	return hosts
}
