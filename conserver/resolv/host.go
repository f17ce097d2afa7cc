// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-11 10:25 (EDT)
// Function: is this name us?

package resolv

import (
	"net"
	"os"
	"strings"
)

// Host is this machine's identity
type Host struct {
	Name   string
	Addrs  []net.IP
	Lookup func(string) ([]net.IP, error)
}

// Local discovers the hostname and interface addresses
func Local(r *Resolver, hostname string) (*Host, error) {

	if hostname == "" {
		h, err := os.Hostname()
		if err != nil {
			return nil, errorf("cannot determine hostname: %v", err)
		}
		hostname = h
	}

	h := &Host{Name: hostname, Lookup: r.LookupHost}

	ifaddrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil, errorf("cannot list interfaces: %v", err)
	}

	for _, a := range ifaddrs {
		if ipn, ok := a.(*net.IPNet); ok {
			h.Addrs = append(h.Addrs, ipn.IP)
		}
	}

	if ips, err := r.LookupHost(hostname); err == nil {
		h.add(ips...)
	}

	dl.Debug("host %s addrs %v", h.Name, h.Addrs)
	return h, nil
}

func (h *Host) add(ips ...net.IP) {

	for _, ip := range ips {
		if !h.has(ip) {
			h.Addrs = append(h.Addrs, ip)
		}
	}
}

func (h *Host) has(ip net.IP) bool {

	for _, a := range h.Addrs {
		if a.Equal(ip) {
			return true
		}
	}
	return false
}

// IsMe decides if name refers to this host, by name or address
func (h *Host) IsMe(name string) bool {

	if name == "" {
		return false
	}
	if strings.EqualFold(name, h.Name) {
		return true
	}

	if ip := net.ParseIP(name); ip != nil {
		return h.has(ip)
	}

	ips, err := h.Lookup(name)
	if err != nil {
		dl.Problem("IsMe(): %v", err)
		return false
	}

	for _, ip := range ips {
		if h.has(ip) {
			return true
		}
	}
	return false
}

// IPv4 returns the v4 addresses, for the default access list
func (h *Host) IPv4() []net.IP {

	var res []net.IP
	for _, a := range h.Addrs {
		if a.To4() != nil {
			res = append(res, a)
		}
	}
	return res
}
