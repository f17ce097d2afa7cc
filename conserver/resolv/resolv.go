// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-11 09:40 (EDT)
// Function: name to address lookups

package resolv

import (
	"net"
	"strings"
	"sync"
	"time"

	"conserver.domain/conserver/clock"
	"conserver.domain/conserver/conserver"
	"github.com/jaw0/acdiag"
	"github.com/miekg/dns"
)

const (
	QUERYTIMEOUT = 2 * time.Second
	TTL_MIN      = 60
	TTL_MAX      = 1209600 // 2 weeks
	TTL_ERR      = 60
	TRIES        = 2
)

// Exchange sends one query to one server
type Exchange func(m *dns.Msg, server string) (*dns.Msg, error)

type cacheE struct {
	addrs  []net.IP
	expire int64
}

type Resolver struct {
	Exchange Exchange
	Hosts    map[string][]net.IP

	lock    sync.Mutex
	cache   map[string]*cacheE
	search  []string
	servers []string
}

var dl = diag.Logger("resolv")

func errorf(format string, args ...interface{}) error {
	return conserver.Errorf(conserver.ErrCodeBadValue, format, args...)
}

// New builds a resolver using the nameservers given, or resolv.conf
func New(servers []string) (*Resolver, error) {

	client := &dns.Client{
		Timeout: QUERYTIMEOUT,
	}

	r := &Resolver{
		Hosts: readHosts(HOSTSFILE),
		cache: make(map[string]*cacheE),
		Exchange: func(m *dns.Msg, server string) (*dns.Msg, error) {
			resp, _, err := client.Exchange(m, server)
			return resp, err
		},
	}

	err := r.Configure(servers, nil)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// LookupHost returns the addresses of name. literal addresses are
// returned as is, the hosts table is checked before dns.
func (r *Resolver) LookupHost(name string) ([]net.IP, error) {

	if ip := net.ParseIP(name); ip != nil {
		return []net.IP{ip}, nil
	}

	key := strings.ToLower(strings.TrimSuffix(name, "."))

	if ips, ok := r.Hosts[key]; ok {
		return ips, nil
	}

	now := clock.Unix()

	r.lock.Lock()
	if r.cache == nil {
		r.cache = make(map[string]*cacheE)
	}
	e := r.cache[key]
	r.lock.Unlock()

	if e != nil && e.expire > now {
		return e.addrs, nil
	}

	addrs, ttl := r.query(name)

	r.lock.Lock()
	r.cache[key] = &cacheE{addrs: addrs, expire: now + int64(ttl)}
	r.lock.Unlock()

	if len(addrs) == 0 {
		return nil, conserver.Errorf(conserver.ErrCodeUnknownRef, "cannot resolve `%s'", name)
	}
	return addrs, nil
}

// query tries each search domain until something answers
func (r *Resolver) query(name string) ([]net.IP, int) {

	zones := []string{dns.Fqdn(name)}

	if !strings.HasSuffix(name, ".") {
		zones = zones[:0]
		for _, dom := range r.search {
			zones = append(zones, name+dom)
		}
	}

	for _, zone := range zones {
		var addrs []net.IP
		ttl := TTL_MAX

		for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
			ans, t := r.ask(zone, qtype)
			addrs = append(addrs, ans...)
			if len(ans) != 0 && t < ttl {
				ttl = t
			}
		}

		if len(addrs) != 0 {
			return addrs, clampTTL(ttl)
		}
	}

	return nil, TTL_ERR
}

func (r *Resolver) ask(zone string, qtype uint16) ([]net.IP, int) {

	req := &dns.Msg{}
	req.SetQuestion(zone, qtype)
	req.RecursionDesired = true

	for try := 0; try < TRIES; try++ {
		for _, ns := range r.servers {
			resp, err := r.Exchange(req, ns)
			if err != nil {
				dl.Debug("query %s @%s: %v", zone, ns, err)
				continue
			}
			if resp.Rcode != dns.RcodeSuccess {
				dl.Debug("query %s @%s: %s", zone, ns, dns.RcodeToString[resp.Rcode])
				return nil, 0
			}
			return answers(resp)
		}
	}
	return nil, 0
}

func answers(msg *dns.Msg) ([]net.IP, int) {

	var addrs []net.IP
	ttl := TTL_MAX

	for _, ans := range msg.Answer {
		h := ans.Header()
		dl.Debug("rcv> %s", ans.String())

		switch ans := ans.(type) {
		case *dns.A:
			addrs = append(addrs, ans.A)
		case *dns.AAAA:
			addrs = append(addrs, ans.AAAA)
		default:
			continue
		}
		if int(h.Ttl) < ttl {
			ttl = int(h.Ttl)
		}
	}
	return addrs, ttl
}

func clampTTL(ttl int) int {

	if ttl < TTL_MIN {
		return TTL_MIN
	}
	if ttl > TTL_MAX {
		return TTL_MAX
	}
	return ttl
}
