// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-04 13:15 (EST)
// Function: access control entries

package access

import (
	"net"
	"strconv"
	"strings"

	"conserver.domain/conserver/conserver"
)

type Trust byte

const (
	Allowed  Trust = 'a'
	Rejected Trust = 'r'
	Trusted  Trust = 't'
)

type ACL struct {
	Trust Trust
	CIDR  bool
	Who   string
	ipnet *net.IPNet
}

func ParseTrust(v string) (Trust, bool) {

	switch strings.ToLower(v) {
	case "allowed":
		return Allowed, true
	case "rejected":
		return Rejected, true
	case "trusted":
		return Trusted, true
	}
	return 0, false
}

func (t Trust) String() string {
	switch t {
	case Allowed:
		return "allowed"
	case Rejected:
		return "rejected"
	case Trusted:
		return "trusted"
	}
	return "unset"
}

func (t Trust) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (a *ACL) same(o *ACL) bool {
	return a.Trust == o.Trust && a.CIDR == o.CIDR && strings.EqualFold(a.Who, o.Who)
}

// parseACL classifies a token as a CIDR block or a hostname.
// anything made only of digits, dots and slashes must be a dotted quad
// with an optional /0-32 mask.
func parseACL(trust Trust, tok string) (*ACL, error) {

	var nDigits, mDigits, dots, slashes, slashPos int

	i := 0
	for ; i < len(tok); i++ {
		c := tok[i]
		switch {
		case c >= '0' && c <= '9':
			if slashes != 0 {
				nDigits++
			} else {
				mDigits++
			}
		case c == '/':
			slashes++
			slashPos = i
		case c == '.':
			if slashes != 0 {
				dots += 10
			}
			dots++
		default:
			// a hostname
			return &ACL{Trust: trust, Who: tok}, nil
		}
	}

	bad := conserver.Errorf(conserver.ErrCodeBadValue, "invalid ACL CIDR notation `%s'", tok)

	if dots != 3 || mDigits == 0 {
		return nil, bad
	}
	if !((slashes == 1 && nDigits > 0) || (slashes == 0 && nDigits == 0)) {
		return nil, bad
	}

	addr := tok
	mask := 32

	if slashes == 1 {
		m, err := strconv.Atoi(tok[slashPos+1:])
		if err != nil || m < 0 || m > 32 {
			return nil, bad
		}
		mask = m
		addr = tok[:slashPos]
	}

	// octets with a leading zero are refused, not read as octal
	ip := net.ParseIP(addr).To4()
	if ip == nil {
		return nil, bad
	}

	ipn := &net.IPNet{IP: ip.Mask(net.CIDRMask(mask, 32)), Mask: net.CIDRMask(mask, 32)}

	return &ACL{Trust: trust, CIDR: true, Who: tok, ipnet: ipn}, nil
}

// Match reports whether a client address/hostname is covered
func (a *ACL) Match(ip net.IP, host string) bool {

	if a.CIDR {
		return ip != nil && a.ipnet.Contains(ip)
	}

	if host == "" {
		return false
	}
	if strings.EqualFold(host, a.Who) {
		return true
	}
	// domain suffix
	return len(host) > len(a.Who) && host[len(host)-len(a.Who)-1] == '.' &&
		strings.EqualFold(host[len(host)-len(a.Who):], a.Who)
}
