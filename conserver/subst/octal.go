// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-03 10:01 (EST)
// Function: backslash-octal secrets

package subst

import (
	"conserver.domain/conserver/conserver"
)

const MAXSECRET = 20

// DecodeSecret turns \NNN (up to 3 octal digits) and \c escapes into
// raw bytes. a trailing lone backslash is kept.
func DecodeSecret(s string) (string, error) {

	var out []byte
	var oct byte
	octs := 0
	backslash := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if octs > 0 && octs < 3 && c >= '0' && c <= '7' {
			octs++
			oct = oct*8 + (c - '0')
			continue
		}
		if octs != 0 {
			out = append(out, oct)
			octs = 0
			oct = 0
		}
		if backslash {
			backslash = false
			if c >= '0' && c <= '7' {
				octs++
				oct = c - '0'
				continue
			}
			out = append(out, c)
			continue
		}
		if c == '\\' {
			backslash = true
			continue
		}
		out = append(out, c)
	}

	if octs != 0 {
		out = append(out, oct)
	}
	if backslash {
		out = append(out, '\\')
	}

	if len(out) > MAXSECRET {
		return "", conserver.Errorf(conserver.ErrCodeBadValue, "ipmikg string `%s' over %d characters", s, MAXSECRET)
	}

	return string(out), nil
}
