// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-02 11:02 (EST)
// Function: error codes

package conserver

import (
	"fmt"
	"strings"

	"github.com/agilira/go-errors"
)

const (
	ErrCodeBadValue    = "CONSERVER_BAD_VALUE"
	ErrCodeMissingAttr = "CONSERVER_MISSING_ATTR"
	ErrCodeDuplicate   = "CONSERVER_DUPLICATE"
	ErrCodeUnknownRef  = "CONSERVER_UNKNOWN_REF"
	ErrCodeBadSubst    = "CONSERVER_BAD_SUBST"
	ErrCodeNoConsoles  = "CONSERVER_NO_CONSOLES"
	ErrCodeIO          = "CONSERVER_IO"
)

// Errorf builds a coded error
func Errorf(code errors.ErrorCode, format string, args ...interface{}) error {
	return errors.New(code, fmt.Sprintf(format, args...))
}

func Wrap(err error, code errors.ErrorCode, format string, args ...interface{}) error {
	return errors.Wrap(err, code, fmt.Sprintf(format, args...))
}

// ErrCode returns the code of a coded error, or ""
func ErrCode(err error) string {

	if ec, ok := err.(errors.ErrorCoder); ok {
		return string(ec.ErrorCode())
	}
	return ""
}

// ErrMessage returns the text of err without the [CODE] prefix
func ErrMessage(err error) string {

	if err == nil {
		return ""
	}
	s := err.Error()

	if len(s) > 2 && s[0] == '[' {
		if i := strings.Index(s, "]: "); i != -1 {
			return s[i+3:]
		}
	}
	return s
}
