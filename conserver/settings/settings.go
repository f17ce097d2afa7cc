// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-10 09:15 (EDT)
// Function: daemon wide settings

package settings

import (
	"reflect"
	"strings"

	"conserver.domain/conserver/conserver"
	"github.com/jaw0/acdiag"
	"github.com/mitchellh/mapstructure"
)

// Config holds the daemon wide settings. zero values mean unset.
type Config struct {
	Logfile        string         `cf:"logfile" yaml:"logfile,omitempty"`
	PasswdFile     string         `cf:"passwdfile" yaml:"passwdfile,omitempty"`
	UnifiedLog     string         `cf:"unifiedlog" yaml:"unifiedlog,omitempty"`
	PrimaryPort    string         `cf:"primaryport" yaml:"primaryport,omitempty"`
	SecondaryPort  string         `cf:"secondaryport" yaml:"secondaryport,omitempty"`
	SSLCredentials string         `cf:"sslcredentials" yaml:"sslcredentials,omitempty"`
	SSLCAFile      string         `cf:"sslcacertificatefile" yaml:"sslcacertificatefile,omitempty"`
	DefaultAccess  byte           `cf:"defaultaccess" yaml:"defaultaccess,omitempty"`
	AutoComplete   conserver.Flag `cf:"autocomplete" yaml:"autocomplete"`
	DaemonMode     conserver.Flag `cf:"daemonmode" yaml:"daemonmode"`
	Redirect       conserver.Flag `cf:"redirect" yaml:"redirect"`
	LogHostnames   conserver.Flag `cf:"loghostnames" yaml:"loghostnames"`
	SSLRequired    conserver.Flag `cf:"sslrequired" yaml:"sslrequired"`
	SSLReqCert     conserver.Flag `cf:"sslreqclientcert" yaml:"sslreqclientcert"`
	SetProcTitle   conserver.Flag `cf:"setproctitle" yaml:"setproctitle"`
	ReinitCheck    int            `cf:"reinitcheck" yaml:"reinitcheck,omitempty"`
	InitDelay      int            `cf:"initdelay" yaml:"initdelay,omitempty"`
}

var dl = diag.Logger("settings")

// Defaults are used for anything neither the command line nor the file set
func Defaults() *Config {
	return &Config{
		Logfile:       "/var/log/conserver",
		PasswdFile:    "/etc/conserver.passwd",
		PrimaryPort:   "conserver",
		SecondaryPort: "0",
		DefaultAccess: 'r',
		AutoComplete:  conserver.FlagTrue,
		DaemonMode:    conserver.FlagFalse,
		Redirect:      conserver.FlagTrue,
		LogHostnames:  conserver.FlagTrue,
		SSLRequired:   conserver.FlagTrue,
		SSLReqCert:    conserver.FlagFalse,
		SetProcTitle:  conserver.FlagFalse,
	}
}

// ParseAccess accepts allowed, rejected, trusted
func ParseAccess(v string) (byte, bool) {

	switch strings.ToLower(v) {
	case "allowed":
		return 'a', true
	case "rejected":
		return 'r', true
	case "trusted":
		return 't', true
	}
	return 0, false
}

var flagType = reflect.TypeOf(conserver.FlagUnknown)

// decodeHook turns command line values into settings types
func decodeHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {

	switch {
	case to == flagType && from.Kind() == reflect.Bool:
		return conserver.FlagOf(data.(bool)), nil

	case to == flagType && from.Kind() == reflect.String:
		var f conserver.Flag
		if !conserver.ProcessYesNo(data.(string), &f) {
			return nil, conserver.Errorf(conserver.ErrCodeBadValue, "invalid boolean entry `%s'", data)
		}
		return f, nil

	case to.Kind() == reflect.Uint8 && from.Kind() == reflect.String:
		a, ok := ParseAccess(data.(string))
		if !ok {
			return nil, conserver.Errorf(conserver.ErrCodeBadValue, "invalid access type `%s'", data)
		}
		return a, nil
	}

	return data, nil
}

// FromMap builds the command line shadow from the flags actually given
func FromMap(m map[string]interface{}) (*Config, error) {

	cf := &Config{}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       decodeHook,
		WeaklyTypedInput: true,
		TagName:          "cf",
		Result:           cf,
	})
	if err != nil {
		return nil, conserver.Wrap(err, conserver.ErrCodeBadValue, "cannot build decoder")
	}

	err = dec.Decode(m)
	if err != nil {
		return nil, conserver.Wrap(err, conserver.ErrCodeBadValue, "invalid command line option")
	}
	return cf, nil
}

// merge copies every field set in o
func (cf *Config) merge(o *Config) {

	set(&cf.Logfile, o.Logfile)
	set(&cf.PasswdFile, o.PasswdFile)
	set(&cf.UnifiedLog, o.UnifiedLog)
	set(&cf.PrimaryPort, o.PrimaryPort)
	set(&cf.SecondaryPort, o.SecondaryPort)
	set(&cf.SSLCredentials, o.SSLCredentials)
	set(&cf.SSLCAFile, o.SSLCAFile)
	set(&cf.DefaultAccess, o.DefaultAccess)
	set(&cf.AutoComplete, o.AutoComplete)
	set(&cf.DaemonMode, o.DaemonMode)
	set(&cf.Redirect, o.Redirect)
	set(&cf.LogHostnames, o.LogHostnames)
	set(&cf.SSLRequired, o.SSLRequired)
	set(&cf.SSLReqCert, o.SSLReqCert)
	set(&cf.SetProcTitle, o.SetProcTitle)
	set(&cf.ReinitCheck, o.ReinitCheck)
	set(&cf.InitDelay, o.InitDelay)
}

func set[T comparable](dst *T, v T) {

	var zero T
	if v != zero {
		*dst = v
	}
}
