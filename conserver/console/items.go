// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-06 10:30 (EST)
// Function: console + default attributes

package console

import (
	"net"
	"strconv"
	"strings"

	"conserver.domain/conserver/breaks"
	"conserver.domain/conserver/conserver"
	"conserver.domain/conserver/subst"
	"conserver.domain/conserver/users"
)

// a setter applies one attribute value to a console or default.
// on error the attribute keeps its previous value, unless noted.
type setter func(c *Console, v string) error

// LookupPort resolves tcp service names
var LookupPort = func(name string) (int, error) {
	return net.LookupPort("tcp", name)
}

// attributes common to `default' and `console' stanzas.
// aliases, include, ro, rw need builder state and are added by the builders.
var attrs = map[string]setter{
	"baud":            setBaud,
	"break":           setBreak,
	"breaklist":       setBreakList,
	"device":          str(func(c *Console) *string { return &c.Device }),
	"devicesubst":     template(func(c *Console) *string { return &c.DeviceSubst }),
	"exec":            str(func(c *Console) *string { return &c.Exec }),
	"execrunas":       runas(func(c *Console) (*conserver.Opt, *conserver.Opt) { return &c.ExecUID, &c.ExecGID }),
	"execsubst":       template(func(c *Console) *string { return &c.ExecSubst }),
	"host":            str(func(c *Console) *string { return &c.Host }),
	"idlestring":      str(func(c *Console) *string { return &c.IdleString }),
	"idletimeout":     setIdleTimeout,
	"initcmd":         str(func(c *Console) *string { return &c.InitCmd }),
	"initrunas":       runas(func(c *Console) (*conserver.Opt, *conserver.Opt) { return &c.InitUID, &c.InitGID }),
	"initspinmax":     small("initspinmax", func(c *Console) *conserver.Opt { return &c.SpinMax }),
	"initspintimer":   small("initspintimer", func(c *Console) *conserver.Opt { return &c.SpinTimer }),
	"initsubst":       template(func(c *Console) *string { return &c.InitSubst }),
	"ipmiciphersuite": setCipherSuite,
	"ipmikg":          setIpmiKG,
	"ipmiprivlevel":   setPrivLevel,
	"ipmiworkaround":  setWorkaround,
	"logfile":         str(func(c *Console) *string { return &c.Logfile }),
	"logfilemax":      setLogfileMax,
	"master":          str(func(c *Console) *string { return &c.Master }),
	"motd":            str(func(c *Console) *string { return &c.Motd }),
	"options":         setOptions,
	"parity":          setParity,
	"password":        str(func(c *Console) *string { return &c.Password }),
	"port":            setPort,
	"portbase":        setPortBase,
	"portinc":         setPortInc,
	"protocol":        setProtocol,
	"replstring":      str(func(c *Console) *string { return &c.ReplString }),
	"tasklist":        setTaskList,
	"timestamp":       setTimestamp,
	"type":            setType,
	"uds":             str(func(c *Console) *string { return &c.Uds }),
	"udssubst":        template(func(c *Console) *string { return &c.UdsSubst }),
	"username":        str(func(c *Console) *string { return &c.Username }),
}

func bad(format string, args ...interface{}) error {
	return conserver.Errorf(conserver.ErrCodeBadValue, format, args...)
}

func str(field func(*Console) *string) setter {
	return func(c *Console, v string) error {
		*field(c) = v
		return nil
	}
}

// templates are checked for unknown tokens when defined
func template(field func(*Console) *string) setter {
	return func(c *Console, v string) error {
		if v != "" {
			substs.Reset()
			if err := substs.Check(v); err != nil {
				return err
			}
		}
		*field(c) = v
		return nil
	}
}

func runas(field func(*Console) (*conserver.Opt, *conserver.Opt)) setter {
	return func(c *Console, v string) error {
		uid, gid := field(c)
		var err error
		*uid, *gid, err = conserver.ParseRunAs(v)
		return err
	}
}

func digits(v string) (int, bool) {

	if !conserver.IsDigits(v) {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	return n, err == nil
}

// 0..254
func small(name string, field func(*Console) *conserver.Opt) setter {
	return func(c *Console, v string) error {
		if v == "" {
			*field(c) = conserver.Opt{}
			return nil
		}
		n, ok := digits(v)
		if !ok || n > 254 {
			return bad("invalid %s number `%s'", name, v)
		}
		*field(c) = conserver.Some(n)
		return nil
	}
}

func setBaud(c *Console, v string) error {

	if v == "" {
		c.Baud = nil
		return nil
	}
	b := FindBaud(v)
	if b == nil {
		return bad("invalid baud rate `%s'", v)
	}
	c.Baud = b
	return nil
}

func setParity(c *Console, v string) error {

	if v == "" {
		c.Parity = nil
		return nil
	}
	p := FindParity(v)
	if p == nil {
		return bad("invalid parity type `%s'", v)
	}
	c.Parity = p
	return nil
}

func setBreak(c *Console, v string) error {

	if v == "" {
		c.BreakNum = conserver.Opt{}
		return nil
	}
	n, ok := breaks.Number(v)
	if !ok {
		return bad("invalid break number `%s'", v)
	}
	c.BreakNum = conserver.Some(n)
	return nil
}

// 0-9, a-z or *, one per token
func refList(what string, v string) (string, error) {

	var list []byte
	var badtok []string

	for _, tok := range users.Words(v) {
		ch := tok[0]
		if len(tok) != 1 || !((ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'z') || ch == '*') {
			badtok = append(badtok, tok)
			continue
		}
		list = append(list, ch)
	}

	if len(badtok) != 0 {
		return string(list), bad("invalid %s reference `%s'", what, strings.Join(badtok, "', `"))
	}
	return string(list), nil
}

func setBreakList(c *Console, v string) error {

	var err error
	c.BreakList, err = refList("breaklist", v)
	return err
}

func setTaskList(c *Console, v string) error {

	var err error
	c.TaskList, err = refList("tasklist", v)
	return err
}

// N[smh]
func setIdleTimeout(c *Console, v string) error {

	if v == "" {
		c.IdleTimeout = 0
		return nil
	}

	i := 0
	for i < len(v) && v[i] >= '0' && v[i] <= '9' {
		i++
	}

	if i == 0 {
		return bad("invalid idletimeout specification `%s'", v)
	}

	factor := 1
	if i < len(v) {
		switch v[i] {
		case 's', 'S':
		case 'm', 'M':
			factor = 60
		case 'h', 'H':
			factor = 3600
		default:
			return bad("invalid idletimeout specification `%s'", v)
		}
		if i+1 != len(v) {
			return bad("invalid idletimeout specification `%s'", v)
		}
	}

	n, err := strconv.ParseInt(v[:i], 10, 32)
	if err != nil {
		return bad("invalid idletimeout specification `%s'", v)
	}
	c.IdleTimeout = int(n) * factor
	return nil
}

// N[kKmM], at least 2k. an invalid value leaves it unset.
func setLogfileMax(c *Console, v string) error {

	c.LogfileMax = 0
	if v == "" {
		return nil
	}

	i := 0
	for i < len(v) && v[i] >= '0' && v[i] <= '9' {
		i++
	}
	n, _ := strconv.ParseInt(v[:i], 10, 64)

	if i < len(v) {
		if i+1 != len(v) {
			return bad("invalid `logfilemax' specification `%s'", v)
		}
		switch v[i] {
		case 'k', 'K':
			n *= 1024
		case 'm', 'M':
			n *= 1024 * 1024
		default:
			return bad("invalid `logfilemax' specification `%s'", v)
		}
	}

	if n < 2048 {
		return bad("invalid `logfilemax' specification `%s' (must be >= 2K)", v)
	}
	c.LogfileMax = n
	return nil
}

var optionFlags = map[string]func(*Console) *conserver.Flag{
	"hupcl":      func(c *Console) *conserver.Flag { return &c.Hupcl },
	"ixany":      func(c *Console) *conserver.Flag { return &c.Ixany },
	"ixon":       func(c *Console) *conserver.Flag { return &c.Ixon },
	"ixoff":      func(c *Console) *conserver.Flag { return &c.Ixoff },
	"cstopb":     func(c *Console) *conserver.Flag { return &c.Cstopb },
	"crtscts":    func(c *Console) *conserver.Flag { return &c.Crtscts },
	"ondemand":   func(c *Console) *conserver.Flag { return &c.OnDemand },
	"striphigh":  func(c *Console) *conserver.Flag { return &c.StripHigh },
	"reinitoncc": func(c *Console) *conserver.Flag { return &c.ReinitOnCC },
	"autoreinit": func(c *Console) *conserver.Flag { return &c.AutoReinit },
	"unloved":    func(c *Console) *conserver.Flag { return &c.Unloved },
	"login":      func(c *Console) *conserver.Flag { return &c.Login },
}

// [!]opt ...
func setOptions(c *Console, v string) error {

	if v == "" {
		for _, f := range optionFlags {
			*f(c) = conserver.FlagUnknown
		}
		return nil
	}

	var badtok []string
	for _, tok := range users.Words(v) {
		val := conserver.FlagTrue
		if tok[0] == '!' {
			val = conserver.FlagFalse
			tok = tok[1:]
		}

		f, ok := optionFlags[strings.ToLower(tok)]
		if !ok {
			badtok = append(badtok, tok)
			continue
		}
		*f(c) = val
	}

	if len(badtok) != 0 {
		return bad("invalid option `%s'", strings.Join(badtok, "', `"))
	}
	return nil
}

func setPort(c *Console, v string) error {

	if v == "" {
		c.Port = conserver.Opt{}
		return nil
	}

	if conserver.IsDigits(v) {
		n, err := strconv.Atoi(v)
		if err != nil || n > 65535 {
			return bad("invalid port number `%s'", v)
		}
		c.Port = conserver.Some(n)
		return nil
	}

	n, err := LookupPort(v)
	if err != nil {
		return conserver.Wrap(err, conserver.ErrCodeBadValue, "invalid port name `%s'", v)
	}
	c.Port = conserver.Some(n)
	return nil
}

// -1 or digits
func setPortBase(c *Console, v string) error {

	switch v {
	case "":
		c.PortBase = conserver.Opt{}
		return nil
	case "-1":
		c.PortBase = conserver.Some(-1)
		return nil
	}

	n, ok := digits(v)
	if !ok {
		return bad("invalid portbase number `%s'", v)
	}
	c.PortBase = conserver.Some(n)
	return nil
}

func setPortInc(c *Console, v string) error {

	if v == "" {
		c.PortInc = conserver.Opt{}
		return nil
	}
	n, ok := digits(v)
	if !ok {
		return bad("invalid portinc number `%s'", v)
	}
	c.PortInc = conserver.Some(n)
	return nil
}

func setProtocol(c *Console, v string) error {

	switch v {
	case "":
		c.Raw = conserver.FlagUnknown
	case "telnet":
		c.Raw = conserver.FlagFalse
	case "raw":
		c.Raw = conserver.FlagTrue
	default:
		return bad("invalid protocol name `%s'", v)
	}
	return nil
}

func setType(c *Console, v string) error {

	if v == "" {
		c.Type = UNKNOWN
		return nil
	}
	t, ok := ParseType(v)
	if !ok {
		return bad("invalid console type `%s'", v)
	}
	c.Type = t
	return nil
}

// ################################################################
// ipmi

var cipherSuites = map[int]bool{
	-1: true, 0: true, 1: true, 2: true, 3: true, 6: true, 7: true,
	8: true, 11: true, 12: true, 15: true, 16: true, 17: true,
}

const WRK_DEFAULT uint32 = 0

const (
	WRK_AUTH_CAPABILITIES uint32 = 1 << iota
	WRK_INTEL_SESSION
	WRK_SUPERMICRO_SESSION
	WRK_SUN_SESSION
	WRK_PRIVILEGE
	WRK_INTEGRITY
	WRK_CHECKSUM
	WRK_SERIAL_ALERTS
	WRK_PACKET_SEQUENCE
	WRK_IGNORE_PAYLOAD_SIZE
	WRK_IGNORE_PORT
	WRK_ACTIVATION_STATUS
	WRK_CHANNEL_PAYLOAD
)

var workarounds = map[string]uint32{
	"default":             WRK_DEFAULT,
	"auth-capabilites":    WRK_AUTH_CAPABILITIES,
	"intel-session":       WRK_INTEL_SESSION,
	"supermicro-session":  WRK_SUPERMICRO_SESSION,
	"sun-session":         WRK_SUN_SESSION,
	"privilege":           WRK_PRIVILEGE,
	"integrity":           WRK_INTEGRITY,
	"checksum":            WRK_CHECKSUM,
	"serial-alerts":       WRK_SERIAL_ALERTS,
	"packet-sequence":     WRK_PACKET_SEQUENCE,
	"ignore-payload-size": WRK_IGNORE_PAYLOAD_SIZE,
	"ignore-port":         WRK_IGNORE_PORT,
	"activation-status":   WRK_ACTIVATION_STATUS,
	"channel-payload":     WRK_CHANNEL_PAYLOAD,
}

func setPrivLevel(c *Console, v string) error {

	switch strings.ToLower(v) {
	case "user":
		c.IpmiPrivLevel = PRIV_USER
	case "operator":
		c.IpmiPrivLevel = PRIV_OPERATOR
	case "admin":
		c.IpmiPrivLevel = PRIV_ADMIN
	default:
		return bad("invalid ipmiprivlevel `%s'", v)
	}
	return nil
}

func setCipherSuite(c *Console, v string) error {

	if v == "" {
		c.IpmiCipherSuite = conserver.Opt{}
		return nil
	}

	n := -1
	if v != "-1" {
		var ok bool
		n, ok = digits(v)
		if !ok {
			return bad("invalid ipmiciphersuite number `%s'", v)
		}
	}

	if !cipherSuites[n] {
		return bad("invalid ipmiciphersuite number `%s'", v)
	}
	c.IpmiCipherSuite = conserver.Some(n)
	return nil
}

func setWorkaround(c *Console, v string) error {

	if v == "" {
		c.IpmiWorkaround = 0
		c.IpmiWrkSet = true
		return nil
	}

	var wrk uint32
	var valid bool
	var badtok []string

	for _, tok := range users.Words(v) {
		not := false
		if tok[0] == '!' {
			not = true
			tok = tok[1:]
		}

		flag, ok := workarounds[tok]
		if !ok {
			badtok = append(badtok, tok)
			continue
		}
		if not {
			wrk &^= flag
		} else {
			wrk |= flag
		}
		valid = true
	}

	if valid {
		c.IpmiWorkaround = wrk
		c.IpmiWrkSet = true
	}

	if len(badtok) != 0 {
		return bad("invalid ipmiworkaround `%s'", strings.Join(badtok, "', `"))
	}
	return nil
}

func setIpmiKG(c *Console, v string) error {

	if v == "" {
		c.IpmiKG = ""
		return nil
	}

	kg, err := subst.DecodeSecret(v)
	if err != nil {
		return conserver.Wrap(err, conserver.ErrCodeBadValue, "invalid ipmikg string `%s'", v)
	}
	c.IpmiKG = kg
	return nil
}
