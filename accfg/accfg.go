// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-15 10:20 (EDT)
// Function: AC style `key value' option files

package accfg

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/agilira/go-errors"
)

const (
	ErrCodeRead  = "ACCFG_READ"
	ErrCodeParam = "ACCFG_PARAM"
	MAXDEPTH     = 10
)

type reader struct {
	file   string
	line   int
	depth  int
	fields map[string]int
	cf     reflect.Value
}

// Read fills the struct pointed to by cf from file. each line is
// `key value' or `key: value'. keys are the lower cased field names,
// or the `name' tag. string slices and maps accumulate.
func Read(file string, cf interface{}) error {

	val := reflect.ValueOf(cf)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		panic("accfg: config must be a pointer to struct")
	}

	r := &reader{cf: val.Elem()}
	r.learn()
	return r.read(file)
}

func (r *reader) learn() {

	r.fields = make(map[string]int)
	typ := r.cf.Type()

	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		name := strings.ToLower(f.Name)
		if n, ok := f.Tag.Lookup("name"); ok {
			name = n
		}
		r.fields[name] = i
	}
}

func (r *reader) read(file string) error {

	f, err := os.Open(file)
	if err != nil {
		return errors.Wrap(err, ErrCodeRead, fmt.Sprintf("cannot open '%s'", file))
	}
	defer f.Close()

	pfile, pline := r.file, r.line
	r.file, r.line = file, 0
	defer func() { r.file, r.line = pfile, pline }()

	scan := bufio.NewScanner(f)
	for scan.Scan() {
		r.line++

		key, val := split(scan.Text())
		if key == "" {
			continue
		}

		if key == "include" {
			err = r.include(val)
		} else {
			err = r.store(key, val)
		}
		if err != nil {
			return err
		}
	}

	return scan.Err()
}

// split removes comments and separates key from value
func split(line string) (string, string) {

	if i := strings.IndexByte(line, '#'); i != -1 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", ""
	}

	i := strings.IndexFunc(line, func(c rune) bool { return unicode.IsSpace(c) || c == ':' })
	if i == -1 {
		return strings.ToLower(line), ""
	}

	return strings.ToLower(line[:i]), strings.TrimSpace(strings.TrimLeft(line[i:], ": \t"))
}

func (r *reader) include(file string) error {

	if r.depth >= MAXDEPTH {
		return r.errorf("includes nested too deeply")
	}
	if !filepath.IsAbs(file) {
		file = filepath.Join(filepath.Dir(r.file), file)
	}

	r.depth++
	defer func() { r.depth-- }()
	return r.read(file)
}

func (r *reader) errorf(format string, args ...interface{}) error {
	return errors.New(ErrCodeParam, fmt.Sprintf("%s:%d: ", r.file, r.line)+fmt.Sprintf(format, args...))
}

func (r *reader) store(key string, v string) error {

	i, ok := r.fields[key]
	if !ok {
		return r.errorf("invalid param '%s'", key)
	}

	fv := r.cf.Field(i)
	tag := r.cf.Type().Field(i).Tag

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(v)

	case reflect.Int, reflect.Int64:
		var n int64
		var err error

		if conv, _ := tag.Lookup("convert"); conv == "duration" {
			n, err = parseDuration(v)
		} else {
			n, err = strconv.ParseInt(v, 0, 64)
		}
		if err != nil {
			return r.errorf("invalid value for '%s' (expected number)", key)
		}
		fv.SetInt(n)

	case reflect.Bool:
		fv.SetBool(parseBool(v))

	case reflect.Slice:
		if fv.Type().Elem().Kind() != reflect.String {
			return r.errorf("field '%s' has unsupported type", key)
		}
		fv.Set(reflect.Append(fv, reflect.ValueOf(v)))

	case reflect.Map:
		if fv.IsNil() {
			fv.Set(reflect.MakeMap(fv.Type()))
		}
		fv.SetMapIndex(reflect.ValueOf(v), reflect.ValueOf(true))

	default:
		return r.errorf("field '%s' has unsupported type (%s)", key, fv.Kind())
	}

	return nil
}

// parseDuration returns seconds. N, Ns, Nm, Nh, Nd
func parseDuration(v string) (int64, error) {

	if v == "" {
		return 0, strconv.ErrSyntax
	}

	mult := int64(1)
	switch unicode.ToLower(rune(v[len(v)-1])) {
	case 's':
		v = v[:len(v)-1]
	case 'm':
		mult = 60
		v = v[:len(v)-1]
	case 'h':
		mult = 3600
		v = v[:len(v)-1]
	case 'd':
		mult = 3600 * 24
		v = v[:len(v)-1]
	}

	n, err := strconv.ParseInt(v, 10, 64)
	return n * mult, err
}

func parseBool(v string) bool {

	switch strings.ToLower(v) {
	case "yes", "on", "true", "1", "":
		return true
	}
	return false
}
