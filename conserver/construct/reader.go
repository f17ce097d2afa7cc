// Copyright (c) 2026
// Author: Jeff Weisberg <jaw @ tcp4me.com>
// Created: 2026-Mar-12 11:00 (EDT)
// Function: read config files

package construct

import (
	"bufio"
	"encoding/hex"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"conserver.domain/conserver/conserver"
	"github.com/zeebo/blake3"
)

type openfile struct {
	closer func()
	bfd    *bufio.Reader
	file   string
	line   int
}

// Files reads a config file, or every file in a directory, following
// `#include' lines. executable files are run and their output read.
type Files struct {
	curr     *openfile
	basedir  string
	files    []string
	opens    []*openfile
	allfiles []string
	hash     *blake3.Hasher
}

// NewReader opens file or directory
func NewReader(file string) (*Files, error) {

	f := &Files{hash: blake3.New()}

	s, err := os.Stat(file)
	if err != nil {
		return nil, conserver.Wrap(err, conserver.ErrCodeIO, "cannot open config file '%s'", file)
	}

	if s.IsDir() {
		f.basedir = file
		f.files = filesInDir(file)
	} else {
		f.basedir = filepath.Dir(file)
		f.files = append(f.files, file)
	}

	dl.Debug("files %v", f.files)
	f.nextFile()
	return f, nil
}

func (f *Files) CurrFile() string {

	if f.curr != nil {
		return f.curr.file
	}
	if len(f.files) != 0 {
		return f.files[0]
	}
	return ""
}

func (f *Files) CurrLine() int {
	if f.curr == nil {
		return 0
	}
	return f.curr.line
}

// AllFiles lists every file opened
func (f *Files) AllFiles() []string {
	return f.allfiles
}

// Digest is the blake3 hash of everything read so far
func (f *Files) Digest() string {
	return hex.EncodeToString(f.hash.Sum(nil))
}

func (f *Files) openFile(pathname string) bool {

	fd, closer, err := openOrPopen(pathname)
	if err != nil {
		conserver.ConfigError(f.CurrFile(), f.CurrLine(), "cannot open config file '%s': %v", pathname, err)
		return false
	}

	o := &openfile{closer, bufio.NewReader(io.TeeReader(fd, f.hash)), pathname, 0}

	if f.curr != nil {
		f.opens = append(f.opens, f.curr)
	}
	f.curr = o
	f.allfiles = append(f.allfiles, pathname)
	return true
}

func (f *Files) nextFile() bool {

	if f.curr != nil {
		dl.Debug("close %s", f.curr.file)
		f.curr.closer()
		f.curr = nil
	}

	if len(f.opens) != 0 {
		f.curr = f.opens[len(f.opens)-1]
		f.opens = f.opens[:len(f.opens)-1]
		return true
	}

	if len(f.files) != 0 {
		file := f.files[0]
		f.files = f.files[1:]

		dl.Debug("open file %s", file)
		if f.openFile(file) {
			return true
		}
		return f.nextFile()
	}

	return false
}

// NextLine returns the next raw line. `#include' lines are followed.
func (f *Files) NextLine() (string, bool) {

	for {
		if f.curr == nil {
			return "", false
		}

		b, err := f.curr.bfd.ReadString('\n')
		if err != nil && b == "" {
			if !f.nextFile() {
				return "", false
			}
			continue
		}
		f.curr.line++

		l := strings.TrimRight(b, "\r\n")

		if file, ok := includeFileName(l); ok {
			f.include(file)
			continue
		}
		return l, true
	}
}

// Close releases anything still open
func (f *Files) Close() {

	for f.curr != nil {
		f.curr.closer()
		f.curr = nil
		if len(f.opens) != 0 {
			f.curr = f.opens[len(f.opens)-1]
			f.opens = f.opens[:len(f.opens)-1]
		}
	}
	f.files = nil
}

func (f *Files) include(file string) {

	if file == "" {
		conserver.ConfigError(f.CurrFile(), f.CurrLine(), "invalid include")
		return
	}
	if len(f.opens) > MAXINCLUDE {
		conserver.ConfigError(f.CurrFile(), f.CurrLine(), "includes nested too deeply")
		return
	}

	// relative to the main config
	if !filepath.IsAbs(file) && f.basedir != "" {
		file = filepath.Join(f.basedir, file)
	}
	f.openFile(file)
}

const MAXINCLUDE = 10

// includeFileName recognizes `#include file' and `#include "file"'
func includeFileName(l string) (string, bool) {

	l = strings.TrimSpace(l)
	if !strings.HasPrefix(l, "#include") {
		return "", false
	}
	rest := l[len("#include"):]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return "", false
	}

	rest = strings.TrimSpace(rest)
	if len(rest) >= 2 && rest[0] == '"' {
		if e := strings.IndexByte(rest[1:], '"'); e != -1 {
			return rest[1 : e+1], true
		}
		return "", true
	}
	return rest, true
}

func filesInDir(dir string) []string {

	d, err := os.Open(dir)
	if err != nil {
		conserver.Loggit(conserver.TagError, "cannot open config dir '%s': %v", dir, err)
		return nil
	}

	all, _ := d.Readdirnames(-1)
	d.Close()

	var use []string

	for _, n := range all {
		// skip version control and backup files
		if n == "" || n[0] == '.' || n[0] == '#' || n == "CVS" {
			continue
		}
		if strings.HasSuffix(n, ".bkp") || strings.HasSuffix(n, "~") {
			continue
		}
		use = append(use, filepath.Join(dir, n))
	}

	sort.Strings(use)
	return use
}

func openOrPopen(pathname string) (io.Reader, func(), error) {

	st, err := os.Stat(pathname)

	if err == nil && st.Mode().IsRegular() && st.Mode()&0111 != 0 {
		return popen(pathname)
	}

	fd, err := os.Open(pathname)
	if err != nil {
		return nil, nil, err
	}
	return fd, func() { fd.Close() }, nil
}

func popen(pathname string) (io.Reader, func(), error) {

	cmd := exec.Command(pathname)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, err
	}
	return stdout, func() { cmd.Wait() }, nil
}
