package build

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0Bleak/crun/config"
	"github.com/0Bleak/crun/proc"
	"github.com/0Bleak/crun/proc/proctest"
	"github.com/0Bleak/crun/toolchain"
)

func TestFindBuildFile(t *testing.T) {
	for _, name := range []string{"Makefile", "makefile"} {
		dir := t.TempDir()
		_, ok := FindBuildFile(dir)
		assert.False(t, ok)

		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("all:\n"), 0o644))
		path, ok := FindBuildFile(dir)
		require.True(t, ok, name)
		assert.Equal(t, name, filepath.Base(path))
	}

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Makefile"), 0o755))
	_, ok := FindBuildFile(dir)
	assert.False(t, ok)
}

func newTestDispatcher(host proc.Host, cfg config.Config) (*Dispatcher, *bytes.Buffer) {
	var stderr bytes.Buffer
	d := NewDispatcher(host, cfg, "/work")
	d.Stdout = io.Discard
	d.Stderr = &stderr
	d.Jobs = 4
	return d, &stderr
}

func TestMake(t *testing.T) {
	host := proctest.NewHost("make")
	host.Handler = func(c *proc.Command) int {
		if c.Name == "./prog" {
			return 42
		}
		return 0
	}

	cfg := config.Default()
	cfg.Debug = true
	cfg.Sanitize = true
	d, _ := newTestDispatcher(host, cfg)

	code, err := d.Make(context.Background(), toolchain.NewTarget("prog.c", "/tmp/crun"), []string{"--flag", "x"})
	require.NoError(t, err)
	assert.Equal(t, 42, code)

	require.Len(t, host.Runs, 1)
	makeCmd := host.Runs[0]
	assert.Equal(t, []string{"make", "-j4"}, makeCmd.Argv())
	assert.Equal(t, "/work", makeCmd.Dir)
	assert.Equal(t, io.Discard, makeCmd.Stdout)
	assert.Equal(t, io.Discard, makeCmd.Stderr)

	require.Len(t, host.Execs, 1)
	assert.Equal(t, []string{"./prog", "--flag", "x"}, host.Execs[0].Argv())
	assert.Equal(t, "/work", host.Execs[0].Dir)
}

func TestMakeFailure(t *testing.T) {
	host := proctest.NewHost("make")
	host.Handler = func(*proc.Command) int { return 2 }
	d, _ := newTestDispatcher(host, config.Default())

	code, err := d.Make(context.Background(), toolchain.NewTarget("prog.c", "/tmp/crun"), nil)
	assert.True(t, errors.Is(err, ErrBuildFailed))
	assert.NotZero(t, code)
	assert.Empty(t, host.Execs)
}

func TestMakeMissing(t *testing.T) {
	host := proctest.NewHost()
	d, _ := newTestDispatcher(host, config.Default())

	_, err := d.Make(context.Background(), toolchain.NewTarget("prog.c", "/tmp/crun"), nil)
	assert.ErrorContains(t, err, "make is not installed")
	assert.Empty(t, host.Runs)
}

func TestCompileCommand(t *testing.T) {
	sel := &toolchain.Selection{Compiler: "g++", Language: toolchain.LangCXX}
	target := toolchain.NewTarget("prog.cpp", "/tmp/crun")

	cmd := CompileCommand(sel, []string{"-O2", "-Wall"}, "prog.cpp", target)
	assert.Equal(t, []string{"g++", "-O2", "-Wall", "prog.cpp", "-o", filepath.Join("/tmp/crun", "prog")}, cmd.Argv())
}

// warningHost simulates a compiler writing a warning and an error
func warningHost(code int) *proctest.Host {
	host := proctest.NewHost("gcc")
	host.Handler = func(c *proc.Command) int {
		io.WriteString(c.Stderr, "prog.c:1: warning: something\nprog.c:2: error: other\n")
		return code
	}

	return host
}

func TestCompileFiltersWarnings(t *testing.T) {
	d, stderr := newTestDispatcher(warningHost(0), config.Default())
	sel := &toolchain.Selection{Compiler: "gcc"}

	require.NoError(t, d.Compile(context.Background(), sel, nil, "prog.c", toolchain.NewTarget("prog.c", "/tmp/crun")))
	assert.Equal(t, "prog.c:2: error: other\n", stderr.String())
}

func TestCompileVerbosePassesWarnings(t *testing.T) {
	cfg := config.Default()
	cfg.Verbose = true
	d, stderr := newTestDispatcher(warningHost(0), cfg)
	sel := &toolchain.Selection{Compiler: "gcc"}

	require.NoError(t, d.Compile(context.Background(), sel, nil, "prog.c", toolchain.NewTarget("prog.c", "/tmp/crun")))
	assert.Equal(t, "prog.c:1: warning: something\nprog.c:2: error: other\n", stderr.String())
}

func TestCompileFailure(t *testing.T) {
	d, _ := newTestDispatcher(warningHost(1), config.Default())
	sel := &toolchain.Selection{Compiler: "gcc"}

	err := d.Compile(context.Background(), sel, nil, "prog.c", toolchain.NewTarget("prog.c", "/tmp/crun"))
	assert.True(t, errors.Is(err, ErrCompilationFailed))
	assert.EqualError(t, err, "compilation failed")
}
