package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0Bleak/crun/analysis"
	"github.com/0Bleak/crun/build"
	"github.com/0Bleak/crun/config"
	"github.com/0Bleak/crun/deps"
	"github.com/0Bleak/crun/proc"
	"github.com/0Bleak/crun/proc/proctest"
	"github.com/0Bleak/crun/runner"
	"github.com/0Bleak/crun/toolchain"
)

// fixture is a working directory with a source file and a fake host whose
// compilers write an executable to their `-o` path
type fixture struct {
	t       *testing.T
	workDir string
	outDir  string
	host    *proctest.Host
	driver  *Driver
	stdout  *bytes.Buffer

	// exitCode is returned by the compiled program
	exitCode int
	// compileCode is returned by the compiler
	compileCode int
}

func newFixture(t *testing.T, source string, tools ...string) *fixture {
	f := &fixture{
		t:       t,
		workDir: t.TempDir(),
		host:    proctest.NewHost(tools...),
		stdout:  &bytes.Buffer{},
	}
	f.outDir = filepath.Join(t.TempDir(), "out")

	if source != "" {
		require.NoError(t, os.WriteFile(filepath.Join(f.workDir, source), []byte("int main(void) { return 0; }\n"), 0o644))
	}

	f.host.Handler = f.handle
	f.driver = &Driver{
		Host:     f.host,
		WorkDir:  f.workDir,
		Stdin:    strings.NewReader(""),
		Stdout:   f.stdout,
		Stderr:   io.Discard,
		Artifact: runner.NewArtifact(),
	}

	return f
}

func (f *fixture) handle(c *proc.Command) int {
	switch c.Name {
	case "gcc", "clang", "g++", "clang++":
		if f.compileCode != 0 {
			return f.compileCode
		}

		out := c.Args[len(c.Args)-1]
		require.NoError(f.t, os.WriteFile(out, []byte("#!/bin/sh\n"), 0o755))
		return 0
	default:
		if filepath.Base(c.Name) == "program" {
			return f.exitCode
		}

		return 0
	}
}

func (f *fixture) run(args ...string) (int, error) {
	defaults := config.Default()
	defaults.OutputDir = f.outDir

	inv, err := ParseArgs(args, defaults)
	require.NoError(f.t, err)

	return f.driver.Run(context.Background(), inv)
}

func TestRunDirectCompilation(t *testing.T) {
	f := newFixture(t, "program.c", "gcc", "clang")
	f.exitCode = 7

	code, err := f.run("program.c", "arg1", "--arg2")
	require.NoError(t, err)
	assert.Equal(t, 7, code)

	binary := filepath.Join(f.outDir, "program")
	require.Len(t, f.host.Runs, 2)

	compile := f.host.Runs[0]
	assert.Equal(t, "gcc", compile.Name)
	assert.Equal(t, append(append([]string{"-O2"}, toolchain.BaselineFlags...), "program.c", "-o", binary), compile.Args)
	assert.Equal(t, f.workDir, compile.Dir)

	exec := f.host.Runs[1]
	assert.Equal(t, []string{binary, "arg1", "--arg2"}, exec.Argv())

	assert.Equal(t, binary, f.driver.Artifact.Path())
	assert.FileExists(t, binary)
	require.NoError(t, f.driver.Artifact.Release())
	assert.NoFileExists(t, binary)
}

func TestRunRelativeOutdir(t *testing.T) {
	for _, dir := range []string{".", "out"} {
		f := newFixture(t, "program.c", "gcc")
		f.exitCode = 7

		code, err := f.run("--outdir", dir, "program.c")
		require.NoError(t, err, dir)
		assert.Equal(t, 7, code, dir)

		binary := filepath.Join(f.workDir, dir, "program")
		require.Len(t, f.host.Runs, 2)
		assert.Equal(t, binary, f.host.Runs[0].Args[len(f.host.Runs[0].Args)-1])
		assert.Equal(t, binary, f.host.Runs[1].Name)
		assert.FileExists(t, binary)
		assert.Equal(t, binary, f.driver.Artifact.Path())
	}
}

func TestRunExitCodes(t *testing.T) {
	for _, want := range []int{0, 1, 42, 255} {
		f := newFixture(t, "program.c", "gcc")
		f.exitCode = want

		code, err := f.run("program.c")
		require.NoError(t, err)
		assert.Equal(t, want, code, strconv.Itoa(want))
	}
}

func TestRunKeep(t *testing.T) {
	f := newFixture(t, "program.c", "clang")

	_, err := f.run("--keep", "program.c")
	require.NoError(t, err)
	assert.Equal(t, "clang", f.host.Runs[0].Name)

	require.NoError(t, f.driver.Artifact.Release())
	finfo, err := os.Stat(filepath.Join(f.outDir, "program"))
	require.NoError(t, err)
	assert.NotZero(t, finfo.Mode()&0o111)
}

func TestRunSanitizeDebugCXX(t *testing.T) {
	f := newFixture(t, "program.cpp", "g++", "clang++")

	_, err := f.run("--sanitize", "--debug", "program.cpp")
	require.NoError(t, err)

	compile := f.host.Runs[0]
	assert.Equal(t, "g++", compile.Name)
	assert.Subset(t, compile.Args, toolchain.BaselineFlags)
	assert.Subset(t, compile.Args, []string{"-g", "-fsanitize=address", "-fsanitize=undefined"})
}

func TestRunMakefile(t *testing.T) {
	f := newFixture(t, "program.c", "gcc", "make")
	f.exitCode = 3
	require.NoError(t, os.WriteFile(filepath.Join(f.workDir, "Makefile"), []byte("all:\n"), 0o644))

	code, err := f.run("-d", "-s", "-O3", "program.c", "x")
	require.NoError(t, err)
	assert.Equal(t, 3, code)

	require.Len(t, f.host.Runs, 1)
	assert.Equal(t, "make", f.host.Runs[0].Name)
	assert.Len(t, f.host.Runs[0].Args, 1)
	assert.True(t, strings.HasPrefix(f.host.Runs[0].Args[0], "-j"))
	assert.Empty(t, f.host.RunsOf("gcc"))

	require.Len(t, f.host.Execs, 1)
	assert.Equal(t, []string{"./program", "x"}, f.host.Execs[0].Argv())
	assert.Empty(t, f.driver.Artifact.Path())
}

func TestRunCompilationFailure(t *testing.T) {
	f := newFixture(t, "program.c", "gcc")
	f.compileCode = 1

	_, err := f.run("program.c")
	assert.True(t, errors.Is(err, build.ErrCompilationFailed))
	assert.Len(t, f.host.Runs, 1)
	assert.NoFileExists(t, filepath.Join(f.outDir, "program"))
}

func TestRunUnsupportedExtension(t *testing.T) {
	f := newFixture(t, "program.py", "gcc", "g++", "clang", "clang++")

	_, err := f.run("program.py")

	var ue *toolchain.UnsupportedExtensionError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "py", ue.Extension)
	assert.Empty(t, f.host.Runs)
}

func TestRunMissingSource(t *testing.T) {
	f := newFixture(t, "", "gcc")

	_, err := f.run("missing.c")
	assert.EqualError(t, err, "source file not found: missing.c")
	assert.Empty(t, f.host.Runs)

	_, err = f.run()
	var ue *UsageError
	assert.True(t, errors.As(err, &ue))
}

func TestRunNoCompiler(t *testing.T) {
	f := newFixture(t, "program.c")

	_, err := f.run("program.c")
	var ne *toolchain.NoCompilerError
	assert.True(t, errors.As(err, &ne))
}

func TestRunInstallOnly(t *testing.T) {
	f := newFixture(t, "", deps.Dependencies...)

	code, err := f.run("--install")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Empty(t, f.host.Runs)
}

func TestRunInstallBeforeCompile(t *testing.T) {
	f := newFixture(t, "program.c", "apt-get", "gcc", "g++", "clang", "clang++", "clang-tidy", "make")

	_, err := f.run("--install", "program.c")
	require.NoError(t, err)

	lines := f.host.CommandLines()
	require.Len(t, lines, 3)
	assert.Equal(t, "apt-get install -y cppcheck", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "gcc "))
}

func TestRunInstallNoPackageManager(t *testing.T) {
	f := newFixture(t, "program.c", "gcc")

	_, err := f.run("--install", "program.c")
	var ne *deps.NoPackageManagerError
	require.True(t, errors.As(err, &ne))
	assert.Equal(t, "g++", ne.Tool)
	assert.Empty(t, f.host.Runs)
}

func TestRunLintIsAdvisory(t *testing.T) {
	f := newFixture(t, "program.c", "gcc", "clang-tidy", "cppcheck")
	f.host.Handler = func(c *proc.Command) int {
		if c.Name == "clang-tidy" || c.Name == "cppcheck" {
			return 1
		}
		return f.handle(c)
	}

	code, err := f.run("--lint", "program.c")
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	names := make([]string, 0, len(f.host.Runs))
	for _, c := range f.host.Runs {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"clang-tidy", "cppcheck", "gcc", filepath.Join(f.outDir, "program")}, names)
}

func TestRunLintMissingTool(t *testing.T) {
	f := newFixture(t, "program.c", "gcc", "cppcheck")

	_, err := f.run("--lint", "program.c")
	var me *analysis.MissingToolError
	require.True(t, errors.As(err, &me))
	assert.Empty(t, f.host.RunsOf("gcc"))
}
