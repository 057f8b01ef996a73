// Package proctest provides a recording proc.Host for tests.
package proctest

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync"

	"github.com/0Bleak/crun/proc"
)

// Handler decides the exit code of a command run through Host.
type Handler func(c *proc.Command) int

// Host is a fake proc.Host.  Tools lists executables that LookPath finds;
// Handler, if set, is consulted for every Run and Exec.
type Host struct {
	mu sync.Mutex

	Tools   map[string]bool
	Handler Handler

	Runs  []*proc.Command
	Execs []*proc.Command
}

// NewHost creates a fake host on which the given tools are installed.
func NewHost(tools ...string) *Host {
	h := &Host{Tools: make(map[string]bool)}
	for _, t := range tools {
		h.Tools[t] = true
	}

	return h
}

// Install marks a tool as present.
func (h *Host) Install(tool string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.Tools[tool] = true
}

func (h *Host) LookPath(name string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.Tools[name] {
		return "/usr/bin/" + name, nil
	}

	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

func (h *Host) Run(ctx context.Context, c *proc.Command) proc.Result {
	h.mu.Lock()
	h.Runs = append(h.Runs, c)
	h.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return proc.Complete(c, -1, err)
	}

	return h.handle(c)
}

func (h *Host) Exec(c *proc.Command) proc.Result {
	h.mu.Lock()
	h.Execs = append(h.Execs, c)
	h.mu.Unlock()

	return h.handle(c)
}

func (h *Host) handle(c *proc.Command) proc.Result {
	if h.Handler == nil {
		return proc.Complete(c, 0, nil)
	}

	code := h.Handler(c)
	if code < 0 {
		return proc.Complete(c, -1, errors.New("failed to start "+c.Name))
	}

	return proc.Complete(c, code, nil)
}

// RunsOf returns the recorded runs of the named command.
func (h *Host) RunsOf(name string) []*proc.Command {
	h.mu.Lock()
	defer h.mu.Unlock()

	var cmds []*proc.Command
	for _, c := range h.Runs {
		if c.Name == name {
			cmds = append(cmds, c)
		}
	}

	return cmds
}

// CommandLines returns every recorded run as a space-joined string.
func (h *Host) CommandLines() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	lines := make([]string, 0, len(h.Runs))
	for _, c := range h.Runs {
		lines = append(lines, strings.Join(c.Argv(), " "))
	}

	return lines
}
