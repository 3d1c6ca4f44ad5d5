// Package testutil provides host fakes shared by package tests.
package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/fullstacktard/claude-clipboard/internal/hostbridge"
)

// Call records one host command issued through a FakeBridge.
type Call struct {
	Name string
	Args []string
}

// Line renders the call as a single command line.
func (c Call) Line() string {
	return hostbridge.CommandLine(c.Name, c.Args...)
}

// Handler produces the outcome of a matched call.
type Handler func(call Call) (hostbridge.Result, error)

type rule struct {
	match   string
	handler Handler
}

// FakeBridge is a recording hostbridge.Bridge driven by rules keyed on a
// command-line substring. The most recently registered matching rule wins, so
// tests can override defaults. Unmatched calls exit with status 1.
type FakeBridge struct {
	mu    sync.Mutex
	rules []rule
	calls []Call
}

// NewFakeBridge returns a FakeBridge with no rules.
func NewFakeBridge() *FakeBridge {
	return &FakeBridge{}
}

// On registers handler for calls whose command line contains match.
// match is the substring to look for; handler computes the result.
func (f *FakeBridge) On(match string, handler Handler) *FakeBridge {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, rule{match: match, handler: handler})
	return f
}

// OnStdout answers matching calls with stdout and exit status 0.
func (f *FakeBridge) OnStdout(match string, stdout string) *FakeBridge {
	return f.On(match, func(Call) (hostbridge.Result, error) {
		return hostbridge.Result{Stdout: stdout}, nil
	})
}

// OnExit answers matching calls with a non-zero exit status and stderr.
func (f *FakeBridge) OnExit(match string, exitCode int, stderr string) *FakeBridge {
	return f.On(match, func(Call) (hostbridge.Result, error) {
		return hostbridge.Result{Stderr: stderr, ExitCode: exitCode}, nil
	})
}

// OnError answers matching calls with a bridge error, as if the command could not start.
func (f *FakeBridge) OnError(match string, err error) *FakeBridge {
	return f.On(match, func(Call) (hostbridge.Result, error) {
		return hostbridge.Result{ExitCode: -1}, err
	})
}

// OnSequence answers successive matching calls with results in order; the last result repeats.
func (f *FakeBridge) OnSequence(match string, results ...hostbridge.Result) *FakeBridge {
	var mu sync.Mutex
	next := 0
	return f.On(match, func(Call) (hostbridge.Result, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(results) == 0 {
			return hostbridge.Result{}, nil
		}
		res := results[next]
		if next < len(results)-1 {
			next++
		}
		return res, nil
	})
}

// Run records the call and dispatches it to the most recent matching rule.
func (f *FakeBridge) Run(ctx context.Context, name string, args ...string) (hostbridge.Result, error) {
	call := Call{Name: name, Args: append([]string(nil), args...)}
	line := call.Line()

	f.mu.Lock()
	f.calls = append(f.calls, call)
	var handler Handler
	for i := len(f.rules) - 1; i >= 0; i-- {
		if strings.Contains(line, f.rules[i].match) {
			handler = f.rules[i].handler
			break
		}
	}
	f.mu.Unlock()

	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return hostbridge.Result{ExitCode: -1}, err
		}
	}
	if handler == nil {
		return hostbridge.Result{ExitCode: 1, Stderr: "unexpected command: " + line}, nil
	}
	return handler(call)
}

// Calls returns a copy of every recorded call in order.
func (f *FakeBridge) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsMatching returns the recorded calls whose command line contains match.
func (f *FakeBridge) CallsMatching(match string) []Call {
	var out []Call
	for _, call := range f.Calls() {
		if strings.Contains(call.Line(), match) {
			out = append(out, call)
		}
	}
	return out
}

// CountMatching returns how many recorded calls contain match.
func (f *FakeBridge) CountMatching(match string) int {
	return len(f.CallsMatching(match))
}
