// Package command runs external programs without blocking the caller.
package command

import (
	"context"
	"os/exec"
	"sync"
	"time"
)

// DefaultTimeout bounds every external invocation.
const DefaultTimeout = 10 * time.Second

// Runner executes a program and returns its combined output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs real processes.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Async runs commands on their own goroutines. Wait blocks until all
// started commands finished.
type Async struct {
	runner  Runner
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewAsync(runner Runner, timeout time.Duration) *Async {
	if runner == nil {
		runner = ExecRunner{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Async{runner: runner, timeout: timeout}
}

// Go starts name with args and calls done with the result, on the command's goroutine.
func (a *Async) Go(name string, args []string, done func(output []byte, err error)) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()
		out, err := a.runner.Run(ctx, name, args...)
		if done != nil {
			done(out, err)
		}
	}()
}

func (a *Async) Wait() {
	a.wg.Wait()
}
