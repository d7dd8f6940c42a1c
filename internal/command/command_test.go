package command

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRunner struct {
	mu    sync.Mutex
	calls [][]string
	err   error
}

func (r *recordingRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, append([]string{name}, args...))
	return []byte("out"), r.err
}

func TestAsync_Go(t *testing.T) {
	runner := &recordingRunner{err: errors.New("exit status 1")}
	a := NewAsync(runner, 0)

	var gotOut []byte
	var gotErr error
	a.Go("redshift", []string{"-x"}, func(out []byte, err error) {
		gotOut, gotErr = out, err
	})
	a.Wait()

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"redshift", "-x"}, runner.calls[0])
	assert.Equal(t, "out", string(gotOut))
	assert.EqualError(t, gotErr, "exit status 1")
}

func TestAsync_NilDone(t *testing.T) {
	runner := &recordingRunner{}
	a := NewAsync(runner, 0)

	a.Go("true", nil, nil)
	a.Go("true", nil, nil)
	a.Wait()

	assert.Len(t, runner.calls, 2)
}
