// Package activator drives the external redshift command.
package activator

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/mrlokans/redshift-manager/internal/command"
)

const DefaultBinary = "redshift"

// ErrCommandFailed is reported when the redshift process did not succeed.
var ErrCommandFailed = errors.New("external command failed")

// Activator sets or clears the display color adjustment. Calls return
// immediately; failures are logged.
type Activator interface {
	Activate(temp int, brightness float64)
	Deactivate()
}

// Redshift invokes "redshift -P -O <temp> -b <fraction>" and "redshift -x".
type Redshift struct {
	binary string
	async  *command.Async

	// OnError, when set, receives every failure after it was logged.
	OnError func(error)
}

func NewRedshift(binary string, async *command.Async) *Redshift {
	if binary == "" {
		binary = DefaultBinary
	}
	if async == nil {
		async = command.NewAsync(nil, 0)
	}
	return &Redshift{binary: binary, async: async}
}

// ActivateArgs returns the command line arguments for a one-shot adjustment.
func ActivateArgs(temp int, brightness float64) []string {
	return []string{"-P", "-O", strconv.Itoa(temp), "-b", strconv.FormatFloat(brightness, 'f', -1, 64)}
}

func (r *Redshift) Activate(temp int, brightness float64) {
	r.run(ActivateArgs(temp, brightness))
}

func (r *Redshift) Deactivate() {
	r.run([]string{"-x"})
}

// Wait blocks until every started invocation finished.
func (r *Redshift) Wait() {
	r.async.Wait()
}

func (r *Redshift) run(args []string) {
	r.async.Go(r.binary, args, func(out []byte, err error) {
		if err == nil {
			return
		}
		err = fmt.Errorf("%w: %s %s: %v: %s", ErrCommandFailed, r.binary, strings.Join(args, " "), err, strings.TrimSpace(string(out)))
		log.Printf("Activator: %v", err)
		if r.OnError != nil {
			r.OnError(err)
		}
	})
}
