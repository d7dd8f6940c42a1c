// Package notify shows desktop notifications through notify-send.
package notify

import (
	"log"

	"github.com/mrlokans/redshift-manager/internal/command"
)

const (
	DefaultBinary = "notify-send"
	AppName       = "Redshift Manager Applet"
)

type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyCritical Urgency = "critical"
)

// Notifier shows a user-visible message.
type Notifier interface {
	Notify(body string, urgency Urgency)
}

// Desktop sends notifications with notify-send and falls back to the log
// when the binary is not available.
type Desktop struct {
	binary string
	async  *command.Async
}

func NewDesktop(binary string, async *command.Async) *Desktop {
	if binary == "" {
		binary = DefaultBinary
	}
	if async == nil {
		async = command.NewAsync(nil, 0)
	}
	return &Desktop{binary: binary, async: async}
}

// Args returns the notify-send arguments for a message.
func Args(body string, urgency Urgency) []string {
	args := []string{AppName, body}
	if urgency == UrgencyCritical {
		args = append(args, "-u", string(urgency))
	}
	return args
}

func (d *Desktop) Notify(body string, urgency Urgency) {
	d.async.Go(d.binary, Args(body, urgency), func(_ []byte, err error) {
		if err != nil {
			log.Printf("Notify: %s unavailable (%v), message: %s", d.binary, err, body)
		}
	})
}

func (d *Desktop) Wait() {
	d.async.Wait()
}

// Log writes notifications to the process log only.
type Log struct{}

func (Log) Notify(body string, urgency Urgency) {
	log.Printf("Notify [%s]: %s", urgency, body)
}
