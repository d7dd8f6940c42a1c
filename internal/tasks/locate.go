package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/redshift-manager/internal/entities"
	"github.com/mrlokans/redshift-manager/internal/geolocation"
)

// LocationSink receives the outcome of a lookup. Implementations must not
// block; the agent posts the result onto its task queue.
type LocationSink interface {
	LocationFound(loc entities.Location)
	LocationFailed(err error)
}

// LocateQueue is the queue name of LocateTask.
const LocateQueue = "locate"

// LocateTask resolves the machine location once.
type LocateTask struct {
	Reason string `json:"reason"`
}

func (t LocateTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        LocateQueue,
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     30 * time.Second,
		Retention: &backlite.Retention{
			Duration: 24 * time.Hour,
			Data:     &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// LocateProcessor creates a processor function for LocateTask.
func LocateProcessor(locator geolocation.Locator, sink LocationSink) backlite.QueueProcessor[LocateTask] {
	return func(ctx context.Context, task LocateTask) error {
		if locator == nil || sink == nil {
			return errors.New("locate task not configured")
		}

		loc, err := locator.Lookup(ctx)
		if err != nil {
			sink.LocationFailed(err)
			return fmt.Errorf("locate (%s): %w", task.Reason, err)
		}

		log.Printf("Tasks: location detected (%s) lat=%v lon=%v", task.Reason, loc.Latitude, loc.Longitude)
		sink.LocationFound(loc)
		return nil
	}
}

// NewLocateQueue creates a backlite queue for location lookups.
func NewLocateQueue(locator geolocation.Locator, sink LocationSink) backlite.Queue {
	return backlite.NewQueue(LocateProcessor(locator, sink))
}
