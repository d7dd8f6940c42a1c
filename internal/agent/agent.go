// Package agent owns the runtime of the manager: a single task queue on which
// every configuration mutation runs, the periodic scheduler, hotkey
// registrations, change notifications from the config file and the settings
// backend, and the background location lookup.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/redshift-manager/internal/activator"
	"github.com/mrlokans/redshift-manager/internal/audit"
	"github.com/mrlokans/redshift-manager/internal/configstore"
	"github.com/mrlokans/redshift-manager/internal/controller"
	"github.com/mrlokans/redshift-manager/internal/entities"
	"github.com/mrlokans/redshift-manager/internal/geolocation"
	"github.com/mrlokans/redshift-manager/internal/hotkeys"
	"github.com/mrlokans/redshift-manager/internal/notify"
	"github.com/mrlokans/redshift-manager/internal/presets"
	"github.com/mrlokans/redshift-manager/internal/scheduler"
	"github.com/mrlokans/redshift-manager/internal/status"
)

const queueSize = 64

// SettingsBackend is the change-notifying side of the external settings store.
type SettingsBackend interface {
	Subscribe(key string, fn func(value string)) func()
	Poll() ([]string, error)
	GetExportDir() string
}

// FileWatcher delivers change notifications for the configuration file.
type FileWatcher interface {
	Watch(ctx context.Context, fn func()) error
}

// TaskQueue enqueues background tasks.
type TaskQueue interface {
	Add(tasks ...backlite.Task) *backlite.TaskAddOp
}

// Config holds the collaborators of the agent. Store, Activator and Registry
// are required; the rest is optional.
type Config struct {
	Store     *configstore.Store
	Settings  SettingsBackend
	Watcher   FileWatcher
	Activator activator.Activator
	Notifier  notify.Notifier
	Board     *status.Board
	Registry  hotkeys.Registry
	Tasks     TaskQueue
	Events    *audit.Service

	// Locator is used directly when no task queue is configured.
	Locator geolocation.Locator

	// Clock drives the preset debounce. Defaults to the wall clock with
	// timers delivered on the task queue.
	Clock presets.Clock
	Now   func() time.Time

	PollInterval       time.Duration
	CleanupSchedule    string
	AuditRetentionDays int
}

// Agent serializes all work on one goroutine. Exported methods are safe for
// concurrent use; they submit closures and wait for their result.
type Agent struct {
	cfg Config

	store      *configstore.Store
	presets    *presets.Manager
	controller *controller.Controller
	binder     *hotkeys.Binder
	scheduler  *scheduler.Scheduler
	notifier   notify.Notifier
	events     *audit.Service
	now        func() time.Time

	queue   chan func()
	done    chan struct{}
	stopped chan struct{}

	startOnce sync.Once
	stopOnce  sync.Once
	running   atomic.Bool
	ctx       context.Context
	cancel    context.CancelFunc

	unsubscribe func()
}

func New(cfg Config) *Agent {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = notify.Log{}
	}
	board := cfg.Board
	if board == nil {
		board = status.NewBoard()
	}

	a := &Agent{
		cfg:      cfg,
		store:    cfg.Store,
		notifier: notifier,
		events:   cfg.Events,
		now:      now,
		queue:    make(chan func(), queueSize),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	a.cfg.Board = board

	clock := cfg.Clock
	if clock == nil {
		clock = loopClock{agent: a}
	}

	a.controller = controller.New(cfg.Activator, board, now)
	a.presets = presets.NewManager(cfg.Store, display{agent: a}, clock, cfg.Events)
	a.presets.OnPresetsChanged(a.rebindPresets)
	a.binder = hotkeys.NewBinder(cfg.Registry, a.hotkeyActions())
	a.scheduler = scheduler.New(scheduler.Jobs{
		Tick:    func() { a.Post(a.tick) },
		Poll:    a.poll,
		Cleanup: a.cleanup,
	}, scheduler.Options{
		Interval:        time.Duration(entities.DefaultUpdateIntervalSeconds) * time.Second,
		PollInterval:    cfg.PollInterval,
		CleanupSchedule: cfg.CleanupSchedule,
	})
	return a
}

// Start loads the configuration and brings the agent up: hotkeys, scheduler,
// change notifications, the location lookup and the initial apply. Load
// errors are logged; the agent always starts with a usable configuration.
func (a *Agent) Start(ctx context.Context) error {
	var startErr error
	a.startOnce.Do(func() {
		ctx, a.cancel = context.WithCancel(ctx)
		a.ctx = ctx

		cfg, err := a.store.Load()
		if err != nil {
			log.Printf("Agent: configuration loaded with errors: %v", err)
		}
		a.scheduler.Reschedule(interval(cfg))

		a.running.Store(true)
		go a.run()

		if a.cfg.Settings != nil {
			// Delivered by poll on a scheduler goroutine, one change at a time,
			// so posting here keeps external changes in order.
			a.unsubscribe = a.cfg.Settings.Subscribe(entities.SettingKeyPresets, func(value string) {
				a.Post(func() { a.onBackendChange(value) })
			})
		}
		if a.cfg.Watcher != nil {
			if err := a.cfg.Watcher.Watch(ctx, func() { a.Post(a.onFileChange) }); err != nil {
				log.Printf("Agent: configuration file changes will not be picked up: %v", err)
			}
		}

		startErr = a.Do(ctx, func() error {
			a.binder.BindFixed(cfg.Hotkeys)
			a.binder.BindPresets(cfg.Presets)
			a.locateIfUnset("startup")
			if cfg.Enabled {
				log.Printf("Agent: restoring enabled state")
				a.tick()
			} else {
				a.controller.Refresh()
			}
			return nil
		})
		if startErr != nil {
			return
		}

		if err := a.scheduler.Start(ctx); err != nil {
			startErr = fmt.Errorf("start scheduler: %w", err)
		}
	})
	return startErr
}

func interval(cfg entities.Configuration) time.Duration {
	seconds := cfg.UpdateIntervalSeconds
	if seconds < 1 {
		seconds = entities.DefaultUpdateIntervalSeconds
	}
	return time.Duration(seconds) * time.Second
}

// Shutdown stops the scheduler, unregisters all hotkeys, deactivates the
// display and stops the task queue.
func (a *Agent) Shutdown(ctx context.Context) error {
	var err error
	a.stopOnce.Do(func() {
		if !a.running.Load() {
			close(a.done)
			return
		}
		a.scheduler.Stop()

		err = a.Do(ctx, func() error {
			if a.unsubscribe != nil {
				a.unsubscribe()
			}
			a.binder.UnbindAll()
			a.controller.Reset()
			return nil
		})

		if a.cancel != nil {
			a.cancel()
		}
		close(a.done)
		select {
		case <-a.stopped:
		case <-ctx.Done():
			err = errors.Join(err, ctx.Err())
		}
		log.Printf("Agent: stopped")
	})
	return err
}

func (a *Agent) run() {
	defer close(a.stopped)
	for {
		select {
		case fn := <-a.queue:
			fn()
		case <-a.done:
			return
		}
	}
}

// Post submits fn to the task queue without waiting. It reports false when
// the agent has stopped.
func (a *Agent) Post(fn func()) bool {
	select {
	case <-a.done:
		return false
	default:
	}
	select {
	case a.queue <- fn:
		return true
	case <-a.done:
		return false
	}
}

// Do runs fn on the task queue and waits for its result.
func (a *Agent) Do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	if !a.Post(func() { result <- fn() }) {
		return ErrStopped
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-a.stopped:
		return ErrStopped
	}
}

// call runs fn on the task queue and returns its value.
func call[T any](ctx context.Context, a *Agent, fn func() (T, error)) (T, error) {
	var out T
	err := a.Do(ctx, func() error {
		var err error
		out, err = fn()
		return err
	})
	return out, err
}

// loopClock delivers debounce timers on the task queue.
type loopClock struct {
	agent *Agent
}

func (c loopClock) Now() time.Time { return c.agent.now() }

func (c loopClock) AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, func() { c.agent.Post(fn) })
}

// display routes preset applies to the controller.
type display struct {
	agent *Agent
}

func (d display) SetCurrent(temp, brightness int) {
	d.agent.controller.SetCurrent(temp, brightness)
}

func (d display) Redisplay(cfg entities.Configuration) {
	d.agent.apply(cfg)
}
