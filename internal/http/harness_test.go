package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/redshift-manager/internal/agent"
	"github.com/mrlokans/redshift-manager/internal/audit"
	"github.com/mrlokans/redshift-manager/internal/configstore"
	"github.com/mrlokans/redshift-manager/internal/database"
	auditRepo "github.com/mrlokans/redshift-manager/internal/database/audit"
	"github.com/mrlokans/redshift-manager/internal/entities"
	"github.com/mrlokans/redshift-manager/internal/hotkeys"
	"github.com/mrlokans/redshift-manager/internal/notify"
	"github.com/mrlokans/redshift-manager/internal/settingsstore"
	"github.com/mrlokans/redshift-manager/internal/tasks"
)

type nopActivator struct{}

func (nopActivator) Activate(int, float64) {}
func (nopActivator) Deactivate()           {}

type nopNotifier struct{}

func (nopNotifier) Notify(string, notify.Urgency) {}

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

type apiEnv struct {
	router   *gin.Engine
	agent    *agent.Agent
	db       *database.Database
	settings *settingsstore.SettingsStore
	registry *hotkeys.MemoryRegistry
	dir      string
}

// setupAPI starts an agent over a temp directory and builds the full router.
func setupAPI(t *testing.T, seed func(cfg *entities.Configuration)) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("EXPORT_DIR", "")
	dir := t.TempDir()

	db, err := database.NewDatabase(filepath.Join(dir, "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clock := &fixedClock{now: time.Date(2026, 6, 1, 12, 0, 0, 0, time.Local)}
	settings := settingsstore.New(db)
	file := configstore.NewFileStore(filepath.Join(dir, "config", "config.json"))
	events := audit.NewService(auditRepo.NewRepository(db.DB))

	if seed != nil {
		cfg := entities.DefaultConfiguration()
		seed(&cfg)
		require.NoError(t, configstore.New(file, settings, configstore.Options{Now: clock.Now}).Save(cfg))
	}

	taskClient, err := tasks.NewClient(filepath.Join(dir, "api.db"), tasks.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = taskClient.Close() })

	registry := hotkeys.NewMemoryRegistry()
	a := agent.New(agent.Config{
		Store:     configstore.New(file, settings, configstore.Options{Now: clock.Now, Events: events}),
		Settings:  settings,
		Watcher:   file,
		Activator: nopActivator{},
		Notifier:  nopNotifier{},
		Registry:  registry,
		Events:    events,
		Now:       clock.Now,
	})
	require.NoError(t, a.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.Shutdown(ctx)
	})

	router := NewRouter(RouterConfig{
		Agent:              a,
		Registry:           registry,
		Database:           db,
		SettingsStore:      settings,
		AuditService:       events,
		TaskClient:         taskClient,
		AuditRetentionDays: 7,
		Version:            "test",
	})

	return &apiEnv{
		router:   router,
		agent:    a,
		db:       db,
		settings: settings,
		registry: registry,
		dir:      dir,
	}
}

func (e *apiEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
