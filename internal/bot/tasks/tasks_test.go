package tasks_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/edgard/capbot/internal/bot/tasks"
	"github.com/edgard/capbot/internal/database"
	"github.com/edgard/capbot/internal/metrics"
)

func newDeps(t *testing.T) tasks.TaskDeps {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := database.OpenSQLite(":memory:", nil)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	store := database.NewSQLStore(db, logger)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return tasks.TaskDeps{Logger: logger, Store: store, Metrics: metrics.New()}
}

func TestRegisterAllTasks(t *testing.T) {
	t.Parallel()
	registered := tasks.RegisterAllTasks(newDeps(t))
	for _, name := range []string{tasks.DBMaintenance, tasks.RegistryStats} {
		if registered[name] == nil {
			t.Errorf("task %q not registered", name)
		}
	}
}

func TestDBMaintenanceTask(t *testing.T) {
	t.Parallel()
	task := tasks.RegisterAllTasks(newDeps(t))[tasks.DBMaintenance]
	if err := task(context.Background()); err != nil {
		t.Fatalf("db_maintenance error = %v", err)
	}
}

func TestRegistryStatsTask(t *testing.T) {
	t.Parallel()
	deps := newDeps(t)
	ctx := context.Background()
	for _, id := range []int64{1, 2} {
		if _, err := deps.Store.AddUser(ctx, id); err != nil {
			t.Fatalf("AddUser() error = %v", err)
		}
	}

	if err := tasks.RegisterAllTasks(deps)[tasks.RegistryStats](ctx); err != nil {
		t.Fatalf("registry_stats error = %v", err)
	}

	families, err := deps.Metrics.Registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, f := range families {
		if f.GetName() == "capbot_registered_users" {
			if got := f.GetMetric()[0].GetGauge().GetValue(); got != 2 {
				t.Errorf("registered users gauge = %v, want 2", got)
			}
			return
		}
	}
	t.Error("capbot_registered_users not gathered")
}

func TestRegistryStatsTaskCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := tasks.RegisterAllTasks(newDeps(t))[tasks.RegistryStats](ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
