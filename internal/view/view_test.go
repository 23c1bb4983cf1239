package view

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nibzard/clientdesk/internal/clients"
	"github.com/nibzard/clientdesk/internal/hooks"
	"github.com/nibzard/clientdesk/internal/logging"
	"github.com/nibzard/clientdesk/internal/metrics"
	"github.com/nibzard/clientdesk/internal/storage"
)

const today = "2024-06-01"

func newStore(t *testing.T) *clients.Store {
	t.Helper()
	gw := storage.NewGateway(storage.NewMemory(), nil)
	store, err := clients.NewStore(context.Background(), gw)
	require.NoError(t, err)
	return store
}

func fixedToday() string { return today }

func TestRefreshersSeeEveryMutation(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	coord := New(ctx, store, Options{Today: fixedToday})
	defer coord.Close()

	var states []State
	coord.Register(RefreshFunc(func(s State) { states = append(states, s) }))

	_, err := store.Add(ctx, clients.ClientInput{Code: "C1", ClientName: "Acme"})
	require.NoError(t, err)
	sel := clients.Select("C1")
	require.NoError(t, store.AppendTask(ctx, sel, clients.Task{Title: "late", DueDate: "2024-05-01", Status: clients.StatusPending}))
	require.NoError(t, store.AppendTask(ctx, sel, clients.Task{Title: "today", DueDate: today, Status: clients.StatusPending}))

	require.Len(t, states, 3)
	require.Equal(t, clients.OpClientAdd, states[0].Mutation.Op)
	require.Equal(t, 0, states[0].Overdue)
	require.Equal(t, 1, states[2].Overdue)
	require.Equal(t, []SidebarItem{{Code: "C1", Name: "Acme", Tasks: 2, Overdue: 1}}, states[2].Sidebar)
	require.Equal(t, "1 overdue task", states[2].Badge())

	require.NoError(t, store.Remove(ctx, "C1"))
	require.Len(t, states, 4)
	require.Equal(t, 0, states[3].Overdue)
	require.Empty(t, states[3].Sidebar)
}

func TestFailedMutationDoesNotRefresh(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	coord := New(ctx, store, Options{Today: fixedToday})
	defer coord.Close()

	calls := 0
	coord.Register(RefreshFunc(func(State) { calls++ }))

	_, err := store.Add(ctx, clients.ClientInput{Code: "C1"})
	require.NoError(t, err)
	_, err = store.Add(ctx, clients.ClientInput{Code: "C1"})
	require.ErrorIs(t, err, clients.ErrDuplicateCode)
	require.Equal(t, 1, calls)
}

func TestCloseStopsRefresh(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	coord := New(ctx, store, Options{Today: fixedToday})

	calls := 0
	coord.Register(RefreshFunc(func(State) { calls++ }))
	coord.Close()
	coord.Close()

	_, err := store.Add(ctx, clients.ClientInput{Code: "C1"})
	require.NoError(t, err)
	require.Zero(t, calls)
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	_, err := store.Add(ctx, clients.ClientInput{Code: "C1", ClientName: "Acme"})
	require.NoError(t, err)
	require.NoError(t, store.AppendTask(ctx, clients.Select("C1"),
		clients.Task{Title: "late", DueDate: "2024-01-01", Status: clients.StatusInProgress}))

	coord := New(ctx, store, Options{Today: fixedToday})
	defer coord.Close()

	s := coord.Snapshot()
	require.Equal(t, today, s.Today)
	require.Equal(t, 1, s.Overdue)
	require.Empty(t, s.Mutation.Op)
	require.Equal(t, "0 overdue tasks", FormatBadge(0))
}

func TestSideOutputs(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	journal, err := logging.NewJournal(base, "/data")
	require.NoError(t, err)
	defer journal.Close()

	out := filepath.Join(t.TempDir(), "hook.out")
	script := filepath.Join(t.TempDir(), "hook.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho \"$@\" >> "+out+"\n"), 0o755))

	promFile := filepath.Join(t.TempDir(), "clientdesk.prom")
	store := newStore(t)
	coord := New(ctx, store, Options{
		Today:       fixedToday,
		Now:         func() time.Time { return time.Unix(1717200000, 0) },
		Journal:     journal,
		Metrics:     metrics.New(),
		MetricsFile: promFile,
		Hook:        hooks.Options{Command: script},
	})
	defer coord.Close()

	_, err = store.Add(ctx, clients.ClientInput{Code: "C1"})
	require.NoError(t, err)
	require.NoError(t, store.AppendTask(ctx, clients.Select("C1"),
		clients.Task{Title: "late", DueDate: "2024-05-01", Status: clients.StatusPending}))

	entries, err := logging.ReadEntries(journal.LogPath)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Nil(t, entries[0].Index)
	require.NotNil(t, entries[1].Index)
	require.Equal(t, 0, *entries[1].Index)
	require.Equal(t, 1, entries[1].Overdue)
	require.Equal(t, "task.append", entries[1].Op)

	prom, err := os.ReadFile(promFile)
	require.NoError(t, err)
	require.Contains(t, string(prom), "clientdesk_tasks_overdue 1")
	require.Contains(t, string(prom), `clientdesk_mutations_total{op="task.append"} 1`)

	hookOut, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(hookOut)), "\n")
	require.Equal(t, []string{"client.add C1  0", "task.append C1 0 1"}, lines)
}

func TestHookFailureKeepsMutation(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	coord := New(ctx, store, Options{
		Today: fixedToday,
		Hook:  hooks.Options{Command: filepath.Join(t.TempDir(), "missing-hook")},
	})
	defer coord.Close()

	_, err := store.Add(ctx, clients.ClientInput{Code: "C1"})
	require.NoError(t, err)
	_, ok := store.Find("C1")
	require.True(t, ok)
}
