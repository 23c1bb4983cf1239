// Package view keeps everything derived from the client collection in step
// with the store: the sidebar, the overdue badge, the mutation journal, the
// metrics textfile and the post-mutation hook.
package view

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/clientdesk/internal/clients"
	"github.com/nibzard/clientdesk/internal/hooks"
	"github.com/nibzard/clientdesk/internal/logging"
	"github.com/nibzard/clientdesk/internal/metrics"
	"github.com/nibzard/clientdesk/internal/query"
)

// Messages shown for empty lists.
const (
	NoClients = "No clients registered."
	NoTasks   = "No tasks for this client."
)

// SidebarItem is one client line in the sidebar.
type SidebarItem struct {
	Code    string
	Name    string
	Tasks   int
	Overdue int
}

// State is what every view renders from.
type State struct {
	Today   string
	Overdue int
	Sidebar []SidebarItem
	Clients []clients.Client
	// Mutation is the change that produced the state. Op is empty for the
	// initial snapshot.
	Mutation clients.Mutation
}

// Badge formats the overdue count for display.
func (s State) Badge() string {
	return FormatBadge(s.Overdue)
}

// FormatBadge formats an overdue count.
func FormatBadge(n int) string {
	if n == 1 {
		return "1 overdue task"
	}
	return fmt.Sprintf("%d overdue tasks", n)
}

// Refresher receives a fresh State after every committed mutation.
type Refresher interface {
	Refresh(State)
}

// RefreshFunc adapts a function to Refresher.
type RefreshFunc func(State)

// Refresh calls f.
func (f RefreshFunc) Refresh(s State) { f(s) }

// Options configures a Coordinator. Journal, Metrics and Hook.Command are
// each optional.
type Options struct {
	Today       func() string
	Now         func() time.Time
	Logger      *log.Logger
	Journal     *logging.Journal
	Metrics     *metrics.Exporter
	MetricsFile string
	Hook        hooks.Options
}

// Coordinator subscribes to a store and fans each mutation out to the
// registered refreshers and the side outputs, in that order. Side output
// failures are logged and never undo the mutation.
type Coordinator struct {
	ctx         context.Context
	store       *clients.Store
	today       func() string
	now         func() time.Time
	logger      *log.Logger
	journal     *logging.Journal
	metrics     *metrics.Exporter
	metricsFile string
	hook        hooks.Options

	mu         sync.Mutex
	refreshers []Refresher
	unsub      func()
}

// New subscribes a coordinator to store. ctx bounds hook invocations.
func New(ctx context.Context, store *clients.Store, opts Options) *Coordinator {
	c := &Coordinator{
		ctx:         ctx,
		store:       store,
		today:       opts.Today,
		now:         opts.Now,
		logger:      opts.Logger,
		journal:     opts.Journal,
		metrics:     opts.Metrics,
		metricsFile: opts.MetricsFile,
		hook:        opts.Hook,
	}
	if c.today == nil {
		c.today = func() string { return clients.Today(time.Now()) }
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	c.unsub = store.Subscribe(c.onMutation)
	return c
}

// Register adds r to the refreshers called after every mutation.
func (c *Coordinator) Register(r Refresher) {
	c.mu.Lock()
	c.refreshers = append(c.refreshers, r)
	c.mu.Unlock()
}

// Close stops listening to the store.
func (c *Coordinator) Close() {
	c.mu.Lock()
	unsub := c.unsub
	c.unsub = nil
	c.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// Snapshot builds the state of the store as it is now.
func (c *Coordinator) Snapshot() State {
	return Build(c.store.All(), c.today())
}

// Build derives a State from list as of today.
func Build(list []clients.Client, today string) State {
	q := query.New(list)
	items := make([]SidebarItem, 0, len(list))
	for _, cl := range list {
		item := SidebarItem{Code: cl.Code, Name: cl.ClientName, Tasks: len(cl.Tasks)}
		for _, t := range cl.Tasks {
			if t.IsOverdue(today) {
				item.Overdue++
			}
		}
		items = append(items, item)
	}
	return State{
		Today:   today,
		Overdue: q.CountOverdue(today),
		Sidebar: items,
		Clients: list,
	}
}

func (c *Coordinator) onMutation(m clients.Mutation) {
	state := Build(m.Clients, c.today())
	state.Mutation = m

	c.mu.Lock()
	refreshers := append([]Refresher(nil), c.refreshers...)
	c.mu.Unlock()
	for _, r := range refreshers {
		r.Refresh(state)
	}

	c.record(state)
	c.export(state)
	c.runHook(state)
}

func (c *Coordinator) record(s State) {
	if c.journal == nil {
		return
	}
	entry := logging.Entry{
		Op:      string(s.Mutation.Op),
		Code:    s.Mutation.Code,
		Clients: len(s.Clients),
		Tasks:   totalTasks(s.Sidebar),
		Overdue: s.Overdue,
		Today:   s.Today,
	}
	if s.Mutation.Index >= 0 {
		idx := s.Mutation.Index
		entry.Index = &idx
	}
	if _, err := c.journal.Record(entry); err != nil {
		c.logger.Warn("journal write failed", "op", s.Mutation.Op, "err", err)
	}
}

func (c *Coordinator) export(s State) {
	if c.metrics == nil {
		return
	}
	c.metrics.Observe(s.Clients, s.Today)
	c.metrics.RecordMutation(string(s.Mutation.Op), float64(c.now().Unix()))
	if c.metricsFile == "" {
		return
	}
	if err := c.metrics.WriteTextfile(c.metricsFile); err != nil {
		c.logger.Warn("metrics export failed", "path", c.metricsFile, "err", err)
	}
}

func (c *Coordinator) runHook(s State) {
	if c.hook.Command == "" {
		return
	}
	opts := c.hook
	opts.Op = string(s.Mutation.Op)
	opts.Code = s.Mutation.Code
	opts.Index = s.Mutation.Index
	opts.Overdue = s.Overdue
	res, err := hooks.Invoke(c.ctx, opts)
	if err != nil {
		c.logger.Warn("hook failed", "op", opts.Op, "code", opts.Code, "exit", res.ExitCode, "err", err)
		return
	}
	c.logger.Debug("hook ran", "op", opts.Op, "code", opts.Code, "overdue", opts.Overdue)
}

func totalTasks(items []SidebarItem) int {
	n := 0
	for _, it := range items {
		n += it.Tasks
	}
	return n
}
