// Package query derives task views from a client dataset.
//
// Every function is read-only and takes the reference date explicitly.
// Dates are compared as ISO YYYY-MM-DD strings.
package query

import (
	"github.com/nibzard/clientdesk/internal/clients"
)

// Row is a task tagged with its owning client.
type Row struct {
	Task       clients.Task
	ClientName string
	ClientCode string
	// Index is the task position in its client's list.
	Index int
}

// Overdue reports whether the row's task is overdue on today.
func (r Row) Overdue(today string) bool {
	return r.Task.IsOverdue(today)
}

// Engine runs queries over a snapshot of the dataset.
type Engine struct {
	clients []clients.Client
}

// New returns an engine over list. The slice is not copied; pass the result
// of Store.All.
func New(list []clients.Client) *Engine {
	return &Engine{clients: list}
}

// AllTasks flattens every task, in client order then task order.
func (e *Engine) AllTasks() []Row {
	return e.filter(func(clients.Task) bool { return true })
}

// ByDate returns tasks due exactly on date.
func (e *Engine) ByDate(date string) []Row {
	return e.filter(func(t clients.Task) bool { return t.DueDate == date })
}

// DueToday returns tasks due on today.
func (e *Engine) DueToday(today string) []Row {
	return e.ByDate(today)
}

// Overdue returns tasks due before today that are not completed.
func (e *Engine) Overdue(today string) []Row {
	return e.filter(func(t clients.Task) bool { return t.IsOverdue(today) })
}

// Future returns tasks due after today, whatever their status.
func (e *Engine) Future(today string) []Row {
	return e.filter(func(t clients.Task) bool { return t.DueDate > today })
}

// ByClient returns the tasks of the client with code, or nil when no such
// client exists.
func (e *Engine) ByClient(code string) []clients.Task {
	for _, c := range e.clients {
		if c.Code == code {
			out := make([]clients.Task, len(c.Tasks))
			copy(out, c.Tasks)
			return out
		}
	}
	return nil
}

// CountOverdue counts overdue tasks across every client.
func (e *Engine) CountOverdue(today string) int {
	n := 0
	for _, c := range e.clients {
		for _, t := range c.Tasks {
			if t.IsOverdue(today) {
				n++
			}
		}
	}
	return n
}

// StatusCounts tallies tasks by status.
func (e *Engine) StatusCounts() map[clients.Status]int {
	counts := make(map[clients.Status]int)
	for _, c := range e.clients {
		for _, t := range c.Tasks {
			counts[t.Status]++
		}
	}
	return counts
}

// Summary is the per-client card shown for a selection.
type Summary struct {
	Client  clients.Client
	Tasks   int
	Overdue int
	Plan    string
}

// NoPlan is shown when a client has no action plan.
const NoPlan = "No action plan defined."

// Summarize returns the summary card for code.
func (e *Engine) Summarize(code, today string) (Summary, bool) {
	for _, c := range e.clients {
		if c.Code != code {
			continue
		}
		s := Summary{Client: c, Tasks: len(c.Tasks), Plan: c.ActionPlan}
		if s.Plan == "" {
			s.Plan = NoPlan
		}
		for _, t := range c.Tasks {
			if t.IsOverdue(today) {
				s.Overdue++
			}
		}
		return s, true
	}
	return Summary{}, false
}

func (e *Engine) filter(keep func(clients.Task) bool) []Row {
	var rows []Row
	for _, c := range e.clients {
		for i, t := range c.Tasks {
			if keep(t) {
				rows = append(rows, Row{Task: t, ClientName: c.ClientName, ClientCode: c.Code, Index: i})
			}
		}
	}
	return rows
}
