package clients

import (
	"encoding/json"
	"strings"
	"time"
)

// DateLayout is the layout of every stored date.
const DateLayout = "2006-01-02"

// Status is a task status. The set is open; only StatusCompleted changes
// derived behavior.
type Status string

const (
	StatusPending    Status = "Pendente"
	StatusInProgress Status = "Em Andamento"
	StatusCompleted  Status = "Concluída"
)

// ParseStatus maps English aliases to the stored literals. Anything else is
// kept verbatim.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pending", "pendente":
		return StatusPending
	case "in-progress", "in_progress", "inprogress", "doing", "em andamento":
		return StatusInProgress
	case "completed", "done", "concluída", "concluida":
		return StatusCompleted
	}
	return Status(strings.TrimSpace(s))
}

// Task is a to-do item owned by exactly one client.
type Task struct {
	CreatedDate string `json:"criacao"`
	DueDate     string `json:"limite"`
	Title       string `json:"titulo"`
	Description string `json:"descricao"`
	Status      Status `json:"status"`
}

// IsOverdue reports whether the task is due strictly before today and not
// completed. It is never stored.
func (t Task) IsOverdue(today string) bool {
	return t.DueDate < today && t.Status != StatusCompleted
}

// StatusClass returns the display class for a task: "atrasada" when
// overdue, otherwise the lower-cased status with spaces replaced by dashes.
func (t Task) StatusClass(today string) string {
	if t.IsOverdue(today) {
		return "atrasada"
	}
	return strings.ReplaceAll(strings.ToLower(string(t.Status)), " ", "-")
}

// Client is a customer record with an owned task list.
type Client struct {
	StartDate   string `json:"data-inicio"`
	Code        string `json:"codigo"`
	ClientName  string `json:"nome-cliente"`
	ContactName string `json:"nome-contato"`
	Email       string `json:"email"`
	Phone       string `json:"telefone-01"`
	ActionPlan  string `json:"plano-acao"`
	Tasks       []Task `json:"tarefas"`
}

// MarshalJSON always writes tarefas as an array.
func (c Client) MarshalJSON() ([]byte, error) {
	type plain Client
	p := plain(c)
	if p.Tasks == nil {
		p.Tasks = []Task{}
	}
	return json.Marshal(p)
}

// clone returns a copy that shares no task storage with c.
func (c Client) clone() Client {
	out := c
	out.Tasks = make([]Task, len(c.Tasks))
	copy(out.Tasks, c.Tasks)
	return out
}

// CloneAll deep-copies a client slice.
func CloneAll(in []Client) []Client {
	out := make([]Client, len(in))
	for i := range in {
		out[i] = in[i].clone()
	}
	return out
}

// ClientInput carries the fields of a new client.
type ClientInput struct {
	StartDate   string
	Code        string
	ClientName  string
	ContactName string
	Email       string
	Phone       string
	ActionPlan  string
}

// Today returns the calendar date of now in UTC.
func Today(now time.Time) string {
	return now.UTC().Format(DateLayout)
}

// ValidDate reports whether s is a real calendar date in DateLayout.
func ValidDate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
