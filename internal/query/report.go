package query

import (
	"fmt"
	"slices"
	"strings"
)

// Kind names a fixed report.
type Kind string

const (
	KindReport  Kind = "report"
	KindToday   Kind = "today"
	KindOverdue Kind = "overdue"
	KindFuture  Kind = "future"
)

// Kinds lists the fixed reports in menu order.
func Kinds() []Kind {
	return []Kind{KindReport, KindToday, KindOverdue, KindFuture}
}

// ParseReportKind accepts a report name; empty selects KindReport.
func ParseReportKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if k == "" || k == "all" {
		return KindReport, nil
	}
	if slices.Contains(Kinds(), k) {
		return k, nil
	}
	return "", fmt.Errorf("unknown report %q (want one of %v)", s, Kinds())
}

// EmptyMessage is shown for a report with no rows.
const EmptyMessage = "No tasks found for this filter."

// Report is a titled list of rows.
type Report struct {
	Kind  Kind
	Title string
	Rows  []Row
}

// Report builds one of the fixed reports.
func (e *Engine) Report(kind Kind, today string) Report {
	switch kind {
	case KindToday:
		return Report{Kind: kind, Title: "Tasks Due Today", Rows: e.DueToday(today)}
	case KindOverdue:
		return Report{Kind: kind, Title: "Overdue Tasks", Rows: e.Overdue(today)}
	case KindFuture:
		return Report{Kind: kind, Title: "Future Tasks", Rows: e.Future(today)}
	}
	return Report{Kind: KindReport, Title: "All Tasks Report", Rows: e.AllTasks()}
}

// DateReport lists tasks due on date.
func (e *Engine) DateReport(date string) Report {
	return Report{Title: "Tasks due on " + date, Rows: e.ByDate(date)}
}

// ClientReport lists the tasks of one client. An unknown code yields an
// empty report with a generic title.
func (e *Engine) ClientReport(code string) Report {
	for _, c := range e.clients {
		if c.Code != code {
			continue
		}
		rows := make([]Row, 0, len(c.Tasks))
		for i, t := range c.Tasks {
			rows = append(rows, Row{Task: t, ClientName: c.ClientName, ClientCode: c.Code, Index: i})
		}
		return Report{Title: "Tasks: " + c.ClientName, Rows: rows}
	}
	return Report{Title: "Task Filter"}
}
