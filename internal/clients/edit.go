package clients

import (
	"context"
	"fmt"
)

// StagedTaskEdit holds a task pulled out for editing. The live list is not
// touched until CommitTaskEdit; dropping the value cancels the edit.
type StagedTaskEdit struct {
	Selection Selection
	Index     int
	Original  Task
	// Task is the working copy. Callers change its fields before commit.
	Task Task
}

// BeginTaskEdit stages the task at index of the selected client.
func (s *Store) BeginTaskEdit(sel Selection, index int) (StagedTaskEdit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.clients, sel.Code)
	if i < 0 {
		return StagedTaskEdit{}, fmt.Errorf("%w: %q", ErrNotFound, sel.Code)
	}
	tasks := s.clients[i].Tasks
	if index < 0 || index >= len(tasks) {
		return StagedTaskEdit{}, fmt.Errorf("%w: %d (client %q has %d tasks)", ErrTaskIndex, index, sel.Code, len(tasks))
	}
	return StagedTaskEdit{
		Selection: sel,
		Index:     index,
		Original:  tasks[index],
		Task:      tasks[index],
	}, nil
}

// VisibleTasks lists the selected client's tasks with the staged task left
// out, as it is absent from the list while being edited.
func (s *Store) VisibleTasks(sel Selection, staged *StagedTaskEdit) ([]Task, error) {
	tasks, err := s.Tasks(sel)
	if err != nil {
		return nil, err
	}
	if staged == nil || staged.Selection != sel {
		return tasks, nil
	}
	if staged.Index < 0 || staged.Index >= len(tasks) || tasks[staged.Index] != staged.Original {
		return tasks, nil
	}
	return append(tasks[:staged.Index], tasks[staged.Index+1:]...), nil
}

// CommitTaskEdit removes the staged task from its position and appends the
// edited copy at the end of the list. The list length is unchanged.
func (s *Store) CommitTaskEdit(ctx context.Context, e StagedTaskEdit) error {
	return s.apply(ctx, func(next []Client) ([]Client, Mutation, error) {
		i := indexOf(next, e.Selection.Code)
		if i < 0 {
			return nil, Mutation{}, fmt.Errorf("%w: %q", ErrNotFound, e.Selection.Code)
		}
		tasks := next[i].Tasks
		if e.Index < 0 || e.Index >= len(tasks) || tasks[e.Index] != e.Original {
			return nil, Mutation{}, fmt.Errorf("%w: index %d of client %q", ErrStaleEdit, e.Index, e.Selection.Code)
		}
		tasks = append(tasks[:e.Index], tasks[e.Index+1:]...)
		next[i].Tasks = append(tasks, e.Task)
		return next, Mutation{Op: OpTaskEdit, Code: e.Selection.Code, Index: len(next[i].Tasks) - 1}, nil
	})
}
