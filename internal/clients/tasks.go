package clients

import (
	"context"
	"fmt"
)

// Selection names the client that task operations act on. It is passed
// explicitly; a selection whose client is gone makes every task operation
// return ErrNotFound.
type Selection struct {
	Code string
}

// Select returns a selection for code.
func Select(code string) Selection {
	return Selection{Code: code}
}

// IsZero reports whether nothing is selected.
func (s Selection) IsZero() bool {
	return s.Code == ""
}

// Tasks returns a copy of the selected client's tasks.
func (s *Store) Tasks(sel Selection) ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.clients, sel.Code)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, sel.Code)
	}
	out := make([]Task, len(s.clients[i].Tasks))
	copy(out, s.clients[i].Tasks)
	return out, nil
}

// AppendTask adds t at the end of the selected client's list.
//
// Callers must check t with ValidateTask first; the store keeps whatever it
// is given.
func (s *Store) AppendTask(ctx context.Context, sel Selection, t Task) error {
	return s.apply(ctx, func(next []Client) ([]Client, Mutation, error) {
		i := indexOf(next, sel.Code)
		if i < 0 {
			return nil, Mutation{}, fmt.Errorf("%w: %q", ErrNotFound, sel.Code)
		}
		next[i].Tasks = append(next[i].Tasks, t)
		return next, Mutation{Op: OpTaskAppend, Code: sel.Code, Index: len(next[i].Tasks) - 1}, nil
	})
}

// RemoveTaskAt deletes the task at index from the selected client's list.
func (s *Store) RemoveTaskAt(ctx context.Context, sel Selection, index int) error {
	return s.apply(ctx, func(next []Client) ([]Client, Mutation, error) {
		i := indexOf(next, sel.Code)
		if i < 0 {
			return nil, Mutation{}, fmt.Errorf("%w: %q", ErrNotFound, sel.Code)
		}
		tasks := next[i].Tasks
		if index < 0 || index >= len(tasks) {
			return nil, Mutation{}, fmt.Errorf("%w: %d (client %q has %d tasks)", ErrTaskIndex, index, sel.Code, len(tasks))
		}
		next[i].Tasks = append(tasks[:index], tasks[index+1:]...)
		return next, Mutation{Op: OpTaskRemove, Code: sel.Code, Index: index}, nil
	})
}
