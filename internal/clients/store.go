package clients

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Gateway loads and saves the whole dataset as one unit.
type Gateway interface {
	Load(ctx context.Context) ([]Client, error)
	Save(ctx context.Context, clients []Client) error
}

// Op names a committed mutation.
type Op string

const (
	OpClientAdd    Op = "client.add"
	OpClientUpdate Op = "client.update"
	OpClientRemove Op = "client.remove"
	OpTaskAppend   Op = "task.append"
	OpTaskRemove   Op = "task.remove"
	OpTaskEdit     Op = "task.edit"
)

// Mutation describes a committed change. Clients is a copy of the dataset
// after the change.
type Mutation struct {
	Op      Op
	Code    string
	Index   int
	Clients []Client
}

// Store is the in-memory client collection. Every mutation is saved through
// the gateway before it becomes visible, then subscribers are notified.
type Store struct {
	mu      sync.Mutex
	gw      Gateway
	clients []Client
	subs    map[int]func(Mutation)
	nextSub int
	logger  *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore loads the dataset from gw and returns a store over it.
func NewStore(ctx context.Context, gw Gateway, opts ...Option) (*Store, error) {
	s := &Store{
		gw:     gw,
		subs:   make(map[int]func(Mutation)),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	loaded, err := gw.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load clients: %w", err)
	}
	s.clients = normalize(loaded)
	return s, nil
}

// Reload replaces the in-memory collection with what the gateway holds.
// Subscribers are not notified. On error the collection is left as is.
func (s *Store) Reload(ctx context.Context) error {
	loaded, err := s.gw.Load(ctx)
	if err != nil {
		return fmt.Errorf("reload clients: %w", err)
	}
	s.mu.Lock()
	s.clients = normalize(loaded)
	s.mu.Unlock()
	return nil
}

// Subscribe registers fn to run after every committed mutation and returns
// a function that removes it.
func (s *Store) Subscribe(fn func(Mutation)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// All returns a copy of every client in insertion order.
func (s *Store) All() []Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CloneAll(s.clients)
}

// Find returns the client with code.
func (s *Store) Find(code string) (Client, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.clients, code)
	if i < 0 {
		return Client{}, false
	}
	return s.clients[i].clone(), true
}

// Add appends a new client with an empty task list.
func (s *Store) Add(ctx context.Context, in ClientInput) (Client, error) {
	var added Client
	err := s.apply(ctx, func(next []Client) ([]Client, Mutation, error) {
		if indexOf(next, in.Code) >= 0 {
			return nil, Mutation{}, fmt.Errorf("%w: %q", ErrDuplicateCode, in.Code)
		}
		added = Client{
			StartDate:   in.StartDate,
			Code:        in.Code,
			ClientName:  in.ClientName,
			ContactName: in.ContactName,
			Email:       in.Email,
			Phone:       in.Phone,
			ActionPlan:  in.ActionPlan,
			Tasks:       []Task{},
		}
		return append(next, added), Mutation{Op: OpClientAdd, Code: in.Code, Index: -1}, nil
	})
	if err != nil {
		return Client{}, err
	}
	return added.clone(), nil
}

// Update merges patch into the client with code. A code change that would
// collide with another client is rejected.
func (s *Store) Update(ctx context.Context, code string, patch ClientPatch) (Client, error) {
	var updated Client
	err := s.apply(ctx, func(next []Client) ([]Client, Mutation, error) {
		i := indexOf(next, code)
		if i < 0 {
			return nil, Mutation{}, fmt.Errorf("%w: %q", ErrNotFound, code)
		}
		if patch.Code != nil && *patch.Code != code && indexOf(next, *patch.Code) >= 0 {
			return nil, Mutation{}, fmt.Errorf("%w: %q", ErrDuplicateCode, *patch.Code)
		}
		patch.apply(&next[i])
		updated = next[i].clone()
		return next, Mutation{Op: OpClientUpdate, Code: next[i].Code, Index: -1}, nil
	})
	if err != nil {
		return Client{}, err
	}
	return updated, nil
}

// Remove deletes the client with code and every task it owns.
func (s *Store) Remove(ctx context.Context, code string) error {
	return s.apply(ctx, func(next []Client) ([]Client, Mutation, error) {
		i := indexOf(next, code)
		if i < 0 {
			return nil, Mutation{}, fmt.Errorf("%w: %q", ErrNotFound, code)
		}
		next = append(next[:i], next[i+1:]...)
		return next, Mutation{Op: OpClientRemove, Code: code, Index: -1}, nil
	})
}

// apply runs change on a copy of the collection, saves the result and only
// then swaps it in. A failed change or save leaves the store untouched.
func (s *Store) apply(ctx context.Context, change func(next []Client) ([]Client, Mutation, error)) error {
	s.mu.Lock()
	next, m, err := change(CloneAll(s.clients))
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.gw.Save(ctx, next); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("save clients: %w", err)
	}
	s.clients = next
	m.Clients = CloneAll(next)
	subs := make([]func(Mutation), 0, len(s.subs))
	for id := 0; id < s.nextSub; id++ {
		if fn, ok := s.subs[id]; ok {
			subs = append(subs, fn)
		}
	}
	s.mu.Unlock()

	s.logger.Debug("committed", "op", m.Op, "code", m.Code, "index", m.Index)
	for _, fn := range subs {
		fn(m)
	}
	return nil
}

func indexOf(list []Client, code string) int {
	for i := range list {
		if list[i].Code == code {
			return i
		}
	}
	return -1
}

func normalize(list []Client) []Client {
	if list == nil {
		return []Client{}
	}
	for i := range list {
		if list[i].Tasks == nil {
			list[i].Tasks = []Task{}
		}
	}
	return list
}
