package repo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	dom "github.com/joaommmadureira/challenges-ignite/internal/domain"
)

// MemoryStore keeps users and their todos in process memory. All access is
// serialized by mu; callers only ever receive copies.
type MemoryStore struct {
	mu     sync.RWMutex
	byName map[string]*dom.User
	byID   map[uuid.UUID]*dom.User
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byName: make(map[string]*dom.User),
		byID:   make(map[uuid.UUID]*dom.User),
	}
}

// Users returns the UserRepo view of the store.
func (s *MemoryStore) Users() UserRepo { return memoryUsers{s} }

// Todos returns the TodoRepo view of the store.
func (s *MemoryStore) Todos() TodoRepo { return memoryTodos{s} }

type memoryUsers struct{ s *MemoryStore }

func (r memoryUsers) Create(_ context.Context, u dom.User) (dom.User, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byName[u.Username]; ok {
		return dom.User{}, ErrUserExists
	}
	stored := u.Clone()
	s.byName[stored.Username] = &stored
	s.byID[stored.ID] = &stored
	return stored.Clone(), nil
}

func (r memoryUsers) GetByUsername(_ context.Context, username string) (dom.User, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byName[username]
	if !ok {
		return dom.User{}, ErrUserNotFound
	}
	return u.Clone(), nil
}

type memoryTodos struct{ s *MemoryStore }

func (r memoryTodos) List(_ context.Context, userID uuid.UUID) ([]dom.Todo, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u.Clone().Todos, nil
}

func (r memoryTodos) Create(_ context.Context, userID uuid.UUID, t dom.Todo) (dom.Todo, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[userID]
	if !ok {
		return dom.Todo{}, ErrUserNotFound
	}
	u.Todos = append(u.Todos, t)
	return t, nil
}

func (r memoryTodos) Update(_ context.Context, userID, id uuid.UUID, title string, deadline time.Time) (dom.Todo, error) {
	return r.s.mutate(userID, id, func(t *dom.Todo) {
		t.Title = title
		t.Deadline = deadline
	})
}

func (r memoryTodos) MarkDone(_ context.Context, userID, id uuid.UUID) (dom.Todo, error) {
	return r.s.mutate(userID, id, func(t *dom.Todo) {
		t.Done = true
	})
}

func (r memoryTodos) Delete(_ context.Context, userID, id uuid.UUID) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	u, i, err := s.locate(userID, id)
	if err != nil {
		return err
	}
	u.Todos = append(u.Todos[:i], u.Todos[i+1:]...)
	return nil
}

func (s *MemoryStore) mutate(userID, id uuid.UUID, fn func(*dom.Todo)) (dom.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, i, err := s.locate(userID, id)
	if err != nil {
		return dom.Todo{}, err
	}
	fn(&u.Todos[i])
	return u.Todos[i], nil
}

// locate must be called with mu held.
func (s *MemoryStore) locate(userID, id uuid.UUID) (*dom.User, int, error) {
	u, ok := s.byID[userID]
	if !ok {
		return nil, -1, ErrUserNotFound
	}
	for i := range u.Todos {
		if u.Todos[i].ID == id {
			return u, i, nil
		}
	}
	return nil, -1, ErrTodoNotFound
}
