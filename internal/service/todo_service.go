package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/joaommmadureira/challenges-ignite/internal/cache"
	dom "github.com/joaommmadureira/challenges-ignite/internal/domain"
	"github.com/joaommmadureira/challenges-ignite/internal/logging"
	"github.com/joaommmadureira/challenges-ignite/internal/repo"
)

type TodoService struct {
	repo  repo.TodoRepo
	cache *cache.TodoCache
	log   logging.Logger
	sf    singleflight.Group
	now   func() time.Time

	// genMu guards gens and orders cache fills against invalidations.
	genMu sync.Mutex
	gens  map[uuid.UUID]uint64
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled.
func NewTodoService(r repo.TodoRepo, c *cache.TodoCache, log logging.Logger) *TodoService {
	return &TodoService{
		repo:  r,
		cache: c,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
		gens:  make(map[uuid.UUID]uint64),
	}
}

// List returns the user's todos in insertion order.
func (s *TodoService) List(ctx context.Context, userID uuid.UUID) ([]dom.Todo, error) {
	if s.cache == nil {
		return s.list(ctx, userID)
	}
	v, err, _ := s.sf.Do(userID.String(), func() (interface{}, error) {
		// Joined callers must not fail because the first one went away.
		ctx := context.WithoutCancel(ctx)
		list, err := s.cache.GetList(ctx, userID)
		if err != nil {
			s.log.Warn(ctx, "todo cache read failed", "user_id", userID, "error", err)
		} else if list != nil {
			return list, nil
		}
		gen := s.generation(userID)
		list, err = s.list(ctx, userID)
		if err != nil {
			return nil, err
		}
		s.fillCache(ctx, userID, gen, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.Todo), nil
}

// Create appends a new, not yet done todo to the user's list.
func (s *TodoService) Create(ctx context.Context, userID uuid.UUID, title string, deadline time.Time) (dom.Todo, error) {
	t, err := s.repo.Create(ctx, userID, dom.Todo{
		ID:        uuid.New(),
		Title:     title,
		Done:      false,
		Deadline:  deadline.UTC(),
		CreatedAt: s.now(),
	})
	if err != nil {
		return dom.Todo{}, mapErr(err)
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// Update overwrites title and deadline. Done and CreatedAt are left alone.
func (s *TodoService) Update(ctx context.Context, userID, id uuid.UUID, title string, deadline time.Time) (dom.Todo, error) {
	t, err := s.repo.Update(ctx, userID, id, title, deadline.UTC())
	if err != nil {
		return dom.Todo{}, mapErr(err)
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// Complete marks the todo done. Completing a done todo is a no-op.
func (s *TodoService) Complete(ctx context.Context, userID, id uuid.UUID) (dom.Todo, error) {
	t, err := s.repo.MarkDone(ctx, userID, id)
	if err != nil {
		return dom.Todo{}, mapErr(err)
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// Delete removes the todo, keeping the order of the rest.
func (s *TodoService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return mapErr(err)
	}
	s.invalidateCache(ctx, userID)
	return nil
}

func (s *TodoService) list(ctx context.Context, userID uuid.UUID) ([]dom.Todo, error) {
	list, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	if list == nil {
		list = []dom.Todo{}
	}
	return list, nil
}

func (s *TodoService) generation(userID uuid.UUID) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.gens[userID]
}

// fillCache stores list unless the user's todos changed after the read at gen.
func (s *TodoService) fillCache(ctx context.Context, userID uuid.UUID, gen uint64, list []dom.Todo) {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	if s.gens[userID] != gen {
		return
	}
	if err := s.cache.SetList(ctx, userID, list); err != nil {
		s.log.Warn(ctx, "todo cache write failed", "user_id", userID, "error", err)
	}
}

// invalidateCache must run after the store write. Reads already in flight
// can no longer fill the cache, and later reads start a fresh flight.
func (s *TodoService) invalidateCache(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	s.genMu.Lock()
	s.gens[userID]++
	s.sf.Forget(userID.String())
	s.genMu.Unlock()

	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.log.Warn(ctx, "todo cache invalidate failed", "user_id", userID, "error", err)
	}
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, repo.ErrTodoNotFound):
		return ErrTodoNotFound
	case errors.Is(err, repo.ErrUserNotFound):
		return ErrUserNotFound
	default:
		return err
	}
}
