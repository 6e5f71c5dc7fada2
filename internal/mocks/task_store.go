package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/store"
)

// TaskStore is an in-memory implementation of store.TaskStore with the
// same owner-scoping semantics as the ORM-backed one.
type TaskStore struct {
	mu     sync.Mutex
	nextID uint
	tasks  map[uint]domain.Task
}

// Ensure TaskStore implements the interface.
var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates an empty in-memory task store.
func NewTaskStore() *TaskStore {
	return &TaskStore{
		nextID: 1,
		tasks:  make(map[uint]domain.Task),
	}
}

// Create implements store.TaskStore.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task.ID = s.nextID
	s.nextID++
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	s.tasks[task.ID] = *task
	return nil
}

// GetByID implements store.TaskStore.
func (s *TaskStore) GetByID(ctx context.Context, id, ownerID uint) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.UserID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	return &t, nil
}

// ListByOwner implements store.TaskStore.
func (s *TaskStore) ListByOwner(ctx context.Context, ownerID uint, opts store.ListOptions) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tasks []domain.Task
	for _, t := range s.tasks {
		if t.UserID != ownerID {
			continue
		}
		if opts.DateFrom != nil && t.Date.Before(*opts.DateFrom) {
			continue
		}
		if opts.DateTo != nil && t.Date.After(*opts.DateTo) {
			continue
		}
		if opts.Status != nil && t.Status != *opts.Status {
			continue
		}
		if opts.Recurring && !t.IsRecurring() {
			continue
		}
		tasks = append(tasks, t)
	}

	sort.Slice(tasks, func(i, j int) bool {
		if opts.Descending {
			return tasks[i].Date.After(tasks[j].Date)
		}
		return tasks[i].Date.Before(tasks[j].Date)
	})
	return tasks, nil
}

// Update implements store.TaskStore.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return store.ErrTaskNotFound
	}
	s.tasks[task.ID] = *task
	return nil
}

// deleteByOwner removes every task owned by ownerID. Used for the cascade
// when the linked user store deletes an account.
func (s *TaskStore) deleteByOwner(ownerID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.tasks {
		if t.UserID == ownerID {
			delete(s.tasks, id)
		}
	}
}

// Delete implements store.TaskStore.
func (s *TaskStore) Delete(ctx context.Context, id, ownerID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if ok && t.UserID == ownerID {
		delete(s.tasks, id)
	}
	return nil
}
