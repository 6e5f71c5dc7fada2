package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/store"
)

// UserStore is an in-memory implementation of store.UserStore.
type UserStore struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]domain.User

	// tasks, when linked, receives the cascade on Delete.
	tasks *TaskStore
}

// Ensure UserStore implements the interface.
var _ store.UserStore = (*UserStore)(nil)

// NewUserStore creates an empty in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{
		nextID: 1,
		users:  make(map[uint]domain.User),
	}
}

// LinkTaskStore attaches a task store so deleting a user also deletes the
// user's tasks, matching the store.UserStore contract.
func (s *UserStore) LinkTaskStore(tasks *TaskStore) *UserStore {
	s.tasks = tasks
	return s
}

// Create implements store.UserStore.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}

	user.ID = s.nextID
	s.nextID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = *user
	return nil
}

// GetByID implements store.UserStore.
func (s *UserStore) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &u, nil
}

// GetByEmail implements store.UserStore.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// Update implements store.UserStore.
func (s *UserStore) Update(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	for id, u := range s.users {
		if id != user.ID && u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	user.UpdatedAt = time.Now()
	s.users[user.ID] = *user
	return nil
}

// Delete implements store.UserStore.
func (s *UserStore) Delete(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(s.users, id)

	if s.tasks != nil {
		s.tasks.deleteByOwner(id)
	}
	return nil
}
