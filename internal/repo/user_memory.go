package repo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rogerio-castellano/stocktrack/internal/models"
)

type InMemoryUserRepository struct {
	st *memoryState
	mu sync.Locker
}

func (r *InMemoryUserRepository) Create(_ context.Context, u models.User) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.st.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return models.User{}, ErrDuplicatedValueUnique
		}
	}
	u.ID = r.st.next("users")
	r.st.users[u.ID] = u
	return u, nil
}

func (r *InMemoryUserRepository) GetByID(_ context.Context, id int) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.st.users[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return u, nil
}

func (r *InMemoryUserRepository) GetByEmail(_ context.Context, email string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.st.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

func (r *InMemoryUserRepository) GetByResetToken(_ context.Context, token string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.st.users {
		if u.ResetToken != nil && *u.ResetToken == token {
			return u, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

func (r *InMemoryUserRepository) Update(_ context.Context, u models.User) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.st.users[u.ID]; !ok {
		return models.User{}, ErrUserNotFound
	}
	r.st.users[u.ID] = u
	return u, nil
}

func (r *InMemoryUserRepository) List(_ context.Context, f UserFilter) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []models.User{}
	for _, u := range r.st.users {
		if f.Role != nil && u.Role != *f.Role {
			continue
		}
		if f.Active != nil && u.Active != *f.Active {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type InMemorySessionRepository struct {
	st *memoryState
	mu sync.Locker
}

func (r *InMemorySessionRepository) Create(_ context.Context, s models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.st.sessions[s.ID]; ok {
		return ErrDuplicatedValueUnique
	}
	r.st.sessions[s.ID] = s
	return nil
}

func (r *InMemorySessionRepository) GetByID(_ context.Context, id string) (models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.st.sessions[id]
	if !ok {
		return models.Session{}, ErrSessionNotFound
	}
	return s, nil
}

func (r *InMemorySessionRepository) Update(_ context.Context, s models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.st.sessions[s.ID]; !ok {
		return ErrSessionNotFound
	}
	r.st.sessions[s.ID] = s
	return nil
}

func (r *InMemorySessionRepository) ListActiveByUser(_ context.Context, userID int) ([]models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []models.Session{}
	for _, s := range r.st.sessions {
		if s.UserID == userID && s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *InMemorySessionRepository) CountActive(_ context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, s := range r.st.sessions {
		if s.Valid(now) {
			n++
		}
	}
	return n, nil
}

func (r *InMemorySessionRepository) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, s := range r.st.sessions {
		if s.Expired(now) {
			delete(r.st.sessions, id)
			n++
		}
	}
	return n, nil
}
