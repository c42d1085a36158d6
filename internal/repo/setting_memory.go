package repo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rogerio-castellano/stocktrack/internal/models"
)

type InMemorySettingRepository struct {
	st *memoryState
	mu sync.Locker
}

func (r *InMemorySettingRepository) Get(_ context.Context, key string) (models.Setting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.st.settings[key]
	if !ok {
		return models.Setting{}, ErrSettingNotFound
	}
	return s, nil
}

func (r *InMemorySettingRepository) List(_ context.Context, prefix string) ([]models.Setting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []models.Setting{}
	for key, s := range r.st.settings {
		if strings.HasPrefix(key, prefix) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (r *InMemorySettingRepository) Upsert(_ context.Context, s models.Setting) (models.Setting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.st.settings[s.Key] = s
	return s, nil
}

func (r *InMemorySettingRepository) CreateIfMissing(_ context.Context, s models.Setting) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.st.settings[s.Key]; ok {
		return false, nil
	}
	r.st.settings[s.Key] = s
	return true, nil
}

func (r *InMemorySettingRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.st.settings[key]; !ok {
		return ErrSettingNotFound
	}
	delete(r.st.settings, key)
	return nil
}
