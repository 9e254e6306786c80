package repo

import (
	"context"
	"sort"
	"sync"

	"github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/ram/entity"
)

// MemoryRepo keeps RAM records in process memory (STORAGE=memory).
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]entity.Ram
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]entity.Ram)}
}

func (r *MemoryRepo) List(_ context.Context, f entity.Filter) ([]entity.Ram, error) {
	r.mu.RLock()
	all := make([]entity.Ram, 0, len(r.byID))
	for _, m := range r.byID {
		if (f.Brand == "" || m.Brand == f.Brand) && (f.Type == "" || m.Type == f.Type) {
			all = append(all, m)
		}
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	if f.Offset >= len(all) {
		return []entity.Ram{}, nil
	}
	all = all[f.Offset:]
	if f.Limit > 0 && f.Limit < len(all) {
		all = all[:f.Limit]
	}
	return all, nil
}

func (r *MemoryRepo) GetByID(_ context.Context, id string) (*entity.Ram, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &m, nil
}

func (r *MemoryRepo) Create(_ context.Context, m *entity.Ram) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[m.ID] = *m
	return nil
}

func (r *MemoryRepo) Update(_ context.Context, m *entity.Ram) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.byID[m.ID]
	if !ok {
		return ErrNotFound
	}
	m.CreatedAt = old.CreatedAt
	r.byID[m.ID] = *m
	return nil
}

func (r *MemoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
