package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/user/entity"
)

// MemoryRepo is a process-local user store used when STORAGE=memory.
// The uniqueness check and insert happen under one lock.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]entity.User
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[int64]entity.User)}
}

func (r *MemoryRepo) FindByID(_ context.Context, id int64) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *MemoryRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.byID {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	if err == ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *MemoryRepo) List(_ context.Context) ([]entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]entity.User, 0, len(r.byID))
	for _, u := range r.byID {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *MemoryRepo) Add(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.usernameTaken(u.Username, 0) {
		return ErrDuplicateUsername
	}
	r.nextID++
	now := time.Now().UTC()
	u.ID = r.nextID
	u.CreatedAt = now
	u.UpdatedAt = now
	r.byID[u.ID] = *u
	return nil
}

func (r *MemoryRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID]; !ok {
		return ErrNotFound
	}
	if r.usernameTaken(u.Username, u.ID) {
		return ErrDuplicateUsername
	}
	u.UpdatedAt = time.Now().UTC()
	r.byID[u.ID] = *u
	return nil
}

func (r *MemoryRepo) Remove(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID]; !ok {
		return ErrNotFound
	}
	delete(r.byID, u.ID)
	return nil
}

// usernameTaken must be called with mu held.
func (r *MemoryRepo) usernameTaken(username string, except int64) bool {
	for id, u := range r.byID {
		if id != except && u.Username == username {
			return true
		}
	}
	return false
}
