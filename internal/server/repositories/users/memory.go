package users

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/dmitrijs2005/userauth/internal/server/models"
)

// MemoryRepository is an in-process directory. It is filled once at
// construction and only read afterwards.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[int]models.User
	byLogin map[string]int
}

// NewMemoryRepository indexes seed. Duplicate ids or usernames and invalid
// roles are rejected.
func NewMemoryRepository(seed []models.User) (*MemoryRepository, error) {
	r := &MemoryRepository{
		byID:    make(map[int]models.User, len(seed)),
		byLogin: make(map[string]int, len(seed)),
	}

	for _, u := range seed {
		if _, dup := r.byID[u.ID]; dup {
			return nil, fmt.Errorf("duplicate user id %d", u.ID)
		}
		if _, dup := r.byLogin[u.Username]; dup {
			return nil, fmt.Errorf("duplicate username %q", u.Username)
		}
		if !u.Role.IsValid() {
			return nil, fmt.Errorf("user %d has invalid role %q", u.ID, u.Role)
		}
		r.byID[u.ID] = u
		r.byLogin[u.Username] = u.ID
	}

	return r, nil
}

func (r *MemoryRepository) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byLogin[login]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *MemoryRepository) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

// List returns copies ordered by id.
func (r *MemoryRepository) List(ctx context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
