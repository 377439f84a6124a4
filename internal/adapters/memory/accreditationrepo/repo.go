package accreditationrepo

import (
	"context"
	"sync"

	"github.com/webdevelop-pro/invest-common-sub001/internal/domain"
	"github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/accreditationrepo"
)

// Repo is an in-memory implementation of accreditationrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex
	m  map[domain.ProfileID]domain.Accreditation
}

func NewRepo() *Repo {
	return &Repo{m: make(map[domain.ProfileID]domain.Accreditation)}
}

func (r *Repo) Get(ctx context.Context, profileID domain.ProfileID) (domain.Accreditation, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.m[profileID]
	if !ok {
		return domain.Accreditation{}, accreditationrepo.ErrNotFound
	}
	a.Files = append([]domain.AccreditationFile(nil), a.Files...)
	return a, nil
}

func (r *Repo) Save(ctx context.Context, a domain.Accreditation) error {
	_ = ctx
	a.Files = append([]domain.AccreditationFile(nil), a.Files...)
	r.mu.Lock()
	r.m[a.ProfileID] = a
	r.mu.Unlock()
	return nil
}
