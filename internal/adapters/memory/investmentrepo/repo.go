package investmentrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/webdevelop-pro/invest-common-sub001/internal/domain"
	"github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/investmentrepo"
)

// Repo is an in-memory implementation of investmentrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.InvestmentID]domain.Investment
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.InvestmentID]domain.Investment)}
}

func (r *Repo) Create(ctx context.Context, inv domain.Investment) error {
	_ = ctx
	if inv.ID == "" {
		return investmentrepo.ErrAlreadyExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[inv.ID]; ok {
		return investmentrepo.ErrAlreadyExists
	}
	r.byID[inv.ID] = cloneInvestment(inv)
	return nil
}

func (r *Repo) Get(ctx context.Context, subject domain.SubjectID, id domain.InvestmentID) (domain.Investment, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.byID[id]
	if !ok || inv.Subject != subject {
		return domain.Investment{}, investmentrepo.ErrNotFound
	}
	return cloneInvestment(inv), nil
}

func (r *Repo) List(ctx context.Context, subject domain.SubjectID, offset, limit int) ([]domain.Investment, int, error) {
	_ = ctx
	r.mu.RLock()
	var all []domain.Investment
	for _, inv := range r.byID {
		if inv.Subject == subject {
			all = append(all, cloneInvestment(inv))
		}
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	total := len(all)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []domain.Investment{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], total, nil
}

func cloneInvestment(inv domain.Investment) domain.Investment {
	out := inv
	if inv.Documents != nil {
		out.Documents = make([]domain.Document, len(inv.Documents))
		for i, d := range inv.Documents {
			d.Bytes = append([]byte(nil), d.Bytes...)
			out.Documents[i] = d
		}
	}
	return out
}
