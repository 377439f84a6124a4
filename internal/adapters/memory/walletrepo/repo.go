package walletrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/webdevelop-pro/invest-common-sub001/internal/domain"
	"github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/walletrepo"
)

// Repo is an in-memory implementation of walletrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID        map[domain.WalletID]domain.Wallet
	idByProfile map[domain.ProfileID]domain.WalletID
	ledger      map[domain.WalletID][]domain.Transaction
}

func NewRepo() *Repo {
	return &Repo{
		byID:        make(map[domain.WalletID]domain.Wallet),
		idByProfile: make(map[domain.ProfileID]domain.WalletID),
		ledger:      make(map[domain.WalletID][]domain.Transaction),
	}
}

func (r *Repo) Create(ctx context.Context, w domain.Wallet) error {
	_ = ctx
	if w.ID == "" {
		return walletrepo.ErrAlreadyExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[w.ID]; ok {
		return walletrepo.ErrAlreadyExists
	}
	if _, ok := r.idByProfile[w.ProfileID]; ok {
		return walletrepo.ErrAlreadyExists
	}
	r.byID[w.ID] = w
	r.idByProfile[w.ProfileID] = w.ID
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.WalletID) (domain.Wallet, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.byID[id]
	if !ok {
		return domain.Wallet{}, walletrepo.ErrNotFound
	}
	return w, nil
}

func (r *Repo) GetByProfile(ctx context.Context, profileID domain.ProfileID) (domain.Wallet, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.idByProfile[profileID]
	if !ok {
		return domain.Wallet{}, walletrepo.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *Repo) ApplyTransaction(ctx context.Context, w domain.Wallet, tx domain.Transaction) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[w.ID]
	if !ok {
		return walletrepo.ErrNotFound
	}
	if existing.ProfileID != w.ProfileID {
		return walletrepo.ErrAlreadyExists
	}
	for _, prev := range r.ledger[w.ID] {
		if prev.ID == tx.ID {
			return walletrepo.ErrAlreadyExists
		}
	}
	r.byID[w.ID] = w
	r.ledger[w.ID] = append(r.ledger[w.ID], tx)
	return nil
}

func (r *Repo) ListTransactions(ctx context.Context, id domain.WalletID) ([]domain.Transaction, error) {
	_ = ctx
	r.mu.RLock()
	if _, ok := r.byID[id]; !ok {
		r.mu.RUnlock()
		return nil, walletrepo.ErrNotFound
	}
	out := append([]domain.Transaction(nil), r.ledger[id]...)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if out == nil {
		out = []domain.Transaction{}
	}
	return out, nil
}
