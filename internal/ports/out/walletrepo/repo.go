package walletrepo

import (
	"context"

	"github.com/webdevelop-pro/invest-common-sub001/internal/domain"
)

// Repository stores wallets and their transaction ledger.
//
// ApplyTransaction records tx and stores w (with its updated balances) atomically.
// ListTransactions returns newest first.
type Repository interface {
	Create(ctx context.Context, w domain.Wallet) error
	GetByID(ctx context.Context, id domain.WalletID) (domain.Wallet, error)
	GetByProfile(ctx context.Context, profileID domain.ProfileID) (domain.Wallet, error)

	ApplyTransaction(ctx context.Context, w domain.Wallet, tx domain.Transaction) error
	ListTransactions(ctx context.Context, id domain.WalletID) ([]domain.Transaction, error)
}
