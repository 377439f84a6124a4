package portal

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/webdevelop-pro/invest-common-sub001/internal/domain"
	"github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/walletrepo"
)

// WalletByProfile returns the wallet of a profile owned by subject.
func (s *Service) WalletByProfile(ctx context.Context, subject domain.SubjectID, profileID domain.ProfileID) (domain.Wallet, error) {
	w, err := s.wallets.GetByProfile(ctx, profileID)
	if errors.Is(err, walletrepo.ErrNotFound) || (err == nil && w.Subject != subject) {
		return domain.Wallet{}, notFound("wallet")
	}
	return w, err
}

func (s *Service) ownedWallet(ctx context.Context, subject domain.SubjectID, id domain.WalletID) (domain.Wallet, error) {
	w, err := s.wallets.GetByID(ctx, id)
	if errors.Is(err, walletrepo.ErrNotFound) || (err == nil && w.Subject != subject) {
		return domain.Wallet{}, notFound("wallet")
	}
	return w, err
}

func (s *Service) ListTransactions(ctx context.Context, subject domain.SubjectID, id domain.WalletID) ([]domain.Transaction, error) {
	if _, err := s.ownedWallet(ctx, subject, id); err != nil {
		return nil, err
	}
	return s.wallets.ListTransactions(ctx, id)
}

// AddFunds starts a deposit. The amount lands in PendingIncoming and a pending
// deposit transaction is recorded; a wallet notification is published.
func (s *Service) AddFunds(ctx context.Context, subject domain.SubjectID, id domain.WalletID, amount domain.Cents) (domain.Transaction, error) {
	if amount <= 0 {
		return domain.Transaction{}, validationError("invalid deposit", map[string]any{"amount": "must be greater than 0"})
	}
	if amount > s.MaxDeposit {
		return domain.Transaction{}, &Error{
			Status:  http.StatusUnprocessableEntity,
			Code:    CodeLimitExceeded,
			Message: fmt.Sprintf("deposit exceeds the limit of %.2f", s.MaxDeposit.Amount()),
		}
	}
	w, err := s.ownedWallet(ctx, subject, id)
	if err != nil {
		return domain.Transaction{}, err
	}
	if !w.CanTransact() {
		return domain.Transaction{}, &Error{
			Status:  http.StatusConflict,
			Code:    CodeWalletNotVerified,
			Message: "wallet is not verified yet",
		}
	}

	now := s.clk.Now()
	tx := domain.Transaction{
		ID:        domain.TransactionID(s.newID()),
		WalletID:  w.ID,
		Type:      domain.TransactionTypeDeposit,
		Status:    domain.TransactionStatusPending,
		Amount:    amount,
		CreatedAt: now,
	}
	w.PendingIncoming += amount
	w.UpdatedAt = now
	if err := s.wallets.ApplyTransaction(ctx, w, tx); err != nil {
		return domain.Transaction{}, err
	}

	_, err = s.Publish(ctx, subject, domain.NotificationTypeWallet,
		fmt.Sprintf("Deposit of %.2f %s is being processed", amount.Amount(), w.Currency),
		map[string]any{"wallet_id": string(w.ID), "transaction_id": string(tx.ID)})
	return tx, err
}

// AddWallet opens a wallet, assigning an ID and timestamps when unset.
func (s *Service) AddWallet(ctx context.Context, w domain.Wallet) (domain.Wallet, error) {
	if w.ID == "" {
		w.ID = domain.WalletID(s.newID())
	}
	if w.Currency == "" {
		w.Currency = "USD"
	}
	if w.Status == "" {
		w.Status = domain.WalletStatusCreated
	}
	now := s.clk.Now()
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	w.UpdatedAt = now
	if err := s.wallets.Create(ctx, w); err != nil {
		if errors.Is(err, walletrepo.ErrAlreadyExists) {
			return domain.Wallet{}, &Error{Status: http.StatusConflict, Code: CodeWalletExists, Message: "profile already has a wallet"}
		}
		return domain.Wallet{}, err
	}
	return w, nil
}
