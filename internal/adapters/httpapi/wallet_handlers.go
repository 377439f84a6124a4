package httpapi

import (
	"net/http"

	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpapi/wire"
	"github.com/webdevelop-pro/invest-common-sub001/internal/domain"
)

func (s *Server) GetWallet(w http.ResponseWriter, r *http.Request) {
	sub, _ := SubjectFromContext(r.Context())
	profileID, err := pathParam(r, "profileId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	wallet, err := s.Portal.WalletByProfile(r.Context(), sub, domain.ProfileID(profileID))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, walletToWire(wallet))
}

func (s *Server) ListTransactions(w http.ResponseWriter, r *http.Request) {
	sub, _ := SubjectFromContext(r.Context())
	walletID, err := pathParam(r, "walletId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	txs, err := s.Portal.ListTransactions(r.Context(), sub, domain.WalletID(walletID))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]wire.Transaction, 0, len(txs))
	for _, tx := range txs {
		out = append(out, transactionToWire(tx))
	}
	setTotalCount(w, len(out))
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) AddFunds(w http.ResponseWriter, r *http.Request) {
	sub, _ := SubjectFromContext(r.Context())
	walletID, err := pathParam(r, "walletId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var body wire.AddFundsRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	amount := domain.CentsFromAmount(body.Amount)

	canonical := struct {
		WalletID string       `json:"wallet_id"`
		Amount   domain.Cents `json:"amount"`
	}{walletID, amount}
	s.idempotent(w, r, sub, canonical, func() (int, any, error) {
		tx, err := s.Portal.AddFunds(r.Context(), sub, domain.WalletID(walletID), amount)
		if err != nil {
			return 0, nil, err
		}
		return http.StatusCreated, transactionToWire(tx), nil
	})
}

func walletToWire(w domain.Wallet) wire.Wallet {
	return wire.Wallet{
		ID:              string(w.ID),
		ProfileID:       string(w.ProfileID),
		Status:          string(w.Status),
		Currency:        w.Currency,
		CurrentBalance:  w.CurrentBalance.Amount(),
		PendingIncoming: w.PendingIncoming.Amount(),
		PendingOutgoing: w.PendingOutgoing.Amount(),
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}

func transactionToWire(tx domain.Transaction) wire.Transaction {
	return wire.Transaction{
		ID:        string(tx.ID),
		WalletID:  string(tx.WalletID),
		Type:      string(tx.Type),
		Status:    string(tx.Status),
		Amount:    tx.Amount.Amount(),
		CreatedAt: tx.CreatedAt,
	}
}
