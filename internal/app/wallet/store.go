// Package wallet is the client-side store for the wallet service.
package wallet

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpapi/wire"
	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpclient"
	"github.com/webdevelop-pro/invest-common-sub001/internal/app/actionstate"
	"github.com/webdevelop-pro/invest-common-sub001/internal/app/feedback"
	"github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/notifier"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	headerReplayed       = "Idempotent-Replayed"
)

type API interface {
	Get(ctx context.Context, path string, rc httpclient.RequestConfig) (*httpclient.Response, error)
	Post(ctx context.Context, path string, body any, rc httpclient.RequestConfig) (*httpclient.Response, error)
}

type Store struct {
	api      API
	notifier notifier.Notifier
	states   actionstate.Group

	Wallet       *actionstate.State[wire.Wallet]
	Transactions *actionstate.State[[]wire.Transaction]
	Fund         *actionstate.State[wire.Transaction]
}

func NewStore(api API, n notifier.Notifier) *Store {
	s := &Store{api: api, notifier: feedback.OrNop(n)}
	s.Wallet = actionstate.Track[wire.Wallet](&s.states)
	s.Transactions = actionstate.Track[[]wire.Transaction](&s.states)
	s.Fund = actionstate.Track[wire.Transaction](&s.states)
	return s
}

func (s *Store) ResetAll() { s.states.ResetAll() }

func (s *Store) FetchWallet(ctx context.Context, profileID string) (wire.Wallet, error) {
	out, err := actionstate.Run(ctx, s.Wallet, func(ctx context.Context) (wire.Wallet, error) {
		resp, err := s.api.Get(ctx, "/profiles/"+url.PathEscape(profileID)+"/wallet", httpclient.RequestConfig{
			ErrorMessage: "Could not load wallet",
		})
		if err != nil {
			return wire.Wallet{}, err
		}
		return httpclient.As[wire.Wallet](resp)
	})
	feedback.Error(ctx, s.notifier, "Wallet", err)
	return out, err
}

func (s *Store) FetchTransactions(ctx context.Context, walletID string) ([]wire.Transaction, error) {
	out, err := actionstate.Run(ctx, s.Transactions, func(ctx context.Context) ([]wire.Transaction, error) {
		resp, err := s.api.Get(ctx, "/wallets/"+url.PathEscape(walletID)+"/transactions", httpclient.RequestConfig{})
		if err != nil {
			return nil, err
		}
		return httpclient.As[[]wire.Transaction](resp)
	})
	feedback.Error(ctx, s.notifier, "Wallet", err)
	return out, err
}

// AddFunds starts a deposit. An empty idempotencyKey gets a fresh one; pass
// the same key when retrying so the server replays instead of charging twice.
func (s *Store) AddFunds(ctx context.Context, walletID string, amount float64, idempotencyKey string) (wire.Transaction, error) {
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}
	var replayed bool
	out, err := actionstate.Run(ctx, s.Fund, func(ctx context.Context) (wire.Transaction, error) {
		resp, err := s.api.Post(ctx, "/wallets/"+url.PathEscape(walletID)+"/fund", wire.AddFundsRequest{Amount: amount}, httpclient.RequestConfig{
			ExtraHeaders: http.Header{headerIdempotencyKey: {idempotencyKey}},
			ErrorMessage: "Could not add funds",
		})
		if err != nil {
			return wire.Transaction{}, err
		}
		// A joined call is applied by the caller that started it.
		replayed = resp.Shared || resp.Headers.Get(headerReplayed) == "true"
		return httpclient.As[wire.Transaction](resp)
	})
	if err != nil {
		feedback.Error(ctx, s.notifier, "Wallet", err)
		return out, err
	}
	if replayed {
		return out, nil
	}

	s.Wallet.Update(func(w wire.Wallet) wire.Wallet {
		if w.ID == out.WalletID {
			w.PendingIncoming += out.Amount
		}
		return w
	})
	s.Transactions.Update(func(txs []wire.Transaction) []wire.Transaction {
		return append([]wire.Transaction{out}, txs...)
	})
	feedback.Success(ctx, s.notifier, "Wallet", fmt.Sprintf("Deposit of %.2f started", out.Amount))
	return out, nil
}
