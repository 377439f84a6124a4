package walletrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/postgres"
	"github.com/webdevelop-pro/invest-common-sub001/internal/domain"
	"github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/walletrepo"
)

// Repo is a Postgres implementation of walletrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const walletColumns = `id, profile_id, subject, status, currency, current_balance, pending_incoming, pending_outgoing, created_at, updated_at`

func (r *Repo) Create(ctx context.Context, w domain.Wallet) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	if strings.TrimSpace(string(w.ID)) == "" {
		return errors.New("wallet id is required")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO wallets (`+walletColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		string(w.ID),
		string(w.ProfileID),
		string(w.Subject),
		string(w.Status),
		w.Currency,
		int64(w.CurrentBalance),
		int64(w.PendingIncoming),
		int64(w.PendingOutgoing),
		w.CreatedAt.UTC(),
		w.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return walletrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.WalletID) (domain.Wallet, error) {
	if r.pool == nil {
		return domain.Wallet{}, postgres.ErrNilPool
	}
	return r.getOne(ctx, `SELECT `+walletColumns+` FROM wallets WHERE id = $1`, string(id))
}

func (r *Repo) GetByProfile(ctx context.Context, profileID domain.ProfileID) (domain.Wallet, error) {
	if r.pool == nil {
		return domain.Wallet{}, postgres.ErrNilPool
	}
	return r.getOne(ctx, `SELECT `+walletColumns+` FROM wallets WHERE profile_id = $1`, string(profileID))
}

func (r *Repo) getOne(ctx context.Context, query string, arg any) (domain.Wallet, error) {
	var (
		w                            domain.Wallet
		id, profile, subject, status string
		balance, incoming, outgoing  int64
	)
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&id, &profile, &subject, &status, &w.Currency,
		&balance, &incoming, &outgoing, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Wallet{}, walletrepo.ErrNotFound
		}
		return domain.Wallet{}, err
	}
	w.ID = domain.WalletID(id)
	w.ProfileID = domain.ProfileID(profile)
	w.Subject = domain.SubjectID(subject)
	w.Status = domain.WalletStatus(status)
	w.CurrentBalance = domain.Cents(balance)
	w.PendingIncoming = domain.Cents(incoming)
	w.PendingOutgoing = domain.Cents(outgoing)
	w.CreatedAt = w.CreatedAt.UTC()
	w.UpdatedAt = w.UpdatedAt.UTC()
	return w, nil
}

func (r *Repo) ApplyTransaction(ctx context.Context, w domain.Wallet, tx domain.Transaction) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	wid := string(w.ID)
	tid, err := uuid.Parse(string(tx.ID))
	if err != nil {
		return fmt.Errorf("invalid transaction id: %w", err)
	}

	return pgx.BeginFunc(ctx, r.pool, func(dbtx pgx.Tx) error {
		tag, err := dbtx.Exec(ctx, `
			UPDATE wallets
			SET status = $3,
				current_balance = $4,
				pending_incoming = $5,
				pending_outgoing = $6,
				updated_at = $7
			WHERE id = $1 AND profile_id = $2
		`,
			wid,
			string(w.ProfileID),
			string(w.Status),
			int64(w.CurrentBalance),
			int64(w.PendingIncoming),
			int64(w.PendingOutgoing),
			w.UpdatedAt.UTC(),
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return walletrepo.ErrNotFound
		}

		_, err = dbtx.Exec(ctx, `
			INSERT INTO wallet_transactions (id, wallet_id, type, status, amount, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`,
			tid,
			wid,
			string(tx.Type),
			string(tx.Status),
			int64(tx.Amount),
			tx.CreatedAt.UTC(),
		)
		if err != nil {
			if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
				return walletrepo.ErrAlreadyExists
			}
			return err
		}
		return nil
	})
}

func (r *Repo) ListTransactions(ctx context.Context, id domain.WalletID) ([]domain.Transaction, error) {
	if r.pool == nil {
		return nil, postgres.ErrNilPool
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, wallet_id, type, status, amount, created_at
		FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC, id DESC
	`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Transaction, 0)
	for rows.Next() {
		var (
			tx               domain.Transaction
			tid              uuid.UUID
			wid, typ, status string
			amount           int64
		)
		if err := rows.Scan(&tid, &wid, &typ, &status, &amount, &tx.CreatedAt); err != nil {
			return nil, err
		}
		tx.ID = domain.TransactionID(tid.String())
		tx.WalletID = domain.WalletID(wid)
		tx.Type = domain.TransactionType(typ)
		tx.Status = domain.TransactionStatus(status)
		tx.Amount = domain.Cents(amount)
		tx.CreatedAt = tx.CreatedAt.UTC()
		out = append(out, tx)
	}
	return out, rows.Err()
}
