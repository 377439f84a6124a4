package domain

import (
	"math"
	"time"
)

// Cents is an amount of money in the smallest currency unit.
type Cents int64

// CentsFromAmount converts a decimal amount (as sent over the wire) to cents.
func CentsFromAmount(amount float64) Cents {
	return Cents(math.Round(amount * 100))
}

// Amount renders c as a decimal amount.
func (c Cents) Amount() float64 { return float64(c) / 100 }

type WalletStatus string

const (
	WalletStatusCreated   WalletStatus = "created"
	WalletStatusVerified  WalletStatus = "verified"
	WalletStatusSuspended WalletStatus = "suspended"
)

type Wallet struct {
	ID        WalletID
	ProfileID ProfileID
	Subject   SubjectID
	Status    WalletStatus
	Currency  string

	CurrentBalance  Cents
	PendingIncoming Cents
	PendingOutgoing Cents

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanTransact reports whether funds may move through the wallet.
func (w Wallet) CanTransact() bool { return w.Status == WalletStatusVerified }

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeInvestment TransactionType = "investment"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusProcessed TransactionStatus = "processed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

type Transaction struct {
	ID       TransactionID
	WalletID WalletID
	Type     TransactionType
	Status   TransactionStatus
	Amount   Cents

	CreatedAt time.Time
}
