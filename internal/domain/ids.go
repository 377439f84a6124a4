package domain

// SubjectID is the authenticated subject (the identity service's account id).
// We model it as an opaque identifier.
type SubjectID string

// ProfileID identifies an investor profile. One subject may own several.
type ProfileID string

type NotificationID string

type WalletID string

type TransactionID string

type InvestmentID string

// DocumentID identifies a downloadable investment document.
type DocumentID string
