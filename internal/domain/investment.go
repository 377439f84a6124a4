package domain

import "time"

type InvestmentStatus string

const (
	InvestmentStatusStarted   InvestmentStatus = "started"
	InvestmentStatusPending   InvestmentStatus = "pending"
	InvestmentStatusConfirmed InvestmentStatus = "confirmed"
	InvestmentStatusCancelled InvestmentStatus = "cancelled"
)

// Document is a file attached to an investment (subscription agreement etc).
type Document struct {
	ID          DocumentID
	Name        string
	ContentType string
	Bytes       []byte
}

type Investment struct {
	ID        InvestmentID
	Subject   SubjectID
	ProfileID ProfileID
	OfferName string
	Amount    Cents
	Shares    int64
	Status    InvestmentStatus

	Documents []Document

	CreatedAt time.Time
}

// Document returns the attached document with the given id.
func (i Investment) Document(id DocumentID) (Document, bool) {
	for _, d := range i.Documents {
		if d.ID == id {
			return d, true
		}
	}
	return Document{}, false
}
