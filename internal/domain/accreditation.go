package domain

import "time"

type AccreditationStatus string

const (
	AccreditationStatusNew      AccreditationStatus = "new"
	AccreditationStatusPending  AccreditationStatus = "pending"
	AccreditationStatusApproved AccreditationStatus = "approved"
	AccreditationStatusDeclined AccreditationStatus = "declined"
	AccreditationStatusExpired  AccreditationStatus = "expired"
)

type AccreditationFile struct {
	Name        string
	ContentType string
	Size        int64
}

// Accreditation is the accredited-investor review state of one profile.
type Accreditation struct {
	ProfileID ProfileID
	Subject   SubjectID
	Status    AccreditationStatus
	Note      string
	Files     []AccreditationFile

	UpdatedAt time.Time
}
