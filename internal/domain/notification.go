package domain

import "time"

type NotificationStatus string

const (
	NotificationStatusUnread NotificationStatus = "unread"
	NotificationStatusRead   NotificationStatus = "read"
)

type NotificationType string

const (
	NotificationTypeWallet        NotificationType = "wallet"
	NotificationTypeInvestment    NotificationType = "investment"
	NotificationTypeAccreditation NotificationType = "accreditation"
	NotificationTypeSystem        NotificationType = "system"
)

// Notification is a message delivered to one subject.
type Notification struct {
	ID      NotificationID
	Subject SubjectID
	Type    NotificationType
	Status  NotificationStatus
	Content string
	// Data carries type-specific fields (e.g. the wallet or investment id).
	Data map[string]any

	CreatedAt time.Time
	// ReadAt is nil until the notification is marked read.
	ReadAt *time.Time
}

func (n Notification) IsUnread() bool { return n.Status == NotificationStatusUnread }
