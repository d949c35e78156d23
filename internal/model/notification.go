package model

import (
	"time"
)

// Status is the lifecycle state of a notification.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusScheduled Status = "SCHEDULED"
	StatusSent      Status = "SENT"
	StatusFailed    Status = "FAILED"
	StatusRead      Status = "READ"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusScheduled, StatusSent, StatusFailed, StatusRead:
		return true
	}
	return false
}

// Type is the delivery channel a notification was created for.
type Type string

const (
	TypeEmail Type = "EMAIL"
	TypeSMS   Type = "SMS"
	TypePush  Type = "PUSH"
)

// Valid reports whether t is one of the known channels.
func (t Type) Valid() bool {
	switch t {
	case TypeEmail, TypeSMS, TypePush:
		return true
	}
	return false
}

// Priority is informational and does not change lifecycle rules.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// DefaultMaxRetries is used when a draft does not set its own bound.
const DefaultMaxRetries = 3

// Notification represents a notification record in the system.
type Notification struct {
	NotificationID   string     `json:"notificationId"`           // NOTIF-<uuid>, immutable
	RecipientID      int64      `json:"recipientId"`              // owning user
	RecipientEmail   string     `json:"recipientEmail,omitempty"` // required only for EMAIL sends
	RecipientPhone   string     `json:"recipientPhone,omitempty"` // required only for SMS sends
	NotificationType Type       `json:"notificationType"`
	Priority         Priority   `json:"priority"`
	TriggerEvent     string     `json:"triggerEvent,omitempty"` // e.g. ACCOUNT_CREATED
	Subject          string     `json:"subject,omitempty"`
	Message          string     `json:"message"`
	Status           Status     `json:"status"`
	ScheduledAt      *time.Time `json:"scheduledAt,omitempty"`
	RetryCount       int        `json:"retryCount"`
	MaxRetries       int        `json:"maxRetries"`
	FailureReason    *string    `json:"failureReason,omitempty"` // set only while FAILED
	FailedAt         *time.Time `json:"failedAt,omitempty"`      // set only while FAILED
	CreatedAt        time.Time  `json:"createdAt"`
	SentAt           *time.Time `json:"sentAt,omitempty"`
	DeliveredAt      *time.Time `json:"deliveredAt,omitempty"`

	// Version is the optimistic lock counter; 0 means the record was never stored.
	Version int `json:"-"`
}

// StatusView is the lightweight status projection of a notification.
type StatusView struct {
	NotificationID string     `json:"notificationId"`
	Status         Status     `json:"status"`
	RetryCount     int        `json:"retryCount"`
	FailureReason  *string    `json:"failureReason,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	ScheduledAt    *time.Time `json:"scheduledAt,omitempty"`
	SentAt         *time.Time `json:"sentAt,omitempty"`
	DeliveredAt    *time.Time `json:"deliveredAt,omitempty"`
	FailedAt       *time.Time `json:"failedAt,omitempty"`
}

// View returns the status projection of n.
func (n *Notification) View() StatusView {
	return StatusView{
		NotificationID: n.NotificationID,
		Status:         n.Status,
		RetryCount:     n.RetryCount,
		FailureReason:  n.FailureReason,
		CreatedAt:      n.CreatedAt,
		ScheduledAt:    n.ScheduledAt,
		SentAt:         n.SentAt,
		DeliveredAt:    n.DeliveredAt,
		FailedAt:       n.FailedAt,
	}
}
