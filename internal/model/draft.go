package model

import "time"

// Draft carries the caller-supplied fields of a notification that is about to be created.
type Draft struct {
	RecipientID      int64
	RecipientEmail   string
	RecipientPhone   string
	NotificationType Type
	Priority         Priority
	TriggerEvent     string
	Subject          string
	Message          string
	ScheduledAt      *time.Time // only read by the scheduling path
	MaxRetries       int        // 0 means the configured default
}

// SettingsUpdate patches the mutable fields of a notification. Nil fields are left untouched.
type SettingsUpdate struct {
	NotificationID string
	RecipientEmail *string
	RecipientPhone *string
	Message        *string
	Subject        *string
}

// DeleteResult reports the outcome of a retention sweep.
type DeleteResult struct {
	Deleted bool      // true only if at least one record matched
	Count   int64     // rows removed
	Cutoff  time.Time // records created before this instant were selected
}

// Verification is an upstream existence check result.
type Verification struct {
	Exists bool
	Raw    []byte // upstream body, kept for logging
}

// Assessment is a derived upstream result such as a fee or a fraud score.
type Assessment struct {
	Success bool
	Text    string
}
