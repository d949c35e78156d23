package dto

import (
	"time"

	"github.com/aliskhannn/banking-notifier/internal/model"
)

// CreateRequest is the body of the create, schedule and orchestration endpoints.
type CreateRequest struct {
	RecipientID      int64      `json:"recipientId" validate:"required,gt=0"`
	RecipientEmail   string     `json:"recipientEmail" validate:"omitempty,email"`
	RecipientPhone   string     `json:"recipientPhone" validate:"omitempty,min=5,max=20"`
	NotificationType string     `json:"notificationType" validate:"required,oneof=EMAIL SMS PUSH"`
	Priority         string     `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	TriggerEvent     string     `json:"triggerEvent" validate:"max=100"`
	Subject          string     `json:"subject" validate:"max=255"`
	Message          string     `json:"message" validate:"required"`
	ScheduledAt      *time.Time `json:"scheduledAt"`
	MaxRetries       int        `json:"maxRetries" validate:"gte=0,lte=10"`
}

// Draft converts the request into engine input.
func (r CreateRequest) Draft() model.Draft {
	return model.Draft{
		RecipientID:      r.RecipientID,
		RecipientEmail:   r.RecipientEmail,
		RecipientPhone:   r.RecipientPhone,
		NotificationType: model.Type(r.NotificationType),
		Priority:         model.Priority(r.Priority),
		TriggerEvent:     r.TriggerEvent,
		Subject:          r.Subject,
		Message:          r.Message,
		ScheduledAt:      r.ScheduledAt,
		MaxRetries:       r.MaxRetries,
	}
}

// UpdateRequest patches the mutable fields of a notification.
type UpdateRequest struct {
	NotificationID string  `json:"notificationId" validate:"required"`
	RecipientEmail *string `json:"recipientEmail" validate:"omitempty,email"`
	RecipientPhone *string `json:"recipientPhone" validate:"omitempty,min=5,max=20"`
	Message        *string `json:"message"`
	Subject        *string `json:"subject" validate:"omitempty,max=255"`
}

// SettingsUpdate converts the request into engine input.
func (r UpdateRequest) SettingsUpdate() model.SettingsUpdate {
	return model.SettingsUpdate{
		NotificationID: r.NotificationID,
		RecipientEmail: r.RecipientEmail,
		RecipientPhone: r.RecipientPhone,
		Message:        r.Message,
		Subject:        r.Subject,
	}
}
