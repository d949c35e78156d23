package notification

import (
	"context"
	"fmt"

	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/banking-notifier/internal/model"
)

// SendEmail delivers an EMAIL notification and records the outcome on it.
func (s *Service) SendEmail(ctx context.Context, id string) (string, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	n, err := s.find(ctx, id)
	if err != nil {
		return "", fmt.Errorf("send email: %w", err)
	}

	return s.sendEmailLocked(ctx, n)
}

// SendSMS delivers an SMS notification and records the outcome on it.
func (s *Service) SendSMS(ctx context.Context, id string) (string, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	n, err := s.find(ctx, id)
	if err != nil {
		return "", fmt.Errorf("send sms: %w", err)
	}

	if err := checkSendable(n, model.TypeSMS, n.RecipientPhone); err != nil {
		return "", err
	}

	err = s.deliver(ctx, func(ctx context.Context) error {
		return s.gateways.SMS.SendSMS(ctx, n.RecipientPhone, n.Message)
	})
	if err != nil {
		return "", s.recordFailure(ctx, n, ServiceSMSGateway, "SMS sending failed", err)
	}

	if err := s.recordSuccess(ctx, n); err != nil {
		return "", err
	}

	return "SMS sent successfully to " + n.RecipientPhone, nil
}

// sendEmailLocked runs the email path on a record whose lock the caller already holds.
func (s *Service) sendEmailLocked(ctx context.Context, n *model.Notification) (string, error) {
	if err := checkSendable(n, model.TypeEmail, n.RecipientEmail); err != nil {
		return "", err
	}

	err := s.deliver(ctx, func(ctx context.Context) error {
		return s.gateways.Email.SendEmail(ctx, n.RecipientEmail, n.Subject, n.Message)
	})
	if err != nil {
		return "", s.recordFailure(ctx, n, ServiceEmailGateway, "Email sending failed", err)
	}

	if err := s.recordSuccess(ctx, n); err != nil {
		return "", err
	}

	return "Email sent successfully to " + n.RecipientEmail, nil
}

// checkSendable rejects a send before any state change.
func checkSendable(n *model.Notification, channel model.Type, contact string) error {
	if n.NotificationType != channel {
		return fmt.Errorf("%w: notification %s is %s, not %s", ErrTypeMismatch, n.NotificationID, n.NotificationType, channel)
	}
	if contact == "" {
		return fmt.Errorf("%w: notification %s has no %s contact", ErrMissingContact, n.NotificationID, channel)
	}
	if !canDeliver(n.Status) {
		return fmt.Errorf("%w: cannot send a %s notification", ErrStateConflict, n.Status)
	}

	return nil
}

// deliver invokes a gateway with the delivery deadline on ctx and waits for its terminal answer.
// Gateways finish a call they already started, so the outcome recorded is the one the provider gave.
// A panic is reported as an error.
func (s *Service) deliver(ctx context.Context, call func(context.Context) error) (err error) {
	if s.opts.DeliveryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.DeliveryTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("gateway panic: %v", r)
		}
	}()

	return call(ctx)
}

func (s *Service) recordSuccess(ctx context.Context, n *model.Notification) error {
	if err := apply(n, eventDelivered); err != nil {
		return err
	}

	now := s.opts.Now().UTC()
	n.SentAt = &now
	n.DeliveredAt = &now

	// Persist regardless of caller cancellation once the gateway has answered.
	if err := s.save(context.WithoutCancel(ctx), n); err != nil {
		return fmt.Errorf("persist delivered notification: %w", err)
	}

	return nil
}

func (s *Service) recordFailure(ctx context.Context, n *model.Notification, service, prefix string, cause error) error {
	if err := apply(n, eventDeliveryFailed); err != nil {
		return err
	}

	now := s.opts.Now().UTC()
	reason := fmt.Sprintf("%s: %v", prefix, cause)
	n.FailedAt = &now
	n.FailureReason = &reason

	upErr := &UpstreamError{Service: service, Op: "send", Err: cause}

	if err := s.save(context.WithoutCancel(ctx), n); err != nil {
		zlog.Logger.Error().Err(err).Str("id", n.NotificationID).Msg("failed to persist delivery failure")
		return fmt.Errorf("%w (persist failed: %v)", upErr, err)
	}

	zlog.Logger.Warn().Err(cause).Str("id", n.NotificationID).Str("gateway", service).Msg("delivery failed")

	return upErr
}
