package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/banking-notifier/internal/model"
	"github.com/aliskhannn/banking-notifier/internal/rabbitmq/queue"
	svc "github.com/aliskhannn/banking-notifier/internal/service/notification"
)

//go:generate mockgen -source=handler.go -destination=../../../mocks/rabbitmq/handlers/dispatch/mock.go -package=mocks
type notificationService interface {
	SendEmail(ctx context.Context, id string) (string, error)
	SendSMS(ctx context.Context, id string) (string, error)
}

type Handler struct {
	service notificationService
}

func NewHandler(s notificationService) *Handler {
	return &Handler{
		service: s,
	}
}

// HandleMessage waits until msg.SendAt and then delivers the notification through its channel.
//
// Errors that the engine has already settled (delivery failure recorded on the record,
// validation, state conflicts, missing records) are final. Anything else is retried with strategy.
func (h *Handler) HandleMessage(ctx context.Context, msg queue.DispatchMessage, strategy retry.Strategy) {
	zlog.Logger.Info().Msgf("Handle Message: got notification %s, will be sent at %v", msg.NotificationID, msg.SendAt)

	if !waitUntil(ctx, msg.SendAt) {
		zlog.Logger.Warn().Str("id", msg.NotificationID).Msg("Handle Message: shutting down before send time")
		return
	}

	var send func(context.Context, string) (string, error)
	switch msg.Channel {
	case model.TypeEmail:
		send = h.service.SendEmail
	case model.TypeSMS:
		send = h.service.SendSMS
	default:
		zlog.Logger.Warn().Str("id", msg.NotificationID).Str("channel", string(msg.Channel)).Msg("Handle Message: no gateway for channel, skipping")
		return
	}

	var final error
	var result string

	err := retry.Do(func() error {
		select {
		case <-ctx.Done():
			final = ctx.Err()
			return nil
		default:
		}

		res, err := send(ctx, msg.NotificationID)
		if err != nil && isFinal(err) {
			final = err
			return nil
		}
		result = res
		return err
	}, strategy)

	switch {
	case err != nil:
		zlog.Logger.Error().Err(err).Str("id", msg.NotificationID).Msg("Handle Message: giving up after retries")
	case final != nil:
		zlog.Logger.Warn().Err(final).Str("id", msg.NotificationID).Msg("Handle Message: notification not delivered")
	default:
		zlog.Logger.Info().Str("id", msg.NotificationID).Msg(result)
	}
}

func isFinal(err error) bool {
	return errors.Is(err, svc.ErrUpstream) ||
		errors.Is(err, svc.ErrValidation) ||
		errors.Is(err, svc.ErrStateConflict) ||
		errors.Is(err, svc.ErrNotFound)
}

// waitUntil blocks until t or ctx is done. It reports whether t was reached.
func waitUntil(ctx context.Context, t time.Time) bool {
	d := time.Until(t)
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
