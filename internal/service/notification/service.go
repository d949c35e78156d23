package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/banking-notifier/internal/model"
	"github.com/aliskhannn/banking-notifier/internal/rabbitmq/queue"
	repo "github.com/aliskhannn/banking-notifier/internal/repository/notification"
)

//go:generate mockgen -source=service.go -destination=../../mocks/service/notification/mock.go -package=mocks

type notificationRepository interface {
	Save(ctx context.Context, n *model.Notification) error
	FindByID(ctx context.Context, id string) (*model.Notification, error)
	FindByRecipient(ctx context.Context, recipientID int64) ([]model.Notification, error)
	FindCreatedBefore(ctx context.Context, cutoff time.Time) ([]model.Notification, error)
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	FindAll(ctx context.Context) ([]model.Notification, error)
}

type emailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type smsSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

type transactionVerifier interface {
	VerifyTransaction(ctx context.Context, id string) (model.Verification, error)
	CalculateFees(ctx context.Context, id string) (model.Assessment, error)
	CheckFraud(ctx context.Context, id string) (model.Assessment, error)
}

type accountVerifier interface {
	VerifyAccount(ctx context.Context, accountNumber string) (model.Verification, error)
}

type statusCache interface {
	SetWithRetry(ctx context.Context, strategy retry.Strategy, key string, value interface{}) error
	GetWithRetry(ctx context.Context, strategy retry.Strategy, key string) (string, error)
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type dispatchPublisher interface {
	Publish(msg queue.DispatchMessage, strategy retry.Strategy) error
}

// Gateways are the delivery channels the engine can invoke.
type Gateways struct {
	Email emailSender
	SMS   smsSender
}

// Verifiers are the upstream services consulted before creating enriched notifications.
type Verifiers struct {
	Transactions transactionVerifier
	Accounts     accountVerifier
}

// Options tune the engine. Zero values fall back to defaults.
type Options struct {
	Retry           retry.Strategy   // used for cache and publish calls
	MaxRetries      int              // resend bound for drafts that do not set one
	DeliveryTimeout time.Duration    // budget of a single gateway call, 0 disables it
	Now             func() time.Time // clock, replaced in tests
}

// Service is the notification lifecycle engine.
type Service struct {
	repo      notificationRepository
	gateways  Gateways
	verifiers Verifiers
	cache     statusCache
	publisher dispatchPublisher
	opts      Options
	locks     *locker
}

// NewService creates a new lifecycle engine. cache and publisher may be nil.
func NewService(
	repo notificationRepository,
	gateways Gateways,
	verifiers Verifiers,
	cache statusCache,
	publisher dispatchPublisher,
	opts Options,
) *Service {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = model.DefaultMaxRetries
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Service{
		repo:      repo,
		gateways:  gateways,
		verifiers: verifiers,
		cache:     cache,
		publisher: publisher,
		opts:      opts,
		locks:     newLocker(),
	}
}

// Create validates d and persists it as a PENDING notification.
func (s *Service) Create(ctx context.Context, d model.Draft) (*model.Notification, error) {
	if err := s.validateDraft(d); err != nil {
		return nil, err
	}

	n := s.newNotification(d, model.StatusPending)
	if err := s.insert(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	return n, nil
}

// Schedule persists d as a SCHEDULED notification and announces it on the dispatch queue.
func (s *Service) Schedule(ctx context.Context, d model.Draft) (*model.Notification, error) {
	if d.ScheduledAt == nil {
		return nil, ErrScheduleMissing
	}
	if !d.ScheduledAt.After(s.opts.Now()) {
		return nil, ErrScheduleInPast
	}
	if err := s.validateDraft(d); err != nil {
		return nil, err
	}

	n := s.newNotification(d, model.StatusScheduled)
	at := d.ScheduledAt.UTC()
	n.ScheduledAt = &at

	if err := s.insert(ctx, n); err != nil {
		return nil, fmt.Errorf("schedule notification: %w", err)
	}

	if s.publisher != nil {
		msg := queue.DispatchMessage{
			NotificationID: n.NotificationID,
			Channel:        n.NotificationType,
			SendAt:         at,
		}
		if err := s.publisher.Publish(msg, s.opts.Retry); err != nil {
			zlog.Logger.Error().Err(err).Str("id", n.NotificationID).Msg("failed to publish scheduled notification")
		}
	}

	return n, nil
}

// Fetch returns the notification with the given id.
func (s *Service) Fetch(ctx context.Context, id string) (*model.Notification, error) {
	n, err := s.find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch notification: %w", err)
	}

	return n, nil
}

// GetStatus returns the status projection, served from cache when possible.
func (s *Service) GetStatus(ctx context.Context, id string) (model.StatusView, error) {
	if s.cache != nil {
		raw, err := s.cache.GetWithRetry(ctx, s.opts.Retry, statusKey(id))
		switch {
		case err == nil:
			var view model.StatusView
			if err := json.Unmarshal([]byte(raw), &view); err == nil {
				return view, nil
			}
			zlog.Logger.Warn().Str("id", id).Msg("dropping malformed cached status")
		case !errors.Is(err, redis.Nil):
			zlog.Logger.Error().Err(err).Str("id", id).Msg("failed to get notification status from cache")
		}
	}

	// Fill under the record lock so a concurrent transition cannot be overwritten by an older view.
	unlock := s.locks.lock(id)
	defer unlock()

	n, err := s.find(ctx, id)
	if err != nil {
		return model.StatusView{}, fmt.Errorf("get notification status: %w", err)
	}

	s.cacheStatus(ctx, n)

	return n.View(), nil
}

// GetHistory returns the recipient's notifications, newest first.
func (s *Service) GetHistory(ctx context.Context, recipientID int64) ([]model.Notification, error) {
	list, err := s.repo.FindByRecipient(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}

	if list == nil {
		list = []model.Notification{}
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})

	return list, nil
}

// ListAll returns every stored notification.
func (s *Service) ListAll(ctx context.Context) ([]model.Notification, error) {
	list, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	if list == nil {
		list = []model.Notification{}
	}

	return list, nil
}

// UpdateSettings applies the non-nil fields of u. Identity, status and timestamps are untouched.
func (s *Service) UpdateSettings(ctx context.Context, u model.SettingsUpdate) (*model.Notification, error) {
	unlock := s.locks.lock(u.NotificationID)
	defer unlock()

	n, err := s.find(ctx, u.NotificationID)
	if err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}

	if u.RecipientEmail != nil {
		n.RecipientEmail = *u.RecipientEmail
	}
	if u.RecipientPhone != nil {
		n.RecipientPhone = *u.RecipientPhone
	}
	if u.Message != nil {
		if *u.Message == "" {
			return nil, fmt.Errorf("%w: message must not be empty", ErrValidation)
		}
		n.Message = *u.Message
	}
	if u.Subject != nil {
		n.Subject = *u.Subject
	}

	if err := s.save(ctx, n); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}

	return n, nil
}

// MarkAsRead moves the notification to READ. It returns false if it was already read.
func (s *Service) MarkAsRead(ctx context.Context, id string) (bool, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	n, err := s.find(ctx, id)
	if err != nil {
		return false, fmt.Errorf("mark as read: %w", err)
	}

	if n.Status == model.StatusRead {
		return false, nil
	}

	if err := apply(n, eventMarkRead); err != nil {
		return false, err
	}

	if err := s.save(ctx, n); err != nil {
		return false, fmt.Errorf("mark as read: %w", err)
	}

	return true, nil
}

// Resend returns a FAILED notification to PENDING and reports the new retry count.
func (s *Service) Resend(ctx context.Context, id string) (int, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	n, err := s.find(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("resend: %w", err)
	}

	if n.Status != model.StatusFailed {
		return 0, fmt.Errorf("%w: only FAILED notifications can be resent, got %s", ErrStateConflict, n.Status)
	}

	if n.RetryCount >= n.MaxRetries {
		return 0, fmt.Errorf("notification %s: %w", id, ErrRetryExhausted)
	}

	if err := apply(n, eventResend); err != nil {
		return 0, err
	}
	n.RetryCount++

	if err := s.save(ctx, n); err != nil {
		return 0, fmt.Errorf("resend: %w", err)
	}

	return n.RetryCount, nil
}

// validateDraft checks the fields every creation path requires.
func (s *Service) validateDraft(d model.Draft) error {
	switch {
	case d.RecipientID <= 0:
		return fmt.Errorf("%w: recipient id must be positive", ErrInvalidDraft)
	case !d.NotificationType.Valid():
		return fmt.Errorf("%w: unknown notification type %q", ErrInvalidDraft, d.NotificationType)
	case d.Priority != "" && !d.Priority.Valid():
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidDraft, d.Priority)
	case d.Message == "":
		return fmt.Errorf("%w: message must not be empty", ErrInvalidDraft)
	case d.MaxRetries < 0:
		return fmt.Errorf("%w: max retries must not be negative", ErrInvalidDraft)
	}

	return nil
}

func (s *Service) newNotification(d model.Draft, status model.Status) *model.Notification {
	priority := d.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	maxRetries := d.MaxRetries
	if maxRetries == 0 {
		maxRetries = s.opts.MaxRetries
	}

	return &model.Notification{
		NotificationID:   "NOTIF-" + uuid.NewString(),
		RecipientID:      d.RecipientID,
		RecipientEmail:   d.RecipientEmail,
		RecipientPhone:   d.RecipientPhone,
		NotificationType: d.NotificationType,
		Priority:         priority,
		TriggerEvent:     d.TriggerEvent,
		Subject:          d.Subject,
		Message:          d.Message,
		Status:           status,
		MaxRetries:       maxRetries,
		CreatedAt:        s.opts.Now().UTC(),
	}
}

// find loads a record and translates the store's miss into ErrNotFound.
func (s *Service) find(ctx context.Context, id string) (*model.Notification, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotificationNotFound) {
			return nil, fmt.Errorf("notification %s: %w", id, ErrNotFound)
		}
		return nil, err
	}

	return n, nil
}

func (s *Service) insert(ctx context.Context, n *model.Notification) error {
	if err := s.repo.Save(ctx, n); err != nil {
		return err
	}

	s.cacheStatus(ctx, n)
	return nil
}

// save persists a loaded record. A lost version race surfaces as ErrStateConflict.
func (s *Service) save(ctx context.Context, n *model.Notification) error {
	if err := s.repo.Save(ctx, n); err != nil {
		if errors.Is(err, repo.ErrStaleRecord) {
			return fmt.Errorf("%w: %w", ErrStateConflict, err)
		}
		return err
	}

	s.cacheStatus(ctx, n)
	return nil
}

func (s *Service) cacheStatus(ctx context.Context, n *model.Notification) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(n.View())
	if err != nil {
		zlog.Logger.Error().Err(err).Str("id", n.NotificationID).Msg("failed to encode notification status")
		s.evict(ctx, []string{n.NotificationID})
		return
	}

	if err := s.cache.SetWithRetry(ctx, s.opts.Retry, statusKey(n.NotificationID), string(raw)); err != nil {
		zlog.Logger.Error().Err(err).Str("id", n.NotificationID).Msg("failed to cache notification status")
		s.evict(ctx, []string{n.NotificationID})
	}
}

func (s *Service) evict(ctx context.Context, ids []string) {
	if s.cache == nil || len(ids) == 0 {
		return
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, statusKey(id))
	}

	if err := s.cache.Del(ctx, keys...).Err(); err != nil {
		zlog.Logger.Error().Err(err).Int("count", len(keys)).Msg("failed to evict cached statuses")
	}
}

func statusKey(id string) string {
	return "notification:status:" + id
}
