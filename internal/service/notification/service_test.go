package notification

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/retry"

	mocks "github.com/aliskhannn/banking-notifier/internal/mocks/service/notification"
	"github.com/aliskhannn/banking-notifier/internal/model"
	"github.com/aliskhannn/banking-notifier/internal/rabbitmq/queue"
	repo "github.com/aliskhannn/banking-notifier/internal/repository/notification"
)

func TestService_Create_PendingWithUniqueID(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		n, err := e.svc.Create(ctx, emailDraft())
		require.NoError(t, err)

		assert.Equal(t, model.StatusPending, n.Status)
		assert.True(t, strings.HasPrefix(n.NotificationID, "NOTIF-"))
		assert.False(t, seen[n.NotificationID], "duplicate id %s", n.NotificationID)
		seen[n.NotificationID] = true
	}

	assert.Equal(t, 50, e.store.count())
}

func TestService_Create_Defaults(t *testing.T) {
	e := newTestEnv(t)

	n, err := e.svc.Create(context.Background(), emailDraft())
	require.NoError(t, err)

	stored := e.store.get(t, n.NotificationID)
	assert.Equal(t, model.PriorityMedium, stored.Priority)
	assert.Equal(t, model.DefaultMaxRetries, stored.MaxRetries)
	assert.Equal(t, 0, stored.RetryCount)
	assert.Equal(t, testNow, stored.CreatedAt)
	assert.Nil(t, stored.ScheduledAt)
	assert.Nil(t, stored.FailureReason)
	assert.True(t, e.cache.has(statusKey(n.NotificationID)))
}

func TestService_Create_InvalidDraft(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Draft)
	}{
		{"missing recipient", func(d *model.Draft) { d.RecipientID = 0 }},
		{"unknown type", func(d *model.Draft) { d.NotificationType = "FAX" }},
		{"unknown priority", func(d *model.Draft) { d.Priority = "URGENT" }},
		{"empty message", func(d *model.Draft) { d.Message = "" }},
		{"negative max retries", func(d *model.Draft) { d.MaxRetries = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			d := emailDraft()
			tt.mutate(&d)

			_, err := e.svc.Create(context.Background(), d)
			assert.ErrorIs(t, err, ErrInvalidDraft)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, 0, e.store.count())
		})
	}
}

func TestService_Schedule_RejectsMissingOrPastTime(t *testing.T) {
	past := testNow.Add(-time.Minute)
	now := testNow

	tests := []struct {
		name string
		at   *time.Time
		want error
	}{
		{"missing", nil, ErrScheduleMissing},
		{"in the past", &past, ErrScheduleInPast},
		{"exactly now", &now, ErrScheduleInPast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			d := emailDraft()
			d.ScheduledAt = tt.at

			_, err := e.svc.Schedule(context.Background(), d)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, 0, e.store.count())
		})
	}

	assert.NotEqual(t, ErrScheduleMissing.Error(), ErrScheduleInPast.Error())
}

func TestService_Schedule_Future(t *testing.T) {
	e := newTestEnv(t)
	at := testNow.Add(2 * time.Hour)
	d := smsDraft()
	d.ScheduledAt = &at

	var published queue.DispatchMessage
	e.pub.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(msg queue.DispatchMessage, _ retry.Strategy) error {
			published = msg
			return nil
		},
	)

	n, err := e.svc.Schedule(context.Background(), d)
	require.NoError(t, err)

	stored := e.store.get(t, n.NotificationID)
	assert.Equal(t, model.StatusScheduled, stored.Status)
	require.NotNil(t, stored.ScheduledAt)
	assert.True(t, stored.ScheduledAt.Equal(at))

	assert.Equal(t, queue.DispatchMessage{NotificationID: n.NotificationID, Channel: model.TypeSMS, SendAt: at}, published)
}

func TestService_Schedule_PublishFailureIsNotReturned(t *testing.T) {
	e := newTestEnv(t)
	at := testNow.Add(time.Hour)
	d := emailDraft()
	d.ScheduledAt = &at

	e.pub.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	n, err := e.svc.Schedule(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, model.StatusScheduled, e.store.get(t, n.NotificationID).Status)
}

func TestService_EndToEnd_EmailSentThenRead(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	n, err := e.svc.Create(ctx, emailDraft())
	require.NoError(t, err)

	e.email.EXPECT().SendEmail(gomock.Any(), "client@bank.test", "Welcome", "Your account is open").Return(nil)

	msg, err := e.svc.SendEmail(ctx, n.NotificationID)
	require.NoError(t, err)
	assert.Equal(t, "Email sent successfully to client@bank.test", msg)

	sent := e.store.get(t, n.NotificationID)
	assert.Equal(t, model.StatusSent, sent.Status)
	require.NotNil(t, sent.SentAt)
	require.NotNil(t, sent.DeliveredAt)
	assert.Equal(t, testNow, *sent.SentAt)
	assert.Equal(t, testNow, *sent.DeliveredAt)

	changed, err := e.svc.MarkAsRead(ctx, n.NotificationID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, model.StatusRead, e.store.get(t, n.NotificationID).Status)
}

func TestService_EndToEnd_SMSWithoutPhoneStaysPending(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	d := smsDraft()
	d.RecipientPhone = ""
	n, err := e.svc.Create(ctx, d)
	require.NoError(t, err)

	_, err = e.svc.SendSMS(ctx, n.NotificationID)
	assert.ErrorIs(t, err, ErrMissingContact)
	assert.ErrorIs(t, err, ErrValidation)

	stored := e.store.get(t, n.NotificationID)
	assert.Equal(t, model.StatusPending, stored.Status)
	assert.Nil(t, stored.FailureReason)
}

func TestService_SendSMS_Success(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	n, err := e.svc.Create(ctx, smsDraft())
	require.NoError(t, err)

	e.sms.EXPECT().SendSMS(gomock.Any(), "+15550001", "Your code is 1234").Return(nil)

	msg, err := e.svc.SendSMS(ctx, n.NotificationID)
	require.NoError(t, err)
	assert.Equal(t, "SMS sent successfully to +15550001", msg)
	assert.Equal(t, model.StatusSent, e.store.get(t, n.NotificationID).Status)
}

func TestService_Send_TypeMismatchDoesNotMutate(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	emailN, err := e.svc.Create(ctx, emailDraft())
	require.NoError(t, err)
	smsN, err := e.svc.Create(ctx, smsDraft())
	require.NoError(t, err)

	saves := e.store.saveCount()

	_, err = e.svc.SendSMS(ctx, emailN.NotificationID)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = e.svc.SendEmail(ctx, smsN.NotificationID)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	assert.Equal(t, saves, e.store.saveCount())
	assert.Equal(t, model.StatusPending, e.store.get(t, emailN.NotificationID).Status)
	assert.Equal(t, model.StatusPending, e.store.get(t, smsN.NotificationID).Status)
}

func TestService_Send_NotFound(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.svc.SendEmail(context.Background(), "NOTIF-missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = e.svc.SendSMS(context.Background(), "NOTIF-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Send_FromSentIsConflict(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	n, err := e.svc.Create(ctx, emailDraft())
	require.NoError(t, err)

	e.email.EXPECT().SendEmail(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)

	_, err = e.svc.SendEmail(ctx, n.NotificationID)
	require.NoError(t, err)

	_, err = e.svc.SendEmail(ctx, n.NotificationID)
	assert.ErrorIs(t, err, ErrStateConflict)
	assert.Equal(t, model.StatusSent, e.store.get(t, n.NotificationID).Status)
}

func TestService_Send_FromScheduled(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	at := testNow.Add(time.Minute)
	d := emailDraft()
	d.ScheduledAt = &at

	e.pub.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
	e.email.EXPECT().SendEmail(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	n, err := e.svc.Schedule(ctx, d)
	require.NoError(t, err)

	_, err = e.svc.SendEmail(ctx, n.NotificationID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSent, e.store.get(t, n.NotificationID).Status)
}

func TestService_SendEmail_GatewayFailureIsRecorded(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	n, err := e.svc.Create(ctx, emailDraft())
	require.NoError(t, err)

	e.email.EXPECT().SendEmail(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("smtp down"))

	_, err = e.svc.SendEmail(ctx, n.NotificationID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)

	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, ServiceEmailGateway, upErr.Service)

	stored := e.store.get(t, n.NotificationID)
	assert.Equal(t, model.StatusFailed, stored.Status)
	require.NotNil(t, stored.FailureReason)
	assert.Equal(t, "Email sending failed: smtp down", *stored.FailureReason)
	require.NotNil(t, stored.FailedAt)
	assert.Equal(t, testNow, *stored.FailedAt)
	assert.Nil(t, stored.SentAt)
}

func TestService_SendSMS_GatewayPanicIsRecorded(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	n, err := e.svc.Create(ctx, smsDraft())
	require.NoError(t, err)

	e.sms.EXPECT().SendSMS(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, string, string) error { panic("provider client bug") },
	)

	_, err = e.svc.SendSMS(ctx, n.NotificationID)
	assert.ErrorIs(t, err, ErrUpstream)

	stored := e.store.get(t, n.NotificationID)
	assert.Equal(t, model.StatusFailed, stored.Status)
	require.NotNil(t, stored.FailureReason)
	assert.True(t, strings.HasPrefix(*stored.FailureReason, "SMS sending failed: "))
}

func TestService_SendEmail_TimeoutIsFailure(t *testing.T) {
	e := newTestEnv(t, func(o *Options) { o.DeliveryTimeout = 20 * time.Millisecond })
	ctx := context.Background()

	n, err := e.svc.Create(ctx, emailDraft())
	require.NoError(t, err)

	e.email.EXPECT().SendEmail(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _, _, _ string) error {
			<-ctx.Done()
			return ctx.Err()
		},
	)

	_, err = e.svc.SendEmail(ctx, n.NotificationID)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, model.StatusFailed, e.store.get(t, n.NotificationID).Status)
}

func TestService_Resend_BoundedByMaxRetries(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	n, err := e.svc.Create(ctx, emailDraft())
	require.NoError(t, err)

	e.email.EXPECT().SendEmail(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("mailbox full")).
		Times(model.DefaultMaxRetries + 1)

	_, err = e.svc.SendEmail(ctx, n.NotificationID)
	require.ErrorIs(t, err, ErrUpstream)

	for i := 1; i <= model.DefaultMaxRetries; i++ {
		count, err := e.svc.Resend(ctx, n.NotificationID)
		require.NoError(t, err)
		assert.Equal(t, i, count)

		stored := e.store.get(t, n.NotificationID)
		assert.Equal(t, model.StatusPending, stored.Status)
		assert.Nil(t, stored.FailureReason)
		assert.Nil(t, stored.FailedAt)

		_, err = e.svc.SendEmail(ctx, n.NotificationID)
		require.ErrorIs(t, err, ErrUpstream)
	}

	before := e.store.get(t, n.NotificationID)

	_, err = e.svc.Resend(ctx, n.NotificationID)
	assert.ErrorIs(t, err, ErrRetryExhausted)

	after := e.store.get(t, n.NotificationID)
	assert.Equal(t, before, after)
	assert.Equal(t, model.DefaultMaxRetries, after.RetryCount)
	assert.Equal(t, model.StatusFailed, after.Status)
}

func TestService_Resend_ThenDeliverResetsTimestamps(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	n, err := e.svc.Create(ctx, emailDraft())
	require.NoError(t, err)

	gomock.InOrder(
		e.email.EXPECT().SendEmail(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("greylisted")),
		e.email.EXPECT().SendEmail(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
	)

	_, err = e.svc.SendEmail(ctx, n.NotificationID)
	require.Error(t, err)

	_, err = e.svc.Resend(ctx, n.NotificationID)
	require.NoError(t, err)

	_, err = e.svc.SendEmail(ctx, n.NotificationID)
	require.NoError(t, err)

	stored := e.store.get(t, n.NotificationID)
	assert.Equal(t, model.StatusSent, stored.Status)
	assert.Equal(t, 1, stored.RetryCount)
	assert.NotNil(t, stored.SentAt)
	assert.Nil(t, stored.FailureReason)
	assert.Nil(t, stored.FailedAt)
}

func TestService_Resend_RequiresFailed(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	n, err := e.svc.Create(ctx, emailDraft())
	require.NoError(t, err)

	_, err = e.svc.Resend(ctx, n.NotificationID)
	assert.ErrorIs(t, err, ErrStateConflict)

	_, err = e.svc.Resend(ctx, "NOTIF-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Resend_ConcurrentCallsAreSerialized(t *testing.T) {
	e := newTestEnv(t)
	reason := "Email sending failed: x"
	failedAt := testNow
	e.store.put(model.Notification{
		NotificationID:   "NOTIF-race",
		RecipientID:      7,
		RecipientEmail:   "client@bank.test",
		NotificationType: model.TypeEmail,
		Priority:         model.PriorityHigh,
		Message:          "m",
		Status:           model.StatusFailed,
		MaxRetries:       3,
		FailureReason:    &reason,
		FailedAt:         &failedAt,
		CreatedAt:        testNow,
	})

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := e.svc.Resend(context.Background(), "NOTIF-race")

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrStateConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 9, conflicts)
	assert.Equal(t, 1, e.store.get(t, "NOTIF-race").RetryCount)
}

func TestService_MarkAsRead_Idempotent(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	n, err := e.svc.Create(ctx, emailDraft())
	require.NoError(t, err)

	changed, err := e.svc.MarkAsRead(ctx, n.NotificationID)
	require.NoError(t, err)
	assert.True(t, changed)

	first := e.store.get(t, n.NotificationID)
	saves := e.store.saveCount()

	changed, err = e.svc.MarkAsRead(ctx, n.NotificationID)
	require.NoError(t, err)
	assert.False(t, changed)

	assert.Equal(t, first, e.store.get(t, n.NotificationID))
	assert.Equal(t, saves, e.store.saveCount())
}

func TestService_MarkAsRead_ClearsFailure(t *testing.T) {
	e := newTestEnv(t)
	reason := "SMS sending failed: x"
	failedAt := testNow
	e.store.put(model.Notification{
		NotificationID:   "NOTIF-f",
		RecipientID:      7,
		NotificationType: model.TypeSMS,
		Message:          "m",
		Status:           model.StatusFailed,
		MaxRetries:       3,
		FailureReason:    &reason,
		FailedAt:         &failedAt,
		CreatedAt:        testNow,
	})

	changed, err := e.svc.MarkAsRead(context.Background(), "NOTIF-f")
	require.NoError(t, err)
	assert.True(t, changed)

	stored := e.store.get(t, "NOTIF-f")
	assert.Equal(t, model.StatusRead, stored.Status)
	assert.Nil(t, stored.FailureReason)
	assert.Nil(t, stored.FailedAt)
}

func TestService_MarkAsRead_NotFound(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.svc.MarkAsRead(context.Background(), "NOTIF-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_StaleSaveIsStateConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMocknotificationRepository(ctrl)

	svc := NewService(store, Gateways{}, Verifiers{}, nil, nil, Options{})

	store.EXPECT().FindByID(gomock.Any(), "NOTIF-1").Return(&model.Notification{
		NotificationID: "NOTIF-1",
		Status:         model.StatusSent,
		Version:        4,
	}, nil)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(repo.ErrStaleRecord)

	_, err := svc.MarkAsRead(context.Background(), "NOTIF-1")
	assert.ErrorIs(t, err, ErrStateConflict)
	assert.ErrorIs(t, err, repo.ErrStaleRecord)
}

func TestService_DeleteExpired(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	old := model.Notification{
		NotificationID: "NOTIF-old", RecipientID: 1, NotificationType: model.TypeEmail,
		Message: "old", Status: model.StatusSent, MaxRetries: 3, CreatedAt: testNow.AddDate(0, 0, -40),
	}
	recent := model.Notification{
		NotificationID: "NOTIF-recent", RecipientID: 1, NotificationType: model.TypeEmail,
		Message: "recent", Status: model.StatusSent, MaxRetries: 3, CreatedAt: testNow.AddDate(0, 0, -10),
	}
	e.store.put(old)
	e.store.put(recent)

	// warm the cache for the expiring record
	_, err := e.svc.GetStatus(ctx, "NOTIF-old")
	require.NoError(t, err)
	require.True(t, e.cache.has(statusKey("NOTIF-old")))

	res, err := e.svc.DeleteExpired(ctx, 30)
	require.NoError(t, err)
	assert.True(t, res.Deleted)
	assert.Equal(t, int64(1), res.Count)
	assert.Equal(t, testNow.AddDate(0, 0, -30), res.Cutoff)

	assert.Equal(t, 1, e.store.count())
	e.store.get(t, "NOTIF-recent")
	assert.False(t, e.cache.has(statusKey("NOTIF-old")))

	res, err = e.svc.DeleteExpired(ctx, 30)
	require.NoError(t, err)
	assert.False(t, res.Deleted)
	assert.Equal(t, int64(0), res.Count)
	assert.Equal(t, 1, e.store.count())
}

func TestService_DeleteExpired_NegativeRetention(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.svc.DeleteExpired(context.Background(), -1)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_DeleteExpired_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMocknotificationRepository(ctrl)
	svc := NewService(store, Gateways{}, Verifiers{}, nil, nil, Options{Now: func() time.Time { return testNow }})

	store.EXPECT().FindCreatedBefore(gomock.Any(), testNow.AddDate(0, 0, -30)).
		Return([]model.Notification{{NotificationID: "NOTIF-1"}}, nil)
	store.EXPECT().DeleteCreatedBefore(gomock.Any(), testNow.AddDate(0, 0, -30)).
		Return(int64(0), errors.New("connection reset"))

	res, err := svc.DeleteExpired(context.Background(), 30)
	assert.Error(t, err)
	assert.False(t, res.Deleted)
}

func TestService_GetStatus_ReadThroughCache(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	e.store.put(model.Notification{
		NotificationID: "NOTIF-s", RecipientID: 1, NotificationType: model.TypeEmail,
		Message: "m", Status: model.StatusPending, MaxRetries: 3, CreatedAt: testNow,
	})

	view, err := e.svc.GetStatus(ctx, "NOTIF-s")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, view.Status)
	assert.True(t, e.cache.has(statusKey("NOTIF-s")))

	// served from cache even if the store no longer answers
	_, err = e.store.DeleteCreatedBefore(ctx, testNow.Add(time.Second))
	require.NoError(t, err)

	cached, err := e.svc.GetStatus(ctx, "NOTIF-s")
	require.NoError(t, err)
	assert.Equal(t, view.NotificationID, cached.NotificationID)
	assert.Equal(t, view.Status, cached.Status)
	assert.True(t, view.CreatedAt.Equal(cached.CreatedAt))
}

func TestService_GetStatus_FollowsTransitions(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	n, err := e.svc.Create(ctx, emailDraft())
	require.NoError(t, err)

	e.email.EXPECT().SendEmail(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	_, err = e.svc.SendEmail(ctx, n.NotificationID)
	require.NoError(t, err)

	view, err := e.svc.GetStatus(ctx, n.NotificationID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSent, view.Status)
	assert.NotNil(t, view.SentAt)
}

func TestService_GetStatus_MalformedCacheFallsBack(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	e.store.put(model.Notification{
		NotificationID: "NOTIF-m", RecipientID: 1, NotificationType: model.TypeSMS,
		Message: "m", Status: model.StatusRead, MaxRetries: 3, CreatedAt: testNow,
	})
	require.NoError(t, e.cache.SetWithRetry(ctx, retry.Strategy{}, statusKey("NOTIF-m"), "not json"))

	view, err := e.svc.GetStatus(ctx, "NOTIF-m")
	require.NoError(t, err)
	assert.Equal(t, model.StatusRead, view.Status)

	raw, err := e.cache.GetWithRetry(ctx, retry.Strategy{}, statusKey("NOTIF-m"))
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(raw)))
}

func TestService_GetStatus_NotFound(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.svc.GetStatus(context.Background(), "NOTIF-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_GetHistory(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	for i, id := range []string{"NOTIF-a", "NOTIF-b", "NOTIF-c"} {
		e.store.put(model.Notification{
			NotificationID: id, RecipientID: 9, NotificationType: model.TypeEmail,
			Message: "m", Status: model.StatusPending, MaxRetries: 3,
			CreatedAt: testNow.Add(time.Duration(i) * time.Hour),
		})
	}
	e.store.put(model.Notification{
		NotificationID: "NOTIF-other", RecipientID: 10, NotificationType: model.TypeEmail,
		Message: "m", Status: model.StatusPending, MaxRetries: 3, CreatedAt: testNow,
	})

	history, err := e.svc.GetHistory(ctx, 9)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "NOTIF-c", history[0].NotificationID)
	assert.Equal(t, "NOTIF-b", history[1].NotificationID)
	assert.Equal(t, "NOTIF-a", history[2].NotificationID)

	empty, err := e.svc.GetHistory(ctx, 404)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestService_ListAll(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	list, err := e.svc.ListAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = e.svc.Create(ctx, emailDraft())
	require.NoError(t, err)

	list, err = e.svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestService_UpdateSettings(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	n, err := e.svc.Create(ctx, emailDraft())
	require.NoError(t, err)

	email := "new@bank.test"
	subject := "Updated"
	updated, err := e.svc.UpdateSettings(ctx, model.SettingsUpdate{
		NotificationID: n.NotificationID,
		RecipientEmail: &email,
		Subject:        &subject,
	})
	require.NoError(t, err)

	stored := e.store.get(t, n.NotificationID)
	assert.Equal(t, email, stored.RecipientEmail)
	assert.Equal(t, subject, stored.Subject)
	assert.Equal(t, "Your account is open", stored.Message)
	assert.Equal(t, n.NotificationID, stored.NotificationID)
	assert.Equal(t, n.RecipientID, stored.RecipientID)
	assert.Equal(t, model.StatusPending, stored.Status)
	assert.Equal(t, n.CreatedAt, stored.CreatedAt)
	assert.Equal(t, updated.Version, stored.Version)
}

func TestService_UpdateSettings_Errors(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	_, err := e.svc.UpdateSettings(ctx, model.SettingsUpdate{NotificationID: "NOTIF-missing"})
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := e.svc.Create(ctx, emailDraft())
	require.NoError(t, err)

	empty := ""
	_, err = e.svc.UpdateSettings(ctx, model.SettingsUpdate{NotificationID: n.NotificationID, Message: &empty})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Your account is open", e.store.get(t, n.NotificationID).Message)
}

func TestService_Due(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	for id, status := range map[string]model.Status{
		"NOTIF-p": model.StatusPending,
		"NOTIF-s": model.StatusScheduled,
		"NOTIF-x": model.StatusSent,
		"NOTIF-r": model.StatusRead,
	} {
		e.store.put(model.Notification{
			NotificationID: id, RecipientID: 1, NotificationType: model.TypeEmail,
			Message: "m", Status: status, MaxRetries: 3, CreatedAt: testNow,
		})
	}

	for id, want := range map[string]bool{"NOTIF-p": true, "NOTIF-s": true, "NOTIF-x": false, "NOTIF-r": false} {
		due, err := e.svc.Due(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, due, id)
	}

	_, err := e.svc.Due(ctx, "NOTIF-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_GetStatus_FailedCacheWriteDoesNotServeOldStatus(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	n, err := e.svc.Create(ctx, emailDraft())
	require.NoError(t, err)
	require.True(t, e.cache.has(statusKey(n.NotificationID)))

	e.cache.setFailing(true)
	e.email.EXPECT().SendEmail(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	_, err = e.svc.SendEmail(ctx, n.NotificationID)
	require.NoError(t, err)
	assert.False(t, e.cache.has(statusKey(n.NotificationID)))

	view, err := e.svc.GetStatus(ctx, n.NotificationID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSent, view.Status)

	e.cache.setFailing(false)

	view, err = e.svc.GetStatus(ctx, n.NotificationID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSent, view.Status)
	assert.True(t, e.cache.has(statusKey(n.NotificationID)))
}

func TestService_GetStatus_FillWaitsForInFlightTransition(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	n, err := e.svc.Create(ctx, emailDraft())
	require.NoError(t, err)
	_, err = e.cache.Del(ctx, statusKey(n.NotificationID)).Result()
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	e.email.EXPECT().SendEmail(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, string, string, string) error {
			close(started)
			<-release
			return nil
		},
	)

	sendDone := make(chan error, 1)
	go func() {
		_, err := e.svc.SendEmail(ctx, n.NotificationID)
		sendDone <- err
	}()
	<-started

	statusDone := make(chan model.StatusView, 1)
	go func() {
		view, err := e.svc.GetStatus(ctx, n.NotificationID)
		assert.NoError(t, err)
		statusDone <- view
	}()

	// the read-through fill must not complete while the send holds the record
	select {
	case view := <-statusDone:
		t.Fatalf("status %s returned while a send was in flight", view.Status)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-sendDone)

	view := <-statusDone
	assert.Equal(t, model.StatusSent, view.Status)

	cached, err := e.svc.GetStatus(ctx, n.NotificationID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSent, cached.Status)
}

func TestService_SendEmail_WaitsForSlowGateway(t *testing.T) {
	e := newTestEnv(t, func(o *Options) { o.DeliveryTimeout = 20 * time.Millisecond })
	ctx := context.Background()

	n, err := e.svc.Create(ctx, emailDraft())
	require.NoError(t, err)

	// the gateway finishes its session after the deadline and reports acceptance
	e.email.EXPECT().SendEmail(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _, _, _ string) error {
			<-ctx.Done()
			time.Sleep(30 * time.Millisecond)
			return nil
		},
	)

	_, err = e.svc.SendEmail(ctx, n.NotificationID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSent, e.store.get(t, n.NotificationID).Status)
}
