package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang/mock/gomock"
	"github.com/wb-go/wbf/retry"

	mocks "github.com/aliskhannn/banking-notifier/internal/mocks/service/notification"
	"github.com/aliskhannn/banking-notifier/internal/model"
	repo "github.com/aliskhannn/banking-notifier/internal/repository/notification"
)

// memStore is an in-memory notificationRepository with the same version semantics as the SQL store.
type memStore struct {
	mu    sync.Mutex
	items map[string]model.Notification
	saves int
}

func newMemStore() *memStore {
	return &memStore{items: make(map[string]model.Notification)}
}

func (m *memStore) Save(_ context.Context, n *model.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, exists := m.items[n.NotificationID]
	if n.Version == 0 {
		if exists {
			return repo.ErrDuplicateNotification
		}
		n.Version = 1
	} else {
		if !exists {
			return repo.ErrNotificationNotFound
		}
		if cur.Version != n.Version {
			return repo.ErrStaleRecord
		}
		n.Version++
	}

	m.items[n.NotificationID] = *n
	m.saves++
	return nil
}

func (m *memStore) FindByID(_ context.Context, id string) (*model.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.items[id]
	if !ok {
		return nil, repo.ErrNotificationNotFound
	}
	return &n, nil
}

func (m *memStore) FindByRecipient(_ context.Context, recipientID int64) ([]model.Notification, error) {
	return m.filter(func(n model.Notification) bool { return n.RecipientID == recipientID }), nil
}

func (m *memStore) FindCreatedBefore(_ context.Context, cutoff time.Time) ([]model.Notification, error) {
	return m.filter(func(n model.Notification) bool { return n.CreatedAt.Before(cutoff) }), nil
}

func (m *memStore) DeleteCreatedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for id, n := range m.items {
		if n.CreatedAt.Before(cutoff) {
			delete(m.items, id)
			count++
		}
	}
	return count, nil
}

func (m *memStore) FindAll(_ context.Context) ([]model.Notification, error) {
	return m.filter(func(model.Notification) bool { return true }), nil
}

func (m *memStore) filter(keep func(model.Notification) bool) []model.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.Notification
	for _, n := range m.items {
		if keep(n) {
			out = append(out, n)
		}
	}
	return out
}

// put stores n as-is, bypassing the engine.
func (m *memStore) put(n model.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n.Version == 0 {
		n.Version = 1
	}
	m.items[n.NotificationID] = n
}

func (m *memStore) get(t *testing.T, id string) model.Notification {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.items[id]
	if !ok {
		t.Fatalf("notification %s is not stored", id)
	}
	return n
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.items)
}

func (m *memStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.saves
}

// memCache is an in-memory statusCache. Writes fail while failSet is on.
type memCache struct {
	mu      sync.Mutex
	data    map[string]string
	failSet bool
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string]string)}
}

func (c *memCache) SetWithRetry(_ context.Context, _ retry.Strategy, key string, value interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failSet {
		return errors.New("redis: connection pool timeout")
	}
	c.data[key] = fmt.Sprint(value)
	return nil
}

func (c *memCache) setFailing(fail bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.failSet = fail
}

func (c *memCache) GetWithRetry(_ context.Context, _ retry.Strategy, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (c *memCache) Del(_ context.Context, keys ...string) *redis.IntCmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int64
	for _, k := range keys {
		if _, ok := c.data[k]; ok {
			delete(c.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.data[key]
	return ok
}

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	svc   *Service
	store *memStore
	cache *memCache
	email *mocks.MockemailSender
	sms   *mocks.MocksmsSender
	tx    *mocks.MocktransactionVerifier
	acc   *mocks.MockaccountVerifier
	pub   *mocks.MockdispatchPublisher
}

func newTestEnv(t *testing.T, configure ...func(*Options)) *testEnv {
	t.Helper()

	ctrl := gomock.NewController(t)

	e := &testEnv{
		store: newMemStore(),
		cache: newMemCache(),
		email: mocks.NewMockemailSender(ctrl),
		sms:   mocks.NewMocksmsSender(ctrl),
		tx:    mocks.NewMocktransactionVerifier(ctrl),
		acc:   mocks.NewMockaccountVerifier(ctrl),
		pub:   mocks.NewMockdispatchPublisher(ctrl),
	}

	opts := Options{
		Retry:           retry.Strategy{Attempts: 1},
		DeliveryTimeout: time.Second,
		Now:             func() time.Time { return testNow },
	}
	for _, fn := range configure {
		fn(&opts)
	}

	e.svc = NewService(
		e.store,
		Gateways{Email: e.email, SMS: e.sms},
		Verifiers{Transactions: e.tx, Accounts: e.acc},
		e.cache,
		e.pub,
		opts,
	)

	return e
}

func emailDraft() model.Draft {
	return model.Draft{
		RecipientID:      7,
		RecipientEmail:   "client@bank.test",
		NotificationType: model.TypeEmail,
		TriggerEvent:     "ACCOUNT_CREATED",
		Subject:          "Welcome",
		Message:          "Your account is open",
	}
}

func smsDraft() model.Draft {
	return model.Draft{
		RecipientID:      7,
		RecipientPhone:   "+15550001",
		NotificationType: model.TypeSMS,
		Message:          "Your code is 1234",
	}
}
