package notification

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tableqr-backend/internal/model"
	"tableqr-backend/internal/store"
)

// mockSender is a test implementation of the Sender interface.
type mockSender struct {
	calls  int
	tokens []string
	title  string
	body   string
	failed int
	err    error
}

func (m *mockSender) Send(_ context.Context, tokens []string, title, body string) (int, error) {
	m.calls++
	m.tokens = tokens
	m.title = title
	m.body = body
	return m.failed, m.err
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Store{}, &model.Queue{}, &model.QueueNotification{}))
	return store.NewGormStore(db)
}

func TestNotifyReady_Success(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RegisterRecipient(ctx, &model.QueueNotification{StoreID: 1, QueueNumber: 7, Token: "tok-1"}))
	require.NoError(t, s.RegisterRecipient(ctx, &model.QueueNotification{StoreID: 1, QueueNumber: 7, Token: "tok-2"}))

	sender := &mockSender{}
	n := NewNotifier(s, sender)
	require.NoError(t, n.NotifyReady(ctx, 1, 7))

	assert.Equal(t, 1, sender.calls)
	assert.ElementsMatch(t, []string{"tok-1", "tok-2"}, sender.tokens)
	assert.Contains(t, sender.body, "#007", "body carries the zero-padded number")

	recipients, err := s.ListRecipients(ctx, 1, 7)
	require.NoError(t, err)
	require.Len(t, recipients, 2)
	for _, r := range recipients {
		require.NotNil(t, r.SendStatus)
		assert.Equal(t, model.SendStatusSuccess, *r.SendStatus)
		assert.NotNil(t, r.NotifiedAt)
	}
}

func TestNotifyReady_NoRecipients(t *testing.T) {
	s := newTestStore(t)
	sender := &mockSender{}
	n := NewNotifier(s, sender)

	require.NoError(t, n.NotifyReady(context.Background(), 1, 7))
	assert.Zero(t, sender.calls, "no send attempt without recipients")
}

func TestNotifyReady_PartialFailureMarksFailure(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RegisterRecipient(ctx, &model.QueueNotification{StoreID: 1, QueueNumber: 7, Token: "tok-1"}))
	require.NoError(t, s.RegisterRecipient(ctx, &model.QueueNotification{StoreID: 1, QueueNumber: 7, Token: "tok-2"}))

	sender := &mockSender{failed: 1}
	n := NewNotifier(s, sender)

	err := n.NotifyReady(ctx, 1, 7)
	assert.ErrorIs(t, err, ErrDeliveryFailed)

	recipients, listErr := s.ListRecipients(ctx, 1, 7)
	require.NoError(t, listErr)
	for _, r := range recipients {
		require.NotNil(t, r.SendStatus)
		assert.Equal(t, model.SendStatusFailure, *r.SendStatus)
	}
}

func TestNotifyReady_TransportErrorMarksFailure(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RegisterRecipient(ctx, &model.QueueNotification{StoreID: 1, QueueNumber: 7, Token: "tok-1"}))

	sender := &mockSender{err: assert.AnError}
	n := NewNotifier(s, sender)

	err := n.NotifyReady(ctx, 1, 7)
	assert.ErrorIs(t, err, ErrDeliveryFailed)

	recipients, listErr := s.ListRecipients(ctx, 1, 7)
	require.NoError(t, listErr)
	require.Len(t, recipients, 1)
	require.NotNil(t, recipients[0].SendStatus)
	assert.Equal(t, model.SendStatusFailure, *recipients[0].SendStatus)
}
