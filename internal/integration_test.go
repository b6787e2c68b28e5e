package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tableqr-backend/config"
	"tableqr-backend/internal/api"
	"tableqr-backend/internal/blob"
	"tableqr-backend/internal/db"
	"tableqr-backend/internal/image"
	"tableqr-backend/internal/model"
	"tableqr-backend/internal/notification"
	"tableqr-backend/internal/store"
	"tableqr-backend/internal/sweep"
)

// recordingSender captures the pushes the notifier hands it.
type recordingSender struct {
	tokens []string
	bodies []string
}

func (r *recordingSender) Send(_ context.Context, tokens []string, _, body string) (int, error) {
	r.tokens = append(r.tokens, tokens...)
	r.bodies = append(r.bodies, body)
	return 0, nil
}

// TestTicketJourney walks a ticket through its whole life: issued at the
// counter, pushed when the order is ready, completed, and finally reclaimed
// by the retention sweep so its number can be handed out again.
func TestTicketJourney(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testDB, err := gorm.Open(sqlite.Open("file:ticket_journey?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()
	require.NoError(t, db.Migrate(testDB))

	gormStore := store.NewGormStore(testDB)
	sender := &recordingSender{}
	notifier := notification.NewNotifier(gormStore, sender)
	pipeline := image.NewPipeline(blob.NewMemory("https://cdn.test"))

	h := api.NewHandler(gormStore, pipeline, notifier,
		&webpush.Options{VAPIDPublicKey: "pub"}, "https://tableqr.test")
	router := api.NewRouter(h, rate.Limit(1000), 1000, time.Minute)

	do := func(method, path string, body []byte) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewReader(body))
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	st := model.Store{Name: "Journey Diner"}
	require.NoError(t, gormStore.CreateStore(context.Background(), &st))

	var ticket model.Queue
	t.Run("Ticket Issued", func(t *testing.T) {
		w := do(http.MethodPost, fmt.Sprintf("/api/stores/%d/queues", st.ID), nil)
		require.Equal(t, http.StatusCreated, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ticket))
		assert.Equal(t, model.StatusWaiting, ticket.Status)
		assert.GreaterOrEqual(t, ticket.QueueNumber, 1)
		assert.LessOrEqual(t, ticket.QueueNumber, 999)
	})

	t.Run("Customer Registers For Push", func(t *testing.T) {
		payload := fmt.Sprintf(`{"store_id":%d,"queue_number":%d,"token":"device-1"}`, st.ID, ticket.QueueNumber)
		w := do(http.MethodPost, "/api/notifications", []byte(payload))
		require.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Ready Transition Sends Push", func(t *testing.T) {
		w := do(http.MethodPatch, fmt.Sprintf("/api/queues/%d/ready", ticket.ID), nil)
		require.Equal(t, http.StatusOK, w.Code)

		require.Len(t, sender.tokens, 1)
		assert.Equal(t, "device-1", sender.tokens[0])
		require.Len(t, sender.bodies, 1)
		assert.Contains(t, sender.bodies[0], fmt.Sprintf("#%03d", ticket.QueueNumber))

		recipients, err := gormStore.ListRecipients(context.Background(), st.ID, ticket.QueueNumber)
		require.NoError(t, err)
		require.Len(t, recipients, 1)
		require.NotNil(t, recipients[0].SendStatus)
		assert.Equal(t, model.SendStatusSuccess, *recipients[0].SendStatus)
	})

	t.Run("Completed And Swept", func(t *testing.T) {
		w := do(http.MethodPatch, fmt.Sprintf("/api/queues/%d/complete", ticket.ID), nil)
		require.Equal(t, http.StatusOK, w.Code)

		// Age the completion past the retention window.
		old := time.Now().UTC().Add(-2 * time.Hour)
		require.NoError(t, testDB.Model(&model.Queue{}).
			Where("id = ?", ticket.ID).
			Update("completed_at", old).Error)

		cfg := config.QueueConfig{SweepInterval: time.Minute, Retention: time.Hour}
		sweep.NewService(&cfg, gormStore).SweepOnce(context.Background())

		board, err := gormStore.ListBoard(context.Background(), st.ID)
		require.NoError(t, err)
		assert.Empty(t, board.Waiting)
		assert.Empty(t, board.Ready)
		assert.Empty(t, board.Completed)

		// The freed number is available again.
		fresh, err := gormStore.AllocateTicket(context.Background(), st.ID)
		require.NoError(t, err)
		assert.NotZero(t, fresh.ID)
	})
}

