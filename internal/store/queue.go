package store

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"gorm.io/gorm"

	"tableqr-backend/internal/model"
)

const (
	// Queue numbers are displayed as three digits, so the pool is 1..999.
	maxQueueNumber = 999

	// Random draws before falling back to a linear scan of the pool.
	maxRandomDraws = 100

	// Full allocation retries when the insert loses a uniqueness race.
	maxInsertAttempts = 10
)

// AllocateTicket assigns a fresh display number to a new waiting ticket.
// Uniqueness among live tickets is enforced by the composite unique index on
// (store_id, queue_number); a losing insert is retried from scratch.
func (s *gormStore) AllocateTicket(ctx context.Context, storeID int64) (*model.Queue, error) {
	for attempt := 0; attempt < maxInsertAttempts; attempt++ {
		number, err := s.pickQueueNumber(ctx, storeID)
		if err != nil {
			return nil, err
		}

		ticket := model.Queue{
			StoreID:     storeID,
			QueueNumber: number,
			Status:      model.StatusWaiting,
		}
		err = s.db.WithContext(ctx).Create(&ticket).Error
		if err == nil {
			return &ticket, nil
		}
		if isDuplicateKey(err) {
			// Lost the race against a concurrent allocation for the same
			// number. Re-fetch the used set and try again.
			continue
		}
		return nil, fmt.Errorf("failed to insert ticket for store %d: %w", storeID, err)
	}
	return nil, ErrTransientConflict
}

// pickQueueNumber draws a random unused number, falling back to a linear scan
// once the random draws keep colliding.
func (s *gormStore) pickQueueNumber(ctx context.Context, storeID int64) (int, error) {
	var used []int
	if err := s.db.WithContext(ctx).
		Model(&model.Queue{}).
		Where("store_id = ?", storeID).
		Pluck("queue_number", &used).Error; err != nil {
		return 0, fmt.Errorf("failed to fetch used queue numbers for store %d: %w", storeID, err)
	}

	if len(used) >= maxQueueNumber {
		return 0, ErrAllocationExhausted
	}

	inUse := make(map[int]struct{}, len(used))
	for _, n := range used {
		inUse[n] = struct{}{}
	}

	for i := 0; i < maxRandomDraws; i++ {
		candidate := rand.Intn(maxQueueNumber) + 1
		if _, taken := inUse[candidate]; !taken {
			return candidate, nil
		}
	}

	for candidate := 1; candidate <= maxQueueNumber; candidate++ {
		if _, taken := inUse[candidate]; !taken {
			return candidate, nil
		}
	}
	return 0, ErrAllocationExhausted
}

// MarkReady transitions a waiting ticket to ready and stamps called_at. The
// status predicate on the update makes the transition race-safe; zero rows
// affected means either a missing ticket or one in the wrong state.
func (s *gormStore) MarkReady(ctx context.Context, queueID int64, now time.Time) (*model.Queue, error) {
	res := s.db.WithContext(ctx).
		Model(&model.Queue{}).
		Where("id = ? AND status = ?", queueID, model.StatusWaiting).
		Updates(map[string]any{"status": model.StatusReady, "called_at": now})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to mark ticket %d ready: %w", queueID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, s.transitionFailure(ctx, queueID)
	}
	return s.getTicket(ctx, queueID)
}

// MarkComplete transitions a ready ticket to completed and stamps completed_at.
func (s *gormStore) MarkComplete(ctx context.Context, queueID int64, now time.Time) (*model.Queue, error) {
	res := s.db.WithContext(ctx).
		Model(&model.Queue{}).
		Where("id = ? AND status = ?", queueID, model.StatusReady).
		Updates(map[string]any{"status": model.StatusCompleted, "completed_at": now})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to mark ticket %d complete: %w", queueID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, s.transitionFailure(ctx, queueID)
	}
	return s.getTicket(ctx, queueID)
}

// DeleteTicket removes a ticket regardless of its status. Deleting a ticket
// that no longer exists is a no-op.
func (s *gormStore) DeleteTicket(ctx context.Context, queueID int64) error {
	if err := s.db.WithContext(ctx).Delete(&model.Queue{}, queueID).Error; err != nil {
		return fmt.Errorf("failed to delete ticket %d: %w", queueID, err)
	}
	return nil
}

// ListBoard returns the store's live tickets partitioned by status, each
// partition ordered by creation time descending.
func (s *gormStore) ListBoard(ctx context.Context, storeID int64) (*model.Board, error) {
	var tickets []model.Queue
	if err := s.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&tickets).Error; err != nil {
		return nil, fmt.Errorf("failed to list tickets for store %d: %w", storeID, err)
	}

	board := &model.Board{
		Waiting:   []model.Queue{},
		Ready:     []model.Queue{},
		Completed: []model.Queue{},
	}
	for _, t := range tickets {
		switch t.Status {
		case model.StatusWaiting:
			board.Waiting = append(board.Waiting, t)
		case model.StatusReady:
			board.Ready = append(board.Ready, t)
		case model.StatusCompleted:
			board.Completed = append(board.Completed, t)
		}
	}
	return board, nil
}

// DeleteExpired removes completed tickets whose completed_at is before the
// cutoff, across all stores. Returns the number of rows removed.
func (s *gormStore) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("status = ? AND completed_at < ?", model.StatusCompleted, cutoff).
		Delete(&model.Queue{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete expired tickets: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// RegisterRecipient stores a push recipient for a (store, queue number) pair.
func (s *gormStore) RegisterRecipient(ctx context.Context, rec *model.QueueNotification) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to register recipient: %w", err)
	}
	return nil
}

// ListRecipients returns every recipient with a usable token for the pair.
func (s *gormStore) ListRecipients(ctx context.Context, storeID int64, queueNumber int) ([]model.QueueNotification, error) {
	var recipients []model.QueueNotification
	if err := s.db.WithContext(ctx).
		Where("store_id = ? AND queue_number = ? AND token <> ''", storeID, queueNumber).
		Find(&recipients).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipients for store %d #%d: %w", storeID, queueNumber, err)
	}
	return recipients, nil
}

// RecordSendOutcome stamps the delivery outcome on the given recipient rows.
func (s *gormStore) RecordSendOutcome(ctx context.Context, ids []int64, status string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).
		Model(&model.QueueNotification{}).
		Where("id IN ?", ids).
		Updates(map[string]any{"send_status": status, "notified_at": at}).Error; err != nil {
		return fmt.Errorf("failed to record send outcome: %w", err)
	}
	return nil
}

func (s *gormStore) getTicket(ctx context.Context, queueID int64) (*model.Queue, error) {
	var ticket model.Queue
	if err := s.db.WithContext(ctx).First(&ticket, queueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch ticket %d: %w", queueID, err)
	}
	return &ticket, nil
}

// transitionFailure distinguishes a missing ticket from one in the wrong state.
func (s *gormStore) transitionFailure(ctx context.Context, queueID int64) error {
	if _, err := s.getTicket(ctx, queueID); err != nil {
		return err
	}
	return ErrInvalidTransition
}

// isDuplicateKey reports whether an insert failed on a unique constraint.
// GORM translates driver errors when TranslateError is enabled; the string
// checks cover the sqlite test databases opened without it.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
