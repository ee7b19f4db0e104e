package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/kanban"
)

// orderRecord is the stored JSON form of a project's board.
type orderRecord struct {
	ProjectID string         `json:"projectId"`
	Entries   []kanban.Entry `json:"entries"`
}

// OrderKey is the bucket key holding a project's order record.
func OrderKey(projectID string) string {
	return "order." + projectID
}

// KVOrderStore implements OrderStore on top of a revisioned KVBucket.
type KVOrderStore struct {
	bucket     KVBucket
	newBackOff func() backoff.BackOff
}

const orderStoreMaxElapsed = 5 * time.Second

func newOrderStoreBackOff() backoff.BackOff {
	// BackOff implementations are stateful; always return a fresh instance.
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 10 * time.Millisecond
	bo.MaxInterval = 250 * time.Millisecond
	bo.MaxElapsedTime = orderStoreMaxElapsed
	return bo
}

func NewKVOrderStore(bucket KVBucket) *KVOrderStore {
	return &KVOrderStore{bucket: bucket, newBackOff: newOrderStoreBackOff}
}

// WithBackOff replaces the conflict retry policy.
func (s *KVOrderStore) WithBackOff(newBackOff func() backoff.BackOff) *KVOrderStore {
	s.newBackOff = newBackOff
	return s
}

func (s *KVOrderStore) Load(ctx context.Context, projectID string) (*kanban.Board, error) {
	board, _, err := s.load(ctx, projectID)
	return board, err
}

// load returns the stored board and its revision; a missing record is (nil, 0, nil).
func (s *KVOrderStore) load(ctx context.Context, projectID string) (*kanban.Board, uint64, error) {
	entry, err := s.bucket.Get(ctx, OrderKey(projectID))
	if errors.Is(err, ErrKeyNotFound) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("loading order for project %s: %w", projectID, err)
	}
	var rec orderRecord
	if err := json.Unmarshal(entry.Value, &rec); err != nil {
		return nil, 0, fmt.Errorf("decoding order for project %s: %w", projectID, err)
	}
	return kanban.FromEntries(projectID, rec.Entries), entry.Revision, nil
}

func (s *KVOrderStore) Apply(ctx context.Context, projectID string, seed SeedFunc, mutate func(*kanban.Board) error) (*kanban.Board, error) {
	var result *kanban.Board
	err := backoff.Retry(func() error {
		board, rev, err := s.load(ctx, projectID)
		if err != nil {
			return backoff.Permanent(err)
		}
		fresh := board == nil
		if fresh {
			if board, err = s.seed(ctx, projectID, seed); err != nil {
				return backoff.Permanent(err)
			}
		}
		if err := mutate(board); err != nil {
			return backoff.Permanent(err)
		}

		value, err := json.Marshal(orderRecord{ProjectID: projectID, Entries: board.Entries()})
		if err != nil {
			return backoff.Permanent(fmt.Errorf("encoding order for project %s: %w", projectID, err))
		}
		if fresh {
			_, err = s.bucket.Create(ctx, OrderKey(projectID), value)
		} else {
			_, err = s.bucket.Update(ctx, OrderKey(projectID), value, rev)
		}
		if errors.Is(err, ErrRevisionConflict) {
			return err
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		result = board
		return nil
	}, backoff.WithContext(s.newBackOff(), ctx))
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *KVOrderStore) seed(ctx context.Context, projectID string, seed SeedFunc) (*kanban.Board, error) {
	if seed == nil {
		return kanban.NewBoard(projectID), nil
	}
	board, err := seed(ctx)
	if err != nil {
		return nil, fmt.Errorf("seeding order for project %s: %w", projectID, err)
	}
	if board == nil {
		board = kanban.NewBoard(projectID)
	}
	return board, nil
}
